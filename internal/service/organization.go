package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"geo-attendance/internal/apperr"
	"geo-attendance/internal/model"
	"geo-attendance/internal/store"
)

// OrganizationService manages departments, teams and zones. Teams carry
// a copy of their department's tasks; zones carry a copy of their team's
// department tasks taken at assignment time.
type OrganizationService struct {
	org OrganizationStore
	now func() time.Time
}

func NewOrganizationService(org OrganizationStore) *OrganizationService {
	return &OrganizationService{org: org, now: time.Now}
}

type DepartmentInput struct {
	Name  string   `json:"name"`
	Tasks []string `json:"tasks"`
}

type TeamInput struct {
	Name       string   `json:"name"`
	Department string   `json:"department"`
	Workers    []string `json:"workers"`
	Supervisor string   `json:"supervisor"`
}

// TeamView is a team with its department populated.
type TeamView struct {
	*model.Team
	Department *DepartmentSummary `json:"department"`
}

type DepartmentSummary struct {
	ID    bson.ObjectID `json:"id"`
	Name  string        `json:"name"`
	Tasks []string      `json:"tasks"`
}

type ZoneAssignment struct {
	Name string `json:"name"`
	Team string `json:"team"`
}

// Departments

func (s *OrganizationService) CreateDepartment(ctx context.Context, in DepartmentInput) (*model.Department, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrDepartmentNameRequired
	}
	existing, err := s.org.GetDepartmentByName(ctx, name)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return nil, ErrDepartmentExists
	}

	tasks := in.Tasks
	if tasks == nil {
		tasks = []string{}
	}
	d := &model.Department{Name: name, Tasks: tasks}
	if err := s.org.CreateDepartment(ctx, d); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDepartmentExists
		}
		return nil, apperr.Internal(fmt.Errorf("create department: %w", err))
	}
	log.Printf("Created department %s", d.Name)
	return d, nil
}

func (s *OrganizationService) ListDepartments(ctx context.Context) ([]*model.Department, error) {
	departments, err := s.org.ListDepartments(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return departments, nil
}

// DepartmentTasks returns the task list of one department.
func (s *OrganizationService) DepartmentTasks(ctx context.Context, id string) ([]string, error) {
	d, err := s.department(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Tasks == nil {
		return []string{}, nil
	}
	return d.Tasks, nil
}

func (s *OrganizationService) DeleteDepartment(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrDepartmentNotFound
	}
	deleted, err := s.org.DeleteDepartment(ctx, oid)
	if err != nil {
		return apperr.Internal(err)
	}
	if !deleted {
		return ErrDepartmentNotFound
	}
	log.Printf("Deleted department %s", id)
	return nil
}

func (s *OrganizationService) department(ctx context.Context, id string) (*model.Department, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrDepartmentNotFound
	}
	d, err := s.org.GetDepartment(ctx, oid)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if d == nil {
		return nil, ErrDepartmentNotFound
	}
	return d, nil
}

// Teams

func (s *OrganizationService) CreateTeam(ctx context.Context, in TeamInput) (*TeamView, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.Department) == "" {
		return nil, ErrTeamFieldsRequired
	}
	existing, err := s.org.GetTeamByName(ctx, name)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return nil, ErrTeamExists
	}
	dept, err := s.department(ctx, in.Department)
	if err != nil {
		return nil, err
	}

	workers := in.Workers
	if workers == nil {
		workers = []string{}
	}
	t := &model.Team{
		Name:         name,
		DepartmentID: dept.ID,
		Workers:      workers,
		Supervisor:   in.Supervisor,
		Tasks:        copyTasks(dept.Tasks),
	}
	if err := s.org.CreateTeam(ctx, t); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrTeamExists
		}
		return nil, apperr.Internal(fmt.Errorf("create team: %w", err))
	}
	log.Printf("Created team %s in %s", t.Name, dept.Name)
	return teamView(t, dept), nil
}

// UpdateTeam applies the non-empty fields of in. The task list is
// refreshed from the department on every save.
func (s *OrganizationService) UpdateTeam(ctx context.Context, id string, in TeamInput) (*TeamView, error) {
	t, err := s.team(ctx, id)
	if err != nil {
		return nil, err
	}

	deptID := t.DepartmentID.Hex()
	if d := strings.TrimSpace(in.Department); d != "" {
		deptID = d
	}
	dept, err := s.department(ctx, deptID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		t.Name = name
	}
	if in.Workers != nil {
		t.Workers = in.Workers
	}
	if in.Supervisor != "" {
		t.Supervisor = in.Supervisor
	}
	t.DepartmentID = dept.ID
	t.Tasks = copyTasks(dept.Tasks)

	if err := s.org.UpdateTeam(ctx, t); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrTeamExists
		}
		return nil, apperr.Internal(fmt.Errorf("update team: %w", err))
	}
	return teamView(t, dept), nil
}

func (s *OrganizationService) GetTeam(ctx context.Context, id string) (*TeamView, error) {
	t, err := s.team(ctx, id)
	if err != nil {
		return nil, err
	}
	dept, err := s.org.GetDepartment(ctx, t.DepartmentID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return teamView(t, dept), nil
}

func (s *OrganizationService) ListTeams(ctx context.Context) ([]*TeamView, error) {
	teams, err := s.org.ListTeams(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	departments, err := s.org.ListDepartments(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	byID := make(map[bson.ObjectID]*model.Department, len(departments))
	for _, d := range departments {
		byID[d.ID] = d
	}

	views := make([]*TeamView, 0, len(teams))
	for _, t := range teams {
		views = append(views, teamView(t, byID[t.DepartmentID]))
	}
	return views, nil
}

func (s *OrganizationService) DeleteTeam(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrTeamNotFound
	}
	deleted, err := s.org.DeleteTeam(ctx, oid)
	if err != nil {
		return apperr.Internal(err)
	}
	if !deleted {
		return ErrTeamNotFound
	}
	log.Printf("Deleted team %s", id)
	return nil
}

func (s *OrganizationService) team(ctx context.Context, id string) (*model.Team, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrTeamNotFound
	}
	t, err := s.org.GetTeam(ctx, oid)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if t == nil {
		return nil, ErrTeamNotFound
	}
	return t, nil
}

// Zones

// AssignZone assigns a team to the zone with the given name, creating
// the zone if needed. The zone takes the tasks of the team's department.
func (s *OrganizationService) AssignZone(ctx context.Context, in ZoneAssignment) (*model.Zone, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.Team) == "" {
		return nil, ErrZoneFieldsRequired
	}
	teamID, err := bson.ObjectIDFromHex(strings.TrimSpace(in.Team))
	if err != nil {
		return nil, ErrZoneTeamNotFound
	}
	t, err := s.org.GetTeam(ctx, teamID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if t == nil {
		return nil, ErrZoneTeamNotFound
	}
	dept, err := s.org.GetDepartment(ctx, t.DepartmentID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if dept == nil {
		return nil, ErrZoneTeamNotFound
	}

	z := &model.Zone{
		Name:       name,
		TeamID:     &t.ID,
		Tasks:      copyTasks(dept.Tasks),
		AssignedAt: s.now(),
	}
	if err := s.org.UpsertZone(ctx, z); err != nil {
		return nil, apperr.Internal(err)
	}
	log.Printf("Assigned team %s to zone %s", t.Name, z.Name)
	return z, nil
}

func (s *OrganizationService) ListZones(ctx context.Context) ([]*model.Zone, error) {
	zones, err := s.org.ListZones(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return zones, nil
}

func teamView(t *model.Team, dept *model.Department) *TeamView {
	v := &TeamView{Team: t}
	if dept != nil {
		v.Department = &DepartmentSummary{ID: dept.ID, Name: dept.Name, Tasks: dept.Tasks}
	}
	return v
}

func copyTasks(tasks []string) []string {
	out := make([]string, len(tasks))
	copy(out, tasks)
	return out
}
