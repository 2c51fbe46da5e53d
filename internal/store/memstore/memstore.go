// Package memstore provides in-memory implementations of the store
// interfaces used by the services. Values are copied on the way in and
// out so callers cannot mutate stored state. It backs the service and
// handler tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"geo-attendance/internal/model"
	"geo-attendance/internal/store"
)

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

type CheckinStore struct {
	mu   sync.Mutex
	data map[bson.ObjectID]model.Checkin
}

func NewCheckinStore() *CheckinStore {
	return &CheckinStore{data: map[bson.ObjectID]model.Checkin{}}
}

func (s *CheckinStore) Create(_ context.Context, c *model.Checkin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	c.ID = bson.NewObjectID()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.data[c.ID] = *c
	return nil
}

func (s *CheckinStore) GetByID(_ context.Context, id bson.ObjectID) (*model.Checkin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.data[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *CheckinStore) Update(_ context.Context, c *model.Checkin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[c.ID]; !ok {
		return fmt.Errorf("update checkin: %s not found", c.ID.Hex())
	}
	c.UpdatedAt = time.Now()
	s.data[c.ID] = *c
	return nil
}

// Latest orders by creation time, falling back to insertion order via
// the object id when two records share a timestamp.
func (s *CheckinStore) Latest(_ context.Context, employeeID bson.ObjectID) (*model.Checkin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *model.Checkin
	for _, c := range s.data {
		if c.EmployeeID != employeeID {
			continue
		}
		if latest == nil || newer(c, *latest) {
			c := c
			latest = &c
		}
	}
	return latest, nil
}

func newer(a, b model.Checkin) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.Hex() > b.ID.Hex()
}

func (s *CheckinStore) ListByStatus(_ context.Context, statuses []model.CheckinStatus, from, to *time.Time) ([]*model.Checkin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := map[model.CheckinStatus]bool{}
	for _, st := range statuses {
		want[st] = true
	}
	var out []*model.Checkin
	for _, c := range s.data {
		if !want[c.Status] || !inRange(c.CreatedAt, from, to) {
			continue
		}
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return newer(*out[i], *out[j]) })
	return out, nil
}

func (s *CheckinStore) GetByIDs(_ context.Context, ids []bson.ObjectID) (map[bson.ObjectID]*model.Checkin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[bson.ObjectID]*model.Checkin, len(ids))
	for _, id := range ids {
		if c, ok := s.data[id]; ok {
			out[id] = &c
		}
	}
	return out, nil
}

// CheckoutStore enforces one checkout per check-in the same way the
// unique index on checkin_id does.
type CheckoutStore struct {
	mu   sync.Mutex
	data map[bson.ObjectID]model.Checkout
}

func NewCheckoutStore() *CheckoutStore {
	return &CheckoutStore{data: map[bson.ObjectID]model.Checkout{}}
}

func (s *CheckoutStore) Create(_ context.Context, c *model.Checkout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.data {
		if existing.CheckinID == c.CheckinID {
			return fmt.Errorf("%w: checkin_id %s", store.ErrDuplicate, c.CheckinID.Hex())
		}
	}
	now := time.Now()
	c.ID = bson.NewObjectID()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.data[c.ID] = *c
	return nil
}

func (s *CheckoutStore) GetByCheckin(_ context.Context, checkinID bson.ObjectID) (*model.Checkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.data {
		if c.CheckinID == checkinID {
			return &c, nil
		}
	}
	return nil, nil
}

func (s *CheckoutStore) List(_ context.Context, from, to *time.Time) ([]*model.Checkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Checkout
	for _, c := range s.data {
		if !inRange(c.Timestamp, from, to) {
			continue
		}
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// EmployeeStore mirrors the unique employee_id, email and phone indexes.
type EmployeeStore struct {
	mu   sync.Mutex
	data map[bson.ObjectID]model.Employee
}

func NewEmployeeStore() *EmployeeStore {
	return &EmployeeStore{data: map[bson.ObjectID]model.Employee{}}
}

func cloneEmployee(e model.Employee) *model.Employee {
	e.Skills = cloneStrings(e.Skills)
	if e.DepartmentID != nil {
		id := *e.DepartmentID
		e.DepartmentID = &id
	}
	return &e
}

func (s *EmployeeStore) conflicts(e *model.Employee) bool {
	for id, other := range s.data {
		if id == e.ID {
			continue
		}
		if other.EmployeeID == e.EmployeeID || other.Email == e.Email || (e.Phone != "" && other.Phone == e.Phone) {
			return true
		}
	}
	return false
}

func (s *EmployeeStore) Create(_ context.Context, e *model.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflicts(e) {
		return fmt.Errorf("%w: worker %s", store.ErrDuplicate, e.EmployeeID)
	}
	now := time.Now()
	e.ID = bson.NewObjectID()
	e.CreatedAt = now
	e.UpdatedAt = now
	s.data[e.ID] = *cloneEmployee(*e)
	return nil
}

func (s *EmployeeStore) GetByID(_ context.Context, id bson.ObjectID) (*model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[id]
	if !ok {
		return nil, nil
	}
	return cloneEmployee(e), nil
}

func (s *EmployeeStore) GetByEmployeeID(_ context.Context, employeeID string) (*model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.data {
		if e.EmployeeID == employeeID {
			return cloneEmployee(e), nil
		}
	}
	return nil, nil
}

func (s *EmployeeStore) FindByEmployeeIDOrEmail(_ context.Context, employeeID, email string) (*model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.data {
		if e.EmployeeID == employeeID || e.Email == email {
			return cloneEmployee(e), nil
		}
	}
	return nil, nil
}

func (s *EmployeeStore) Update(_ context.Context, e *model.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[e.ID]; !ok {
		return fmt.Errorf("update worker: %s not found", e.ID.Hex())
	}
	if s.conflicts(e) {
		return fmt.Errorf("%w: worker %s", store.ErrDuplicate, e.EmployeeID)
	}
	e.UpdatedAt = time.Now()
	s.data[e.ID] = *cloneEmployee(*e)
	return nil
}

func (s *EmployeeStore) Delete(_ context.Context, id bson.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *EmployeeStore) List(_ context.Context) ([]*model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Employee, 0, len(s.data))
	for _, e := range s.data {
		out = append(out, cloneEmployee(e))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func (s *EmployeeStore) GetByIDs(_ context.Context, ids []bson.ObjectID) (map[bson.ObjectID]*model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[bson.ObjectID]*model.Employee, len(ids))
	for _, id := range ids {
		if e, ok := s.data[id]; ok {
			out[id] = cloneEmployee(e)
		}
	}
	return out, nil
}

// OrganizationStore keeps departments, teams and zones with unique names.
type OrganizationStore struct {
	mu          sync.Mutex
	departments map[bson.ObjectID]model.Department
	teams       map[bson.ObjectID]model.Team
	zones       map[string]model.Zone
}

func NewOrganizationStore() *OrganizationStore {
	return &OrganizationStore{
		departments: map[bson.ObjectID]model.Department{},
		teams:       map[bson.ObjectID]model.Team{},
		zones:       map[string]model.Zone{},
	}
}

func cloneDepartment(d model.Department) *model.Department {
	d.Tasks = cloneStrings(d.Tasks)
	return &d
}

func cloneTeam(t model.Team) *model.Team {
	t.Workers = cloneStrings(t.Workers)
	t.Tasks = cloneStrings(t.Tasks)
	return &t
}

func cloneZone(z model.Zone) *model.Zone {
	z.Tasks = cloneStrings(z.Tasks)
	if z.TeamID != nil {
		id := *z.TeamID
		z.TeamID = &id
	}
	return &z
}

func (s *OrganizationStore) CreateDepartment(_ context.Context, d *model.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.departments {
		if other.Name == d.Name {
			return fmt.Errorf("%w: department %s", store.ErrDuplicate, d.Name)
		}
	}
	now := time.Now()
	d.ID = bson.NewObjectID()
	d.CreatedAt = now
	d.UpdatedAt = now
	s.departments[d.ID] = *cloneDepartment(*d)
	return nil
}

func (s *OrganizationStore) GetDepartment(_ context.Context, id bson.ObjectID) (*model.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.departments[id]
	if !ok {
		return nil, nil
	}
	return cloneDepartment(d), nil
}

func (s *OrganizationStore) GetDepartmentByName(_ context.Context, name string) (*model.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.departments {
		if d.Name == name {
			return cloneDepartment(d), nil
		}
	}
	return nil, nil
}

func (s *OrganizationStore) ListDepartments(_ context.Context) ([]*model.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Department, 0, len(s.departments))
	for _, d := range s.departments {
		out = append(out, cloneDepartment(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *OrganizationStore) DeleteDepartment(_ context.Context, id bson.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.departments[id]; !ok {
		return false, nil
	}
	delete(s.departments, id)
	return true, nil
}

func (s *OrganizationStore) teamNameTaken(t *model.Team) bool {
	for id, other := range s.teams {
		if id != t.ID && other.Name == t.Name {
			return true
		}
	}
	return false
}

func (s *OrganizationStore) CreateTeam(_ context.Context, t *model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.teamNameTaken(t) {
		return fmt.Errorf("%w: team %s", store.ErrDuplicate, t.Name)
	}
	now := time.Now()
	t.ID = bson.NewObjectID()
	t.CreatedAt = now
	t.UpdatedAt = now
	s.teams[t.ID] = *cloneTeam(*t)
	return nil
}

func (s *OrganizationStore) GetTeam(_ context.Context, id bson.ObjectID) (*model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[id]
	if !ok {
		return nil, nil
	}
	return cloneTeam(t), nil
}

func (s *OrganizationStore) GetTeamByName(_ context.Context, name string) (*model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.teams {
		if t.Name == name {
			return cloneTeam(t), nil
		}
	}
	return nil, nil
}

func (s *OrganizationStore) ListTeams(_ context.Context) ([]*model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Team, 0, len(s.teams))
	for _, t := range s.teams {
		out = append(out, cloneTeam(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *OrganizationStore) UpdateTeam(_ context.Context, t *model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[t.ID]; !ok {
		return fmt.Errorf("update team: %s not found", t.ID.Hex())
	}
	if s.teamNameTaken(t) {
		return fmt.Errorf("%w: team %s", store.ErrDuplicate, t.Name)
	}
	t.UpdatedAt = time.Now()
	s.teams[t.ID] = *cloneTeam(*t)
	return nil
}

func (s *OrganizationStore) DeleteTeam(_ context.Context, id bson.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[id]; !ok {
		return false, nil
	}
	delete(s.teams, id)
	return true, nil
}

func (s *OrganizationStore) UpsertZone(_ context.Context, z *model.Zone) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	key := strings.TrimSpace(z.Name)
	existing, ok := s.zones[key]
	if ok {
		z.ID = existing.ID
		z.CreatedAt = existing.CreatedAt
	} else {
		z.ID = bson.NewObjectID()
		z.CreatedAt = now
	}
	z.UpdatedAt = now
	s.zones[key] = *cloneZone(*z)
	return nil
}

func (s *OrganizationStore) ListZones(_ context.Context) ([]*model.Zone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Zone, 0, len(s.zones))
	for _, z := range s.zones {
		out = append(out, cloneZone(z))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
