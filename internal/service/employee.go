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
	"geo-attendance/internal/auth"
	"geo-attendance/internal/model"
	"geo-attendance/internal/store"
)

const notAssigned = "Not assigned"

type EmployeeService struct {
	employees EmployeeStore
	org       OrganizationStore
	now       func() time.Time
}

func NewEmployeeService(employees EmployeeStore, org OrganizationStore) *EmployeeService {
	return &EmployeeService{employees: employees, org: org, now: time.Now}
}

// EmployeeInput is the body of a worker creation request.
type EmployeeInput struct {
	EmployeeID       string                 `json:"employeeId"`
	FirstName        string                 `json:"firstName"`
	LastName         string                 `json:"lastName"`
	Email            string                 `json:"email"`
	Phone            string                 `json:"phone"`
	Department       string                 `json:"department"`
	Position         string                 `json:"position"`
	Status           model.EmployeeStatus   `json:"status"`
	Role             model.Role             `json:"role"`
	Address          model.Address          `json:"address"`
	EmergencyContact model.EmergencyContact `json:"emergencyContact"`
	Skills           []string               `json:"skills"`
}

// EmployeeUpdate carries the fields of a worker update. Nil fields are
// left unchanged. Employee code and email cannot be changed.
type EmployeeUpdate struct {
	FirstName        *string                 `json:"firstName"`
	LastName         *string                 `json:"lastName"`
	Phone            *string                 `json:"phone"`
	Department       *string                 `json:"department"`
	Position         *string                 `json:"position"`
	Status           *model.EmployeeStatus   `json:"status"`
	Role             *model.Role             `json:"role"`
	Address          *model.Address          `json:"address"`
	EmergencyContact *model.EmergencyContact `json:"emergencyContact"`
	Skills           []string                `json:"skills"`
}

type DepartmentRef struct {
	ID   bson.ObjectID `json:"id"`
	Name string        `json:"name"`
}

// EmployeeDetail is a worker with its department name populated.
type EmployeeDetail struct {
	*model.Employee
	Department  *DepartmentRef `json:"department"`
	DisplayName string         `json:"fullName"`
}

// EmployeeListItem is the row shown in the worker directory.
type EmployeeListItem struct {
	ID         bson.ObjectID        `json:"id"`
	EmployeeID string               `json:"employeeId"`
	Name       string               `json:"name"`
	Email      string               `json:"email"`
	Phone      string               `json:"phone"`
	Position   string               `json:"position"`
	Department string               `json:"department"`
	Status     model.EmployeeStatus `json:"status"`
	Role       model.Role           `json:"role"`
}

func (s *EmployeeService) Create(ctx context.Context, in EmployeeInput) (*EmployeeDetail, error) {
	in.EmployeeID = strings.TrimSpace(in.EmployeeID)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	if in.EmployeeID == "" || in.FirstName == "" || in.LastName == "" || in.Email == "" ||
		in.Phone == "" || in.Position == "" || in.Role == "" {
		return nil, ErrWorkerFieldsRequired
	}
	if !in.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if in.Status == "" {
		in.Status = model.EmployeeStatusActive
	}
	if !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	dept, err := s.resolveDepartment(ctx, in.Department)
	if err != nil {
		return nil, err
	}

	existing, err := s.employees.FindByEmployeeIDOrEmail(ctx, in.EmployeeID, in.Email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return nil, ErrWorkerExists
	}

	hash, err := auth.HashPassword(in.Phone)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("hash password: %w", err))
	}

	skills := in.Skills
	if skills == nil {
		skills = []string{}
	}
	emp := &model.Employee{
		EmployeeID:       in.EmployeeID,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Email:            in.Email,
		Phone:            in.Phone,
		PasswordHash:     hash,
		Position:         in.Position,
		HireDate:         s.now(),
		Status:           in.Status,
		Role:             in.Role,
		Address:          in.Address,
		EmergencyContact: in.EmergencyContact,
		Skills:           skills,
	}
	if dept != nil {
		emp.DepartmentID = &dept.ID
	}

	if err := s.employees.Create(ctx, emp); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrWorkerExists
		}
		return nil, apperr.Internal(fmt.Errorf("create worker: %w", err))
	}
	log.Printf("Created worker %s (%s)", emp.EmployeeID, emp.Role)
	return detail(emp, dept), nil
}

func (s *EmployeeService) Update(ctx context.Context, id string, up EmployeeUpdate) (*EmployeeDetail, error) {
	emp, err := s.getEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	if up.Role != nil {
		if !up.Role.Valid() {
			return nil, ErrInvalidRole
		}
		emp.Role = *up.Role
	}
	if up.Status != nil {
		if !up.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		emp.Status = *up.Status
	}
	if up.Department != nil {
		dept, err := s.resolveDepartment(ctx, *up.Department)
		if err != nil {
			return nil, err
		}
		emp.DepartmentID = nil
		if dept != nil {
			emp.DepartmentID = &dept.ID
		}
	}
	if up.Phone != nil && strings.TrimSpace(*up.Phone) != emp.Phone {
		phone := strings.TrimSpace(*up.Phone)
		if phone == "" {
			return nil, ErrWorkerFieldsRequired
		}
		hash, err := auth.HashPassword(phone)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("hash password: %w", err))
		}
		emp.Phone = phone
		emp.PasswordHash = hash
	}
	if up.FirstName != nil && *up.FirstName != "" {
		emp.FirstName = *up.FirstName
	}
	if up.LastName != nil && *up.LastName != "" {
		emp.LastName = *up.LastName
	}
	if up.Position != nil && *up.Position != "" {
		emp.Position = *up.Position
	}
	if up.Address != nil {
		emp.Address = *up.Address
	}
	if up.EmergencyContact != nil {
		emp.EmergencyContact = *up.EmergencyContact
	}
	if up.Skills != nil {
		emp.Skills = up.Skills
	}

	if err := s.employees.Update(ctx, emp); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrWorkerExists
		}
		return nil, apperr.Internal(fmt.Errorf("update worker: %w", err))
	}
	return s.withDepartment(ctx, emp)
}

func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrWorkerNotFound
	}
	deleted, err := s.employees.Delete(ctx, oid)
	if err != nil {
		return apperr.Internal(err)
	}
	if !deleted {
		return ErrWorkerNotFound
	}
	log.Printf("Deleted worker %s", id)
	return nil
}

func (s *EmployeeService) Get(ctx context.Context, id string) (*EmployeeDetail, error) {
	emp, err := s.getEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withDepartment(ctx, emp)
}

// List returns the worker directory ordered by last then first name.
func (s *EmployeeService) List(ctx context.Context) ([]EmployeeListItem, error) {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	departments, err := s.org.ListDepartments(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	names := make(map[bson.ObjectID]string, len(departments))
	for _, d := range departments {
		names[d.ID] = d.Name
	}

	items := make([]EmployeeListItem, 0, len(employees))
	for _, e := range employees {
		dept := notAssigned
		if e.DepartmentID != nil {
			if name, ok := names[*e.DepartmentID]; ok {
				dept = name
			}
		}
		items = append(items, EmployeeListItem{
			ID:         e.ID,
			EmployeeID: e.EmployeeID,
			Name:       e.FullName(),
			Email:      e.Email,
			Phone:      e.Phone,
			Position:   e.Position,
			Department: dept,
			Status:     e.Status,
			Role:       e.Role,
		})
	}
	return items, nil
}

func (s *EmployeeService) getEmployee(ctx context.Context, id string) (*model.Employee, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrWorkerNotFound
	}
	emp, err := s.employees.GetByID(ctx, oid)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if emp == nil {
		return nil, ErrWorkerNotFound
	}
	return emp, nil
}

// resolveDepartment returns nil for an empty id.
func (s *EmployeeService) resolveDepartment(ctx context.Context, id string) (*model.Department, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidDepartmentID
	}
	dept, err := s.org.GetDepartment(ctx, oid)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if dept == nil {
		return nil, ErrDepartmentNotFound
	}
	return dept, nil
}

func (s *EmployeeService) withDepartment(ctx context.Context, emp *model.Employee) (*EmployeeDetail, error) {
	if emp.DepartmentID == nil {
		return detail(emp, nil), nil
	}
	dept, err := s.org.GetDepartment(ctx, *emp.DepartmentID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return detail(emp, dept), nil
}

func detail(emp *model.Employee, dept *model.Department) *EmployeeDetail {
	d := &EmployeeDetail{Employee: emp, DisplayName: emp.FullName()}
	if dept != nil {
		d.Department = &DepartmentRef{ID: dept.ID, Name: dept.Name}
	}
	return d
}
