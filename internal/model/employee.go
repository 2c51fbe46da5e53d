package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

type EmployeeStatus string

const (
	EmployeeStatusActive     EmployeeStatus = "Active"
	EmployeeStatusOnLeave    EmployeeStatus = "On Leave"
	EmployeeStatusTerminated EmployeeStatus = "Terminated"
	EmployeeStatusProbation  EmployeeStatus = "Probation"
)

func (s EmployeeStatus) Valid() bool {
	switch s {
	case EmployeeStatusActive, EmployeeStatusOnLeave, EmployeeStatusTerminated, EmployeeStatusProbation:
		return true
	}
	return false
}

type Address struct {
	Street  string `bson:"street,omitempty" json:"street,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode string `bson:"zip_code,omitempty" json:"zipCode,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
}

type EmergencyContact struct {
	Name         string `bson:"name,omitempty" json:"name,omitempty"`
	Relationship string `bson:"relationship,omitempty" json:"relationship,omitempty"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Employee is a worker record. PasswordHash is the bcrypt hash of the
// phone number used to log in.
type Employee struct {
	ID               bson.ObjectID    `bson:"_id,omitempty" json:"id"`
	EmployeeID       string           `bson:"employee_id" json:"employeeId"`
	FirstName        string           `bson:"first_name" json:"firstName"`
	LastName         string           `bson:"last_name" json:"lastName"`
	Email            string           `bson:"email" json:"email"`
	Phone            string           `bson:"phone" json:"phone"`
	PasswordHash     string           `bson:"password_hash,omitempty" json:"-"`
	DepartmentID     *bson.ObjectID   `bson:"department_id,omitempty" json:"department,omitempty"`
	Position         string           `bson:"position" json:"position"`
	HireDate         time.Time        `bson:"hire_date" json:"hireDate"`
	Status           EmployeeStatus   `bson:"status" json:"status"`
	Role             Role             `bson:"role,omitempty" json:"role"`
	Address          Address          `bson:"address" json:"address"`
	EmergencyContact EmergencyContact `bson:"emergency_contact" json:"emergencyContact"`
	Skills           []string         `bson:"skills" json:"skills"`
	CreatedAt        time.Time        `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time        `bson:"updated_at" json:"updatedAt"`
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
