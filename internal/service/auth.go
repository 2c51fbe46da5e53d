package service

import (
	"context"
	"log"
	"strings"

	"geo-attendance/internal/apperr"
	"geo-attendance/internal/auth"
	"geo-attendance/internal/model"
)

type UserInfo struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	Role       model.Role `json:"role"`
	Name       string     `json:"name"`
}

type LoginResult struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

type AuthService struct {
	employees EmployeeStore
	tokens    *auth.TokenIssuer
}

func NewAuthService(employees EmployeeStore, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{employees: employees, tokens: tokens}
}

// Login checks the worker's phone number against the stored hash and
// issues a bearer token.
func (s *AuthService) Login(ctx context.Context, employeeID, password string) (*LoginResult, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	emp, err := s.employees.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if emp == nil || !auth.CheckPassword(emp.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(emp)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	log.Printf("Login %s (%s)", emp.EmployeeID, emp.Role)
	return &LoginResult{
		Token: token,
		User: UserInfo{
			ID:         emp.ID.Hex(),
			EmployeeID: emp.EmployeeID,
			Role:       emp.Role,
			Name:       emp.FullName(),
		},
	}, nil
}
