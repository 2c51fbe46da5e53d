// Package auth issues and verifies the bearer tokens carried by API
// requests, and hashes worker login secrets.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"geo-attendance/internal/model"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the token payload: the worker's document id, employee code,
// role and display name.
type Claims struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	Role       model.Role `json:"role"`
	Name       string     `json:"name"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for the employee valid for the configured ttl.
func (t *TokenIssuer) Issue(emp *model.Employee) (string, error) {
	now := t.now()
	claims := Claims{
		ID:         emp.ID.Hex(),
		EmployeeID: emp.EmployeeID,
		Role:       emp.Role,
		Name:       emp.FullName(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature and expiry and returns the claims.
func (t *TokenIssuer) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
