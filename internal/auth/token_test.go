package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"

	"geo-attendance/internal/model"
)

func testEmployee() *model.Employee {
	return &model.Employee{
		ID:         bson.NewObjectID(),
		EmployeeID: "EMP001",
		FirstName:  "Asha",
		LastName:   "Rao",
		Role:       model.RoleEmployee,
	}
}

func TestIssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("secret", 24*time.Hour)
	emp := testEmployee()

	token, err := issuer.Issue(emp)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.ID != emp.ID.Hex() || claims.EmployeeID != "EMP001" || claims.Role != model.RoleEmployee {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Name != "Asha Rao" {
		t.Errorf("Name = %q", claims.Name)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != 24*time.Hour {
		t.Errorf("token lifetime = %v, want 24h", got)
	}
}

func TestParseExpired(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	issuer.now = func() time.Time { return issued }
	token, err := issuer.Issue(testEmployee())
	if err != nil {
		t.Fatal(err)
	}

	issuer.now = time.Now
	if _, err := issuer.Parse(token); err != ErrInvalidToken {
		t.Fatalf("Parse expired = %v, want ErrInvalidToken", err)
	}
}

func TestParseWrongSecret(t *testing.T) {
	token, _ := NewTokenIssuer("secret", time.Hour).Issue(testEmployee())
	if _, err := NewTokenIssuer("other", time.Hour).Parse(token); err != ErrInvalidToken {
		t.Fatalf("Parse = %v, want ErrInvalidToken", err)
	}
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		ID:   "x",
		Role: model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokenIssuer("secret", time.Hour).Parse(unsigned); err != ErrInvalidToken {
		t.Fatalf("Parse(alg=none) = %v, want ErrInvalidToken", err)
	}
}

func TestParseRequiresExpiry(t *testing.T) {
	claims := Claims{ID: "x", Role: model.RoleAdmin}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokenIssuer("secret", time.Hour).Parse(token); err != ErrInvalidToken {
		t.Fatalf("Parse(no exp) = %v, want ErrInvalidToken", err)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, tok := range []string{"", "abc", "a.b.c"} {
		if _, err := NewTokenIssuer("secret", time.Hour).Parse(tok); err != ErrInvalidToken {
			t.Errorf("Parse(%q) = %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("9876543210")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(hash, "9876543210") {
		t.Error("CheckPassword rejected the correct phone")
	}
	if CheckPassword(hash, "9876543211") {
		t.Error("CheckPassword accepted a wrong phone")
	}
	if CheckPassword("", "") {
		t.Error("empty hash must never match")
	}
}
