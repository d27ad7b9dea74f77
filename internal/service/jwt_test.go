package service

import (
	"errors"
	"testing"

	"github.com/himalbox/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueUserTokenRoundTrip(t *testing.T) {
	user := &models.User{
		ID:           42,
		Email:        "user@example.com",
		TokenVersion: 3,
	}
	token, err := IssueUserToken(user, "test-secret", 1)
	if err != nil {
		t.Fatalf("issue user token failed: %v", err)
	}

	claims := &UserJWTClaims{}
	parsed, err := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})).
		ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse user token failed: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "user@example.com" || claims.TokenVersion != 3 {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatalf("expected issued/expiry timestamps, got %+v", claims)
	}
}

func TestIssueUserTokenGuards(t *testing.T) {
	if _, err := IssueUserToken(&models.User{ID: 1}, "  ", 1); !errors.Is(err, ErrJWTSecretMissing) {
		t.Fatalf("expected ErrJWTSecretMissing, got %v", err)
	}
	if _, err := IssueUserToken(nil, "secret", 1); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestIssueAdminTokenRoundTrip(t *testing.T) {
	token, err := IssueAdminToken(" ops ", "admin-secret", 0)
	if err != nil {
		t.Fatalf("issue admin token failed: %v", err)
	}

	claims := &AdminJWTClaims{}
	parsed, err := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})).
		ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte("admin-secret"), nil
		})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse admin token failed: %v", err)
	}
	if claims.Username != "ops" {
		t.Fatalf("expected trimmed username, got %q", claims.Username)
	}
}
