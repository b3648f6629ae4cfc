package auth

import (
	"errors"
	"testing"
	"time"

	"server/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:   "11111111-1111-1111-1111-111111111111",
		Tier: domain.MembershipTier2,
		Role: domain.UserRoleAdmin,
	}
}

func TestIssueAndVerify(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	token, err := m.Issue(testUser(), now)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Subject != "11111111-1111-1111-1111-111111111111" {
		t.Fatalf("Subject = %q", claims.Subject)
	}
	if claims.Tier != domain.MembershipTier2 {
		t.Fatalf("Tier = %q", claims.Tier)
	}
	if claims.Role != domain.UserRoleAdmin {
		t.Fatalf("Role = %q", claims.Role)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	token, err := m.Issue(testUser(), time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Issue(testUser(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokenManager("secret-b", time.Hour).Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	if _, err := m.Verify("not.a.token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
