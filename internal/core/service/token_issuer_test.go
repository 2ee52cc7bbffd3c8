package service

import (
	"testing"
	"time"

	"github.com/identitykit/account-service/internal/core/domain"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	user := &domain.User{
		ID:    "u1",
		Email: "alice@example.com",
		Name:  "Alice",
		Roles: []domain.Role{domain.RoleAdmin},
	}

	token, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}

	principal, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if principal.UserID != "u1" || principal.Email != "alice@example.com" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
	if !principal.CanActAsAdmin() {
		t.Fatalf("expected admin capability from claims")
	}
}

func TestTokenIssuer_ReissueReflectsNewIdentity(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	user := &domain.User{ID: "u1", Email: "a@example.com", Name: "Before"}

	first, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	user.Name = "After"
	second, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("reissue failed: %v", err)
	}
	if first == second {
		t.Fatalf("reissued credential must differ from the original")
	}
}

func TestTokenIssuer_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	other := NewTokenIssuer("different", time.Hour)
	user := &domain.User{ID: "u1", Email: "a@example.com"}

	token, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := other.Verify(token); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	user := &domain.User{ID: "u1"}

	token, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	short := NewTokenIssuer("secret", time.Hour)
	short.ttl = time.Millisecond
	expired, err := short.Issue(user)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	if _, err := short.Verify(expired); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for expired token, got %v", err)
	}
	if _, err := issuer.Verify(token); err != nil {
		t.Fatalf("fresh token rejected: %v", err)
	}
}
