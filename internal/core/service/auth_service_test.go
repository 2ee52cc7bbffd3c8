package service

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/identitykit/account-service/internal/core/domain"
)

func userWithPassword(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	return &domain.User{
		ID:           "u-carol",
		Email:        "carol@example.com",
		Name:         "Carol",
		PasswordHash: string(hash),
		Roles:        []domain.Role{domain.RoleAdmin},
		Version:      1,
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo(userWithPassword(t, "s3cret"))
	svc := NewAuthService(repo, NewTokenIssuer("secret", time.Hour))

	token, user, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.Email != "carol@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	principal, err := NewTokenIssuer("secret", time.Hour).Verify(token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if principal.UserID != "u-carol" || !principal.CanActAsAdmin() {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	repo := newStubUserRepo(userWithPassword(t, "goodpass"))
	svc := NewAuthService(repo, NewTokenIssuer("secret", time.Hour))

	if _, _, err := svc.Login(context.Background(), "carol@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, NewTokenIssuer("secret", time.Hour))

	// Unknown accounts are indistinguishable from bad passwords.
	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_EmptyInput(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, NewTokenIssuer("secret", time.Hour))

	if _, _, err := svc.Login(context.Background(), "", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
