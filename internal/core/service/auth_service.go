package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/identitykit/account-service/internal/core/domain"
	"github.com/identitykit/account-service/internal/core/ports"
)

// AuthService implements login. Registration and password changes are
// handled by a separate provisioning flow, not this service.
type AuthService struct {
	repo   ports.UserRepository
	issuer ports.TokenIssuer
}

func NewAuthService(repo ports.UserRepository, issuer ports.TokenIssuer) *AuthService {
	return &AuthService{repo: repo, issuer: issuer}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}
