package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/identitykit/account-service/internal/core/domain"
)

// identityClaims is the credential payload: the registered subject plus
// the identity-relevant fields of the record at issuance time.
type identityClaims struct {
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies HS256 credentials. Issue encodes the
// record's current state into a fresh token; it never touches storage.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (i *TokenIssuer) Issue(u *domain.User) (string, error) {
	now := time.Now()
	roles := make([]string, len(u.Roles))
	for idx, r := range u.Roles {
		roles[idx] = string(r)
	}

	claims := identityClaims{
		Email: u.Email,
		Name:  u.Name,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a credential and maps it back to the
// principal it was issued for.
func (i *TokenIssuer) Verify(token string) (domain.Principal, error) {
	claims := &identityClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.Principal{}, domain.ErrInvalidCredentials
	}

	roles := make([]domain.Role, 0, len(claims.Roles))
	for _, s := range claims.Roles {
		if r, ok := domain.ParseRole(s); ok {
			roles = append(roles, r)
		}
	}

	return domain.Principal{
		UserID: claims.Subject,
		Email:  claims.Email,
		Roles:  roles,
	}, nil
}
