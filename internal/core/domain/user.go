package domain

import (
	"errors"
	"time"
)

// Role is a tag in the closed role enumeration. Every account implicitly
// carries the base membership; only the extra tags are stored.
type Role string

const (
	RoleUnverified Role = "UNVERIFIED"
	RoleBlocked    Role = "BLOCKED"
	RoleAdmin      Role = "ADMIN"
)

var ErrUserNotFound = errors.New("user not found")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidName = errors.New("invalid display name")
var ErrInvalidRoles = errors.New("invalid role set")
var ErrVersionConflict = errors.New("version conflict")
var ErrInvalidCredentials = errors.New("invalid credentials")

// IsValid reports whether the role belongs to the closed enumeration.
func (r Role) IsValid() bool {
	switch r {
	case RoleUnverified, RoleBlocked, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole converts a string to a Role, reporting whether it is known.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.IsValid()
}

// User is the core aggregate root. The unverified/admin flags are never
// stored; they are derived from the role set so they cannot desync. The
// verification code is real state: it exists exactly while the account
// holds the UNVERIFIED role.
type User struct {
	ID               string    `json:"id" bson:"_id"`
	Email            string    `json:"email" bson:"email"`
	Name             string    `json:"name" bson:"name"`
	PasswordHash     string    `json:"-" bson:"password_hash"`
	Roles            []Role    `json:"roles" bson:"roles"`
	VerificationCode string    `json:"-" bson:"verification_code,omitempty"`
	Version          int64     `json:"version" bson:"version"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"`
}

// HasRole reports whether the role set contains r.
func (u *User) HasRole(r Role) bool {
	for _, have := range u.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// Unverified reports whether the account still awaits email verification.
func (u *User) Unverified() bool { return u.HasRole(RoleUnverified) }

// Blocked reports whether the account has been blocked by an operator.
func (u *User) Blocked() bool { return u.HasRole(RoleBlocked) }

// Admin reports whether the account holds the ADMIN role.
func (u *User) Admin() bool { return u.HasRole(RoleAdmin) }

// CanActAsAdmin is the compound privilege check: holding ADMIN is not
// enough, an unverified or blocked admin has no admin capability.
func (u *User) CanActAsAdmin() bool {
	return u.Admin() && !u.Unverified() && !u.Blocked()
}

// Principal is the authenticated caller as resolved from its credential
// by the transport layer before the core runs.
type Principal struct {
	UserID string
	Email  string
	Roles  []Role
}

// HasRole reports whether the principal's role set contains r.
func (p Principal) HasRole(r Role) bool {
	for _, have := range p.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// CanActAsAdmin mirrors User.CanActAsAdmin for the caller side.
func (p Principal) CanActAsAdmin() bool {
	return p.HasRole(RoleAdmin) && !p.HasRole(RoleUnverified) && !p.HasRole(RoleBlocked)
}
