package ports

import (
	"context"

	"github.com/identitykit/account-service/internal/core/domain"
)

// PatchUserInput carries everything the transport layer resolved for a
// partial update: the caller, the target, the requested field changes
// (with presence flags, so an explicit null is distinguishable from an
// omitted key), and the version the payload was read against.
type PatchUserInput struct {
	Principal domain.Principal
	TargetID  string
	Name      *string
	NameSet   bool
	Roles     []string
	RolesSet  bool
	Version   int64
}

// UserView is the observable projection of a user record returned on
// reads and successful patches.
type UserView struct {
	ID         string   `json:"id"`
	Username   string   `json:"username"`
	Name       string   `json:"name"`
	Roles      []string `json:"roles"`
	Unverified bool     `json:"unverified"`
	Admin      bool     `json:"admin"`
	Version    int64    `json:"version"`
}

// PatchUserResult is the outcome of a successful patch. Token is empty
// unless the mutating principal was the subject of the update, in which
// case it carries the refreshed credential for the transport to return
// out-of-band from the body.
type PatchUserResult struct {
	User  UserView
	Token string
}

// UserService is the patch engine plus the single-record read.
type UserService interface {
	PatchUser(ctx context.Context, in PatchUserInput) (*PatchUserResult, error)
	GetUser(ctx context.Context, caller domain.Principal, id string) (*UserView, error)
}

// TokenIssuer encodes a user's current identity into a signed credential.
// Issuance is pure with respect to storage.
type TokenIssuer interface {
	Issue(u *domain.User) (string, error)
}

// UserCache is a read-through cache of user views. Get returns (nil, nil)
// on a miss; failures are degradations, never correctness errors.
type UserCache interface {
	Get(ctx context.Context, id string) (*UserView, error)
	Set(ctx context.Context, view *UserView) error
	Invalidate(ctx context.Context, id string) error
}
