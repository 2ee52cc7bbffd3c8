package ports

import (
	"context"

	"github.com/identitykit/account-service/internal/core/domain"
)

// UserRepository defines persistence operations for user records.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// UpdateVersioned persists the record's mutable fields with a single
	// conditional write: the update applies only while the stored version
	// still equals expectedVersion, and increments it by exactly one in
	// the same operation. A miss on an existing record is reported as
	// domain.ErrVersionConflict. On success u.Version reflects the newly
	// stored version.
	UpdateVersioned(ctx context.Context, u *domain.User, expectedVersion int64) error
}
