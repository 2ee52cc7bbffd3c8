package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/identitykit/account-service/internal/core/domain"
	"github.com/identitykit/account-service/internal/core/ports"
)

const defaultNameMaxLen = 50

// UserService implements the authorization-aware patch engine and the
// single-record read.
type UserService struct {
	repo       ports.UserRepository
	cache      ports.UserCache
	issuer     ports.TokenIssuer
	audit      ports.AuditRecorder
	nameMaxLen int
	log        zerolog.Logger
}

func NewUserService(
	repo ports.UserRepository,
	cache ports.UserCache,
	issuer ports.TokenIssuer,
	audit ports.AuditRecorder,
	nameMaxLen int,
	log zerolog.Logger,
) *UserService {
	if nameMaxLen <= 0 {
		nameMaxLen = defaultNameMaxLen
	}
	return &UserService{
		repo:       repo,
		cache:      cache,
		issuer:     issuer,
		audit:      audit,
		nameMaxLen: nameMaxLen,
		log:        log,
	}
}

// PatchUser runs one partial update end to end: authorize, apply the
// permitted fields, reconcile role side effects, persist with a
// conditional versioned write, and reissue the caller's credential when
// the caller edited itself. Any failure leaves the record untouched and
// is reported exactly once.
func (s *UserService) PatchUser(ctx context.Context, in ports.PatchUserInput) (*ports.PatchUserResult, error) {
	// 1. Resolve the target; an unknown id is a NotFound, reported before
	// any authorization detail leaks.
	target, err := s.repo.FindByID(ctx, in.TargetID)
	if err != nil {
		return nil, err
	}

	// 2. Authorize the caller/target pair and narrow to the fields both
	// requested and permitted. Out-of-mask fields drop silently.
	permitted, err := domain.AuthorizePatch(in.Principal, target.ID)
	if err != nil {
		s.log.Warn().
			Str("caller", in.Principal.UserID).
			Str("target", in.TargetID).
			Msg("patch rejected by authorization guard")
		return nil, err
	}

	patch := buildPatch(in)
	mask := permitted.Intersect(patch.Requested())

	// 3. Fail fast on a stale read. The conditional write below rechecks
	// atomically; this only spares the validation work.
	if in.Version != target.Version {
		return nil, domain.ErrVersionConflict
	}

	// 4. Validate and apply the masked fields, all-or-nothing.
	hadUnverified := target.Unverified()
	if err := domain.ApplyPatch(target, mask, patch, s.nameMaxLen); err != nil {
		return nil, err
	}

	// 5. Role side effects run only when the mask let roles through.
	if mask.Roles && patch.RolesSet {
		domain.ReconcileRoles(hadUnverified, target)
	}

	// 6. Conditional versioned write; a miss means a concurrent writer won.
	target.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateVersioned(ctx, target, in.Version); err != nil {
		return nil, err
	}

	// 7. Drop the stale cached view (non-fatal).
	if err := s.cache.Invalidate(ctx, target.ID); err != nil {
		s.log.Warn().Err(err).Str("user_id", target.ID).Msg("failed to invalidate cached user view")
	}

	// 8. Record the mutation asynchronously.
	s.audit.Record(ports.AuditEntry{
		ID:      uuid.NewString(),
		UserID:  target.ID,
		ActorID: in.Principal.UserID,
		Fields:  mask.FieldNames(),
		Version: target.Version,
		At:      target.UpdatedAt,
	})

	// 9. Reissue the caller's credential on every successful self-update,
	// even a no-op one. A signing failure fails the whole request: a 200
	// without the refreshed credential would strand the caller on stale
	// identity claims.
	result := &ports.PatchUserResult{User: viewOf(target)}
	if in.Principal.UserID == target.ID {
		token, err := s.issuer.Issue(target)
		if err != nil {
			return nil, fmt.Errorf("reissue credential: %w", err)
		}
		result.Token = token
	}

	s.log.Info().
		Str("user_id", target.ID).
		Str("actor_id", in.Principal.UserID).
		Strs("fields", mask.FieldNames()).
		Int64("version", target.Version).
		Msg("user patched")

	return result, nil
}

// GetUser returns the observable view of one record, readable by the
// record's owner or by a caller with intact admin capability.
func (s *UserService) GetUser(ctx context.Context, caller domain.Principal, id string) (*ports.UserView, error) {
	if caller.UserID != id && !caller.CanActAsAdmin() {
		return nil, domain.ErrForbidden
	}

	cached, err := s.cache.Get(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("user cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view := viewOf(user)
	if err := s.cache.Set(ctx, &view); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("user cache write failed")
	}
	return &view, nil
}

// buildPatch parses the raw field strings into domain values. Unknown
// role tags are kept as-is so the resolver reports them as a validation
// failure rather than dropping them here.
func buildPatch(in ports.PatchUserInput) domain.Patch {
	p := domain.Patch{
		Name:     in.Name,
		NameSet:  in.NameSet,
		RolesSet: in.RolesSet,
		Version:  in.Version,
	}
	if in.RolesSet {
		p.Roles = make([]domain.Role, len(in.Roles))
		for i, s := range in.Roles {
			p.Roles[i] = domain.Role(s)
		}
	}
	return p
}

func viewOf(u *domain.User) ports.UserView {
	roles := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		roles[i] = string(r)
	}
	return ports.UserView{
		ID:         u.ID,
		Username:   u.Email,
		Name:       u.Name,
		Roles:      roles,
		Unverified: u.Unverified(),
		Admin:      u.Admin(),
		Version:    u.Version,
	}
}
