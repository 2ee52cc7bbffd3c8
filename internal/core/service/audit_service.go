package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/identitykit/account-service/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService implementation that persists
// entries to the audit repository.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single audit entry.
func (s *auditService) Process(ctx context.Context, entry ports.AuditEntry) error {
	if err := s.repo.Insert(ctx, &entry); err != nil {
		return fmt.Errorf("process audit entry: %w", err)
	}

	s.log.Debug().
		Str("user_id", entry.UserID).
		Str("actor_id", entry.ActorID).
		Int64("version", entry.Version).
		Msg("audit entry recorded")

	return nil
}
