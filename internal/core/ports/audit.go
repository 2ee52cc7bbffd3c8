package ports

import (
	"context"
	"time"
)

// AuditEntry records one accepted mutation of a user record.
type AuditEntry struct {
	ID      string    `json:"id" bson:"_id"`
	UserID  string    `json:"user_id" bson:"user_id"`
	ActorID string    `json:"actor_id" bson:"actor_id"`
	Fields  []string  `json:"fields" bson:"fields"`
	Version int64     `json:"version" bson:"version"`
	At      time.Time `json:"at" bson:"at"`
}

// AuditRecorder accepts entries from the request path. Implementations
// must not block the caller; delivery is asynchronous and best-effort.
type AuditRecorder interface {
	Record(entry AuditEntry)
}

// AuditService persists a single audit entry.
type AuditService interface {
	Process(ctx context.Context, entry AuditEntry) error
}

// AuditRepository handles audit trail persistence.
type AuditRepository interface {
	Insert(ctx context.Context, entry *AuditEntry) error
}
