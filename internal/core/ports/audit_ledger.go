package ports

import (
	"context"

	"workshop/internal/core/domain/model/audit"
)

// AuditLedger appends audit entries in a commit boundary of its own: the entries
// are durable once Record returns, whatever happens to the caller's transaction.
type AuditLedger interface {
	Record(ctx context.Context, entries ...audit.Entry) error
}
