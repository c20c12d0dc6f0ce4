package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// IntegrationErrorLog
// ---------------------------------------------------------------------------

// ErrorLogEntry records one integration failure for later inspection.
// Entries are append-only; nothing in the system updates or deletes them.
type ErrorLogEntry struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Platform       PlatformCode
	Task           string
	Message        string
	CreatedAt      time.Time
}

// NewErrorLogEntry builds an entry stamped with the current time
func NewErrorLogEntry(organizationID uuid.UUID, platform PlatformCode, task, message string) *ErrorLogEntry {
	return &ErrorLogEntry{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		Platform:       platform,
		Task:           task,
		Message:        message,
		CreatedAt:      time.Now(),
	}
}

// ErrorLogRepository persists integration failures
type ErrorLogRepository interface {
	// Append stores a new entry
	Append(ctx context.Context, entry *ErrorLogEntry) error

	// ListByOrganization returns the most recent entries for a tenant,
	// newest first
	ListByOrganization(ctx context.Context, organizationID uuid.UUID, limit int) ([]*ErrorLogEntry, error)
}

// AlertNotifier pushes a failure notification to operators. Implementations
// must not block sync flows; delivery failures are logged and swallowed.
type AlertNotifier interface {
	Notify(ctx context.Context, entry *ErrorLogEntry)
}
