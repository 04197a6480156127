package audit

import (
	"context"

	domain "venuedesk/internal/domain/audit"
)

// Store defines the interface for audit log persistence.
type Store interface {
	// Append writes one entry to the log worksheet of channel.
	// PRE: entry has a timestamp and event type
	// POST: a row [timestamp, event, actor, details] is appended
	Append(ctx context.Context, channel domain.Channel, entry domain.Entry) error
}

// Ensure SheetLogger implements Store interface.
var _ Store = (*SheetLogger)(nil)
