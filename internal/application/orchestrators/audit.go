package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"venuedesk/internal/domain/audit"
)

// AuditAppender writes audit rows to a log channel.
type AuditAppender interface {
	Append(ctx context.Context, channel audit.Channel, entry audit.Entry) error
}

// AuditDeps holds dependencies for LogEvent.
type AuditDeps struct {
	Logger AuditAppender
	Now    func() time.Time
}

// LogEvent appends an audit entry on the channel of its event type.
// Audit logging is best-effort: failures are logged and never returned,
// so the calling workflow always completes.
// PRE: event is non-empty
// POST: at most one row appended; no error is surfaced
func LogEvent(ctx context.Context, deps AuditDeps, event audit.EventType, actor, details string) {
	if deps.Logger == nil {
		slog.Warn("audit_logger_missing", "event", event)
		return
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	entry := audit.NewEntry(now(), event, actor, details)
	if err := deps.Logger.Append(ctx, audit.ChannelFor(event), entry); err != nil {
		slog.Error("audit_append_failed", "event", event, "actor", actor, "error", err)
	}
}
