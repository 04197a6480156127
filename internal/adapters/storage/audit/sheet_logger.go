package audit

import (
	"context"
	"fmt"

	"venuedesk/internal/adapters/storage"
	domain "venuedesk/internal/domain/audit"
)

// SheetLogger appends audit rows to one worksheet per channel.
type SheetLogger struct {
	tables map[domain.Channel]storage.Table
}

// NewSheetLogger maps each channel to its log worksheet.
func NewSheetLogger(access, reservations storage.Table) *SheetLogger {
	return &SheetLogger{tables: map[domain.Channel]storage.Table{
		domain.ChannelAccess:      access,
		domain.ChannelReservation: reservations,
	}}
}

// Append writes entry to the worksheet of channel.
func (l *SheetLogger) Append(ctx context.Context, channel domain.Channel, entry domain.Entry) error {
	t, ok := l.tables[channel]
	if !ok || t == nil {
		return fmt.Errorf("audit channel %q has no worksheet", channel)
	}
	if err := t.AppendRow(ctx, entry.ToRow()); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}
