package member

import (
	"context"

	domain "venuedesk/internal/domain/member"
)

// Store persists Member state.
type Store interface {
	Append(ctx context.Context, m domain.Member) error
	List(ctx context.Context) ([]domain.Member, error)
}

// Ensure SheetStore implements Store interface.
var _ Store = (*SheetStore)(nil)
