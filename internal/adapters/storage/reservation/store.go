package reservation

import (
	"context"

	domain "venuedesk/internal/domain/reservation"
)

// Store persists reservations as rows of the reservation worksheet.
type Store interface {
	// List returns every data row with its sheet row number.
	// POST: Returns domain.ErrMissingDateColumn if the header lacks reservation_date
	List(ctx context.Context) ([]domain.Record, error)

	// ListFresh is List bypassing any read cache.
	ListFresh(ctx context.Context) ([]domain.Record, error)

	// Append adds a reservation as a new row.
	Append(ctx context.Context, r domain.Reservation) error

	// Update overwrites all columns of an existing row.
	// PRE: row >= 2
	Update(ctx context.Context, row int, r domain.Reservation) error

	// SetAuditID writes only the audit trail id cell of a row.
	// PRE: row >= 2
	SetAuditID(ctx context.Context, row int, id string) error
}

// Ensure SheetStore implements Store interface.
var _ Store = (*SheetStore)(nil)
