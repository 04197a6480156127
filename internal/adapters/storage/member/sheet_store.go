package member

import (
	"context"
	"fmt"

	"venuedesk/internal/adapters/storage"
	domain "venuedesk/internal/domain/member"
)

// SheetStore implements Store over the membership worksheet.
type SheetStore struct {
	table storage.Table
}

// NewSheetStore creates a new member Store.
func NewSheetStore(table storage.Table) *SheetStore {
	return &SheetStore{table: table}
}

// Append adds a member row.
// PRE: m has been validated
func (s *SheetStore) Append(ctx context.Context, m domain.Member) error {
	if err := s.table.AppendRow(ctx, m.ToRow()); err != nil {
		return fmt.Errorf("append member: %w", err)
	}
	return nil
}

// List returns every member below the header in sheet order.
// POST: short rows are padded to four columns
func (s *SheetStore) List(ctx context.Context) ([]domain.Member, error) {
	rows, err := s.table.ReadAllRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read members: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	out := make([]domain.Member, 0, len(rows)-1)
	for _, r := range rows[1:] {
		out = append(out, domain.FromRow(r))
	}
	return out, nil
}
