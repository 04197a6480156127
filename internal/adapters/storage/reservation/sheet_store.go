package reservation

import (
	"context"
	"fmt"
	"strings"

	"venuedesk/internal/adapters/storage"
	domain "venuedesk/internal/domain/reservation"
)

// defaultAuditColumn is column M, the audit trail id position in the standard layout.
const defaultAuditColumn = 12

// SheetStore implements Store over a storage.Table.
type SheetStore struct {
	table storage.Table
}

// NewSheetStore creates a new reservation Store.
func NewSheetStore(table storage.Table) *SheetStore {
	return &SheetStore{table: table}
}

// List reads all rows and parses them against the header.
// PRE: row 1 is the header
// POST: Records carry 1-based sheet rows; blank rows are skipped
func (s *SheetStore) List(ctx context.Context) ([]domain.Record, error) {
	rows, err := s.table.ReadAllRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read reservations: %w", err)
	}
	return parseRows(rows)
}

// ListFresh is List read past any cache, for callers that write back by row.
func (s *SheetStore) ListFresh(ctx context.Context) ([]domain.Record, error) {
	rows, err := storage.ReadFresh(ctx, s.table)
	if err != nil {
		return nil, fmt.Errorf("read reservations: %w", err)
	}
	return parseRows(rows)
}

func parseRows(rows [][]string) ([]domain.Record, error) {
	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}
	index, err := domain.IndexHeader(header)
	if err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(rows))
	for i := 1; i < len(rows); i++ {
		if isBlank(rows[i]) {
			continue
		}
		records = append(records, domain.ParseRecord(rows[i], index, i+1))
	}
	return records, nil
}

// Append adds a reservation in the fixed column order.
func (s *SheetStore) Append(ctx context.Context, r domain.Reservation) error {
	if err := s.table.AppendRow(ctx, r.ToRow()); err != nil {
		return fmt.Errorf("append reservation: %w", err)
	}
	return nil
}

// Update overwrites columns A through N of row.
// PRE: row >= 2
// POST: every column is rewritten, including audit id and submission fields
func (s *SheetStore) Update(ctx context.Context, row int, r domain.Reservation) error {
	if row < 2 {
		return fmt.Errorf("update reservation: invalid row %d", row)
	}
	if err := s.table.UpdateRange(ctx, storage.CellRef(0, row), [][]string{r.ToRow()}); err != nil {
		return fmt.Errorf("update reservation row %d: %w", row, err)
	}
	return nil
}

// SetAuditID patches the audit trail id cell of row.
// The column comes from the header, falling back to M.
func (s *SheetStore) SetAuditID(ctx context.Context, row int, id string) error {
	if row < 2 {
		return fmt.Errorf("set audit id: invalid row %d", row)
	}
	col := defaultAuditColumn
	rows, err := storage.ReadFresh(ctx, s.table)
	if err != nil {
		return fmt.Errorf("read reservation header: %w", err)
	}
	if len(rows) > 0 {
		for i, h := range rows[0] {
			if domain.NormalizeHeader(h) == domain.ColAuditTrailID {
				col = i
				break
			}
		}
	}
	if err := s.table.UpdateRange(ctx, storage.CellRef(col, row), [][]string{{id}}); err != nil {
		return fmt.Errorf("set audit id on row %d: %w", row, err)
	}
	return nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
