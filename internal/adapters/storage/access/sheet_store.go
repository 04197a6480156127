package access

import (
	"context"
	"fmt"
	"strings"

	"venuedesk/internal/adapters/storage"
)

// Header is the first row of the access control worksheet.
var Header = []string{"Email"}

// SheetStore reads column A of the access control worksheet.
type SheetStore struct {
	table storage.Table
}

// NewSheetStore creates a new access Store.
func NewSheetStore(table storage.Table) *SheetStore {
	return &SheetStore{table: table}
}

// ApprovedEmails reads column A from row 2 down on every call.
func (s *SheetStore) ApprovedEmails(ctx context.Context) ([]string, error) {
	rows, err := s.table.ReadAllRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read approved emails: %w", err)
	}
	var out []string
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) == 0 {
			continue
		}
		if e := Normalize(rows[i][0]); e != "" {
			out = append(out, e)
		}
	}
	return out, nil
}

// Add appends an email unless it is already approved.
func (s *SheetStore) Add(ctx context.Context, email string) error {
	email = Normalize(email)
	if email == "" {
		return nil
	}
	existing, err := s.ApprovedEmails(ctx)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e == email {
			return nil
		}
	}
	if err := s.table.AppendRow(ctx, []string{email}); err != nil {
		return fmt.Errorf("add approved email: %w", err)
	}
	return nil
}

// Normalize trims and lower-cases an email for comparison.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
