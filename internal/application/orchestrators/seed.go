package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"venuedesk/internal/adapters/storage"
)

// SeedTableStore is a worksheet that may need a header row.
type SeedTableStore = storage.HeaderWriter

// ApprovedEmailAdder adds to the allow-list.
type ApprovedEmailAdder interface {
	Add(ctx context.Context, email string) error
}

// SeedTable pairs a worksheet with its header.
type SeedTable struct {
	Name   string
	Table  SeedTableStore
	Header []string
}

// SeedSheetsDeps holds dependencies for ExecuteSeedSheets.
type SeedSheetsDeps struct {
	Tables         []SeedTable
	Access         ApprovedEmailAdder
	ApprovedEmails []string
}

// ExecuteSeedSheets prepares a local backend: header rows for empty worksheets
// and the development allow-list.
// POST: idempotent; existing rows are never modified
func ExecuteSeedSheets(ctx context.Context, deps SeedSheetsDeps) error {
	for _, st := range deps.Tables {
		wrote, err := storage.EnsureHeader(ctx, st.Table, st.Header)
		if err != nil {
			return fmt.Errorf("seed %s: %w", st.Name, err)
		}
		if wrote {
			slog.Info("seeded_header", "worksheet", st.Name)
		}
	}

	if deps.Access == nil {
		return nil
	}
	for _, e := range deps.ApprovedEmails {
		if err := deps.Access.Add(ctx, e); err != nil {
			return fmt.Errorf("seed approved email: %w", err)
		}
	}
	if len(deps.ApprovedEmails) > 0 {
		slog.Info("seeded_approved_emails", "count", len(deps.ApprovedEmails))
	}
	return nil
}
