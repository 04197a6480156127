package access

import (
	"context"
)

// Store reads the allow-list of staff emails.
type Store interface {
	// ApprovedEmails returns the current allow-list.
	// POST: entries are trimmed and lower-cased; blanks are dropped
	ApprovedEmails(ctx context.Context) ([]string, error)
}

// Ensure SheetStore implements Store interface.
var _ Store = (*SheetStore)(nil)
