package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Table is a worksheet seen as an ordered grid of string cells.
// Row 1 is the header; data rows start at 2.
type Table interface {
	// ReadAllRows returns every row in sheet order. Rows may be ragged.
	ReadAllRows(ctx context.Context) ([][]string, error)

	// AppendRow adds values as a new row after the last non-empty row.
	AppendRow(ctx context.Context, values []string) error

	// UpdateRange overwrites cells starting at the top-left of an A1 reference.
	// PRE: ref is a cell or range reference such as "A5" or "M5:M5"
	UpdateRange(ctx context.Context, ref string, values [][]string) error
}

// FreshReader is implemented by decorators that can skip a read cache.
type FreshReader interface {
	ReadFreshRows(ctx context.Context) ([][]string, error)
}

// ReadFresh reads t from its backing store, bypassing any cache layer.
// Writes addressed by row number must locate the row with it.
func ReadFresh(ctx context.Context, t Table) ([][]string, error) {
	if f, ok := t.(FreshReader); ok {
		return f.ReadFreshRows(ctx)
	}
	return t.ReadAllRows(ctx)
}

// SheetRef identifies a worksheet inside a spreadsheet.
type SheetRef struct {
	SpreadsheetID string
	Worksheet     string
}

func (r SheetRef) String() string {
	return r.SpreadsheetID + "/" + r.Worksheet
}

// Opener resolves a SheetRef to a Table.
type Opener interface {
	Open(ctx context.Context, ref SheetRef) (Table, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, ref SheetRef) (Table, error)

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, ref SheetRef) (Table, error) {
	return f(ctx, ref)
}

// ErrBadCellRef is returned for A1 references that cannot be parsed.
var ErrBadCellRef = errors.New("invalid A1 cell reference")

// ColumnLetter converts a 0-based column index to its A1 letters (0 -> A, 26 -> AA).
// PRE: index >= 0
func ColumnLetter(index int) string {
	var b []byte
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

// ParseCellRef parses the top-left cell of an A1 reference.
// A sheet prefix ("Log!A2") and a range suffix (":N2") are ignored.
// POST: col is 0-based, row is 1-based
func ParseCellRef(ref string) (col, row int, err error) {
	if i := strings.LastIndex(ref, "!"); i >= 0 {
		ref = ref[i+1:]
	}
	if i := strings.Index(ref, ":"); i >= 0 {
		ref = ref[:i]
	}
	ref = strings.ToUpper(strings.TrimSpace(ref))

	i := 0
	col = 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A'+1)
		i++
	}
	if i == 0 || i == len(ref) {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadCellRef, ref)
	}
	row, err = strconv.Atoi(ref[i:])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadCellRef, ref)
	}
	return col - 1, row, nil
}

// CellRef builds an A1 reference for a 0-based column and 1-based row.
func CellRef(col, row int) string {
	return ColumnLetter(col) + strconv.Itoa(row)
}

// HeaderWriter is the part of a Table that EnsureHeader needs.
type HeaderWriter interface {
	ReadAllRows(ctx context.Context) ([][]string, error)
	AppendRow(ctx context.Context, values []string) error
}

// EnsureHeader writes header as row 1 when the table is empty.
// POST: reports whether the header was written; an existing header is left untouched
func EnsureHeader(ctx context.Context, t HeaderWriter, header []string) (bool, error) {
	rows, err := t.ReadAllRows(ctx)
	if err != nil {
		return false, fmt.Errorf("read header: %w", err)
	}
	if len(rows) > 0 {
		return false, nil
	}
	if err := t.AppendRow(ctx, header); err != nil {
		return false, fmt.Errorf("write header: %w", err)
	}
	return true, nil
}
