package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// timeNow is replaced in tests.
var timeNow = time.Now

// SQLiteOpener serves worksheets from a local SQLite database.
// Each row is stored as a JSON array keyed by (spreadsheet, worksheet, row number).
type SQLiteOpener struct {
	db SQLDB
}

// NewSQLiteOpener creates an opener over a migrated database.
func NewSQLiteOpener(db SQLDB) *SQLiteOpener {
	return &SQLiteOpener{db: db}
}

// Open returns the table for ref. Worksheets exist implicitly.
func (o *SQLiteOpener) Open(_ context.Context, ref SheetRef) (Table, error) {
	if ref.SpreadsheetID == "" || ref.Worksheet == "" {
		return nil, fmt.Errorf("open table: incomplete sheet reference %q", ref.String())
	}
	return &sqliteTable{db: o.db, ref: ref}, nil
}

type sqliteTable struct {
	db  SQLDB
	ref SheetRef
}

// ReadAllRows returns rows 1..max in order. Gaps read as empty rows.
func (t *sqliteTable) ReadAllRows(ctx context.Context) ([][]string, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT row_num, cells FROM sheet_row WHERE spreadsheet_id = ? AND worksheet = ? ORDER BY row_num`,
		t.ref.SpreadsheetID, t.ref.Worksheet)
	if err != nil {
		return nil, fmt.Errorf("read rows of %s: %w", t.ref, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var num int
		var raw string
		if err := rows.Scan(&num, &raw); err != nil {
			return nil, fmt.Errorf("scan row of %s: %w", t.ref, err)
		}
		var cells []string
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return nil, fmt.Errorf("decode row %d of %s: %w", num, t.ref, err)
		}
		for len(out) < num-1 {
			out = append(out, []string{})
		}
		out = append(out, cells)
	}
	return out, rows.Err()
}

// AppendRow inserts values at the row after the current last row.
func (t *sqliteTable) AppendRow(ctx context.Context, values []string) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append to %s: %w", t.ref, err)
	}
	defer tx.Rollback()

	var last int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(row_num), 0) FROM sheet_row WHERE spreadsheet_id = ? AND worksheet = ?`,
		t.ref.SpreadsheetID, t.ref.Worksheet).Scan(&last)
	if err != nil {
		return fmt.Errorf("find last row of %s: %w", t.ref, err)
	}
	if err := t.put(ctx, tx, last+1, values); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateRange overwrites cells from the top-left of ref, extending short rows.
func (t *sqliteTable) UpdateRange(ctx context.Context, ref string, values [][]string) error {
	col, row, err := ParseCellRef(ref)
	if err != nil {
		return err
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update of %s: %w", t.ref, err)
	}
	defer tx.Rollback()

	for i, patch := range values {
		num := row + i
		cells, err := t.get(ctx, tx, num)
		if err != nil {
			return err
		}
		for len(cells) < col+len(patch) {
			cells = append(cells, "")
		}
		copy(cells[col:], patch)
		if err := t.put(ctx, tx, num, cells); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (t *sqliteTable) get(ctx context.Context, tx *sql.Tx, num int) ([]string, error) {
	var raw string
	err := tx.QueryRowContext(ctx,
		`SELECT cells FROM sheet_row WHERE spreadsheet_id = ? AND worksheet = ? AND row_num = ?`,
		t.ref.SpreadsheetID, t.ref.Worksheet, num).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read row %d of %s: %w", num, t.ref, err)
	}
	var cells []string
	if err := json.Unmarshal([]byte(raw), &cells); err != nil {
		return nil, fmt.Errorf("decode row %d of %s: %w", num, t.ref, err)
	}
	return cells, nil
}

func (t *sqliteTable) put(ctx context.Context, tx *sql.Tx, num int, cells []string) error {
	if cells == nil {
		cells = []string{}
	}
	raw, err := json.Marshal(cells)
	if err != nil {
		return fmt.Errorf("encode row %d of %s: %w", num, t.ref, err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO sheet_row (spreadsheet_id, worksheet, row_num, cells, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (spreadsheet_id, worksheet, row_num) DO UPDATE SET cells = excluded.cells, updated_at = excluded.updated_at`,
		t.ref.SpreadsheetID, t.ref.Worksheet, num, string(raw), timeNow().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write row %d of %s: %w", num, t.ref, err)
	}
	return nil
}
