// Package storagetest provides tables backed by a throwaway SQLite database.
package storagetest

import (
	"context"
	"path/filepath"
	"testing"

	"venuedesk/internal/adapters/storage"
)

// Opener returns a SQLite opener over a migrated database in t.TempDir().
func Opener(t testing.TB) storage.Opener {
	t.Helper()
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "venuedesk-test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(context.Background(), db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return storage.NewSQLiteOpener(db)
}

// Table opens a worksheet in a fresh database and seeds it with rows.
func Table(t testing.TB, worksheet string, rows ...[]string) storage.Table {
	t.Helper()
	tbl, err := Opener(t).Open(context.Background(), storage.SheetRef{SpreadsheetID: "test-sheet", Worksheet: worksheet})
	if err != nil {
		t.Fatalf("open test table: %v", err)
	}
	for _, r := range rows {
		if err := tbl.AppendRow(context.Background(), r); err != nil {
			t.Fatalf("seed test table: %v", err)
		}
	}
	return tbl
}

// Rows reads every row of tbl or fails the test.
func Rows(t testing.TB, tbl storage.Table) [][]string {
	t.Helper()
	rows, err := tbl.ReadAllRows(context.Background())
	if err != nil {
		t.Fatalf("read test table: %v", err)
	}
	return rows
}
