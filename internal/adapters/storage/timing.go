package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"venuedesk/internal/adapters/http/perf"
)

// DefaultSlowOpMs is the default threshold for slow storage warnings.
const DefaultSlowOpMs = 500

var (
	slowOpMs   float64
	slowOpOnce sync.Once
)

// slowThreshold returns the slow-operation threshold in milliseconds.
// VENUEDESK_SLOW_OP_MS overrides the default.
func slowThreshold() float64 {
	slowOpOnce.Do(func() {
		ms := DefaultSlowOpMs
		if v := os.Getenv("VENUEDESK_SLOW_OP_MS"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				ms = n
			}
		}
		slowOpMs = float64(ms)
	})
	return slowOpMs
}

type timer struct {
	collector *perf.Collector
	threshold float64
}

// observe logs and optionally records one timed operation.
func (t timer) observe(kind perf.EntryKind, event, op string, start time.Time) {
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0

	if durationMs >= t.threshold {
		slog.Warn("slow_"+event, "op", op, "duration_ms", durationMs)
	} else {
		slog.Debug(event, "op", op, "duration_ms", durationMs)
	}

	if t.collector != nil {
		t.collector.Record(perf.Entry{
			Kind:       kind,
			Path:       op,
			DurationMs: durationMs,
			Timestamp:  start,
		})
	}
}

// TimedDB wraps a *sql.DB to log slow queries and record them to a collector.
type TimedDB struct {
	db *sql.DB
	timer
}

// Compile-time check that *TimedDB satisfies SQLDB.
var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps a *sql.DB with timing instrumentation.
// PRE: db is a valid database connection
// POST: Returns a TimedDB that logs slow queries and records to collector
func NewTimedDB(db *sql.DB, collector *perf.Collector) *TimedDB {
	return &TimedDB{db: db, timer: timer{collector: collector, threshold: slowThreshold()}}
}

// ExecContext wraps sql.DB.ExecContext with timing.
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	t.observe(perf.KindQuery, "query", "ExecContext", start)
	return result, err
}

// QueryContext wraps sql.DB.QueryContext with timing.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.observe(perf.KindQuery, "query", "QueryContext", start)
	return rows, err
}

// QueryRowContext wraps sql.DB.QueryRowContext with timing.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.observe(perf.KindQuery, "query", "QueryRowContext", start)
	return row
}

// BeginTx wraps sql.DB.BeginTx with timing.
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	start := time.Now()
	tx, err := t.db.BeginTx(ctx, opts)
	t.observe(perf.KindQuery, "query", "BeginTx", start)
	return tx, err
}

// TimedTable records every call on a Table as a sheet operation.
type TimedTable struct {
	inner Table
	name  string
	timer
}

// Compile-time check that *TimedTable satisfies Table.
var _ Table = (*TimedTable)(nil)

// NewTimedTable wraps t; name labels the operations (usually the worksheet).
func NewTimedTable(t Table, name string, collector *perf.Collector) *TimedTable {
	return &TimedTable{inner: t, name: name, timer: timer{collector: collector, threshold: slowThreshold()}}
}

// ReadAllRows times the inner call.
func (t *TimedTable) ReadAllRows(ctx context.Context) ([][]string, error) {
	start := time.Now()
	rows, err := t.inner.ReadAllRows(ctx)
	t.observe(perf.KindSheetOp, "sheet_op", t.name+".ReadAllRows", start)
	return rows, err
}

// ReadFreshRows times an uncached read of the inner table.
func (t *TimedTable) ReadFreshRows(ctx context.Context) ([][]string, error) {
	start := time.Now()
	rows, err := ReadFresh(ctx, t.inner)
	t.observe(perf.KindSheetOp, "sheet_op", t.name+".ReadFreshRows", start)
	return rows, err
}

// AppendRow times the inner call.
func (t *TimedTable) AppendRow(ctx context.Context, values []string) error {
	start := time.Now()
	err := t.inner.AppendRow(ctx, values)
	t.observe(perf.KindSheetOp, "sheet_op", t.name+".AppendRow", start)
	return err
}

// UpdateRange times the inner call.
func (t *TimedTable) UpdateRange(ctx context.Context, ref string, values [][]string) error {
	start := time.Now()
	err := t.inner.UpdateRange(ctx, ref, values)
	t.observe(perf.KindSheetOp, "sheet_op", t.name+".UpdateRange", start)
	return err
}

// TimedOpener wraps every opened table in a TimedTable.
func TimedOpener(o Opener, collector *perf.Collector) Opener {
	return OpenerFunc(func(ctx context.Context, ref SheetRef) (Table, error) {
		t, err := o.Open(ctx, ref)
		if err != nil {
			return nil, err
		}
		return NewTimedTable(t, ref.Worksheet, collector), nil
	})
}
