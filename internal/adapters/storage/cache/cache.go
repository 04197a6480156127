// Package cache is a redis read-through decorator for storage.Table.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"venuedesk/internal/adapters/storage"
	"venuedesk/internal/config"
)

const keyPrefix = "venuedesk:rows:"

// Client is the subset of redis commands the cache uses.
// *redis.Client satisfies it.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// NewClient connects to redis and pings it with a short timeout.
// Returns nil when redis is unreachable so callers run uncached.
func NewClient(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis_unavailable", "addr", cfg.Addr, "error", err)
		client.Close()
		return nil
	}
	return client
}

// Table serves ReadAllRows from redis when possible and drops the entry on every write.
// Redis failures fall through to the inner table.
type Table struct {
	inner storage.Table
	rdb   Client
	key   string
	ttl   time.Duration
}

// Compile-time check that *Table satisfies storage.Table.
var _ storage.Table = (*Table)(nil)

// New wraps inner; entries expire after ttl.
// PRE: ttl > 0
func New(inner storage.Table, rdb Client, ref storage.SheetRef, ttl time.Duration) *Table {
	return &Table{inner: inner, rdb: rdb, key: Key(ref), ttl: ttl}
}

// Key is the redis key holding the rows of ref.
func Key(ref storage.SheetRef) string {
	return keyPrefix + ref.SpreadsheetID + ":" + ref.Worksheet
}

// ReadAllRows returns cached rows or reads through and fills the cache.
func (t *Table) ReadAllRows(ctx context.Context) ([][]string, error) {
	data, err := t.rdb.Get(ctx, t.key).Bytes()
	if err == nil {
		var rows [][]string
		if err := json.Unmarshal(data, &rows); err == nil {
			return rows, nil
		}
		slog.Warn("cache_decode_failed", "key", t.key)
	} else if !errors.Is(err, redis.Nil) {
		slog.Debug("cache_get_failed", "key", t.key, "error", err)
	}

	rows, err := t.inner.ReadAllRows(ctx)
	if err != nil {
		return nil, err
	}
	t.store(ctx, rows)
	return rows, nil
}

func (t *Table) store(ctx context.Context, rows [][]string) {
	data, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := t.rdb.Set(ctx, t.key, data, t.ttl).Err(); err != nil {
		slog.Debug("cache_set_failed", "key", t.key, "error", err)
	}
}

// ReadFreshRows reads the inner table directly and refreshes the cached copy.
func (t *Table) ReadFreshRows(ctx context.Context) ([][]string, error) {
	rows, err := storage.ReadFresh(ctx, t.inner)
	if err != nil {
		return nil, err
	}
	t.store(ctx, rows)
	return rows, nil
}

// AppendRow writes through and invalidates.
func (t *Table) AppendRow(ctx context.Context, values []string) error {
	err := t.inner.AppendRow(ctx, values)
	t.invalidate(ctx)
	return err
}

// UpdateRange writes through and invalidates.
func (t *Table) UpdateRange(ctx context.Context, ref string, values [][]string) error {
	err := t.inner.UpdateRange(ctx, ref, values)
	t.invalidate(ctx)
	return err
}

func (t *Table) invalidate(ctx context.Context) {
	if err := t.rdb.Del(ctx, t.key).Err(); err != nil {
		slog.Warn("cache_invalidate_failed", "key", t.key, "error", err)
	}
}

// Opener wraps tables opened by o with the cache when include(ref) is true.
// A nil client or zero ttl disables caching.
func Opener(o storage.Opener, rdb Client, ttl time.Duration, include func(storage.SheetRef) bool) storage.Opener {
	return storage.OpenerFunc(func(ctx context.Context, ref storage.SheetRef) (storage.Table, error) {
		t, err := o.Open(ctx, ref)
		if err != nil {
			return nil, err
		}
		if rdb == nil || ttl <= 0 || (include != nil && !include(ref)) {
			return t, nil
		}
		return New(t, rdb, ref, ttl), nil
	})
}
