package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yated-center/yated-crm-api/internal/tabular"
	appErrors "github.com/yated-center/yated-crm-api/pkg/errors"
)

// Store is the narrow tabular I/O surface the repositories need from the
// spreadsheet transport.
type Store interface {
	ReadTable(ctx context.Context, name string) (tabular.Table, error)
	WriteTable(ctx context.Context, name string, table tabular.Table) error
	AppendRow(ctx context.Context, name string, values []string) error
	ListTables(ctx context.Context) ([]string, error)
	EnsureTables(ctx context.Context, names []string) error
}

// CacheMetrics receives cache hit/miss observations. Implemented by the
// metrics service; a nil recorder is ignored.
type CacheMetrics interface {
	ObserveCacheHit()
	ObserveCacheMiss()
}

// TableRepository reads and writes whole tables through the store, keeping a
// short-lived read cache. Every write is a full overwrite and immediately
// invalidates the cached copy of that table.
type TableRepository struct {
	store   Store
	cache   *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
	metrics CacheMetrics
}

// NewTableRepository constructs a table repository. A nil Redis client
// disables caching entirely.
func NewTableRepository(store Store, cache *redis.Client, ttl time.Duration, logger *zap.Logger, metrics CacheMetrics) *TableRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TableRepository{store: store, cache: cache, ttl: ttl, logger: logger, metrics: metrics}
}

// Read returns the named table, served from cache when a fresh copy exists.
func (r *TableRepository) Read(ctx context.Context, name string) (tabular.Table, error) {
	var cached tabular.Table
	if err := r.cacheGet(ctx, name, &cached); err == nil {
		if r.metrics != nil {
			r.metrics.ObserveCacheHit()
		}
		return cached, nil
	}
	if r.metrics != nil {
		r.metrics.ObserveCacheMiss()
	}

	table, err := r.store.ReadTable(ctx, name)
	if err != nil {
		return tabular.Table{}, err
	}
	r.cacheSet(ctx, name, table)
	return table, nil
}

// Write overwrites the named table and drops its cached copy.
func (r *TableRepository) Write(ctx context.Context, name string, table tabular.Table) error {
	if err := r.store.WriteTable(ctx, name, table); err != nil {
		return err
	}
	r.Invalidate(ctx, name)
	return nil
}

// Append adds a single row without clearing, then drops the cached copy.
func (r *TableRepository) Append(ctx context.Context, name string, values []string) error {
	if err := r.store.AppendRow(ctx, name, values); err != nil {
		return err
	}
	r.Invalidate(ctx, name)
	return nil
}

// List returns all table names known to the store.
func (r *TableRepository) List(ctx context.Context) ([]string, error) {
	return r.store.ListTables(ctx)
}

// Ensure idempotently creates the named tables.
func (r *TableRepository) Ensure(ctx context.Context, names []string) error {
	return r.store.EnsureTables(ctx, names)
}

// Invalidate drops the cached copy of a table, forcing the next read to hit
// the store. Used after writes and for manual refresh.
func (r *TableRepository) Invalidate(ctx context.Context, name string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Del(ctx, cacheKey(name)).Err(); err != nil {
		r.logger.Warn("cache invalidate failed", zap.String("table", name), zap.Error(err))
	}
}

func (r *TableRepository) cacheGet(ctx context.Context, name string, dest *tabular.Table) error {
	if r.cache == nil || r.ttl <= 0 {
		return appErrors.ErrCacheMiss
	}
	raw, err := r.cache.Get(ctx, cacheKey(name)).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("cache read failed", zap.String("table", name), zap.Error(err))
		}
		return appErrors.ErrCacheMiss
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return appErrors.ErrCacheMiss
	}
	return nil
}

func (r *TableRepository) cacheSet(ctx context.Context, name string, table tabular.Table) {
	if r.cache == nil || r.ttl <= 0 {
		return
	}
	payload, err := json.Marshal(table)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKey(name), payload, r.ttl).Err(); err != nil {
		r.logger.Warn("cache write failed", zap.String("table", name), zap.Error(err))
	}
}

func cacheKey(name string) string {
	return fmt.Sprintf("table:%s", name)
}
