package repository

import (
	"context"
	"sort"

	"github.com/yated-center/yated-crm-api/internal/tabular"
)

// Meta table layout: two columns holding process-wide key/value state.
const (
	metaKeyColumn   = "Key"
	metaValueColumn = "Value"
)

// KeyLastRolloverYear records the year of the most recent staff rollover.
const KeyLastRolloverYear = "last_rollover_year"

type tableReadWriter interface {
	Read(ctx context.Context, name string) (tabular.Table, error)
	Write(ctx context.Context, name string, table tabular.Table) error
}

// MetaRepository stores key/value state in a dedicated two-column table.
// Updates are full read-then-rewrite, matching the overwrite contract of
// every other table.
type MetaRepository struct {
	tables tableReadWriter
	name   string
}

// NewMetaRepository constructs a meta repository over the named table.
func NewMetaRepository(tables tableReadWriter, name string) *MetaRepository {
	return &MetaRepository{tables: tables, name: name}
}

// All returns every stored key/value pair. A missing or malformed meta table
// reads as empty.
func (r *MetaRepository) All(ctx context.Context) (map[string]string, error) {
	table, err := r.tables.Read(ctx, r.name)
	if err != nil {
		return nil, err
	}
	if !table.HasColumn(metaKeyColumn) || !table.HasColumn(metaValueColumn) {
		return map[string]string{}, nil
	}
	out := make(map[string]string, table.Len())
	for i := 0; i < table.Len(); i++ {
		out[table.Get(i, metaKeyColumn)] = table.Get(i, metaValueColumn)
	}
	return out, nil
}

// Get returns a single value, with "" for missing keys.
func (r *MetaRepository) Get(ctx context.Context, key string) (string, error) {
	all, err := r.All(ctx)
	if err != nil {
		return "", err
	}
	return all[key], nil
}

// Set merges the updates into the stored state and rewrites the table.
func (r *MetaRepository) Set(ctx context.Context, updates map[string]string) error {
	all, err := r.All(ctx)
	if err != nil {
		return err
	}
	for k, v := range updates {
		all[k] = v
	}

	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	table := tabular.New(metaKeyColumn, metaValueColumn)
	for _, k := range keys {
		table.AppendRow([]string{k, all[k]})
	}
	return r.tables.Write(ctx, r.name, table)
}
