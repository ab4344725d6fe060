package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yated-center/yated-crm-api/internal/tabular"
)

type storeStub struct {
	tables    map[string]tabular.Table
	readCalls int
	err       error
}

func newStoreStub() *storeStub {
	return &storeStub{tables: map[string]tabular.Table{}}
}

func (s *storeStub) ReadTable(ctx context.Context, name string) (tabular.Table, error) {
	s.readCalls++
	if s.err != nil {
		return tabular.Table{}, s.err
	}
	return s.tables[name].Clone(), nil
}

func (s *storeStub) WriteTable(ctx context.Context, name string, table tabular.Table) error {
	if s.err != nil {
		return s.err
	}
	s.tables[name] = table.Clone()
	return nil
}

func (s *storeStub) AppendRow(ctx context.Context, name string, values []string) error {
	if s.err != nil {
		return s.err
	}
	t := s.tables[name]
	t.AppendRow(values)
	s.tables[name] = t
	return nil
}

func (s *storeStub) ListTables(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	return names, nil
}

func (s *storeStub) EnsureTables(ctx context.Context, names []string) error {
	for _, name := range names {
		if _, ok := s.tables[name]; !ok {
			s.tables[name] = tabular.Table{}
		}
	}
	return nil
}

func TestTableRepositoryReadWriteWithoutCache(t *testing.T) {
	store := newStoreStub()
	store.tables["Participants"] = tabular.FromGrid([][]string{{"A"}, {"1"}})
	repo := NewTableRepository(store, nil, 0, nil, nil)

	table, err := repo.Read(context.Background(), "Participants")
	require.NoError(t, err)
	assert.Equal(t, "1", table.Get(0, "A"))

	table.Set(0, "A", "2")
	require.NoError(t, repo.Write(context.Background(), "Participants", table))

	again, err := repo.Read(context.Background(), "Participants")
	require.NoError(t, err)
	assert.Equal(t, "2", again.Get(0, "A"))
	assert.Equal(t, 2, store.readCalls)
}

func TestMetaRepositoryRoundTrip(t *testing.T) {
	store := newStoreStub()
	tables := NewTableRepository(store, nil, 0, nil, nil)
	meta := NewMetaRepository(tables, "__meta")

	value, err := meta.Get(context.Background(), KeyLastRolloverYear)
	require.NoError(t, err)
	assert.Equal(t, "", value)

	require.NoError(t, meta.Set(context.Background(), map[string]string{KeyLastRolloverYear: "2025"}))

	value, err = meta.Get(context.Background(), KeyLastRolloverYear)
	require.NoError(t, err)
	assert.Equal(t, "2025", value)

	// Updates merge with existing keys instead of replacing them.
	require.NoError(t, meta.Set(context.Background(), map[string]string{"other": "x"}))
	all, err := meta.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{KeyLastRolloverYear: "2025", "other": "x"}, all)
}
