package service

import (
	"context"
	"sort"

	"github.com/yated-center/yated-crm-api/internal/tabular"
)

// tableRepoStub keeps tables in memory with the same overwrite semantics as
// the real repository.
type tableRepoStub struct {
	tables map[string]tabular.Table
}

func newTableRepoStub() *tableRepoStub {
	return &tableRepoStub{tables: map[string]tabular.Table{}}
}

func (s *tableRepoStub) Read(_ context.Context, name string) (tabular.Table, error) {
	return s.tables[name].Clone(), nil
}

func (s *tableRepoStub) Write(_ context.Context, name string, table tabular.Table) error {
	s.tables[name] = table.Clone()
	return nil
}

func (s *tableRepoStub) Append(_ context.Context, name string, values []string) error {
	table := s.tables[name]
	row := make([]string, len(table.Columns))
	copy(row, values)
	table.Rows = append(table.Rows, row)
	s.tables[name] = table
	return nil
}

func (s *tableRepoStub) List(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(s.tables))
	for n := range s.tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (s *tableRepoStub) Ensure(_ context.Context, names []string) error {
	for _, n := range names {
		if _, ok := s.tables[n]; !ok {
			s.tables[n] = tabular.Table{}
		}
	}
	return nil
}

// metaRepoStub is an in-memory key/value store.
type metaRepoStub struct {
	values map[string]string
}

func newMetaRepoStub() *metaRepoStub {
	return &metaRepoStub{values: map[string]string{}}
}

func (s *metaRepoStub) Get(_ context.Context, key string) (string, error) {
	return s.values[key], nil
}

func (s *metaRepoStub) Set(_ context.Context, updates map[string]string) error {
	for k, v := range updates {
		s.values[k] = v
	}
	return nil
}
