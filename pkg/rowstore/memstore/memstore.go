// Package memstore keeps tables in process memory. It backs the "memory" driver and
// service tests; rows behave like spreadsheet rows (header order, positional handles).
package memstore

import (
	"context"
	"sync"

	"github.com/angelmondragon/rfqdesk/pkg/rowstore"
)

type table struct {
	header []string
	rows   [][]any
}

// Store is a concurrency-safe in-memory rowstore.Store.
type Store struct {
	mu     sync.RWMutex
	tables map[string]*table
}

func New() *Store {
	return &Store{tables: map[string]*table{}}
}

// CreateTable registers a table with the given header, replacing any existing one.
func (s *Store) CreateTable(name string, header ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[name] = &table{header: append([]string(nil), header...)}
}

// Seed appends raw rows in header order. Short rows leave trailing cells absent.
func (s *Store) Seed(name string, rows ...[]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[name]
	if !ok {
		return
	}
	for _, r := range rows {
		t.rows = append(t.rows, append([]any(nil), r...))
	}
}

// Delete removes the row at index, shifting later rows up like a spreadsheet would.
func (s *Store) Delete(name string, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[name]
	if !ok || index < 0 || index >= len(t.rows) {
		return
	}
	t.rows = append(t.rows[:index], t.rows[index+1:]...)
}

func (s *Store) FetchAll(_ context.Context, name string) ([]rowstore.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[name]
	if !ok {
		return nil, rowstore.ErrTableNotFound(name)
	}
	out := make([]rowstore.Row, 0, len(t.rows))
	for i, raw := range t.rows {
		row := rowstore.Row{Index: i}
		for col, h := range t.header {
			if h == "" || col >= len(raw) {
				continue
			}
			row.Cells = append(row.Cells, rowstore.Cell{Column: h, Value: raw[col]})
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *Store) Append(_ context.Context, name string, record rowstore.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[name]
	if !ok {
		return rowstore.ErrTableNotFound(name)
	}
	raw := make([]any, len(t.header))
	for key, value := range record {
		if col := rowstore.MatchColumn(t.header, key); col >= 0 {
			raw[col] = value
		}
	}
	t.rows = append(t.rows, raw)
	return nil
}

func (s *Store) UpdateAt(_ context.Context, name string, index int, record rowstore.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[name]
	if !ok {
		return rowstore.ErrTableNotFound(name)
	}
	if index < 0 || index >= len(t.rows) {
		return rowstore.ErrRowNotFound(name, index)
	}
	raw := t.rows[index]
	for key, value := range record {
		col := rowstore.MatchColumn(t.header, key)
		if col < 0 {
			continue
		}
		for len(raw) <= col {
			raw = append(raw, nil)
		}
		raw[col] = value
	}
	t.rows[index] = raw
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}
