// Package xlsx implements rowstore.Store over a local Excel workbook, one worksheet
// per table. It serves offline development and exports of the production sheet.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	pkgerrors "github.com/angelmondragon/rfqdesk/pkg/errors"
	"github.com/angelmondragon/rfqdesk/pkg/rowstore"
	"github.com/xuri/excelize/v2"
)

// Store opens the workbook on every call, so edits made by hand are picked up.
type Store struct {
	path   string
	tables []string
	mu     sync.Mutex
}

// New returns a store for the workbook at path. tables lists the worksheets Ping expects.
func New(path string, tables []string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("xlsx path is required")
	}
	return &Store{path: path, tables: tables}, nil
}

// EnsureWorkbook creates the workbook, and any missing worksheet, with the given
// header rows. Existing worksheets are left untouched.
func EnsureWorkbook(path string, headers map[string][]string) error {
	var (
		f   *excelize.File
		err error
	)
	created := false
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating workbook dir: %w", err)
		}
		f = excelize.NewFile()
		created = true
	} else {
		f, err = excelize.OpenFile(path)
		if err != nil {
			return fmt.Errorf("opening workbook: %w", err)
		}
	}
	defer f.Close()

	for name, header := range headers {
		idx, err := f.GetSheetIndex(name)
		if err != nil {
			return fmt.Errorf("looking up sheet %q: %w", name, err)
		}
		if idx >= 0 {
			continue
		}
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %q: %w", name, err)
		}
		cells := make([]any, len(header))
		for i, h := range header {
			cells[i] = h
		}
		if err := f.SetSheetRow(name, "A1", &cells); err != nil {
			return fmt.Errorf("writing header for %q: %w", name, err)
		}
	}
	if created {
		if _, ok := headers["Sheet1"]; !ok && len(headers) > 0 {
			if err := f.DeleteSheet("Sheet1"); err != nil {
				return fmt.Errorf("dropping default sheet: %w", err)
			}
		}
		return f.SaveAs(path)
	}
	return f.Save()
}

func (s *Store) open(op, table string) (*excelize.File, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, rowstore.Unavailable(err, op, table)
	}
	idx, err := f.GetSheetIndex(table)
	if err != nil || idx < 0 {
		f.Close()
		return nil, rowstore.ErrTableNotFound(table)
	}
	return f, nil
}

func (s *Store) FetchAll(_ context.Context, table string) ([]rowstore.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open("fetch", table)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	grid, err := f.GetRows(table)
	if err != nil {
		return nil, rowstore.Unavailable(err, "fetch", table)
	}
	if len(grid) == 0 {
		return []rowstore.Row{}, nil
	}
	header := trimAll(grid[0])
	rows := make([]rowstore.Row, 0, len(grid)-1)
	for i, raw := range grid[1:] {
		row := rowstore.Row{Index: i}
		for col, name := range header {
			if name == "" || col >= len(raw) {
				continue
			}
			row.Cells = append(row.Cells, rowstore.Cell{Column: name, Value: raw[col]})
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Store) Append(_ context.Context, table string, record rowstore.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open("append", table)
	if err != nil {
		return err
	}
	defer f.Close()

	grid, err := f.GetRows(table)
	if err != nil {
		return rowstore.Unavailable(err, "append", table)
	}
	if len(grid) == 0 {
		return pkgerrors.New(pkgerrors.CodeBackendUnavailable, fmt.Sprintf("table %q has no header row", table))
	}
	header := trimAll(grid[0])
	if err := writeCells(f, table, header, len(grid)+1, record); err != nil {
		return err
	}
	if err := f.Save(); err != nil {
		return rowstore.Unavailable(err, "append", table)
	}
	return nil
}

func (s *Store) UpdateAt(_ context.Context, table string, index int, record rowstore.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open("update", table)
	if err != nil {
		return err
	}
	defer f.Close()

	grid, err := f.GetRows(table)
	if err != nil {
		return rowstore.Unavailable(err, "update", table)
	}
	if len(grid) == 0 || index < 0 || index >= len(grid)-1 {
		return rowstore.ErrRowNotFound(table, index)
	}
	header := trimAll(grid[0])
	if err := writeCells(f, table, header, index+2, record); err != nil {
		return err
	}
	if err := f.Save(); err != nil {
		return rowstore.Unavailable(err, "update", table)
	}
	return nil
}

// Ping opens the workbook and checks every expected worksheet exists.
func (s *Store) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return rowstore.Unavailable(err, "ping", s.path)
	}
	defer f.Close()
	for _, table := range s.tables {
		if idx, err := f.GetSheetIndex(table); err != nil || idx < 0 {
			return rowstore.ErrTableNotFound(table)
		}
	}
	return nil
}

// writeCells sets the record's values on the 1-based worksheet row.
func writeCells(f *excelize.File, table string, header []string, excelRow int, record rowstore.Record) error {
	for key, value := range record {
		col := rowstore.MatchColumn(header, key)
		if col < 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, excelRow)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building cell reference")
		}
		if err := f.SetCellValue(table, cell, value); err != nil {
			return rowstore.Unavailable(err, "write", table)
		}
	}
	return nil
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
