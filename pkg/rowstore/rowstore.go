// Package rowstore abstracts a remote tabular store: named tables whose first row is
// a header and whose remaining rows are addressed by their position.
package rowstore

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/rfqdesk/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Store is the contract every backend implements. Implementations hold no cache:
// each call reads the backend afresh.
type Store interface {
	FetchAll(ctx context.Context, table string) ([]Row, error)
	Append(ctx context.Context, table string, record Record) error
	UpdateAt(ctx context.Context, table string, index int, record Record) error
}

// Pinger exposes the readiness surface of a backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Cell is one column of a row.
type Cell struct {
	Column string
	Value  any
}

// Row is a data row in header order. Index is the 0-based position among data rows
// (the header excluded) and is the handle UpdateAt expects.
type Row struct {
	Index int
	Cells []Cell
}

// NewRow builds a row from alternating column/value pairs; mostly useful in tests.
func NewRow(index int, pairs ...any) Row {
	row := Row{Index: index}
	for i := 0; i+1 < len(pairs); i += 2 {
		row.Cells = append(row.Cells, Cell{Column: fmt.Sprint(pairs[i]), Value: pairs[i+1]})
	}
	return row
}

// Get returns the value stored under the exact column name.
func (r Row) Get(column string) (any, bool) {
	for _, c := range r.Cells {
		if c.Column == column {
			return c.Value, true
		}
	}
	return nil, false
}

// Columns lists the row's column names in header order.
func (r Row) Columns() []string {
	cols := make([]string, 0, len(r.Cells))
	for _, c := range r.Cells {
		cols = append(cols, c.Column)
	}
	return cols
}

// Record is a set of column values to write.
type Record map[string]any

// NormalizeColumn folds a column label for tolerant comparison: NFC, trimmed, upper-cased.
func NormalizeColumn(name string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(norm.NFC.String(name)))
}

// MatchColumn finds the header column a record key should be written to: an exact
// match first, then a normalized one. It returns -1 when the header has no such column.
func MatchColumn(header []string, key string) int {
	for i, h := range header {
		if h == key {
			return i
		}
	}
	want := NormalizeColumn(key)
	if want == "" {
		return -1
	}
	for i, h := range header {
		if NormalizeColumn(h) == want {
			return i
		}
	}
	return -1
}

// Stringify renders a cell value the way it is written to text-based backends.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// ErrRowNotFound reports that no row occupies the requested handle.
func ErrRowNotFound(table string, index int) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("row %d not found in %q", index, table)).
		WithDetails(map[string]any{"table": table, "index": index})
}

// ErrTableNotFound reports a missing table; the backend is considered misconfigured.
func ErrTableNotFound(table string) error {
	return pkgerrors.New(pkgerrors.CodeBackendUnavailable, fmt.Sprintf("table %q does not exist", table))
}

// Unavailable wraps err as a backend failure for the given table and operation.
func Unavailable(err error, op, table string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeBackendUnavailable, err, fmt.Sprintf("%s %q", op, table))
}
