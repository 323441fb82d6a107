// Package table holds the in-memory tabular value passed between the query
// layer, the styling transform and the renderers.
package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Table is a rectangular result set. Cell values are nil, string, int64,
// float64 or bool.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// New returns an empty table with the given columns.
func New(columns ...string) *Table {
	return &Table{Columns: columns, Rows: [][]any{}}
}

// Append adds a row. It panics when the row width differs from the header;
// that is always a programming error.
func (t *Table) Append(row ...any) {
	if len(row) != len(t.Columns) {
		panic(fmt.Sprintf("table: row has %d values, want %d", len(row), len(t.Columns)))
	}
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the position of col or -1.
func (t *Table) Index(col string) int {
	for i, c := range t.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

// Has reports whether the table has col.
func (t *Table) Has(col string) bool { return t.Index(col) >= 0 }

// Value returns the cell at row for col.
func (t *Table) Value(row int, col string) (any, error) {
	i := t.Index(col)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, col)
	}
	if row < 0 || row >= len(t.Rows) {
		return nil, fmt.Errorf("%w: %d of %d", ErrRowOutOfRange, row, len(t.Rows))
	}
	return t.Rows[row][i], nil
}

// Column returns a copy of every value in col.
func (t *Table) Column(col string) ([]any, error) {
	i := t.Index(col)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, col)
	}
	out := make([]any, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out, nil
}

// Select projects the table onto cols, in that order.
func (t *Table) Select(cols ...string) (*Table, error) {
	idx := make([]int, len(cols))
	for j, c := range cols {
		i := t.Index(c)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, c)
		}
		idx[j] = i
	}
	out := &Table{Columns: append([]string(nil), cols...), Rows: make([][]any, len(t.Rows))}
	for r, row := range t.Rows {
		nr := make([]any, len(idx))
		for j, i := range idx {
			nr[j] = row[i]
		}
		out.Rows[r] = nr
	}
	return out, nil
}

// Truthy interprets v as a boolean flag. ok is false for nil and for
// values that do not read as a boolean.
func Truthy(v any) (value, ok bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case int64:
		return x != 0, true
	case int:
		return x != 0, true
	case float64:
		return x != 0, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return false, false
		}
		return b, true
	default:
		return false, false
	}
}

// Int interprets v as an integer.
func Int(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Float interprets v as a float.
func Float(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Format renders a cell for display: floats are rounded to three decimals
// and nil renders as the empty string.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(math.Round(x*1000)/1000, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
