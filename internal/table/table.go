package table

import "fmt"

// Table is one sheet read from a source: a header row naming the columns and
// the data rows below it. Rows may be shorter than the header.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Row is a header-addressed view over a single data row.
type Row struct {
	table *Table
	cells []string
	index int
}

// New builds a Table from raw values where the first row is the header.
func New(name string, values [][]string) *Table {
	t := &Table{Name: name}
	if len(values) == 0 {
		return t
	}
	t.Header = values[0]
	t.Rows = values[1:]
	return t
}

// Empty reports whether the table has no header.
func (t *Table) Empty() bool {
	return len(t.Header) == 0
}

// Column returns the index of the header cell equal to name. With duplicate
// header names the last one wins.
func (t *Table) Column(name string) (int, bool) {
	for i := len(t.Header) - 1; i >= 0; i-- {
		if t.Header[i] == name {
			return i, true
		}
	}
	return -1, false
}

// HasColumn reports whether the header contains name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Row returns the i-th data row (0-based, header excluded).
func (t *Table) Row(i int) Row {
	return Row{table: t, cells: t.Rows[i], index: i}
}

// Each calls fn for every data row in order.
func (t *Table) Each(fn func(Row)) {
	for i := range t.Rows {
		fn(t.Row(i))
	}
}

// Get returns the cell under column. The second result is false when the
// column does not exist or the row stops before it; an empty cell that is
// present returns ("", true).
func (r Row) Get(column string) (string, bool) {
	idx, ok := r.table.Column(column)
	if !ok || idx >= len(r.cells) {
		return "", false
	}
	return r.cells[idx], true
}

// Index is the 0-based position of the row below the header.
func (r Row) Index() int {
	return r.index
}

// Stringify converts raw API cell values to strings, leaving nil cells empty.
func Stringify(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v == nil {
				continue
			}
			if s, ok := v.(string); ok {
				cells[j] = s
				continue
			}
			cells[j] = fmt.Sprintf("%v", v)
		}
		out[i] = cells
	}
	return out
}
