// Package table provides the in-memory columnar table that carries sample
// data through the discrete summary pipeline.
//
// A Table is an ordered set of uniquely named columns of equal length. Cells
// are nullable Values; each column tracks a runtime storage type (object,
// float64, or timestamp) inferred from its cells. Tables are built by the CSV
// and XLSX readers, transformed by the cleaner and splitter, and combined with
// Concat using an outer column union.
package table

import "fmt"

// Table is an ordered collection of equal-length columns.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// New returns an empty table with the given row count.
func New(rows int) *Table {
	return &Table{index: make(map[string]int), rows: rows}
}

// FromColumns builds a table from columns. All columns must have the same
// length and distinct names.
func FromColumns(cols ...*Column) (*Table, error) {
	rows := 0
	if len(cols) > 0 {
		rows = cols[0].Len()
	}
	t := New(rows)
	for _, c := range cols {
		if err := t.AddColumn(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.cols) }

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in order. The slice must not be modified.
func (t *Table) Columns() []*Column { return t.cols }

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// Has reports whether the named column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// AddColumn appends a column. It fails on a duplicate name or length mismatch.
func (t *Table) AddColumn(c *Column) error {
	if _, exists := t.index[c.Name]; exists {
		return fmt.Errorf("duplicate column %q", c.Name)
	}
	if len(t.cols) == 0 && t.rows == 0 {
		t.rows = c.Len()
	}
	if c.Len() != t.rows {
		return fmt.Errorf("column %q has %d rows, table has %d", c.Name, c.Len(), t.rows)
	}
	t.index[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// SetColumn replaces the named column in place or appends it when absent.
func (t *Table) SetColumn(c *Column) error {
	if c.Len() != t.rows {
		return fmt.Errorf("column %q has %d rows, table has %d", c.Name, c.Len(), t.rows)
	}
	if i, ok := t.index[c.Name]; ok {
		t.cols[i] = c
		return nil
	}
	return t.AddColumn(c)
}

// DropColumns removes the named columns. Unknown names are ignored.
func (t *Table) DropColumns(names ...string) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := t.cols[:0]
	for _, c := range t.cols {
		if !drop[c.Name] {
			kept = append(kept, c)
		}
	}
	t.cols = kept
	t.reindex()
}

// Rename renames columns according to names, which must have one entry per
// column. The resulting names must be unique.
func (t *Table) Rename(names []string) error {
	if len(names) != len(t.cols) {
		return fmt.Errorf("rename: got %d names for %d columns", len(names), len(t.cols))
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return fmt.Errorf("rename: duplicate column %q", n)
		}
		seen[n] = true
	}
	for i, c := range t.cols {
		c.Name = names[i]
	}
	t.reindex()
	return nil
}

// KeepRows retains the rows whose mask entry is true and returns how many
// rows were dropped. Column storage types are re-inferred.
func (t *Table) KeepRows(mask []bool) int {
	kept := 0
	for _, k := range mask {
		if k {
			kept++
		}
	}
	dropped := t.rows - kept
	if dropped == 0 {
		return 0
	}
	for _, c := range t.cols {
		values := make([]Value, 0, kept)
		for i, v := range c.Values {
			if mask[i] {
				values = append(values, v)
			}
		}
		c.Values = values
		c.Retype()
	}
	t.rows = kept
	return dropped
}

// Select returns a new table with copies of the named columns, in the order
// given. Unknown names are an error.
func (t *Table) Select(names ...string) (*Table, error) {
	out := New(t.rows)
	for _, n := range names {
		c, ok := t.Column(n)
		if !ok {
			return nil, fmt.Errorf("select: unknown column %q", n)
		}
		if err := out.AddColumn(c.Clone()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := New(t.rows)
	for _, c := range t.cols {
		out.index[c.Name] = len(out.cols)
		out.cols = append(out.cols, c.Clone())
	}
	return out
}

// Equal reports whether two tables have the same row count and the same set
// of columns with identical cells. Column order is not compared.
func (t *Table) Equal(o *Table) bool {
	if t.rows != o.rows || len(t.cols) != len(o.cols) {
		return false
	}
	for _, c := range t.cols {
		oc, ok := o.Column(c.Name)
		if !ok || !c.Equal(oc) {
			return false
		}
	}
	return true
}

// Concat stacks tables vertically with an outer column union. Columns appear
// in first-seen order; a table lacking a column contributes nulls. Nil tables
// are skipped.
func Concat(tables ...*Table) *Table {
	var order []string
	seen := make(map[string]bool)
	total := 0
	for _, t := range tables {
		if t == nil {
			continue
		}
		total += t.rows
		for _, c := range t.cols {
			if !seen[c.Name] {
				seen[c.Name] = true
				order = append(order, c.Name)
			}
		}
	}

	out := New(total)
	for _, name := range order {
		values := make([]Value, 0, total)
		for _, t := range tables {
			if t == nil {
				continue
			}
			if c, ok := t.Column(name); ok {
				values = append(values, c.Values...)
			} else {
				values = append(values, make([]Value, t.rows)...)
			}
		}
		out.index[name] = len(out.cols)
		out.cols = append(out.cols, NewColumn(name, values))
	}
	return out
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.cols))
	for i, c := range t.cols {
		t.index[c.Name] = i
	}
}
