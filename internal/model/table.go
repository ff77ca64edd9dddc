package model

// Table is a rectangular grid of cell text with a header row.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable builds a table from a raw grid whose first row is the header.
// Rows are padded or truncated to the header width.
func NewTable(grid [][]string) Table {
	if len(grid) == 0 {
		return Table{}
	}

	columns := append([]string(nil), grid[0]...)
	rows := make([][]string, 0, len(grid)-1)
	for _, raw := range grid[1:] {
		row := make([]string, len(columns))
		copy(row, raw)
		rows = append(rows, row)
	}
	return Table{Columns: columns, Rows: rows}
}

// Empty reports whether the table has no columns.
func (t Table) Empty() bool {
	return len(t.Columns) == 0
}

// ColumnIndex returns the first index of name, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table has a column named name.
func (t Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Cell returns the text at row, column name; empty when absent.
func (t Table) Cell(row int, name string) string {
	i := t.ColumnIndex(name)
	if i < 0 || row < 0 || row >= len(t.Rows) || i >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][i]
}

// DuplicateColumns lists column names that occur more than once, in order of
// their second occurrence.
func (t Table) DuplicateColumns() []string {
	seen := make(map[string]int, len(t.Columns))
	var dups []string
	for _, c := range t.Columns {
		seen[c]++
		if seen[c] == 2 {
			dups = append(dups, c)
		}
	}
	return dups
}

// Clone returns a deep copy.
func (t Table) Clone() Table {
	out := Table{Columns: append([]string(nil), t.Columns...)}
	out.Rows = make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		out.Rows[i] = append([]string(nil), r...)
	}
	return out
}
