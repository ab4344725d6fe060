package tabular

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Table is a rectangular, header-keyed view over spreadsheet cells. Column
// order is significant and column names are unique; every cell is a string.
type Table struct {
	Columns []string
	Rows    [][]string
}

// New returns an empty table with the given column names.
func New(columns ...string) Table {
	return Table{Columns: append([]string(nil), columns...)}
}

// FromGrid builds a table from a raw value grid as returned by the store.
// The first row is the header row; table width is the widest row seen and
// short rows are right-padded with empty cells.
func FromGrid(values [][]string) Table {
	if len(values) == 0 {
		return Table{}
	}

	width := 0
	for _, row := range values {
		if len(row) > width {
			width = len(row)
		}
	}

	t := Table{Columns: NormalizeHeaders(values[0], width)}
	for _, row := range values[1:] {
		padded := make([]string, width)
		copy(padded, row)
		t.Rows = append(t.Rows, padded)
	}
	return t
}

// NormalizeHeaders trims raw header cells and guarantees non-empty, unique
// column names of exactly the requested width. Blank headers become col_N
// (1-based); repeated names get a _2, _3, ... suffix in order of appearance.
func NormalizeHeaders(headers []string, width int) []string {
	trimmed := make([]string, width)
	for i := 0; i < width && i < len(headers); i++ {
		trimmed[i] = strings.TrimSpace(headers[i])
	}

	out := make([]string, width)
	seen := make(map[string]int, width)
	for i, h := range trimmed {
		base := h
		if base == "" {
			base = "col_" + strconv.Itoa(i+1)
		}
		n := seen[base]
		seen[base] = n + 1
		if n == 0 {
			out[i] = base
		} else {
			out[i] = base + "_" + strconv.Itoa(n+1)
		}
	}
	return out
}

// Grid renders the table back into a value grid: header row plus data rows.
func (t Table) Grid() [][]string {
	grid := make([][]string, 0, len(t.Rows)+1)
	grid = append(grid, append([]string(nil), t.Columns...))
	for _, row := range t.Rows {
		grid = append(grid, append([]string(nil), row...))
	}
	return grid
}

// IsEmpty reports whether the table has no columns at all.
func (t Table) IsEmpty() bool {
	return len(t.Columns) == 0
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Clone returns a deep copy.
func (t Table) Clone() Table {
	out := Table{Columns: append([]string(nil), t.Columns...)}
	out.Rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}

// ColumnIndex returns the position of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Get returns the cell at (row, column), or "" when either is missing.
func (t Table) Get(row int, column string) string {
	idx := t.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= len(t.Rows) || idx >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][idx]
}

// Set writes the cell at (row, column); missing columns are a no-op.
func (t *Table) Set(row int, column, value string) {
	idx := t.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return
	}
	t.Rows[row][idx] = value
}

// Column returns a copy of the named column's cells, one per row.
func (t Table) Column(name string) []string {
	idx := t.ColumnIndex(name)
	out := make([]string, len(t.Rows))
	if idx < 0 {
		return out
	}
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}

// SetColumn replaces the named column's cells, appending the column at the
// end when it does not exist yet. Values shorter than the table are padded.
func (t *Table) SetColumn(name string, values []string) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		t.Columns = append(t.Columns, name)
		idx = len(t.Columns) - 1
	}
	for i := range t.Rows {
		for len(t.Rows[i]) < len(t.Columns) {
			t.Rows[i] = append(t.Rows[i], "")
		}
		if i < len(values) {
			t.Rows[i][idx] = values[i]
		} else {
			t.Rows[i][idx] = ""
		}
	}
}

// DropColumn removes the named column if present.
func (t *Table) DropColumn(name string) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return
	}
	t.Columns = append(t.Columns[:idx], t.Columns[idx+1:]...)
	for i, row := range t.Rows {
		if idx < len(row) {
			t.Rows[i] = append(row[:idx], row[idx+1:]...)
		}
	}
}

// AppendRow adds a data row, padded or truncated to the table width.
func (t *Table) AppendRow(values []string) {
	row := make([]string, len(t.Columns))
	copy(row, values)
	t.Rows = append(t.Rows, row)
}

// AppendRowMap adds a data row keyed by column name; unknown keys are dropped.
func (t *Table) AppendRowMap(cells map[string]string) {
	row := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		row[i] = cells[c]
	}
	t.Rows = append(t.Rows, row)
}

// RowMap returns the given row keyed by column name.
func (t Table) RowMap(row int) map[string]string {
	out := make(map[string]string, len(t.Columns))
	for _, c := range t.Columns {
		out[c] = t.Get(row, c)
	}
	return out
}

// SortStable orders rows with a stable sort using the supplied comparison.
func (t *Table) SortStable(less func(i, j int) bool) {
	sort.SliceStable(t.Rows, less)
}

// Float parses a cell defensively: surrounding whitespace is ignored and
// anything non-numeric is 0.
func Float(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// LooksInt reports whether the cell holds a plain integer.
func LooksInt(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

// FormatRound2 rounds to two decimals and renders the shortest decimal
// representation, keeping one decimal place for whole numbers (80 -> "80.0")
// so derived hour and money cells stay recognisably numeric in the sheet.
func FormatRound2(v float64) string {
	r := math.Round(v*100) / 100
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
