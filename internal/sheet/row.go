package sheet

import (
	"strings"

	"github.com/sells-group/roster-cli/internal/textnorm"
)

// Row is a spreadsheet row reduced to its non-empty cells.
type Row struct {
	Index   int         `json:"index"`
	Cells   []Cell      `json:"cells"`
	Text    string      `json:"text"`
	Section SectionType `json:"section,omitempty"`

	folded string
}

// NewRow builds a Row from raw cell values. ok is false when every cell is
// empty.
func NewRow(index int, raw []any) (Row, bool) {
	r := Row{Index: index}
	for col, v := range raw {
		if c, ok := NewCell(index, col, v); ok {
			r.Cells = append(r.Cells, c)
		}
	}
	if len(r.Cells) == 0 {
		return Row{}, false
	}
	values := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		values[i] = c.Value
	}
	r.Text = strings.Join(values, " | ")
	r.folded = textnorm.Fold(r.Text)
	return r, true
}

// At returns the value in column col, or "" when that cell is empty.
func (r Row) At(col int) string {
	for _, c := range r.Cells {
		if c.Col == col {
			return c.Value
		}
		if c.Col > col {
			break
		}
	}
	return ""
}

// Range returns the non-empty cells with from <= Col <= to.
func (r Row) Range(from, to int) []Cell {
	var out []Cell
	for _, c := range r.Cells {
		if c.Col >= from && c.Col <= to {
			out = append(out, c)
		}
	}
	return out
}

// Values returns the cell values in column order.
func (r Row) Values() []string {
	out := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = c.Value
	}
	return out
}

// Folded returns the row text in keyword-comparison form.
func (r Row) Folded() string {
	if r.folded == "" && r.Text != "" {
		return textnorm.Fold(r.Text)
	}
	return r.folded
}

// Filled returns the number of non-empty cells.
func (r Row) Filled() int {
	return len(r.Cells)
}

// HasTime reports whether any cell looks like a time of day.
func (r Row) HasTime() bool {
	for _, c := range r.Cells {
		if c.IsTime {
			return true
		}
	}
	return false
}

// Sheet is the normalized first worksheet of a roster file.
type Sheet struct {
	Rows []Row `json:"rows"`
}

// FromGrid normalizes a raw grid, dropping empty rows. Row indices refer to
// positions in the original grid.
func FromGrid(grid [][]any) *Sheet {
	s := &Sheet{}
	for i, raw := range grid {
		if r, ok := NewRow(i, raw); ok {
			s.Rows = append(s.Rows, r)
		}
	}
	return s
}

// FromStrings is FromGrid for string grids produced by the file readers.
func FromStrings(grid [][]string) *Sheet {
	anyGrid := make([][]any, len(grid))
	for i, row := range grid {
		anyGrid[i] = make([]any, len(row))
		for j, v := range row {
			anyGrid[i][j] = v
		}
	}
	return FromGrid(anyGrid)
}

// Empty reports whether the sheet has no non-empty rows.
func (s *Sheet) Empty() bool {
	return s == nil || len(s.Rows) == 0
}
