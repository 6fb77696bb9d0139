package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table lays out rows in space-aligned columns with no borders. Widths are
// measured with lipgloss so styled cells line up.
type Table struct {
	rows   [][]string
	widths []int
	right  []bool
	gap    int
}

// NewTable returns a table with cols columns, left-aligned, two spaces apart.
func NewTable(cols int) *Table {
	return &Table{
		widths: make([]int, cols),
		right:  make([]bool, cols),
		gap:    2,
	}
}

// AlignRight right-aligns column col (counts, sizes).
func (t *Table) AlignRight(col int) *Table {
	if col >= 0 && col < len(t.right) {
		t.right[col] = true
	}
	return t
}

// AddRow appends a row. Missing cells are blank; extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.widths))
	copy(row, cells)
	for i, cell := range row {
		if w := lipgloss.Width(cell); w > t.widths[i] {
			t.widths[i] = w
		}
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// String renders the table. The last column is never padded so lines carry
// no trailing spaces unless it is right-aligned.
func (t *Table) String() string {
	var sb strings.Builder
	gap := strings.Repeat(" ", t.gap)
	last := len(t.widths) - 1

	for _, row := range t.rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString(gap)
			}
			pad := strings.Repeat(" ", t.widths[i]-lipgloss.Width(cell))
			switch {
			case t.right[i]:
				sb.WriteString(pad + cell)
			case i == last:
				sb.WriteString(cell)
			default:
				sb.WriteString(cell + pad)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
