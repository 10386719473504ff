package semantic

import (
	"fmt"
	"strings"
)

// FormatFunctionTable renders a column-aligned function table.
func (r *Result) FormatFunctionTable() string {
	rows := [][]string{{"FUNCTION", "LINE"}}
	for _, f := range r.Functions {
		rows = append(rows, []string{f.Name, fmt.Sprintf("%d", f.Pos.Line)})
	}
	return formatTable(rows)
}

// FormatVariableTable renders a column-aligned variable table.
func (r *Result) FormatVariableTable() string {
	rows := [][]string{{"FUNCTION", "NAME", "DEPTH", "LINE"}}
	for _, v := range r.Variables {
		rows = append(rows, []string{v.Function, v.Name, fmt.Sprintf("%d", v.Depth), fmt.Sprintf("%d", v.Pos.Line)})
	}
	return formatTable(rows)
}

// formatTable pads every column to its widest cell and separates the
// header row with a rule of dashes.
func formatTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRow := func(row []string) {
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
		}
		b.WriteByte('\n')
	}

	writeRow(rows[0])
	for i, w := range widths {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(strings.Repeat("-", w))
	}
	b.WriteByte('\n')
	for _, row := range rows[1:] {
		writeRow(row)
	}
	return b.String()
}
