package main

import (
	"fmt"
	"strings"

	"github.com/bawdo/relq/engine"
)

const maxRows = 1000

// formatResult renders a select result as an ASCII table, truncated at
// maxRows rows.
func formatResult(res engine.Result) string {
	rows := make([][]string, 0, min(len(res.Rows), maxRows))
	for i, row := range res.Rows {
		if i == maxRows {
			break
		}
		cells := make([]string, len(res.Columns))
		for j := range cells {
			if j < len(row) {
				cells[j] = formatCell(row[j])
			}
		}
		rows = append(rows, cells)
	}
	out := formatTable(res.Columns, rows)
	if len(res.Rows) > maxRows {
		out += fmt.Sprintf("(truncated at %d rows)\n", maxRows)
	}
	return out
}

func formatCell(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprint(v)
}

func formatTable(columns []string, rows [][]string) string {
	if len(columns) == 0 {
		return "(0 rows)\n"
	}

	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	var b strings.Builder
	sep := buildSeparator(widths)

	b.WriteString(sep)
	b.WriteByte('|')
	for i, c := range columns {
		fmt.Fprintf(&b, " %-*s |", widths[i], c)
	}
	b.WriteByte('\n')
	b.WriteString(sep)

	for _, row := range rows {
		b.WriteByte('|')
		for i, cell := range row {
			fmt.Fprintf(&b, " %-*s |", widths[i], cell)
		}
		b.WriteByte('\n')
	}
	b.WriteString(sep)

	if n := len(rows); n == 1 {
		b.WriteString("(1 row)\n")
	} else {
		fmt.Fprintf(&b, "(%d rows)\n", n)
	}
	return b.String()
}

func buildSeparator(widths []int) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteByte('+')
	}
	b.WriteByte('\n')
	return b.String()
}

// formatAffected reports the outcome of an INSERT, UPDATE or DELETE.
func formatAffected(res engine.Result) string {
	noun := "rows"
	if res.RowsAffected == 1 {
		noun = "row"
	}
	if res.LastInsertID != 0 {
		return fmt.Sprintf("(%d %s affected, last insert id %d)\n", res.RowsAffected, noun, res.LastInsertID)
	}
	return fmt.Sprintf("(%d %s affected)\n", res.RowsAffected, noun)
}
