// Package table provides range-addressed access to spreadsheet-like tables.
//
// A Store has no primary keys and no conditional writes. Callers that read a
// table to find a row and then write to it race with other writers of the
// same table.
package table

import (
	"context"
	"errors"
)

// ErrEmptyRange is returned when a write has no rows
var ErrEmptyRange = errors.New("no rows to write")

// Store reads and writes rows of cells addressed by A1 references
type Store interface {
	// Get returns the rows covered by ref. Trailing empty cells and rows
	// may be omitted.
	Get(ctx context.Context, ref string) ([][]string, error)
	// Append writes rows after the last non-empty row of ref's table.
	Append(ctx context.Context, ref string, rows [][]string) error
	// Update overwrites cells starting at the top-left cell of ref.
	Update(ctx context.Context, ref string, rows [][]string) error
}

// Cell returns the value at the 0-indexed column of row, or "" when the
// row is too short
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// window cuts the sheet rows down to the columns and rows covered by r
func window(rows [][]string, r Range) [][]string {
	from := r.StartRow - 1
	if from >= len(rows) {
		return [][]string{}
	}
	to := len(rows)
	if r.EndRow > 0 && r.EndRow < to {
		to = r.EndRow
	}

	out := make([][]string, 0, to-from)
	for _, row := range rows[from:to] {
		lo := r.StartCol - 1
		hi := len(row)
		if r.EndCol > 0 && r.EndCol < hi {
			hi = r.EndCol
		}
		var cells []string
		if lo < hi {
			cells = append([]string(nil), row[lo:hi]...)
		}
		out = append(out, trimRow(cells))
	}
	return trimRows(out)
}

// place writes values into rows starting at the given 0-indexed row and
// column, growing the sheet as needed
func place(rows [][]string, rowIdx, colIdx int, values [][]string) [][]string {
	for len(rows) < rowIdx+len(values) {
		rows = append(rows, nil)
	}
	for i, vals := range values {
		row := rows[rowIdx+i]
		for len(row) < colIdx+len(vals) {
			row = append(row, "")
		}
		copy(row[colIdx:], vals)
		rows[rowIdx+i] = trimRow(row)
	}
	return rows
}

// lastFilled returns the 0-indexed position after the last non-empty row at
// or below start
func lastFilled(rows [][]string, start int) int {
	end := start
	for i := start; i < len(rows); i++ {
		if len(trimRow(rows[i])) > 0 {
			end = i + 1
		}
	}
	return end
}

func trimRow(row []string) []string {
	n := len(row)
	for n > 0 && row[n-1] == "" {
		n--
	}
	return row[:n]
}

func trimRows(rows [][]string) [][]string {
	n := len(rows)
	for n > 0 && len(rows[n-1]) == 0 {
		n--
	}
	return rows[:n]
}
