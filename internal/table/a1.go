package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is a parsed A1 reference such as "RSVPs!A2:C" or "Roster!C5".
// Column and row numbers are 1-indexed; zero means unbounded.
type Range struct {
	Sheet    string
	StartCol int
	StartRow int
	EndCol   int
	EndRow   int
}

// ParseRange parses an A1 reference. A bare sheet name covers the whole sheet.
func ParseRange(ref string) (Range, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Range{}, fmt.Errorf("empty range")
	}

	sheet, cells, hasCells := ref, "", false
	if i := strings.LastIndex(ref, "!"); i >= 0 {
		sheet, cells, hasCells = ref[:i], ref[i+1:], true
	}
	if len(sheet) >= 2 && strings.HasPrefix(sheet, "'") && strings.HasSuffix(sheet, "'") {
		sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
	}
	if sheet == "" {
		return Range{}, fmt.Errorf("range %q has no sheet name", ref)
	}

	r := Range{Sheet: sheet, StartCol: 1, StartRow: 1}
	if !hasCells || cells == "" {
		return r, nil
	}

	start, end, isSpan := strings.Cut(cells, ":")
	col, row, err := parseCell(start)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", ref, err)
	}
	if col > 0 {
		r.StartCol = col
	}
	if row > 0 {
		r.StartRow = row
	}

	if !isSpan {
		// A single cell like "C5" is its own end, a bare "C" is a whole column.
		r.EndCol = col
		r.EndRow = row
		return r, nil
	}

	col, row, err = parseCell(end)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", ref, err)
	}
	r.EndCol = col
	r.EndRow = row
	return r, nil
}

// String formats the range back into A1 notation
func (r Range) String() string {
	sheet := r.Sheet
	if strings.ContainsAny(sheet, " '!:") {
		sheet = "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	}
	if r.StartCol <= 1 && r.StartRow <= 1 && r.EndCol == 0 && r.EndRow == 0 {
		return sheet
	}
	start := columnName(r.StartCol) + rowName(r.StartRow)
	if r.EndCol == r.StartCol && r.EndRow == r.StartRow && r.EndCol > 0 && r.EndRow > 0 {
		return fmt.Sprintf("%s!%s", sheet, start)
	}
	end := columnName(r.EndCol) + rowName(r.EndRow)
	if end == "" {
		return fmt.Sprintf("%s!%s", sheet, start)
	}
	return fmt.Sprintf("%s!%s:%s", sheet, start, end)
}

// Row narrows the range to one row, keeping its columns
func (r Range) Row(row int) Range {
	r.StartRow = row
	r.EndRow = row
	if r.EndCol == 0 {
		r.EndCol = r.StartCol
	}
	return r
}

// Cell returns the single-cell range at the given column and row
func (r Range) Cell(col, row int) Range {
	return Range{Sheet: r.Sheet, StartCol: col, StartRow: row, EndCol: col, EndRow: row}
}

// RowRef is shorthand for ParseRange(ref) narrowed to a single row
func RowRef(ref string, row int) (string, error) {
	r, err := ParseRange(ref)
	if err != nil {
		return "", err
	}
	return r.Row(row).String(), nil
}

func parseCell(s string) (col, row int, err error) {
	s = strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(s, "$", "")))
	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		col = col*26 + int(s[i]-'A'+1)
		i++
	}
	if i < len(s) {
		row, err = strconv.Atoi(s[i:])
		if err != nil || row < 1 {
			return 0, 0, fmt.Errorf("invalid cell %q", s)
		}
	}
	if col == 0 && row == 0 {
		return 0, 0, fmt.Errorf("invalid cell %q", s)
	}
	return col, row, nil
}

func columnName(col int) string {
	if col <= 0 {
		return ""
	}
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+col%26)) + name
		col /= 26
	}
	return name
}

func rowName(row int) string {
	if row <= 0 {
		return ""
	}
	return strconv.Itoa(row)
}
