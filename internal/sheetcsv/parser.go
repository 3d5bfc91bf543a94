// Package sheetcsv parses the published CSV exports of the portal's source
// spreadsheets and resolves semantically-named columns in their header rows.
package sheetcsv

import "strings"

// Parse splits raw CSV text into rows of cells. Cells are trimmed of
// surrounding whitespace and their delimiting double quotes are removed.
// Commas and newlines inside quoted cells are preserved; a doubled quote
// inside a quoted cell is an escaped quote.
//
// Malformed input never fails: short rows simply yield fewer cells and an
// unterminated quote runs to the end of the input. Empty input yields no rows.
func Parse(text string) [][]string {
	if text == "" {
		return nil
	}

	var (
		rows     [][]string
		row      []string
		cell     strings.Builder
		inQuotes bool
		quoted   bool
	)

	finishCell := func() {
		row = append(row, strings.TrimSpace(cell.String()))
		cell.Reset()
		quoted = false
	}

	finishRow := func() {
		finishCell()
		rows = append(rows, row)
		row = nil
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case inQuotes:
			if c == '"' {
				if i+1 < len(runes) && runes[i+1] == '"' {
					cell.WriteRune('"')
					i++
					continue
				}
				inQuotes = false
				continue
			}
			cell.WriteRune(c)
		case c == '"' && strings.TrimSpace(cell.String()) == "":
			// Opening quote; discard any leading whitespace before it.
			cell.Reset()
			inQuotes = true
			quoted = true
		case c == ',':
			finishCell()
		case c == '\n':
			finishRow()
		case c == '\r':
			// Swallowed so CRLF input matches LF input.
		default:
			cell.WriteRune(c)
		}
	}

	// A trailing newline does not produce an empty final row.
	if cell.Len() > 0 || quoted || len(row) > 0 {
		finishRow()
	}

	return rows
}
