// Package workbook reads sheets out of the XLSX files the tool consumes:
// the CMF rule workbook and its optional local Crash Data sheet.
package workbook

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ErrFormat marks workbook problems the user has to fix: unreadable
// files, missing sheets, missing columns, unparseable cells.
var ErrFormat = eris.New("workbook: invalid format")

// Options selects the sheet to read.
type Options struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// ReadSheet reads one sheet and returns all rows as string slices,
// header row included.
func ReadSheet(path string, opts Options) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(ErrFormat, "open %s: %v", path, err)
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		rows = append(rows, rowToStrings(row))
	}
	return rows, nil
}

// HasSheet reports whether the workbook contains a sheet with the given
// name. Used to decide between local crash data and the remote fetch.
func HasSheet(path, name string) (bool, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return false, eris.Wrapf(ErrFormat, "open %s: %v", path, err)
	}
	_, ok := f.Sheet[name]
	return ok, nil
}

// HeaderIndex maps normalized column names to their position in the
// header row. Lookups are case-insensitive and ignore surrounding space.
func HeaderIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[NormalizeHeader(col)] = i
	}
	return idx
}

// NormalizeHeader lowercases and trims a column name for HeaderIndex
// lookups.
func NormalizeHeader(col string) string {
	return strings.ToLower(strings.TrimSpace(col))
}

// Cell returns row[i], or the empty string when the row is ragged.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func getSheet(f *xlsx.File, opts Options) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Wrapf(ErrFormat, "sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Wrapf(ErrFormat, "sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
