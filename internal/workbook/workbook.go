// Package workbook decodes spreadsheet bytes into an ordered grid of typed
// cells. Extractors operate on this grid only and never touch excelize
// directly, so the cell-typing rules live in one place.
package workbook

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellKind classifies a cell value.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
)

// Cell is a single typed cell value.
type Cell struct {
	Kind CellKind
	Str  string
	Num  float64
}

// IsString reports whether the cell holds text.
func (c Cell) IsString() bool { return c.Kind == CellString }

// IsNumber reports whether the cell holds a numeric value.
func (c Cell) IsNumber() bool { return c.Kind == CellNumber }

// Text renders the cell as display text. Numbers use the shortest exact
// decimal representation; empty cells render as "".
func (c Cell) Text() string {
	switch c.Kind {
	case CellString:
		return c.Str
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	default:
		return ""
	}
}

// Float coerces the cell to a number. String cells are parsed after
// trimming whitespace and thousands separators; anything non-numeric,
// including an empty cell, coerces to 0.
func (c Cell) Float() float64 {
	switch c.Kind {
	case CellNumber:
		return c.Num
	case CellString:
		v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(c.Str), ",", ""), 64)
		if err != nil {
			return 0
		}
		return v
	default:
		return 0
	}
}

// Sheet is one named tab: an ordered, possibly ragged grid of cells.
type Sheet struct {
	Name string
	Rows [][]Cell
}

// Cell returns the cell at (row, col), or an empty cell when the
// coordinates fall outside the grid.
func (s *Sheet) Cell(row, col int) Cell {
	if row < 0 || row >= len(s.Rows) {
		return Cell{}
	}
	r := s.Rows[row]
	if col < 0 || col >= len(r) {
		return Cell{}
	}
	return r[col]
}

// JoinedRow renders row i as a single space-joined string of all its cells.
// Free-form label rows lack column alignment, so substring and regex
// matching happens against this text.
func (s *Sheet) JoinedRow(i int) string {
	if i < 0 || i >= len(s.Rows) {
		return ""
	}
	parts := make([]string, len(s.Rows[i]))
	for j, c := range s.Rows[i] {
		parts[j] = c.Text()
	}
	return strings.Join(parts, " ")
}

// Workbook is an ordered collection of decoded sheets.
type Workbook struct {
	Sheets []Sheet
}

// First returns the first sheet, or nil for a workbook without sheets.
func (w *Workbook) First() *Sheet {
	if len(w.Sheets) == 0 {
		return nil
	}
	return &w.Sheets[0]
}

// SheetNamed returns the first sheet whose name contains fragment, or nil.
func (w *Workbook) SheetNamed(fragment string) *Sheet {
	for i := range w.Sheets {
		if strings.Contains(w.Sheets[i].Name, fragment) {
			return &w.Sheets[i]
		}
	}
	return nil
}

// Decode parses workbook bytes into a typed grid. A byte stream that is not
// a valid spreadsheet is the only error condition; everything downstream
// degrades to defaults instead of failing.
func Decode(b []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}

		sheet := Sheet{Name: name, Rows: make([][]Cell, len(rows))}
		for rowIdx, row := range rows {
			cells := make([]Cell, len(row))
			for colIdx, raw := range row {
				cells[colIdx] = typeCell(f, name, rowIdx, colIdx, raw)
			}
			sheet.Rows[rowIdx] = cells
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}

// typeCell classifies one raw cell value. Shared and inline strings are
// always text, even when their content looks numeric — that distinction is
// what lets subtotal rows with numeric ticker cells be told apart from real
// data rows. Untyped cells fall back to a parse attempt.
func typeCell(f *excelize.File, sheet string, rowIdx, colIdx int, raw string) Cell {
	if raw == "" {
		return Cell{}
	}

	cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
	if err == nil {
		ct, ctErr := f.GetCellType(sheet, cellName)
		if ctErr == nil {
			switch ct {
			case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
				return Cell{Kind: CellString, Str: raw}
			case excelize.CellTypeNumber:
				if v, pErr := strconv.ParseFloat(raw, 64); pErr == nil {
					return Cell{Kind: CellNumber, Num: v}
				}
				return Cell{Kind: CellString, Str: raw}
			}
		}
	}

	// Untyped (plain numeric cells carry no type attribute in the file).
	if v, pErr := strconv.ParseFloat(raw, 64); pErr == nil {
		return Cell{Kind: CellNumber, Num: v}
	}
	return Cell{Kind: CellString, Str: raw}
}
