package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes rows into a single-sheet workbook and returns its
// bytes. A nil entry leaves the cell empty; strings and numbers keep their
// cell type, which the extractors rely on.
func buildWorkbook(t *testing.T, sheetName string, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheetName))
	writeRows(t, f, sheetName, rows)

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// buildWorkbookSheets builds a workbook with several named sheets in order.
func buildWorkbookSheets(t *testing.T, sheets []string, rowsBySheet map[string][][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	require.NotEmpty(t, sheets)
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheets[0]))
	for _, name := range sheets[1:] {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
	}
	for name, rows := range rowsBySheet {
		writeRows(t, f, name, rows)
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func writeRows(t *testing.T, f *excelize.File, sheetName string, rows [][]interface{}) {
	t.Helper()
	for rowIdx, row := range rows {
		for colIdx, val := range row {
			if val == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheetName, cell, val))
		}
	}
}
