package store

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/xuri/excelize/v2"
)

// appendXLSXRows adds rows to the first sheet of path, writing header first
// when the sheet is empty.
func appendXLSXRows(path string, header []string, rows [][]string) error {
	f, sheet, err := openOrCreateWorkbook(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	existing, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	next := len(existing) + 1
	if len(existing) == 0 {
		if err := writeRow(f, sheet, 1, header); err != nil {
			return err
		}
		if err := styleHeader(f, sheet, len(header)); err != nil {
			return err
		}
		next = 2
	} else if !slices.Equal(existing[0], header) {
		return fmt.Errorf("xlsx header mismatch for %s", filepath.Base(path))
	}

	for _, r := range rows {
		if err := writeRow(f, sheet, next, r); err != nil {
			return err
		}
		next++
	}
	return f.SaveAs(path)
}

func openOrCreateWorkbook(path string) (*excelize.File, string, error) {
	if _, err := os.Stat(path); err == nil {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, "", err
		}
		if sheets := f.GetSheetList(); len(sheets) > 0 {
			return f, sheets[0], nil
		}
		if _, err := f.NewSheet("Sheet1"); err != nil {
			return nil, "", err
		}
		return f, "Sheet1", nil
	}
	f := excelize.NewFile()
	return f, f.GetSheetName(0), nil
}

func writeRow(f *excelize.File, sheet string, rowIndex int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowIndex)
	if err != nil {
		return err
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(sheet, cell, &row)
}

func styleHeader(f *excelize.File, sheet string, cols int) error {
	if cols <= 0 {
		return nil
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}
