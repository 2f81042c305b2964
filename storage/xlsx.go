package storage

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"aeo-analytics/models"
)

// ReadXLSX reads the first sheet of an Excel workbook into a Table.
// Cell values are taken raw so numeric scores keep full precision.
func ReadXLSX(kind, path string) (*models.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open %q: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &models.Table{Name: kind, Path: path}, nil
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("xlsx: read sheet %q of %q: %w", sheets[0], path, err)
	}
	if len(rows) == 0 {
		return &models.Table{Name: kind, Path: path}, nil
	}
	return newTable(kind, path, rows[0], rows[1:]), nil
}

// WriteXLSX writes a table to a new single-sheet workbook.
func WriteXLSX(path string, t *models.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	write := func(rowIdx int, values []string) error {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		return nil
	}

	if err := write(1, t.Header); err != nil {
		return fmt.Errorf("xlsx: write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := write(i+2, row); err != nil {
			return fmt.Errorf("xlsx: write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", path, err)
	}
	return nil
}
