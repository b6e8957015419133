package exporter

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"co2dash/pkg/contracts/domain"
)

const (
	defaultSheet = "Sheet1"
	columnWidth  = 18
)

// sheetName returns the frame name cut to the 31 characters a sheet name
// may hold.
func sheetName(frame *domain.Frame) string {
	name := frame.Name
	if name == "" {
		return defaultSheet
	}
	if len(name) > excelize.MaxSheetNameLength {
		name = name[:excelize.MaxSheetNameLength]
	}
	return name
}

// WriteXLSX writes frame as a single-sheet workbook with a bold, frozen
// header row.
func WriteXLSX(w io.Writer, frame *domain.Frame) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(frame)
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("name sheet %s: %w", sheet, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, header := range frame.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("write header %s: %w", header, err)
		}
	}
	if len(frame.Columns) > 0 {
		last, _ := excelize.ColumnNumberToName(len(frame.Columns))
		if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
		if err := f.SetColWidth(sheet, "A", last, columnWidth); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("freeze header: %w", err)
		}
	}

	for i, row := range frame.Rows {
		if len(row) != len(frame.Columns) {
			return fmt.Errorf("%s row %d: %d values for %d columns", frame.Name, i, len(row), len(frame.Columns))
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = cellValue(v)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// cellValue leaves NaN cells empty
func cellValue(v interface{}) interface{} {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil
	}
	return v
}
