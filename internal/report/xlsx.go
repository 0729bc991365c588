package report

import (
	"fmt"
	"math"

	"mortality-valuation/internal/model"
	"mortality-valuation/internal/valuation"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	gridSheet    = "Grid"
)

// WriteXLSX writes the summary table (with a merged "Age" header over the age
// columns) and the flat valuation grid into one workbook.
func WriteXLSX(path string, t Table, records []model.ValuationRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSummarySheet(f, t); err != nil {
		return err
	}
	if _, err := f.NewSheet(gridSheet); err != nil {
		return fmt.Errorf("create grid sheet: %w", err)
	}
	if err := writeGridSheet(f, records); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, t Table) error {
	n := len(t.Ages)
	if n == 0 {
		return nil
	}
	first, _ := excelize.CoordinatesToCellName(2, 1)
	last, _ := excelize.CoordinatesToCellName(n+1, 1)
	if err := f.SetCellValue(summarySheet, first, "Age"); err != nil {
		return err
	}
	if n > 1 {
		if err := f.MergeCell(summarySheet, first, last); err != nil {
			return fmt.Errorf("merge age header: %w", err)
		}
	}
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Font:      &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, first, last, style); err != nil {
		return err
	}

	for i, a := range t.Ages {
		cell, _ := excelize.CoordinatesToCellName(i+2, 2)
		if err := f.SetCellValue(summarySheet, cell, a); err != nil {
			return err
		}
	}
	for r, row := range t.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+3)
		if err := f.SetCellStr(summarySheet, cell, row.Name); err != nil {
			return err
		}
		for c, v := range row.Values {
			cell, _ := excelize.CoordinatesToCellName(c+2, r+3)
			if err := f.SetCellFloat(summarySheet, cell, round2(v), 2, 64); err != nil {
				return err
			}
		}
	}
	return f.SetColWidth(summarySheet, "A", "A", 42)
}

func writeGridSheet(f *excelize.File, records []model.ValuationRecord) error {
	header := valuation.GridHeader()
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := f.SetSheetRow(gridSheet, "A1", &row); err != nil {
		return fmt.Errorf("write grid header: %w", err)
	}
	for i, r := range records {
		vals := []interface{}{r.Age, r.DeltaL, r.LA, r.SA, r.LTilde, r.STilde}
		for _, m := range model.Models {
			v := r.For(m)
			vals = append(vals, v.B, v.MgB, v.RelMgB, v.MgV)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(gridSheet, cell, &vals); err != nil {
			return fmt.Errorf("write grid row %d: %w", i, err)
		}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
