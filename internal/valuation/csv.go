package valuation

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"mortality-valuation/internal/model"
)

// GridHeader is the column layout of the exported grid.
func GridHeader() []string {
	header := []string{"age", "delta_l", "l_a", "s_a", "l_a_tilde", "s_a_tilde"}
	for _, m := range model.Models {
		p := string(m)
		header = append(header, "b_"+p, "mg_b_"+p, "rel_mg_b_"+p, "mg_v_"+p)
	}
	return header
}

// GridRow renders one record in GridHeader order.
func GridRow(r model.ValuationRecord) []string {
	row := []string{
		strconv.Itoa(r.Age),
		fmtFloat(r.DeltaL),
		fmtFloat(r.LA),
		fmtFloat(r.SA),
		fmtFloat(r.LTilde),
		fmtFloat(r.STilde),
	}
	for _, m := range model.Models {
		v := r.For(m)
		row = append(row, fmtFloat(v.B), fmtFloat(v.MgB), fmtFloat(v.RelMgB), fmtFloat(v.MgV))
	}
	return row
}

// WriteGridCSV writes the full valuation grid to path.
func WriteGridCSV(path string, records []model.ValuationRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create grid csv: %w", err)
	}
	defer f.Close()
	if err := WriteGrid(f, records); err != nil {
		return err
	}
	return f.Close()
}

func WriteGrid(w io.Writer, records []model.ValuationRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(GridHeader()); err != nil {
		return err
	}
	for i := range records {
		if err := cw.Write(GridRow(records[i])); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
