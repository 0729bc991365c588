package report

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mortality-valuation/internal/analysis"
	"mortality-valuation/internal/config"
	"mortality-valuation/internal/data"
	"mortality-valuation/internal/lifeexp"
	"mortality-valuation/internal/model"
	"mortality-valuation/internal/valuation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func run(t *testing.T) (config.Config, *valuation.Result, []analysis.HistoricalGain) {
	t.Helper()
	cfg := config.Default()
	cfg.LStep = 0.05
	table := data.SyntheticLifeTable("DEMO", data.DemoLaws())
	dle, err := lifeexp.ComputeAll(context.Background(), table, cfg.Beta)
	require.NoError(t, err)
	res, err := valuation.New(nil).Run(context.Background(), cfg, table, dle)
	require.NoError(t, err)
	gains, err := analysis.CompareYears(cfg, table, dle, res.GammaHat)
	require.NoError(t, err)
	return cfg, res, gains
}

func TestSummary(t *testing.T) {
	_, res, gains := run(t)

	tbl := Summary(res, nil)
	assert.Equal(t, []int{20, 50, 80}, tbl.Ages)
	assert.Len(t, tbl.Rows, 2+3+1+3)
	for _, r := range tbl.Rows {
		assert.Len(t, r.Values, 3, r.Key)
	}

	la, ok := tbl.Row("l_a")
	require.True(t, ok)
	assert.Equal(t, res.Headline[1].LA, la.Values[1])

	prop, _ := tbl.Row("prop_increase")
	assert.InDelta(t, 100/res.Headline[0].LA, prop.Values[0], 1e-12)

	lin, _ := tbl.Row("b_linear")
	for _, v := range lin.Values {
		assert.InDelta(t, res.GammaHat, v, 1e-9)
	}

	full := Summary(res, gains)
	assert.Len(t, full.Rows, len(tbl.Rows)+2+3)
	gain, ok := full.Row("gain")
	require.True(t, ok)
	assert.Equal(t, gains[2].Gain, gain.Values[2])
	assert.Contains(t, gain.Name, "1990")
}

func TestWriteLaTeX(t *testing.T) {
	tbl := Table{
		Ages: []int{20, 50},
		Rows: []Row{
			{Key: "a", Name: "Increase (%)", Values: []float64{1.234, 5}},
			{Key: "b", Name: "mg_b", Values: []float64{-0.005, 100.999}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteLaTeX(&buf, tbl))
	out := buf.String()

	assert.Contains(t, out, `\begin{tabular}{lrr}`)
	assert.Contains(t, out, `\multicolumn{2}{c}{Age}`)
	assert.Contains(t, out, `\cmidrule(lr){2-3}`)
	assert.Contains(t, out, " & 20 & 50 \\\\")
	assert.Contains(t, out, `Increase (\%) & 1.23 & 5.00 \\`)
	assert.Contains(t, out, `mg\_b & -0.01 & 101.00 \\`)
	assert.True(t, strings.HasSuffix(out, "\\end{tabular}\n"))
}

func TestWriteXLSX(t *testing.T) {
	_, res, gains := run(t)
	tbl := Summary(res, gains)
	path := filepath.Join(t.TempDir(), "summary.xlsx")
	require.NoError(t, WriteXLSX(path, tbl, res.Records))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Age", v)
	merged, err := f.GetMergeCells(summarySheet)
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "B1", merged[0].GetStartAxis())
	assert.Equal(t, "D1", merged[0].GetEndAxis())

	v, _ = f.GetCellValue(summarySheet, "C2")
	assert.Equal(t, "50", v)
	v, _ = f.GetCellValue(summarySheet, "A3")
	assert.Equal(t, tbl.Rows[0].Name, v)

	rows, err := f.GetRows(gridSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1+len(res.Records))
	assert.Equal(t, valuation.GridHeader(), rows[0])
}

func TestWriteFigures(t *testing.T) {
	cfg, res, _ := run(t)
	for _, format := range []string{"pdf", "svg"} {
		dir := t.TempDir()
		paths, err := WriteFigures(dir, res, cfg.Axes, format)
		require.NoError(t, err)
		require.Len(t, paths, 3)
		for _, p := range paths {
			raw, err := os.ReadFile(p)
			require.NoError(t, err)
			assert.NotEmpty(t, raw)
			if format == "pdf" {
				assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")), p)
			} else {
				assert.Contains(t, string(raw), "<svg")
			}
		}
	}

	_, err := WriteFigures(t.TempDir(), res, cfg.Axes, "bmp")
	assert.Error(t, err)
}

func TestCharts(t *testing.T) {
	charts := Charts(config.Default().Axes)
	require.Len(t, charts, 3)
	v := model.Valuation{B: 1, RelMgB: 2, MgV: 3}
	assert.Equal(t, 1.0, charts[0].Y(v))
	assert.Equal(t, 2.0, charts[1].Y(v))
	assert.Equal(t, 3.0, charts[2].Y(v))
}

func TestWriteAll(t *testing.T) {
	cfg, res, gains := run(t)
	dir := filepath.Join(t.TempDir(), "out")

	opts := Options{Output: cfg.Output, Axes: cfg.Axes, FigureFormat: "svg"}
	paths, err := WriteAll(context.Background(), nil, dir, opts, res, gains)
	require.NoError(t, err)
	assert.Len(t, paths, 3+3)
	for _, p := range paths {
		assert.FileExists(t, p)
	}

	opts.Output = config.OutputConfig{Table: true}
	paths, err = WriteAll(context.Background(), nil, t.TempDir(), opts, res, nil)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, TableFile, filepath.Base(paths[0]))
}

func TestWriteText(t *testing.T) {
	tbl := Table{
		Ages: []int{20, 80},
		Rows: []Row{{Key: "l_a", Name: "DLE", Values: []float64{27.456, 9}}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, tbl))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "age 20")
	assert.Contains(t, lines[0], "age 80")
	assert.Contains(t, lines[1], "DLE")
	assert.Contains(t, lines[1], "27.46")
	assert.Contains(t, lines[1], "9.00")
}
