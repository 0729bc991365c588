package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mortality-valuation/internal/config"
	"mortality-valuation/internal/model"
	"mortality-valuation/internal/valuation"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"
)

// Chart describes one faceted figure.
type Chart struct {
	File   string
	YLabel string
	Range  config.Range
	Y      func(v model.Valuation) float64
}

// Charts returns the value, relative marginal value and marginal VSL figures.
func Charts(axes config.AxesConfig) []Chart {
	return []Chart{
		{File: "value", YLabel: "b", Range: axes.Value, Y: func(v model.Valuation) float64 { return v.B }},
		{File: "marginal_relative", YLabel: "mg b / gamma", Range: axes.Relative, Y: func(v model.Valuation) float64 { return v.RelMgB }},
		{File: "marginal_vsl", YLabel: "mg VSL / income", Range: axes.VSL, Y: func(v model.Valuation) float64 { return v.MgV }},
	}
}

// One line style per model, in model.Models order.
var modelDashes = [][]vg.Length{
	nil,
	{vg.Points(6), vg.Points(3)},
	{vg.Points(1.5), vg.Points(2)},
}

const (
	facetWidth  = 7 * vg.Centimeter
	facetHeight = 7 * vg.Centimeter
)

// WriteFigures renders every chart as one row of facets (one per focal age)
// into dir and returns the written paths. format is "pdf" or "svg".
func WriteFigures(dir string, res *valuation.Result, axes config.AxesConfig, format string) ([]string, error) {
	format = strings.ToLower(format)
	if format == "" {
		format = "pdf"
	}
	if format != "pdf" && format != "svg" {
		return nil, fmt.Errorf("unsupported figure format %q", format)
	}
	var paths []string
	for _, ch := range Charts(axes) {
		path := filepath.Join(dir, ch.File+"."+format)
		if err := writeFigure(path, format, res, ch); err != nil {
			return paths, fmt.Errorf("figure %s: %w", ch.File, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFigure(path, format string, res *valuation.Result, ch Chart) error {
	ages := res.Ages()
	if len(ages) == 0 {
		return fmt.Errorf("no focal ages")
	}
	row := make([]*plot.Plot, len(ages))
	for i, age := range ages {
		p, err := facet(age, res.ForAge(age), ch, i == len(ages)-1)
		if err != nil {
			return err
		}
		row[i] = p
	}

	w := vg.Length(len(ages)) * facetWidth
	var c vg.CanvasWriterTo
	if format == "svg" {
		c = vgsvg.New(w, facetHeight)
	} else {
		c = vgpdf.New(w, facetHeight)
	}
	tiles := draw.Tiles{
		Rows: 1,
		Cols: len(ages),
		PadX: vg.Millimeter * 3,
		PadY: vg.Millimeter * 3,

		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align([][]*plot.Plot{row}, tiles, draw.New(c))
	for j, p := range row {
		p.Draw(canvases[0][j])
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := c.WriteTo(f); err != nil {
		return err
	}
	return f.Close()
}

func facet(age int, recs []model.ValuationRecord, ch Chart, legend bool) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Age %d", age)
	p.X.Label.Text = "delta l"
	p.Y.Label.Text = ch.YLabel
	p.Add(plotter.NewGrid())

	for i, m := range model.Models {
		pts := make(plotter.XYs, len(recs))
		for j := range recs {
			pts[j].X = recs[j].DeltaL
			pts[j].Y = ch.Y(recs[j].For(m))
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("age %d model %s: %w", age, m, err)
		}
		line.LineStyle.Width = vg.Points(1.2)
		line.LineStyle.Dashes = modelDashes[i%len(modelDashes)]
		p.Add(line)
		if legend {
			p.Legend.Add(m.Label(), line)
		}
	}
	p.Legend.Top = true

	// Fixed ranges so facets and runs are comparable; set after Add, which
	// widens the axes to the data.
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = ch.Range.Min, ch.Range.Max
	return p, nil
}
