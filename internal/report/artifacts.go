package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"mortality-valuation/internal/analysis"
	"mortality-valuation/internal/config"
	"mortality-valuation/internal/valuation"
	"mortality-valuation/pkg/logger"
)

// File names written by WriteAll.
const (
	GridFile  = "grid.csv"
	TableFile = "summary.tex"
	XLSXFile  = "summary.xlsx"
)

// Options selects the artifacts WriteAll produces.
type Options struct {
	Output       config.OutputConfig
	Axes         config.AxesConfig
	FigureFormat string
}

// WriteAll writes every enabled artifact into dir and returns their paths.
func WriteAll(ctx context.Context, log logger.Logger, dir string, opts Options, res *valuation.Result, gains []analysis.HistoricalGain) ([]string, error) {
	if log == nil {
		log = logger.Nop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	table := Summary(res, gains)

	var written []string
	if opts.Output.GridCSV {
		path := filepath.Join(dir, GridFile)
		if err := valuation.WriteGridCSV(path, res.Records); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if opts.Output.Table {
		path := filepath.Join(dir, TableFile)
		if err := WriteLaTeXFile(path, table); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if opts.Output.XLSX {
		path := filepath.Join(dir, XLSXFile)
		if err := WriteXLSX(path, table, res.Records); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if opts.Output.Figures {
		paths, err := WriteFigures(dir, res, opts.Axes, opts.FigureFormat)
		written = append(written, paths...)
		if err != nil {
			return written, err
		}
	}
	for _, p := range written {
		log.Info(ctx, "wrote artifact", logger.String("path", p))
	}
	return written, nil
}
