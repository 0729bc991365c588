package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"mortality-valuation/internal/config"
	"mortality-valuation/internal/data"
	"mortality-valuation/internal/pipeline"
	"mortality-valuation/internal/report"
	"mortality-valuation/pkg/logger"
)

// Demo:
// - Build a synthetic life table from two Gompertz-Makeham laws (1990, 2015)
// - Run the full valuation with the default parameters
// - Print the summary table, optionally writing every artifact
func main() {
	cfgPath := flag.String("config", "", "Path to YAML run config (optional)")
	outDir := flag.String("out-dir", "", "Optional directory to write grid, tables and figures")
	format := flag.String("format", "svg", "Figure format: pdf or svg")
	flag.Parse()

	ctx := context.Background()
	log := logger.Init(logger.Options{})

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	}
	cfg.Country = "SYN"

	table := data.SyntheticLifeTable(cfg.Country, data.DemoLaws())
	out, err := (&pipeline.Runner{Log: log}).Run(ctx, cfg, table)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	fmt.Printf("Synthetic life table, beta=%.4f, gamma_hat=%.4f\n\n", cfg.Beta, out.Result.GammaHat)
	for _, h := range out.Result.Headline {
		fmt.Printf("age %2d: l_a=%.2f  +1 year is %.1f%%  b: linear=%.2f log=%.2f crra=%.2f\n",
			h.Age, h.LA, 100*h.ProportionalIncrease, h.Unit.Linear.B, h.Unit.Log.B, h.Unit.CRRA.B)
	}
	fmt.Println()
	if err := report.WriteText(os.Stdout, report.Summary(out.Result, out.Gains)); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if *outDir == "" {
		return
	}
	opts := report.Options{Output: cfg.Output, Axes: cfg.Axes, FigureFormat: *format}
	paths, err := report.WriteAll(ctx, log, *outDir, opts, out.Result, out.Gains)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Printf("\nWrote %d files to %s\n", len(paths), *outDir)
}
