package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"mortality-valuation/internal/config"
	"mortality-valuation/internal/data"
	"mortality-valuation/internal/lifeexp"
	"mortality-valuation/internal/model"
	"mortality-valuation/internal/pipeline"
	"mortality-valuation/internal/report"
	"mortality-valuation/internal/store"
	"mortality-valuation/internal/store/sqlite"
	"mortality-valuation/pkg/logger"
)

const defaultData = "data/WPP_Life_Table_Complete.csv"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "run":
		err = cmdRun(os.Args[2:])
	case "dle":
		err = cmdDLE(os.Args[2:])
	case "countries":
		err = cmdCountries(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli run --data WPP_Life_Table_Complete.csv --config examples/run.yaml --out-dir results")
	fmt.Println("  cli dle --data WPP_Life_Table_Complete.csv --country USA --year 2015")
	fmt.Println("  cli countries --data WPP_Life_Table_Complete.csv")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - run writes grid.csv, summary.tex, summary.xlsx and the figures selected in the config")
	fmt.Println("  - --synthetic replaces the data file with a built-in Gompertz-Makeham table")
}

func initLogger(level string) logger.Logger {
	log := logger.Init(logger.Options{})
	if err := logger.SetLevelString(level); err != nil {
		_ = logger.SetLevelString("info")
	}
	return log
}

func loadTable(synthetic bool, path, country string, years []int) (*model.LifeTable, error) {
	if synthetic {
		return data.SyntheticLifeTable("SYN", data.DemoLaws()), nil
	}
	return data.LoadLifeTableCSV(path, data.Filter{Country: strings.ToUpper(country), Years: years})
}

func cmdRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	dataPath := fs.String("data", defaultData, "Path to the life-table CSV")
	cfgPath := fs.String("config", "", "Path to YAML run config (defaults apply when empty)")
	country := fs.String("country", "", "ISO3 country code (overrides the config)")
	outDir := fs.String("out-dir", "results", "Directory for tables, grid and figures")
	format := fs.String("format", "pdf", "Figure format: pdf or svg")
	dbPath := fs.String("db", "", "Optional SQLite file to record the run in")
	synthetic := fs.Bool("synthetic", false, "Use the built-in synthetic life table")
	level := fs.String("log-level", "info", "Log level: debug, info, warn, error")
	_ = fs.Parse(args)

	ctx := context.Background()
	log := initLogger(*level)

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return err
		}
	}
	if *country != "" {
		cfg.Country = strings.ToUpper(*country)
	}
	if *synthetic {
		cfg.Country = "SYN"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	table, err := loadTable(*synthetic, *dataPath, cfg.Country, cfg.Years())
	if err != nil {
		return err
	}
	log.Info(ctx, "loaded life table", logger.String("country", table.Country), logger.Int("years", len(table.Years)))

	out, err := (&pipeline.Runner{Log: log}).Run(ctx, cfg, table)
	if err != nil {
		return err
	}

	opts := report.Options{Output: cfg.Output, Axes: cfg.Axes, FigureFormat: *format}
	paths, err := report.WriteAll(ctx, log, *outDir, opts, out.Result, out.Gains)
	if err != nil {
		return err
	}

	if *dbPath != "" {
		db, err := sqlite.Open(*dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		run := store.NewRun(out.Config, out.Result, out.Gains)
		if err := db.SaveRun(ctx, run); err != nil {
			return err
		}
		fmt.Printf("Recorded run %s in %s\n", run.ID, *dbPath)
	}

	fmt.Printf("Country=%s base=%d pre=%d gamma_hat=%.4f\n", out.Result.Country, cfg.BaseYear, cfg.PreYear, out.Result.GammaHat)
	if err := report.WriteText(os.Stdout, report.Summary(out.Result, out.Gains)); err != nil {
		return err
	}
	fmt.Printf("Wrote %d files to %s\n", len(paths), *outDir)
	return nil
}

func cmdDLE(args []string) error {
	fs := flag.NewFlagSet("dle", flag.ExitOnError)
	dataPath := fs.String("data", defaultData, "Path to the life-table CSV")
	country := fs.String("country", "USA", "ISO3 country code")
	year := fs.Int("year", 2015, "Year to tabulate")
	beta := fs.Float64("beta", config.Default().Beta, "Annual discount factor")
	synthetic := fs.Bool("synthetic", false, "Use the built-in synthetic life table")
	_ = fs.Parse(args)

	table, err := loadTable(*synthetic, *dataPath, *country, []int{*year})
	if err != nil {
		return err
	}
	surv, ok := table.Years[*year]
	if !ok {
		return model.NewConfigurationError("year not present in life table").WithYear(*year)
	}
	dle, err := lifeexp.Compute(*year, surv, *beta)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "age\ts_a\tl_a\t")
	for _, r := range lifeexp.Records(table, map[int]model.Schedule{*year: dle}) {
		fmt.Fprintf(tw, "%d\t%.6f\t%.4f\t\n", r.Age, r.Sx, r.LA)
	}
	return tw.Flush()
}

func cmdCountries(args []string) error {
	fs := flag.NewFlagSet("countries", flag.ExitOnError)
	dataPath := fs.String("data", defaultData, "Path to the life-table CSV")
	_ = fs.Parse(args)

	countries, err := data.ListCountries(*dataPath)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "code\tname\tyears")
	for _, c := range countries {
		fmt.Fprintf(tw, "%s\t%s\t%d-%d\n", c.Code, c.Name, c.MinYear, c.MaxYear)
	}
	fmt.Fprintf(tw, "\n%d populations\n", len(countries))
	return tw.Flush()
}
