// Package pipeline chains the stages of one valuation run: discounted life
// expectancy for both years, gamma_hat calibration, the grid valuation and the
// historical comparison.
package pipeline

import (
	"context"
	"time"

	"mortality-valuation/internal/analysis"
	"mortality-valuation/internal/config"
	"mortality-valuation/internal/lifeexp"
	"mortality-valuation/internal/metrics"
	"mortality-valuation/internal/model"
	"mortality-valuation/internal/valuation"
	"mortality-valuation/pkg/logger"
)

// Output is everything one run produces.
type Output struct {
	Config config.Config
	Table  *model.LifeTable
	DLE    map[int]model.Schedule
	Result *valuation.Result
	Gains  []analysis.HistoricalGain
}

// Runner executes valuation runs. The zero value is usable; a nil logger
// logs nowhere and a nil metrics manager records nothing.
type Runner struct {
	Log     logger.Logger
	Metrics *metrics.Manager
}

// Run validates cfg and evaluates it against table. table must hold both
// cfg.BaseYear and cfg.PreYear.
func (r *Runner) Run(ctx context.Context, cfg config.Config, table *model.LifeTable) (out *Output, err error) {
	log := r.Log
	if log == nil {
		log = logger.Nop()
	}
	start := time.Now()
	defer func() {
		kind, _ := model.KindOf(err)
		r.Metrics.RunFinished(time.Since(start), string(kind), err)
		if err != nil {
			log.Error(ctx, "valuation run failed", logger.Error(err))
		}
	}()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, y := range cfg.Years() {
		if !table.HasYear(y) {
			return nil, model.NewConfigurationError("year not present in life table").WithYear(y)
		}
	}

	dle, err := lifeexp.ComputeAll(ctx, table, cfg.Beta)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "computed discounted life expectancy", logger.Int("years", len(dle)))

	res, err := valuation.New(log).Run(ctx, cfg, table, dle)
	if err != nil {
		return nil, err
	}

	gains, err := analysis.CompareYears(cfg, table, dle, res.GammaHat)
	if err != nil {
		return nil, err
	}

	return &Output{
		Config: cfg,
		Table:  table,
		DLE:    dle,
		Result: res,
		Gains:  gains,
	}, nil
}
