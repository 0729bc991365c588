// Package valuation calibrates gamma_hat and evaluates the valuation models
// over the (focal age, delta_l) grid.
package valuation

import (
	"context"
	"errors"
	"math"

	"mortality-valuation/internal/config"
	"mortality-valuation/internal/model"
	"mortality-valuation/internal/utility"
	"mortality-valuation/pkg/logger"
)

type Engine struct {
	log logger.Logger
}

func New(log logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{log: log.Named("valuation")}
}

// Run evaluates every model on the identical grid for each focal age at the
// base year. Records are ordered by focal age (config order), then delta_l.
// A cancelled ctx stops the run between focal ages.
func (e *Engine) Run(ctx context.Context, cfg config.Config, table *model.LifeTable, dle map[int]model.Schedule) (*Result, error) {
	if table == nil {
		return nil, model.NewInputDataError(nil, "life table is nil")
	}
	gamma, err := Calibrate(cfg, table, dle)
	if err != nil {
		return nil, err
	}
	e.log.Info(ctx, "calibrated",
		logger.Float64("gamma_hat", gamma),
		logger.Int("a_hat", cfg.AHat),
		logger.Int("base_year", cfg.BaseYear))

	grid, err := Grid(cfg.LStep)
	if err != nil {
		return nil, err
	}
	lBase := dle[cfg.BaseYear]

	res := &Result{
		Country:  table.Country,
		BaseYear: cfg.BaseYear,
		GammaHat: gamma,
		CRRARho:  cfg.CRRARho,
		Records:  make([]model.ValuationRecord, 0, len(cfg.Ages)*len(grid)),
		Headline: make([]Headline, 0, len(cfg.Ages)),
	}
	for _, age := range cfg.Ages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, ok := table.Survival(cfg.BaseYear, age)
		if !ok {
			return nil, model.NewConfigurationError("focal age missing from input").WithYear(cfg.BaseYear).WithAge(age)
		}
		recs, err := evaluateAge(age, lBase[age], s, gamma, cfg, grid)
		if err != nil {
			var me *model.Error
			if errors.As(err, &me) {
				me.WithYear(cfg.BaseYear)
			}
			return nil, err
		}
		res.Records = append(res.Records, recs...)
		res.Headline = append(res.Headline, Headline{
			Age:                  age,
			LA:                   lBase[age],
			SA:                   s,
			ProportionalIncrease: 1 / lBase[age],
			InitialMgV:           gamma * lBase[age] / s,
			Unit:                 recs[len(recs)-1],
		})
	}

	e.log.Info(ctx, "valuation grid evaluated",
		logger.Int("ages", len(cfg.Ages)),
		logger.Int("records", len(res.Records)))
	return res, nil
}

func evaluateAge(age int, l, s, gamma float64, cfg config.Config, grid []float64) ([]model.ValuationRecord, error) {
	if l <= 0 {
		return nil, model.NewDomainError("focal age has non-positive discounted life expectancy %v", l).WithAge(age)
	}
	out := make([]model.ValuationRecord, len(grid))
	for i, delta := range grid {
		lt := l + delta
		rec := model.ValuationRecord{
			GridPoint: model.GridPoint{Age: age, DeltaL: delta},
			LA:        l,
			SA:        s,
			LTilde:    lt,
			STilde:    s * lt / l,
		}
		for _, m := range model.Models {
			rho := m.Rho(cfg.CRRARho)
			b, err := utility.Benefit(l, rec.LTilde, rec.STilde, gamma, s, rho)
			if err != nil {
				var me *model.Error
				if errors.As(err, &me) {
					me.WithAge(age).WithModel(m).WithDeltaL(delta)
				}
				return nil, err
			}
			mg := gamma
			if i > 0 {
				mg = (b - out[i-1].For(m).B) / cfg.LStep
			}
			if math.IsNaN(mg) || math.IsInf(mg, 0) {
				return nil, model.NewDomainError("marginal value is not finite").
					WithAge(age).WithModel(m).WithRho(rho).WithDeltaL(delta)
			}
			rec.Set(m, model.Valuation{
				B:      b,
				MgB:    mg,
				RelMgB: mg / gamma,
				MgV:    mg * l / s,
			})
		}
		out[i] = rec
	}
	return out, nil
}
