// Package lifeexp computes discounted life expectancy from survival schedules.
package lifeexp

import (
	"context"
	"sort"
	"sync"

	"mortality-valuation/internal/model"

	"golang.org/x/sync/errgroup"
)

// Terminal returns l_100 = 1/(1 - beta*s_100), the value of a constant-hazard
// tail. It fails unless beta*s_100 < 1, so a NaN product also diverges.
func Terminal(s100, beta float64) (float64, error) {
	if !(beta*s100 < 1) {
		return 0, model.NewDivergenceError("beta*s_100 = %v >= 1", beta*s100).WithAge(model.MaxAge)
	}
	return 1 / (1 - beta*s100), nil
}

// Compute returns l_a for ages 0..100 of one year. Ages are filled strictly
// from 100 down to 0; each step reads the value at age+1. Every survival
// entry must lie in (0,1].
func Compute(year int, survival model.Schedule, beta float64) (model.Schedule, error) {
	var l model.Schedule
	if !(beta > 0 && beta < 1) {
		return l, model.NewConfigurationError("beta must be in (0,1), got %v", beta)
	}
	for a, s := range survival {
		if !(s > 0 && s <= 1) {
			return l, model.NewInputDataError(nil, "survival probability %v outside (0,1]", s).
				WithYear(year).WithAge(a)
		}
	}
	tail, err := Terminal(survival[model.MaxAge], beta)
	if err != nil {
		if e, ok := err.(*model.Error); ok {
			e.WithYear(year)
		}
		return l, err
	}
	l[model.MaxAge] = tail
	for a := model.MaxAge - 1; a >= 0; a-- {
		l[a] = survival[a] * (1 + beta*l[a+1])
	}
	return l, nil
}

// ComputeAll runs Compute for every year of the table. Years are independent
// and computed concurrently; the first failure cancels the rest.
func ComputeAll(ctx context.Context, table *model.LifeTable, beta float64) (map[int]model.Schedule, error) {
	if table == nil || len(table.Years) == 0 {
		return nil, model.NewInputDataError(nil, "life table is empty")
	}
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	out := make(map[int]model.Schedule, len(table.Years))
	for year, s := range table.Years {
		year, s := year, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			l, err := Compute(year, s, beta)
			if err != nil {
				return err
			}
			mu.Lock()
			out[year] = l
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Records joins survival and DLE into rows ordered by (year, age).
func Records(table *model.LifeTable, dle map[int]model.Schedule) []model.LifeExpectancyRecord {
	years := make([]int, 0, len(dle))
	for y := range dle {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]model.LifeExpectancyRecord, 0, len(years)*model.NumAges)
	for _, y := range years {
		l := dle[y]
		for a := 0; a < model.NumAges; a++ {
			s, _ := table.Survival(y, a)
			out = append(out, model.LifeExpectancyRecord{
				SurvivalRecord: model.SurvivalRecord{Year: y, Age: a, Sx: s},
				LA:             l[a],
			})
		}
	}
	return out
}
