// Package analysis values the observed change in discounted life expectancy
// between the comparison year and the base year.
package analysis

import (
	"errors"

	"mortality-valuation/internal/config"
	"mortality-valuation/internal/model"
	"mortality-valuation/internal/utility"
)

// HistoricalGain summarises, for one focal age, the change in l_a between
// PreYear and BaseYear and what that change is worth under each model.
type HistoricalGain struct {
	Age      int `json:"age"`
	PreYear  int `json:"pre_year"`
	BaseYear int `json:"base_year"`

	LPre  float64 `json:"l_pre"`
	SPre  float64 `json:"s_pre"`
	LBase float64 `json:"l_base"`

	// Gain is l_base - l_pre; negative when mortality worsened.
	Gain float64 `json:"gain"`
	// Proportional is Gain / l_pre.
	Proportional float64 `json:"proportional"`

	// Values holds b evaluated from the PreYear state with delta_l = Gain.
	Values map[model.UtilityModel]float64 `json:"values"`
}

// CompareYears evaluates the historical gain for every focal age, using the
// gamma_hat calibrated on the base year.
func CompareYears(cfg config.Config, table *model.LifeTable, dle map[int]model.Schedule, gamma float64) ([]HistoricalGain, error) {
	pre, ok := dle[cfg.PreYear]
	if !ok {
		return nil, model.NewConfigurationError("comparison year has no discounted life expectancy").WithYear(cfg.PreYear)
	}
	base, ok := dle[cfg.BaseYear]
	if !ok {
		return nil, model.NewConfigurationError("base year has no discounted life expectancy").WithYear(cfg.BaseYear)
	}

	out := make([]HistoricalGain, 0, len(cfg.Ages))
	for _, age := range cfg.Ages {
		s, ok := table.Survival(cfg.PreYear, age)
		if !ok {
			return nil, model.NewConfigurationError("focal age missing from input").WithYear(cfg.PreYear).WithAge(age)
		}
		lp := pre[age]
		if lp <= 0 {
			return nil, model.NewDomainError("non-positive discounted life expectancy %v", lp).WithYear(cfg.PreYear).WithAge(age)
		}
		g := HistoricalGain{
			Age:          age,
			PreYear:      cfg.PreYear,
			BaseYear:     cfg.BaseYear,
			LPre:         lp,
			SPre:         s,
			LBase:        base[age],
			Gain:         base[age] - lp,
			Proportional: (base[age] - lp) / lp,
			Values:       make(map[model.UtilityModel]float64, len(model.Models)),
		}
		lt := lp + g.Gain
		st := s * lt / lp
		for _, m := range model.Models {
			b, err := utility.Benefit(lp, lt, st, gamma, s, m.Rho(cfg.CRRARho))
			if err != nil {
				var me *model.Error
				if errors.As(err, &me) {
					me.WithYear(cfg.PreYear).WithAge(age).WithModel(m)
				}
				return nil, err
			}
			g.Values[m] = b
		}
		out = append(out, g)
	}
	return out, nil
}
