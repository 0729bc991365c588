package valuation

import (
	"mortality-valuation/internal/config"
	"mortality-valuation/internal/model"
)

// Calibrate derives gamma_hat = V_HAT / l_(A_HAT, BASE_YEAR) * s_(A_HAT, BASE_YEAR).
// It reads the base year only.
func Calibrate(cfg config.Config, table *model.LifeTable, dle map[int]model.Schedule) (float64, error) {
	if cfg.VHat <= 0 {
		return 0, model.NewConfigurationError("v_hat must be > 0, got %v", cfg.VHat)
	}
	if cfg.AHat < 0 || cfg.AHat > model.MaxAge {
		return 0, model.NewConfigurationError("a_hat must be in [0,%d]", model.MaxAge).WithAge(cfg.AHat)
	}
	l, ok := dle[cfg.BaseYear]
	if !ok {
		return 0, model.NewConfigurationError("base year has no discounted life expectancy").WithYear(cfg.BaseYear)
	}
	s, ok := table.Survival(cfg.BaseYear, cfg.AHat)
	if !ok {
		return 0, model.NewConfigurationError("reference age missing from input").WithYear(cfg.BaseYear).WithAge(cfg.AHat)
	}
	la := l[cfg.AHat]
	if la <= 0 {
		return 0, model.NewDomainError("reference discounted life expectancy is %v", la).WithYear(cfg.BaseYear).WithAge(cfg.AHat)
	}
	return cfg.VHat / la * s, nil
}
