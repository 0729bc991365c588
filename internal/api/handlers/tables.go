package handlers

import (
	"strings"

	"mortality-valuation/internal/api/models"
	"mortality-valuation/internal/data"
	"mortality-valuation/internal/model"
)

// SyntheticCountry is the country code reported for the built-in table.
const SyntheticCountry = "SYN"

// Tables resolves the life table a request refers to.
type Tables struct {
	Loader   *data.Loader
	DataPath string
}

// Load returns the table for country restricted to years. The synthetic
// dataset ignores country and carries only the built-in years.
func (t *Tables) Load(dataset, country string, years []int) (*model.LifeTable, error) {
	if dataset == models.DatasetSynthetic {
		return data.SyntheticLifeTable(SyntheticCountry, data.DemoLaws()), nil
	}
	country = strings.ToUpper(strings.TrimSpace(country))
	if country == "" {
		return nil, model.NewConfigurationError("country is required")
	}
	return t.Loader.Load(t.DataPath, data.Filter{Country: country, Years: years})
}
