// Package report renders valuation results as tables and figures.
package report

import (
	"fmt"

	"mortality-valuation/internal/analysis"
	"mortality-valuation/internal/model"
	"mortality-valuation/internal/valuation"
)

// Row is one named metric across the focal ages.
type Row struct {
	Key    string    `json:"key"`
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Table has focal ages as columns and named metrics as rows.
type Table struct {
	Ages []int `json:"ages"`
	Rows []Row `json:"rows"`
}

// Row returns the row with key, if present.
func (t *Table) Row(key string) (Row, bool) {
	for _, r := range t.Rows {
		if r.Key == key {
			return r, true
		}
	}
	return Row{}, false
}

// Summary extracts the unit-gain headline of each focal age and, when gains
// is non-empty, the historical comparison.
func Summary(res *valuation.Result, gains []analysis.HistoricalGain) Table {
	t := Table{Ages: res.Ages()}
	add := func(key, name string, f func(h valuation.Headline) float64) {
		vals := make([]float64, len(res.Headline))
		for i, h := range res.Headline {
			vals[i] = f(h)
		}
		t.Rows = append(t.Rows, Row{Key: key, Name: name, Values: vals})
	}

	add("l_a", "Discounted life expectancy", func(h valuation.Headline) float64 { return h.LA })
	add("prop_increase", "Increase from one unit (%)", func(h valuation.Headline) float64 { return 100 * h.ProportionalIncrease })
	for _, m := range model.Models {
		m := m
		add("b_"+string(m), fmt.Sprintf("Value of one unit, %s", m.Label()), func(h valuation.Headline) float64 { return h.Unit.For(m).B })
	}
	add("initial_mg_v", "Initial marginal VSL", func(h valuation.Headline) float64 { return h.InitialMgV })
	for _, m := range model.Models {
		m := m
		add("mg_v_"+string(m), fmt.Sprintf("Marginal VSL after one unit, %s", m.Label()), func(h valuation.Headline) float64 { return h.Unit.For(m).MgV })
	}

	if len(gains) == 0 {
		return t
	}
	byAge := make(map[int]analysis.HistoricalGain, len(gains))
	for _, g := range gains {
		byAge[g.Age] = g
	}
	addGain := func(key, name string, f func(g analysis.HistoricalGain) float64) {
		vals := make([]float64, len(t.Ages))
		for i, a := range t.Ages {
			vals[i] = f(byAge[a])
		}
		t.Rows = append(t.Rows, Row{Key: key, Name: name, Values: vals})
	}
	pre := gains[0].PreYear
	addGain("l_pre", fmt.Sprintf("Discounted life expectancy in %d", pre), func(g analysis.HistoricalGain) float64 { return g.LPre })
	addGain("gain", fmt.Sprintf("Gain since %d", pre), func(g analysis.HistoricalGain) float64 { return g.Gain })
	for _, m := range model.Models {
		m := m
		addGain("b_hist_"+string(m), fmt.Sprintf("Value of gain since %d, %s", pre, m.Label()), func(g analysis.HistoricalGain) float64 { return g.Values[m] })
	}
	return t
}
