package valuation

import "mortality-valuation/internal/model"

// Headline is the one-unit-gain comparison for a focal age: the grid point at
// delta_l = 1 plus the marginal values at delta_l = 0.
type Headline struct {
	Age int     `json:"age"`
	LA  float64 `json:"l_a"`
	SA  float64 `json:"s_a"`

	// ProportionalIncrease is delta_l / l_a at delta_l = 1.
	ProportionalIncrease float64 `json:"proportional_increase"`

	// InitialMgV is the marginal VSL ratio at zero gain, gamma_hat * l_a / s_a.
	// It is common to all models.
	InitialMgV float64 `json:"initial_mg_v"`

	// Unit is the grid record at delta_l = 1.
	Unit model.ValuationRecord `json:"unit"`
}

// Result is the output of one valuation run.
type Result struct {
	Country  string                  `json:"country"`
	BaseYear int                     `json:"base_year"`
	GammaHat float64                 `json:"gamma_hat"`
	CRRARho  float64                 `json:"crra_rho"`
	Records  []model.ValuationRecord `json:"records"`
	Headline []Headline              `json:"headline"`
}

// ForAge returns the records of one focal age in grid order.
func (r *Result) ForAge(age int) []model.ValuationRecord {
	var out []model.ValuationRecord
	for _, rec := range r.Records {
		if rec.Age == age {
			out = append(out, rec)
		}
	}
	return out
}

// Ages returns the focal ages in run order.
func (r *Result) Ages() []int {
	out := make([]int, 0, len(r.Headline))
	for _, h := range r.Headline {
		out = append(out, h.Age)
	}
	return out
}
