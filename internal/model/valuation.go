package model

// UtilityModel names one of the valuation functions. Keep these values
// stable; they are used as CSV column prefixes and API keys.
type UtilityModel string

const (
	ModelLinear UtilityModel = "linear"
	ModelLog    UtilityModel = "log"
	ModelCRRA   UtilityModel = "crra"
)

// Models lists the valuation functions in reporting order.
var Models = []UtilityModel{ModelLinear, ModelLog, ModelCRRA}

// DefaultCRRARho is the relative risk aversion used for the CRRA model.
const DefaultCRRARho = 2.0

// Rho returns the relative risk aversion the model is evaluated at.
// crraRho is only consulted for ModelCRRA.
func (m UtilityModel) Rho(crraRho float64) float64 {
	switch m {
	case ModelLinear:
		return 0
	case ModelLog:
		return 1
	default:
		return crraRho
	}
}

// Label is the human-readable name used in tables and figure legends.
func (m UtilityModel) Label() string {
	switch m {
	case ModelLinear:
		return "Linear"
	case ModelLog:
		return "Log"
	case ModelCRRA:
		return "CRRA"
	default:
		return string(m)
	}
}

// GridPoint is a hypothetical absolute increase DeltaL in discounted life
// expectancy for a focal age.
type GridPoint struct {
	Age    int     `json:"age"`
	DeltaL float64 `json:"delta_l"`
}

// Valuation holds one model's value and marginal values at a grid point.
type Valuation struct {
	B      float64 `json:"b"`
	MgB    float64 `json:"mg_b"`
	RelMgB float64 `json:"rel_mg_b"`
	MgV    float64 `json:"mg_v"`
}

// ValuationRecord is one (age, delta_l) row of the valuation grid with all
// three models evaluated on it.
type ValuationRecord struct {
	GridPoint
	LA     float64 `json:"l_a"`
	SA     float64 `json:"s_a"`
	LTilde float64 `json:"l_a_tilde"`
	STilde float64 `json:"s_a_tilde"`

	Linear Valuation `json:"linear"`
	Log    Valuation `json:"log"`
	CRRA   Valuation `json:"crra"`
}

// For returns the valuation for m.
func (r *ValuationRecord) For(m UtilityModel) Valuation {
	switch m {
	case ModelLinear:
		return r.Linear
	case ModelLog:
		return r.Log
	default:
		return r.CRRA
	}
}

// Set stores v as the valuation for m.
func (r *ValuationRecord) Set(m UtilityModel, v Valuation) {
	switch m {
	case ModelLinear:
		r.Linear = v
	case ModelLog:
		r.Log = v
	default:
		r.CRRA = v
	}
}
