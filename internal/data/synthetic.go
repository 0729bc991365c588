package data

import (
	"math"

	"mortality-valuation/internal/model"
)

// GompertzMakeham is a parametric force of mortality mu(a) = A*exp(B*a) + C.
type GompertzMakeham struct {
	A float64
	B float64
	C float64
}

// Survival returns the one-year survival probability from exact age a,
// exp(-integral of mu over [a, a+1]).
func (g GompertzMakeham) Survival(a int) float64 {
	x := float64(a)
	cum := g.C + g.A/g.B*(math.Exp(g.B*(x+1))-math.Exp(g.B*x))
	return math.Exp(-cum)
}

// Schedule evaluates the survival schedule for ages 0..100.
func (g GompertzMakeham) Schedule() model.Schedule {
	var s model.Schedule
	for a := 0; a < model.NumAges; a++ {
		s[a] = g.Survival(a)
	}
	return s
}

// SyntheticLifeTable builds a complete life table from one mortality law per
// year. It stands in for UN WPP data in the demo and in tests.
func SyntheticLifeTable(country string, laws map[int]GompertzMakeham) *model.LifeTable {
	t := model.NewLifeTable(country)
	for y, g := range laws {
		t.Years[y] = g.Schedule()
	}
	return t
}

// DemoLaws are illustrative mortality laws for 1990 and 2015 whose terminal
// survival probability is close to one half.
func DemoLaws() map[int]GompertzMakeham {
	return map[int]GompertzMakeham{
		1990: {A: 5.0e-5, B: 0.095, C: 6.0e-4},
		2015: {A: 3.0e-5, B: 0.100, C: 3.0e-4},
	}
}
