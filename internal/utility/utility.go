// Package utility implements the closed-form valuation functions b(.) of a
// non-marginal change in discounted life expectancy.
package utility

import (
	"math"

	"mortality-valuation/internal/model"
)

// Point is the state a valuation function is evaluated at.
//
//   - L is the current discounted life expectancy l_a
//   - LTilde is the hypothetical l_a~ = l_a + delta_l
//   - STilde is the implied survival probability s_a~
//   - Gamma is the calibrated scale gamma_hat
//   - SRef is the survival probability the marginal value is anchored to
type Point struct {
	L      float64
	LTilde float64
	STilde float64
	Gamma  float64
	SRef   float64
}

// Gain returns l_a~ - l_a.
func (p Point) Gain() float64 { return p.LTilde - p.L }

// Function is one valuation model.
type Function interface {
	Model() model.UtilityModel
	Rho() float64
	Value(p Point) (float64, error)
}

// ForRho picks the exact branch for rho. rho == 1 is the removable
// singularity of the CRRA form and always maps to Log.
func ForRho(rho float64) Function {
	switch rho {
	case 0:
		return Linear{}
	case 1:
		return Log{}
	default:
		return CRRA{R: rho}
	}
}

// Benefit evaluates b(l_a, l_a~, s_a~, gamma_hat, s_ref, rho).
func Benefit(l, lTilde, sTilde, gamma, sRef, rho float64) (float64, error) {
	return ForRho(rho).Value(Point{L: l, LTilde: lTilde, STilde: sTilde, Gamma: gamma, SRef: sRef})
}

// Linear is rho = 0: b = (l~ - l) * gamma.
type Linear struct{}

func (Linear) Model() model.UtilityModel { return model.ModelLinear }
func (Linear) Rho() float64              { return 0 }

func (Linear) Value(p Point) (float64, error) {
	return p.Gain() * p.Gamma, nil
}

// Log is the rho -> 1 limit:
// b = l~/s~ * (1 - exp(-(l~ - l)/l~ * gamma * s_ref)).
type Log struct{}

func (Log) Model() model.UtilityModel { return model.ModelLog }
func (Log) Rho() float64              { return 1 }

func (Log) Value(p Point) (float64, error) {
	if err := checkScale(p, 1); err != nil {
		return 0, err
	}
	x := p.Gain() / p.LTilde * p.Gamma * p.SRef
	return p.LTilde / p.STilde * (1 - math.Exp(-x)), nil
}

// CRRA is constant relative risk aversion R, R not in {0, 1}:
// b = l~/s~ * (1 - (1 - (1-R)*(l~ - l)/l~ * gamma * s_ref)^(1/(1-R))).
type CRRA struct {
	R float64
}

func (CRRA) Model() model.UtilityModel { return model.ModelCRRA }
func (c CRRA) Rho() float64            { return c.R }

func (c CRRA) Value(p Point) (float64, error) {
	if c.R == 0 || c.R == 1 {
		return ForRho(c.R).Value(p)
	}
	if err := checkScale(p, c.R); err != nil {
		return 0, err
	}
	x := p.Gain() / p.LTilde * p.Gamma * p.SRef
	base := 1 - (1-c.R)*x
	exp := 1 / (1 - c.R)
	if base < 0 || (base == 0 && exp < 0) {
		return 0, model.NewDomainError("CRRA base %v is outside the domain of ^(%v)", base, exp).
			WithRho(c.R).WithDeltaL(p.Gain())
	}
	v := p.LTilde / p.STilde * (1 - math.Pow(base, exp))
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, model.NewDomainError("CRRA value is not finite").WithRho(c.R).WithDeltaL(p.Gain())
	}
	return v, nil
}

func checkScale(p Point, rho float64) error {
	if p.LTilde <= 0 || p.STilde <= 0 {
		return model.NewDomainError("l_a~ = %v and s_a~ = %v must be positive", p.LTilde, p.STilde).
			WithRho(rho).WithDeltaL(p.Gain())
	}
	return nil
}
