package valuation

import (
	"math"

	"mortality-valuation/internal/model"
)

// Grid returns the delta_l values 0, step, 2*step, ..., 1. It has 1/step+1
// points and both endpoints are exact.
func Grid(step float64) ([]float64, error) {
	if step <= 0 || step > 1 {
		return nil, model.NewConfigurationError("l_step must be in (0,1], got %v", step)
	}
	n := math.Round(1 / step)
	if math.Abs(n-1/step) > 1e-9 {
		return nil, model.NewConfigurationError("l_step %v does not divide [0,1] evenly", step)
	}
	steps := int(n)
	out := make([]float64, steps+1)
	for i := range out {
		out[i] = float64(i) / float64(steps)
	}
	return out, nil
}
