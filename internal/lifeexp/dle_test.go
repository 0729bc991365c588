package lifeexp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"mortality-valuation/internal/data"
	"mortality-valuation/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const beta = 1 / 1.03

func TestCompute_EndToEndScenario(t *testing.T) {
	var s model.Schedule
	for a := range s {
		s[a] = 0.99
	}
	s[100] = 0.5

	l, err := Compute(2015, s, beta)
	require.NoError(t, err)
	// Four significant digits.
	assert.InDelta(t, 1.943, l[100], 5e-4)
	assert.InDelta(t, 2.858, l[99], 5e-4)
}

func TestCompute_Recurrence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		var s model.Schedule
		for a := range s {
			s[a] = 0.05 + 0.95*rng.Float64()
		}
		b := 0.5 + 0.49*rng.Float64()

		l, err := Compute(2000, s, b)
		require.NoError(t, err)
		assert.InDelta(t, 1/(1-b*s[100]), l[100], 1e-12)
		for a := 0; a < model.MaxAge; a++ {
			assert.InDelta(t, s[a]*(1+b*l[a+1]), l[a], 1e-12, "age %d", a)
			assert.GreaterOrEqual(t, l[a], 0.0)
		}
	}
}

func TestCompute_Monotone(t *testing.T) {
	s := data.DemoLaws()[2015].Schedule()
	l, err := Compute(2015, s, beta)
	require.NoError(t, err)
	for a := 1; a < model.NumAges; a++ {
		assert.LessOrEqual(t, l[a], l[a-1], "age %d", a)
	}
}

func TestCompute_Divergence(t *testing.T) {
	var s model.Schedule
	for a := range s {
		s[a] = 1
	}
	// beta*s_100 = 0.99 still converges.
	_, err := Compute(2015, s, 0.99)
	require.NoError(t, err)

	_, err = Compute(2015, s, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrConfiguration))

	_, err = Compute(2015, s, math.NaN())
	assert.True(t, errors.Is(err, model.ErrConfiguration))

	for _, s100 := range []float64{1.05, math.NaN(), math.Inf(1)} {
		_, err = Terminal(s100, 1/1.03)
		require.Error(t, err, "s_100 %v", s100)
		assert.True(t, errors.Is(err, model.ErrDivergence))
		assert.Contains(t, err.Error(), "age=100")
	}
}

func TestCompute_RejectsInvalidSurvival(t *testing.T) {
	base := data.DemoLaws()[2015].Schedule()
	cases := []struct {
		name  string
		age   int
		value float64
	}{
		{"NaN mid table", 90, math.NaN()},
		{"NaN terminal", 100, math.NaN()},
		{"infinite", 40, math.Inf(1)},
		{"zero", 0, 0},
		{"negative", 10, -0.2},
		{"above one", 100, 1.04},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := base
			s[tc.age] = tc.value
			_, err := Compute(2015, s, beta)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrInputData))
			assert.Contains(t, err.Error(), "year=2015")
			assert.Contains(t, err.Error(), fmt.Sprintf("age=%d", tc.age))
		})
	}
}

func TestComputeAll(t *testing.T) {
	table := data.SyntheticLifeTable("DEMO", data.DemoLaws())
	dle, err := ComputeAll(context.Background(), table, beta)
	require.NoError(t, err)
	require.Len(t, dle, 2)

	for year, s := range table.Years {
		want, err := Compute(year, s, beta)
		require.NoError(t, err)
		assert.Equal(t, want, dle[year])
	}
	assert.Greater(t, dle[2015][40], dle[1990][40])

	recs := Records(table, dle)
	require.Len(t, recs, 2*model.NumAges)
	assert.Equal(t, 1990, recs[0].Year)
	assert.Equal(t, 0, recs[0].Age)
	assert.Equal(t, dle[2015][100], recs[len(recs)-1].LA)
}

func TestComputeAll_Errors(t *testing.T) {
	_, err := ComputeAll(context.Background(), model.NewLifeTable("X"), beta)
	assert.True(t, errors.Is(err, model.ErrInputData))

	table := data.SyntheticLifeTable("DEMO", data.DemoLaws())
	bad := table.Years[1990]
	bad[100] = math.NaN()
	table.Years[1990] = bad
	_, err = ComputeAll(context.Background(), table, beta)
	assert.True(t, errors.Is(err, model.ErrInputData))
	assert.Contains(t, err.Error(), "year=1990")
}
