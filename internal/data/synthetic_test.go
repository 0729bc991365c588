package data

import (
	"testing"

	"mortality-valuation/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestGompertzMakeham_Schedule(t *testing.T) {
	for year, law := range DemoLaws() {
		s := law.Schedule()
		for a := 0; a < model.NumAges; a++ {
			assert.Greater(t, s[a], 0.0, "year %d age %d", year, a)
			assert.LessOrEqual(t, s[a], 1.0, "year %d age %d", year, a)
			if a > 0 {
				assert.LessOrEqual(t, s[a], s[a-1], "hazard must increase with age (year %d age %d)", year, a)
			}
		}
	}
	assert.InDelta(t, 0.5, DemoLaws()[2015].Survival(100), 0.05)
}

func TestSyntheticLifeTable(t *testing.T) {
	table := SyntheticLifeTable("DEMO", DemoLaws())
	assert.Equal(t, []int{1990, 2015}, table.SortedYears())
	s90, _ := table.Survival(1990, 60)
	s15, _ := table.Survival(2015, 60)
	assert.Greater(t, s15, s90)
}
