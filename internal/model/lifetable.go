package model

import "sort"

// Age bounds of a complete life table. Ages >= MaxAge are pooled into the
// terminal bucket at MaxAge.
const (
	MaxAge  = 100
	NumAges = MaxAge + 1
)

// Schedule is a per-age series indexed by exact age 0..MaxAge.
type Schedule [NumAges]float64

// SurvivalRecord is the annual survival probability s_a for an individual of
// exact age Age during Year.
type SurvivalRecord struct {
	Year int     `json:"year"`
	Age  int     `json:"age"`
	Sx   float64 `json:"sx"`
}

// LifeExpectancyRecord extends a SurvivalRecord with the discounted remaining
// life expectancy l_a. It is always computed, never read from input.
type LifeExpectancyRecord struct {
	SurvivalRecord
	LA float64 `json:"l_a"`
}

// LifeTable holds complete survival schedules for a single population.
type LifeTable struct {
	Country string
	Years   map[int]Schedule
}

func NewLifeTable(country string) *LifeTable {
	return &LifeTable{Country: country, Years: map[int]Schedule{}}
}

// Survival returns s_a for (year, age).
func (t *LifeTable) Survival(year, age int) (float64, bool) {
	if t == nil || age < 0 || age > MaxAge {
		return 0, false
	}
	s, ok := t.Years[year]
	if !ok {
		return 0, false
	}
	return s[age], true
}

func (t *LifeTable) HasYear(year int) bool {
	if t == nil {
		return false
	}
	_, ok := t.Years[year]
	return ok
}

// SortedYears returns the years present in ascending order.
func (t *LifeTable) SortedYears() []int {
	if t == nil {
		return nil
	}
	out := make([]int, 0, len(t.Years))
	for y := range t.Years {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// Records flattens the table into (year, age) order.
func (t *LifeTable) Records() []SurvivalRecord {
	years := t.SortedYears()
	out := make([]SurvivalRecord, 0, len(years)*NumAges)
	for _, y := range years {
		s := t.Years[y]
		for a := 0; a < NumAges; a++ {
			out = append(out, SurvivalRecord{Year: y, Age: a, Sx: s[a]})
		}
	}
	return out
}
