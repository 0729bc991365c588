package data

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mortality-valuation/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wppCSV renders rows in the column layout of the WPP complete life table.
func wppCSV(rows ...string) string {
	return "SortOrder,Location,ISO3_code,Time,AgeGrp,AgeGrpStart,Sx,ex\n" + strings.Join(rows, "\n") + "\n"
}

func yearRows(country string, year int, s model.Schedule, skipAge int) []string {
	out := make([]string, 0, model.NumAges)
	for a := 0; a < model.NumAges; a++ {
		if a == skipAge {
			continue
		}
		grp := fmt.Sprint(a)
		if a == model.MaxAge {
			grp = "100+"
		}
		out = append(out, fmt.Sprintf("1,Somewhere,%s,%d,%s,%d,%.6f,1.0", country, year, grp, a, s[a]))
	}
	return out
}

func TestReadLifeTable(t *testing.T) {
	law := DemoLaws()[2015]
	s := law.Schedule()
	rows := append(yearRows("USA", 2015, s, -1), yearRows("USA", 1990, DemoLaws()[1990].Schedule(), -1)...)
	rows = append(rows, yearRows("FRA", 2015, s, -1)...)
	rows = append(rows, yearRows("USA", 2000, s, 50)...) // unrequested, incomplete year

	table, err := ReadLifeTable(strings.NewReader(wppCSV(rows...)), Filter{Country: "USA", Years: []int{2015, 1990}})
	require.NoError(t, err)

	assert.Equal(t, "USA", table.Country)
	assert.Equal(t, []int{1990, 2015}, table.SortedYears())
	got, ok := table.Survival(2015, 40)
	require.True(t, ok)
	assert.InDelta(t, s[40], got, 1e-6)
	got, ok = table.Survival(2015, 100)
	require.True(t, ok)
	assert.InDelta(t, s[100], got, 1e-6)
	assert.Len(t, table.Records(), 2*model.NumAges)
}

func TestReadLifeTable_PoolsTerminalAges(t *testing.T) {
	s := DemoLaws()[2015].Schedule()
	rows := yearRows("USA", 2015, s, -1)
	rows = append(rows, "1,Somewhere,USA,2015,105,105,0.100000,1.0")

	table, err := ReadLifeTable(strings.NewReader(wppCSV(rows...)), Filter{Country: "USA", Years: []int{2015}})
	require.NoError(t, err)
	got, _ := table.Survival(2015, 100)
	assert.InDelta(t, s[100], got, 1e-6)

	// An explicit 100 row wins over an older age seen first.
	rows = append([]string{"1,Somewhere,USA,2015,105,105,0.100000,1.0"}, yearRows("USA", 2015, s, -1)...)
	table, err = ReadLifeTable(strings.NewReader(wppCSV(rows...)), Filter{Country: "USA", Years: []int{2015}})
	require.NoError(t, err)
	got, _ = table.Survival(2015, 100)
	assert.InDelta(t, s[100], got, 1e-6)
}

func TestReadLifeTable_Errors(t *testing.T) {
	s := DemoLaws()[2015].Schedule()
	full := yearRows("USA", 2015, s, -1)

	tests := []struct {
		name   string
		input  string
		filter Filter
		kind   error
		keys   []string
	}{
		{
			name:   "missing age",
			input:  wppCSV(yearRows("USA", 2015, s, 37)...),
			filter: Filter{Country: "USA", Years: []int{2015}},
			kind:   model.ErrInputData,
		},
		{
			name:   "missing base year",
			input:  wppCSV(full...),
			filter: Filter{Country: "USA", Years: []int{2015, 1990}},
			kind:   model.ErrConfiguration,
		},
		{
			name:   "unknown country",
			input:  wppCSV(full...),
			filter: Filter{Country: "XXX", Years: []int{2015}},
			kind:   model.ErrConfiguration,
		},
		{
			name:   "survival above one",
			input:  wppCSV(append(yearRows("USA", 2015, s, 3), "1,Somewhere,USA,2015,3,3,1.200000,1.0")...),
			filter: Filter{Country: "USA", Years: []int{2015}},
			kind:   model.ErrInputData,
		},
		{
			name:   "zero survival",
			input:  wppCSV(append(yearRows("USA", 2015, s, 3), "1,Somewhere,USA,2015,3,3,0,1.0")...),
			filter: Filter{Country: "USA", Years: []int{2015}},
			kind:   model.ErrInputData,
		},
		{
			name:   "NaN survival",
			input:  wppCSV(append(yearRows("USA", 2015, s, 90), "1,Somewhere,USA,2015,90,90,NaN,1.0")...),
			filter: Filter{Country: "USA", Years: []int{2015}},
			kind:   model.ErrInputData,
			keys:   []string{"year=2015", "age=90"},
		},
		{
			name:   "fractional age",
			input:  wppCSV(append(full, "1,Somewhere,USA,2015,85.5,85.5,0.900000,1.0")...),
			filter: Filter{Country: "USA", Years: []int{2015}},
			kind:   model.ErrInputData,
		},
		{
			name:   "duplicate terminal age",
			input:  wppCSV(append(full, "1,Somewhere,USA,2015,100+,100,0.500000,1.0")...),
			filter: Filter{Country: "USA", Years: []int{2015}},
			kind:   model.ErrInputData,
			keys:   []string{"year=2015", "age=100"},
		},
		{
			name:   "duplicate row",
			input:  wppCSV(append(full, full[10])...),
			filter: Filter{Country: "USA", Years: []int{2015}},
			kind:   model.ErrInputData,
		},
		{
			name:   "missing column",
			input:  "Time,ISO3_code,AgeGrpStart\n2015,USA,0\n",
			filter: Filter{Country: "USA", Years: []int{2015}},
			kind:   model.ErrInputData,
		},
		{
			name:   "no country",
			input:  wppCSV(full...),
			filter: Filter{Years: []int{2015}},
			kind:   model.ErrConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadLifeTable(strings.NewReader(tt.input), tt.filter)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
			for _, k := range tt.keys {
				assert.Contains(t, err.Error(), k)
			}
		})
	}
}

func TestLoadLifeTableCSV_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wpp.csv")
	rows := yearRows("USA", 2015, DemoLaws()[2015].Schedule(), -1)
	require.NoError(t, os.WriteFile(path, []byte("\ufeff"+wppCSV(rows...)), 0o644))

	table, err := LoadLifeTableCSV(path, Filter{Country: "USA", Years: []int{2015}})
	require.NoError(t, err)
	assert.True(t, table.HasYear(2015))

	_, err = LoadLifeTableCSV(filepath.Join(t.TempDir(), "none.csv"), Filter{Country: "USA", Years: []int{2015}})
	assert.Error(t, err)
}

func TestReadCountries(t *testing.T) {
	s := DemoLaws()[2015].Schedule()
	rows := append(yearRows("USA", 2015, s, -1), yearRows("USA", 1990, s, -1)...)
	rows = append(rows, yearRows("FRA", 2000, s, -1)...)
	rows = append(rows, yearRows("", 2000, s, -1)...)

	got, err := ReadCountries(strings.NewReader(wppCSV(rows...)))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Country{Code: "FRA", Name: "Somewhere", MinYear: 2000, MaxYear: 2000}, got[0])
	assert.Equal(t, "USA", got[1].Code)
	assert.Equal(t, 1990, got[1].MinYear)
	assert.Equal(t, 2015, got[1].MaxYear)
}

func TestParseAge(t *testing.T) {
	for in, want := range map[string]int{"0": 0, "85": 85, "85.0": 85, "100+": 100} {
		got, err := parseAge(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"old", "85.5", "-0.5", "Inf"} {
		_, err := parseAge(in)
		assert.Error(t, err, in)
	}
}
