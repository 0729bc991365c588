package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"mortality-valuation/internal/model"
)

// Column names of the UN WPP complete life-table export.
const (
	ColYear    = "Time"
	ColCountry = "ISO3_code"
	ColAge     = "AgeGrpStart"
	ColSx      = "Sx"
	ColName    = "Location"
)

// Filter selects one population and a set of years from the raw input.
type Filter struct {
	Country string
	Years   []int
}

// LoadLifeTableCSV reads a life-table CSV and returns complete survival
// schedules for the filtered country and years.
func LoadLifeTableCSV(path string, f Filter) (*model.LifeTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open life table: %w", err)
	}
	defer file.Close()
	return ReadLifeTable(file, f)
}

// ReadLifeTable parses rows with at least the Time, ISO3_code, AgeGrpStart and
// Sx columns. Ages >= 100 are pooled into the terminal bucket; the first row
// seen for the bucket wins.
func ReadLifeTable(r io.Reader, f Filter) (*model.LifeTable, error) {
	if strings.TrimSpace(f.Country) == "" {
		return nil, model.NewConfigurationError("country code is required")
	}
	if len(f.Years) == 0 {
		return nil, model.NewConfigurationError("at least one year is required")
	}
	wanted := make(map[int]bool, len(f.Years))
	for _, y := range f.Years {
		wanted[y] = true
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, model.NewInputDataError(err, "read header")
	}
	idx, err := columnIndex(header, ColYear, ColCountry, ColAge, ColSx)
	if err != nil {
		return nil, err
	}

	table := model.NewLifeTable(f.Country)
	seen := map[int]*coverage{}
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, model.NewInputDataError(err, "read line %d", line)
		}
		if field(rec, idx[ColCountry]) != f.Country {
			continue
		}
		year, err := strconv.Atoi(field(rec, idx[ColYear]))
		if err != nil {
			return nil, model.NewInputDataError(err, "line %d: bad %s", line, ColYear)
		}
		if !wanted[year] {
			continue
		}
		age, err := parseAge(field(rec, idx[ColAge]))
		if err != nil {
			return nil, model.NewInputDataError(err, "line %d: bad %s", line, ColAge)
		}
		sx, err := strconv.ParseFloat(field(rec, idx[ColSx]), 64)
		if err != nil {
			return nil, model.NewInputDataError(err, "line %d: bad %s", line, ColSx)
		}

		pooled := age > model.MaxAge
		if pooled {
			age = model.MaxAge
		}
		if age < 0 {
			return nil, model.NewInputDataError(nil, "line %d: negative age", line).WithYear(year).WithAge(age)
		}
		if !(sx > 0 && sx <= 1) {
			return nil, model.NewInputDataError(nil, "line %d: survival probability %v outside (0,1]", line, sx).
				WithYear(year).WithAge(age)
		}

		cov := seen[year]
		if cov == nil {
			cov = &coverage{}
			seen[year] = cov
		}
		switch {
		case !cov.filled[age]:
			cov.filled[age] = true
			cov.pooledTail = pooled
		case pooled:
			continue
		case age == model.MaxAge && cov.pooledTail:
			// An explicit 100 row replaces a value pooled from older ages.
			cov.pooledTail = false
		default:
			return nil, model.NewInputDataError(nil, "line %d: duplicate row", line).WithYear(year).WithAge(age)
		}
		s := table.Years[year]
		s[age] = sx
		table.Years[year] = s
	}

	for _, y := range f.Years {
		cov := seen[y]
		if cov == nil {
			return nil, model.NewConfigurationError("year %d not present for %s", y, f.Country).WithYear(y)
		}
		for a := 0; a < model.NumAges; a++ {
			if !cov.filled[a] {
				return nil, model.NewInputDataError(nil, "missing age in 0..%d", model.MaxAge).WithYear(y).WithAge(a)
			}
		}
	}
	return table, nil
}

// coverage tracks which ages of one year have been read. pooledTail is set
// while the terminal value comes from an age above MaxAge.
type coverage struct {
	filled     [model.NumAges]bool
	pooledTail bool
}

func columnIndex(header []string, names ...string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		// Excel exports prefix the first column with a UTF-8 BOM.
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	out := make(map[string]int, len(names))
	for _, n := range names {
		i, ok := idx[n]
		if !ok {
			return nil, model.NewInputDataError(nil, "missing column %q", n)
		}
		out[n] = i
	}
	return out, nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// parseAge accepts "85", "85.0" and "100+". Fractional ages are rejected.
func parseAge(s string) (int, error) {
	s = strings.TrimSuffix(s, "+")
	if a, err := strconv.Atoi(s); err == nil {
		return a, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("age %q is not a whole number", s)
	}
	return int(v), nil
}
