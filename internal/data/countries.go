package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
)

// Country summarises one population available in a life-table file.
type Country struct {
	Code    string `json:"code"`
	Name    string `json:"name,omitempty"`
	MinYear int    `json:"min_year"`
	MaxYear int    `json:"max_year"`
}

// ListCountries scans a life-table CSV and returns the distinct ISO3 codes
// with their year span, sorted by code. Rows without a code (regional
// aggregates) are skipped.
func ListCountries(path string) ([]Country, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open life table: %w", err)
	}
	defer f.Close()
	return ReadCountries(f)
}

func ReadCountries(r io.Reader) ([]Country, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header, ColYear, ColCountry)
	if err != nil {
		return nil, err
	}
	nameIdx := -1
	for i, h := range header {
		if h == ColName {
			nameIdx = i
		}
	}

	byCode := map[string]*Country{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		code := field(rec, idx[ColCountry])
		if code == "" {
			continue
		}
		year, err := strconv.Atoi(field(rec, idx[ColYear]))
		if err != nil {
			continue
		}
		c, ok := byCode[code]
		if !ok {
			c = &Country{Code: code, Name: field(rec, nameIdx), MinYear: year, MaxYear: year}
			byCode[code] = c
		}
		if year < c.MinYear {
			c.MinYear = year
		}
		if year > c.MaxYear {
			c.MaxYear = year
		}
	}

	out := make([]Country, 0, len(byCode))
	for _, c := range byCode {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}
