package models

import (
	"time"

	"mortality-valuation/internal/analysis"
	"mortality-valuation/internal/data"
	"mortality-valuation/internal/model"
	"mortality-valuation/internal/report"
	"mortality-valuation/internal/store"
	"mortality-valuation/internal/valuation"
)

// ValuationResponse describes one stored run.
type ValuationResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Country   string    `json:"country"`
	BaseYear  int       `json:"base_year"`
	PreYear   int       `json:"pre_year"`
	GammaHat  float64   `json:"gamma_hat"`
	CRRARho   float64   `json:"crra_rho"`

	Headline []valuation.Headline      `json:"headline"`
	Gains    []analysis.HistoricalGain `json:"gains,omitempty"`
	Summary  report.Table              `json:"summary"`
	Grid     []model.ValuationRecord   `json:"grid,omitempty"`
}

// NewValuationResponse builds the response for run. The grid is included
// only when withGrid is set.
func NewValuationResponse(run store.Run, withGrid bool) ValuationResponse {
	res := run.Result
	resp := ValuationResponse{
		ID:        run.ID,
		CreatedAt: run.CreatedAt,
		Country:   res.Country,
		BaseYear:  res.BaseYear,
		PreYear:   run.Config.PreYear,
		GammaHat:  res.GammaHat,
		CRRARho:   res.CRRARho,
		Headline:  res.Headline,
		Gains:     run.Gains,
		Summary:   report.Summary(res, run.Gains),
	}
	if withGrid {
		resp.Grid = res.Records
	}
	return resp
}

// GridResponse is the body of GET /api/v1/valuation/:id/grid.
type GridResponse struct {
	ID      string                  `json:"id"`
	Count   int                     `json:"count"`
	Records []model.ValuationRecord `json:"records"`
}

// LifeTableResponse lists survival and discounted life expectancy by age.
type LifeTableResponse struct {
	Country string                       `json:"country"`
	Year    int                          `json:"year"`
	Beta    float64                      `json:"beta"`
	Records []model.LifeExpectancyRecord `json:"records"`
}

// CountriesResponse lists the populations in the configured data file.
type CountriesResponse struct {
	Countries []data.Country `json:"countries"`
	Count     int            `json:"count"`
}

// RunsResponse lists stored runs, newest first.
type RunsResponse struct {
	Runs  []store.RunSummary `json:"runs"`
	Count int                `json:"count"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
