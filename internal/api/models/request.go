package models

import "mortality-valuation/internal/config"

// Dataset names accepted in ValuationRequest.Dataset.
const (
	DatasetFile      = "file"
	DatasetSynthetic = "synthetic"
)

// ValuationRequest is the body of POST /api/v1/valuation.
type ValuationRequest struct {
	// Country is the ISO3 code to value; required unless Dataset is synthetic.
	Country string `json:"country"`
	// Dataset selects the configured life-table file (default) or the
	// built-in synthetic table.
	Dataset string `json:"dataset,omitempty" binding:"omitempty,oneof=file synthetic"`
	// Config overrides the server's run defaults field by field.
	Config *config.Config `json:"config,omitempty"`
	// IncludeGrid returns the full valuation grid with the response.
	IncludeGrid bool `json:"include_grid,omitempty"`
}

// LifeTableQuery is the query of GET /api/v1/lifetable.
type LifeTableQuery struct {
	Country string  `form:"country"`
	Year    int     `form:"year" binding:"required"`
	Beta    float64 `form:"beta" binding:"omitempty,gt=0,lt=1"`
	Dataset string  `form:"dataset" binding:"omitempty,oneof=file synthetic"`
}

// RunsQuery is the query of GET /api/v1/runs.
type RunsQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}
