// Package store persists valuation runs so the API can serve them after the
// request that produced them has returned.
package store

import (
	"context"
	"errors"
	"time"

	"mortality-valuation/internal/analysis"
	"mortality-valuation/internal/config"
	"mortality-valuation/internal/valuation"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a run id is unknown.
	ErrNotFound = errors.New("run not found")
	// ErrAlreadyExists is returned when a run id is saved twice.
	ErrAlreadyExists = errors.New("run already exists")
)

// DefaultListLimit caps ListRuns when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Run is one completed valuation together with the configuration it ran with.
type Run struct {
	ID        string                    `json:"id"`
	CreatedAt time.Time                 `json:"created_at"`
	Config    config.Config             `json:"config"`
	Result    *valuation.Result         `json:"result"`
	Gains     []analysis.HistoricalGain `json:"gains,omitempty"`
}

// RunSummary is the listing view of a Run.
type RunSummary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Country   string    `json:"country"`
	BaseYear  int       `json:"base_year"`
	PreYear   int       `json:"pre_year"`
	GammaHat  float64   `json:"gamma_hat"`
	Records   int       `json:"records"`
}

// Summary returns the listing view of r.
func (r Run) Summary() RunSummary {
	s := RunSummary{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Country:   r.Config.Country,
		BaseYear:  r.Config.BaseYear,
		PreYear:   r.Config.PreYear,
	}
	if r.Result != nil {
		s.Country = r.Result.Country
		s.GammaHat = r.Result.GammaHat
		s.Records = len(r.Result.Records)
	}
	return s
}

// NewRun stamps a fresh id and creation time on a completed valuation.
func NewRun(cfg config.Config, res *valuation.Result, gains []analysis.HistoricalGain) Run {
	return Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Config:    cfg,
		Result:    res,
		Gains:     gains,
	}
}

// ValidID reports whether id is a well-formed run id.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Store persists runs. ListRuns returns newest first.
type Store interface {
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
	Close() error
}
