package handlers

import (
	"errors"
	"net/http"

	"mortality-valuation/internal/api/models"
	"mortality-valuation/internal/config"
	"mortality-valuation/internal/pipeline"
	"mortality-valuation/internal/store"
	"mortality-valuation/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ValuationHandler runs and serves valuation runs.
type ValuationHandler struct {
	runner   *pipeline.Runner
	runs     store.Store
	tables   *Tables
	defaults config.Config
	log      logger.Logger
}

// NewValuationHandler creates a valuation handler. defaults supplies every
// run parameter a request does not override.
func NewValuationHandler(runner *pipeline.Runner, runs store.Store, tables *Tables, defaults config.Config, log logger.Logger) *ValuationHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ValuationHandler{
		runner:   runner,
		runs:     runs,
		tables:   tables,
		defaults: defaults,
		log:      log.Named("valuation"),
	}
}

// RunValuation handles POST /api/v1/valuation
func (h *ValuationHandler) RunValuation(c *gin.Context) {
	var req models.ValuationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	cfg := h.defaults
	if req.Config != nil {
		cfg = config.MergeOverrides(cfg, *req.Config)
	}
	if req.Country != "" {
		cfg.Country = req.Country
	}
	if req.Dataset == models.DatasetSynthetic {
		cfg.Country = SyntheticCountry
	}

	table, err := h.tables.Load(req.Dataset, cfg.Country, cfg.Years())
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	out, err := h.runner.Run(ctx, cfg, table)
	if err != nil {
		respondError(c, err)
		return
	}

	run := store.NewRun(out.Config, out.Result, out.Gains)
	if err := h.runs.SaveRun(ctx, run); err != nil {
		respondError(c, err)
		return
	}
	h.log.Info(ctx, "stored run",
		logger.String("id", run.ID),
		logger.String("country", out.Result.Country),
		logger.Float64("gamma_hat", out.Result.GammaHat),
	)

	c.JSON(http.StatusCreated, models.NewValuationResponse(run, req.IncludeGrid))
}

// GetValuation handles GET /api/v1/valuation/:id
func (h *ValuationHandler) GetValuation(c *gin.Context) {
	run, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.NewValuationResponse(run, c.Query("include_grid") == "true"))
}

// GetGrid handles GET /api/v1/valuation/:id/grid
func (h *ValuationHandler) GetGrid(c *gin.Context) {
	run, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.GridResponse{
		ID:      run.ID,
		Count:   len(run.Result.Records),
		Records: run.Result.Records,
	})
}

// ListRuns handles GET /api/v1/runs
func (h *ValuationHandler) ListRuns(c *gin.Context) {
	var q models.RunsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "INVALID_QUERY", err)
		return
	}
	runs, err := h.runs.ListRuns(c.Request.Context(), q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if runs == nil {
		runs = []store.RunSummary{}
	}
	c.JSON(http.StatusOK, models.RunsResponse{Runs: runs, Count: len(runs)})
}

func (h *ValuationHandler) lookup(c *gin.Context) (store.Run, bool) {
	id := c.Param("id")
	if !store.ValidID(id) {
		badRequest(c, "INVALID_ID", errors.New("run id must be a UUID"))
		return store.Run{}, false
	}
	run, err := h.runs.GetRun(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return store.Run{}, false
	}
	return run, true
}
