package handlers

import (
	"net/http"

	"mortality-valuation/internal/api/models"
	"mortality-valuation/internal/lifeexp"
	"mortality-valuation/internal/model"

	"github.com/gin-gonic/gin"
)

// LifeTableHandler serves survival and discounted life expectancy by age.
type LifeTableHandler struct {
	tables      *Tables
	defaultBeta float64
}

// NewLifeTableHandler creates a life-table handler.
func NewLifeTableHandler(tables *Tables, defaultBeta float64) *LifeTableHandler {
	return &LifeTableHandler{tables: tables, defaultBeta: defaultBeta}
}

// GetLifeTable handles GET /api/v1/lifetable
func (h *LifeTableHandler) GetLifeTable(c *gin.Context) {
	var q models.LifeTableQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "INVALID_QUERY", err)
		return
	}
	beta := q.Beta
	if beta == 0 {
		beta = h.defaultBeta
	}

	table, err := h.tables.Load(q.Dataset, q.Country, []int{q.Year})
	if err != nil {
		respondError(c, err)
		return
	}
	surv, ok := table.Years[q.Year]
	if !ok {
		respondError(c, model.NewConfigurationError("year not present in life table").WithYear(q.Year))
		return
	}
	dle, err := lifeexp.Compute(q.Year, surv, beta)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.LifeTableResponse{
		Country: table.Country,
		Year:    q.Year,
		Beta:    beta,
		Records: lifeexp.Records(table, map[int]model.Schedule{q.Year: dle}),
	})
}
