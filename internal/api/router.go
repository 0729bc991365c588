// Package api wires the HTTP handlers, middleware and routes.
package api

import (
	"net/http"
	"strings"

	"mortality-valuation/internal/api/handlers"
	"mortality-valuation/internal/api/middleware"
	"mortality-valuation/internal/config"
	"mortality-valuation/internal/data"
	"mortality-valuation/internal/metrics"
	"mortality-valuation/internal/pipeline"
	"mortality-valuation/internal/store"
	"mortality-valuation/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the router hands to its handlers.
type Deps struct {
	Log         logger.Logger
	Metrics     *metrics.Manager
	Store       store.Store
	Loader      *data.Loader
	DataPath    string
	Defaults    config.Config
	CORSOrigins []string
}

// NewRouter builds the gin engine serving the API.
func NewRouter(d Deps) *gin.Engine {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler(log.Named("http")))
	router.Use(middleware.CORS(d.CORSOrigins))
	router.Use(middleware.Logger(log.Named("http")))
	if d.Metrics != nil {
		router.Use(middleware.Metrics(d.Metrics))
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	tables := &handlers.Tables{Loader: d.Loader, DataPath: d.DataPath}
	runner := &pipeline.Runner{Log: log.Named("pipeline"), Metrics: d.Metrics}
	valuationHandler := handlers.NewValuationHandler(runner, d.Store, tables, d.Defaults, log)
	lifeTableHandler := handlers.NewLifeTableHandler(tables, d.Defaults.Beta)
	countryHandler := handlers.NewCountryHandler(d.DataPath)

	router.GET("/health", handlers.Health)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/valuation", valuationHandler.RunValuation)
		v1.GET("/valuation/:id", valuationHandler.GetValuation)
		v1.GET("/valuation/:id/grid", valuationHandler.GetGrid)
		v1.GET("/runs", valuationHandler.ListRuns)

		v1.GET("/lifetable", lifeTableHandler.GetLifeTable)
		v1.GET("/countries", countryHandler.ListCountries)
	}

	router.NoRoute(func(c *gin.Context) {
		code := "NOT_FOUND"
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			code = "UNKNOWN_ENDPOINT"
		}
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": code, "message": "Not found"}})
	})

	return router
}
