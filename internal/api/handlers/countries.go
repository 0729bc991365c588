package handlers

import (
	"net/http"
	"sync"

	"mortality-valuation/internal/api/models"
	"mortality-valuation/internal/data"

	"github.com/gin-gonic/gin"
)

// CountryHandler lists the populations in the configured life-table file.
// The file is scanned once; later requests reuse the result.
type CountryHandler struct {
	dataPath string

	mu        sync.Mutex
	countries []data.Country
}

// NewCountryHandler creates a country handler for dataPath.
func NewCountryHandler(dataPath string) *CountryHandler {
	return &CountryHandler{dataPath: dataPath}
}

// ListCountries handles GET /api/v1/countries
func (h *CountryHandler) ListCountries(c *gin.Context) {
	countries, err := h.load()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CountriesResponse{Countries: countries, Count: len(countries)})
}

func (h *CountryHandler) load() ([]data.Country, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.countries != nil {
		return h.countries, nil
	}
	countries, err := data.ListCountries(h.dataPath)
	if err != nil {
		return nil, err
	}
	if countries == nil {
		countries = []data.Country{}
	}
	h.countries = countries
	return countries, nil
}
