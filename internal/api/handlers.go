// Package api exposes the stored country records over HTTP.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PetruGlt/StatesOfTheWorld/internal/logging"
	"github.com/PetruGlt/StatesOfTheWorld/internal/scrape"
	"github.com/PetruGlt/StatesOfTheWorld/internal/store"
)

const defaultTopLimit = 10

// Handlers serves the query API over the store.
type Handlers struct {
	store  *store.Store
	logger *logging.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(s *store.Store, logger *logging.Logger) *Handlers {
	return &Handlers{store: s, logger: logger}
}

// Root returns a welcome message.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the States of the World API"})
}

// Health returns service health.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// ListCountries returns every stored record.
func (h *Handlers) ListCountries(c *gin.Context) {
	records, err := h.store.All()
	if err != nil {
		h.fail(c, "list countries", err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetCountry returns one record by exact name, 404 when absent.
func (h *Handlers) GetCountry(c *gin.Context) {
	name := c.Param("name")

	rec, err := h.store.ByName(name)
	if err != nil {
		h.fail(c, "get country", err)
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Country not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// SearchCountries filters records by language, neighbor, and name fragment.
func (h *Handlers) SearchCountries(c *gin.Context) {
	filter := store.SearchFilter{
		Language: c.Query("language"),
		Neighbor: c.Query("neighbor"),
		Name:     c.Query("name"),
	}

	records, err := h.store.Search(filter)
	if err != nil {
		h.fail(c, "search countries", err)
		return
	}
	if records == nil {
		records = []scrape.CountryRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// TopPopulation returns the most populated countries.
func (h *Handlers) TopPopulation(c *gin.Context) {
	h.ranking(c, h.store.TopByPopulation)
}

// TopDensity returns the densest countries.
func (h *Handlers) TopDensity(c *gin.Context) {
	h.ranking(c, h.store.TopByDensity)
}

// GetStats returns whole-table aggregates.
func (h *Handlers) GetStats(c *gin.Context) {
	stats, err := h.store.Stats()
	if err != nil {
		h.fail(c, "stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handlers) ranking(c *gin.Context, top func(int) ([]store.CountrySummary, error)) {
	limit := defaultTopLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	summaries, err := top(limit)
	if err != nil {
		h.fail(c, "ranking", err)
		return
	}
	if summaries == nil {
		summaries = []store.CountrySummary{}
	}
	c.JSON(http.StatusOK, summaries)
}

func (h *Handlers) fail(c *gin.Context, op string, err error) {
	h.logger.Error("Query failed", zap.String("op", op), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
