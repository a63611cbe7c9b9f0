package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopsense/backend/internal/domain"
)

// RecommendEngine is the slice of the recommendation service the handlers
// consume.
type RecommendEngine interface {
	Search(ctx context.Context, request *domain.SearchRequest) (*domain.SearchResult, error)
	FilterOptions(category string) *domain.FilterOptions
	Reload(ctx context.Context) error
	CatalogSize() int
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	engine                RecommendEngine
	accessoryDisplayLimit int
}

// NewHandler creates a new HTTP handler. accessoryDisplayLimit truncates the
// accessory list for display; the engine itself always gathers up to its own
// result cap.
func NewHandler(engine RecommendEngine, accessoryDisplayLimit int) *Handler {
	return &Handler{
		engine:                engine,
		accessoryDisplayLimit: accessoryDisplayLimit,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	status := gin.H{
		"status":  "healthy",
		"service": "shopsense-backend",
		"version": "1.0.0",
	}
	if h.engine != nil {
		status["catalogSize"] = h.engine.CatalogSize()
	}
	c.JSON(http.StatusOK, status)
}

// SearchRecommendations handles recommendation search requests
func (h *Handler) SearchRecommendations(c *gin.Context) {
	var request domain.SearchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := h.engine.Search(c.Request.Context(), &request)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	// The accessory list gets a tighter display cap than the selector cap.
	if len(result.Accessories) > h.accessoryDisplayLimit {
		result.Accessories = result.Accessories[:h.accessoryDisplayLimit]
	}

	c.JSON(http.StatusOK, result)
}

// GetFilterOptions returns catalog-derived filter metadata for UI controls.
// An optional ?category= query parameter restricts the accessory brand list
// to one accessory category.
func (h *Handler) GetFilterOptions(c *gin.Context) {
	options := h.engine.FilterOptions(c.Query("category"))
	c.JSON(http.StatusOK, options)
}

// ReloadCatalog rebuilds the engine from the catalog source and swaps it in
// atomically. On failure the previous catalog snapshot stays active.
func (h *Handler) ReloadCatalog(c *gin.Context) {
	if err := h.engine.Reload(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog reload failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "reloaded",
		"catalogSize": h.engine.CatalogSize(),
	})
}
