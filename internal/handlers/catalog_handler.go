package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-sync-service/internal/repository"
)

// CatalogHandler exposes read access to the imported catalog
type CatalogHandler struct {
	catalog *repository.CatalogRepository
	media   *repository.MediaRepository
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog *repository.CatalogRepository, media *repository.MediaRepository) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, media: media}
}

// ListCategories returns all imported categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  categories,
		"total": len(categories),
	})
}

// ListMedia returns stored media registry rows
func (h *CatalogHandler) ListMedia(c *gin.Context) {
	limit := parseIntQuery(c, "limit", 50)
	offset := parseIntQuery(c, "offset", 0)

	media, err := h.media.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": media})
}
