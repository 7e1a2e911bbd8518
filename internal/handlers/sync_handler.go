package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"catalog-sync-service/internal/repository"
	"catalog-sync-service/internal/services"
)

// SyncHandler handles sync trigger and run audit endpoints
type SyncHandler struct {
	service  *services.SyncService
	syncRepo *repository.SyncRepository
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(service *services.SyncService, syncRepo *repository.SyncRepository) *SyncHandler {
	return &SyncHandler{
		service:  service,
		syncRepo: syncRepo,
	}
}

// TriggerSync starts a synchronous sync run for a site
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	siteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid site id"})
		return
	}

	opts := services.SyncOptions{
		SyncImages:     true,
		SyncCategories: true,
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&opts); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	run, err := h.service.RunSync(c.Request.Context(), siteID, opts)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSiteNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "site not found"})
		case errors.Is(err, services.ErrSyncInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"results": gin.H{
			"categories": run.CategoriesSynced,
			"products":   run.ProductsSynced,
			"images":     run.ImagesUploaded,
			"variations": run.VariationsSynced,
		},
		"syncLogId": run.ID,
	})
}

// ListRuns returns sync runs, optionally filtered by site, status and type
func (h *SyncHandler) ListRuns(c *gin.Context) {
	opts := repository.RunListOptions{
		Status: c.Query("status"),
		Type:   c.Query("type"),
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if siteID := c.Query("siteId"); siteID != "" {
		id, err := uuid.Parse(siteID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid siteId"})
			return
		}
		opts.SiteID = id
	}

	runs, total, err := h.syncRepo.ListRuns(c.Request.Context(), opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  runs,
		"total": total,
	})
}

// GetRun returns a single sync run with its site
func (h *SyncHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	run, err := h.syncRepo.GetRunByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": run})
}

// GetRunLogs returns the log entries of one sync run
func (h *SyncHandler) GetRunLogs(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	opts := repository.LogListOptions{
		Level:  c.Query("level"),
		Limit:  parseIntQuery(c, "limit", 100),
		Offset: parseIntQuery(c, "offset", 0),
	}

	logs, err := h.syncRepo.GetRunLogs(c.Request.Context(), id, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": logs})
}

// GetStats returns aggregate run statistics for a site
func (h *SyncHandler) GetStats(c *gin.Context) {
	siteID, err := uuid.Parse(c.Query("siteId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "siteId is required"})
		return
	}

	stats, err := h.syncRepo.GetSyncStats(c.Request.Context(), siteID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}

func parseIntQuery(c *gin.Context, key string, defaultValue int) int {
	value := c.Query(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}
