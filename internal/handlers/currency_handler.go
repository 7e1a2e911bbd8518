package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"catalog-sync-service/internal/repository"
)

// CurrencyHandler exposes the stored currency table
type CurrencyHandler struct {
	currencies *repository.CurrencyRepository
}

// NewCurrencyHandler creates a new currency handler
func NewCurrencyHandler(currencies *repository.CurrencyRepository) *CurrencyHandler {
	return &CurrencyHandler{currencies: currencies}
}

// List returns all known currencies with their exchange rates
func (h *CurrencyHandler) List(c *gin.Context) {
	currencies, err := h.currencies.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": currencies})
}

// Get returns one currency by code
func (h *CurrencyHandler) Get(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))

	currency, err := h.currencies.GetByCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrCurrencyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "currency not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": currency})
}
