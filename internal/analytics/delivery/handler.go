package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"planora-backend/internal/analytics/domain"
	"planora-backend/internal/analytics/usecase"

	"github.com/gin-gonic/gin"
)

// MetricsHandler handles analytics HTTP requests
type MetricsHandler struct {
	metricsUsecase usecase.MetricsUsecase
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(metricsUsecase usecase.MetricsUsecase) *MetricsHandler {
	return &MetricsHandler{
		metricsUsecase: metricsUsecase,
	}
}

// GetMetrics handles GET /api/analytics/metrics?days=7
func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	userID := c.GetString("userID")

	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer"})
		return
	}

	metrics, err := h.metricsUsecase.Fetch(userID, days)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPeriod) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute metrics"})
		return
	}

	c.JSON(http.StatusOK, metrics)
}
