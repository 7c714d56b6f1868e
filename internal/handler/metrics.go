package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stridecare/backend/internal/service"
	"github.com/stridecare/backend/pkg/model"
	"go.uber.org/zap"
)

// MetricsHandler implements wearable metric endpoints
type MetricsHandler struct {
	metrics *service.MetricsService
	logger  *zap.Logger
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(metrics *service.MetricsService, logger *zap.Logger) *MetricsHandler {
	return &MetricsHandler{
		metrics: metrics,
		logger:  logger,
	}
}

// daysParam parses the optional ?days= query, defaulting to 7
func daysParam(c *gin.Context) int {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil {
		return 7
	}
	return days
}

// GetMetricSeries returns the aggregated daily series and trend for one metric
func (h *MetricsHandler) GetMetricSeries(c *gin.Context) {
	metric := model.MetricKind(c.Param("kind"))

	series, err := h.metrics.DailySeries(c.Request.Context(), metric, daysParam(c))
	if err != nil {
		h.logger.Error("failed to get metric series",
			zap.Error(err),
			zap.String("metric", string(metric)),
		)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, series)
}

// GetAllMetricSeries returns every tracked metric over the same window
func (h *MetricsHandler) GetAllMetricSeries(c *gin.Context) {
	series, err := h.metrics.AllSeries(c.Request.Context(), daysParam(c))
	if err != nil {
		h.logger.Error("failed to get metric series",
			zap.Error(err),
		)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, series)
}
