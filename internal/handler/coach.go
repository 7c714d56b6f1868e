package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stridecare/backend/internal/service"
	"go.uber.org/zap"
)

// CoachHandler implements the coaching text endpoint
type CoachHandler struct {
	coach  *service.CoachService
	logger *zap.Logger
}

// NewCoachHandler creates a new CoachHandler
func NewCoachHandler(coach *service.CoachService, logger *zap.Logger) *CoachHandler {
	return &CoachHandler{
		coach:  coach,
		logger: logger,
	}
}

// CoachingResponse carries the generated coaching text
type CoachingResponse struct {
	Text string `json:"text"`
}

// GetCoaching generates coaching text from the current health picture
func (h *CoachHandler) GetCoaching(c *gin.Context) {
	text, err := h.coach.DailyCoaching(c.Request.Context(), daysParam(c))
	if err != nil {
		h.logger.Error("failed to generate coaching text",
			zap.Error(err),
		)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, CoachingResponse{Text: text})
}
