package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stridecare/backend/internal/service"
	"go.uber.org/zap"
)

// MedicationHandler implements medication, entry, and mood log endpoints
type MedicationHandler struct {
	scheduler *service.MedicationScheduler
	logger    *zap.Logger
}

// NewMedicationHandler creates a new MedicationHandler
func NewMedicationHandler(scheduler *service.MedicationScheduler, logger *zap.Logger) *MedicationHandler {
	return &MedicationHandler{
		scheduler: scheduler,
		logger:    logger,
	}
}

// CreateMedicationRequest is the body for adding a medication
type CreateMedicationRequest struct {
	Name          string    `json:"name"`
	ScheduledTime time.Time `json:"scheduled_time" binding:"required"`
}

// PostMedications adds a new medication and generates today's entries
func (h *MedicationHandler) PostMedications(c *gin.Context) {
	var req CreateMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	med, err := h.scheduler.AddMedication(req.Name, req.ScheduledTime)
	if err != nil {
		h.logger.Error("failed to add medication",
			zap.Error(err),
			zap.String("name", req.Name),
		)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, med)
}

// GetMedications lists all medications
func (h *MedicationHandler) GetMedications(c *gin.Context) {
	c.JSON(http.StatusOK, h.scheduler.Medications())
}

// DeleteMedication removes a medication and its entries. Deleting an
// unknown id succeeds, matching the scheduler's idempotent semantics.
func (h *MedicationHandler) DeleteMedication(c *gin.Context) {
	id := c.Param("id")
	h.scheduler.RemoveMedication(id)
	c.Status(http.StatusNoContent)
}

// GetTodayEntries refreshes and returns today's tracking entries. This is
// the screen-activation hook: every call regenerates idempotently.
func (h *MedicationHandler) GetTodayEntries(c *gin.Context) {
	h.scheduler.GenerateDailyEntries()
	c.JSON(http.StatusOK, h.scheduler.EntriesForToday())
}

// PostToggleEntry advances an entry's adherence state
func (h *MedicationHandler) PostToggleEntry(c *gin.Context) {
	id := c.Param("id")
	h.scheduler.ToggleEntryStatus(id)
	c.Status(http.StatusNoContent)
}

// CreateMoodLogRequest is the body for logging a mood
type CreateMoodLogRequest struct {
	Mood string    `json:"mood"`
	Date time.Time `json:"date" binding:"required"`
}

// PostMoodLogs appends a mood log
func (h *MedicationHandler) PostMoodLogs(c *gin.Context) {
	var req CreateMoodLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	log, err := h.scheduler.AddMoodLog(req.Mood, req.Date)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, log)
}

// GetMoodLogs lists all mood logs
func (h *MedicationHandler) GetMoodLogs(c *gin.Context) {
	c.JSON(http.StatusOK, h.scheduler.MoodLogs())
}

// DeleteMoodLog removes a mood log; unknown ids succeed
func (h *MedicationHandler) DeleteMoodLog(c *gin.Context) {
	id := c.Param("id")
	h.scheduler.RemoveMoodLog(id)
	c.Status(http.StatusNoContent)
}
