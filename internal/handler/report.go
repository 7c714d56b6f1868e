package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stridecare/backend/internal/service"
	"go.uber.org/zap"
)

// ReportHandler implements clinician report endpoints
type ReportHandler struct {
	reports *service.ReportService
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger,
	}
}

// GenerateReportRequest is the body for generating a report
type GenerateReportRequest struct {
	PatientName string `json:"patient_name"`
	Days        int    `json:"days"`
}

// PostGenerateReport builds a report and stores the rendered PDF
func (h *ReportHandler) PostGenerateReport(c *gin.Context) {
	var req GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	record, err := h.reports.GenerateReport(c.Request.Context(), req.PatientName, req.Days)
	if err != nil {
		h.logger.Error("failed to generate report",
			zap.Error(err),
			zap.String("patient_name", req.PatientName),
		)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// GetReports lists all generated report records
func (h *ReportHandler) GetReports(c *gin.Context) {
	c.JSON(http.StatusOK, h.reports.Reports())
}

// GetReport streams a generated report PDF
func (h *ReportHandler) GetReport(c *gin.Context) {
	id := c.Param("id")

	pdfBytes, err := h.reports.GetReport(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("failed to get report",
			zap.Error(err),
			zap.String("report_id", id),
		)
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=report-"+id+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
