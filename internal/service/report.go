package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stridecare/backend/internal/apperr"
	"github.com/stridecare/backend/internal/archive"
	"github.com/stridecare/backend/internal/pdf"
	"github.com/stridecare/backend/pkg/model"
	"go.uber.org/zap"
)

// ReportService assembles clinician reports from the current health
// picture, renders them to PDF, and keeps the rendered artifacts in the
// report archive. Report records themselves are in-memory only.
type ReportService struct {
	scheduler *MedicationScheduler
	metrics   *MetricsService
	generator TextGenerator
	pdfGen    *pdf.PDFGenerator
	archive   archive.Archive
	now       func() time.Time
	logger    *zap.Logger

	mu      sync.Mutex
	records map[string]model.ReportRecord
}

// NewReportService creates a new ReportService
func NewReportService(
	scheduler *MedicationScheduler,
	metrics *MetricsService,
	generator TextGenerator,
	pdfGen *pdf.PDFGenerator,
	arch archive.Archive,
	now func() time.Time,
	logger *zap.Logger,
) *ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportService{
		scheduler: scheduler,
		metrics:   metrics,
		generator: generator,
		pdfGen:    pdfGen,
		archive:   arch,
		now:       now,
		logger:    logger,
		records:   make(map[string]model.ReportRecord),
	}
}

// GenerateReport builds a report over the last `days`, renders it, and
// stores the PDF in the archive. A failed narrative generation degrades to
// the plain data summary; a failed metric refresh fails the report.
func (s *ReportService) GenerateReport(ctx context.Context, patientName string, days int) (*model.ReportRecord, error) {
	if patientName == "" {
		return nil, apperr.InvalidInput("patient name is required")
	}
	days = normalizeDays(days)

	s.logger.Info("generating health report",
		zap.String("patient_name", patientName),
		zap.Int("days", days),
	)

	series, err := s.metrics.AllSeries(ctx, days)
	if err != nil {
		s.logger.Error("failed to refresh metrics for report",
			zap.Error(err),
		)
		return nil, err
	}

	s.scheduler.GenerateDailyEntries()
	medications := s.scheduler.Medications()
	entries := s.scheduler.EntriesForToday()
	moods := s.scheduler.MoodLogs()

	summary := BuildHealthSummary(series, entries, moods)
	narrative, err := s.generator.Generate(ctx, summary)
	if err != nil {
		s.logger.Warn("narrative generation failed, using data summary",
			zap.Error(err),
		)
		narrative = summary
	}

	sections := make([]pdf.MetricSection, 0, len(series))
	for _, sr := range series {
		sections = append(sections, pdf.MetricSection{
			Metric: sr.Metric,
			Unit:   sr.Unit,
			Points: sr.Points,
			Trend:  sr.Trend,
		})
	}

	end := s.now()
	start := end.AddDate(0, 0, -(days - 1))
	dateRange := fmt.Sprintf("%s to %s", start.Format("2006-01-02"), end.Format("2006-01-02"))

	pdfBytes, err := s.pdfGen.Generate(&pdf.ReportData{
		PatientName: patientName,
		DateRange:   dateRange,
		GeneratedAt: end,
		Medications: medications,
		Entries:     entries,
		MoodLogs:    moods,
		Metrics:     sections,
		Narrative:   narrative,
	})
	if err != nil {
		s.logger.Error("failed to render report PDF",
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to render report PDF: %w", err)
	}

	reportID := uuid.New().String()
	filename := fmt.Sprintf("%s_%s.pdf", reportID, end.Format("20060102"))
	path, err := s.archive.UploadPDF(ctx, filename, pdfBytes)
	if err != nil {
		s.logger.Error("failed to store report PDF",
			zap.Error(err),
			zap.String("report_id", reportID),
		)
		return nil, fmt.Errorf("failed to store report PDF: %w", err)
	}

	record := model.ReportRecord{
		ID:             reportID,
		DateRangeStart: start,
		DateRangeEnd:   end,
		Path:           path,
		GeneratedAt:    end,
	}

	s.mu.Lock()
	s.records[reportID] = record
	s.mu.Unlock()

	s.logger.Info("health report generated",
		zap.String("report_id", reportID),
		zap.String("path", path),
	)

	return &record, nil
}

// GetReport retrieves the rendered PDF for download
func (s *ReportService) GetReport(ctx context.Context, reportID string) ([]byte, error) {
	s.mu.Lock()
	record, ok := s.records[reportID]
	s.mu.Unlock()

	if !ok {
		return nil, apperr.NotFound("report not found")
	}

	pdfBytes, err := s.archive.DownloadPDF(ctx, record.Path)
	if err != nil {
		s.logger.Error("failed to fetch report PDF",
			zap.Error(err),
			zap.String("report_id", reportID),
		)
		return nil, err
	}

	return pdfBytes, nil
}

// Reports returns a snapshot of all report records
func (s *ReportService) Reports() []model.ReportRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.ReportRecord, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, record)
	}
	return out
}
