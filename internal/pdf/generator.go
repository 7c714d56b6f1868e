package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/stridecare/backend/pkg/model"
	"go.uber.org/zap"
)

// PDFGenerator renders clinician-facing health reports
type PDFGenerator struct {
	logger *zap.Logger
}

// NewPDFGenerator creates a new PDFGenerator
func NewPDFGenerator(logger *zap.Logger) *PDFGenerator {
	return &PDFGenerator{
		logger: logger,
	}
}

// MetricSection is one metric's daily series as rendered in the report
type MetricSection struct {
	Metric model.MetricKind
	Unit   string
	Points []model.HealthDataPoint
	Trend  model.Trend
}

// ReportData contains all data needed for report generation
type ReportData struct {
	PatientName string
	DateRange   string
	GeneratedAt time.Time
	Medications []model.Medication
	Entries     []model.MedicationEntry
	MoodLogs    []model.MoodLog
	Metrics     []MetricSection
	Narrative   string
}

// Generate creates a PDF report from the provided data
func (g *PDFGenerator) Generate(data *ReportData) ([]byte, error) {
	g.logger.Info("generating PDF report",
		zap.String("patient_name", data.PatientName),
		zap.String("date_range", data.DateRange),
	)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetCreationDate(data.GeneratedAt)
	pdf.AddPage()

	g.addTitle(pdf, "Movement Health Report", data.PatientName, data.DateRange, data.GeneratedAt)
	g.addMetricTrends(pdf, data.Metrics)
	g.addMedicationList(pdf, data.Medications)
	g.addAdherence(pdf, data.Entries)
	g.addMoodLogs(pdf, data.MoodLogs)
	g.addNarrative(pdf, data.Narrative)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		g.logger.Error("failed to generate PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	g.logger.Info("PDF report generated successfully",
		zap.Int("size_bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

// addTitle adds the report title and header information
func (g *PDFGenerator) addTitle(pdf *gofpdf.Fpdf, title, patientName, dateRange string, generatedAt time.Time) {
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Patient: %s", patientName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Period: %s", dateRange), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated: %s", generatedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(10)
}

// addSectionHeader adds a section header
func (g *PDFGenerator) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
	pdf.SetFont("Arial", "", 10)
}

// addMetricTrends adds the per-metric daily series and trend labels
func (g *PDFGenerator) addMetricTrends(pdf *gofpdf.Fpdf, sections []MetricSection) {
	g.addSectionHeader(pdf, "Wearable Metric Trends")

	if len(sections) == 0 {
		pdf.CellFormat(0, 8, "No wearable data recorded during this period.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, section := range sections {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("%s (%s) - %s", section.Metric, section.Unit, section.Trend), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)

		if len(section.Points) == 0 {
			pdf.CellFormat(0, 5, "  No data for this metric.", "", 1, "L", false, 0, "")
			pdf.Ln(2)
			continue
		}
		for _, point := range section.Points {
			pdf.CellFormat(0, 5, fmt.Sprintf("  %s: %.2f %s",
				point.Date.Format("2006-01-02"), point.Value, section.Unit), "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
	}
	pdf.Ln(5)
}

// addMedicationList adds the medication list section
func (g *PDFGenerator) addMedicationList(pdf *gofpdf.Fpdf, medications []model.Medication) {
	g.addSectionHeader(pdf, "Medication List")

	if len(medications) == 0 {
		pdf.CellFormat(0, 8, "No medications recorded.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, med := range medications {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, med.Name, "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 5, fmt.Sprintf("  Scheduled at: %s", med.ScheduledTime.Format("15:04")), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("  Added: %s", med.CreatedAt.Format("2006-01-02")), "", 1, "L", false, 0, "")
		pdf.Ln(3)
	}
	pdf.Ln(5)
}

// addAdherence adds today's adherence entries
func (g *PDFGenerator) addAdherence(pdf *gofpdf.Fpdf, entries []model.MedicationEntry) {
	g.addSectionHeader(pdf, "Medication Adherence")

	if len(entries) == 0 {
		pdf.CellFormat(0, 8, "No adherence data recorded.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	counts := make(map[model.EntryStatus]int)
	for _, entry := range entries {
		counts[entry.Status]++
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Taken: %d, Missed: %d, Pending: %d",
		counts[model.EntryStatusTaken], counts[model.EntryStatusMissed], counts[model.EntryStatusPending]), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	for _, entry := range entries {
		pdf.CellFormat(0, 5, fmt.Sprintf("  %s at %s: %s",
			entry.MedicationName, entry.ScheduledDateTime.Format("15:04"), entry.Status), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

// addMoodLogs adds the mood log section
func (g *PDFGenerator) addMoodLogs(pdf *gofpdf.Fpdf, moods []model.MoodLog) {
	g.addSectionHeader(pdf, "Mood Logs")

	if len(moods) == 0 {
		pdf.CellFormat(0, 8, "No mood entries recorded.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, mood := range moods {
		dateStr := mood.Date.Format("2006-01-02 15:04")
		pdf.CellFormat(0, 5, fmt.Sprintf("  %s: %s", dateStr, mood.Mood), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

// addNarrative adds the AI-generated summary section
func (g *PDFGenerator) addNarrative(pdf *gofpdf.Fpdf, narrative string) {
	g.addSectionHeader(pdf, "Summary")

	if narrative == "" {
		pdf.CellFormat(0, 8, "No summary available.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	pdf.MultiCell(0, 5, narrative, "", "L", false)
	pdf.Ln(5)
}
