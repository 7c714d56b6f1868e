// Command render-sample-report renders a demo clinician report PDF from
// simulated wearable data, without touching the generation service. Useful
// for checking report layout changes locally.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/stridecare/backend/internal/archive"
	"github.com/stridecare/backend/internal/pdf"
	"github.com/stridecare/backend/internal/service"
	"github.com/stridecare/backend/internal/wearable"
	"go.uber.org/zap"
)

// staticGenerator stands in for the generation service so the tool works
// offline
type staticGenerator struct{}

func (staticGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "Sample narrative. Metrics and adherence look steady this week; keep up the daily walks.", nil
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()
	loc := time.Local

	scheduler := service.NewMedicationScheduler(time.Now, loc, logger)
	aggregator := service.NewMetricAggregator(loc, logger)
	provider := wearable.NewSimulatedProvider(42, loc, logger)
	metrics := service.NewMetricsService(provider, aggregator, time.Now, logger)
	reports := service.NewReportService(
		scheduler,
		metrics,
		staticGenerator{},
		pdf.NewPDFGenerator(logger),
		archive.NewMemoryArchive(logger),
		time.Now,
		logger,
	)

	if _, err := scheduler.AddMedication("Levodopa", time.Date(2024, 1, 1, 8, 0, 0, 0, loc)); err != nil {
		logger.Fatal("failed to add sample medication", zap.Error(err))
	}
	if _, err := scheduler.AddMoodLog("calm - slept well", time.Now()); err != nil {
		logger.Fatal("failed to add sample mood log", zap.Error(err))
	}

	record, err := reports.GenerateReport(ctx, "Sample Patient", 7)
	if err != nil {
		logger.Fatal("failed to generate report", zap.Error(err))
	}

	pdfBytes, err := reports.GetReport(ctx, record.ID)
	if err != nil {
		logger.Fatal("failed to fetch report", zap.Error(err))
	}

	out := "sample-report.pdf"
	if err := os.WriteFile(out, pdfBytes, 0o644); err != nil {
		logger.Fatal("failed to write report file", zap.Error(err))
	}

	fmt.Printf("wrote %s (%d bytes)\n", out, len(pdfBytes))
}
