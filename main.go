package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stridecare/backend/internal/ai"
	"github.com/stridecare/backend/internal/archive"
	"github.com/stridecare/backend/internal/config"
	"github.com/stridecare/backend/internal/handler"
	"github.com/stridecare/backend/internal/middleware"
	"github.com/stridecare/backend/internal/pdf"
	"github.com/stridecare/backend/internal/service"
	"github.com/stridecare/backend/internal/wearable"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize Zap logger
	var logger *zap.Logger
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	// The core state is in-memory and single-instance; everything below is
	// constructed once and injected, never reached through a global.
	loc := time.Local

	generator, err := ai.NewOpenAIClient(
		cfg.OpenAI.APIKey,
		cfg.OpenAI.BaseURL,
		cfg.OpenAI.Model,
		cfg.OpenAI.RequestTimeout,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to initialize generation client", zap.Error(err))
	}

	var reportArchive archive.Archive
	if cfg.Archive.UseBlobStorage() {
		blobArchive, err := archive.NewBlobArchive(
			cfg.Archive.AccountName,
			cfg.Archive.AccountKey,
			cfg.Archive.ReportContainer,
			logger,
		)
		if err != nil {
			logger.Fatal("Failed to initialize blob archive", zap.Error(err))
		}
		reportArchive = blobArchive
		logger.Info("Using Azure Blob Storage report archive",
			zap.String("container", cfg.Archive.ReportContainer),
		)
	} else {
		reportArchive = archive.NewMemoryArchive(logger)
		logger.Info("Using in-memory report archive")
	}

	provider := wearable.NewSimulatedProvider(cfg.Wearable.SimulatorSeed, loc, logger)

	// Initialize services
	scheduler := service.NewMedicationScheduler(time.Now, loc, logger)
	aggregator := service.NewMetricAggregator(loc, logger)
	metricsService := service.NewMetricsService(provider, aggregator, time.Now, logger)
	coachService := service.NewCoachService(scheduler, metricsService, generator, logger)
	pdfGenerator := pdf.NewPDFGenerator(logger)
	reportService := service.NewReportService(scheduler, metricsService, generator, pdfGenerator, reportArchive, time.Now, logger)

	// Initialize handlers
	medicationHandler := handler.NewMedicationHandler(scheduler, logger)
	metricsHandler := handler.NewMetricsHandler(metricsService, logger)
	coachHandler := handler.NewCoachHandler(coachService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Recovery middleware must be first
	r.Use(middleware.RecoveryMiddleware(logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RequestLoggingMiddleware(logger))

	registerRoutes(r, medicationHandler, metricsHandler, coachHandler, reportHandler)

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// registerRoutes wires every endpoint onto the router
func registerRoutes(
	r *gin.Engine,
	medication *handler.MedicationHandler,
	metrics *handler.MetricsHandler,
	coach *handler.CoachHandler,
	report *handler.ReportHandler,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "stridecare-backend",
			"version": "1.0.0",
		})
	})

	v1 := r.Group("/api/v1")

	v1.POST("/medications", medication.PostMedications)
	v1.GET("/medications", medication.GetMedications)
	v1.DELETE("/medications/:id", medication.DeleteMedication)
	v1.GET("/entries/today", medication.GetTodayEntries)
	v1.POST("/entries/:id/toggle", medication.PostToggleEntry)
	v1.POST("/moods", medication.PostMoodLogs)
	v1.GET("/moods", medication.GetMoodLogs)
	v1.DELETE("/moods/:id", medication.DeleteMoodLog)

	v1.GET("/metrics", metrics.GetAllMetricSeries)
	v1.GET("/metrics/:kind", metrics.GetMetricSeries)

	v1.GET("/coach", coach.GetCoaching)

	v1.POST("/reports/generate", report.PostGenerateReport)
	v1.GET("/reports", report.GetReports)
	v1.GET("/reports/:id", report.GetReport)
}
