package integration_tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stridecare/backend/internal/archive"
	"github.com/stridecare/backend/internal/handler"
	"github.com/stridecare/backend/internal/pdf"
	"github.com/stridecare/backend/internal/service"
	"github.com/stridecare/backend/internal/wearable"
	"github.com/stridecare/backend/pkg/model"
	"go.uber.org/zap"
)

// stubGenerator replaces the generation service so flows run offline
type stubGenerator struct {
	text string
	err  error
}

func (g stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

// testEnv wires the full stack onto a test router with a controllable clock
type testEnv struct {
	router *gin.Engine
	clock  *time.Time
}

func setupTestEnv(t *testing.T, generator service.TextGenerator) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	current := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	now := func() time.Time { return current }

	provider := wearable.NewSimulatedProvider(1, time.UTC, logger)
	scheduler := service.NewMedicationScheduler(now, time.UTC, logger)
	aggregator := service.NewMetricAggregator(time.UTC, logger)
	metrics := service.NewMetricsService(provider, aggregator, now, logger)
	coach := service.NewCoachService(scheduler, metrics, generator, logger)
	reports := service.NewReportService(scheduler, metrics, generator, pdf.NewPDFGenerator(logger), archive.NewMemoryArchive(logger), now, logger)

	medicationHandler := handler.NewMedicationHandler(scheduler, logger)
	metricsHandler := handler.NewMetricsHandler(metrics, logger)
	coachHandler := handler.NewCoachHandler(coach, logger)
	reportHandler := handler.NewReportHandler(reports, logger)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.POST("/medications", medicationHandler.PostMedications)
	v1.GET("/medications", medicationHandler.GetMedications)
	v1.DELETE("/medications/:id", medicationHandler.DeleteMedication)
	v1.GET("/entries/today", medicationHandler.GetTodayEntries)
	v1.POST("/entries/:id/toggle", medicationHandler.PostToggleEntry)
	v1.POST("/moods", medicationHandler.PostMoodLogs)
	v1.GET("/moods", medicationHandler.GetMoodLogs)
	v1.DELETE("/moods/:id", medicationHandler.DeleteMoodLog)
	v1.GET("/metrics", metricsHandler.GetAllMetricSeries)
	v1.GET("/metrics/:kind", metricsHandler.GetMetricSeries)
	v1.GET("/coach", coachHandler.GetCoaching)
	v1.POST("/reports/generate", reportHandler.PostGenerateReport)
	v1.GET("/reports", reportHandler.GetReports)
	v1.GET("/reports/:id", reportHandler.GetReport)

	return &testEnv{router: router, clock: &current}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func TestMedicationManagementFlow(t *testing.T) {
	env := setupTestEnv(t, stubGenerator{text: "ok"})

	// Step 1: Add a medication.
	resp := env.do(t, http.MethodPost, "/api/v1/medications", map[string]any{
		"name":           "Levodopa",
		"scheduled_time": "2024-03-01T08:30:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var med model.Medication
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &med))
	require.NotEmpty(t, med.ID)
	assert.True(t, med.Active)

	// Step 2: Today's entries contain one pending entry for it.
	resp = env.do(t, http.MethodGet, "/api/v1/entries/today", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var entries []model.MedicationEntry
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, med.ID, entries[0].MedicationID)
	assert.Equal(t, model.EntryStatusPending, entries[0].Status)

	// Step 3: Toggle to taken, then to missed.
	resp = env.do(t, http.MethodPost, "/api/v1/entries/"+entries[0].ID+"/toggle", nil)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = env.do(t, http.MethodGet, "/api/v1/entries/today", nil)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, model.EntryStatusTaken, entries[0].Status)

	resp = env.do(t, http.MethodPost, "/api/v1/entries/"+entries[0].ID+"/toggle", nil)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = env.do(t, http.MethodGet, "/api/v1/entries/today", nil)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &entries))
	assert.Equal(t, model.EntryStatusMissed, entries[0].Status)

	// Step 4: Roll over to the next day; the entry resets to pending.
	*env.clock = env.clock.AddDate(0, 0, 1)

	resp = env.do(t, http.MethodGet, "/api/v1/entries/today", nil)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, model.EntryStatusPending, entries[0].Status)

	// Step 5: Delete the medication; entries disappear with it.
	resp = env.do(t, http.MethodDelete, "/api/v1/medications/"+med.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = env.do(t, http.MethodGet, "/api/v1/medications", nil)
	var meds []model.Medication
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &meds))
	assert.Empty(t, meds)

	resp = env.do(t, http.MethodGet, "/api/v1/entries/today", nil)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &entries))
	assert.Empty(t, entries)
}

func TestMedicationValidationErrors(t *testing.T) {
	env := setupTestEnv(t, stubGenerator{text: "ok"})

	// Missing scheduled_time fails binding.
	resp := env.do(t, http.MethodPost, "/api/v1/medications", map[string]any{
		"name": "Levodopa",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Empty name is rejected by the scheduler.
	resp = env.do(t, http.MethodPost, "/api/v1/medications", map[string]any{
		"name":           "",
		"scheduled_time": "2024-03-01T08:30:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var body handler.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
}

func TestMoodLogFlow(t *testing.T) {
	env := setupTestEnv(t, stubGenerator{text: "ok"})

	resp := env.do(t, http.MethodPost, "/api/v1/moods", map[string]any{
		"mood": "calm",
		"date": "2024-03-10T07:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var log model.MoodLog
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &log))
	require.NotEmpty(t, log.ID)

	resp = env.do(t, http.MethodGet, "/api/v1/moods", nil)
	var logs []model.MoodLog
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, "calm", logs[0].Mood)

	resp = env.do(t, http.MethodDelete, "/api/v1/moods/"+log.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = env.do(t, http.MethodGet, "/api/v1/moods", nil)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &logs))
	assert.Empty(t, logs)
}
