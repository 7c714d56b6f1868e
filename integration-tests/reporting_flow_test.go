package integration_tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stridecare/backend/internal/apperr"
	"github.com/stridecare/backend/internal/handler"
	"github.com/stridecare/backend/internal/service"
	"github.com/stridecare/backend/pkg/model"
)

func TestMetricSeriesEndpoints(t *testing.T) {
	env := setupTestEnv(t, stubGenerator{text: "ok"})

	// Single metric over the default window.
	resp := env.do(t, http.MethodGet, "/api/v1/metrics/heart_rate", nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var series service.MetricSeries
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &series))
	assert.Equal(t, model.MetricHeartRate, series.Metric)
	assert.Equal(t, "bpm", series.Unit)
	assert.NotEmpty(t, series.Points)
	assert.Contains(t, []model.Trend{model.TrendImproving, model.TrendStable, model.TrendWorsening}, series.Trend)

	// Unknown metric kind is rejected.
	resp = env.do(t, http.MethodGet, "/api/v1/metrics/blood_sugar", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// All metrics over an explicit window.
	resp = env.do(t, http.MethodGet, "/api/v1/metrics?days=30", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var all []service.MetricSeries
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &all))
	require.Len(t, all, len(model.AllMetricKinds))
	for i, metric := range model.AllMetricKinds {
		assert.Equal(t, metric, all[i].Metric)
	}
}

func TestCoachingEndpoint(t *testing.T) {
	env := setupTestEnv(t, stubGenerator{text: "Nice progress this week."})

	resp := env.do(t, http.MethodGet, "/api/v1/coach", nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body handler.CoachingResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "Nice progress this week.", body.Text)
}

func TestCoachingEndpoint_UpstreamFailure(t *testing.T) {
	env := setupTestEnv(t, stubGenerator{err: apperr.RequestFailed(503, "generation service down")})

	resp := env.do(t, http.MethodGet, "/api/v1/coach", nil)
	assert.Equal(t, http.StatusBadGateway, resp.Code)

	var body handler.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "UPSTREAM_ERROR", body.Code)
}

func TestReportGenerationFlow(t *testing.T) {
	env := setupTestEnv(t, stubGenerator{text: "Weekly summary for the clinician."})

	// Seed some tracked state so the report has content.
	resp := env.do(t, http.MethodPost, "/api/v1/medications", map[string]any{
		"name":           "Levodopa",
		"scheduled_time": "2024-03-01T08:30:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = env.do(t, http.MethodPost, "/api/v1/moods", map[string]any{
		"mood": "optimistic",
		"date": "2024-03-10T07:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	// Generate the report.
	resp = env.do(t, http.MethodPost, "/api/v1/reports/generate", map[string]any{
		"patient_name": "Jane Doe",
		"days":         7,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var record model.ReportRecord
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &record))
	require.NotEmpty(t, record.ID)
	assert.NotEmpty(t, record.Path)

	// The record is listed.
	resp = env.do(t, http.MethodGet, "/api/v1/reports", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var records []model.ReportRecord
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, record.ID, records[0].ID)

	// The rendered PDF downloads.
	resp = env.do(t, http.MethodGet, "/api/v1/reports/"+record.ID, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/pdf", resp.Header().Get("Content-Type"))
	require.Greater(t, resp.Body.Len(), 4)
	assert.Equal(t, "%PDF", resp.Body.String()[:4])
}

func TestReportGeneration_ValidationAndNotFound(t *testing.T) {
	env := setupTestEnv(t, stubGenerator{text: "ok"})

	resp := env.do(t, http.MethodPost, "/api/v1/reports/generate", map[string]any{
		"patient_name": "",
		"days":         7,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = env.do(t, http.MethodGet, "/api/v1/reports/no-such-report", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	var body handler.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.Code)
}
