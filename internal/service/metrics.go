package service

import (
	"context"
	"time"

	"github.com/stridecare/backend/internal/apperr"
	"github.com/stridecare/backend/internal/wearable"
	"github.com/stridecare/backend/pkg/model"
	"go.uber.org/zap"
)

// MetricSeries is the aggregated daily view of one metric over a range
type MetricSeries struct {
	Metric model.MetricKind        `json:"metric"`
	Unit   string                  `json:"unit"`
	Points []model.HealthDataPoint `json:"points"`
	Trend  model.Trend             `json:"trend"`
}

// MetricsService glues the wearable data source to the aggregator. It is
// stateless between refreshes: every call fetches the full range and its
// output fully replaces whatever the caller held before.
type MetricsService struct {
	provider   wearable.Provider
	aggregator *MetricAggregator
	now        func() time.Time
	logger     *zap.Logger
}

// NewMetricsService creates a new MetricsService
func NewMetricsService(provider wearable.Provider, aggregator *MetricAggregator, now func() time.Time, logger *zap.Logger) *MetricsService {
	if now == nil {
		now = time.Now
	}
	return &MetricsService{
		provider:   provider,
		aggregator: aggregator,
		now:        now,
		logger:     logger,
	}
}

// normalizeDays clamps the requested window to the supported ranges
func normalizeDays(days int) int {
	if days != 7 && days != 30 && days != 90 {
		return 7
	}
	return days
}

// DailySeries fetches the last `days` of samples for the metric, aggregates
// them per calendar day, and classifies the trend. The authorization gate is
// re-checked on every refresh; a denied grant surfaces typed, it is never a
// crash. An empty sample range yields an empty, Stable series.
func (s *MetricsService) DailySeries(ctx context.Context, metric model.MetricKind, days int) (*MetricSeries, error) {
	if !metric.IsValid() {
		return nil, apperr.InvalidInput("unknown metric kind")
	}
	days = normalizeDays(days)

	status, err := s.provider.RequestAuthorization(ctx)
	if err != nil {
		s.logger.Error("wearable authorization request failed",
			zap.Error(err),
			zap.String("metric", string(metric)),
		)
		return nil, apperr.Unavailable(err, "wearable authorization request failed")
	}
	switch status {
	case wearable.AuthorizationDenied:
		return nil, apperr.AuthorizationDenied("wearable access denied")
	case wearable.AuthorizationUnavailable:
		return nil, apperr.Unavailable(nil, "wearable data source unavailable")
	}

	end := s.now()
	start := end.AddDate(0, 0, -(days - 1))

	var points []model.HealthDataPoint
	if metric.IsSleepMetric() {
		samples, err := s.provider.SleepSamples(ctx, start, end)
		if err != nil {
			s.logger.Error("failed to fetch sleep samples",
				zap.Error(err),
				zap.String("metric", string(metric)),
			)
			return nil, err
		}
		points = s.aggregator.AggregateSleepByDay(samples, metric, start, end)
	} else {
		samples, err := s.provider.QuantitySamples(ctx, metric, start, end)
		if err != nil {
			s.logger.Error("failed to fetch quantity samples",
				zap.Error(err),
				zap.String("metric", string(metric)),
			)
			return nil, err
		}
		points = s.aggregator.AggregateByDay(samples, metric)
	}

	series := &MetricSeries{
		Metric: metric,
		Unit:   metric.Unit(),
		Points: points,
		Trend:  s.aggregator.ClassifyTrend(points, metric),
	}

	s.logger.Info("metric series refreshed",
		zap.String("metric", string(metric)),
		zap.Int("days", days),
		zap.Int("points", len(series.Points)),
		zap.String("trend", string(series.Trend)),
	)

	return series, nil
}

// AllSeries refreshes every tracked metric over the same window. Fails on
// the first collaborator error so callers never apply a partial refresh.
func (s *MetricsService) AllSeries(ctx context.Context, days int) ([]MetricSeries, error) {
	out := make([]MetricSeries, 0, len(model.AllMetricKinds))
	for _, metric := range model.AllMetricKinds {
		series, err := s.DailySeries(ctx, metric, days)
		if err != nil {
			return nil, err
		}
		out = append(out, *series)
	}
	return out, nil
}
