package service

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/stridecare/backend/pkg/model"
	"go.uber.org/zap"
)

// MetricAggregator reduces raw wearable samples to at most one daily data
// point per metric and classifies short-term trends. It holds no state
// between calls; each aggregation fully replaces any prior output.
type MetricAggregator struct {
	loc    *time.Location
	logger *zap.Logger
}

// NewMetricAggregator creates an aggregator using the given location for
// calendar-day grouping. A nil location defaults to the local time zone.
func NewMetricAggregator(loc *time.Location, logger *zap.Logger) *MetricAggregator {
	if loc == nil {
		loc = time.Local
	}
	return &MetricAggregator{
		loc:    loc,
		logger: logger,
	}
}

func (a *MetricAggregator) startOfDay(t time.Time) time.Time {
	y, m, d := t.In(a.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, a.loc)
}

// AggregateByDay groups quantity samples by calendar day and reduces each
// day to the arithmetic mean of its values. Output is sorted ascending by
// date; empty input yields empty output.
func (a *MetricAggregator) AggregateByDay(samples []model.QuantitySample, metric model.MetricKind) []model.HealthDataPoint {
	if len(samples) == 0 {
		return nil
	}

	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)
	for _, sample := range samples {
		day := a.startOfDay(sample.Timestamp)
		sums[day] += sample.Value
		counts[day]++
	}

	points := make([]model.HealthDataPoint, 0, len(sums))
	for day, sum := range sums {
		points = append(points, model.HealthDataPoint{
			ID:     uuid.New().String(),
			Date:   day,
			Value:  sum / float64(counts[day]),
			Metric: metric,
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	a.logger.Debug("aggregated quantity samples",
		zap.String("metric", string(metric)),
		zap.Int("samples", len(samples)),
		zap.Int("days", len(points)),
	)

	return points
}

// AggregateSleepByDay sums interval-based sleep samples per calendar day,
// in hours. MetricSleepDuration counts every asleep stage; MetricREMSleep
// counts REM only. Days without qualifying samples are omitted, never
// zero-filled. The window's lower bound is the start of start's calendar
// day, so the first day's night (which begins shortly after midnight)
// counts the same way the first day's quantity samples do; samples
// starting after end are ignored.
func (a *MetricAggregator) AggregateSleepByDay(samples []model.SleepSample, metric model.MetricKind, start, end time.Time) []model.HealthDataPoint {
	if len(samples) == 0 {
		return nil
	}

	firstDay := a.startOfDay(start)
	hours := make(map[time.Time]float64)
	for _, sample := range samples {
		if sample.StartDate.Before(firstDay) || sample.StartDate.After(end) {
			continue
		}
		switch metric {
		case model.MetricREMSleep:
			if sample.Stage != model.SleepStageAsleepREM {
				continue
			}
		default:
			if !sample.Stage.IsAsleep() {
				continue
			}
		}
		day := a.startOfDay(sample.StartDate)
		hours[day] += sample.Duration().Hours()
	}

	points := make([]model.HealthDataPoint, 0, len(hours))
	for day, total := range hours {
		points = append(points, model.HealthDataPoint{
			ID:     uuid.New().String(),
			Date:   day,
			Value:  total,
			Metric: metric,
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	a.logger.Debug("aggregated sleep samples",
		zap.String("metric", string(metric)),
		zap.Int("samples", len(samples)),
		zap.Int("days", len(points)),
	)

	return points
}

// ClassifyTrend compares the last two daily points in date order. Fewer
// than two points is Stable. The sign of the delta is interpreted through
// the metric's polarity.
func (a *MetricAggregator) ClassifyTrend(points []model.HealthDataPoint, metric model.MetricKind) model.Trend {
	if len(points) < 2 {
		return model.TrendStable
	}

	sorted := make([]model.HealthDataPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	delta := sorted[len(sorted)-1].Value - sorted[len(sorted)-2].Value
	switch {
	case delta == 0:
		return model.TrendStable
	case delta > 0:
		if metric.LowerIsBetter() {
			return model.TrendWorsening
		}
		return model.TrendImproving
	default:
		if metric.LowerIsBetter() {
			return model.TrendImproving
		}
		return model.TrendWorsening
	}
}
