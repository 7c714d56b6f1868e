package wearable

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/stridecare/backend/internal/apperr"
	"github.com/stridecare/backend/pkg/model"
	"go.uber.org/zap"
)

// SimulatedProvider is an in-process stand-in for a real wearable data
// source. It produces deterministic pseudo-random samples per metric and
// day so the rest of the stack can be exercised without device hardware.
// The authorization gate is re-run on every refresh by concurrent request
// handlers, so the flag is mutex-guarded.
type SimulatedProvider struct {
	seed   int64
	loc    *time.Location
	logger *zap.Logger

	mu         sync.Mutex
	authorized bool
}

// NewSimulatedProvider creates a provider seeded for reproducible output
func NewSimulatedProvider(seed int64, loc *time.Location, logger *zap.Logger) *SimulatedProvider {
	if loc == nil {
		loc = time.Local
	}
	return &SimulatedProvider{
		seed:   seed,
		loc:    loc,
		logger: logger,
	}
}

// RequestAuthorization always grants; the simulated device has no consent
// dialog to refuse
func (p *SimulatedProvider) RequestAuthorization(ctx context.Context) (AuthorizationStatus, error) {
	p.mu.Lock()
	p.authorized = true
	p.mu.Unlock()

	p.logger.Info("wearable authorization granted (simulated)")
	return AuthorizationGranted, nil
}

func (p *SimulatedProvider) isAuthorized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.authorized
}

// metricRange returns the plausible daily band a metric's samples fall in
func metricRange(metric model.MetricKind) (low, high float64) {
	switch metric {
	case model.MetricHeartRate:
		return 58, 88
	case model.MetricTremor:
		return 8, 42
	case model.MetricWalkingSpeed:
		return 0.55, 1.35
	case model.MetricBalance:
		return 58, 96
	case model.MetricWalkingAsymmetry:
		return 1.5, 12
	case model.MetricRespiratoryRate:
		return 11, 19
	default:
		return 0, 1
	}
}

// dayRand returns a generator fixed to the provider seed and calendar day,
// so repeated fetches of the same range return identical samples
func (p *SimulatedProvider) dayRand(day time.Time, metric model.MetricKind) *rand.Rand {
	h := p.seed
	h = h*31 + day.Unix()
	for _, c := range metric {
		h = h*31 + int64(c)
	}
	return rand.New(rand.NewSource(h))
}

// QuantitySamples returns a handful of samples per day across the range
func (p *SimulatedProvider) QuantitySamples(ctx context.Context, metric model.MetricKind, start, end time.Time) ([]model.QuantitySample, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Unavailable(err, "wearable fetch cancelled")
	}
	if !p.isAuthorized() {
		return nil, apperr.AuthorizationDenied("wearable access has not been granted")
	}
	if !metric.IsValid() || metric.IsSleepMetric() {
		return nil, apperr.InvalidInput("metric does not yield quantity samples")
	}

	low, high := metricRange(metric)
	var samples []model.QuantitySample
	for day := startOfDay(start, p.loc); !day.After(end); day = day.AddDate(0, 0, 1) {
		rng := p.dayRand(day, metric)
		n := 3 + rng.Intn(3)
		for i := 0; i < n; i++ {
			ts := day.Add(time.Duration(8+i*3) * time.Hour).Add(time.Duration(rng.Intn(60)) * time.Minute)
			if ts.After(end) {
				break
			}
			samples = append(samples, model.QuantitySample{
				Timestamp: ts,
				Value:     low + rng.Float64()*(high-low),
				Unit:      metric.Unit(),
			})
		}
	}

	p.logger.Debug("simulated quantity samples fetched",
		zap.String("metric", string(metric)),
		zap.Int("count", len(samples)),
	)

	return samples, nil
}

// SleepSamples returns one simulated night per day across the range, split
// into staged intervals
func (p *SimulatedProvider) SleepSamples(ctx context.Context, start, end time.Time) ([]model.SleepSample, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Unavailable(err, "wearable fetch cancelled")
	}
	if !p.isAuthorized() {
		return nil, apperr.AuthorizationDenied("wearable access has not been granted")
	}

	var samples []model.SleepSample
	for day := startOfDay(start, p.loc); !day.After(end); day = day.AddDate(0, 0, 1) {
		rng := p.dayRand(day, model.MetricSleepDuration)

		// Night starts shortly after midnight of the sample day.
		cursor := day.Add(time.Duration(30+rng.Intn(90)) * time.Minute)
		stages := []struct {
			stage model.SleepStage
			min   time.Duration
			max   time.Duration
		}{
			{model.SleepStageAsleepCore, 3 * time.Hour, 5 * time.Hour},
			{model.SleepStageAwake, 5 * time.Minute, 25 * time.Minute},
			{model.SleepStageAsleepDeep, 45 * time.Minute, 2 * time.Hour},
			{model.SleepStageAsleepREM, 45 * time.Minute, 2 * time.Hour},
		}
		for _, s := range stages {
			span := s.min + time.Duration(rng.Int63n(int64(s.max-s.min)))
			next := cursor.Add(span)
			if next.After(end) {
				break
			}
			samples = append(samples, model.SleepSample{
				StartDate: cursor,
				EndDate:   next,
				Stage:     s.stage,
			})
			cursor = next
		}
	}

	p.logger.Debug("simulated sleep samples fetched",
		zap.Int("count", len(samples)),
	)

	return samples, nil
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Ensure SimulatedProvider implements Provider
var _ Provider = (*SimulatedProvider)(nil)
