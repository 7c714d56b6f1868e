package wearable

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stridecare/backend/internal/apperr"
	"github.com/stridecare/backend/pkg/model"
	"go.uber.org/zap"
)

func TestSimulatedProvider_AuthorizationGate(t *testing.T) {
	p := NewSimulatedProvider(1, time.UTC, zap.NewNop())
	ctx := context.Background()
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC)

	// Before authorization every fetch is refused.
	_, err := p.QuantitySamples(ctx, model.MetricHeartRate, start, end)
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuthorizationDenied, apperr.KindOf(err))

	_, err = p.SleepSamples(ctx, start, end)
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuthorizationDenied, apperr.KindOf(err))

	status, err := p.RequestAuthorization(ctx)
	require.NoError(t, err)
	assert.Equal(t, AuthorizationGranted, status)

	_, err = p.QuantitySamples(ctx, model.MetricHeartRate, start, end)
	assert.NoError(t, err)
}

func TestSimulatedProvider_ConcurrentAuthorizeAndFetch(t *testing.T) {
	p := NewSimulatedProvider(1, time.UTC, zap.NewNop())
	ctx := context.Background()
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC)

	// Every request handler re-runs the authorization gate before fetching,
	// so authorize and fetch race from many goroutines at once.
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.RequestAuthorization(ctx); err != nil {
				errs <- err
				return
			}
			if _, err := p.QuantitySamples(ctx, model.MetricHeartRate, start, end); err != nil {
				errs <- err
				return
			}
			if _, err := p.SleepSamples(ctx, start, end); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestSimulatedProvider_DeterministicForSeed(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC)

	fetch := func(seed int64) []model.QuantitySample {
		p := NewSimulatedProvider(seed, time.UTC, zap.NewNop())
		_, err := p.RequestAuthorization(ctx)
		require.NoError(t, err)
		samples, err := p.QuantitySamples(ctx, model.MetricTremor, start, end)
		require.NoError(t, err)
		return samples
	}

	assert.Equal(t, fetch(7), fetch(7), "same seed must yield identical samples")
	assert.NotEqual(t, fetch(7), fetch(8), "different seeds should diverge")
}

func TestSimulatedProvider_QuantitySamplesWithinRange(t *testing.T) {
	p := NewSimulatedProvider(1, time.UTC, zap.NewNop())
	ctx := context.Background()
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC)

	_, err := p.RequestAuthorization(ctx)
	require.NoError(t, err)

	samples, err := p.QuantitySamples(ctx, model.MetricHeartRate, start, end)
	require.NoError(t, err)
	require.NotEmpty(t, samples)

	low, high := metricRange(model.MetricHeartRate)
	for _, sample := range samples {
		assert.False(t, sample.Timestamp.After(end))
		assert.GreaterOrEqual(t, sample.Value, low)
		assert.LessOrEqual(t, sample.Value, high)
		assert.Equal(t, "bpm", sample.Unit)
	}
}

func TestSimulatedProvider_SleepMetricRejectedAsQuantity(t *testing.T) {
	p := NewSimulatedProvider(1, time.UTC, zap.NewNop())
	ctx := context.Background()
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC)

	_, err := p.RequestAuthorization(ctx)
	require.NoError(t, err)

	_, err = p.QuantitySamples(ctx, model.MetricSleepDuration, start, end)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestSimulatedProvider_SleepSamplesStagedNights(t *testing.T) {
	p := NewSimulatedProvider(1, time.UTC, zap.NewNop())
	ctx := context.Background()
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC)

	_, err := p.RequestAuthorization(ctx)
	require.NoError(t, err)

	samples, err := p.SleepSamples(ctx, start, end)
	require.NoError(t, err)
	require.NotEmpty(t, samples)

	sawREM := false
	for _, sample := range samples {
		assert.True(t, sample.EndDate.After(sample.StartDate), "sleep intervals must have positive duration")
		if sample.Stage == model.SleepStageAsleepREM {
			sawREM = true
		}
	}
	assert.True(t, sawREM, "a full week of nights should include REM intervals")
}
