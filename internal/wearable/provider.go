package wearable

import (
	"context"
	"time"

	"github.com/stridecare/backend/pkg/model"
)

// AuthorizationStatus is the outcome of a data-access grant request
type AuthorizationStatus string

const (
	AuthorizationGranted     AuthorizationStatus = "granted"
	AuthorizationDenied      AuthorizationStatus = "denied"
	AuthorizationUnavailable AuthorizationStatus = "unavailable"
)

// Provider is the wearable data source boundary. Implementations fetch
// timestamped samples per metric over a date range after an authorization
// step; fetches fail typed (Unavailable, AuthorizationDenied) rather than
// returning partial data. Absence of samples is an empty slice, not an
// error.
type Provider interface {
	RequestAuthorization(ctx context.Context) (AuthorizationStatus, error)
	QuantitySamples(ctx context.Context, metric model.MetricKind, start, end time.Time) ([]model.QuantitySample, error)
	SleepSamples(ctx context.Context, start, end time.Time) ([]model.SleepSample, error)
}
