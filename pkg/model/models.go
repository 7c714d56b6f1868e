package model

import "time"

// MetricKind identifies a tracked wearable quantity
type MetricKind string

const (
	MetricHeartRate        MetricKind = "heart_rate"
	MetricTremor           MetricKind = "tremor"
	MetricWalkingSpeed     MetricKind = "walking_speed"
	MetricBalance          MetricKind = "balance"
	MetricWalkingAsymmetry MetricKind = "walking_asymmetry"
	MetricSleepDuration    MetricKind = "sleep_duration"
	MetricREMSleep         MetricKind = "rem_sleep"
	MetricRespiratoryRate  MetricKind = "respiratory_rate"
)

// AllMetricKinds lists every tracked metric in display order
var AllMetricKinds = []MetricKind{
	MetricHeartRate,
	MetricTremor,
	MetricWalkingSpeed,
	MetricBalance,
	MetricWalkingAsymmetry,
	MetricSleepDuration,
	MetricREMSleep,
	MetricRespiratoryRate,
}

// IsValid reports whether the kind is one of the tracked metrics
func (k MetricKind) IsValid() bool {
	for _, known := range AllMetricKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Unit returns the fixed unit of measure for the metric's raw values
func (k MetricKind) Unit() string {
	switch k {
	case MetricHeartRate:
		return "bpm"
	case MetricTremor:
		return "percent"
	case MetricWalkingSpeed:
		return "m/s"
	case MetricBalance:
		return "percent"
	case MetricWalkingAsymmetry:
		return "percent"
	case MetricSleepDuration:
		return "hours"
	case MetricREMSleep:
		return "hours"
	case MetricRespiratoryRate:
		return "breaths/min"
	default:
		return ""
	}
}

// LowerIsBetter reports the polarity of the metric: true when a decreasing
// value indicates improvement (heart rate, respiratory rate, walking
// asymmetry, tremor), false when an increasing value does (walking speed,
// balance, sleep duration, REM sleep).
func (k MetricKind) LowerIsBetter() bool {
	switch k {
	case MetricHeartRate, MetricRespiratoryRate, MetricWalkingAsymmetry, MetricTremor:
		return true
	default:
		return false
	}
}

// IsSleepMetric reports whether the metric is derived from interval-based
// sleep samples rather than point-in-time quantity samples
func (k MetricKind) IsSleepMetric() bool {
	return k == MetricSleepDuration || k == MetricREMSleep
}

// Trend classifies the short-term direction of a metric
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendWorsening Trend = "worsening"
)

// EntryStatus is the adherence state of a daily medication entry
type EntryStatus string

const (
	EntryStatusPending EntryStatus = "pending"
	EntryStatusTaken   EntryStatus = "taken"
	EntryStatusMissed  EntryStatus = "missed"
)

// Medication represents a user-defined recurring medication reminder
type Medication struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ScheduledTime time.Time `json:"scheduled_time"` // time-of-day is authoritative; the date component bounds the earliest tracking day
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

// MedicationEntry is one calendar-day occurrence of a medication's schedule
type MedicationEntry struct {
	ID                string      `json:"id"`
	MedicationID      string      `json:"medication_id"`
	MedicationName    string      `json:"medication_name"` // snapshot of the name at generation time
	ScheduledDateTime time.Time   `json:"scheduled_date_time"`
	Status            EntryStatus `json:"status"`
}

// IsOverdue reports whether the entry is due today, already past, and not
// yet taken as of the given instant
func (e MedicationEntry) IsOverdue(now time.Time) bool {
	sy, sm, sd := e.ScheduledDateTime.Date()
	ny, nm, nd := now.Date()
	if sy != ny || sm != nm || sd != nd {
		return false
	}
	return e.ScheduledDateTime.Before(now) && e.Status != EntryStatusTaken
}

// MoodLog is a single user-entered mood record
type MoodLog struct {
	ID   string    `json:"id"`
	Mood string    `json:"mood"`
	Date time.Time `json:"date"`
}

// HealthDataPoint is one aggregated daily observation for a metric
type HealthDataPoint struct {
	ID     string     `json:"id"`
	Date   time.Time  `json:"date"` // start-of-day boundary
	Value  float64    `json:"value"`
	Metric MetricKind `json:"metric"`
}

// QuantitySample is a raw point-in-time wearable measurement
type QuantitySample struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Unit      string    `json:"unit"`
}

// SleepStage tags an interval-based sleep sample
type SleepStage string

const (
	SleepStageAwake             SleepStage = "awake"
	SleepStageInBed             SleepStage = "in_bed"
	SleepStageAsleepUnspecified SleepStage = "asleep_unspecified"
	SleepStageAsleepCore        SleepStage = "asleep_core"
	SleepStageAsleepDeep        SleepStage = "asleep_deep"
	SleepStageAsleepREM         SleepStage = "asleep_rem"
)

// IsAsleep reports whether the stage counts toward total sleep duration
func (s SleepStage) IsAsleep() bool {
	switch s {
	case SleepStageAsleepUnspecified, SleepStageAsleepCore, SleepStageAsleepDeep, SleepStageAsleepREM:
		return true
	default:
		return false
	}
}

// SleepSample is a raw interval-based wearable sleep measurement
type SleepSample struct {
	StartDate time.Time  `json:"start_date"`
	EndDate   time.Time  `json:"end_date"`
	Stage     SleepStage `json:"stage"`
}

// Duration returns the sample's length
func (s SleepSample) Duration() time.Duration {
	return s.EndDate.Sub(s.StartDate)
}

// ReportRecord describes a generated clinician report held in the archive
type ReportRecord struct {
	ID             string    `json:"id"`
	DateRangeStart time.Time `json:"date_range_start"`
	DateRangeEnd   time.Time `json:"date_range_end"`
	Path           string    `json:"path"`
	GeneratedAt    time.Time `json:"generated_at"`
}
