package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/stridecare/backend/pkg/model"
	"go.uber.org/zap"
)

// TextGenerator is the language generation boundary: one prompt in, one
// generated text or typed error out
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// CoachService turns the current health picture into human-readable
// coaching text via the generation service
type CoachService struct {
	scheduler *MedicationScheduler
	metrics   *MetricsService
	generator TextGenerator
	logger    *zap.Logger
}

// NewCoachService creates a new CoachService
func NewCoachService(scheduler *MedicationScheduler, metrics *MetricsService, generator TextGenerator, logger *zap.Logger) *CoachService {
	return &CoachService{
		scheduler: scheduler,
		metrics:   metrics,
		generator: generator,
		logger:    logger,
	}
}

// DailyCoaching summarizes the last `days` of metrics plus today's
// adherence and recent moods, and asks the generation service for coaching
// text. Collaborator failures pass through typed.
func (s *CoachService) DailyCoaching(ctx context.Context, days int) (string, error) {
	series, err := s.metrics.AllSeries(ctx, days)
	if err != nil {
		s.logger.Error("failed to refresh metrics for coaching",
			zap.Error(err),
		)
		return "", err
	}

	s.scheduler.GenerateDailyEntries()
	prompt := BuildHealthSummary(series, s.scheduler.EntriesForToday(), s.scheduler.MoodLogs())

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("coaching text generation failed",
			zap.Error(err),
		)
		return "", err
	}

	s.logger.Info("coaching text generated",
		zap.Int("prompt_len", len(prompt)),
		zap.Int("text_len", len(text)),
	)

	return text, nil
}

// BuildHealthSummary renders the aggregated health picture as the prompt
// text fed to the generation service. It is also reused verbatim as the
// report's data summary.
func BuildHealthSummary(series []MetricSeries, entries []model.MedicationEntry, moods []model.MoodLog) string {
	var b strings.Builder

	b.WriteString("Health data summary:\n")
	for _, s := range series {
		if len(s.Points) == 0 {
			fmt.Fprintf(&b, "- %s: no data, trend %s\n", s.Metric, s.Trend)
			continue
		}
		latest := s.Points[len(s.Points)-1]
		fmt.Fprintf(&b, "- %s: latest %.2f %s over %d days, trend %s\n",
			s.Metric, latest.Value, s.Unit, len(s.Points), s.Trend)
	}

	var taken, missed, pending int
	for _, entry := range entries {
		switch entry.Status {
		case model.EntryStatusTaken:
			taken++
		case model.EntryStatusMissed:
			missed++
		default:
			pending++
		}
	}
	fmt.Fprintf(&b, "Medication adherence today: %d taken, %d missed, %d pending.\n", taken, missed, pending)

	if len(moods) > 0 {
		b.WriteString("Recent moods:\n")
		start := 0
		if len(moods) > 5 {
			start = len(moods) - 5
		}
		for _, mood := range moods[start:] {
			fmt.Fprintf(&b, "- %s: %s\n", mood.Date.Format("2006-01-02"), mood.Mood)
		}
	}

	return b.String()
}
