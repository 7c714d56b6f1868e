package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stridecare/backend/internal/apperr"
	"github.com/stridecare/backend/pkg/model"
	"go.uber.org/zap"
)

// MedicationScheduler owns the medication list, the rolling window of daily
// tracking entries, and the mood log collection. All state is in memory and
// lives for the process lifetime only. The scheduler serializes its own
// mutations, so handlers may call it from concurrent requests.
type MedicationScheduler struct {
	mu          sync.Mutex
	medications []model.Medication
	entries     []model.MedicationEntry
	moodLogs    []model.MoodLog

	now    func() time.Time
	loc    *time.Location
	logger *zap.Logger
}

// NewMedicationScheduler creates a scheduler using the given clock and
// location for calendar-day boundaries. A nil clock defaults to time.Now
// and a nil location to the local time zone.
func NewMedicationScheduler(now func() time.Time, loc *time.Location, logger *zap.Logger) *MedicationScheduler {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &MedicationScheduler{
		now:    now,
		loc:    loc,
		logger: logger,
	}
}

// startOfDay truncates t to its calendar day in the scheduler's location
func (s *MedicationScheduler) startOfDay(t time.Time) time.Time {
	y, m, d := t.In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

// AddMedication creates an active medication scheduled at the time-of-day
// carried by scheduledTime and generates today's entries. The date component
// of scheduledTime bounds the earliest day entries are generated for.
func (s *MedicationScheduler) AddMedication(name string, scheduledTime time.Time) (*model.Medication, error) {
	if name == "" {
		return nil, apperr.InvalidInput("medication name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	med := model.Medication{
		ID:            uuid.New().String(),
		Name:          name,
		ScheduledTime: scheduledTime,
		Active:        true,
		CreatedAt:     s.now(),
	}
	s.medications = append(s.medications, med)

	s.generateDailyEntriesLocked()

	s.logger.Info("medication added",
		zap.String("medication_id", med.ID),
		zap.String("name", med.Name),
	)

	return &med, nil
}

// RemoveMedication deletes the medication and every entry that references
// it. Unknown ids are a silent no-op.
func (s *MedicationScheduler) RemoveMedication(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.medications[:0]
	removed := false
	for _, med := range s.medications {
		if med.ID == id {
			removed = true
			continue
		}
		kept = append(kept, med)
	}
	s.medications = kept

	if !removed {
		return
	}

	keptEntries := s.entries[:0]
	for _, entry := range s.entries {
		if entry.MedicationID == id {
			continue
		}
		keptEntries = append(keptEntries, entry)
	}
	s.entries = keptEntries

	s.logger.Info("medication removed",
		zap.String("medication_id", id),
	)
}

// GenerateDailyEntries purges entries from past days and creates today's
// missing entry for each active medication. Safe to call any number of
// times; repeated calls without other mutations leave state unchanged.
func (s *MedicationScheduler) GenerateDailyEntries() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generateDailyEntriesLocked()
}

func (s *MedicationScheduler) generateDailyEntriesLocked() {
	today := s.startOfDay(s.now())

	// Purge every strictly-past-day entry, not only yesterday's, so entries
	// left behind while the app was unused cannot accumulate.
	kept := s.entries[:0]
	expired := 0
	for _, entry := range s.entries {
		if s.startOfDay(entry.ScheduledDateTime).Before(today) {
			expired++
			continue
		}
		kept = append(kept, entry)
	}
	s.entries = kept

	existing := make(map[string]bool, len(s.entries))
	for _, entry := range s.entries {
		if s.startOfDay(entry.ScheduledDateTime).Equal(today) {
			existing[entry.MedicationID] = true
		}
	}

	created := 0
	for _, med := range s.medications {
		if !med.Active {
			continue
		}
		if s.startOfDay(med.ScheduledTime).After(today) {
			continue
		}
		if existing[med.ID] {
			continue
		}

		t := med.ScheduledTime.In(s.loc)
		scheduled := time.Date(today.Year(), today.Month(), today.Day(), t.Hour(), t.Minute(), 0, 0, s.loc)
		s.entries = append(s.entries, model.MedicationEntry{
			ID:                uuid.New().String(),
			MedicationID:      med.ID,
			MedicationName:    med.Name,
			ScheduledDateTime: scheduled,
			Status:            model.EntryStatusPending,
		})
		created++
	}

	if expired > 0 || created > 0 {
		s.logger.Info("daily entries generated",
			zap.Time("day", today),
			zap.Int("expired", expired),
			zap.Int("created", created),
		)
	}
}

// ToggleEntryStatus advances the entry's adherence state: pending becomes
// taken, then taken and missed alternate. An entry never returns to
// pending. Unknown ids are a silent no-op.
func (s *MedicationScheduler) ToggleEntryStatus(entryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID != entryID {
			continue
		}
		switch s.entries[i].Status {
		case model.EntryStatusTaken:
			s.entries[i].Status = model.EntryStatusMissed
		default:
			s.entries[i].Status = model.EntryStatusTaken
		}
		s.logger.Info("entry status toggled",
			zap.String("entry_id", entryID),
			zap.String("status", string(s.entries[i].Status)),
		)
		return
	}
}

// EntriesForToday returns the entries scheduled on the current calendar day
func (s *MedicationScheduler) EntriesForToday() []model.MedicationEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.startOfDay(s.now())
	var out []model.MedicationEntry
	for _, entry := range s.entries {
		if s.startOfDay(entry.ScheduledDateTime).Equal(today) {
			out = append(out, entry)
		}
	}
	return out
}

// Medications returns a snapshot of all medications
func (s *MedicationScheduler) Medications() []model.Medication {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Medication, len(s.medications))
	copy(out, s.medications)
	return out
}

// AddMoodLog appends a mood record captured at the given instant
func (s *MedicationScheduler) AddMoodLog(mood string, date time.Time) (*model.MoodLog, error) {
	if mood == "" {
		return nil, apperr.InvalidInput("mood is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := model.MoodLog{
		ID:   uuid.New().String(),
		Mood: mood,
		Date: date,
	}
	s.moodLogs = append(s.moodLogs, log)

	s.logger.Info("mood log added",
		zap.String("mood_log_id", log.ID),
	)

	return &log, nil
}

// RemoveMoodLog deletes the mood log with the given id; unknown ids are a
// silent no-op
func (s *MedicationScheduler) RemoveMoodLog(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.moodLogs[:0]
	for _, log := range s.moodLogs {
		if log.ID == id {
			continue
		}
		kept = append(kept, log)
	}
	s.moodLogs = kept
}

// MoodLogs returns a snapshot of all mood logs
func (s *MedicationScheduler) MoodLogs() []model.MoodLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.MoodLog, len(s.moodLogs))
	copy(out, s.moodLogs)
	return out
}
