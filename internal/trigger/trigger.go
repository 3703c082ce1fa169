// Package trigger links habits together: when a source habit reaches a
// condition (completed, streak reached, ...), its target habit is suggested.
package trigger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitline/internal/logger"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/stats"
	"github.com/julianstephens/habitline/internal/storage"
)

// ErrExists is returned when an identical trigger is already stored.
var ErrExists = errors.New("an identical trigger already exists")

// Suggestion is a fired trigger paired with the habit it points at.
type Suggestion struct {
	Trigger models.Trigger
	Source  models.Habit
	Target  models.Habit
}

// Holds reports whether h meets the trigger's condition at now.
// A streak is broken when the habit has history but no live streak.
func Holds(e *stats.Engine, t models.Trigger, h models.Habit, now time.Time) bool {
	switch t.Condition {
	case models.TriggerCompleted:
		return e.IsCompletedToday(h, now)
	case models.TriggerNotCompleted:
		return !e.IsCompletedToday(h, now)
	case models.TriggerStreakReached:
		return t.Threshold > 0 && e.CurrentStreak(h, now) >= t.Threshold
	case models.TriggerStreakBroken:
		return len(h.Completions) > 0 && e.CurrentStreak(h, now) == 0
	default:
		return false
	}
}

// Fired returns the enabled triggers on after's habit whose condition did not
// hold for before and holds for after.
func Fired(e *stats.Engine, triggers []models.Trigger, before, after models.Habit, now time.Time) []models.Trigger {
	var fired []models.Trigger
	for _, t := range triggers {
		if !t.Enabled || t.SourceHabitID != after.ID {
			continue
		}
		if !Holds(e, t, before, now) && Holds(e, t, after, now) {
			fired = append(fired, t)
		}
	}
	return fired
}

// Suggest returns a suggestion for every enabled trigger whose condition
// holds now and whose target is live, unarchived and not yet done today.
func Suggest(e *stats.Engine, triggers []models.Trigger, habits []models.Habit, now time.Time) []Suggestion {
	byID := make(map[string]models.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}

	var out []Suggestion
	for _, t := range triggers {
		if !t.Enabled {
			continue
		}
		source, ok := byID[t.SourceHabitID]
		if !ok || !Holds(e, t, source, now) {
			continue
		}
		if s, ok := suggestion(e, t, source, byID, now); ok {
			out = append(out, s)
		}
	}
	return out
}

// Resolve pairs fired triggers with their targets, dropping targets that are
// missing, archived or already done today.
func Resolve(e *stats.Engine, fired []models.Trigger, source models.Habit, habits []models.Habit, now time.Time) []Suggestion {
	byID := make(map[string]models.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}
	var out []Suggestion
	for _, t := range fired {
		if s, ok := suggestion(e, t, source, byID, now); ok {
			out = append(out, s)
		}
	}
	return out
}

func suggestion(e *stats.Engine, t models.Trigger, source models.Habit, byID map[string]models.Habit, now time.Time) (Suggestion, bool) {
	target, ok := byID[t.TargetHabitID]
	if !ok || target.IsArchived() || e.IsCompletedToday(target, now) {
		return Suggestion{}, false
	}
	return Suggestion{Trigger: t, Source: source, Target: target}, true
}

// Service stores and edits triggers.
type Service struct {
	store storage.Provider
}

func NewService(store storage.Provider) *Service {
	return &Service{store: store}
}

// Create stores a new enabled trigger from source to target.
func (s *Service) Create(source, target models.Habit, condition models.TriggerCondition, threshold int, now time.Time) (models.Trigger, error) {
	if condition != models.TriggerStreakReached {
		threshold = 0
	}
	t := models.Trigger{
		ID:            uuid.New().String(),
		SourceHabitID: source.ID,
		TargetHabitID: target.ID,
		Condition:     condition,
		Threshold:     threshold,
		Enabled:       true,
		CreatedAt:     now,
	}
	if err := t.Validate(); err != nil {
		return models.Trigger{}, err
	}

	existing, err := s.store.GetTriggers()
	if err != nil {
		return models.Trigger{}, err
	}
	for _, e := range existing {
		if e.SourceHabitID == t.SourceHabitID && e.TargetHabitID == t.TargetHabitID &&
			e.Condition == t.Condition && e.Threshold == t.Threshold {
			return models.Trigger{}, fmt.Errorf("%w: %s", ErrExists, e.ID)
		}
	}

	if err := s.store.SaveTrigger(t); err != nil {
		return models.Trigger{}, err
	}
	logger.Debug("Trigger created", "id", t.ID, "source", source.Name, "target", target.Name, "condition", t.Condition)
	return t, nil
}

// SetEnabled turns a trigger on or off.
func (s *Service) SetEnabled(id string, enabled bool) (models.Trigger, error) {
	t, err := s.store.GetTrigger(id)
	if err != nil {
		return models.Trigger{}, err
	}
	t.Enabled = enabled
	if err := s.store.SaveTrigger(t); err != nil {
		return models.Trigger{}, err
	}
	return t, nil
}

func (s *Service) Delete(id string) error {
	return s.store.DeleteTrigger(id)
}

func (s *Service) List() ([]models.Trigger, error) {
	return s.store.GetTriggers()
}
