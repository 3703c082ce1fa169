// Package tracker coordinates habit mutations with the store and keeps
// progress, badges and achievements in step with new completions.
package tracker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/gamification"
	"github.com/julianstephens/habitline/internal/logger"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/stats"
	"github.com/julianstephens/habitline/internal/storage"
	"github.com/julianstephens/habitline/internal/trigger"
)

var (
	// ErrHabitExists is returned when adding a habit whose name is taken.
	ErrHabitExists = errors.New("a habit with that name already exists")
	// ErrArchived is returned when completing an archived habit.
	ErrArchived = errors.New("habit is archived")
	// ErrFutureDay is returned when logging a completion for a day that has not started.
	ErrFutureDay = errors.New("cannot log a completion in the future")
)

type Tracker struct {
	store  storage.Provider
	clock  Clock
	engine *stats.Engine
}

func New(store storage.Provider, clock Clock, engine *stats.Engine) *Tracker {
	if clock == nil {
		clock = SystemClock{}
	}
	if engine == nil {
		engine = stats.New(time.Local)
	}
	return &Tracker{store: store, clock: clock, engine: engine}
}

// Engine returns the stats engine the tracker evaluates with.
func (t *Tracker) Engine() *stats.Engine {
	return t.engine
}

// Now returns the clock's instant in the engine's location.
func (t *Tracker) Now() time.Time {
	return t.clock.Now().In(t.engine.Location())
}

// AddHabit validates and stores a new habit, assigning its ID and creation
// time. Color and icon fall back to defaults.
func (t *Tracker) AddHabit(h models.Habit) (models.Habit, error) {
	h.Name = strings.TrimSpace(h.Name)
	if err := h.Validate(); err != nil {
		return models.Habit{}, err
	}
	if _, err := t.store.GetHabitByName(h.Name); err == nil {
		return models.Habit{}, fmt.Errorf("%w: %s", ErrHabitExists, h.Name)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, err
	}

	now := t.Now()
	h.ID = uuid.New().String()
	h.CreatedAt = now
	h.ArchivedAt, h.DeletedAt = nil, nil
	h.Completions, h.Reminders = nil, nil
	if h.Color == "" {
		h.Color = constants.DefaultHabitColor
	}
	if h.Icon == "" {
		h.Icon = constants.DefaultHabitIcon
	}

	if err := t.store.AddHabit(h); err != nil {
		return models.Habit{}, fmt.Errorf("failed to add habit: %w", err)
	}
	logger.Debug("Habit added", "id", h.ID, "name", h.Name)

	t.unlockGlobal(now)
	return h, nil
}

// AddFromTemplate adds a habit built from the named template.
func (t *Tracker) AddFromTemplate(key string) (models.Habit, error) {
	tmpl, ok := models.FindHabitTemplate(key)
	if !ok {
		return models.Habit{}, fmt.Errorf("unknown habit template: %s", key)
	}
	return t.AddHabit(tmpl.ToHabit())
}

// resolve finds a live habit by ID first, then by name.
func (t *Tracker) resolve(ref string) (models.Habit, error) {
	h, err := t.store.GetHabit(ref)
	if err == nil || !errors.Is(err, storage.ErrNotFound) {
		return h, err
	}
	return t.store.GetHabitByName(ref)
}

func (t *Tracker) hydrate(h models.Habit) (models.Habit, error) {
	completions, err := t.store.GetCompletionsForHabit(h.ID)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to load completions for %s: %w", h.Name, err)
	}
	reminders, err := t.store.GetReminders(h.ID)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to load reminders for %s: %w", h.Name, err)
	}
	h = h.WithCompletions(completions)
	h.Reminders = reminders
	return h, nil
}

// LoadHabit returns the habit named or identified by ref with its
// completions and reminders attached.
func (t *Tracker) LoadHabit(ref string) (models.Habit, error) {
	h, err := t.resolve(ref)
	if err != nil {
		return models.Habit{}, err
	}
	return t.hydrate(h)
}

// LoadHabits returns every live habit with completions and reminders attached.
func (t *Tracker) LoadHabits(includeArchived bool) ([]models.Habit, error) {
	habits, err := t.store.GetAllHabits(includeArchived, false)
	if err != nil {
		return nil, err
	}

	all, err := t.store.GetAllCompletions()
	if err != nil {
		return nil, err
	}
	byHabit := make(map[string][]models.Completion)
	for _, c := range all {
		byHabit[c.HabitID] = append(byHabit[c.HabitID], c)
	}

	for i, h := range habits {
		reminders, err := t.store.GetReminders(h.ID)
		if err != nil {
			return nil, err
		}
		habits[i] = h.WithCompletions(byHabit[h.ID])
		habits[i].Reminders = reminders
	}
	return habits, nil
}

// ToggleResult describes what a toggle did.
type ToggleResult struct {
	Habit        models.Habit
	Completed    bool
	Points       int
	Badges       []string
	Achievements []models.Achievement
	Progress     models.UserProgress
	// Suggestions come from triggers whose condition this toggle satisfied.
	Suggestions []trigger.Suggestion
}

// ToggleCompletion removes today's completions of the habit if there are
// any, otherwise records one now and awards progress for it.
func (t *Tracker) ToggleCompletion(ref, note string) (ToggleResult, error) {
	h, err := t.LoadHabit(ref)
	if err != nil {
		return ToggleResult{}, err
	}
	if h.IsArchived() {
		return ToggleResult{}, fmt.Errorf("%w: %s", ErrArchived, h.Name)
	}

	now := t.Now()
	before := h
	today := t.engine.CompletionsInRange(h, t.engine.StartOfDay(now), t.engine.EndOfDay(now))
	if len(today) > 0 {
		for _, c := range today {
			if err := t.store.DeleteCompletion(c.ID); err != nil {
				return ToggleResult{}, fmt.Errorf("failed to remove completion: %w", err)
			}
		}
		logger.Debug("Completion removed", "habit", h.Name, "count", len(today))
		h, err = t.hydrate(h)
		if err != nil {
			return ToggleResult{}, err
		}
		return ToggleResult{Habit: h, Suggestions: t.fire(before, h, now)}, nil
	}

	c := models.Completion{ID: uuid.New().String(), HabitID: h.ID, CompletedAt: now, Note: strings.TrimSpace(note)}
	if err := t.store.AddCompletion(c); err != nil {
		return ToggleResult{}, err
	}
	h.Completions = append(h.Completions, c)
	logger.Debug("Completion added", "habit", h.Name, "at", now)

	result := t.reward(h, now)
	result.Habit = h
	result.Completed = true
	result.Suggestions = t.fire(before, h, now)
	return result, nil
}

// fire evaluates the triggers on the toggled habit. Failures are logged.
func (t *Tracker) fire(before, after models.Habit, now time.Time) []trigger.Suggestion {
	triggers, err := t.store.GetTriggers()
	if err != nil {
		logger.Warn("Failed to load triggers", "error", err)
		return nil
	}
	fired := trigger.Fired(t.engine, triggers, before, after, now)
	if len(fired) == 0 {
		return nil
	}
	habits, err := t.LoadHabits(false)
	if err != nil {
		logger.Warn("Failed to load habits for triggers", "error", err)
		return nil
	}
	suggestions := trigger.Resolve(t.engine, fired, after, habits, now)
	for _, s := range suggestions {
		logger.Debug("Trigger fired", "id", s.Trigger.ID, "source", after.Name, "target", s.Target.Name)
	}
	return suggestions
}

// Suggestions returns the habits that triggers currently point at.
func (t *Tracker) Suggestions(habits []models.Habit) ([]trigger.Suggestion, error) {
	triggers, err := t.store.GetTriggers()
	if err != nil {
		return nil, err
	}
	return trigger.Suggest(t.engine, triggers, habits, t.Now()), nil
}

// reward updates progress and achievements for a fresh completion of h.
// Persistence failures are logged and do not undo the completion.
func (t *Tracker) reward(h models.Habit, now time.Time) ToggleResult {
	var result ToggleResult

	progress, err := t.store.GetUserProgress()
	if err != nil {
		logger.Warn("Failed to load progress", "error", err)
		progress = models.NewUserProgress()
	}
	before := progress.TotalPoints

	progress = gamification.ApplyCompletion(progress, t.engine, h, now)
	progress, result.Badges = gamification.AwardBadges(progress, t.engine, h, now)
	if habits, err := t.LoadHabits(true); err == nil {
		progress.DaysTracked = t.engine.DaysTracked(habits)
	} else {
		logger.Warn("Failed to count tracked days", "error", err)
	}

	if err := t.store.SaveUserProgress(progress); err != nil {
		logger.Warn("Failed to save progress", "error", err)
	}
	result.Progress = progress
	result.Points = progress.TotalPoints - before

	existing, err := t.store.GetAchievements()
	if err != nil {
		logger.Warn("Failed to load achievements", "error", err)
		return result
	}
	result.Achievements = t.persistAchievements(gamification.CheckAchievements(t.engine, h, now, existing))
	return result
}

func (t *Tracker) persistAchievements(unlocked []models.Achievement) []models.Achievement {
	var saved []models.Achievement
	for _, a := range unlocked {
		a.ID = uuid.New().String()
		if err := t.store.AddAchievement(a); err != nil {
			logger.Warn("Failed to save achievement", "type", a.Type, "error", err)
			continue
		}
		logger.Info("Achievement unlocked", "type", a.Type, "habit", a.HabitID)
		saved = append(saved, a)
	}
	return saved
}

func (t *Tracker) unlockGlobal(now time.Time) {
	habits, err := t.store.GetAllHabits(true, false)
	if err != nil {
		logger.Warn("Failed to load habits for achievements", "error", err)
		return
	}
	existing, err := t.store.GetAchievements()
	if err != nil {
		logger.Warn("Failed to load achievements", "error", err)
		return
	}
	t.persistAchievements(gamification.CheckGlobalAchievements(habits, existing, now))
}

// CompleteOn backfills a completion on a past or current day. Completions
// logged for today carry the current time; earlier days are stamped at noon.
// Backfilled completions do not award points. Archived habits are refused.
func (t *Tracker) CompleteOn(ref string, day time.Time, note string) (models.Completion, error) {
	h, err := t.resolve(ref)
	if err != nil {
		return models.Completion{}, err
	}
	if h.IsArchived() {
		return models.Completion{}, fmt.Errorf("%w: %s", ErrArchived, h.Name)
	}

	now := t.Now()
	start := t.engine.StartOfDay(day)
	if !start.Before(t.engine.EndOfDay(now)) {
		return models.Completion{}, fmt.Errorf("%w: %s", ErrFutureDay, t.engine.DayKey(day))
	}
	y, m, d := start.In(t.engine.Location()).Date()
	at := time.Date(y, m, d, 12, 0, 0, 0, t.engine.Location())
	if start.Equal(t.engine.StartOfDay(now)) {
		at = now
	}

	c := models.Completion{ID: uuid.New().String(), HabitID: h.ID, CompletedAt: at, Note: strings.TrimSpace(note)}
	if err := t.store.AddCompletion(c); err != nil {
		return models.Completion{}, err
	}
	logger.Debug("Completion logged", "habit", h.Name, "day", t.engine.DayKey(at))
	return c, nil
}

// SetReminder replaces the habit's reminders with a single one at the given
// offset from midnight. No weekdays means every day.
func (t *Tracker) SetReminder(ref string, at time.Duration, weekdays []time.Weekday) (models.Reminder, error) {
	if at < 0 || at >= constants.Day {
		return models.Reminder{}, fmt.Errorf("reminder time %v is outside the day", at)
	}
	h, err := t.resolve(ref)
	if err != nil {
		return models.Reminder{}, err
	}

	r := models.Reminder{ID: uuid.New().String(), HabitID: h.ID, TimeOfDay: at, Enabled: true}
	for _, wd := range weekdays {
		r.Weekdays = append(r.Weekdays, models.WeekdayCode(wd))
	}
	if err := t.store.ReplaceReminders(h.ID, []models.Reminder{r}); err != nil {
		return models.Reminder{}, fmt.Errorf("failed to save reminder: %w", err)
	}
	return r, nil
}

// ClearReminders removes all reminders from the habit.
func (t *Tracker) ClearReminders(ref string) error {
	h, err := t.resolve(ref)
	if err != nil {
		return err
	}
	return t.store.ReplaceReminders(h.ID, nil)
}

func (t *Tracker) Archive(ref string) (models.Habit, error) {
	return t.mutate(ref, "archived", t.store.ArchiveHabit)
}

func (t *Tracker) Unarchive(ref string) (models.Habit, error) {
	return t.mutate(ref, "unarchived", t.store.UnarchiveHabit)
}

func (t *Tracker) Delete(ref string) (models.Habit, error) {
	return t.mutate(ref, "deleted", t.store.DeleteHabit)
}

// Purge permanently removes the habit with its completions and reminders.
// Soft-deleted habits can be purged by ID.
func (t *Tracker) Purge(ref string) (models.Habit, error) {
	h, err := t.findIncludingDeleted(ref)
	if err != nil {
		return models.Habit{}, err
	}
	if err := t.store.PurgeHabit(h.ID); err != nil {
		return models.Habit{}, err
	}
	logger.Info("Habit purged", "id", h.ID, "name", h.Name)
	return h, nil
}

// Restore brings back a soft-deleted habit by ID or name.
func (t *Tracker) Restore(ref string) (models.Habit, error) {
	h, err := t.findIncludingDeleted(ref)
	if err != nil {
		return models.Habit{}, err
	}
	if err := t.store.RestoreHabit(h.ID); err != nil {
		return models.Habit{}, err
	}
	logger.Debug("Habit restored", "id", h.ID, "name", h.Name)
	h.DeletedAt = nil
	return h, nil
}

func (t *Tracker) mutate(ref, verb string, op func(id string) error) (models.Habit, error) {
	h, err := t.resolve(ref)
	if err != nil {
		return models.Habit{}, err
	}
	if err := op(h.ID); err != nil {
		return models.Habit{}, err
	}
	logger.Debug("Habit "+verb, "id", h.ID, "name", h.Name)
	return h, nil
}

// findIncludingDeleted prefers a deleted habit when several share a name.
func (t *Tracker) findIncludingDeleted(ref string) (models.Habit, error) {
	habits, err := t.store.GetAllHabits(true, true)
	if err != nil {
		return models.Habit{}, err
	}
	var match *models.Habit
	for i := range habits {
		h := habits[i]
		if h.ID != ref && h.Name != ref {
			continue
		}
		if match == nil || (h.DeletedAt != nil && match.DeletedAt == nil) {
			match = &habits[i]
		}
	}
	if match == nil {
		return models.Habit{}, fmt.Errorf("habit %q: %w", ref, storage.ErrNotFound)
	}
	return *match, nil
}

// Progress returns the stored progress.
func (t *Tracker) Progress() (models.UserProgress, error) {
	return t.store.GetUserProgress()
}

// Achievements returns every unlocked achievement.
func (t *Tracker) Achievements() ([]models.Achievement, error) {
	return t.store.GetAchievements()
}
