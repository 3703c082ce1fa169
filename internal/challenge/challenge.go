// Package challenge manages time-boxed challenges over a set of habits.
package challenge

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

var (
	// ErrNoHabits is returned when a challenge is created without habits.
	ErrNoHabits = errors.New("a challenge needs at least one habit")
	// ErrOutOfRange is returned when a day falls outside the challenge window.
	ErrOutOfRange = errors.New("day is outside the challenge window")
	// ErrFinished is returned when recording a day on a completed challenge.
	ErrFinished = errors.New("challenge already completed")
)

type Service struct {
	store  storage.Provider
	engine *stats.Engine
}

func NewService(store storage.Provider, engine *stats.Engine) *Service {
	return &Service{store: store, engine: engine}
}

// Create starts a challenge from template on the local day containing now.
// Every habit ID must refer to an existing habit.
func (s *Service) Create(template models.ChallengeTemplate, habitIDs []string, now time.Time) (models.Challenge, error) {
	if len(habitIDs) == 0 {
		return models.Challenge{}, ErrNoHabits
	}
	for _, id := range habitIDs {
		if _, err := s.store.GetHabit(id); err != nil {
			return models.Challenge{}, err
		}
	}

	c := models.Challenge{
		ID:            uuid.New().String(),
		Name:          template.Name,
		Description:   template.Description,
		Duration:      template.Duration,
		HabitIDs:      append([]string(nil), habitIDs...),
		StartDate:     s.engine.StartOfDay(now),
		Active:        true,
		CurrentDay:    1,
		CompletedDays: []string{},
	}
	if err := s.store.SaveChallenge(c); err != nil {
		return models.Challenge{}, fmt.Errorf("failed to save challenge: %w", err)
	}
	logger.Debug("Challenge started", "id", c.ID, "name", c.Name, "habits", len(habitIDs))
	return c, nil
}

// RecordDay marks day as done. Recording a day twice is a no-op. CurrentDay
// follows now, capped at the challenge duration, and the challenge completes
// once it holds Duration distinct days.
func (s *Service) RecordDay(id string, day, now time.Time) (models.Challenge, error) {
	c, err := s.store.GetChallenge(id)
	if err != nil {
		return models.Challenge{}, err
	}
	if c.Completed {
		return c, ErrFinished
	}

	offset := s.engine.DaysBetween(c.StartDate, day)
	if offset < 0 || offset >= c.Duration || !day.Before(s.engine.EndOfDay(now)) {
		return c, fmt.Errorf("%w: %s", ErrOutOfRange, s.engine.DayKey(day))
	}

	key := s.engine.DayKey(day)
	if c.HasDay(key) {
		return c, nil
	}

	c.CompletedDays = append(c.CompletedDays, key)
	c.CurrentDay = min(s.engine.DaysBetween(c.StartDate, now)+1, c.Duration)
	if len(c.CompletedDays) >= c.Duration {
		c.Completed = true
		c.Active = false
	}

	if err := s.store.SaveChallenge(c); err != nil {
		return models.Challenge{}, fmt.Errorf("failed to save challenge: %w", err)
	}
	logger.Debug("Challenge day recorded", "id", c.ID, "day", key, "completed", c.Completed)
	return c, nil
}

// Sync records every day, up to and including today, on which all of a
// challenge's habits were completed. It returns the challenges that changed.
func (s *Service) Sync(habits []models.Habit, now time.Time) ([]models.Challenge, error) {
	byID := make(map[string]models.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}

	active, err := s.Active()
	if err != nil {
		return nil, err
	}

	var changed []models.Challenge
	for _, c := range active {
		before := len(c.CompletedDays)
		last := c.EndDate(s.engine.Location())
		if s.engine.StartOfDay(now).Before(last) {
			last = now
		}
		for d := s.engine.StartOfDay(c.StartDate); !d.After(last); d = s.engine.AddDays(d, 1) {
			if c.Completed || c.HasDay(s.engine.DayKey(d)) || !s.allDone(c, byID, d) {
				continue
			}
			if c, err = s.RecordDay(c.ID, d, now); err != nil {
				return nil, err
			}
		}
		if len(c.CompletedDays) != before {
			changed = append(changed, c)
		}
	}
	return changed, nil
}

func (s *Service) allDone(c models.Challenge, habits map[string]models.Habit, day time.Time) bool {
	for _, id := range c.HabitIDs {
		h, ok := habits[id]
		if !ok || len(s.engine.CompletionsInRange(h, day, s.engine.EndOfDay(day))) == 0 {
			return false
		}
	}
	return len(c.HabitIDs) > 0
}

func (s *Service) filter(keep func(models.Challenge) bool) ([]models.Challenge, error) {
	all, err := s.store.GetChallenges()
	if err != nil {
		return nil, err
	}
	out := []models.Challenge{}
	for _, c := range all {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Active returns the running challenges.
func (s *Service) Active() ([]models.Challenge, error) {
	return s.filter(func(c models.Challenge) bool { return c.Active && !c.Completed })
}

// Completed returns the finished challenges.
func (s *Service) Completed() ([]models.Challenge, error) {
	return s.filter(func(c models.Challenge) bool { return c.Completed })
}
