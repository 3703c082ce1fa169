// Package group manages named collections of habits.
package group

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/logger"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage"
)

// ErrExists is returned when creating a group whose name is taken.
var ErrExists = errors.New("a group with that name already exists")

type Service struct {
	store storage.Provider
}

func NewService(store storage.Provider) *Service {
	return &Service{store: store}
}

// Create stores a new empty group. Color and icon fall back to defaults.
func (s *Service) Create(g models.HabitGroup, now time.Time) (models.HabitGroup, error) {
	g.Name = strings.TrimSpace(g.Name)
	if err := g.Validate(); err != nil {
		return models.HabitGroup{}, err
	}
	if _, err := s.store.GetGroupByName(g.Name); err == nil {
		return models.HabitGroup{}, fmt.Errorf("%w: %s", ErrExists, g.Name)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.HabitGroup{}, err
	}

	g.ID = uuid.New().String()
	g.CreatedAt = now
	g.HabitIDs = nil
	if g.Color == "" {
		g.Color = constants.DefaultHabitColor
	}
	if g.Icon == "" {
		g.Icon = constants.DefaultGroupIcon
	}
	if err := s.store.SaveGroup(g); err != nil {
		return models.HabitGroup{}, err
	}
	logger.Debug("Group created", "id", g.ID, "name", g.Name)
	return g, nil
}

// Find resolves a group by ID, then by case-insensitive name.
func (s *Service) Find(ref string) (models.HabitGroup, error) {
	g, err := s.store.GetGroup(ref)
	if err == nil || !errors.Is(err, storage.ErrNotFound) {
		return g, err
	}
	return s.store.GetGroupByName(ref)
}

// Assign adds the habit to the group. Assigning twice is a no-op.
func (s *Service) Assign(ref string, h models.Habit) (models.HabitGroup, error) {
	return s.update(ref, func(g models.HabitGroup) models.HabitGroup { return g.WithHabit(h.ID) })
}

// Unassign removes the habit from the group.
func (s *Service) Unassign(ref string, h models.Habit) (models.HabitGroup, error) {
	g, err := s.Find(ref)
	if err != nil {
		return models.HabitGroup{}, err
	}
	if !g.Has(h.ID) {
		return models.HabitGroup{}, fmt.Errorf("%s is not in group %s: %w", h.Name, g.Name, storage.ErrNotFound)
	}
	return s.update(g.ID, func(g models.HabitGroup) models.HabitGroup { return g.WithoutHabit(h.ID) })
}

func (s *Service) update(ref string, change func(models.HabitGroup) models.HabitGroup) (models.HabitGroup, error) {
	g, err := s.Find(ref)
	if err != nil {
		return models.HabitGroup{}, err
	}
	g = change(g)
	if err := s.store.SaveGroup(g); err != nil {
		return models.HabitGroup{}, err
	}
	return g, nil
}

// Delete removes the group. Its habits are kept.
func (s *Service) Delete(ref string) (models.HabitGroup, error) {
	g, err := s.Find(ref)
	if err != nil {
		return models.HabitGroup{}, err
	}
	if err := s.store.DeleteGroup(g.ID); err != nil {
		return models.HabitGroup{}, err
	}
	logger.Debug("Group deleted", "id", g.ID, "name", g.Name)
	return g, nil
}

func (s *Service) List() ([]models.HabitGroup, error) {
	return s.store.GetGroups()
}

// Members returns the group's habits from habits in group order. Members
// missing from habits (archived or deleted) are skipped.
func Members(g models.HabitGroup, habits []models.Habit) []models.Habit {
	byID := make(map[string]models.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}
	var out []models.Habit
	for _, id := range g.HabitIDs {
		if h, ok := byID[id]; ok {
			out = append(out, h)
		}
	}
	return out
}
