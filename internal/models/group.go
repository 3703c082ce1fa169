package models

import (
	"errors"
	"slices"
	"strings"
	"time"
)

// ErrEmptyGroupName is returned when a group has no name.
var ErrEmptyGroupName = errors.New("group name cannot be empty")

// HabitGroup collects habits under a shared name, e.g. "Morning".
type HabitGroup struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	HabitIDs    []string  `json:"habit_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

func (g HabitGroup) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyGroupName
	}
	return nil
}

// Has reports whether the habit belongs to the group.
func (g HabitGroup) Has(habitID string) bool {
	return slices.Contains(g.HabitIDs, habitID)
}

// WithHabit returns a copy of the group including habitID. Adding a member
// twice is a no-op.
func (g HabitGroup) WithHabit(habitID string) HabitGroup {
	if g.Has(habitID) {
		return g
	}
	g.HabitIDs = append(slices.Clone(g.HabitIDs), habitID)
	return g
}

// WithoutHabit returns a copy of the group excluding habitID.
func (g HabitGroup) WithoutHabit(habitID string) HabitGroup {
	g.HabitIDs = slices.DeleteFunc(slices.Clone(g.HabitIDs), func(id string) bool { return id == habitID })
	return g
}
