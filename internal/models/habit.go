package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	// ErrInvalidGoal is returned when a habit's goal value is not positive.
	ErrInvalidGoal = errors.New("goal value must be greater than zero")
	// ErrEmptyName is returned when a habit has no name.
	ErrEmptyName = errors.New("habit name cannot be empty")
)

// GoalType describes how a habit's goal value is interpreted
type GoalType string

const (
	// GoalDaysPerWeek targets a number of completions per Monday-first week
	GoalDaysPerWeek GoalType = "days_per_week"
	// GoalConsecutiveDays targets a streak length
	GoalConsecutiveDays GoalType = "consecutive_days"
)

// ParseGoalType parses a goal type name, accepting a few short aliases.
func ParseGoalType(s string) (GoalType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "days_per_week", "days-per-week", "weekly", "week":
		return GoalDaysPerWeek, nil
	case "consecutive_days", "consecutive-days", "streak", "consecutive":
		return GoalConsecutiveDays, nil
	default:
		return "", fmt.Errorf("invalid goal type: %s", s)
	}
}

func (g GoalType) String() string {
	switch g {
	case GoalConsecutiveDays:
		return "consecutive days"
	default:
		return "days per week"
	}
}

// Category groups habits by life area
type Category string

const (
	CategoryHealth     Category = "health"
	CategoryFitness    Category = "fitness"
	CategoryLearning   Category = "learning"
	CategoryWork       Category = "work"
	CategoryPersonal   Category = "personal"
	CategorySocial     Category = "social"
	CategoryCreativity Category = "creativity"
	CategoryFinance    Category = "finance"
	CategoryOther      Category = "other"
)

// Categories lists every known category in display order
var Categories = []Category{
	CategoryHealth,
	CategoryFitness,
	CategoryLearning,
	CategoryWork,
	CategoryPersonal,
	CategorySocial,
	CategoryCreativity,
	CategoryFinance,
	CategoryOther,
}

// ParseCategory parses a category name. An empty string means "no category".
func ParseCategory(s string) (*Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil, nil
	}
	for _, c := range Categories {
		if string(c) == s {
			cat := c
			return &cat, nil
		}
	}
	return nil, fmt.Errorf("invalid category: %s", s)
}

// Habit represents a recurring practice to track
type Habit struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Color       string       `json:"color"`
	Icon        string       `json:"icon"`
	Category    *Category    `json:"category,omitempty"`
	GoalType    GoalType     `json:"goal_type"`
	GoalValue   int          `json:"goal_value"`
	CreatedAt   time.Time    `json:"created_at"`
	ArchivedAt  *time.Time   `json:"archived_at,omitempty"`
	DeletedAt   *time.Time   `json:"deleted_at,omitempty"`
	Completions []Completion `json:"completions,omitempty"`
	Reminders   []Reminder   `json:"reminders,omitempty"`
}

// Validate checks the invariants a habit must satisfy before it is stored.
func (h Habit) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return ErrEmptyName
	}
	if h.GoalValue <= 0 {
		return fmt.Errorf("%w (got %d)", ErrInvalidGoal, h.GoalValue)
	}
	switch h.GoalType {
	case GoalDaysPerWeek, GoalConsecutiveDays:
	default:
		return fmt.Errorf("invalid goal type: %q", h.GoalType)
	}
	return nil
}

// IsArchived reports whether the habit has been archived
func (h Habit) IsArchived() bool {
	return h.ArchivedAt != nil
}

// WithCompletions returns a copy of the habit carrying the given completions,
// sorted ascending by completion time.
func (h Habit) WithCompletions(completions []Completion) Habit {
	sorted := make([]Completion, len(completions))
	copy(sorted, completions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CompletedAt.Before(sorted[j].CompletedAt)
	})
	h.Completions = sorted
	return h
}

// Completion represents a single time a habit was done
type Completion struct {
	ID          string    `json:"id"`
	HabitID     string    `json:"habit_id"`
	CompletedAt time.Time `json:"completed_at"`
	Note        string    `json:"note,omitempty"`
}

// Reminder is a time-of-day prompt for a habit on selected weekdays.
// Weekdays use 1=Sunday..7=Saturday.
type Reminder struct {
	ID        string        `json:"id"`
	HabitID   string        `json:"habit_id"`
	TimeOfDay time.Duration `json:"time_of_day"`
	Weekdays  []int         `json:"weekdays"`
	Enabled   bool          `json:"enabled"`
}

// WeekdayCode converts a time.Weekday into the 1=Sunday..7=Saturday code.
func WeekdayCode(wd time.Weekday) int {
	return int(wd) + 1
}

// ActiveOn reports whether the reminder fires on the given weekday.
// A reminder with no weekdays fires every day.
func (r Reminder) ActiveOn(wd time.Weekday) bool {
	if !r.Enabled {
		return false
	}
	if len(r.Weekdays) == 0 {
		return true
	}
	code := WeekdayCode(wd)
	for _, d := range r.Weekdays {
		if d == code {
			return true
		}
	}
	return false
}

// Clock returns the reminder time formatted as HH:MM.
func (r Reminder) Clock() string {
	minutes := int(r.TimeOfDay / time.Minute)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
