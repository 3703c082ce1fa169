package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrSelfTrigger is returned when a trigger points a habit at itself.
	ErrSelfTrigger = errors.New("a trigger cannot target its own habit")
	// ErrInvalidThreshold is returned when a streak trigger has no positive threshold.
	ErrInvalidThreshold = errors.New("streak threshold must be greater than zero")
)

// TriggerCondition is the state of the source habit that fires a trigger.
type TriggerCondition string

const (
	TriggerCompleted     TriggerCondition = "completed"
	TriggerNotCompleted  TriggerCondition = "not_completed"
	TriggerStreakReached TriggerCondition = "streak_reached"
	TriggerStreakBroken  TriggerCondition = "streak_broken"
)

// TriggerConditions lists every condition in display order
var TriggerConditions = []TriggerCondition{
	TriggerCompleted,
	TriggerNotCompleted,
	TriggerStreakReached,
	TriggerStreakBroken,
}

// ParseTriggerCondition parses a condition name, accepting dashes for underscores.
func ParseTriggerCondition(s string) (TriggerCondition, error) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for _, c := range TriggerConditions {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid trigger condition: %s", s)
}

// Describe renders the condition for a habit name, e.g. "Read reaches a 7-day streak".
func (c TriggerCondition) Describe(habit string, threshold int) string {
	switch c {
	case TriggerCompleted:
		return habit + " is completed"
	case TriggerNotCompleted:
		return habit + " is not completed"
	case TriggerStreakReached:
		return fmt.Sprintf("%s reaches a %d-day streak", habit, threshold)
	case TriggerStreakBroken:
		return habit + " loses its streak"
	default:
		return habit + " " + string(c)
	}
}

// Trigger links two habits: when the source habit meets Condition, the
// target habit is suggested next. Threshold only applies to streak_reached.
type Trigger struct {
	ID            string           `json:"id"`
	SourceHabitID string           `json:"source_habit_id"`
	TargetHabitID string           `json:"target_habit_id"`
	Condition     TriggerCondition `json:"condition"`
	Threshold     int              `json:"threshold,omitempty"`
	Enabled       bool             `json:"enabled"`
	CreatedAt     time.Time        `json:"created_at"`
}

func (t Trigger) Validate() error {
	if t.SourceHabitID == t.TargetHabitID {
		return ErrSelfTrigger
	}
	if _, err := ParseTriggerCondition(string(t.Condition)); err != nil {
		return err
	}
	if t.Condition == TriggerStreakReached && t.Threshold <= 0 {
		return ErrInvalidThreshold
	}
	return nil
}
