package models

import (
	"time"

	"github.com/julianstephens/habitline/internal/constants"
)

// AchievementType identifies an unlockable achievement
type AchievementType string

const (
	AchievementFirstHabit         AchievementType = "first_habit"
	AchievementWeekStreak         AchievementType = "week_streak"
	AchievementMonthStreak        AchievementType = "month_streak"
	AchievementQuarterStreak      AchievementType = "quarter_streak"
	AchievementYearStreak         AchievementType = "year_streak"
	AchievementPerfectWeek        AchievementType = "perfect_week"
	AchievementPerfectMonth       AchievementType = "perfect_month"
	AchievementHundredCompletions AchievementType = "hundred_completions"
)

// AchievementTypes lists every achievement in display order
var AchievementTypes = []AchievementType{
	AchievementFirstHabit,
	AchievementWeekStreak,
	AchievementMonthStreak,
	AchievementQuarterStreak,
	AchievementYearStreak,
	AchievementPerfectWeek,
	AchievementPerfectMonth,
	AchievementHundredCompletions,
}

// Title returns the display title of the achievement type
func (a AchievementType) Title() string {
	switch a {
	case AchievementFirstHabit:
		return "First Habit"
	case AchievementWeekStreak:
		return "Week Streak"
	case AchievementMonthStreak:
		return "Month Streak"
	case AchievementQuarterStreak:
		return "Quarter Streak"
	case AchievementYearStreak:
		return "Year Streak"
	case AchievementPerfectWeek:
		return "Perfect Week"
	case AchievementPerfectMonth:
		return "Perfect Month"
	case AchievementHundredCompletions:
		return "Hundred Completions"
	default:
		return string(a)
	}
}

// Description explains how the achievement is earned
func (a AchievementType) Description() string {
	switch a {
	case AchievementFirstHabit:
		return "Create your first habit"
	case AchievementWeekStreak:
		return "Keep a streak for 7 consecutive days"
	case AchievementMonthStreak:
		return "Keep a streak for 30 consecutive days"
	case AchievementQuarterStreak:
		return "Keep a streak for 90 consecutive days"
	case AchievementYearStreak:
		return "Keep a streak for 365 consecutive days"
	case AchievementPerfectWeek:
		return "Complete all goals in a week"
	case AchievementPerfectMonth:
		return "Complete all goals in a month"
	case AchievementHundredCompletions:
		return "Complete a habit 100 times"
	default:
		return ""
	}
}

// Achievement is an unlocked achievement. HabitID is empty for global achievements.
type Achievement struct {
	ID         string          `json:"id"`
	Type       AchievementType `json:"type"`
	HabitID    string          `json:"habit_id,omitempty"`
	UnlockedAt time.Time       `json:"unlocked_at"`
	Value      int             `json:"value,omitempty"`
}

// UserProgress tracks gamification totals across all habits
type UserProgress struct {
	TotalPoints      int      `json:"total_points"`
	Level            int      `json:"level"`
	DaysTracked      int      `json:"days_tracked"`
	TotalCompletions int      `json:"total_completions"`
	LongestStreak    int      `json:"longest_streak"`
	Badges           []string `json:"badges"`
}

// NewUserProgress returns the starting progress for a new user
func NewUserProgress() UserProgress {
	return UserProgress{Level: 1}
}

// PointsToNextLevel returns how many points remain until the next level
func (p UserProgress) PointsToNextLevel() int {
	return constants.PointsPerLevel - (p.TotalPoints % constants.PointsPerLevel)
}

// LevelProgress returns the fraction of the current level completed, in [0,1)
func (p UserProgress) LevelProgress() float64 {
	return float64(p.TotalPoints%constants.PointsPerLevel) / float64(constants.PointsPerLevel)
}

// HasBadge reports whether the named badge has been earned
func (p UserProgress) HasBadge(name string) bool {
	for _, b := range p.Badges {
		if b == name {
			return true
		}
	}
	return false
}
