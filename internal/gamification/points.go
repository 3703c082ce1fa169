// Package gamification awards points, levels, badges and achievements from
// habit statistics. It performs no I/O; callers persist the results.
package gamification

import (
	"time"

	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/stats"
)

// Point rewards
const (
	PointsDailyCompletion = 10
	PointsStreakDay       = 5
	PointsStreakWeek      = 50
	PointsStreakMonth     = 200
	PointsPerfectWeek     = 100
	PointsAchievement     = 500
)

// Badge names stored in UserProgress.Badges
const (
	BadgeWeekStreak         = "WEEK_STREAK"
	BadgeMonthStreak        = "MONTH_STREAK"
	BadgeHundredCompletions = "HUNDRED_COMPLETIONS"
)

// Points returns the reward for completing h at now. h must already include
// the new completion.
func Points(engine *stats.Engine, h models.Habit, now time.Time) int {
	points := PointsDailyCompletion

	streak := engine.CurrentStreak(h, now)
	if streak > 0 {
		points += PointsStreakDay
		if streak%7 == 0 {
			points += PointsStreakWeek
		}
		if streak%30 == 0 {
			points += PointsStreakMonth
		}
	}

	if engine.HasPerfectWeek(h, now) {
		points += PointsPerfectWeek
	}
	return points
}

// LevelFor returns the level reached with the given points. Levels start at 1.
func LevelFor(points int) int {
	if points < 0 {
		return 1
	}
	return points/constants.PointsPerLevel + 1
}

// ApplyCompletion returns progress updated for a new completion of h.
func ApplyCompletion(progress models.UserProgress, engine *stats.Engine, h models.Habit, now time.Time) models.UserProgress {
	progress.TotalPoints += Points(engine, h, now)
	progress.TotalCompletions++
	progress.LongestStreak = max(progress.LongestStreak, engine.CurrentStreak(h, now))
	progress.Level = LevelFor(progress.TotalPoints)
	return progress
}

// AwardBadges adds any newly earned badges for h, each worth PointsAchievement.
func AwardBadges(progress models.UserProgress, engine *stats.Engine, h models.Habit, now time.Time) (models.UserProgress, []string) {
	streak := engine.CurrentStreak(h, now)
	candidates := []struct {
		badge  string
		earned bool
	}{
		{BadgeWeekStreak, streak >= 7},
		{BadgeMonthStreak, streak >= 30},
		{BadgeHundredCompletions, len(h.Completions) >= 100},
	}

	badges := append([]string(nil), progress.Badges...)
	var awarded []string
	for _, c := range candidates {
		if !c.earned || progress.HasBadge(c.badge) {
			continue
		}
		badges = append(badges, c.badge)
		awarded = append(awarded, c.badge)
		progress.TotalPoints += PointsAchievement
	}
	progress.Badges = badges
	progress.Level = LevelFor(progress.TotalPoints)
	return progress, awarded
}
