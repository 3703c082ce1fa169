package gamification

import (
	"time"

	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/stats"
)

var streakAchievements = []struct {
	kind      models.AchievementType
	threshold int
}{
	{models.AchievementWeekStreak, 7},
	{models.AchievementMonthStreak, 30},
	{models.AchievementQuarterStreak, 90},
	{models.AchievementYearStreak, 365},
}

// CheckAchievements returns the achievements h has newly earned at now.
// Achievements already present in existing for the same habit are skipped.
// IDs are left for the caller to assign.
func CheckAchievements(engine *stats.Engine, h models.Habit, now time.Time, existing []models.Achievement) []models.Achievement {
	var out []models.Achievement
	add := func(kind models.AchievementType, value int) {
		if has(existing, kind, h.ID) {
			return
		}
		out = append(out, models.Achievement{Type: kind, HabitID: h.ID, UnlockedAt: now, Value: value})
	}

	streak := engine.CurrentStreak(h, now)
	for _, s := range streakAchievements {
		if streak >= s.threshold {
			add(s.kind, s.threshold)
		}
	}
	if len(h.Completions) >= 100 {
		add(models.AchievementHundredCompletions, 100)
	}
	if engine.HasPerfectWeek(h, now) {
		add(models.AchievementPerfectWeek, 0)
	}
	if engine.HasPerfectMonth(h, now) {
		add(models.AchievementPerfectMonth, 0)
	}
	return out
}

// CheckGlobalAchievements returns achievements that depend on all habits.
func CheckGlobalAchievements(habits []models.Habit, existing []models.Achievement, now time.Time) []models.Achievement {
	if len(habits) == 0 {
		return nil
	}
	for _, a := range existing {
		if a.Type == models.AchievementFirstHabit {
			return nil
		}
	}
	return []models.Achievement{{Type: models.AchievementFirstHabit, UnlockedAt: now}}
}

func has(existing []models.Achievement, kind models.AchievementType, habitID string) bool {
	for _, a := range existing {
		if a.Type == kind && a.HabitID == habitID {
			return true
		}
	}
	return false
}
