package stats

import (
	"time"

	"github.com/julianstephens/habitline/internal/models"
)

// WeeklyCompletionPercentage returns this week's raw completion count as a
// percentage of the goal value, clamped to [0,100]. It is 0 until a whole day
// of the week has elapsed.
func (e *Engine) WeeklyCompletionPercentage(h models.Habit, now time.Time) float64 {
	if h.GoalValue <= 0 {
		return 0
	}
	weekStart := e.StartOfWeek(now)
	if wholeDays(weekStart, now) <= 0 {
		return 0
	}
	count := e.countInRange(h, weekStart, e.EndOfDay(now))
	return clampPercent(float64(count) / float64(h.GoalValue) * 100)
}

// OverallCompletionPercentage returns completions per whole day since creation
// as a percentage, clamped to [0,100].
func (e *Engine) OverallCompletionPercentage(h models.Habit, now time.Time) float64 {
	days := wholeDays(h.CreatedAt, now)
	if days <= 0 {
		return 0
	}
	return clampPercent(float64(len(h.Completions)) / float64(days) * 100)
}

// WeeklyHistory returns per-week completion percentages for the last weeks
// Monday-first weeks, oldest first, the last entry being the current week.
func (e *Engine) WeeklyHistory(h models.Habit, now time.Time, weeks int) []float64 {
	if weeks <= 0 {
		return nil
	}
	current := e.StartOfWeek(now)
	out := make([]float64, weeks)
	for i := 0; i < weeks; i++ {
		start := e.AddDays(current, -7*(weeks-1-i))
		count := e.countInRange(h, start, e.AddDays(start, 7))
		out[i] = e.weekScore(h, count)
	}
	return out
}

func (e *Engine) weekScore(h models.Habit, count int) float64 {
	if h.GoalValue <= 0 {
		return 0
	}
	if h.GoalType == models.GoalConsecutiveDays {
		if count >= h.GoalValue {
			return 100
		}
		return 0
	}
	return clampPercent(float64(count) / float64(h.GoalValue) * 100)
}

// HasPerfectWeek reports whether this week's completions have reached the goal value.
func (e *Engine) HasPerfectWeek(h models.Habit, now time.Time) bool {
	if h.GoalValue <= 0 {
		return false
	}
	return e.countInRange(h, e.StartOfWeek(now), e.EndOfDay(now)) >= h.GoalValue
}

// HasPerfectMonth reports whether this month's completions have reached the
// monthly target: four weeks of goal for DaysPerWeek habits and every day of
// the month for ConsecutiveDays habits.
func (e *Engine) HasPerfectMonth(h models.Habit, now time.Time) bool {
	if h.GoalValue <= 0 {
		return false
	}
	monthStart := e.StartOfMonth(now)
	count := e.countInRange(h, monthStart, e.EndOfDay(now))
	if h.GoalType == models.GoalConsecutiveDays {
		return count >= e.DaysBetween(monthStart, e.AddMonths(monthStart, 1))
	}
	return count >= h.GoalValue*4
}
