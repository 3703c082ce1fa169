package stats

import (
	"time"

	"github.com/julianstephens/habitline/internal/models"
)

// MonthStats aggregates completions of a set of habits over one calendar month.
type MonthStats struct {
	Start            time.Time
	End              time.Time
	Days             int
	TotalCompletions int
	AverageStreak    float64
	SuccessRate      float64
}

// HabitMonthCount is a single habit's completion count in the current and
// previous month.
type HabitMonthCount struct {
	HabitID  string
	Name     string
	Current  int
	Previous int
}

// MonthComparison compares the current month so far with the previous month.
type MonthComparison struct {
	Current  MonthStats
	Previous MonthStats
	PerHabit []HabitMonthCount
}

// Difference returns the change in total completions from the previous month.
func (m MonthComparison) Difference() int {
	return m.Current.TotalCompletions - m.Previous.TotalCompletions
}

// SuccessRateDelta returns the change in success rate in percentage points.
func (m MonthComparison) SuccessRateDelta() float64 {
	return m.Current.SuccessRate - m.Previous.SuccessRate
}

// MonthOverMonth compares [monthStart, endOfToday) with the whole previous
// month, so today counts toward the current month's days. The success rate is total / (sum of goal values * days / 7) * 100,
// with the expected count truncated to an integer. Only the current month
// reports an average streak.
func (e *Engine) MonthOverMonth(habits []models.Habit, now time.Time) MonthComparison {
	monthStart := e.StartOfMonth(now)
	prevStart := e.AddMonths(monthStart, -1)

	current := e.monthStats(habits, monthStart, e.EndOfDay(now))
	previous := e.monthStats(habits, prevStart, monthStart)

	current.AverageStreak = e.AverageCurrentStreak(habits, now)

	perHabit := make([]HabitMonthCount, 0, len(habits))
	for _, h := range habits {
		perHabit = append(perHabit, HabitMonthCount{
			HabitID:  h.ID,
			Name:     h.Name,
			Current:  e.countInRange(h, current.Start, current.End),
			Previous: e.countInRange(h, previous.Start, previous.End),
		})
	}

	return MonthComparison{Current: current, Previous: previous, PerHabit: perHabit}
}

func (e *Engine) monthStats(habits []models.Habit, start, end time.Time) MonthStats {
	ms := MonthStats{Start: start, End: end, Days: e.DaysBetween(start, end)}
	goalSum := 0
	for _, h := range habits {
		ms.TotalCompletions += e.countInRange(h, start, end)
		goalSum += h.GoalValue
	}
	expected := goalSum * ms.Days / 7
	if expected > 0 {
		ms.SuccessRate = float64(ms.TotalCompletions) / float64(expected) * 100
	}
	return ms
}
