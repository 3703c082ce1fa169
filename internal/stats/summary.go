package stats

import (
	"time"

	"github.com/julianstephens/habitline/internal/models"
)

// Summary bundles the per-habit figures shown on a habit's detail view.
type Summary struct {
	HabitID          string
	Name             string
	CompletedToday   bool
	CurrentStreak    int
	BestStreak       int
	Weekly           float64
	Overall          float64
	TotalCompletions int
	PerfectWeek      bool
	PerfectMonth     bool
}

// Summarize computes a Summary for h at now.
func (e *Engine) Summarize(h models.Habit, now time.Time) Summary {
	return Summary{
		HabitID:          h.ID,
		Name:             h.Name,
		CompletedToday:   e.IsCompletedToday(h, now),
		CurrentStreak:    e.CurrentStreak(h, now),
		BestStreak:       e.BestStreak(h),
		Weekly:           e.WeeklyCompletionPercentage(h, now),
		Overall:          e.OverallCompletionPercentage(h, now),
		TotalCompletions: len(h.Completions),
		PerfectWeek:      e.HasPerfectWeek(h, now),
		PerfectMonth:     e.HasPerfectMonth(h, now),
	}
}

// AverageCurrentStreak returns the mean current streak across habits, or 0 for none.
func (e *Engine) AverageCurrentStreak(habits []models.Habit, now time.Time) float64 {
	if len(habits) == 0 {
		return 0
	}
	sum := 0
	for _, h := range habits {
		sum += e.CurrentStreak(h, now)
	}
	return float64(sum) / float64(len(habits))
}

// TotalCompletions counts raw completions across habits.
func TotalCompletions(habits []models.Habit) int {
	n := 0
	for _, h := range habits {
		n += len(h.Completions)
	}
	return n
}

// DaysTracked counts distinct local days with at least one completion across habits.
func (e *Engine) DaysTracked(habits []models.Habit) int {
	var all []models.Completion
	for _, h := range habits {
		all = append(all, h.Completions...)
	}
	return len(e.distinctDays(all))
}
