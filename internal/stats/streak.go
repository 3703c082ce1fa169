package stats

import (
	"sort"
	"time"

	"github.com/julianstephens/habitline/internal/models"
)

// IsCompletedToday reports whether any completion falls on now's local day.
func (e *Engine) IsCompletedToday(h models.Habit, now time.Time) bool {
	start, end := e.StartOfDay(now), e.EndOfDay(now)
	for _, c := range h.Completions {
		if inRange(c.CompletedAt, start, end) {
			return true
		}
	}
	return false
}

// CurrentStreak counts consecutive completed days ending today, or ending
// yesterday when today has not been completed yet. Completions after the
// cursor day are ignored, so several completions on one day count once.
func (e *Engine) CurrentStreak(h models.Habit, now time.Time) int {
	if len(h.Completions) == 0 {
		return 0
	}

	sorted := make([]models.Completion, len(h.Completions))
	copy(sorted, h.Completions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CompletedAt.After(sorted[j].CompletedAt)
	})

	cursor := e.StartOfDay(now)
	if !e.IsCompletedToday(h, now) {
		cursor = e.AddDays(cursor, -1)
	}

	streak := 0
	for _, c := range sorted {
		gap := e.DaysBetween(c.CompletedAt, cursor)
		if gap < 0 {
			continue
		}
		if gap > 0 {
			break
		}
		streak++
		cursor = e.AddDays(cursor, -1)
	}
	return streak
}

// BestStreak returns the longest run of consecutive calendar days with at
// least one completion anywhere in the habit's history.
func (e *Engine) BestStreak(h models.Habit) int {
	days := e.distinctDays(h.Completions)
	if len(days) == 0 {
		return 0
	}

	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		if e.DaysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		best = max(best, run)
	}
	return best
}
