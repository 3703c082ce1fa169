package stats

import (
	"sort"
	"time"

	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/models"
)

// HourCount is the number of completions in one local hour of the day.
type HourCount struct {
	Hour  int
	Count int
}

// HourOfDayHistogram counts completions by local hour across the full history
// of every habit.
func (e *Engine) HourOfDayHistogram(habits []models.Habit) [24]int {
	var hist [24]int
	for _, h := range habits {
		for _, c := range h.Completions {
			hist[c.CompletedAt.In(e.loc).Hour()]++
		}
	}
	return hist
}

// WeekdayHistogram counts completions by local weekday. Index 0 is Sunday.
func (e *Engine) WeekdayHistogram(habits []models.Habit) [7]int {
	var hist [7]int
	for _, h := range habits {
		for _, c := range h.Completions {
			hist[c.CompletedAt.In(e.loc).Weekday()]++
		}
	}
	return hist
}

// MostActiveDay returns the weekday with the most completions. Ties resolve
// to the earliest weekday starting from Sunday.
func (e *Engine) MostActiveDay(habits []models.Habit) time.Weekday {
	hist := e.WeekdayHistogram(habits)
	best := 0
	for i := 1; i < len(hist); i++ {
		if hist[i] > hist[best] {
			best = i
		}
	}
	return time.Weekday(best)
}

// LeastActiveDay returns the weekday with the fewest completions. Ties resolve
// to the earliest weekday starting from Sunday.
func (e *Engine) LeastActiveDay(habits []models.Habit) time.Weekday {
	hist := e.WeekdayHistogram(habits)
	worst := 0
	for i := 1; i < len(hist); i++ {
		if hist[i] < hist[worst] {
			worst = i
		}
	}
	return time.Weekday(worst)
}

// TopHours returns up to limit hours ordered by descending count, ties by hour.
// Hours without completions are included when fewer than limit hours have any.
func (e *Engine) TopHours(habits []models.Habit, limit int) []HourCount {
	if limit <= 0 {
		return nil
	}
	hist := e.HourOfDayHistogram(habits)
	hours := make([]HourCount, 0, len(hist))
	for hour, count := range hist {
		hours = append(hours, HourCount{Hour: hour, Count: count})
	}
	sort.SliceStable(hours, func(i, j int) bool {
		return hours[i].Count > hours[j].Count
	})
	return hours[:min(limit, len(hours))]
}

// MorningShare returns the percentage of completions logged before noon.
// The second result is false when there are no completions.
func (e *Engine) MorningShare(habits []models.Habit) (float64, bool) {
	total, morning := 0, 0
	for _, h := range habits {
		for _, c := range h.Completions {
			total++
			if c.CompletedAt.In(e.loc).Hour() < constants.MorningCutoffHour {
				morning++
			}
		}
	}
	if total == 0 {
		return 0, false
	}
	return float64(morning) / float64(total) * 100, true
}
