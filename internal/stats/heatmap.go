package stats

import (
	"time"

	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/models"
)

// HeatDay is one calendar day of a heat map.
type HeatDay struct {
	Date      time.Time
	Count     int
	Intensity float64
}

// HeatWeek is a Monday-first row of seven cells. Cells outside the year are nil.
type HeatWeek struct {
	Number int
	Days   [7]*HeatDay
}

// HeatMap lays out every day of year in Monday-first weeks. Intensity is the
// day's completion count divided by the saturation count, capped at 1.
func (e *Engine) HeatMap(h models.Habit, year int) []HeatWeek {
	yearStart := e.firstInstant(year, time.January, 1)
	yearEnd := e.firstInstant(year+1, time.January, 1)

	counts := make(map[string]int)
	for _, c := range e.CompletionsInRange(h, yearStart, yearEnd) {
		counts[e.DayKey(c.CompletedAt)]++
	}

	var weeks []HeatWeek
	week := HeatWeek{Number: 1}
	slot := (int(yearStart.Weekday()) + 6) % 7
	for d := yearStart; d.Before(yearEnd); d = e.AddDays(d, 1) {
		n := counts[e.DayKey(d)]
		week.Days[slot] = &HeatDay{
			Date:      d,
			Count:     n,
			Intensity: min(float64(n)/constants.HeatMapSaturation, 1),
		}
		slot++
		if slot == 7 {
			weeks = append(weeks, week)
			week = HeatWeek{Number: week.Number + 1}
			slot = 0
		}
	}
	if slot > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}
