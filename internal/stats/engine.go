// Package stats computes derived statistics over a habit's completion history.
//
// Every operation is a pure function of its inputs, a reference instant and the
// engine's location. Days start at local midnight and weeks start on Monday.
package stats

import (
	"sort"
	"time"

	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/models"
)

// Engine evaluates habit statistics in a fixed time zone. It holds no other state
// and is safe for concurrent use.
type Engine struct {
	loc *time.Location
}

// New returns an engine bound to loc. A nil location means UTC.
func New(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{loc: loc}
}

// Location returns the engine's time zone.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// StartOfDay returns the first instant of the local day containing t. That is
// local midnight, or the end of the DST gap in zones that skip midnight.
func (e *Engine) StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(e.loc).Date()
	return e.firstInstant(y, m, d)
}

// firstInstant returns the start of the local day y-m-d. Out-of-range values
// normalise the way time.Date does.
func (e *Engine) firstInstant(y int, m time.Month, d int) time.Time {
	midnight := time.Date(y, m, d, 0, 0, 0, 0, e.loc)
	noon := time.Date(y, m, d, 12, 0, 0, 0, e.loc)
	if sameDate(midnight, noon) {
		return midnight
	}
	// midnight fell in a gap and was pushed back into the previous day
	_, end := midnight.ZoneBounds()
	return end
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayBucket truncates t to its local day.
func (e *Engine) DayBucket(t time.Time) time.Time {
	return e.StartOfDay(t)
}

// AddDays returns the start of the local day n days after t's day.
func (e *Engine) AddDays(t time.Time, n int) time.Time {
	y, m, d := t.In(e.loc).Date()
	return e.firstInstant(y, m, d+n)
}

// StartOfWeek returns the start of Monday of the week containing t.
func (e *Engine) StartOfWeek(t time.Time) time.Time {
	offset := (int(t.In(e.loc).Weekday()) + 6) % 7
	return e.AddDays(t, -offset)
}

// StartOfMonth returns the start of the first day of t's month.
func (e *Engine) StartOfMonth(t time.Time) time.Time {
	return e.AddMonths(t, 0)
}

// AddMonths returns the start of the first day of the month n months after t's.
func (e *Engine) AddMonths(t time.Time, n int) time.Time {
	y, m, _ := t.In(e.loc).Date()
	return e.firstInstant(y, m+time.Month(n), 1)
}

// EndOfDay returns the exclusive end of t's local day (the start of the next).
func (e *Engine) EndOfDay(t time.Time) time.Time {
	return e.AddDays(t, 1)
}

// DayKey formats t's local day as YYYY-MM-DD.
func (e *Engine) DayKey(t time.Time) string {
	return t.In(e.loc).Format(constants.DateFormat)
}

// CompletionsInRange returns the completions with start <= CompletedAt < end,
// in their original order.
func (e *Engine) CompletionsInRange(h models.Habit, start, end time.Time) []models.Completion {
	var out []models.Completion
	for _, c := range h.Completions {
		if inRange(c.CompletedAt, start, end) {
			out = append(out, c)
		}
	}
	return out
}

func (e *Engine) countInRange(h models.Habit, start, end time.Time) int {
	n := 0
	for _, c := range h.Completions {
		if inRange(c.CompletedAt, start, end) {
			n++
		}
	}
	return n
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// wholeDays counts complete 24h periods between from and to.
func wholeDays(from, to time.Time) int {
	return int(to.Sub(from) / constants.Day)
}

// civil maps t's local date onto UTC midnight, where every day is 24h long.
func (e *Engine) civil(t time.Time) time.Time {
	y, m, d := t.In(e.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts the local calendar days going from a's day to b's day.
// It is negative when b falls on an earlier day than a.
func (e *Engine) DaysBetween(a, b time.Time) int {
	return int(e.civil(b).Sub(e.civil(a)) / constants.Day)
}

// distinctDays returns the distinct local day buckets of the completions, ascending.
func (e *Engine) distinctDays(completions []models.Completion) []time.Time {
	seen := make(map[string]struct{}, len(completions))
	days := make([]time.Time, 0, len(completions))
	for _, c := range completions {
		key := e.DayKey(c.CompletedAt)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		days = append(days, e.DayBucket(c.CompletedAt))
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func clampPercent(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
