// Package insights turns habit statistics into short, rule-based advice.
package insights

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/stats"
)

// Report collects every insight for a set of habits.
type Report struct {
	Main            string
	Recommendations []string
	Patterns        []string
	Predictions     []string
	Hours           string
}

// Generator derives insights at a fixed reference time.
type Generator struct {
	engine *stats.Engine
	now    time.Time
}

// New returns a generator that evaluates habits with engine at now.
func New(engine *stats.Engine, now time.Time) *Generator {
	return &Generator{engine: engine, now: now}
}

// Report builds the full set of insights.
func (g *Generator) Report(habits []models.Habit) Report {
	return Report{
		Main:            g.MainInsight(habits),
		Recommendations: g.Recommendations(habits),
		Patterns:        g.Patterns(habits),
		Predictions:     g.Predictions(habits),
		Hours:           g.HourRecommendation(habits),
	}
}

// MainInsight summarises the average current streak.
func (g *Generator) MainInsight(habits []models.Habit) string {
	if len(habits) == 0 {
		return "Start tracking habits to get personal insights!"
	}
	avg := g.engine.AverageCurrentStreak(habits, g.now)
	switch {
	case avg >= 7:
		return fmt.Sprintf("Great work! You keep an average streak of %d days. That shows real discipline!", int(avg))
	case avg >= 3:
		return fmt.Sprintf("You're on the right track! An average streak of %d days is a good start. Try to stretch it to a week.", int(avg))
	default:
		return "Track your habits regularly to see real progress. Small steps every day lead to big results!"
	}
}

// Recommendations returns at most one suggestion per habit, or a single
// encouragement when no habit needs attention.
func (g *Generator) Recommendations(habits []models.Habit) []string {
	var out []string
	for _, h := range habits {
		streak := g.engine.CurrentStreak(h, g.now)
		rate := g.engine.OverallCompletionPercentage(h, g.now)
		switch {
		case streak == 0 && rate < 50:
			out = append(out, fmt.Sprintf("Try setting a reminder for %q so you don't forget it", h.Name))
		case rate < 70:
			out = append(out, fmt.Sprintf("For %q, try lowering the goal or picking a more realistic time", h.Name))
		case streak >= 7:
			out = append(out, fmt.Sprintf("%q is going great! Consider adding a related habit", h.Name))
		}
	}
	if len(out) == 0 {
		out = append(out, "Great work! Keep it up")
	}
	return out
}

// Patterns describes the most active weekday and a morning or evening preference.
func (g *Generator) Patterns(habits []models.Habit) []string {
	if stats.TotalCompletions(habits) == 0 {
		return nil
	}

	patterns := []string{
		fmt.Sprintf("You are most active on %s", g.engine.MostActiveDay(habits)),
	}
	if share, ok := g.engine.MorningShare(habits); ok {
		switch {
		case share > 60:
			patterns = append(patterns, fmt.Sprintf("You prefer to complete habits in the morning (%d%%)", int(share)))
		case share < 30:
			patterns = append(patterns, fmt.Sprintf("Most of your habits are completed in the evening (%d%%)", int(100-share)))
		}
	}
	return patterns
}

// Prediction estimates the days until h reaches a 30-day streak. The second
// result is false when the habit is not on pace for a prediction.
func (g *Generator) Prediction(h models.Habit) (int, bool) {
	streak := g.engine.CurrentStreak(h, g.now)
	rate := g.engine.OverallCompletionPercentage(h, g.now)
	if streak < 3 || rate <= 75 {
		return 0, false
	}
	return max(1, 30-streak), true
}

// Predictions returns a line per habit on pace for a 30-day streak.
func (g *Generator) Predictions(habits []models.Habit) []string {
	var out []string
	for _, h := range habits {
		if days, ok := g.Prediction(h); ok {
			out = append(out, fmt.Sprintf("At the current pace, %q will reach a 30-day streak in %d days", h.Name, days))
		}
	}
	if len(out) == 0 {
		out = append(out, "Keep tracking your habits to unlock predictions")
	}
	return out
}

// HourRecommendation suggests when to schedule habits from the busiest hour.
func (g *Generator) HourRecommendation(habits []models.Habit) string {
	top := g.engine.TopHours(habits, 1)
	if len(top) == 0 || top[0].Count == 0 {
		return "Track habits at different times of the day to see activity patterns."
	}
	switch hour := top[0].Hour; {
	case hour < 9:
		return "You are most active early in the morning! Consider morning reminders for new habits."
	case hour < 17:
		return "Your activity is concentrated during the day. A great time for productive habits!"
	default:
		return "You prefer to complete habits in the evening. Make sure you keep enough time and energy for them."
	}
}
