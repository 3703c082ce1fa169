package insights

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/stats"
)

var now = time.Date(2024, time.March, 13, 20, 0, 0, 0, time.UTC)

func habit(name string, createdDaysAgo int, hour int, completedDaysAgo ...int) models.Habit {
	h := models.Habit{
		ID:        name,
		Name:      name,
		GoalType:  models.GoalDaysPerWeek,
		GoalValue: 7,
		CreatedAt: now.AddDate(0, 0, -createdDaysAgo),
	}
	for _, d := range completedDaysAgo {
		y, m, day := now.AddDate(0, 0, -d).Date()
		h.Completions = append(h.Completions, models.Completion{CompletedAt: time.Date(y, m, day, hour, 0, 0, 0, time.UTC)})
	}
	return h
}

func newGen() *Generator {
	return New(stats.New(time.UTC), now)
}

func TestMainInsight(t *testing.T) {
	g := newGen()
	tests := []struct {
		name   string
		habits []models.Habit
		prefix string
	}{
		{"no habits", nil, "Start tracking"},
		{"long streaks", []models.Habit{habit("a", 10, 8, 0, 1, 2, 3, 4, 5, 6, 7)}, "Great work! You keep an average streak of 8 days"},
		{"short streaks", []models.Habit{habit("a", 10, 8, 0, 1, 2, 3), habit("b", 10, 8, 0, 1)}, "You're on the right track! An average streak of 3 days"},
		{"no streaks", []models.Habit{habit("a", 10, 8)}, "Track your habits regularly"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.MainInsight(tt.habits); !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("MainInsight() = %q, want prefix %q", got, tt.prefix)
			}
		})
	}
}

func TestRecommendations(t *testing.T) {
	g := newGen()

	got := g.Recommendations([]models.Habit{
		habit("idle", 10, 8),
		habit("patchy", 10, 8, 0, 2, 4, 6),
		habit("strong", 8, 8, 0, 1, 2, 3, 4, 5, 6, 7),
	})
	if len(got) != 3 {
		t.Fatalf("Recommendations() = %v", got)
	}
	if !strings.Contains(got[0], "reminder") || !strings.Contains(got[1], "lowering the goal") || !strings.Contains(got[2], "going great") {
		t.Errorf("Recommendations() = %v", got)
	}

	if got := g.Recommendations(nil); len(got) != 1 || got[0] != "Great work! Keep it up" {
		t.Errorf("Recommendations(nil) = %v", got)
	}
}

func TestPatterns(t *testing.T) {
	g := newGen()
	if got := g.Patterns([]models.Habit{habit("a", 5, 8)}); got != nil {
		t.Errorf("Patterns() without completions = %v", got)
	}

	morning := g.Patterns([]models.Habit{habit("a", 10, 7, 0, 1, 2)})
	if len(morning) != 2 || !strings.Contains(morning[1], "morning (100%)") {
		t.Errorf("Patterns() = %v", morning)
	}

	evening := g.Patterns([]models.Habit{habit("a", 10, 21, 0, 7)})
	if len(evening) != 2 || !strings.Contains(evening[0], "Wednesday") || !strings.Contains(evening[1], "evening (100%)") {
		t.Errorf("Patterns() = %v", evening)
	}
}

func TestPredictions(t *testing.T) {
	g := newGen()

	onPace := habit("a", 5, 8, 0, 1, 2, 3, 4)
	days, ok := g.Prediction(onPace)
	if !ok || days != 25 {
		t.Errorf("Prediction() = %d, %v, want 25, true", days, ok)
	}
	if _, ok := g.Prediction(habit("b", 30, 8, 0, 1, 2, 3)); ok {
		t.Error("Prediction() should require a success rate above 75%")
	}

	got := g.Predictions([]models.Habit{onPace})
	if len(got) != 1 || !strings.Contains(got[0], "in 25 days") {
		t.Errorf("Predictions() = %v", got)
	}
	if got := g.Predictions(nil); len(got) != 1 || !strings.HasPrefix(got[0], "Keep tracking") {
		t.Errorf("Predictions(nil) = %v", got)
	}
}

func TestHourRecommendation(t *testing.T) {
	g := newGen()
	tests := []struct {
		hour int
		want string
	}{
		{6, "early in the morning"},
		{13, "during the day"},
		{19, "in the evening"},
	}
	for _, tt := range tests {
		got := g.HourRecommendation([]models.Habit{habit("a", 3, tt.hour, 1)})
		if !strings.Contains(got, tt.want) {
			t.Errorf("HourRecommendation(hour %d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
	if got := g.HourRecommendation(nil); !strings.HasPrefix(got, "Track habits") {
		t.Errorf("HourRecommendation(nil) = %q", got)
	}

	r := g.Report([]models.Habit{habit("a", 3, 7, 0, 1)})
	if r.Main == "" || r.Hours == "" || len(r.Recommendations) == 0 {
		t.Errorf("Report() = %+v", r)
	}
}
