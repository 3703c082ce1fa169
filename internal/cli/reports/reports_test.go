package reports

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage/sqlite"
	"github.com/julianstephens/habitline/internal/tracker"
)

// Wednesday, 13 March 2024 15:00 UTC.
var refNow = time.Date(2024, 3, 13, 15, 0, 0, 0, time.UTC)

func setupTestReportDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:    store,
		Clock:    &tracker.FixedClock{T: refNow},
		Out:      out,
		Timezone: "UTC",
	}
	if err := ctx.Load(); err != nil {
		t.Fatalf("failed to load context: %v", err)
	}
	return ctx, out
}

// seed adds a habit and backfills it on each of the given days before today.
func seed(t *testing.T, ctx *cli.Context, name string, daysAgo ...int) models.Habit {
	t.Helper()
	tr := ctx.Tracker()
	h, err := tr.AddHabit(models.Habit{Name: name, GoalType: models.GoalDaysPerWeek, GoalValue: 5})
	if err != nil {
		t.Fatalf("AddHabit(%s): %v", name, err)
	}
	for _, n := range daysAgo {
		if _, err := tr.CompleteOn(h.ID, refNow.AddDate(0, 0, -n), ""); err != nil {
			t.Fatalf("CompleteOn(%s, -%d): %v", name, n, err)
		}
	}
	return h
}

func TestStatsCmd(t *testing.T) {
	ctx, out := setupTestReportDB(t)

	if err := (&StatsCmd{}).Run(ctx); err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if !strings.Contains(out.String(), "No habits found") {
		t.Errorf("unexpected output: %q", out.String())
	}

	seed(t, ctx, "Read", 1, 2, 3)
	seed(t, ctx, "Walk", 1)

	out.Reset()
	if err := (&StatsCmd{}).Run(ctx); err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Read", "Walk", "3 (3)", "Total completions", "Most active day"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	out.Reset()
	if err := (&StatsCmd{Habit: "Walk"}).Run(ctx); err != nil {
		t.Fatalf("stats for one habit failed: %v", err)
	}
	if got := out.String(); strings.Contains(got, "Read") || strings.Contains(got, "Total completions") {
		t.Errorf("single-habit stats should not include other habits or totals:\n%s", got)
	}

	if err := (&StatsCmd{Habit: "Ghost"}).Run(ctx); err == nil {
		t.Error("expected error for unknown habit")
	}
}

func TestInsightsCmd(t *testing.T) {
	ctx, out := setupTestReportDB(t)

	if err := (&InsightsCmd{}).Run(ctx); err != nil {
		t.Fatalf("insights failed: %v", err)
	}
	if !strings.Contains(out.String(), "Start tracking habits") {
		t.Errorf("unexpected output for no habits: %q", out.String())
	}

	seed(t, ctx, "Read", 1, 2, 3, 4, 5, 6, 7, 8)
	out.Reset()
	if err := (&InsightsCmd{}).Run(ctx); err != nil {
		t.Fatalf("insights failed: %v", err)
	}
	if !strings.Contains(out.String(), "Great work!") {
		t.Errorf("expected streak praise:\n%s", out.String())
	}
}

func TestCompareCmd(t *testing.T) {
	ctx, out := setupTestReportDB(t)
	// 1, 2 and 3 days ago are in March; 20 and 25 days ago are in February.
	seed(t, ctx, "Read", 1, 2, 3, 20, 25)

	if err := (&CompareCmd{}).Run(ctx); err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"March 2024 vs February 2024", "+1 completions"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	out.Reset()
	if err := (&CompareCmd{Month: "2024-02"}).Run(ctx); err != nil {
		t.Fatalf("compare for february failed: %v", err)
	}
	if got := out.String(); !strings.Contains(got, "February 2024 vs January 2024") || !strings.Contains(got, "+2 completions") {
		t.Errorf("unexpected output:\n%s", got)
	}

	tests := []struct {
		name  string
		month string
	}{
		{"future", "2024-04"},
		{"malformed", "March"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := (&CompareCmd{Month: tt.month}).Run(ctx); err == nil {
				t.Errorf("expected error for month %q", tt.month)
			}
		})
	}
}

func TestHoursCmd(t *testing.T) {
	ctx, out := setupTestReportDB(t)
	// backfilled completions are stamped at noon
	seed(t, ctx, "Read", 1, 2)

	if err := (&HoursCmd{Top: 1}).Run(ctx); err != nil {
		t.Fatalf("hours failed: %v", err)
	}
	got := out.String()
	if strings.Count(got, ":00 ") < 24 {
		t.Errorf("expected a row per hour:\n%s", got)
	}
	if !strings.Contains(got, "12:00 (2)") {
		t.Errorf("expected noon as the busiest hour:\n%s", got)
	}
}

func TestHeatmapCmd(t *testing.T) {
	ctx, out := setupTestReportDB(t)
	seed(t, ctx, "Read", 1, 2, 3)

	if err := (&HeatmapCmd{Habit: "Read"}).Run(ctx); err != nil {
		t.Fatalf("heatmap failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Read 2024", "Mon", "Sun", "3 completions in 2024"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	out.Reset()
	if err := (&HeatmapCmd{Habit: "Read", Year: 2023}).Run(ctx); err != nil {
		t.Fatalf("heatmap failed: %v", err)
	}
	if !strings.Contains(out.String(), "0 completions in 2023") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestProgressAndAchievementsCmd(t *testing.T) {
	ctx, out := setupTestReportDB(t)
	seed(t, ctx, "Read")
	if _, err := ctx.Tracker().ToggleCompletion("Read", ""); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	if err := (&ProgressCmd{}).Run(ctx); err != nil {
		t.Fatalf("progress failed: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Level 1") || !strings.Contains(got, "Total points") {
		t.Errorf("unexpected progress output:\n%s", got)
	}

	out.Reset()
	if err := (&AchievementsCmd{}).Run(ctx); err != nil {
		t.Fatalf("achievements failed: %v", err)
	}
	got = out.String()
	if n := strings.Count(got, "\n"); n != len(models.AchievementTypes) {
		t.Errorf("achievement rows = %d, want %d:\n%s", n, len(models.AchievementTypes), got)
	}
	if !strings.Contains(got, "First Habit") || !strings.Contains(got, "2024-03-13") {
		t.Errorf("first habit achievement missing:\n%s", got)
	}
}
