package postgres

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage"
)

// TestStore_Integration runs against a real database.
// Example: HABITLINE_TEST_POSTGRES="postgres://habitline@localhost:5432/habitline_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("HABITLINE_TEST_POSTGRES")
	if connStr == "" {
		t.Skip("HABITLINE_TEST_POSTGRES not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	t.Run("Settings", func(t *testing.T) {
		settings, err := store.GetSettings()
		if err != nil {
			t.Fatalf("Failed to get settings: %v", err)
		}
		if settings.DefaultGoalValue != constants.DefaultGoalValue {
			t.Errorf("DefaultGoalValue = %d, want %d", settings.DefaultGoalValue, constants.DefaultGoalValue)
		}
		settings.Timezone = "Europe/Paris"
		if err := store.SaveSettings(settings); err != nil {
			t.Fatalf("Failed to save settings: %v", err)
		}
		got, err := store.GetSettings()
		if err != nil || got.Timezone != "Europe/Paris" {
			t.Errorf("GetSettings() = %+v, %v", got, err)
		}
	})

	t.Run("HabitLifecycle", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Microsecond)
		habit := models.Habit{
			ID:        uuid.NewString(),
			Name:      "integration-" + uuid.NewString()[:8],
			GoalType:  models.GoalDaysPerWeek,
			GoalValue: 4,
			CreatedAt: now,
		}
		if err := store.AddHabit(habit); err != nil {
			t.Fatalf("AddHabit: %v", err)
		}
		defer func() { _ = store.PurgeHabit(habit.ID) }()

		for i := 0; i < 3; i++ {
			c := models.Completion{ID: uuid.NewString(), HabitID: habit.ID, CompletedAt: now.AddDate(0, 0, -i)}
			if err := store.AddCompletion(c); err != nil {
				t.Fatalf("AddCompletion: %v", err)
			}
		}

		inRange, err := store.GetCompletionsInRange(habit.ID, now.AddDate(0, 0, -1), now)
		if err != nil {
			t.Fatalf("GetCompletionsInRange: %v", err)
		}
		if len(inRange) != 1 {
			t.Errorf("half-open range returned %d completions, want 1", len(inRange))
		}

		if err := store.DeleteHabit(habit.ID); err != nil {
			t.Fatalf("DeleteHabit: %v", err)
		}
		if _, err := store.GetHabit(habit.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetHabit after delete error = %v", err)
		}
		if err := store.RestoreHabit(habit.ID); err != nil {
			t.Fatalf("RestoreHabit: %v", err)
		}

		if err := store.PurgeHabit(habit.ID); err != nil {
			t.Fatalf("PurgeHabit: %v", err)
		}
		left, err := store.GetCompletionsForHabit(habit.ID)
		if err != nil {
			t.Fatalf("GetCompletionsForHabit: %v", err)
		}
		if len(left) != 0 {
			t.Errorf("purge left %d completions", len(left))
		}
	})

	t.Run("GroupsAndTriggers", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Microsecond)
		var habits []models.Habit
		for i := 0; i < 2; i++ {
			h := models.Habit{ID: uuid.NewString(), Name: "linked-" + uuid.NewString()[:8], GoalType: models.GoalDaysPerWeek, GoalValue: 3, CreatedAt: now}
			if err := store.AddHabit(h); err != nil {
				t.Fatalf("AddHabit: %v", err)
			}
			defer func() { _ = store.PurgeHabit(h.ID) }()
			habits = append(habits, h)
		}

		g := models.HabitGroup{ID: uuid.NewString(), Name: "group-" + uuid.NewString()[:8], HabitIDs: []string{habits[1].ID, habits[0].ID}, CreatedAt: now}
		if err := store.SaveGroup(g); err != nil {
			t.Fatalf("SaveGroup: %v", err)
		}
		defer func() { _ = store.DeleteGroup(g.ID) }()
		got, err := store.GetGroupByName(g.Name)
		if err != nil {
			t.Fatalf("GetGroupByName: %v", err)
		}
		if len(got.HabitIDs) != 2 || got.HabitIDs[0] != habits[1].ID {
			t.Errorf("HabitIDs = %v, want insertion order", got.HabitIDs)
		}

		tr := models.Trigger{ID: uuid.NewString(), SourceHabitID: habits[0].ID, TargetHabitID: habits[1].ID, Condition: models.TriggerStreakReached, Threshold: 5, Enabled: true, CreatedAt: now}
		if err := store.SaveTrigger(tr); err != nil {
			t.Fatalf("SaveTrigger: %v", err)
		}
		if err := store.PurgeHabit(habits[1].ID); err != nil {
			t.Fatalf("PurgeHabit: %v", err)
		}
		if _, err := store.GetTrigger(tr.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("trigger should cascade with its target, err = %v", err)
		}
		if got, err := store.GetGroup(g.ID); err != nil || len(got.HabitIDs) != 1 {
			t.Errorf("GetGroup after purge = %+v, %v", got, err)
		}
	})

	t.Run("Progress", func(t *testing.T) {
		p := models.UserProgress{TotalPoints: 1510, Level: 2, Badges: []string{"WEEK_STREAK"}}
		if err := store.SaveUserProgress(p); err != nil {
			t.Fatalf("SaveUserProgress: %v", err)
		}
		got, err := store.GetUserProgress()
		if err != nil {
			t.Fatalf("GetUserProgress: %v", err)
		}
		if got.TotalPoints != 1510 || !got.HasBadge("WEEK_STREAK") {
			t.Errorf("GetUserProgress() = %+v", got)
		}
	})
}
