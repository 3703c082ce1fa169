package trigger

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/stats"
	"github.com/julianstephens/habitline/internal/storage/sqlite"
)

// Wednesday, 13 March 2024 15:00 UTC.
var refNow = time.Date(2024, 3, 13, 15, 0, 0, 0, time.UTC)

func habit(id string, daysAgo ...int) models.Habit {
	h := models.Habit{ID: id, Name: id, GoalType: models.GoalDaysPerWeek, GoalValue: 5, CreatedAt: refNow.AddDate(0, -1, 0)}
	for _, d := range daysAgo {
		h.Completions = append(h.Completions, models.Completion{HabitID: id, CompletedAt: refNow.AddDate(0, 0, -d)})
	}
	return h
}

func TestHolds(t *testing.T) {
	e := stats.New(time.UTC)
	tests := []struct {
		name string
		cond models.TriggerCondition
		th   int
		h    models.Habit
		want bool
	}{
		{"completed today", models.TriggerCompleted, 0, habit("a", 0), true},
		{"completed yesterday only", models.TriggerCompleted, 0, habit("a", 1), false},
		{"not completed", models.TriggerNotCompleted, 0, habit("a", 1), true},
		{"streak reached", models.TriggerStreakReached, 3, habit("a", 0, 1, 2), true},
		{"streak short", models.TriggerStreakReached, 3, habit("a", 0, 1), false},
		{"streak reached without today", models.TriggerStreakReached, 2, habit("a", 1, 2), true},
		{"zero threshold never holds", models.TriggerStreakReached, 0, habit("a", 0), false},
		{"streak broken", models.TriggerStreakBroken, 0, habit("a", 2, 3), true},
		{"streak alive", models.TriggerStreakBroken, 0, habit("a", 1), false},
		{"no history is not broken", models.TriggerStreakBroken, 0, habit("a"), false},
		{"unknown condition", models.TriggerCondition("someday"), 0, habit("a", 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := models.Trigger{SourceHabitID: "a", TargetHabitID: "b", Condition: tt.cond, Threshold: tt.th, Enabled: true}
			if got := Holds(e, tr, tt.h, refNow); got != tt.want {
				t.Errorf("Holds() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFiredOnlyOnTransition(t *testing.T) {
	e := stats.New(time.UTC)
	triggers := []models.Trigger{
		{ID: "t1", SourceHabitID: "a", TargetHabitID: "b", Condition: models.TriggerCompleted, Enabled: true},
		{ID: "t2", SourceHabitID: "a", TargetHabitID: "b", Condition: models.TriggerNotCompleted, Enabled: true},
		{ID: "t3", SourceHabitID: "other", TargetHabitID: "b", Condition: models.TriggerCompleted, Enabled: true},
		{ID: "t4", SourceHabitID: "a", TargetHabitID: "b", Condition: models.TriggerCompleted, Enabled: false},
	}

	before, after := habit("a", 1), habit("a", 0, 1)
	fired := Fired(e, triggers, before, after, refNow)
	if len(fired) != 1 || fired[0].ID != "t1" {
		t.Errorf("Fired(mark) = %+v, want t1", fired)
	}

	fired = Fired(e, triggers, after, before, refNow)
	if len(fired) != 1 || fired[0].ID != "t2" {
		t.Errorf("Fired(unmark) = %+v, want t2", fired)
	}

	if fired := Fired(e, triggers, after, after, refNow); len(fired) != 0 {
		t.Errorf("Fired(no change) = %+v, want none", fired)
	}
}

func TestSuggest(t *testing.T) {
	e := stats.New(time.UTC)
	archivedAt := refNow.AddDate(0, 0, -3)
	archived := habit("c")
	archived.ArchivedAt = &archivedAt
	habits := []models.Habit{habit("a", 0), habit("b"), archived, habit("d", 0)}

	triggers := []models.Trigger{
		{ID: "to-b", SourceHabitID: "a", TargetHabitID: "b", Condition: models.TriggerCompleted, Enabled: true},
		{ID: "to-archived", SourceHabitID: "a", TargetHabitID: "c", Condition: models.TriggerCompleted, Enabled: true},
		{ID: "to-done", SourceHabitID: "a", TargetHabitID: "d", Condition: models.TriggerCompleted, Enabled: true},
		{ID: "to-missing", SourceHabitID: "a", TargetHabitID: "gone", Condition: models.TriggerCompleted, Enabled: true},
		{ID: "not-met", SourceHabitID: "b", TargetHabitID: "a", Condition: models.TriggerCompleted, Enabled: true},
	}

	got := Suggest(e, triggers, habits, refNow)
	if len(got) != 1 || got[0].Trigger.ID != "to-b" || got[0].Source.ID != "a" || got[0].Target.ID != "b" {
		t.Errorf("Suggest() = %+v, want only to-b", got)
	}
}

func TestServiceCreate(t *testing.T) {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitline.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	read, walk := habit("read"), habit("walk")
	for _, h := range []models.Habit{read, walk} {
		if err := store.AddHabit(h); err != nil {
			t.Fatalf("AddHabit: %v", err)
		}
	}

	svc := NewService(store)
	created, err := svc.Create(read, walk, models.TriggerCompleted, 9, refNow)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !created.Enabled || created.Threshold != 0 {
		t.Errorf("Create() = %+v, want enabled with threshold cleared", created)
	}

	if _, err := svc.Create(read, walk, models.TriggerCompleted, 0, refNow); !errors.Is(err, ErrExists) {
		t.Errorf("duplicate Create error = %v, want ErrExists", err)
	}
	if _, err := svc.Create(read, read, models.TriggerCompleted, 0, refNow); !errors.Is(err, models.ErrSelfTrigger) {
		t.Errorf("self Create error = %v, want ErrSelfTrigger", err)
	}
	if _, err := svc.Create(read, walk, models.TriggerStreakReached, 0, refNow); !errors.Is(err, models.ErrInvalidThreshold) {
		t.Errorf("zero threshold Create error = %v, want ErrInvalidThreshold", err)
	}

	all, err := svc.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("List() = %d triggers, want 1", len(all))
	}
	if err := svc.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}
