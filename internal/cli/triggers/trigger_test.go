package triggers

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage"
	"github.com/julianstephens/habitline/internal/storage/sqlite"
	"github.com/julianstephens/habitline/internal/tracker"
	"github.com/julianstephens/habitline/internal/trigger"
)

// Wednesday, 13 March 2024 15:00 UTC.
var refNow = time.Date(2024, 3, 13, 15, 0, 0, 0, time.UTC)

func setupTestTriggerDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	ctx := &cli.Context{Store: store, Clock: &tracker.FixedClock{T: refNow}, Out: out, Timezone: "UTC"}
	if err := ctx.Load(); err != nil {
		t.Fatalf("failed to load context: %v", err)
	}
	for _, name := range []string{"Read", "Walk"} {
		if _, err := ctx.Tracker().AddHabit(models.Habit{Name: name, GoalType: models.GoalDaysPerWeek, GoalValue: 7}); err != nil {
			t.Fatalf("AddHabit(%s): %v", name, err)
		}
	}
	return ctx, out
}

func onlyTrigger(t *testing.T, ctx *cli.Context) models.Trigger {
	t.Helper()
	all, err := ctx.Store.GetTriggers()
	if err != nil {
		t.Fatalf("GetTriggers: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("triggers = %d, want 1", len(all))
	}
	return all[0]
}

func TestTriggerAddCmd(t *testing.T) {
	ctx, out := setupTestTriggerDB(t)

	if err := (&TriggerAddCmd{Source: "Read", Condition: "streak-reached", Target: "Walk", Streak: 3}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if got := out.String(); !strings.Contains(got, "when Read reaches a 3-day streak, suggest Walk") {
		t.Errorf("unexpected output: %q", got)
	}
	tr := onlyTrigger(t, ctx)
	if tr.Condition != models.TriggerStreakReached || tr.Threshold != 3 || !tr.Enabled {
		t.Errorf("trigger = %+v", tr)
	}
}

func TestTriggerAddCmd_Errors(t *testing.T) {
	ctx, _ := setupTestTriggerDB(t)
	if err := (&TriggerAddCmd{Source: "Read", Condition: "completed", Target: "Walk"}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	tests := []struct {
		name string
		cmd  TriggerAddCmd
		want error
	}{
		{"duplicate", TriggerAddCmd{Source: "Read", Condition: "completed", Target: "Walk"}, trigger.ErrExists},
		{"self", TriggerAddCmd{Source: "Read", Condition: "completed", Target: "Read"}, models.ErrSelfTrigger},
		{"zero streak", TriggerAddCmd{Source: "Read", Condition: "streak_reached", Target: "Walk"}, models.ErrInvalidThreshold},
		{"unknown habit", TriggerAddCmd{Source: "Ghost", Condition: "completed", Target: "Walk"}, storage.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if err := (&TriggerAddCmd{Source: "Read", Condition: "sometimes", Target: "Walk"}).Run(ctx); err == nil {
		t.Error("expected error for unknown condition")
	}
}

func TestTriggerListEnableDisable(t *testing.T) {
	ctx, out := setupTestTriggerDB(t)

	if err := (&TriggerListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No triggers found") {
		t.Errorf("unexpected output: %q", out.String())
	}

	if err := (&TriggerAddCmd{Source: "Read", Condition: "completed", Target: "Walk"}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	id := onlyTrigger(t, ctx).ID

	if err := (&TriggerDisableCmd{ID: id[:6]}).Run(ctx); err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	if onlyTrigger(t, ctx).Enabled {
		t.Error("trigger should be disabled")
	}
	out.Reset()
	if err := (&TriggerListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if got := out.String(); !strings.Contains(got, "off") || !strings.Contains(got, "when Read is completed, suggest Walk") {
		t.Errorf("unexpected output: %q", got)
	}

	if err := (&TriggerEnableCmd{ID: id}).Run(ctx); err != nil {
		t.Fatalf("enable failed: %v", err)
	}
	if !onlyTrigger(t, ctx).Enabled {
		t.Error("trigger should be enabled")
	}
}

func TestTriggerDeleteCmd(t *testing.T) {
	ctx, _ := setupTestTriggerDB(t)
	if err := (&TriggerAddCmd{Source: "Read", Condition: "completed", Target: "Walk"}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	id := onlyTrigger(t, ctx).ID

	if err := (&TriggerDeleteCmd{ID: "zzzz"}).Run(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("unknown trigger: err = %v, want ErrNotFound", err)
	}
	if err := (&TriggerDeleteCmd{ID: id}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if all, _ := ctx.Store.GetTriggers(); len(all) != 0 {
		t.Errorf("triggers after delete = %d, want 0", len(all))
	}
}
