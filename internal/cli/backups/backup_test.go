package backups

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage/postgres"
	"github.com/julianstephens/habitline/internal/storage/sqlite"
	"github.com/julianstephens/habitline/internal/tracker"
)

func setupTestBackupDB(t *testing.T) (*cli.Context, *bytes.Buffer, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	ctx := &cli.Context{Store: store, Out: out, Timezone: "UTC"}
	return ctx, out, dbPath
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, out, dbPath := setupTestBackupDB(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No backups found") {
		t.Errorf("unexpected output: %q", out.String())
	}

	out.Reset()
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !strings.Contains(out.String(), "Backup created: habitline-") {
		t.Errorf("unexpected output: %q", out.String())
	}

	entries, err := os.ReadDir(filepath.Join(filepath.Dir(dbPath), "backups"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("backup dir entries = %v (err %v), want 1", entries, err)
	}

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "1 total") || !strings.Contains(out.String(), entries[0].Name()) {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestBackupRestoreCmd(t *testing.T) {
	ctx, out, _ := setupTestBackupDB(t)
	if err := ctx.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, err := ctx.Tracker().AddHabit(models.Habit{Name: "Read", GoalType: models.GoalDaysPerWeek, GoalValue: 5}); err != nil {
		t.Fatalf("AddHabit: %v", err)
	}

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	name := strings.TrimSpace(strings.SplitN(out.String(), "Backup created: ", 2)[1])

	if _, err := ctx.Tracker().AddHabit(models.Habit{Name: "Walk", GoalType: models.GoalDaysPerWeek, GoalValue: 5}); err != nil {
		t.Fatalf("AddHabit: %v", err)
	}

	out.Reset()
	ctx.In = strings.NewReader("n\n")
	if err := (&BackupRestoreCmd{BackupFile: name}).Run(ctx); err != nil {
		t.Fatalf("cancelled restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Restore cancelled") {
		t.Errorf("unexpected output: %q", out.String())
	}

	out.Reset()
	ctx.In = strings.NewReader("y\n")
	if err := (&BackupRestoreCmd{BackupFile: name}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Database restored successfully") || !strings.Contains(out.String(), "Previous database saved as") {
		t.Errorf("unexpected output: %q", out.String())
	}

	if err := ctx.Store.Load(); err != nil {
		t.Fatalf("reload after restore: %v", err)
	}
	habits, err := ctx.Store.GetAllHabits(true, true)
	if err != nil {
		t.Fatalf("GetAllHabits: %v", err)
	}
	if len(habits) != 1 || habits[0].Name != "Read" {
		t.Errorf("habits after restore = %+v, want only Read", habits)
	}
}

func TestBackupRestoreCmd_Missing(t *testing.T) {
	ctx, _, _ := setupTestBackupDB(t)

	err := (&BackupRestoreCmd{BackupFile: "habitline-20240101-0000.db", Yes: true}).Run(ctx)
	if err == nil {
		t.Fatal("expected error restoring a missing backup")
	}
}

func TestBackupCmd_PostgresUnsupported(t *testing.T) {
	ctx := &cli.Context{Store: postgres.New("postgres://localhost/habitline"), Out: &bytes.Buffer{}, Clock: tracker.SystemClock{}}

	if err := (&BackupCreateCmd{}).Run(ctx); !errors.Is(err, ErrUnsupported) {
		t.Errorf("create err = %v, want ErrUnsupported", err)
	}
	if err := (&BackupListCmd{}).Run(ctx); !errors.Is(err, ErrUnsupported) {
		t.Errorf("list err = %v, want ErrUnsupported", err)
	}
}
