package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage"
)

func setupTestSQLiteStore(t *testing.T) (*Store, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}

	cleanup := func() {
		store.Close()
	}

	return store, cleanup
}

func testHabit(name string) models.Habit {
	cat := models.CategoryHealth
	return models.Habit{
		ID:          uuid.New().String(),
		Name:        name,
		Description: "test habit",
		Color:       constants.DefaultHabitColor,
		Icon:        constants.DefaultHabitIcon,
		Category:    &cat,
		GoalType:    models.GoalDaysPerWeek,
		GoalValue:   5,
		CreatedAt:   time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestLoadRequiresInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load() error = %v, want ErrNotInitialized", err)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "habitline.db")
	store := NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("first Init: %v", err)
	}
	store.Close()

	again := NewStore(dbPath)
	if err := again.Init(); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	defer again.Close()

	current, latest, err := again.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if current != latest || current == 0 {
		t.Errorf("SchemaVersion() = %d/%d", current, latest)
	}

	reloaded := NewStore(dbPath)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	reloaded.Close()
}

func TestTableExists(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	for _, table := range []string{"habits", "HABITS", "completions", "reminders", "challenges", "habit_groups", "habit_group_members", "habit_triggers"} {
		exists, err := store.tableExists(table)
		if err != nil || !exists {
			t.Errorf("tableExists(%q) = %v, %v", table, exists, err)
		}
	}
	if exists, _ := store.tableExists("tasks"); exists {
		t.Error("tableExists(tasks) = true, want false")
	}
}

func TestDefaultSettings(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if settings.Timezone != constants.DefaultTimezone || settings.DefaultGoalValue != constants.DefaultGoalValue || !settings.AutoBackup {
		t.Errorf("default settings = %+v", settings)
	}

	settings.Timezone = "Asia/Tokyo"
	settings.AutoBackup = false
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	updated, _ := store.GetSettings()
	if updated.Timezone != "Asia/Tokyo" || updated.AutoBackup {
		t.Errorf("updated settings = %+v", updated)
	}
}

func TestHabitCRUD(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	h := testHabit("Meditate")
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit: %v", err)
	}

	got, err := store.GetHabit(h.ID)
	if err != nil {
		t.Fatalf("GetHabit: %v", err)
	}
	if got.Name != h.Name || got.GoalValue != 5 || got.GoalType != models.GoalDaysPerWeek {
		t.Errorf("GetHabit() = %+v", got)
	}
	if got.Category == nil || *got.Category != models.CategoryHealth {
		t.Errorf("category = %v", got.Category)
	}
	if !got.CreatedAt.Equal(h.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, h.CreatedAt)
	}

	byName, err := store.GetHabitByName("Meditate")
	if err != nil || byName.ID != h.ID {
		t.Errorf("GetHabitByName() = %v, %v", byName.ID, err)
	}

	h.GoalValue = 3
	h.Category = nil
	if err := store.UpdateHabit(h); err != nil {
		t.Fatalf("UpdateHabit: %v", err)
	}
	got, _ = store.GetHabit(h.ID)
	if got.GoalValue != 3 || got.Category != nil {
		t.Errorf("after update = %+v", got)
	}

	if _, err := store.GetHabit("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetHabit(missing) error = %v, want ErrNotFound", err)
	}
}

func TestAddHabitValidates(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	h := testHabit("Broken")
	h.GoalValue = 0
	if err := store.AddHabit(h); !errors.Is(err, models.ErrInvalidGoal) {
		t.Errorf("AddHabit() error = %v, want ErrInvalidGoal", err)
	}
}

func TestHabitNameUniqueAmongLiveHabits(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	first := testHabit("Stretch")
	if err := store.AddHabit(first); err != nil {
		t.Fatalf("AddHabit: %v", err)
	}
	if err := store.AddHabit(testHabit("Stretch")); err == nil {
		t.Error("expected duplicate live name to be rejected")
	}

	if err := store.DeleteHabit(first.ID); err != nil {
		t.Fatalf("DeleteHabit: %v", err)
	}
	if err := store.AddHabit(testHabit("Stretch")); err != nil {
		t.Errorf("name should be reusable after soft delete: %v", err)
	}
}

func TestHabitArchiveAndSoftDelete(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	h := testHabit("Journal")
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit: %v", err)
	}

	if err := store.ArchiveHabit(h.ID); err != nil {
		t.Fatalf("ArchiveHabit: %v", err)
	}
	if err := store.ArchiveHabit(h.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second ArchiveHabit error = %v", err)
	}

	active, _ := store.GetAllHabits(false, false)
	if len(active) != 0 {
		t.Errorf("archived habit listed as active: %v", active)
	}
	all, _ := store.GetAllHabits(true, false)
	if len(all) != 1 || all[0].ArchivedAt == nil {
		t.Errorf("GetAllHabits(includeArchived) = %+v", all)
	}

	if err := store.UnarchiveHabit(h.ID); err != nil {
		t.Fatalf("UnarchiveHabit: %v", err)
	}
	if err := store.UnarchiveHabit(h.ID); err == nil {
		t.Error("UnarchiveHabit on an active habit should fail")
	}

	if err := store.DeleteHabit(h.ID); err != nil {
		t.Fatalf("DeleteHabit: %v", err)
	}
	if _, err := store.GetHabit(h.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("deleted habit still visible: %v", err)
	}
	withDeleted, _ := store.GetAllHabits(true, true)
	if len(withDeleted) != 1 || withDeleted[0].DeletedAt == nil {
		t.Errorf("GetAllHabits(includeDeleted) = %+v", withDeleted)
	}

	if err := store.RestoreHabit(h.ID); err != nil {
		t.Fatalf("RestoreHabit: %v", err)
	}
	if _, err := store.GetHabit(h.ID); err != nil {
		t.Errorf("restored habit not visible: %v", err)
	}
	if err := store.RestoreHabit(h.ID); err == nil {
		t.Error("RestoreHabit on a live habit should fail")
	}
}

func TestCompletions(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	h := testHabit("Walk")
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit: %v", err)
	}

	base := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		c := models.Completion{
			ID:          uuid.New().String(),
			HabitID:     h.ID,
			CompletedAt: base.AddDate(0, 0, i).Add(123 * time.Millisecond),
			Note:        "ok",
		}
		if err := store.AddCompletion(c); err != nil {
			t.Fatalf("AddCompletion: %v", err)
		}
		ids = append(ids, c.ID)
	}

	all, err := store.GetCompletionsForHabit(h.ID)
	if err != nil || len(all) != 3 {
		t.Fatalf("GetCompletionsForHabit() = %d, %v", len(all), err)
	}
	if !all[0].CompletedAt.Equal(base.Add(123*time.Millisecond)) || all[0].Note != "ok" {
		t.Errorf("first completion = %+v", all[0])
	}

	inRange, err := store.GetCompletionsInRange(h.ID, base.AddDate(0, 0, 1), base.AddDate(0, 0, 2).Add(123*time.Millisecond))
	if err != nil {
		t.Fatalf("GetCompletionsInRange: %v", err)
	}
	if len(inRange) != 1 || inRange[0].ID != ids[1] {
		t.Errorf("GetCompletionsInRange() = %+v, want only the second completion", inRange)
	}

	everyHabit, _ := store.GetCompletionsInRange("", base, base.AddDate(0, 0, 10))
	if len(everyHabit) != 3 {
		t.Errorf("GetCompletionsInRange(all habits) = %d", len(everyHabit))
	}

	if err := store.DeleteCompletion(ids[0]); err != nil {
		t.Fatalf("DeleteCompletion: %v", err)
	}
	if _, err := store.GetCompletion(ids[0]); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetCompletion(deleted) error = %v", err)
	}
	if err := store.DeleteCompletion(ids[0]); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second DeleteCompletion error = %v", err)
	}

	if err := store.AddCompletion(models.Completion{ID: "orphan", HabitID: "missing", CompletedAt: base}); err == nil {
		t.Error("expected foreign key violation for an unknown habit")
	}
}

func TestPurgeHabitCascades(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	h := testHabit("Floss")
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit: %v", err)
	}
	if err := store.AddCompletion(models.Completion{ID: "c1", HabitID: h.ID, CompletedAt: time.Now()}); err != nil {
		t.Fatalf("AddCompletion: %v", err)
	}
	if err := store.ReplaceReminders(h.ID, []models.Reminder{{ID: "r1", HabitID: h.ID, TimeOfDay: 8 * time.Hour, Enabled: true}}); err != nil {
		t.Fatalf("ReplaceReminders: %v", err)
	}

	if err := store.PurgeHabit(h.ID); err != nil {
		t.Fatalf("PurgeHabit: %v", err)
	}

	all, _ := store.GetAllCompletions()
	if len(all) != 0 {
		t.Errorf("completions survived purge: %v", all)
	}
	reminders, _ := store.GetReminders(h.ID)
	if len(reminders) != 0 {
		t.Errorf("reminders survived purge: %v", reminders)
	}
	if err := store.PurgeHabit(h.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second PurgeHabit error = %v", err)
	}
}

func TestReminders(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	h := testHabit("Vitamins")
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit: %v", err)
	}

	reminders := []models.Reminder{
		{ID: "evening", HabitID: h.ID, TimeOfDay: 20*time.Hour + 30*time.Minute, Weekdays: []int{1, 7}, Enabled: false},
		{ID: "morning", HabitID: h.ID, TimeOfDay: 7 * time.Hour, Weekdays: []int{2, 3, 4, 5, 6}, Enabled: true},
	}
	if err := store.ReplaceReminders(h.ID, reminders); err != nil {
		t.Fatalf("ReplaceReminders: %v", err)
	}

	got, err := store.GetReminders(h.ID)
	if err != nil || len(got) != 2 {
		t.Fatalf("GetReminders() = %v, %v", got, err)
	}
	if got[0].ID != "morning" || got[0].Clock() != "07:00" || len(got[0].Weekdays) != 5 || !got[0].Enabled {
		t.Errorf("first reminder = %+v", got[0])
	}
	if got[1].Enabled {
		t.Error("disabled reminder loaded as enabled")
	}

	if err := store.ReplaceReminders(h.ID, nil); err != nil {
		t.Fatalf("ReplaceReminders(nil): %v", err)
	}
	if got, _ := store.GetReminders(h.ID); len(got) != 0 {
		t.Errorf("reminders not cleared: %v", got)
	}
}

func TestAchievementsAndProgress(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	unlocked := time.Date(2024, 3, 13, 18, 0, 0, 0, time.UTC)
	a := models.Achievement{ID: "a1", Type: models.AchievementWeekStreak, HabitID: "h1", UnlockedAt: unlocked, Value: 7}
	if err := store.AddAchievement(a); err != nil {
		t.Fatalf("AddAchievement: %v", err)
	}
	a.ID = "a2"
	if err := store.AddAchievement(a); err != nil {
		t.Fatalf("duplicate AddAchievement should be ignored: %v", err)
	}
	if err := store.AddAchievement(models.Achievement{ID: "g1", Type: models.AchievementFirstHabit, UnlockedAt: unlocked}); err != nil {
		t.Fatalf("AddAchievement(global): %v", err)
	}

	got, err := store.GetAchievements()
	if err != nil || len(got) != 2 {
		t.Fatalf("GetAchievements() = %v, %v", got, err)
	}

	progress, err := store.GetUserProgress()
	if err != nil {
		t.Fatalf("GetUserProgress: %v", err)
	}
	if progress.Level != 1 || progress.TotalPoints != 0 {
		t.Errorf("fresh progress = %+v", progress)
	}

	progress = models.UserProgress{TotalPoints: 1500, Level: 2, DaysTracked: 9, TotalCompletions: 12, LongestStreak: 7, Badges: []string{"WEEK_STREAK"}}
	if err := store.SaveUserProgress(progress); err != nil {
		t.Fatalf("SaveUserProgress: %v", err)
	}
	loaded, _ := store.GetUserProgress()
	if loaded.TotalPoints != 1500 || loaded.Level != 2 || !loaded.HasBadge("WEEK_STREAK") || loaded.LongestStreak != 7 {
		t.Errorf("loaded progress = %+v", loaded)
	}
}

func TestChallenges(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	c := models.Challenge{
		ID:          "ch1",
		Name:        "Perfect Week",
		Description: "7 days of perfect completion",
		Duration:    7,
		HabitIDs:    []string{"h1", "h2"},
		StartDate:   time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		Active:      true,
		CurrentDay:  1,
	}
	if err := store.SaveChallenge(c); err != nil {
		t.Fatalf("SaveChallenge: %v", err)
	}

	c.CompletedDays = []string{"2024-03-11"}
	c.CurrentDay = 2
	if err := store.SaveChallenge(c); err != nil {
		t.Fatalf("SaveChallenge(update): %v", err)
	}

	got, err := store.GetChallenge("ch1")
	if err != nil {
		t.Fatalf("GetChallenge: %v", err)
	}
	if len(got.HabitIDs) != 2 || len(got.CompletedDays) != 1 || got.CurrentDay != 2 || !got.Active || got.Completed {
		t.Errorf("GetChallenge() = %+v", got)
	}
	if _, err := store.GetChallenge("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetChallenge(missing) error = %v", err)
	}

	all, _ := store.GetChallenges()
	if len(all) != 1 {
		t.Errorf("GetChallenges() = %v", all)
	}
}

func TestGroups(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	read, walk := testHabit("Read"), testHabit("Walk")
	for _, h := range []models.Habit{read, walk} {
		if err := store.AddHabit(h); err != nil {
			t.Fatalf("AddHabit: %v", err)
		}
	}

	g := models.HabitGroup{
		ID:        uuid.New().String(),
		Name:      "Morning",
		Color:     constants.DefaultHabitColor,
		HabitIDs:  []string{walk.ID, read.ID},
		CreatedAt: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	if err := store.SaveGroup(g); err != nil {
		t.Fatalf("SaveGroup: %v", err)
	}

	got, err := store.GetGroupByName("morning")
	if err != nil {
		t.Fatalf("GetGroupByName: %v", err)
	}
	if got.ID != g.ID || len(got.HabitIDs) != 2 || got.HabitIDs[0] != walk.ID || got.HabitIDs[1] != read.ID {
		t.Errorf("GetGroupByName() = %+v", got)
	}

	g = g.WithoutHabit(walk.ID)
	g.Description = "before work"
	if err := store.SaveGroup(g); err != nil {
		t.Fatalf("SaveGroup (update): %v", err)
	}
	got, err = store.GetGroup(g.ID)
	if err != nil {
		t.Fatalf("GetGroup: %v", err)
	}
	if got.Description != "before work" || len(got.HabitIDs) != 1 || got.HabitIDs[0] != read.ID {
		t.Errorf("GetGroup() after update = %+v", got)
	}

	if err := store.SaveGroup(models.HabitGroup{ID: "missing-habit", Name: "Broken", HabitIDs: []string{"nope"}, CreatedAt: time.Now()}); err == nil {
		t.Error("expected a foreign key error for an unknown habit")
	}

	if err := store.PurgeHabit(read.ID); err != nil {
		t.Fatalf("PurgeHabit: %v", err)
	}
	groups, err := store.GetGroups()
	if err != nil {
		t.Fatalf("GetGroups: %v", err)
	}
	if len(groups) != 1 || len(groups[0].HabitIDs) != 0 {
		t.Errorf("GetGroups() after purge = %+v", groups)
	}

	if err := store.DeleteGroup(g.ID); err != nil {
		t.Fatalf("DeleteGroup: %v", err)
	}
	if _, err := store.GetGroup(g.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetGroup after delete error = %v", err)
	}
	if err := store.DeleteGroup(g.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second DeleteGroup error = %v", err)
	}
}

func TestTriggers(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	read, walk := testHabit("Read"), testHabit("Walk")
	for _, h := range []models.Habit{read, walk} {
		if err := store.AddHabit(h); err != nil {
			t.Fatalf("AddHabit: %v", err)
		}
	}

	tr := models.Trigger{
		ID:            uuid.New().String(),
		SourceHabitID: read.ID,
		TargetHabitID: walk.ID,
		Condition:     models.TriggerStreakReached,
		Threshold:     7,
		Enabled:       true,
		CreatedAt:     time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	if err := store.SaveTrigger(tr); err != nil {
		t.Fatalf("SaveTrigger: %v", err)
	}

	tr.Enabled = false
	if err := store.SaveTrigger(tr); err != nil {
		t.Fatalf("SaveTrigger (update): %v", err)
	}
	got, err := store.GetTrigger(tr.ID)
	if err != nil {
		t.Fatalf("GetTrigger: %v", err)
	}
	if got.Enabled || got.Condition != models.TriggerStreakReached || got.Threshold != 7 || !got.CreatedAt.Equal(tr.CreatedAt) {
		t.Errorf("GetTrigger() = %+v", got)
	}

	self := tr
	self.ID, self.TargetHabitID = "self", read.ID
	if err := store.SaveTrigger(self); err == nil {
		t.Error("expected a check constraint error for a self trigger")
	}

	if err := store.PurgeHabit(walk.ID); err != nil {
		t.Fatalf("PurgeHabit: %v", err)
	}
	triggers, err := store.GetTriggers()
	if err != nil {
		t.Fatalf("GetTriggers: %v", err)
	}
	if len(triggers) != 0 {
		t.Errorf("triggers survived purge of their target: %+v", triggers)
	}
	if err := store.DeleteTrigger(tr.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteTrigger(purged) error = %v", err)
	}
}
