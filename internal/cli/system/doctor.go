package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/storage/sqlite"
	"github.com/julianstephens/habitline/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name string
	// needsDB skips the check when the database could not be loaded
	needsDB bool
	// warnOnly reports a failure without failing the run
	warnOnly bool
	run      func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Settings", needsDB: true, run: checkSettings},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Habit integrity", needsDB: true, run: checkHabitsIntegrity},
	{name: "Challenge integrity", needsDB: true, run: checkChallengeIntegrity},
	{name: "Trigger integrity", needsDB: true, run: checkTriggerIntegrity},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n   %v\n", c.name, err)
		default:
			ctx.Printf("❌ %s: FAIL\n   Error: %v\n", c.name, err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if s, ok := ctx.Store.(*sqlite.Store); ok {
		db := s.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func schemaVersion(ctx *cli.Context) (current, latest int, ok bool, err error) {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return 0, 0, false, nil
	}
	current, latest, err = m.SchemaVersion()
	if err != nil {
		return 0, 0, true, fmt.Errorf("failed to read schema version: %w", err)
	}
	return current, latest, true, nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersion(ctx)
	if !ok || err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersion(ctx)
	if !ok || err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'habitline migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := ctx.BackupManager()
	if mgr == nil {
		return nil
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'habitline backup create'")
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("stored timezone %q is not a valid IANA name", settings.Timezone)
	}
	if settings.DefaultGoalValue <= 0 {
		return fmt.Errorf("default goal value must be positive (got %d)", settings.DefaultGoalValue)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if ctx.Timezone != "" && !utils.ValidateTimezone(ctx.Timezone) {
		return fmt.Errorf("timezone override %q is not a valid IANA name", ctx.Timezone)
	}
	if ctx.Config != nil && ctx.Config.Timezone != "" && !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("config timezone %q is not a valid IANA name", ctx.Config.Timezone)
	}
	return nil
}

func checkHabitsIntegrity(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(true, true)
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}
	ids := make(map[string]bool, len(habits))
	names := make(map[string]bool, len(habits))
	for _, h := range habits {
		if ids[h.ID] {
			return fmt.Errorf("duplicate habit ID found: %s", h.ID)
		}
		ids[h.ID] = true
		if err := h.Validate(); err != nil {
			return fmt.Errorf("habit %s is invalid: %w", h.ID, err)
		}
		if h.DeletedAt == nil {
			if names[h.Name] {
				return fmt.Errorf("duplicate habit name found: %s", h.Name)
			}
			names[h.Name] = true
		}
	}

	completions, err := ctx.Store.GetAllCompletions()
	if err != nil {
		return fmt.Errorf("failed to get completions: %w", err)
	}
	orphaned := 0
	for _, c := range completions {
		if !ids[c.HabitID] {
			orphaned++
		}
	}
	if orphaned > 0 {
		return fmt.Errorf("found %d orphaned completions (referencing non-existent habits)", orphaned)
	}
	return nil
}

func checkChallengeIntegrity(ctx *cli.Context) error {
	challenges, err := ctx.Store.GetChallenges()
	if err != nil {
		return fmt.Errorf("failed to get challenges: %w", err)
	}
	habits, err := ctx.Store.GetAllHabits(true, true)
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}
	known := make(map[string]bool, len(habits))
	for _, h := range habits {
		known[h.ID] = true
	}
	for _, ch := range challenges {
		for _, id := range ch.HabitIDs {
			if !known[id] {
				return fmt.Errorf("challenge %q references missing habit %s", ch.Name, id)
			}
		}
		if len(ch.CompletedDays) > ch.Duration {
			return fmt.Errorf("challenge %q has %d recorded days but lasts %d", ch.Name, len(ch.CompletedDays), ch.Duration)
		}
	}
	return nil
}

func checkTriggerIntegrity(ctx *cli.Context) error {
	triggers, err := ctx.Store.GetTriggers()
	if err != nil {
		return fmt.Errorf("failed to get triggers: %w", err)
	}
	for _, t := range triggers {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("trigger %s is invalid: %w", t.ID, err)
		}
	}
	return nil
}
