package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/storage"
	"github.com/julianstephens/habitline/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized habitline storage at: %s\n", cli.MaskConnString(ctx.Store.GetConfigPath()))

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", cli.MaskConnString(c.Source))
		source, err := cli.OpenStore(cli.Target{Location: c.Source})
		if err != nil {
			return err
		}
		if err := copyData(ctx, source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}
	return nil
}

// reset deletes an existing sqlite database file.
func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return fmt.Errorf("--force is only supported for SQLite databases")
	}
	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" {
		absDB, errDB := filepath.Abs(dbPath)
		absSource, errSource := filepath.Abs(c.Source)
		if errDB == nil && errSource == nil && absDB == absSource {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		// close first so the file is not held open
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		ctx.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

// copyData copies every record from source into the context's store.
func copyData(ctx *cli.Context, source storage.Provider) error {
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()
	dst := ctx.Store

	ctx.Println("  Copying settings...")
	settings, err := source.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := dst.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	ctx.Println("  Copying habits...")
	habits, err := source.GetAllHabits(true, true)
	if err != nil {
		return fmt.Errorf("failed to get habits from source: %w", err)
	}
	for _, h := range habits {
		if err := dst.AddHabit(h); err != nil {
			return fmt.Errorf("failed to add habit %s: %w", h.ID, err)
		}
		reminders, err := source.GetReminders(h.ID)
		if err != nil {
			return fmt.Errorf("failed to get reminders for %s: %w", h.ID, err)
		}
		if len(reminders) > 0 {
			if err := dst.ReplaceReminders(h.ID, reminders); err != nil {
				return fmt.Errorf("failed to add reminders for %s: %w", h.ID, err)
			}
		}
	}
	ctx.Printf("    Copied %d habits\n", len(habits))

	ctx.Println("  Copying completions...")
	completions, err := source.GetAllCompletions()
	if err != nil {
		return fmt.Errorf("failed to get completions from source: %w", err)
	}
	for _, c := range completions {
		if err := dst.AddCompletion(c); err != nil {
			return fmt.Errorf("failed to add completion %s: %w", c.ID, err)
		}
	}
	ctx.Printf("    Copied %d completions\n", len(completions))

	ctx.Println("  Copying achievements and progress...")
	achievements, err := source.GetAchievements()
	if err != nil {
		return fmt.Errorf("failed to get achievements from source: %w", err)
	}
	for _, a := range achievements {
		if err := dst.AddAchievement(a); err != nil {
			return fmt.Errorf("failed to add achievement %s: %w", a.ID, err)
		}
	}
	progress, err := source.GetUserProgress()
	if err != nil {
		return fmt.Errorf("failed to get progress from source: %w", err)
	}
	if err := dst.SaveUserProgress(progress); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}

	ctx.Println("  Copying challenges...")
	challenges, err := source.GetChallenges()
	if err != nil {
		return fmt.Errorf("failed to get challenges from source: %w", err)
	}
	for _, ch := range challenges {
		if err := dst.SaveChallenge(ch); err != nil {
			return fmt.Errorf("failed to save challenge %s: %w", ch.ID, err)
		}
	}
	ctx.Printf("    Copied %d challenges\n", len(challenges))

	ctx.Println("  Copying groups and triggers...")
	groups, err := source.GetGroups()
	if err != nil {
		return fmt.Errorf("failed to get groups from source: %w", err)
	}
	for _, g := range groups {
		if err := dst.SaveGroup(g); err != nil {
			return fmt.Errorf("failed to save group %s: %w", g.ID, err)
		}
	}
	triggers, err := source.GetTriggers()
	if err != nil {
		return fmt.Errorf("failed to get triggers from source: %w", err)
	}
	for _, t := range triggers {
		if err := dst.SaveTrigger(t); err != nil {
			return fmt.Errorf("failed to save trigger %s: %w", t.ID, err)
		}
	}
	ctx.Printf("    Copied %d groups and %d triggers\n", len(groups), len(triggers))
	return nil
}
