package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/habitline/internal/backup"
	"github.com/julianstephens/habitline/internal/challenge"
	"github.com/julianstephens/habitline/internal/config"
	"github.com/julianstephens/habitline/internal/group"
	"github.com/julianstephens/habitline/internal/keyring"
	"github.com/julianstephens/habitline/internal/logger"
	"github.com/julianstephens/habitline/internal/stats"
	"github.com/julianstephens/habitline/internal/storage"
	"github.com/julianstephens/habitline/internal/storage/postgres"
	"github.com/julianstephens/habitline/internal/tracker"
	"github.com/julianstephens/habitline/internal/trigger"
	"github.com/julianstephens/habitline/internal/utils"
)

// Context carries the collaborators every command runs against.
type Context struct {
	Store  storage.Provider
	Config *config.Config
	Clock  tracker.Clock
	Out    io.Writer
	In     io.Reader
	// Timezone overrides the stored timezone setting when non-empty.
	Timezone string
	// ConfigPath is the config.toml the run was started with.
	ConfigPath string
	Target     Target
	Vault      *keyring.Vault

	tracker *tracker.Tracker
}

// Load opens the store and builds the tracker in the effective timezone.
// It is safe to call more than once.
func (c *Context) Load() error {
	if err := c.Store.Load(); err != nil {
		return err
	}
	if c.tracker != nil {
		return nil
	}

	tz := c.Timezone
	if tz == "" && c.Config != nil {
		tz = c.Config.Timezone
	}
	if tz == "" {
		settings, err := c.Store.GetSettings()
		if err != nil {
			logger.Warn("Failed to read settings, using local time", "error", err)
		}
		tz = settings.Timezone
	}
	loc, err := utils.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", tz, err)
	}

	clock := c.Clock
	if clock == nil {
		clock = tracker.SystemClock{}
	}
	c.tracker = tracker.New(c.Store, clock, stats.New(loc))
	logger.Debug("Context loaded", "store", c.Store.GetConfigPath(), "timezone", loc.String())
	return nil
}

// Tracker returns the tracker built by Load.
func (c *Context) Tracker() *tracker.Tracker {
	return c.tracker
}

// Engine returns the stats engine built by Load.
func (c *Context) Engine() *stats.Engine {
	return c.tracker.Engine()
}

// Now returns the current instant in the effective timezone.
func (c *Context) Now() time.Time {
	return c.tracker.Now()
}

// Challenges returns a challenge service over the loaded store.
func (c *Context) Challenges() *challenge.Service {
	return challenge.NewService(c.Store, c.Engine())
}

// Groups returns a habit group service over the loaded store.
func (c *Context) Groups() *group.Service {
	return group.NewService(c.Store)
}

// Triggers returns a trigger service over the loaded store.
func (c *Context) Triggers() *trigger.Service {
	return trigger.NewService(c.Store)
}

// Writer returns the command output stream.
func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Confirm asks a y/N question and reports whether the answer was yes.
func Confirm(c *Context, prompt string) bool {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// Printf writes formatted output to the command output stream.
func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Writer(), format, args...)
}

// Println writes a line to the command output stream.
func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Writer(), args...)
}

// BackupManager returns a backup manager for the sqlite database, or nil
// when the store is not file based.
func (c *Context) BackupManager() *backup.Manager {
	path := c.Store.GetConfigPath()
	if path == "" || path == "postgresql" || postgres.IsConnString(path) {
		return nil
	}
	var opts []backup.Option
	if c.Config != nil {
		opts = append(opts, backup.WithRetention(c.Config.Backups.Keep))
	}
	return backup.NewManager(path, opts...)
}

// PerformAutomaticBackup writes the day's first backup after a mutating
// command when automatic backups are enabled. Failures are only logged.
func (c *Context) PerformAutomaticBackup() {
	if c.Config != nil && c.Config.Backups.Disabled {
		return
	}
	settings, err := c.Store.GetSettings()
	if err != nil {
		logger.Warn("Failed to read settings for automatic backup", "error", err)
		return
	}
	if !settings.AutoBackup {
		return
	}
	mgr := c.BackupManager()
	if mgr == nil {
		return
	}
	if info, created, err := mgr.CreateIfStale(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	} else if created {
		logger.Debug("Automatic backup created", "path", info.Path)
	}
}
