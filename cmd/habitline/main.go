package main

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/cli/backups"
	"github.com/julianstephens/habitline/internal/cli/challenges"
	"github.com/julianstephens/habitline/internal/cli/groups"
	"github.com/julianstephens/habitline/internal/cli/habits"
	"github.com/julianstephens/habitline/internal/cli/reports"
	"github.com/julianstephens/habitline/internal/cli/settings"
	"github.com/julianstephens/habitline/internal/cli/system"
	"github.com/julianstephens/habitline/internal/cli/triggers"
	"github.com/julianstephens/habitline/internal/config"
	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/errors"
	"github.com/julianstephens/habitline/internal/keyring"
	"github.com/julianstephens/habitline/internal/logger"
)

var CLI struct {
	Version    kong.VersionFlag
	DB         string `help:"Database path or PostgreSQL connection string. Connection strings given here must NOT embed a password; use 'habitline config set-connection' or HABITLINE_DB_CONNECTION instead." name:"db"`
	ConfigFile string `help:"Path to config.toml." name:"config-file" type:"path"`
	Timezone   string `help:"IANA timezone used for day boundaries, overriding stored settings."`
	Debug      bool   `help:"Enable debug logging to stderr."`
	LogLevel   string `help:"Log level (debug, info, warn, error)." default:""`

	Init         system.InitCmd          `cmd:"" help:"Initialize habitline storage."`
	Migrate      system.MigrateCmd       `cmd:"" help:"Run database migrations."`
	Doctor       system.DoctorCmd        `cmd:"" help:"Run health checks and diagnostics."`
	Today        habits.HabitTodayCmd    `cmd:"" help:"Show today's habit status." default:"1"`
	Mark         habits.HabitMarkCmd     `cmd:"" help:"Toggle today's completion of a habit."`
	Habit        habits.HabitCmd         `cmd:"" help:"Manage habits and habit tracking."`
	Stats        reports.StatsCmd        `cmd:"" help:"Show streaks and completion rates."`
	Insights     reports.InsightsCmd     `cmd:"" help:"Show insights and recommendations."`
	Compare      reports.CompareCmd      `cmd:"" help:"Compare a month with the month before."`
	Hours        reports.HoursCmd        `cmd:"" help:"Show completions by hour of day."`
	Heatmap      reports.HeatmapCmd      `cmd:"" help:"Show a year heat map for a habit."`
	Progress     reports.ProgressCmd     `cmd:"" help:"Show points, level and badges."`
	Achievements reports.AchievementsCmd `cmd:"" help:"List achievements."`
	Group        groups.GroupCmd         `cmd:"" help:"Organize habits into groups."`
	Trigger      triggers.TriggerCmd     `cmd:"" help:"Chain habits with triggers."`
	Challenge    challenges.ChallengeCmd `cmd:"" help:"Manage challenges."`
	Backup       backups.BackupCmd       `cmd:"" help:"Manage database backups."`
	Config       settings.ConfigCmd      `cmd:"" help:"Manage configuration, settings and stored credentials."`
}

// commands that run without loading the database
var noLoad = []string{"init", "config", "habit templates", "challenge templates"}

func needsLoad(command string) bool {
	for _, prefix := range noLoad {
		if strings.HasPrefix(command, prefix) {
			return false
		}
	}
	return true
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Track daily habits, streaks and progress from the terminal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfgPath := CLI.ConfigFile
	if cfgPath == "" {
		var err error
		if cfgPath, err = config.DefaultPath(); err != nil {
			errors.Fatal(err)
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		errors.Fatalf("failed to load config: %v", err)
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug || cfg.Debug,
		ConfigDir: filepath.Dir(cfgPath),
		Level:     CLI.LogLevel,
	}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}

	vault := keyring.New("")
	target, err := cli.ResolveTarget(CLI.DB, cfg, vault)
	if err != nil {
		errors.Fatal(err)
	}
	store, err := cli.OpenStore(target)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store:      store,
		Config:     cfg,
		Timezone:   CLI.Timezone,
		ConfigPath: cfgPath,
		Target:     target,
		Vault:      vault,
	}
	logger.Debug("Starting", "command", ctx.Command(), "store", cli.MaskConnString(target.Location))

	if needsLoad(ctx.Command()) {
		if err := appCtx.Load(); err != nil {
			store.Close()
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}
