package settings

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/cli/render"
	"github.com/julianstephens/habitline/internal/keyring"
	"github.com/julianstephens/habitline/internal/logger"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage/postgres"
	"github.com/julianstephens/habitline/internal/utils"
)

type ConfigCmd struct {
	Show            ConfigShowCmd            `cmd:"" help:"Show configuration and settings." default:"1"`
	Set             ConfigSetCmd             `cmd:"" help:"Update stored settings."`
	SetConnection   ConfigSetConnectionCmd   `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
	ClearConnection ConfigClearConnectionCmd `cmd:"" help:"Remove the stored connection string from the OS keyring."`
}

func vault(ctx *cli.Context) *keyring.Vault {
	if ctx.Vault != nil {
		return ctx.Vault
	}
	return keyring.New("")
}

type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(ctx *cli.Context) error {
	ctx.Println(render.Title.Render("Configuration"))
	if ctx.ConfigPath != "" {
		ctx.Println(render.Row("Config file", ctx.ConfigPath))
	}
	if path := logger.Path(); path != "" {
		ctx.Println(render.Row("Log file", path))
	}

	location := ctx.Target.Location
	if location == "" {
		location = ctx.Store.GetConfigPath()
	}
	source := "config"
	if ctx.Target.Secret {
		source = "keyring or environment"
	}
	ctx.Println(render.Row("Database", cli.MaskConnString(location)+" "+render.Muted.Render("("+source+")")))

	if ctx.Config != nil {
		ctx.Println(render.Row("Timezone override", orNone(ctx.Config.Timezone)))
		ctx.Println(render.Row("Automatic backups", !ctx.Config.Backups.Disabled))
		ctx.Println(render.Row("Backups kept", ctx.Config.Backups.Keep))
	}

	if err := ctx.Store.Load(); err != nil {
		ctx.Println()
		ctx.Println(render.Warning.Render(fmt.Sprintf("Settings unavailable: %v", err)))
		return nil
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	ctx.Println()
	ctx.Println(render.Title.Render("Settings"))
	ctx.Println(render.Row("Timezone", settings.Timezone))
	ctx.Println(render.Row("Default goal type", settings.DefaultGoalType))
	ctx.Println(render.Row("Default goal value", settings.DefaultGoalValue))
	ctx.Println(render.Row("Auto backup", settings.AutoBackup))
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

type ConfigSetCmd struct {
	Timezone         *string `help:"IANA timezone name, or Local for the system timezone."`
	DefaultGoalType  *string `help:"Goal type for new habits: days_per_week or consecutive_days."`
	DefaultGoalValue *int    `help:"Goal value for new habits."`
	AutoBackup       *bool   `help:"Take an automatic backup after changes."`
}

func (c *ConfigSetCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	updated := false
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone: %s", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.DefaultGoalType != nil {
		gt, err := models.ParseGoalType(*c.DefaultGoalType)
		if err != nil {
			return err
		}
		settings.DefaultGoalType = gt
		updated = true
	}
	if c.DefaultGoalValue != nil {
		if *c.DefaultGoalValue <= 0 {
			return fmt.Errorf("%w (got %d)", models.ErrInvalidGoal, *c.DefaultGoalValue)
		}
		settings.DefaultGoalValue = *c.DefaultGoalValue
		updated = true
	}
	if c.AutoBackup != nil {
		settings.AutoBackup = *c.AutoBackup
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified. Use 'habitline config show' to view settings or flags to update them.")
		return nil
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("Settings updated successfully.")
	return nil
}

type ConfigSetConnectionCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in the keyring."`
}

func (c *ConfigSetConnectionCmd) Run(ctx *cli.Context) error {
	if !cli.IsPostgres(cli.Target{Location: c.ConnectionString, Secret: true}) {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if err := postgres.ValidateConnString(c.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// the keyring is an acceptable home for a password
		ctx.Println(render.Warning.Render("Connection string contains embedded credentials; they will be kept in the OS keyring."))
	}

	if err := vault(ctx).Set(c.ConnectionString); err != nil {
		return err
	}

	ctx.Printf("%s Connection string stored in OS keyring\n", render.Check(true))
	ctx.Println("  habitline will use it unless --db is given")
	return nil
}

type ConfigClearConnectionCmd struct{}

func (c *ConfigClearConnectionCmd) Run(ctx *cli.Context) error {
	if err := vault(ctx).Delete(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}
	ctx.Printf("%s Connection string removed from OS keyring\n", render.Check(true))
	return nil
}
