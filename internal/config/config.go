package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/utils"
)

// Config is the on-disk config.toml. Command-line flags take precedence over it.
type Config struct {
	// Database is a sqlite file path or a postgres:// URL without a password.
	Database string  `toml:"database"`
	Timezone string  `toml:"timezone"`
	Debug    bool    `toml:"debug"`
	Backups  Backups `toml:"backups"`
}

type Backups struct {
	// Disabled turns off automatic backups regardless of the stored setting.
	Disabled bool `toml:"disabled"`
	Keep     int  `toml:"keep"`
}

func DefaultConfig() *Config {
	return &Config{
		Database: constants.DefaultConfigPath,
		Timezone: "",
		Backups:  Backups{Keep: constants.MaxBackups},
	}
}

// Dir returns the directory holding config.toml, the default database and logs.
func Dir() (string, error) {
	return utils.ExpandPath(filepath.Dir(constants.DefaultConfigPath))
}

// DefaultPath returns the location of config.toml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}

// Load reads the config at path. A missing file is created with defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
		return cfg, cfg.expand()
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Backups.Keep <= 0 {
		cfg.Backups.Keep = constants.MaxBackups
	}
	if !utils.ValidateTimezone(cfg.Timezone) {
		return nil, fmt.Errorf("invalid timezone %q in %s", cfg.Timezone, path)
	}
	return cfg, cfg.expand()
}

func (c *Config) expand() error {
	if c.Database == "" {
		c.Database = constants.DefaultConfigPath
	}
	expanded, err := utils.ExpandPath(c.Database)
	if err != nil {
		return err
	}
	c.Database = expanded
	return nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
