package cli

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/julianstephens/habitline/internal/config"
	"github.com/julianstephens/habitline/internal/keyring"
	"github.com/julianstephens/habitline/internal/storage"
	"github.com/julianstephens/habitline/internal/storage/postgres"
	"github.com/julianstephens/habitline/internal/storage/sqlite"
	"github.com/julianstephens/habitline/internal/utils"
)

// Target is a resolved database location.
type Target struct {
	Location string
	// Secret is set when Location came from the keyring or environment and
	// may therefore carry credentials.
	Secret bool
}

// ResolveTarget picks the database: an explicit flag wins, then a stored
// connection string, then the config file.
func ResolveTarget(flag string, cfg *config.Config, vault *keyring.Vault) (Target, error) {
	if flag != "" {
		return Target{Location: flag}, nil
	}
	if vault != nil {
		conn, source, err := keyring.ResolveConnectionString(vault)
		if err != nil && !errors.Is(err, keyring.ErrKeyringUnavailable) {
			return Target{}, err
		}
		if source != keyring.SourceNone {
			return Target{Location: conn, Secret: true}, nil
		}
	}
	if cfg != nil && cfg.Database != "" {
		return Target{Location: cfg.Database}, nil
	}
	return Target{Location: config.DefaultConfig().Database}, nil
}

// OpenStore returns the backend for target without connecting to it.
// Connection strings given on the command line or in config.toml must not
// embed a password.
func OpenStore(target Target) (storage.Provider, error) {
	if IsPostgres(target) {
		if !target.Secret {
			if err := postgres.ValidateConnString(target.Location); err != nil {
				if errors.Is(err, postgres.ErrEmbeddedCredentials) {
					return nil, fmt.Errorf("%w: store it with 'habitline config set-connection' or set the environment variable instead", err)
				}
				return nil, err
			}
		}
		return postgres.New(target.Location), nil
	}

	path, err := utils.ExpandPath(target.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to expand database path: %w", err)
	}
	return sqlite.NewStore(path), nil
}

// IsPostgres reports whether target names a PostgreSQL database. Key/value
// DSNs are only recognized from the keyring or environment.
func IsPostgres(target Target) bool {
	if postgres.IsConnString(target.Location) {
		return true
	}
	return target.Secret && strings.Contains(target.Location, "host=")
}

// MaskConnString hides the password of a PostgreSQL connection string.
func MaskConnString(connStr string) string {
	if postgres.IsConnString(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return "****"
		}
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "****")
			return strings.Replace(u.String(), "%2A%2A%2A%2A", "****", 1)
		}
		return connStr
	}

	fields := strings.Fields(connStr)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=****"
		}
	}
	return strings.Join(fields, " ")
}
