package keyring

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habitline/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Vault reads and writes a single secret in the OS keyring.
type Vault struct {
	service string
	user    string
}

// New returns a vault for the given keyring user under the application service.
// An empty user selects the default.
func New(user string) *Vault {
	if user == "" {
		user = constants.DefaultKeyringUser
	}
	return &Vault{service: constants.AppName, user: user}
}

// Get returns the stored secret or ErrNotFound.
func (v *Vault) Get() (string, error) {
	secret, err := keyring.Get(v.service, v.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores the secret, replacing any previous value.
func (v *Vault) Set(secret string) error {
	if strings.TrimSpace(secret) == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(v.service, v.user, secret); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// Delete removes the secret. Deleting a missing secret returns ErrNotFound.
func (v *Vault) Delete() error {
	if err := keyring.Delete(v.service, v.user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// Available reports whether the OS keyring answers a lookup.
func (v *Vault) Available() bool {
	_, err := keyring.Get(v.service, "availability-check")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// Source names where a connection string came from.
type Source string

const (
	SourceNone    Source = ""
	SourceEnv     Source = "environment"
	SourceKeyring Source = "keyring"
)

// ResolveConnectionString returns the database connection string, preferring
// the environment variable over the keyring. A missing keyring entry is not
// an error: it yields an empty string and SourceNone.
func ResolveConnectionString(v *Vault) (string, Source, error) {
	if env := strings.TrimSpace(os.Getenv(constants.ConnectionEnvVar)); env != "" {
		return env, SourceEnv, nil
	}
	secret, err := v.Get()
	switch {
	case err == nil:
		return secret, SourceKeyring, nil
	case errors.Is(err, ErrNotFound):
		return "", SourceNone, nil
	default:
		return "", SourceNone, err
	}
}
