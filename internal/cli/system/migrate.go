package system

import (
	"fmt"

	"github.com/julianstephens/habitline/internal/cli"
)

// migrator is implemented by the SQL-backed stores.
type migrator interface {
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (current, latest int, err error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	m, ok := ctx.Store.(migrator)
	if !ok {
		return fmt.Errorf("migrate is not supported for this storage backend")
	}

	count, err := m.Migrate(func(msg string) {
		ctx.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
	} else {
		ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
