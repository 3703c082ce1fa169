package backups

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitline/internal/backup"
	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/cli/render"
	"github.com/julianstephens/habitline/internal/logger"
)

// ErrUnsupported is returned for backup commands against a PostgreSQL store.
var ErrUnsupported = errors.New("backups are only available for SQLite databases; use pg_dump for PostgreSQL")

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
}

func manager(ctx *cli.Context) (*backup.Manager, error) {
	mgr := ctx.BackupManager()
	if mgr == nil {
		return nil, ErrUnsupported
	}
	return mgr, nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	info, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	ctx.Printf("%s Backup created: %s\n", render.Check(true), info.Name)
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.Printf("Available backups (%d total):\n\n", len(backups))
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		ctx.Printf("  %s  %s  (%.1f KB)\n", b.Timestamp.Format("2006-01-02 15:04"), b.Name, sizeKB)
	}
	ctx.Printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	path := mgr.Resolve(c.BackupFile)

	ctx.Println(render.Warning.Render("This will replace your current database with the backup."))
	ctx.Println("A backup of your current database will be created before restoring.")
	ctx.Printf("\nRestore from: %s\n", path)
	if !c.Yes && !cli.Confirm(ctx, "Continue?") {
		ctx.Println("Restore cancelled.")
		return nil
	}

	// Close the current store connection before replacing the file
	if err := ctx.Store.Close(); err != nil {
		logger.Warn("Failed to close database connection", "error", err)
	}

	safety, err := mgr.Restore(c.BackupFile)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	ctx.Printf("%s Database restored successfully!\n", render.Check(true))
	if safety != nil {
		ctx.Printf("Previous database saved as %s\n", safety.Name)
	}
	return nil
}
