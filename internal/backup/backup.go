package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/logger"
)

const stampLayout = "20060102-1504"

// ErrNoDatabase is returned when there is no database file to back up.
var ErrNoDatabase = errors.New("database does not exist")

// Info describes a backup file.
type Info struct {
	Name      string
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager creates, lists, rotates and restores sqlite backups kept next to
// the database in a backups/ directory.
type Manager struct {
	dbPath    string
	backupDir string
	keep      int
	now       func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the clock used to name backup files.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithRetention sets how many backups survive rotation.
func WithRetention(keep int) Option {
	return func(m *Manager) {
		if keep > 0 {
			m.keep = keep
		}
	}
}

// NewManager creates a backup manager for the sqlite file at dbPath.
func NewManager(dbPath string, opts ...Option) *Manager {
	m := &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		keep:      constants.MaxBackups,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the backup directory.
func (m *Manager) Dir() string {
	return m.backupDir
}

// Create writes a new backup and rotates old ones.
func (m *Manager) Create() (Info, error) {
	info, err := m.create()
	if err != nil {
		return Info{}, err
	}
	if err := m.Rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	return info, nil
}

// CreateIfStale writes a backup only when none exists for the current day.
// It reports whether a backup was written.
func (m *Manager) CreateIfStale() (Info, bool, error) {
	latest, ok, err := m.Latest()
	if err != nil {
		return Info{}, false, err
	}
	now := m.now().Local()
	if ok {
		y1, m1, d1 := latest.Timestamp.Date()
		y2, m2, d2 := now.Date()
		if y1 == y2 && m1 == m2 && d1 == d2 {
			return latest, false, nil
		}
	}
	info, err := m.Create()
	if err != nil {
		return Info{}, false, err
	}
	return info, true, nil
}

func (m *Manager) create() (Info, error) {
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return Info{}, fmt.Errorf("%w: %s", ErrNoDatabase, m.dbPath)
	}
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return Info{}, fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.uniquePath()
	if err != nil {
		return Info{}, err
	}
	if err := vacuumInto(m.dbPath, path); err != nil {
		return Info{}, fmt.Errorf("failed to backup database: %w", err)
	}

	logger.Debug("Backup created", "path", path)
	return statInfo(path)
}

func (m *Manager) uniquePath() (string, error) {
	stamp := m.now().Local().Format(stampLayout)
	for counter := 0; counter <= 100; counter++ {
		name := constants.BackupFilePrefix + stamp
		if counter > 0 {
			name += "-" + strconv.Itoa(counter)
		}
		path := filepath.Join(m.backupDir, name+constants.BackupFileSuffix)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", errors.New("failed to generate unique backup filename")
}

func vacuumInto(src, dest string) error {
	db, err := sql.Open("sqlite", "file:"+src+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	if err := ping(db); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	_, err = db.Exec("VACUUM INTO ?", dest)
	return err
}

func ping(db *sql.DB) error {
	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

// parseName extracts the timestamp from a backup file name, ignoring the
// optional "-N" collision counter.
func parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
	if len(stamp) > len(stampLayout) {
		if _, err := strconv.Atoi(strings.TrimPrefix(stamp[len(stampLayout):], "-")); err != nil {
			return time.Time{}, false
		}
		stamp = stamp[:len(stampLayout)]
	}
	ts, err := time.ParseInLocation(stampLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func statInfo(path string) (Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	ts, _ := parseName(filepath.Base(path))
	return Info{Name: filepath.Base(path), Path: path, Timestamp: ts, Size: st.Size()}, nil
}

// List returns all backups, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := parseName(entry.Name()); !ok {
			continue
		}
		info, err := statInfo(filepath.Join(m.backupDir, entry.Name()))
		if err != nil {
			continue
		}
		backups = append(backups, info)
	}

	// Same-minute collisions carry a counter, so name order breaks ties.
	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Timestamp.After(backups[j].Timestamp)
		}
		return backups[i].Name > backups[j].Name
	})
	return backups, nil
}

// Latest returns the newest backup, if any.
func (m *Manager) Latest() (Info, bool, error) {
	backups, err := m.List()
	if err != nil || len(backups) == 0 {
		return Info{}, false, err
	}
	return backups[0], true, nil
}

// Rotate removes backups beyond the retention limit, oldest first.
func (m *Manager) Rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := m.keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Name, err)
		}
		logger.Debug("Backup rotated out", "path", backups[i].Path)
	}
	return nil
}

// Resolve maps a bare backup name to its path inside the backup directory.
// Paths containing a separator are returned unchanged.
func (m *Manager) Resolve(nameOrPath string) string {
	if strings.ContainsRune(nameOrPath, filepath.Separator) {
		return nameOrPath
	}
	return filepath.Join(m.backupDir, nameOrPath)
}

// Restore replaces the database with the given backup. When a database is
// already present it is backed up first; that safety backup is returned.
func (m *Manager) Restore(nameOrPath string) (*Info, error) {
	src := m.Resolve(nameOrPath)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil, fmt.Errorf("backup file does not exist: %s", src)
	}
	if err := verify(src); err != nil {
		return nil, fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var safety *Info
	if _, err := os.Stat(m.dbPath); err == nil {
		info, err := m.create()
		if err != nil {
			return nil, fmt.Errorf("failed to backup current database before restore: %w", err)
		}
		safety = &info
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(src, tmp); err != nil {
		return nil, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("Failed to remove temporary restore file", "path", tmp, "error", rmErr)
		}
		return nil, fmt.Errorf("failed to restore database: %w", err)
	}

	logger.Info("Database restored", "from", src)
	return safety, nil
}

func verify(path string) error {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()
	return ping(db)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	if _, err := out.ReadFrom(in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
