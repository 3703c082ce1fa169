package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage"
)

const habitColumns = `id, name, description, color, icon, category, goal_type, goal_value, created_at, archived_at, deleted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var goalType, createdAt string
	var category, archivedAt, deletedAt sql.NullString

	err := row.Scan(&h.ID, &h.Name, &h.Description, &h.Color, &h.Icon, &category,
		&goalType, &h.GoalValue, &createdAt, &archivedAt, &deletedAt)
	if err != nil {
		return models.Habit{}, err
	}

	h.GoalType = models.GoalType(goalType)
	if category.Valid && category.String != "" {
		c := models.Category(category.String)
		h.Category = &c
	}

	h.CreatedAt, err = storage.ParseTimestamp(createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
	}
	if archivedAt.Valid {
		t, err := storage.ParseTimestamp(archivedAt.String)
		if err != nil {
			return models.Habit{}, fmt.Errorf("failed to parse archived_at for habit %s: %w", h.ID, err)
		}
		h.ArchivedAt = &t
	}
	if deletedAt.Valid {
		t, err := storage.ParseTimestamp(deletedAt.String)
		if err != nil {
			return models.Habit{}, fmt.Errorf("failed to parse deleted_at for habit %s: %w", h.ID, err)
		}
		h.DeletedAt = &t
	}

	return h, nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: storage.FormatTimestamp(*t), Valid: true}
}

func (s *Store) AddHabit(habit models.Habit) error {
	if err := habit.Validate(); err != nil {
		return err
	}
	return s.UpdateHabit(habit)
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ? AND deleted_at IS NULL`, id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) GetHabitByName(name string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE name = ? AND deleted_at IS NULL`, name)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %q: %w", name, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error) {
	exists, err := s.tableExists("habits")
	if err != nil || !exists {
		return []models.Habit{}, nil
	}

	query := "SELECT " + habitColumns + " FROM habits WHERE 1=1"
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	if !includeArchived {
		query += " AND archived_at IS NULL"
	}
	query += " ORDER BY created_at, name"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	var category sql.NullString
	if habit.Category != nil {
		category = sql.NullString{String: string(*habit.Category), Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			color = excluded.color,
			icon = excluded.icon,
			category = excluded.category,
			goal_type = excluded.goal_type,
			goal_value = excluded.goal_value,
			archived_at = excluded.archived_at,
			deleted_at = excluded.deleted_at`,
		habit.ID, habit.Name, habit.Description, habit.Color, habit.Icon, category,
		string(habit.GoalType), habit.GoalValue, storage.FormatTimestamp(habit.CreatedAt),
		nullTime(habit.ArchivedAt), nullTime(habit.DeletedAt))

	return err
}

// execAffecting runs a statement and returns notFound when no row changed.
func (s *Store) execAffecting(notFound string, query string, args ...any) error {
	result, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", notFound, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) ArchiveHabit(id string) error {
	return s.execAffecting("habit not found or already archived/deleted", `
		UPDATE habits SET archived_at = ? WHERE id = ? AND deleted_at IS NULL AND archived_at IS NULL`,
		storage.FormatTimestamp(time.Now()), id)
}

func (s *Store) UnarchiveHabit(id string) error {
	return s.execAffecting("habit not found or not archived", `
		UPDATE habits SET archived_at = NULL WHERE id = ? AND deleted_at IS NULL AND archived_at IS NOT NULL`,
		id)
}

func (s *Store) DeleteHabit(id string) error {
	return s.execAffecting("habit not found or already deleted", `
		UPDATE habits SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		storage.FormatTimestamp(time.Now()), id)
}

func (s *Store) RestoreHabit(id string) error {
	return s.execAffecting("habit not found or not deleted", `
		UPDATE habits SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL`,
		id)
}

func (s *Store) PurgeHabit(id string) error {
	return s.execAffecting("habit not found", `DELETE FROM habits WHERE id = ?`, id)
}
