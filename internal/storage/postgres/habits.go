package postgres

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
	var goalType string
	var category sql.NullString
	var archivedAt, deletedAt sql.NullTime

	err := row.Scan(&h.ID, &h.Name, &h.Description, &h.Color, &h.Icon, &category,
		&goalType, &h.GoalValue, &h.CreatedAt, &archivedAt, &deletedAt)
	if err != nil {
		return models.Habit{}, err
	}

	h.GoalType = models.GoalType(goalType)
	if category.Valid && category.String != "" {
		c := models.Category(category.String)
		h.Category = &c
	}
	h.ArchivedAt = timePtr(archivedAt)
	h.DeletedAt = timePtr(deletedAt)
	return h, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func (s *Store) AddHabit(habit models.Habit) error {
	if err := habit.Validate(); err != nil {
		return err
	}
	return s.UpdateHabit(habit)
}

func (s *Store) getHabitWhere(clause string, arg any, label string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE `+clause+` AND deleted_at IS NULL`, arg)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %s: %w", label, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	return s.getHabitWhere("id = $1", id, id)
}

func (s *Store) GetHabitByName(name string) (models.Habit, error) {
	return s.getHabitWhere("name = $1", name, fmt.Sprintf("%q", name))
}

func (s *Store) GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits WHERE TRUE"
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
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			color = EXCLUDED.color,
			icon = EXCLUDED.icon,
			category = EXCLUDED.category,
			goal_type = EXCLUDED.goal_type,
			goal_value = EXCLUDED.goal_value,
			archived_at = EXCLUDED.archived_at,
			deleted_at = EXCLUDED.deleted_at`,
		habit.ID, habit.Name, habit.Description, habit.Color, habit.Icon, category,
		string(habit.GoalType), habit.GoalValue, habit.CreatedAt.UTC(),
		nullTime(habit.ArchivedAt), nullTime(habit.DeletedAt))
	return err
}

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
		UPDATE habits SET archived_at = NOW() WHERE id = $1 AND deleted_at IS NULL AND archived_at IS NULL`, id)
}

func (s *Store) UnarchiveHabit(id string) error {
	return s.execAffecting("habit not found or not archived", `
		UPDATE habits SET archived_at = NULL WHERE id = $1 AND deleted_at IS NULL AND archived_at IS NOT NULL`, id)
}

func (s *Store) DeleteHabit(id string) error {
	return s.execAffecting("habit not found or already deleted", `
		UPDATE habits SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
}

func (s *Store) RestoreHabit(id string) error {
	return s.execAffecting("habit not found or not deleted", `
		UPDATE habits SET deleted_at = NULL WHERE id = $1 AND deleted_at IS NOT NULL`, id)
}

func (s *Store) PurgeHabit(id string) error {
	return s.execAffecting("habit not found", `DELETE FROM habits WHERE id = $1`, id)
}
