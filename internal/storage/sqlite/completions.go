package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage"
)

func scanCompletion(row rowScanner) (models.Completion, error) {
	var c models.Completion
	var completedAt string
	if err := row.Scan(&c.ID, &c.HabitID, &completedAt, &c.Note); err != nil {
		return models.Completion{}, err
	}
	t, err := storage.ParseTimestamp(completedAt)
	if err != nil {
		return models.Completion{}, fmt.Errorf("failed to parse completed_at for completion %s: %w", c.ID, err)
	}
	c.CompletedAt = t
	return c, nil
}

func (s *Store) queryCompletions(query string, args ...any) ([]models.Completion, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completions := []models.Completion{}
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

func (s *Store) AddCompletion(c models.Completion) error {
	_, err := s.db.Exec(`
		INSERT INTO completions (id, habit_id, completed_at, note)
		VALUES (?, ?, ?, ?)`,
		c.ID, c.HabitID, storage.FormatTimestamp(c.CompletedAt), c.Note)
	if err != nil {
		return fmt.Errorf("failed to add completion: %w", err)
	}
	return nil
}

func (s *Store) GetCompletion(id string) (models.Completion, error) {
	row := s.db.QueryRow(`SELECT id, habit_id, completed_at, note FROM completions WHERE id = ?`, id)
	c, err := scanCompletion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Completion{}, fmt.Errorf("completion %s: %w", id, storage.ErrNotFound)
	}
	return c, err
}

func (s *Store) GetCompletionsForHabit(habitID string) ([]models.Completion, error) {
	return s.queryCompletions(`
		SELECT id, habit_id, completed_at, note FROM completions
		WHERE habit_id = ? ORDER BY completed_at`, habitID)
}

func (s *Store) GetCompletionsInRange(habitID string, start, end time.Time) ([]models.Completion, error) {
	query := `SELECT id, habit_id, completed_at, note FROM completions WHERE completed_at >= ? AND completed_at < ?`
	args := []any{storage.FormatTimestamp(start), storage.FormatTimestamp(end)}
	if habitID != "" {
		query += " AND habit_id = ?"
		args = append(args, habitID)
	}
	query += " ORDER BY completed_at"
	return s.queryCompletions(query, args...)
}

func (s *Store) DeleteCompletion(id string) error {
	return s.execAffecting("completion not found", `DELETE FROM completions WHERE id = ?`, id)
}

func (s *Store) GetAllCompletions() ([]models.Completion, error) {
	return s.queryCompletions(`SELECT id, habit_id, completed_at, note FROM completions ORDER BY completed_at`)
}
