package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage"
)

const completionColumns = `id, habit_id, completed_at, note`

func (s *Store) queryCompletions(query string, args ...any) ([]models.Completion, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completions := []models.Completion{}
	for rows.Next() {
		var c models.Completion
		if err := rows.Scan(&c.ID, &c.HabitID, &c.CompletedAt, &c.Note); err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

func (s *Store) AddCompletion(c models.Completion) error {
	_, err := s.db.Exec(`INSERT INTO completions (`+completionColumns+`) VALUES ($1, $2, $3, $4)`,
		c.ID, c.HabitID, c.CompletedAt.UTC(), c.Note)
	if err != nil {
		return fmt.Errorf("failed to add completion: %w", err)
	}
	return nil
}

func (s *Store) GetCompletion(id string) (models.Completion, error) {
	var c models.Completion
	err := s.db.QueryRow(`SELECT `+completionColumns+` FROM completions WHERE id = $1`, id).
		Scan(&c.ID, &c.HabitID, &c.CompletedAt, &c.Note)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Completion{}, fmt.Errorf("completion %s: %w", id, storage.ErrNotFound)
	}
	return c, err
}

func (s *Store) GetCompletionsForHabit(habitID string) ([]models.Completion, error) {
	return s.queryCompletions(`SELECT `+completionColumns+` FROM completions WHERE habit_id = $1 ORDER BY completed_at`, habitID)
}

func (s *Store) GetCompletionsInRange(habitID string, start, end time.Time) ([]models.Completion, error) {
	query := `SELECT ` + completionColumns + ` FROM completions WHERE completed_at >= $1 AND completed_at < $2`
	args := []any{start.UTC(), end.UTC()}
	if habitID != "" {
		args = append(args, habitID)
		query += " AND habit_id = $" + strconv.Itoa(len(args))
	}
	query += " ORDER BY completed_at"
	return s.queryCompletions(query, args...)
}

func (s *Store) DeleteCompletion(id string) error {
	return s.execAffecting("completion not found", `DELETE FROM completions WHERE id = $1`, id)
}

func (s *Store) GetAllCompletions() ([]models.Completion, error) {
	return s.queryCompletions(`SELECT ` + completionColumns + ` FROM completions ORDER BY completed_at`)
}
