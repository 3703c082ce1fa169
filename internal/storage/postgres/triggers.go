package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage"
)

const triggerColumns = `id, source_habit_id, target_habit_id, condition_type, threshold, enabled, created_at`

func scanTrigger(row rowScanner) (models.Trigger, error) {
	var t models.Trigger
	var condition string
	err := row.Scan(&t.ID, &t.SourceHabitID, &t.TargetHabitID, &condition, &t.Threshold, &t.Enabled, &t.CreatedAt)
	if err != nil {
		return models.Trigger{}, err
	}
	t.Condition = models.TriggerCondition(condition)
	return t, nil
}

func (s *Store) SaveTrigger(t models.Trigger) error {
	_, err := s.db.Exec(`
		INSERT INTO habit_triggers (`+triggerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			condition_type = EXCLUDED.condition_type,
			threshold = EXCLUDED.threshold,
			enabled = EXCLUDED.enabled`,
		t.ID, t.SourceHabitID, t.TargetHabitID, string(t.Condition), t.Threshold,
		t.Enabled, t.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save trigger: %w", err)
	}
	return nil
}

func (s *Store) GetTrigger(id string) (models.Trigger, error) {
	t, err := scanTrigger(s.db.QueryRow(`SELECT `+triggerColumns+` FROM habit_triggers WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Trigger{}, fmt.Errorf("trigger %s: %w", id, storage.ErrNotFound)
	}
	return t, err
}

func (s *Store) GetTriggers() ([]models.Trigger, error) {
	rows, err := s.db.Query(`SELECT ` + triggerColumns + ` FROM habit_triggers ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	triggers := []models.Trigger{}
	for rows.Next() {
		t, err := scanTrigger(rows)
		if err != nil {
			return nil, err
		}
		triggers = append(triggers, t)
	}
	return triggers, rows.Err()
}

func (s *Store) DeleteTrigger(id string) error {
	return s.execAffecting("trigger not found", `DELETE FROM habit_triggers WHERE id = $1`, id)
}
