package sqlite

import (
	"fmt"

	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage"
)

func (s *Store) ReplaceReminders(habitID string, reminders []models.Reminder) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM reminders WHERE habit_id = ?", habitID); err != nil {
		return fmt.Errorf("failed to clear reminders: %w", err)
	}

	for _, r := range reminders {
		enabled := 0
		if r.Enabled {
			enabled = 1
		}
		_, err := tx.Exec(`
			INSERT INTO reminders (id, habit_id, time_of_day_ms, weekdays, enabled)
			VALUES (?, ?, ?, ?, ?)`,
			r.ID, habitID, storage.DurationToMillis(r.TimeOfDay), storage.EncodeWeekdays(r.Weekdays), enabled)
		if err != nil {
			return fmt.Errorf("failed to save reminder %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

func (s *Store) GetReminders(habitID string) ([]models.Reminder, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, time_of_day_ms, weekdays, enabled
		FROM reminders WHERE habit_id = ? ORDER BY time_of_day_ms`, habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reminders := []models.Reminder{}
	for rows.Next() {
		var r models.Reminder
		var ms int64
		var weekdays string
		var enabled int
		if err := rows.Scan(&r.ID, &r.HabitID, &ms, &weekdays, &enabled); err != nil {
			return nil, err
		}
		r.TimeOfDay = storage.MillisToDuration(ms)
		r.Enabled = enabled != 0
		if r.Weekdays, err = storage.DecodeWeekdays(weekdays); err != nil {
			return nil, fmt.Errorf("reminder %s: %w", r.ID, err)
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}
