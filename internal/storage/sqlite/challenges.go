package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage"
)

const challengeColumns = `id, name, description, duration, habit_ids, start_date, active, completed, current_day, completed_days`

func scanChallenge(row rowScanner) (models.Challenge, error) {
	var c models.Challenge
	var habitIDs, startDate, completedDays string
	var active, completed int
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Duration, &habitIDs, &startDate,
		&active, &completed, &c.CurrentDay, &completedDays)
	if err != nil {
		return models.Challenge{}, err
	}

	c.Active = active != 0
	c.Completed = completed != 0
	if c.StartDate, err = storage.ParseTimestamp(startDate); err != nil {
		return models.Challenge{}, fmt.Errorf("failed to parse start_date for challenge %s: %w", c.ID, err)
	}
	if c.HabitIDs, err = storage.DecodeStrings(habitIDs); err != nil {
		return models.Challenge{}, fmt.Errorf("failed to decode habit_ids for challenge %s: %w", c.ID, err)
	}
	if c.CompletedDays, err = storage.DecodeStrings(completedDays); err != nil {
		return models.Challenge{}, fmt.Errorf("failed to decode completed_days for challenge %s: %w", c.ID, err)
	}
	return c, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *Store) SaveChallenge(c models.Challenge) error {
	habitIDs, err := storage.EncodeStrings(c.HabitIDs)
	if err != nil {
		return err
	}
	completedDays, err := storage.EncodeStrings(c.CompletedDays)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO challenges (`+challengeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			duration = excluded.duration,
			habit_ids = excluded.habit_ids,
			active = excluded.active,
			completed = excluded.completed,
			current_day = excluded.current_day,
			completed_days = excluded.completed_days`,
		c.ID, c.Name, c.Description, c.Duration, habitIDs, storage.FormatTimestamp(c.StartDate),
		boolInt(c.Active), boolInt(c.Completed), c.CurrentDay, completedDays)
	return err
}

func (s *Store) GetChallenge(id string) (models.Challenge, error) {
	c, err := scanChallenge(s.db.QueryRow(`SELECT `+challengeColumns+` FROM challenges WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Challenge{}, fmt.Errorf("challenge %s: %w", id, storage.ErrNotFound)
	}
	return c, err
}

func (s *Store) GetChallenges() ([]models.Challenge, error) {
	rows, err := s.db.Query(`SELECT ` + challengeColumns + ` FROM challenges ORDER BY start_date, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	challenges := []models.Challenge{}
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, c)
	}
	return challenges, rows.Err()
}
