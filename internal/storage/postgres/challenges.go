package postgres

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
	var habitIDs, completedDays string
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Duration, &habitIDs, &c.StartDate,
		&c.Active, &c.Completed, &c.CurrentDay, &completedDays)
	if err != nil {
		return models.Challenge{}, err
	}
	if c.HabitIDs, err = storage.DecodeStrings(habitIDs); err != nil {
		return models.Challenge{}, fmt.Errorf("failed to decode habit_ids for challenge %s: %w", c.ID, err)
	}
	if c.CompletedDays, err = storage.DecodeStrings(completedDays); err != nil {
		return models.Challenge{}, fmt.Errorf("failed to decode completed_days for challenge %s: %w", c.ID, err)
	}
	return c, nil
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
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			duration = EXCLUDED.duration,
			habit_ids = EXCLUDED.habit_ids,
			active = EXCLUDED.active,
			completed = EXCLUDED.completed,
			current_day = EXCLUDED.current_day,
			completed_days = EXCLUDED.completed_days`,
		c.ID, c.Name, c.Description, c.Duration, habitIDs, c.StartDate.UTC(),
		c.Active, c.Completed, c.CurrentDay, completedDays)
	return err
}

func (s *Store) GetChallenge(id string) (models.Challenge, error) {
	c, err := scanChallenge(s.db.QueryRow(`SELECT `+challengeColumns+` FROM challenges WHERE id = $1`, id))
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
