package sqlite

import (
	"database/sql"
	"errors"

	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage"
)

// GetUserProgress returns the stored progress, or a fresh level-1 record when
// nothing has been saved yet.
func (s *Store) GetUserProgress() (models.UserProgress, error) {
	var p models.UserProgress
	var badges string
	err := s.db.QueryRow(`
		SELECT total_points, level, days_tracked, total_completions, longest_streak, badges
		FROM user_progress WHERE id = 1`).
		Scan(&p.TotalPoints, &p.Level, &p.DaysTracked, &p.TotalCompletions, &p.LongestStreak, &badges)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewUserProgress(), nil
	}
	if err != nil {
		return models.UserProgress{}, err
	}
	p.Badges = storage.DecodeBadges(badges)
	return p, nil
}

func (s *Store) SaveUserProgress(p models.UserProgress) error {
	_, err := s.db.Exec(`
		INSERT INTO user_progress (id, total_points, level, days_tracked, total_completions, longest_streak, badges)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			total_points = excluded.total_points,
			level = excluded.level,
			days_tracked = excluded.days_tracked,
			total_completions = excluded.total_completions,
			longest_streak = excluded.longest_streak,
			badges = excluded.badges`,
		p.TotalPoints, p.Level, p.DaysTracked, p.TotalCompletions, p.LongestStreak, storage.EncodeBadges(p.Badges))
	return err
}
