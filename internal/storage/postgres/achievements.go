package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage"
)

func (s *Store) AddAchievement(a models.Achievement) error {
	_, err := s.db.Exec(`
		INSERT INTO achievements (id, type, habit_id, unlocked_at, value)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (type, habit_id) DO NOTHING`,
		a.ID, string(a.Type), a.HabitID, a.UnlockedAt.UTC(), a.Value)
	if err != nil {
		return fmt.Errorf("failed to add achievement: %w", err)
	}
	return nil
}

func (s *Store) GetAchievements() ([]models.Achievement, error) {
	rows, err := s.db.Query(`
		SELECT id, type, habit_id, unlocked_at, value
		FROM achievements ORDER BY unlocked_at, type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	achievements := []models.Achievement{}
	for rows.Next() {
		var a models.Achievement
		var kind string
		if err := rows.Scan(&a.ID, &kind, &a.HabitID, &a.UnlockedAt, &a.Value); err != nil {
			return nil, err
		}
		a.Type = models.AchievementType(kind)
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

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
		VALUES (1, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			total_points = EXCLUDED.total_points,
			level = EXCLUDED.level,
			days_tracked = EXCLUDED.days_tracked,
			total_completions = EXCLUDED.total_completions,
			longest_streak = EXCLUDED.longest_streak,
			badges = EXCLUDED.badges`,
		p.TotalPoints, p.Level, p.DaysTracked, p.TotalCompletions, p.LongestStreak, storage.EncodeBadges(p.Badges))
	return err
}
