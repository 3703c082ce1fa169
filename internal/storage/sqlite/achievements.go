package sqlite

import (
	"fmt"

	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage"
)

// AddAchievement stores an unlocked achievement. Re-adding the same type for
// the same habit is a no-op.
func (s *Store) AddAchievement(a models.Achievement) error {
	_, err := s.db.Exec(`
		INSERT INTO achievements (id, type, habit_id, unlocked_at, value)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(type, habit_id) DO NOTHING`,
		a.ID, string(a.Type), a.HabitID, storage.FormatTimestamp(a.UnlockedAt), a.Value)
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
		var kind, unlockedAt string
		if err := rows.Scan(&a.ID, &kind, &a.HabitID, &unlockedAt, &a.Value); err != nil {
			return nil, err
		}
		a.Type = models.AchievementType(kind)
		if a.UnlockedAt, err = storage.ParseTimestamp(unlockedAt); err != nil {
			return nil, fmt.Errorf("failed to parse unlocked_at for achievement %s: %w", a.ID, err)
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}
