package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage"
)

const groupColumns = `id, name, description, color, icon, created_at`

func scanGroup(row rowScanner) (models.HabitGroup, error) {
	var g models.HabitGroup
	var createdAt string
	if err := row.Scan(&g.ID, &g.Name, &g.Description, &g.Color, &g.Icon, &createdAt); err != nil {
		return models.HabitGroup{}, err
	}
	t, err := storage.ParseTimestamp(createdAt)
	if err != nil {
		return models.HabitGroup{}, fmt.Errorf("failed to parse created_at for group %s: %w", g.ID, err)
	}
	g.CreatedAt = t
	return g, nil
}

func (s *Store) SaveGroup(g models.HabitGroup) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		INSERT INTO habit_groups (`+groupColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			color = excluded.color,
			icon = excluded.icon`,
		g.ID, g.Name, g.Description, g.Color, g.Icon, storage.FormatTimestamp(g.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save group: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM habit_group_members WHERE group_id = ?`, g.ID); err != nil {
		return fmt.Errorf("failed to clear group members: %w", err)
	}
	for i, habitID := range g.HabitIDs {
		if _, err := tx.Exec(`
			INSERT INTO habit_group_members (group_id, habit_id, position) VALUES (?, ?, ?)`,
			g.ID, habitID, i); err != nil {
			return fmt.Errorf("failed to add habit %s to group: %w", habitID, err)
		}
	}
	return tx.Commit()
}

func (s *Store) getGroup(query string, arg string) (models.HabitGroup, error) {
	g, err := scanGroup(s.db.QueryRow(`SELECT `+groupColumns+` FROM habit_groups WHERE `+query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return models.HabitGroup{}, fmt.Errorf("group %s: %w", arg, storage.ErrNotFound)
	}
	if err != nil {
		return models.HabitGroup{}, err
	}
	members, err := s.groupMembers()
	if err != nil {
		return models.HabitGroup{}, err
	}
	g.HabitIDs = members[g.ID]
	return g, nil
}

func (s *Store) GetGroup(id string) (models.HabitGroup, error) {
	return s.getGroup(`id = ?`, id)
}

func (s *Store) GetGroupByName(name string) (models.HabitGroup, error) {
	return s.getGroup(`name = ? COLLATE NOCASE`, name)
}

func (s *Store) GetGroups() ([]models.HabitGroup, error) {
	rows, err := s.db.Query(`SELECT ` + groupColumns + ` FROM habit_groups ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []models.HabitGroup{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	members, err := s.groupMembers()
	if err != nil {
		return nil, err
	}
	for i := range groups {
		groups[i].HabitIDs = members[groups[i].ID]
	}
	return groups, nil
}

// groupMembers maps group IDs to their ordered habit IDs.
func (s *Store) groupMembers() (map[string][]string, error) {
	rows, err := s.db.Query(`SELECT group_id, habit_id FROM habit_group_members ORDER BY group_id, position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make(map[string][]string)
	for rows.Next() {
		var groupID, habitID string
		if err := rows.Scan(&groupID, &habitID); err != nil {
			return nil, err
		}
		members[groupID] = append(members[groupID], habitID)
	}
	return members, rows.Err()
}

func (s *Store) DeleteGroup(id string) error {
	return s.execAffecting("group not found", `DELETE FROM habit_groups WHERE id = ?`, id)
}
