package storage

import (
	"errors"
	"time"

	"github.com/julianstephens/habitline/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("not found")
	// ErrNotInitialized is returned by Load when the store has never been initialized
	ErrNotInitialized = errors.New("storage not initialized, run 'habitline init' first")
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(name string) (models.Habit, error)
	GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	ArchiveHabit(id string) error
	UnarchiveHabit(id string) error
	DeleteHabit(id string) error
	RestoreHabit(id string) error
	// PurgeHabit permanently removes a habit together with its completions and reminders.
	PurgeHabit(id string) error

	// Completions
	AddCompletion(models.Completion) error
	GetCompletion(id string) (models.Completion, error)
	GetCompletionsForHabit(habitID string) ([]models.Completion, error)
	// GetCompletionsInRange returns completions with start <= completed_at < end,
	// ordered by completion time. An empty habitID matches every habit.
	GetCompletionsInRange(habitID string, start, end time.Time) ([]models.Completion, error)
	DeleteCompletion(id string) error
	GetAllCompletions() ([]models.Completion, error)

	// Reminders
	ReplaceReminders(habitID string, reminders []models.Reminder) error
	GetReminders(habitID string) ([]models.Reminder, error)

	// Achievements
	AddAchievement(models.Achievement) error
	GetAchievements() ([]models.Achievement, error)

	// Progress
	GetUserProgress() (models.UserProgress, error)
	SaveUserProgress(models.UserProgress) error

	// Challenges
	SaveChallenge(models.Challenge) error
	GetChallenge(id string) (models.Challenge, error)
	GetChallenges() ([]models.Challenge, error)

	// Groups. SaveGroup replaces the member list; purged habits drop out.
	SaveGroup(models.HabitGroup) error
	GetGroup(id string) (models.HabitGroup, error)
	GetGroupByName(name string) (models.HabitGroup, error)
	GetGroups() ([]models.HabitGroup, error)
	DeleteGroup(id string) error

	// Triggers
	SaveTrigger(models.Trigger) error
	GetTrigger(id string) (models.Trigger, error)
	GetTriggers() ([]models.Trigger, error)
	DeleteTrigger(id string) error

	// Utils
	GetConfigPath() string
}
