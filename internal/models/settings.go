package models

// Settings represents application-wide settings
type Settings struct {
	Timezone         string   `json:"timezone"`           // IANA timezone name (e.g. "Europe/London", or "Local" for system timezone)
	DefaultGoalType  GoalType `json:"default_goal_type"`  // goal type used when a habit is added without one
	DefaultGoalValue int      `json:"default_goal_value"` // goal value used when a habit is added without one
	AutoBackup       bool     `json:"auto_backup"`        // whether mutating commands take an automatic backup
}
