package constants

const (
	SettingTimezone         = "timezone"
	SettingDefaultGoalType  = "default_goal_type"
	SettingDefaultGoalValue = "default_goal_value"
	SettingAutoBackup       = "auto_backup"

	// Default Settings Values
	DefaultTimezone   = "Local" // Use system local timezone by default
	DefaultGoalType   = "days_per_week"
	DefaultGoalValue  = 7
	DefaultAutoBackup = true
	DefaultHabitColor = "#007AFF"
	DefaultHabitIcon  = "star"
	DefaultGroupIcon  = "folder"
)
