package constants

import "time"

const (
	AppName            = "habitline"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitline/habitline.db"
	ConfigFileName     = "config.toml"
	ConnectionEnvVar   = "HABITLINE_DB_CONNECTION"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// TimestampFormat is a fixed-width RFC 3339 layout. Stored in UTC it sorts lexically.
	TimestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

	// Day is the nominal length of a day used for "whole days elapsed" arithmetic.
	// Calendar stepping goes through local dates instead.
	Day = 24 * time.Hour

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitline-"
	BackupFileSuffix = ".db"

	// Gamification
	PointsPerLevel = 1000
	// MorningCutoffHour is the first hour that no longer counts as morning.
	MorningCutoffHour = 12
	// HeatMapSaturation is the number of completions on a day that renders at full intensity.
	HeatMapSaturation = 3
	// WeeklyHistoryWeeks is the default number of weeks shown in weekly history charts.
	WeeklyHistoryWeeks = 12
)
