package models

import (
	"fmt"

	"github.com/julianstephens/habitline/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{AutoBackup: constants.DefaultAutoBackup}

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingDefaultGoalType:
			gt, err := ParseGoalType(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing default_goal_type: %w", err)
			}
			settings.DefaultGoalType = gt
		case constants.SettingDefaultGoalValue:
			if _, err := fmt.Sscanf(value, "%d", &settings.DefaultGoalValue); err != nil {
				return Settings{}, fmt.Errorf("parsing default_goal_value: %w", err)
			}
		case constants.SettingAutoBackup:
			settings.AutoBackup = value == "true"
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:         settings.Timezone,
		constants.SettingDefaultGoalType:  string(settings.DefaultGoalType),
		constants.SettingDefaultGoalValue: fmt.Sprintf("%d", settings.DefaultGoalValue),
		constants.SettingAutoBackup:       fmt.Sprintf("%v", settings.AutoBackup),
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.DefaultGoalType == "" {
		settings.DefaultGoalType = GoalType(constants.DefaultGoalType)
	}
	if settings.DefaultGoalValue <= 0 {
		settings.DefaultGoalValue = constants.DefaultGoalValue
	}
}
