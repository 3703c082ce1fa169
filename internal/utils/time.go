package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitline/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) as noon of that day in
// loc. Noon always exists, unlike midnight in zones whose DST starts at 00:00.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, loc), nil
}

// ParseMonth parses "YYYY-MM" as noon on the first of that month in loc.
func ParseMonth(monthStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("2006-01", monthStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM", monthStr)
	}
	return time.Date(t.Year(), t.Month(), 1, 12, 0, 0, 0, loc), nil
}

// ParseClock parses an HH:MM string into an offset from midnight.
func ParseClock(clock string) (time.Duration, error) {
	t, err := time.Parse(constants.TimeFormat, strings.TrimSpace(clock))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", clock)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseWeekdays parses a comma-separated weekday list ("mon,wed,fri").
// The shorthands "daily", "weekdays" and "weekends" are accepted. Duplicates
// are dropped and order is preserved.
func ParseWeekdays(s string) ([]time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "daily", "everyday":
		return nil, nil
	case "weekdays":
		return []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}, nil
	case "weekends":
		return []time.Weekday{time.Saturday, time.Sunday}, nil
	}

	seen := make(map[time.Weekday]bool)
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		wd, ok := weekdayNames[part]
		if !ok {
			return nil, fmt.Errorf("invalid weekday %q", part)
		}
		if !seen[wd] {
			seen[wd] = true
			days = append(days, wd)
		}
	}
	return days, nil
}
