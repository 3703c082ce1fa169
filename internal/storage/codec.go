package storage

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitline/internal/constants"
)

// FormatTimestamp renders t as fixed-width UTC text for text-typed columns.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(constants.TimestampFormat)
}

// ParseTimestamp parses text written by FormatTimestamp or any RFC 3339 value.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// EncodeWeekdays joins weekday codes as "2,4,6".
func EncodeWeekdays(days []int) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

// DecodeWeekdays parses the output of EncodeWeekdays.
func DecodeWeekdays(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var days []int
	for _, part := range strings.Split(s, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid weekday %q: %w", part, err)
		}
		if d < 1 || d > 7 {
			return nil, fmt.Errorf("weekday %d out of range 1-7", d)
		}
		days = append(days, d)
	}
	return days, nil
}

// EncodeBadges joins badge names with commas.
func EncodeBadges(badges []string) string {
	return strings.Join(badges, ",")
}

// DecodeBadges splits a comma separated badge list.
func DecodeBadges(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// EncodeStrings stores a string list as a JSON array.
func EncodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeStrings parses a JSON array written by EncodeStrings.
func DecodeStrings(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(s), &values); err != nil {
		return nil, err
	}
	return values, nil
}

// DurationToMillis converts a time of day to milliseconds since midnight.
func DurationToMillis(d time.Duration) int64 {
	return d.Milliseconds()
}

// MillisToDuration converts milliseconds since midnight back to a duration.
func MillisToDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
