package models

import (
	"time"
)

// Challenge is a time-boxed commitment over one or more habits.
// CompletedDays holds distinct YYYY-MM-DD keys.
type Challenge struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Duration      int       `json:"duration"`
	HabitIDs      []string  `json:"habit_ids"`
	StartDate     time.Time `json:"start_date"`
	Active        bool      `json:"active"`
	Completed     bool      `json:"completed"`
	CurrentDay    int       `json:"current_day"`
	CompletedDays []string  `json:"completed_days"`
}

// Progress returns the completed fraction of the challenge
func (c Challenge) Progress() float64 {
	if c.Duration <= 0 {
		return 0
	}
	return float64(len(c.CompletedDays)) / float64(c.Duration)
}

// DaysRemaining returns the number of days left, never negative
func (c Challenge) DaysRemaining() int {
	return max(0, c.Duration-c.CurrentDay+1)
}

// EndDate returns noon on the last calendar day of the challenge in loc
func (c Challenge) EndDate(loc *time.Location) time.Time {
	y, m, d := c.StartDate.In(loc).Date()
	return time.Date(y, m, d+c.Duration-1, 12, 0, 0, 0, loc)
}

// HasDay reports whether the given day key has been recorded
func (c Challenge) HasDay(day string) bool {
	for _, d := range c.CompletedDays {
		if d == day {
			return true
		}
	}
	return false
}

// ChallengeTemplate is a predefined challenge shape
type ChallengeTemplate struct {
	Key         string
	Name        string
	Description string
	Duration    int
}

// ChallengeTemplates lists the built-in challenge templates
var ChallengeTemplates = []ChallengeTemplate{
	{Key: "thirty-days", Name: "30-Day Challenge", Description: "30 consecutive days without skipping", Duration: 30},
	{Key: "perfect-week", Name: "Perfect Week", Description: "7 days of perfect completion", Duration: 7},
	{Key: "morning-routine", Name: "Morning Routine", Description: "Morning habits for 7 days", Duration: 7},
	{Key: "evening-routine", Name: "Evening Routine", Description: "Evening habits for 7 days", Duration: 7},
	{Key: "weekend-warrior", Name: "Weekend Warrior", Description: "Activity on weekends", Duration: 14},
}

// FindChallengeTemplate looks up a template by key
func FindChallengeTemplate(key string) (ChallengeTemplate, bool) {
	for _, t := range ChallengeTemplates {
		if t.Key == key {
			return t, true
		}
	}
	return ChallengeTemplate{}, false
}
