package gamification

import (
	"time"
)

// Quote is a motivational quote. Author may be empty.
type Quote struct {
	Text   string
	Author string
}

var quotes = []Quote{
	{"Success is the sum of small efforts, repeated day in and day out.", "Robert Collier"},
	{"Habit is second nature.", "Aristotle"},
	{"Don't give up. Usually the key turns on the last try.", ""},
	{"The best time to plant a tree was 20 years ago. The next best time is now.", "Chinese Proverb"},
	{"Consistency is the secret to success.", ""},
	{"We are what we repeatedly do. Excellence, then, is not an act, but a habit.", "Aristotle"},
	{"Small changes over time lead to big results.", ""},
	{"Don't wait for the perfect moment. Start right now.", ""},
	{"Victory belongs to those who are persistent.", ""},
	{"A journey of a thousand miles begins with a single step.", "Lao Tzu"},
	{"Every day is a new chance to be better.", ""},
	{"Habits form character, character determines destiny.", ""},
	{"Success is no accident. It is the result of preparation, hard work, and learning from failure.", "Colin Powell"},
	{"Believe in yourself and all that you are. Know that there is something inside you greater than any obstacle.", ""},
	{"Progress, not perfection.", ""},
}

// Quotes returns a copy of the built-in quotes.
func Quotes() []Quote {
	return append([]Quote(nil), quotes...)
}

// QuoteOfTheDay picks a quote from the day of the year of now.
func QuoteOfTheDay(now time.Time) Quote {
	return quotes[now.YearDay()%len(quotes)]
}

// StreakMessage returns an encouragement for a streak length.
func StreakMessage(streak int) string {
	switch {
	case streak <= 0:
		return "Start your journey to success today!"
	case streak < 3:
		return "Great start! Keep it up!"
	case streak < 7:
		return "You're on the right track! Keep going!"
	case streak < 14:
		return "A week in a row! That's impressive!"
	case streak < 30:
		return "Two weeks! You're forming a real habit!"
	case streak < 90:
		return "A month in a row! You're doing great!"
	default:
		return "Incredible! You're a true master of discipline!"
	}
}
