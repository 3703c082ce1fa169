package models

// HabitTemplate is a predefined habit a user can start from
type HabitTemplate struct {
	Key         string
	Name        string
	Description string
	Icon        string
	Color       string
	Category    Category
	GoalType    GoalType
	GoalValue   int
}

// ToHabit builds an unsaved habit from the template. Callers assign ID and CreatedAt.
func (t HabitTemplate) ToHabit() Habit {
	cat := t.Category
	return Habit{
		Name:        t.Name,
		Description: t.Description,
		Color:       t.Color,
		Icon:        t.Icon,
		Category:    &cat,
		GoalType:    t.GoalType,
		GoalValue:   t.GoalValue,
	}
}

// HabitTemplates lists the built-in habit templates
var HabitTemplates = []HabitTemplate{
	{Key: "morning-exercise", Name: "Morning Exercise", Description: "15-30 minutes of physical exercise", Icon: "directions_run", Color: "#FF6B6B", Category: CategoryFitness, GoalType: GoalDaysPerWeek, GoalValue: 5},
	{Key: "reading", Name: "Reading", Description: "Read books for self-development", Icon: "menu_book", Color: "#4ECDC4", Category: CategoryLearning, GoalType: GoalDaysPerWeek, GoalValue: 7},
	{Key: "meditation", Name: "Meditation", Description: "Calming meditation", Icon: "eco", Color: "#95E1D3", Category: CategoryPersonal, GoalType: GoalDaysPerWeek, GoalValue: 7},
	{Key: "drink-water", Name: "Drink Water", Description: "Drink 8 glasses of water", Icon: "opacity", Color: "#3498DB", Category: CategoryHealth, GoalType: GoalDaysPerWeek, GoalValue: 7},
	{Key: "daily-planning", Name: "Daily Planning", Description: "Make a plan for the day", Icon: "create", Color: "#9B59B6", Category: CategoryWork, GoalType: GoalDaysPerWeek, GoalValue: 5},
	{Key: "language-learning", Name: "Language Learning", Description: "Practice a foreign language", Icon: "menu_book", Color: "#E74C3C", Category: CategoryLearning, GoalType: GoalDaysPerWeek, GoalValue: 6},
	{Key: "sleep", Name: "Sleep 8 Hours", Description: "Healthy sleep", Icon: "nights_stay", Color: "#34495E", Category: CategoryHealth, GoalType: GoalDaysPerWeek, GoalValue: 7},
	{Key: "walking", Name: "Walking", Description: "Walk in the fresh air", Icon: "directions_run", Color: "#2ECC71", Category: CategoryHealth, GoalType: GoalDaysPerWeek, GoalValue: 5},
	{Key: "journaling", Name: "Journaling", Description: "Write down thoughts and events", Icon: "menu_book", Color: "#F39C12", Category: CategoryPersonal, GoalType: GoalDaysPerWeek, GoalValue: 5},
	{Key: "social-detox", Name: "Social Media Detox", Description: "Don't use social media until evening", Icon: "psychology", Color: "#E67E22", Category: CategoryPersonal, GoalType: GoalDaysPerWeek, GoalValue: 5},
}

// FindHabitTemplate looks up a template by key
func FindHabitTemplate(key string) (HabitTemplate, bool) {
	for _, t := range HabitTemplates {
		if t.Key == key {
			return t, true
		}
	}
	return HabitTemplate{}, false
}
