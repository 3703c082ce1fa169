package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/cli/render"
	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/gamification"
	"github.com/julianstephens/habitline/internal/logger"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/trigger"
	"github.com/julianstephens/habitline/internal/utils"
)

type HabitCmd struct {
	Add       HabitAddCmd       `cmd:"" help:"Add a new habit."`
	List      HabitListCmd      `cmd:"" help:"List habits."`
	Show      HabitShowCmd      `cmd:"" help:"Show a habit and its statistics."`
	Mark      HabitMarkCmd      `cmd:"" help:"Toggle today's completion of a habit."`
	Today     HabitTodayCmd     `cmd:"" help:"Show today's habit status."`
	Log       HabitLogCmd       `cmd:"" help:"Record a completion on a past day."`
	Archive   HabitArchiveCmd   `cmd:"" help:"Archive a habit."`
	Unarchive HabitUnarchiveCmd `cmd:"" help:"Return an archived habit to the active list."`
	Delete    HabitDeleteCmd    `cmd:"" help:"Delete a habit (soft delete)."`
	Restore   HabitRestoreCmd   `cmd:"" help:"Restore a deleted habit."`
	Purge     HabitPurgeCmd     `cmd:"" help:"Permanently remove a habit and its history."`
	Remind    HabitRemindCmd    `cmd:"" help:"Set or clear a habit's reminder."`
	Templates HabitTemplatesCmd `cmd:"" help:"List built-in habit templates."`
}

type HabitAddCmd struct {
	Name        string `arg:"" optional:"" help:"Habit name (omit when using --template)."`
	Template    string `help:"Create the habit from a built-in template key." short:"t"`
	Description string `help:"Habit description."`
	Goal        string `help:"Goal type: days_per_week or consecutive_days." default:""`
	Target      int    `help:"Goal value (days per week or streak length)." default:"0"`
	Category    string `help:"Category (health, fitness, learning, work, personal, social, creativity, finance, other)."`
	Color       string `help:"Display color as #RRGGBB."`
	Icon        string `help:"Icon name."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	tr := ctx.Tracker()

	if c.Template != "" {
		if c.Name != "" {
			return fmt.Errorf("a habit name cannot be combined with --template")
		}
		h, err := tr.AddFromTemplate(c.Template)
		if err != nil {
			return err
		}
		ctx.Printf("Added habit: %s (from template %s)\n", h.Name, c.Template)
		ctx.PerformAutomaticBackup()
		return nil
	}
	if strings.TrimSpace(c.Name) == "" {
		return models.ErrEmptyName
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	goalType := settings.DefaultGoalType
	if c.Goal != "" {
		if goalType, err = models.ParseGoalType(c.Goal); err != nil {
			return err
		}
	}
	goalValue := settings.DefaultGoalValue
	if c.Target != 0 {
		goalValue = c.Target
	}
	category, err := models.ParseCategory(c.Category)
	if err != nil {
		return err
	}

	h, err := tr.AddHabit(models.Habit{
		Name:        c.Name,
		Description: c.Description,
		GoalType:    goalType,
		GoalValue:   goalValue,
		Category:    category,
		Color:       c.Color,
		Icon:        c.Icon,
	})
	if err != nil {
		return err
	}

	ctx.Printf("Added habit: %s (%d %s)\n", h.Name, h.GoalValue, h.GoalType)
	ctx.PerformAutomaticBackup()
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
	Deleted  bool `help:"Include deleted habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	habits, err := ctx.Store.GetAllHabits(c.Archived, c.Deleted)
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	for _, h := range habits {
		status := ""
		if h.DeletedAt != nil {
			status = render.Danger.Render(" [DELETED]")
		} else if h.ArchivedAt != nil {
			status = render.Muted.Render(" [ARCHIVED]")
		}
		ctx.Printf("%s%s  %s\n", h.Name, status, render.Muted.Render(fmt.Sprintf("%d %s", h.GoalValue, h.GoalType)))
	}

	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	h, err := ctx.Tracker().LoadHabit(c.Habit)
	if err != nil {
		return err
	}
	engine, now := ctx.Engine(), ctx.Now()
	s := engine.Summarize(h, now)

	ctx.Println(render.Title.Render(h.Name))
	if h.Description != "" {
		ctx.Println(render.Muted.Render(h.Description))
	}
	ctx.Println(render.Row("Goal", fmt.Sprintf("%d %s", h.GoalValue, h.GoalType)))
	if h.Category != nil {
		ctx.Println(render.Row("Category", *h.Category))
	}
	ctx.Println(render.Row("Created", h.CreatedAt.In(engine.Location()).Format(constants.DateFormat)))
	ctx.Println(render.Row("Done today", render.Check(s.CompletedToday)))
	ctx.Println(render.Row("Current streak", fmt.Sprintf("%d days", s.CurrentStreak)))
	ctx.Println(render.Row("Best streak", fmt.Sprintf("%d days", s.BestStreak)))
	ctx.Println(render.Row("This week", render.Bar(s.Weekly, 20)+" "+render.Percent(s.Weekly)))
	ctx.Println(render.Row("Overall", render.Bar(s.Overall, 20)+" "+render.Percent(s.Overall)))
	ctx.Println(render.Row("Total completions", s.TotalCompletions))
	for _, r := range h.Reminders {
		ctx.Println(render.Row("Reminder", r.Clock()+" "+weekdayList(r.Weekdays)))
	}

	ctx.Println()
	ctx.Println(render.Muted.Render(fmt.Sprintf("Last %d weeks:", constants.WeeklyHistoryWeeks)))
	for i, p := range engine.WeeklyHistory(h, now, constants.WeeklyHistoryWeeks) {
		label := fmt.Sprintf("  %d weeks ago", constants.WeeklyHistoryWeeks-1-i)
		if i == constants.WeeklyHistoryWeeks-1 {
			label = "  this week"
		}
		ctx.Println(render.Row(label, render.Bar(p, 20)+" "+render.Percent(p)))
	}
	ctx.Println()
	ctx.Println(render.Warning.Render(gamification.StreakMessage(s.CurrentStreak)))
	return nil
}

type HabitMarkCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Note  string `help:"Optional note for this completion." default:""`
}

func (c *HabitMarkCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	tr := ctx.Tracker()
	result, err := tr.ToggleCompletion(c.Habit, c.Note)
	if err != nil {
		return err
	}

	if !result.Completed {
		ctx.Printf("Unmarked %q for today\n", result.Habit.Name)
		printSuggestions(ctx, result.Suggestions)
		ctx.PerformAutomaticBackup()
		return nil
	}

	streak := ctx.Engine().CurrentStreak(result.Habit, ctx.Now())
	ctx.Printf("%s Marked %q for today (+%d points, streak %d)\n", render.Check(true), result.Habit.Name, result.Points, streak)
	for _, b := range result.Badges {
		ctx.Println(render.Success.Render("Badge earned: " + b))
	}
	for _, a := range result.Achievements {
		ctx.Println(render.Success.Render("Achievement unlocked: " + a.Type.Title()))
	}

	printSuggestions(ctx, result.Suggestions)
	syncChallenges(ctx)
	ctx.PerformAutomaticBackup()
	return nil
}

func printSuggestions(ctx *cli.Context, suggestions []trigger.Suggestion) {
	for _, s := range suggestions {
		reason := s.Trigger.Condition.Describe(s.Source.Name, s.Trigger.Threshold)
		ctx.Printf("Up next: %s %s\n", render.Title.Render(s.Target.Name), render.Muted.Render("("+reason+")"))
	}
}

// syncChallenges records today on every active challenge whose habits are
// all done.
func syncChallenges(ctx *cli.Context) {
	habits, err := ctx.Tracker().LoadHabits(false)
	if err != nil {
		logger.Warn("Failed to load habits for challenge sync", "error", err)
		return
	}
	changed, err := ctx.Challenges().Sync(habits, ctx.Now())
	if err != nil {
		logger.Warn("Challenge sync failed", "error", err)
	}
	for _, ch := range changed {
		if ch.Completed {
			ctx.Println(render.Success.Render(fmt.Sprintf("Challenge completed: %s", ch.Name)))
		} else {
			ctx.Printf("Challenge %s: day %d/%d recorded\n", ch.Name, len(ch.CompletedDays), ch.Duration)
		}
	}
}

type HabitTodayCmd struct{}

func (c *HabitTodayCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	habits, err := ctx.Tracker().LoadHabits(false)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		ctx.Println("No habits found. Add one with 'habitline habit add'.")
		return nil
	}

	engine, now := ctx.Engine(), ctx.Now()
	ctx.Println(render.Title.Render("Today, " + now.Format("Monday, January 2")))
	done := 0
	for _, h := range habits {
		completed := engine.IsCompletedToday(h, now)
		if completed {
			done++
		}
		streak := engine.CurrentStreak(h, now)
		ctx.Printf("  %s %s %s\n", render.Check(completed), h.Name, render.Muted.Render(fmt.Sprintf("(streak %d)", streak)))
	}
	ctx.Printf("\n%d/%d done\n", done, len(habits))

	suggestions, err := ctx.Tracker().Suggestions(habits)
	if err != nil {
		logger.Warn("Failed to load trigger suggestions", "error", err)
		return nil
	}
	if len(suggestions) > 0 {
		ctx.Println()
		printSuggestions(ctx, suggestions)
	}
	return nil
}

type HabitLogCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
	Note  string `help:"Optional note for this completion." default:""`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	day := ctx.Now()
	if c.Date != "" {
		parsed, err := utils.ParseDateInLocation(c.Date, ctx.Engine().Location())
		if err != nil {
			return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", c.Date)
		}
		day = parsed
	}

	completion, err := ctx.Tracker().CompleteOn(c.Habit, day, c.Note)
	if err != nil {
		return err
	}

	ctx.Printf("Logged %q for %s\n", c.Habit, ctx.Engine().DayKey(completion.CompletedAt))
	ctx.PerformAutomaticBackup()
	return nil
}

type HabitArchiveCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	return mutate(ctx, "Archived", func() (models.Habit, error) {
		return ctx.Tracker().Archive(c.Habit)
	})
}

type HabitUnarchiveCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *HabitUnarchiveCmd) Run(ctx *cli.Context) error {
	return mutate(ctx, "Unarchived", func() (models.Habit, error) {
		return ctx.Tracker().Unarchive(c.Habit)
	})
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	return mutate(ctx, "Deleted", func() (models.Habit, error) {
		return ctx.Tracker().Delete(c.Habit)
	})
}

type HabitRestoreCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *HabitRestoreCmd) Run(ctx *cli.Context) error {
	return mutate(ctx, "Restored", func() (models.Habit, error) {
		return ctx.Tracker().Restore(c.Habit)
	})
}

type HabitPurgeCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Yes   bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *HabitPurgeCmd) Run(ctx *cli.Context) error {
	if !c.Yes && !cli.Confirm(ctx, fmt.Sprintf("Permanently remove %q and all of its completions?", c.Habit)) {
		ctx.Println("Purge cancelled.")
		return nil
	}
	return mutate(ctx, "Purged", func() (models.Habit, error) {
		return ctx.Tracker().Purge(c.Habit)
	})
}

func mutate(ctx *cli.Context, verb string, op func() (models.Habit, error)) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	h, err := op()
	if err != nil {
		return err
	}
	ctx.Printf("%s habit: %s\n", verb, h.Name)
	ctx.PerformAutomaticBackup()
	return nil
}

type HabitRemindCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	At    string `arg:"" optional:"" help:"Time of day as HH:MM."`
	Days  string `help:"Weekdays: daily, weekdays, weekends or a list like mon,wed,fri." default:"daily"`
	Clear bool   `help:"Remove the habit's reminders."`
}

func (c *HabitRemindCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	tr := ctx.Tracker()

	if c.Clear {
		if err := tr.ClearReminders(c.Habit); err != nil {
			return err
		}
		ctx.Printf("Cleared reminders for %s\n", c.Habit)
		return nil
	}
	if c.At == "" {
		return fmt.Errorf("a time (HH:MM) is required unless --clear is given")
	}

	at, err := utils.ParseClock(c.At)
	if err != nil {
		return err
	}
	weekdays, err := utils.ParseWeekdays(c.Days)
	if err != nil {
		return err
	}
	r, err := tr.SetReminder(c.Habit, at, weekdays)
	if err != nil {
		return err
	}
	ctx.Printf("Reminder for %s set to %s %s\n", c.Habit, r.Clock(), weekdayList(r.Weekdays))
	return nil
}

type HabitTemplatesCmd struct{}

func (c *HabitTemplatesCmd) Run(ctx *cli.Context) error {
	for _, t := range models.HabitTemplates {
		ctx.Printf("%-20s %-20s %s\n", t.Key, t.Name, render.Muted.Render(fmt.Sprintf("%d %s", t.GoalValue, t.GoalType)))
	}
	return nil
}

// weekdayList renders 1=Sunday..7=Saturday codes as short day names.
func weekdayList(codes []int) string {
	if len(codes) == 0 {
		return "(every day)"
	}
	names := make([]string, 0, len(codes))
	for _, code := range codes {
		names = append(names, time.Weekday(code - 1).String()[:3])
	}
	return "(" + strings.Join(names, ", ") + ")"
}
