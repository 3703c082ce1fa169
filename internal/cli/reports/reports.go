package reports

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/cli/render"
	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/gamification"
	"github.com/julianstephens/habitline/internal/insights"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/stats"
	"github.com/julianstephens/habitline/internal/utils"
)

type StatsCmd struct {
	Habit    string `arg:"" optional:"" help:"Habit name or ID (default: all habits)."`
	Archived bool   `help:"Include archived habits."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	tr := ctx.Tracker()
	engine, now := ctx.Engine(), ctx.Now()

	var habits []models.Habit
	if c.Habit != "" {
		h, err := tr.LoadHabit(c.Habit)
		if err != nil {
			return err
		}
		habits = []models.Habit{h}
	} else {
		var err error
		if habits, err = tr.LoadHabits(c.Archived); err != nil {
			return err
		}
	}
	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	ctx.Printf("%s  %s  %s  %s  %s\n",
		render.Label.Render("Habit"), pad("Today", 5), pad("Streak", 10), pad("Week", 7), "Overall")
	for _, h := range habits {
		s := engine.Summarize(h, now)
		ctx.Printf("%s  %s  %s  %s  %s\n",
			render.Label.Render(h.Name),
			pad(render.Check(s.CompletedToday), 5),
			pad(fmt.Sprintf("%d (%d)", s.CurrentStreak, s.BestStreak), 10),
			pad(render.Percent(s.Weekly), 7),
			render.Percent(s.Overall))
	}

	if len(habits) > 1 {
		ctx.Println()
		ctx.Println(render.Row("Total completions", stats.TotalCompletions(habits)))
		ctx.Println(render.Row("Average streak", fmt.Sprintf("%.1f days", engine.AverageCurrentStreak(habits, now))))
		ctx.Println(render.Row("Days tracked", engine.DaysTracked(habits)))
		ctx.Println(render.Row("Most active day", engine.MostActiveDay(habits)))
		ctx.Println(render.Row("Least active day", engine.LeastActiveDay(habits)))
	}
	return nil
}

// pad right-pads s to width visible cells.
func pad(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-lipgloss.Width(s)))
}

type InsightsCmd struct{}

func (c *InsightsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	habits, err := ctx.Tracker().LoadHabits(false)
	if err != nil {
		return err
	}

	report := insights.New(ctx.Engine(), ctx.Now()).Report(habits)
	ctx.Println(render.Title.Render("Insights"))
	ctx.Println(report.Main)
	section(ctx, "Recommendations", report.Recommendations)
	section(ctx, "Patterns", report.Patterns)
	section(ctx, "Predictions", report.Predictions)
	ctx.Println()
	ctx.Println(render.Muted.Render(report.Hours))

	quote := gamification.QuoteOfTheDay(ctx.Now())
	ctx.Println()
	ctx.Println(render.Warning.Render(fmt.Sprintf("%q - %s", quote.Text, quote.Author)))
	return nil
}

func section(ctx *cli.Context, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	ctx.Println()
	ctx.Println(render.Title.Render(title))
	for _, l := range lines {
		ctx.Printf("  • %s\n", l)
	}
}

type CompareCmd struct {
	Month string `help:"Month to compare with its predecessor, as YYYY-MM (default: current month)."`
}

func (c *CompareCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	engine, now := ctx.Engine(), ctx.Now()

	at := now
	if c.Month != "" {
		parsed, err := utils.ParseMonth(c.Month, engine.Location())
		if err != nil {
			return err
		}
		start := engine.StartOfMonth(parsed)
		if start.After(now) {
			return fmt.Errorf("month %s is in the future", c.Month)
		}
		if !start.Equal(engine.StartOfMonth(now)) {
			// last day of the requested month
			at = engine.AddDays(engine.AddMonths(start, 1), -1)
		}
	}

	habits, err := ctx.Tracker().LoadHabits(false)
	if err != nil {
		return err
	}
	cmp := engine.MonthOverMonth(habits, at)

	ctx.Println(render.Title.Render(fmt.Sprintf("%s vs %s",
		cmp.Current.Start.Format("January 2006"), cmp.Previous.Start.Format("January 2006"))))
	ctx.Printf("%s  %8s  %8s\n", render.Label.Render(""), "Current", "Previous")
	ctx.Printf("%s  %8d  %8d\n", render.Label.Render("Completions"), cmp.Current.TotalCompletions, cmp.Previous.TotalCompletions)
	ctx.Printf("%s  %8s  %8s\n", render.Label.Render("Success rate"), render.Percent(cmp.Current.SuccessRate), render.Percent(cmp.Previous.SuccessRate))
	ctx.Printf("%s  %8d  %8d\n", render.Label.Render("Days"), cmp.Current.Days, cmp.Previous.Days)
	ctx.Println(render.Row("Average streak", fmt.Sprintf("%.1f days", cmp.Current.AverageStreak)))

	diff := cmp.Difference()
	switch {
	case diff > 0:
		ctx.Println(render.Success.Render(fmt.Sprintf("+%d completions (%+.1f points)", diff, cmp.SuccessRateDelta())))
	case diff < 0:
		ctx.Println(render.Danger.Render(fmt.Sprintf("%d completions (%+.1f points)", diff, cmp.SuccessRateDelta())))
	default:
		ctx.Println(render.Muted.Render("No change in completions"))
	}

	if len(cmp.PerHabit) > 0 {
		ctx.Println()
		for _, h := range cmp.PerHabit {
			ctx.Printf("%s  %8d  %8d\n", render.Label.Render(h.Name), h.Current, h.Previous)
		}
	}
	return nil
}

type HoursCmd struct {
	Top int `help:"Number of busiest hours to list." default:"3"`
}

func (c *HoursCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	habits, err := ctx.Tracker().LoadHabits(true)
	if err != nil {
		return err
	}
	engine := ctx.Engine()

	hist := engine.HourOfDayHistogram(habits)
	peak := 0
	for _, n := range hist {
		peak = max(peak, n)
	}
	ctx.Println(render.Title.Render("Completions by hour"))
	for hour, n := range hist {
		pct := 0.0
		if peak > 0 {
			pct = float64(n) / float64(peak) * 100
		}
		ctx.Printf("  %02d:00  %s %d\n", hour, render.Bar(pct, 30), n)
	}

	if share, ok := engine.MorningShare(habits); ok {
		ctx.Println()
		ctx.Println(render.Row("Before noon", render.Percent(share)))
	}
	if c.Top > 0 {
		var tops []string
		for _, h := range engine.TopHours(habits, c.Top) {
			if h.Count > 0 {
				tops = append(tops, fmt.Sprintf("%02d:00 (%d)", h.Hour, h.Count))
			}
		}
		if len(tops) > 0 {
			ctx.Println(render.Row("Busiest hours", strings.Join(tops, ", ")))
		}
	}
	ctx.Println(render.Muted.Render(insights.New(engine, ctx.Now()).HourRecommendation(habits)))
	return nil
}

type HeatmapCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Year  int    `help:"Calendar year (default: current year)." default:"0"`
}

func (c *HeatmapCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	h, err := ctx.Tracker().LoadHabit(c.Habit)
	if err != nil {
		return err
	}
	year := c.Year
	if year == 0 {
		year = ctx.Now().Year()
	}

	weeks := ctx.Engine().HeatMap(h, year)
	ctx.Println(render.Title.Render(fmt.Sprintf("%s %d", h.Name, year)))

	days := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	total := 0
	for slot, name := range days {
		var b strings.Builder
		for _, w := range weeks {
			d := w.Days[slot]
			if d == nil {
				b.WriteString(render.Blank())
				continue
			}
			total += d.Count
			b.WriteString(render.HeatCell(d.Intensity))
		}
		ctx.Printf("%s %s\n", name, b.String())
	}
	ctx.Println(render.Muted.Render(fmt.Sprintf("%d completions in %d", total, year)))
	return nil
}

type ProgressCmd struct{}

func (c *ProgressCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	p, err := ctx.Tracker().Progress()
	if err != nil {
		return err
	}

	ctx.Println(render.Title.Render(fmt.Sprintf("Level %d", p.Level)))
	ctx.Println(render.Bar(p.LevelProgress()*100, 30) + " " + render.Muted.Render(fmt.Sprintf("%d points to next level", p.PointsToNextLevel())))
	ctx.Println(render.Row("Total points", p.TotalPoints))
	ctx.Println(render.Row("Completions", p.TotalCompletions))
	ctx.Println(render.Row("Days tracked", p.DaysTracked))
	ctx.Println(render.Row("Longest streak", fmt.Sprintf("%d days", p.LongestStreak)))
	if len(p.Badges) > 0 {
		ctx.Println(render.Row("Badges", strings.Join(p.Badges, ", ")))
	}
	return nil
}

type AchievementsCmd struct{}

func (c *AchievementsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	unlocked, err := ctx.Tracker().Achievements()
	if err != nil {
		return err
	}
	habits, err := ctx.Store.GetAllHabits(true, true)
	if err != nil {
		return err
	}
	names := make(map[string]string, len(habits))
	for _, h := range habits {
		names[h.ID] = h.Name
	}

	byType := make(map[models.AchievementType][]models.Achievement)
	for _, a := range unlocked {
		byType[a.Type] = append(byType[a.Type], a)
	}

	loc := ctx.Engine().Location()
	for _, kind := range models.AchievementTypes {
		got := byType[kind]
		if len(got) == 0 {
			ctx.Printf("%s %s %s\n", render.Check(false), render.Label.Render(kind.Title()), render.Muted.Render(kind.Description()))
			continue
		}
		for _, a := range got {
			detail := a.UnlockedAt.In(loc).Format(constants.DateFormat)
			if name, ok := names[a.HabitID]; ok {
				detail = name + ", " + detail
			}
			ctx.Printf("%s %s %s\n", render.Check(true), render.Label.Render(kind.Title()), detail)
		}
	}
	return nil
}
