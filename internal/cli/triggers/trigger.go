package triggers

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/cli/render"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage"
)

type TriggerCmd struct {
	Add     TriggerAddCmd     `cmd:"" help:"Suggest a habit when another one reaches a condition."`
	List    TriggerListCmd    `cmd:"" help:"List triggers."`
	Enable  TriggerEnableCmd  `cmd:"" help:"Enable a trigger."`
	Disable TriggerDisableCmd `cmd:"" help:"Disable a trigger without deleting it."`
	Delete  TriggerDeleteCmd  `cmd:"" help:"Delete a trigger."`
}

type TriggerAddCmd struct {
	Source    string `arg:"" help:"Habit name or ID that fires the trigger."`
	Condition string `arg:"" help:"completed, not_completed, streak_reached or streak_broken."`
	Target    string `arg:"" help:"Habit name or ID to suggest."`
	Streak    int    `help:"Streak length for streak_reached." default:"7"`
}

func (c *TriggerAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	cond, err := models.ParseTriggerCondition(c.Condition)
	if err != nil {
		return err
	}
	tr := ctx.Tracker()
	source, err := tr.LoadHabit(c.Source)
	if err != nil {
		return err
	}
	target, err := tr.LoadHabit(c.Target)
	if err != nil {
		return err
	}

	t, err := ctx.Triggers().Create(source, target, cond, c.Streak, ctx.Now())
	if err != nil {
		return err
	}
	ctx.Printf("Added trigger %s: when %s, suggest %s\n",
		shortID(t.ID), cond.Describe(source.Name, t.Threshold), target.Name)
	ctx.PerformAutomaticBackup()
	return nil
}

type TriggerListCmd struct{}

func (c *TriggerListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	list, err := ctx.Triggers().List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		ctx.Println("No triggers found. Add one with 'habitline trigger add'.")
		return nil
	}

	names, err := habitNames(ctx)
	if err != nil {
		return err
	}
	for _, t := range list {
		state := render.Success.Render("on ")
		if !t.Enabled {
			state = render.Muted.Render("off")
		}
		ctx.Printf("%s  %s  when %s, suggest %s\n",
			render.Muted.Render(shortID(t.ID)),
			state,
			t.Condition.Describe(names[t.SourceHabitID], t.Threshold),
			render.Title.Render(names[t.TargetHabitID]))
	}
	return nil
}

type TriggerEnableCmd struct {
	ID string `arg:"" help:"Trigger ID or ID prefix."`
}

func (c *TriggerEnableCmd) Run(ctx *cli.Context) error {
	return setEnabled(ctx, c.ID, true)
}

type TriggerDisableCmd struct {
	ID string `arg:"" help:"Trigger ID or ID prefix."`
}

func (c *TriggerDisableCmd) Run(ctx *cli.Context) error {
	return setEnabled(ctx, c.ID, false)
}

func setEnabled(ctx *cli.Context, ref string, enabled bool) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	t, err := find(ctx, ref)
	if err != nil {
		return err
	}
	if _, err := ctx.Triggers().SetEnabled(t.ID, enabled); err != nil {
		return err
	}
	verb := "Disabled"
	if enabled {
		verb = "Enabled"
	}
	ctx.Printf("%s trigger %s\n", verb, shortID(t.ID))
	ctx.PerformAutomaticBackup()
	return nil
}

type TriggerDeleteCmd struct {
	ID string `arg:"" help:"Trigger ID or ID prefix."`
}

func (c *TriggerDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	t, err := find(ctx, c.ID)
	if err != nil {
		return err
	}
	if err := ctx.Triggers().Delete(t.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted trigger %s\n", shortID(t.ID))
	ctx.PerformAutomaticBackup()
	return nil
}

// find matches a trigger by exact ID or unique ID prefix.
func find(ctx *cli.Context, ref string) (models.Trigger, error) {
	all, err := ctx.Triggers().List()
	if err != nil {
		return models.Trigger{}, err
	}
	var matches []models.Trigger
	for _, t := range all {
		if t.ID == ref {
			return t, nil
		}
		if ref != "" && strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return models.Trigger{}, fmt.Errorf("trigger %q: %w", ref, storage.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return models.Trigger{}, fmt.Errorf("trigger %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// habitNames maps every stored habit ID, archived ones included, to its name.
func habitNames(ctx *cli.Context) (map[string]string, error) {
	habits, err := ctx.Tracker().LoadHabits(true)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(habits))
	for _, h := range habits {
		names[h.ID] = h.Name
	}
	return names, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
