package groups

import (
	"fmt"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/cli/render"
	"github.com/julianstephens/habitline/internal/group"
	"github.com/julianstephens/habitline/internal/models"
)

type GroupCmd struct {
	Add      GroupAddCmd      `cmd:"" help:"Create a habit group."`
	List     GroupListCmd     `cmd:"" help:"List habit groups."`
	Show     GroupShowCmd     `cmd:"" help:"Show a group's habits and today's progress."`
	Assign   GroupAssignCmd   `cmd:"" help:"Add habits to a group."`
	Unassign GroupUnassignCmd `cmd:"" help:"Remove habits from a group."`
	Delete   GroupDeleteCmd   `cmd:"" help:"Delete a group (its habits are kept)."`
}

type GroupAddCmd struct {
	Name        string `arg:"" help:"Group name."`
	Description string `help:"Group description."`
	Color       string `help:"Display color as #RRGGBB."`
	Icon        string `help:"Icon name."`
}

func (c *GroupAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	g, err := ctx.Groups().Create(models.HabitGroup{
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		Icon:        c.Icon,
	}, ctx.Now())
	if err != nil {
		return err
	}
	ctx.Printf("Created group: %s\n", g.Name)
	ctx.PerformAutomaticBackup()
	return nil
}

type GroupListCmd struct{}

func (c *GroupListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	list, err := ctx.Groups().List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		ctx.Println("No groups found. Create one with 'habitline group add'.")
		return nil
	}
	for _, g := range list {
		line := fmt.Sprintf("%s  %s", render.Label.Render(g.Name), render.Muted.Render(fmt.Sprintf("%d habits", len(g.HabitIDs))))
		if g.Description != "" {
			line += "  " + g.Description
		}
		ctx.Println(line)
	}
	return nil
}

type GroupShowCmd struct {
	Group string `arg:"" help:"Group name or ID."`
}

func (c *GroupShowCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	g, err := ctx.Groups().Find(c.Group)
	if err != nil {
		return err
	}
	habits, err := ctx.Tracker().LoadHabits(false)
	if err != nil {
		return err
	}

	ctx.Println(render.Title.Render(g.Name))
	if g.Description != "" {
		ctx.Println(render.Muted.Render(g.Description))
	}
	members := group.Members(g, habits)
	if len(members) == 0 {
		ctx.Println("No habits in this group. Add some with 'habitline group assign'.")
		return nil
	}

	engine, now := ctx.Engine(), ctx.Now()
	done := 0
	for _, h := range members {
		s := engine.Summarize(h, now)
		if s.CompletedToday {
			done++
		}
		ctx.Printf("  %s %s %s\n", render.Check(s.CompletedToday), h.Name,
			render.Muted.Render(fmt.Sprintf("(streak %d, week %s)", s.CurrentStreak, render.Percent(s.Weekly))))
	}
	ctx.Printf("\n%d/%d done %s\n", done, len(members), render.Bar(float64(done)/float64(len(members))*100, 14))
	return nil
}

type GroupAssignCmd struct {
	Group  string   `arg:"" help:"Group name or ID."`
	Habits []string `arg:"" help:"Habit names or IDs."`
}

func (c *GroupAssignCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	svc := ctx.Groups()
	for _, ref := range c.Habits {
		h, err := ctx.Tracker().LoadHabit(ref)
		if err != nil {
			return err
		}
		g, err := svc.Assign(c.Group, h)
		if err != nil {
			return err
		}
		ctx.Printf("Added %s to %s\n", h.Name, g.Name)
	}
	ctx.PerformAutomaticBackup()
	return nil
}

type GroupUnassignCmd struct {
	Group  string   `arg:"" help:"Group name or ID."`
	Habits []string `arg:"" help:"Habit names or IDs."`
}

func (c *GroupUnassignCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	svc := ctx.Groups()
	for _, ref := range c.Habits {
		h, err := ctx.Tracker().LoadHabit(ref)
		if err != nil {
			return err
		}
		g, err := svc.Unassign(c.Group, h)
		if err != nil {
			return err
		}
		ctx.Printf("Removed %s from %s\n", h.Name, g.Name)
	}
	ctx.PerformAutomaticBackup()
	return nil
}

type GroupDeleteCmd struct {
	Group string `arg:"" help:"Group name or ID."`
	Yes   bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *GroupDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	svc := ctx.Groups()
	g, err := svc.Find(c.Group)
	if err != nil {
		return err
	}
	if !c.Yes && !cli.Confirm(ctx, fmt.Sprintf("Delete group %q?", g.Name)) {
		ctx.Println("Cancelled.")
		return nil
	}
	if _, err := svc.Delete(g.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted group: %s\n", g.Name)
	ctx.PerformAutomaticBackup()
	return nil
}
