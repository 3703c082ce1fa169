package challenges

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/cli/render"
	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage"
	"github.com/julianstephens/habitline/internal/utils"
)

type ChallengeCmd struct {
	Start     ChallengeStartCmd     `cmd:"" help:"Start a challenge from a template."`
	List      ChallengeListCmd      `cmd:"" help:"List challenges."`
	Mark      ChallengeMarkCmd      `cmd:"" help:"Record a day on a challenge."`
	Templates ChallengeTemplatesCmd `cmd:"" help:"List built-in challenge templates."`
}

type ChallengeStartCmd struct {
	Template string   `arg:"" help:"Challenge template key."`
	Habits   []string `arg:"" help:"Habit names or IDs taking part in the challenge."`
}

func (c *ChallengeStartCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	tmpl, ok := models.FindChallengeTemplate(c.Template)
	if !ok {
		return fmt.Errorf("unknown challenge template: %s", c.Template)
	}

	ids := make([]string, 0, len(c.Habits))
	for _, ref := range c.Habits {
		h, err := ctx.Tracker().LoadHabit(ref)
		if err != nil {
			return err
		}
		ids = append(ids, h.ID)
	}

	ch, err := ctx.Challenges().Create(tmpl, ids, ctx.Now())
	if err != nil {
		return err
	}
	end := ch.EndDate(ctx.Engine().Location())
	ctx.Printf("Started %s (%s) until %s\n", ch.Name, shortID(ch.ID), end.Format(constants.DateFormat))
	ctx.PerformAutomaticBackup()
	return nil
}

type ChallengeListCmd struct {
	All bool `help:"Include completed challenges."`
}

func (c *ChallengeListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	svc := ctx.Challenges()
	list, err := svc.Active()
	if err != nil {
		return err
	}
	if c.All {
		done, err := svc.Completed()
		if err != nil {
			return err
		}
		list = append(list, done...)
	}
	if len(list) == 0 {
		ctx.Println("No challenges found.")
		return nil
	}

	for _, ch := range list {
		status := fmt.Sprintf("day %d/%d, %d left", ch.CurrentDay, ch.Duration, ch.DaysRemaining())
		if ch.Completed {
			status = render.Success.Render("completed")
		}
		ctx.Printf("%s  %s  %s %s  %s\n",
			render.Muted.Render(shortID(ch.ID)),
			render.Label.Render(ch.Name),
			render.Bar(ch.Progress()*100, 14),
			render.Percent(ch.Progress()*100),
			status)
	}
	return nil
}

type ChallengeMarkCmd struct {
	Challenge string `arg:"" help:"Challenge ID, ID prefix or name."`
	Date      string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *ChallengeMarkCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	ch, err := find(ctx, c.Challenge)
	if err != nil {
		return err
	}

	now := ctx.Now()
	day := now
	if c.Date != "" {
		if day, err = utils.ParseDateInLocation(c.Date, ctx.Engine().Location()); err != nil {
			return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", c.Date)
		}
	}

	ch, err = ctx.Challenges().RecordDay(ch.ID, day, now)
	if err != nil {
		return err
	}
	if ch.Completed {
		ctx.Println(render.Success.Render(fmt.Sprintf("Challenge completed: %s", ch.Name)))
	} else {
		ctx.Printf("%s: %d/%d days\n", ch.Name, len(ch.CompletedDays), ch.Duration)
	}
	ctx.PerformAutomaticBackup()
	return nil
}

type ChallengeTemplatesCmd struct{}

func (c *ChallengeTemplatesCmd) Run(ctx *cli.Context) error {
	for _, t := range models.ChallengeTemplates {
		ctx.Printf("%-16s %-18s %s\n", t.Key, t.Name, render.Muted.Render(fmt.Sprintf("%d days, %s", t.Duration, t.Description)))
	}
	return nil
}

// find matches a challenge by exact ID, unique ID prefix or name.
func find(ctx *cli.Context, ref string) (models.Challenge, error) {
	all, err := ctx.Store.GetChallenges()
	if err != nil {
		return models.Challenge{}, err
	}
	var matches []models.Challenge
	for _, ch := range all {
		if ch.ID == ref {
			return ch, nil
		}
		if strings.HasPrefix(ch.ID, ref) || strings.EqualFold(ch.Name, ref) {
			matches = append(matches, ch)
		}
	}
	switch len(matches) {
	case 0:
		return models.Challenge{}, fmt.Errorf("challenge %q: %w", ref, storage.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return models.Challenge{}, fmt.Errorf("challenge %q is ambiguous (%d matches)", ref, len(matches))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
