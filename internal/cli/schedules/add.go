package schedules

import (
	"fmt"

	"github.com/julianstephens/bodyclock/internal/cli"
	"github.com/julianstephens/bodyclock/internal/models"
)

type ScheduleAddCmd struct {
	Name        string `arg:"" help:"Schedule item name."`
	Time        string `short:"t" help:"Time of day (HH:MM)." required:""`
	Description string `short:"d" help:"Optional description."`
	Icon        string `help:"Icon shown next to the item."`
	Color       string `help:"Accent color (hex)."`
}

func (c *ScheduleAddCmd) Run(ctx *cli.Context) error {
	id, err := ctx.Store.CreateSchedule(models.NewSchedule{
		Name:        c.Name,
		Time:        c.Time,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
	})
	if err != nil {
		return fmt.Errorf("failed to add schedule: %w", err)
	}

	// Today's checklist row exists from the start so it can be ticked off.
	if _, err := ctx.Store.CreateOrGetDailyState(id, ctx.Today()); err != nil {
		return fmt.Errorf("failed to create today's entry: %w", err)
	}

	fmt.Printf("Added schedule: %s at %s (ID: %d)\n", c.Name, c.Time, id)
	return nil
}
