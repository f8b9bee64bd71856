package schedules

import (
	"fmt"

	"github.com/julianstephens/bodyclock/internal/cli"
	"github.com/julianstephens/bodyclock/internal/models"
)

type ScheduleEditCmd struct {
	ID          int64   `arg:"" help:"Schedule ID to edit."`
	Name        *string `help:"New name."`
	Time        *string `short:"t" help:"New time of day (HH:MM)."`
	Description *string `short:"d" help:"New description."`
	Icon        *string `help:"New icon."`
	Color       *string `help:"New accent color."`
}

func (c *ScheduleEditCmd) patch() models.SchedulePatch {
	var p models.SchedulePatch
	if c.Name != nil {
		p.Name = models.Some(*c.Name)
	}
	if c.Time != nil {
		p.Time = models.Some(*c.Time)
	}
	if c.Description != nil {
		p.Description = models.Some(*c.Description)
	}
	if c.Icon != nil {
		p.Icon = models.Some(*c.Icon)
	}
	if c.Color != nil {
		p.Color = models.Some(*c.Color)
	}
	return p
}

func (c *ScheduleEditCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.UpdateSchedule(c.ID, c.patch()); err != nil {
		return fmt.Errorf("failed to update schedule %d: %w", c.ID, err)
	}

	updated, err := ctx.Store.GetSchedule(c.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Updated schedule: %s at %s (ID: %d)\n", updated.Name, updated.Time, updated.ID)
	return nil
}
