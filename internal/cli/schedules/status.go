package schedules

import (
	"fmt"

	"github.com/julianstephens/bodyclock/internal/cli"
)

type ScheduleDeactivateCmd struct {
	ID int64 `arg:"" help:"Schedule ID to deactivate."`
}

func (c *ScheduleDeactivateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.DeactivateSchedule(c.ID); err != nil {
		return fmt.Errorf("failed to deactivate schedule %d: %w", c.ID, err)
	}
	fmt.Printf("Deactivated schedule %d\n", c.ID)
	return nil
}

type ScheduleActivateCmd struct {
	ID int64 `arg:"" help:"Schedule ID to activate."`
}

func (c *ScheduleActivateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.ActivateSchedule(c.ID); err != nil {
		return fmt.Errorf("failed to activate schedule %d: %w", c.ID, err)
	}
	if _, err := ctx.Store.CreateOrGetDailyState(c.ID, ctx.Today()); err != nil {
		return fmt.Errorf("failed to create today's entry: %w", err)
	}
	fmt.Printf("Activated schedule %d\n", c.ID)
	return nil
}
