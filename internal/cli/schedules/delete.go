package schedules

import (
	"fmt"

	"github.com/julianstephens/bodyclock/internal/cli"
)

type ScheduleDeleteCmd struct {
	ID int64 `arg:"" help:"Schedule ID to delete."`
}

func (c *ScheduleDeleteCmd) Run(ctx *cli.Context) error {
	schedule, err := ctx.Store.GetSchedule(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find schedule with ID %d: %w", c.ID, err)
	}

	if err := ctx.Store.DeleteSchedule(c.ID); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}

	fmt.Printf("Deleted schedule: %s (ID: %d)\n", schedule.Name, c.ID)
	return nil
}
