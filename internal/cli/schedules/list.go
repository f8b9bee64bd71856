package schedules

import (
	"fmt"

	"github.com/julianstephens/bodyclock/internal/cli"
)

type ScheduleListCmd struct {
	All bool `short:"a" help:"Include deactivated items."`
}

func (c *ScheduleListCmd) Run(ctx *cli.Context) error {
	schedules, err := ctx.Store.ListSchedules(c.All)
	if err != nil {
		return fmt.Errorf("failed to list schedules: %w", err)
	}
	if len(schedules) == 0 {
		fmt.Println("No schedules found.")
		return nil
	}

	for _, s := range schedules {
		status := ""
		if !s.IsActive {
			status = " (inactive)"
		}
		fmt.Printf("%4d  %s  %s%s\n", s.ID, s.Time, s.Name, status)
		if s.Description != "" {
			fmt.Printf("      %s\n", s.Description)
		}
	}
	return nil
}
