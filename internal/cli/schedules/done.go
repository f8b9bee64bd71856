package schedules

import (
	"fmt"

	"github.com/julianstephens/bodyclock/internal/cli"
)

type ScheduleDoneCmd struct {
	ID    int64  `arg:"" help:"Schedule ID to complete."`
	Date  string `help:"Date (YYYY-MM-DD); only today is accepted."`
	Notes string `short:"n" help:"Notes for the day."`
}

func (c *ScheduleDoneCmd) Run(ctx *cli.Context) error {
	date, err := cli.ParseToday(ctx, c.Date)
	if err != nil {
		return err
	}
	schedule, err := ctx.Store.GetSchedule(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find schedule with ID %d: %w", c.ID, err)
	}

	state, err := ctx.Store.CreateOrGetDailyState(c.ID, date)
	if err != nil {
		return err
	}
	if err := ctx.Store.MarkCompleted(state.ID, c.Notes); err != nil {
		return fmt.Errorf("failed to complete schedule: %w", err)
	}

	fmt.Printf("%s %s (%s)\n", cli.Check(true), schedule.Name, date)
	return nil
}

type ScheduleUndoCmd struct {
	ID   int64  `arg:"" help:"Schedule ID to reopen."`
	Date string `help:"Date (YYYY-MM-DD); only today is accepted."`
}

func (c *ScheduleUndoCmd) Run(ctx *cli.Context) error {
	date, err := cli.ParseToday(ctx, c.Date)
	if err != nil {
		return err
	}
	schedule, err := ctx.Store.GetSchedule(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find schedule with ID %d: %w", c.ID, err)
	}

	state, err := ctx.Store.CreateOrGetDailyState(c.ID, date)
	if err != nil {
		return err
	}
	if err := ctx.Store.MarkUncompleted(state.ID); err != nil {
		return fmt.Errorf("failed to reopen schedule: %w", err)
	}

	fmt.Printf("%s %s (%s)\n", cli.Check(false), schedule.Name, date)
	return nil
}
