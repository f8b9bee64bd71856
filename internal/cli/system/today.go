package system

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/bodyclock/internal/cli"
	"github.com/julianstephens/bodyclock/internal/constants"
)

// TodayCmd prints the day at a glance.
type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	return printToday(os.Stdout, ctx)
}

func printToday(w io.Writer, ctx *cli.Context) error {
	today := ctx.Today()
	fmt.Fprintf(w, "📅 %s\n\n", today)

	items, err := ctx.Store.TodayChecklist(today)
	if err != nil {
		return err
	}
	completed := 0
	for _, item := range items {
		if item.Done() {
			completed++
		}
	}
	fmt.Fprintf(w, "Schedule (%d/%d)\n", completed, len(items))
	if len(items) == 0 {
		fmt.Fprintln(w, "  No schedules yet.")
	}
	for _, item := range items {
		fmt.Fprintf(w, "  %s %s %s\n", cli.Check(item.Done()), item.Schedule.Time, item.Schedule.Name)
	}

	meals, err := ctx.Store.TodayMeals(today)
	if err != nil {
		return err
	}
	mealStats, err := ctx.Store.MealStats(today)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nMeals (%d%%)\n", mealStats.Percentage)
	if len(meals) == 0 {
		fmt.Fprintln(w, "  No meals yet.")
	}
	for _, meal := range meals {
		fmt.Fprintf(w, "  %s %s %-9s %s\n", cli.Check(meal.Completed), meal.Time, meal.Type, meal.Name)
	}

	done, err := ctx.Store.IsMorningNoteCompleted(today)
	if err != nil {
		return err
	}
	if done {
		fmt.Fprintln(w, "\nMorning note: done")
	} else {
		fmt.Fprintf(w, "\nMorning note: pending (run '%s note add')\n", constants.AppName)
	}

	fmt.Fprintln(w, "\nAlarms")
	for _, name := range constants.Alarms {
		state, ok, err := ctx.Alarms.Get(name)
		if err != nil {
			return err
		}
		switch {
		case !ok:
			fmt.Fprintf(w, "  %-5s not set\n", name)
		case state.Enabled:
			fmt.Fprintf(w, "  %-5s %s on\n", name, state.Time)
		default:
			fmt.Fprintf(w, "  %-5s %s off\n", name, state.Time)
		}
	}
	return nil
}
