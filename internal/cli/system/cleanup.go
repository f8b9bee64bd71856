package system

import (
	"fmt"

	"github.com/julianstephens/bodyclock/internal/cli"
)

// CleanupCmd prunes meal history and morning notes past their retention
// window.
type CleanupCmd struct{}

func (c *CleanupCmd) Run(ctx *cli.Context) error {
	res, err := ctx.Rollover.Cleanup()
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d daily meal record(s) and %d morning note(s).\n", res.DailyMeals, res.MorningNotes)
	return nil
}
