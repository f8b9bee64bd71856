package system

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/bodyclock/internal/cli"
	"github.com/julianstephens/bodyclock/internal/constants"
	"github.com/julianstephens/bodyclock/internal/logger"
)

// ResetCmd wipes schedules, meal history and notes. Settings, default
// meals and recipes survive.
type ResetCmd struct {
	Confirm string `help:"Type RESET to skip the interactive prompt."`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	typed := c.Confirm
	if typed == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title(fmt.Sprintf("Type %s to delete all schedules, meals and morning notes", constants.ResetConfirmationText)).
					Value(&typed),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("confirmation form error: %w", err)
		}
	}

	if err := cli.Confirm(typed, constants.ResetConfirmationText); err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.ResetAllData(ctx.Today()); err != nil {
		return fmt.Errorf("failed to reset data: %w", err)
	}
	logger.Info("All data reset", "date", ctx.Today())
	fmt.Println("✓ All data has been reset")
	return nil
}
