package recipes

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/bodyclock/internal/cli"
)

// RecipeDeleteCmd removes a recipe after the user types its exact title.
type RecipeDeleteCmd struct {
	ID      int64  `arg:"" help:"Recipe ID to delete."`
	Confirm string `help:"The recipe title, to skip the interactive prompt."`
}

func (c *RecipeDeleteCmd) Run(ctx *cli.Context) error {
	r, err := ctx.Store.GetRecipe(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find recipe with ID %d: %w", c.ID, err)
	}

	typed := c.Confirm
	if typed == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title(fmt.Sprintf("Type %q to delete this recipe", r.Title)).
					Value(&typed),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("confirmation form error: %w", err)
		}
	}
	if err := cli.Confirm(typed, r.Title); err != nil {
		return err
	}

	if err := ctx.Store.DeleteRecipe(c.ID); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	fmt.Printf("Deleted recipe: %s (ID: %d)\n", r.Title, c.ID)
	return nil
}
