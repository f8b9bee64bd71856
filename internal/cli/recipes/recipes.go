package recipes

import (
	"fmt"
	"strings"

	"github.com/julianstephens/bodyclock/internal/cli"
	"github.com/julianstephens/bodyclock/internal/constants"
	"github.com/julianstephens/bodyclock/internal/models"
)

type RecipeCmd struct {
	Add        RecipeAddCmd        `cmd:"" help:"Add a recipe."`
	List       RecipeListCmd       `cmd:"" help:"List recipes." default:"1"`
	Show       RecipeShowCmd       `cmd:"" help:"Show a recipe in full."`
	Edit       RecipeEditCmd       `cmd:"" help:"Edit a recipe."`
	Archive    RecipeArchiveCmd    `cmd:"" help:"Hide a recipe from the default list."`
	Unarchive  RecipeUnarchiveCmd  `cmd:"" help:"Bring an archived recipe back."`
	Delete     RecipeDeleteCmd     `cmd:"" help:"Delete a recipe permanently."`
	Search     RecipeSearchCmd     `cmd:"" help:"Search recipes by title, ingredient or tag."`
	Categories RecipeCategoriesCmd `cmd:"" help:"Count recipes per category."`
}

type RecipeAddCmd struct {
	Title       string `arg:"" help:"Recipe title."`
	Category    string `short:"c" help:"Category (daging|ikan|sayur|tempe|telur|frozen|tahu)." required:""`
	Tags        string `short:"t" help:"Comma-separated tags (bulking, murah)."`
	Ingredients string `short:"i" help:"Semicolon-separated ingredients."`
	Steps       string `short:"s" help:"Semicolon-separated steps."`
	Notes       string `short:"n" help:"Free-form notes."`
}

func (c *RecipeAddCmd) Run(ctx *cli.Context) error {
	id, err := ctx.Store.CreateRecipe(models.NewRecipe{
		Title:       c.Title,
		Category:    constants.RecipeCategory(strings.ToLower(c.Category)),
		Tags:        cli.ParseTags(c.Tags),
		Ingredients: cli.SplitList(c.Ingredients),
		Steps:       cli.SplitList(c.Steps),
		Notes:       c.Notes,
	})
	if err != nil {
		return fmt.Errorf("failed to add recipe: %w", err)
	}
	fmt.Printf("Added recipe: %s (ID: %d)\n", c.Title, id)
	return nil
}

type RecipeListCmd struct {
	Category string `short:"c" help:"Only show this category."`
	Tags     string `short:"t" help:"Only show recipes with any of these comma-separated tags."`
	Search   string `short:"q" help:"Substring to match in title or ingredients."`
	Archived bool   `short:"a" help:"Include archived recipes."`
}

func (c *RecipeListCmd) Run(ctx *cli.Context) error {
	recipes, err := ctx.Store.ListRecipes(models.RecipeFilter{
		IncludeArchived: c.Archived,
		Category:        constants.RecipeCategory(strings.ToLower(c.Category)),
		Tags:            cli.ParseTags(c.Tags),
		Search:          c.Search,
	})
	if err != nil {
		return fmt.Errorf("failed to list recipes: %w", err)
	}
	printRecipes(recipes)
	return nil
}

func printRecipes(recipes []models.Recipe) {
	if len(recipes) == 0 {
		fmt.Println("No recipes found.")
		return
	}
	for _, r := range recipes {
		fmt.Printf("%4d  %-7s %s%s\n", r.ID, r.Category, r.Title, recipeSuffix(r))
	}
}

func recipeSuffix(r models.Recipe) string {
	var parts []string
	if len(r.Tags) > 0 {
		tags := make([]string, len(r.Tags))
		for i, t := range r.Tags {
			tags[i] = "#" + string(t)
		}
		parts = append(parts, strings.Join(tags, " "))
	}
	if r.IsArchived {
		parts = append(parts, "(archived)")
	}
	if len(parts) == 0 {
		return ""
	}
	return "  " + strings.Join(parts, " ")
}

type RecipeShowCmd struct {
	ID int64 `arg:"" help:"Recipe ID."`
}

func (c *RecipeShowCmd) Run(ctx *cli.Context) error {
	r, err := ctx.Store.GetRecipe(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find recipe with ID %d: %w", c.ID, err)
	}

	fmt.Printf("%s (%s)%s\n", r.Title, r.Category, recipeSuffix(r))
	if len(r.Ingredients) > 0 {
		fmt.Println("\nIngredients:")
		for _, ing := range r.Ingredients {
			fmt.Printf("  - %s\n", ing)
		}
	}
	if len(r.Steps) > 0 {
		fmt.Println("\nSteps:")
		for i, step := range r.Steps {
			fmt.Printf("  %d. %s\n", i+1, step)
		}
	}
	if r.Notes != "" {
		fmt.Printf("\nNotes: %s\n", r.Notes)
	}
	fmt.Printf("\nUpdated %s\n", r.UpdatedAt.Local().Format("2006-01-02 15:04"))
	return nil
}

type RecipeEditCmd struct {
	ID          int64   `arg:"" help:"Recipe ID to edit."`
	Title       *string `help:"New title."`
	Category    *string `short:"c" help:"New category."`
	Tags        *string `short:"t" help:"Replace tags (comma-separated, empty to clear)."`
	Ingredients *string `short:"i" help:"Replace ingredients (semicolon-separated)."`
	Steps       *string `short:"s" help:"Replace steps (semicolon-separated)."`
	Notes       *string `short:"n" help:"New notes."`
}

func (c *RecipeEditCmd) patch() models.RecipePatch {
	var p models.RecipePatch
	if c.Title != nil {
		p.Title = models.Some(*c.Title)
	}
	if c.Category != nil {
		p.Category = models.Some(constants.RecipeCategory(strings.ToLower(*c.Category)))
	}
	if c.Tags != nil {
		p.Tags = models.Some(cli.ParseTags(*c.Tags))
	}
	if c.Ingredients != nil {
		p.Ingredients = models.Some(cli.SplitList(*c.Ingredients))
	}
	if c.Steps != nil {
		p.Steps = models.Some(cli.SplitList(*c.Steps))
	}
	if c.Notes != nil {
		p.Notes = models.Some(*c.Notes)
	}
	return p
}

func (c *RecipeEditCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.UpdateRecipe(c.ID, c.patch()); err != nil {
		return fmt.Errorf("failed to update recipe %d: %w", c.ID, err)
	}
	fmt.Printf("Updated recipe %d\n", c.ID)
	return nil
}

type RecipeArchiveCmd struct {
	ID int64 `arg:"" help:"Recipe ID to archive."`
}

func (c *RecipeArchiveCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.ArchiveRecipe(c.ID); err != nil {
		return fmt.Errorf("failed to archive recipe %d: %w", c.ID, err)
	}
	fmt.Printf("Archived recipe %d\n", c.ID)
	return nil
}

type RecipeUnarchiveCmd struct {
	ID int64 `arg:"" help:"Recipe ID to restore."`
}

func (c *RecipeUnarchiveCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.UnarchiveRecipe(c.ID); err != nil {
		return fmt.Errorf("failed to unarchive recipe %d: %w", c.ID, err)
	}
	fmt.Printf("Unarchived recipe %d\n", c.ID)
	return nil
}

type RecipeSearchCmd struct {
	Query string `arg:"" help:"Search text."`
}

func (c *RecipeSearchCmd) Run(ctx *cli.Context) error {
	recipes, err := ctx.Store.SearchRecipes(c.Query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	printRecipes(recipes)
	return nil
}

type RecipeCategoriesCmd struct{}

func (c *RecipeCategoriesCmd) Run(ctx *cli.Context) error {
	counts, err := ctx.Store.RecipeCountByCategory()
	if err != nil {
		return err
	}
	for _, cc := range counts {
		fmt.Printf("  %-7s %d\n", cc.Category, cc.Count)
	}
	return nil
}
