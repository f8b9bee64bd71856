package recipes

import (
	"errors"
	"testing"

	"github.com/julianstephens/bodyclock/internal/cli"
	"github.com/julianstephens/bodyclock/internal/cli/clitest"
	"github.com/julianstephens/bodyclock/internal/constants"
	apperrors "github.com/julianstephens/bodyclock/internal/errors"
	"github.com/julianstephens/bodyclock/internal/models"
	"github.com/julianstephens/bodyclock/internal/storage"
)

func addRecipe(t *testing.T, ctx *cli.Context, cmd RecipeAddCmd) int64 {
	t.Helper()
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("RecipeAddCmd.Run() = %v", err)
	}
	recipes, err := ctx.Store.ListRecipes(models.RecipeFilter{IncludeArchived: true})
	if err != nil {
		t.Fatalf("failed to list recipes: %v", err)
	}
	for _, r := range recipes {
		if r.Title == cmd.Title {
			return r.ID
		}
	}
	t.Fatalf("recipe %q not found after add", cmd.Title)
	return 0
}

func TestRecipeAddParsesLists(t *testing.T) {
	ctx, _ := clitest.NewContext(t)

	id := addRecipe(t, ctx, RecipeAddCmd{
		Title:       "Tempe Orek",
		Category:    "Tempe",
		Tags:        "murah, bulking",
		Ingredients: "tempe; kecap manis ;; cabai",
		Steps:       "goreng tempe; tumis bumbu",
	})

	r, err := ctx.Store.GetRecipe(id)
	if err != nil {
		t.Fatalf("failed to get recipe: %v", err)
	}
	if r.Category != constants.CategoryTempe {
		t.Errorf("category = %q, want tempe", r.Category)
	}
	if len(r.Tags) != 2 || !r.HasTag(constants.TagMurah) || !r.HasTag(constants.TagBulking) {
		t.Errorf("tags = %v", r.Tags)
	}
	if len(r.Ingredients) != 3 || r.Ingredients[1] != "kecap manis" {
		t.Errorf("ingredients = %q", r.Ingredients)
	}
	if len(r.Steps) != 2 {
		t.Errorf("steps = %q", r.Steps)
	}
}

func TestRecipeAddRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		cmd  RecipeAddCmd
	}{
		{name: "unknown category", cmd: RecipeAddCmd{Title: "Sate", Category: "ayam"}},
		{name: "unknown tag", cmd: RecipeAddCmd{Title: "Sate", Category: "daging", Tags: "pedas"}},
		{name: "empty title", cmd: RecipeAddCmd{Title: "  ", Category: "daging"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := clitest.NewContext(t)
			if err := tt.cmd.Run(ctx); !errors.Is(err, storage.ErrInvalidInput) {
				t.Errorf("RecipeAddCmd.Run() = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestRecipeEditAndArchive(t *testing.T) {
	ctx, _ := clitest.NewContext(t)
	id := addRecipe(t, ctx, RecipeAddCmd{Title: "Telur Dadar", Category: "telur", Tags: "murah"})

	clear := ""
	notes := "pakai daun bawang"
	if err := (&RecipeEditCmd{ID: id, Tags: &clear, Notes: &notes}).Run(ctx); err != nil {
		t.Fatalf("RecipeEditCmd.Run() = %v", err)
	}
	r, err := ctx.Store.GetRecipe(id)
	if err != nil {
		t.Fatalf("failed to get recipe: %v", err)
	}
	if len(r.Tags) != 0 || r.Notes != notes {
		t.Errorf("after edit got tags %v notes %q", r.Tags, r.Notes)
	}

	if err := (&RecipeArchiveCmd{ID: id}).Run(ctx); err != nil {
		t.Fatalf("RecipeArchiveCmd.Run() = %v", err)
	}
	visible, err := ctx.Store.ListRecipes(models.RecipeFilter{})
	if err != nil {
		t.Fatalf("failed to list recipes: %v", err)
	}
	if len(visible) != 0 {
		t.Errorf("archived recipe should be hidden, got %d", len(visible))
	}

	if err := (&RecipeUnarchiveCmd{ID: id}).Run(ctx); err != nil {
		t.Fatalf("RecipeUnarchiveCmd.Run() = %v", err)
	}
	if err := (&RecipeListCmd{}).Run(ctx); err != nil {
		t.Errorf("RecipeListCmd.Run() = %v", err)
	}
	if err := (&RecipeShowCmd{ID: id}).Run(ctx); err != nil {
		t.Errorf("RecipeShowCmd.Run() = %v", err)
	}
	if err := (&RecipeArchiveCmd{ID: 999}).Run(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("archiving a missing recipe = %v, want ErrNotFound", err)
	}
}

func TestRecipeDeleteRequiresExactTitle(t *testing.T) {
	ctx, _ := clitest.NewContext(t)
	id := addRecipe(t, ctx, RecipeAddCmd{Title: "Ikan Bakar", Category: "ikan"})

	err := (&RecipeDeleteCmd{ID: id, Confirm: "ikan bakar"}).Run(ctx)
	if !apperrors.IsValidation(err) {
		t.Fatalf("RecipeDeleteCmd.Run() with wrong title = %v, want a validation error", err)
	}
	if _, err := ctx.Store.GetRecipe(id); err != nil {
		t.Fatalf("recipe should survive a failed confirmation: %v", err)
	}

	if err := (&RecipeDeleteCmd{ID: id, Confirm: "Ikan Bakar"}).Run(ctx); err != nil {
		t.Fatalf("RecipeDeleteCmd.Run() = %v", err)
	}
	if _, err := ctx.Store.GetRecipe(id); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetRecipe after delete = %v, want ErrNotFound", err)
	}
}

func TestRecipeSearchAndCategories(t *testing.T) {
	ctx, _ := clitest.NewContext(t)
	addRecipe(t, ctx, RecipeAddCmd{Title: "Sayur Asem", Category: "sayur"})
	addRecipe(t, ctx, RecipeAddCmd{Title: "Tumis Kangkung", Category: "sayur", Ingredients: "kangkung; bawang"})

	if err := (&RecipeSearchCmd{Query: "kangkung"}).Run(ctx); err != nil {
		t.Errorf("RecipeSearchCmd.Run() = %v", err)
	}
	if err := (&RecipeCategoriesCmd{}).Run(ctx); err != nil {
		t.Errorf("RecipeCategoriesCmd.Run() = %v", err)
	}

	counts, err := ctx.Store.RecipeCountByCategory()
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if len(counts) != 1 || counts[0].Count != 2 {
		t.Errorf("counts = %+v, want sayur=2", counts)
	}
}

func TestRecipeSuffix(t *testing.T) {
	tests := []struct {
		name   string
		recipe models.Recipe
		want   string
	}{
		{name: "plain", recipe: models.Recipe{}, want: ""},
		{name: "tags", recipe: models.Recipe{Tags: []constants.RecipeTag{"murah", "bulking"}}, want: "  #murah #bulking"},
		{name: "archived", recipe: models.Recipe{IsArchived: true}, want: "  (archived)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := recipeSuffix(tt.recipe); got != tt.want {
				t.Errorf("recipeSuffix() = %q, want %q", got, tt.want)
			}
		})
	}
}
