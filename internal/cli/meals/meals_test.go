package meals

import (
	"errors"
	"testing"

	"github.com/julianstephens/bodyclock/internal/cli"
	"github.com/julianstephens/bodyclock/internal/cli/clitest"
	apperrors "github.com/julianstephens/bodyclock/internal/errors"
	"github.com/julianstephens/bodyclock/internal/storage"
)

func intPtr(v int) *int { return &v }

func addMeal(t *testing.T, ctx *cli.Context, cmd MealAddCmd) int64 {
	t.Helper()
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("MealAddCmd.Run() = %v", err)
	}
	meals, err := ctx.Store.ListMeals()
	if err != nil {
		t.Fatalf("failed to list meals: %v", err)
	}
	for _, m := range meals {
		if m.Name == cmd.Name {
			return m.ID
		}
	}
	t.Fatalf("meal %q not found after add", cmd.Name)
	return 0
}

func TestMealAdd(t *testing.T) {
	tests := []struct {
		name      string
		cmd       MealAddCmd
		wantError bool
	}{
		{name: "valid", cmd: MealAddCmd{Name: "Oats", Type: "breakfast", Time: "07:30", Calories: intPtr(350)}},
		{name: "unknown type", cmd: MealAddCmd{Name: "Oats", Type: "brunch", Time: "07:30"}, wantError: true},
		{name: "negative calories", cmd: MealAddCmd{Name: "Oats", Type: "breakfast", Time: "07:30", Calories: intPtr(-1)}, wantError: true},
		{name: "bad time", cmd: MealAddCmd{Name: "Oats", Type: "breakfast", Time: "7:3"}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := clitest.NewContext(t)
			err := tt.cmd.Run(ctx)
			if (err != nil) != tt.wantError {
				t.Fatalf("MealAddCmd.Run() error = %v, wantError %v", err, tt.wantError)
			}
			if err != nil && !errors.Is(err, storage.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestMealEditClearsCalories(t *testing.T) {
	ctx, _ := clitest.NewContext(t)
	id := addMeal(t, ctx, MealAddCmd{Name: "Oats", Type: "breakfast", Time: "07:30", Calories: intPtr(350)})

	if err := (&MealEditCmd{ID: id, ClearCalories: true}).Run(ctx); err != nil {
		t.Fatalf("MealEditCmd.Run() = %v", err)
	}
	meal, err := ctx.Store.GetMeal(id)
	if err != nil {
		t.Fatalf("failed to get meal: %v", err)
	}
	if meal.Calories != nil {
		t.Errorf("calories = %d, want nil", *meal.Calories)
	}

	if err := (&MealEditCmd{ID: id, Calories: intPtr(400)}).Run(ctx); err != nil {
		t.Fatalf("MealEditCmd.Run() = %v", err)
	}
	meal, err = ctx.Store.GetMeal(id)
	if err != nil {
		t.Fatalf("failed to get meal: %v", err)
	}
	if meal.Calories == nil || *meal.Calories != 400 {
		t.Errorf("calories = %v, want 400", meal.Calories)
	}
}

func TestMealToggle(t *testing.T) {
	ctx, _ := clitest.NewContext(t)
	oats := addMeal(t, ctx, MealAddCmd{Name: "Oats", Type: "breakfast", Time: "07:30"})
	addMeal(t, ctx, MealAddCmd{Name: "Rice", Type: "lunch", Time: "12:30"})

	if err := (&MealToggleCmd{ID: oats}).Run(ctx); err != nil {
		t.Fatalf("MealToggleCmd.Run() = %v", err)
	}
	stats, err := ctx.Store.MealStats(clitest.Today)
	if err != nil {
		t.Fatalf("failed to get stats: %v", err)
	}
	if stats.Completed != 1 || stats.Percentage != 50 {
		t.Errorf("stats = %+v, want 1 completed at 50%%", stats)
	}

	if err := (&MealToggleCmd{ID: oats}).Run(ctx); err != nil {
		t.Fatalf("MealToggleCmd.Run() = %v", err)
	}
	stats, err = ctx.Store.MealStats(clitest.Today)
	if err != nil {
		t.Fatalf("failed to get stats: %v", err)
	}
	if stats.Completed != 0 {
		t.Errorf("toggling twice should leave the meal uneaten, got %+v", stats)
	}

	if err := (&MealToggleCmd{ID: 999}).Run(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("toggling a missing meal = %v, want ErrNotFound", err)
	}
}

func TestMealToggleRejectsOtherDays(t *testing.T) {
	ctx, _ := clitest.NewContext(t)
	oats := addMeal(t, ctx, MealAddCmd{Name: "Oats", Type: "breakfast", Time: "07:30"})

	for _, date := range []string{"2023-06-01", "2024-01-11"} {
		if err := (&MealToggleCmd{ID: oats, Date: date}).Run(ctx); !apperrors.IsValidation(err) {
			t.Errorf("MealToggleCmd.Run(%s) = %v, want a validation error", date, err)
		}
		stats, err := ctx.Store.MealStats(date)
		if err != nil {
			t.Fatalf("failed to get stats: %v", err)
		}
		if stats.Completed != 0 {
			t.Errorf("no meal should be eaten on %s, got %+v", date, stats)
		}
	}
}

func TestMealDeleteAndList(t *testing.T) {
	ctx, _ := clitest.NewContext(t)
	id := addMeal(t, ctx, MealAddCmd{Name: "Oats", Type: "breakfast", Time: "07:30"})

	if err := (&MealTodayCmd{}).Run(ctx); err != nil {
		t.Fatalf("MealTodayCmd.Run() = %v", err)
	}
	if err := (&MealDeleteCmd{ID: id}).Run(ctx); err != nil {
		t.Fatalf("MealDeleteCmd.Run() = %v", err)
	}
	if err := (&MealListCmd{}).Run(ctx); err != nil {
		t.Fatalf("MealListCmd.Run() = %v", err)
	}
	if _, err := ctx.Store.GetMeal(id); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetMeal after delete = %v, want ErrNotFound", err)
	}
}
