package meals

import (
	"fmt"

	"github.com/julianstephens/bodyclock/internal/cli"
	"github.com/julianstephens/bodyclock/internal/constants"
	"github.com/julianstephens/bodyclock/internal/models"
)

type MealCmd struct {
	Add    MealAddCmd    `cmd:"" help:"Add a meal slot."`
	List   MealListCmd   `cmd:"" help:"List meal slots."`
	Edit   MealEditCmd   `cmd:"" help:"Edit a meal slot."`
	Delete MealDeleteCmd `cmd:"" help:"Delete a meal slot and its history."`
	Today  MealTodayCmd  `cmd:"" help:"Show today's meal checklist." default:"1"`
	Toggle MealToggleCmd `cmd:"" help:"Flip a meal between eaten and not eaten."`
}

type MealAddCmd struct {
	Name     string `arg:"" help:"Meal name."`
	Type     string `short:"T" help:"Meal type (breakfast|lunch|dinner|snack)." required:""`
	Time     string `short:"t" help:"Time of day (HH:MM)." required:""`
	Calories *int   `short:"c" help:"Calories."`
	Icon     string `help:"Icon shown next to the meal."`
	Default  bool   `help:"Keep this meal when all data is reset."`
}

func (c *MealAddCmd) Run(ctx *cli.Context) error {
	id, err := ctx.Store.CreateMeal(models.NewMeal{
		Name:      c.Name,
		Type:      constants.MealType(c.Type),
		Time:      c.Time,
		Calories:  c.Calories,
		Icon:      c.Icon,
		IsDefault: c.Default,
	})
	if err != nil {
		return fmt.Errorf("failed to add meal: %w", err)
	}
	fmt.Printf("Added meal: %s (%s at %s, ID: %d)\n", c.Name, c.Type, c.Time, id)
	return nil
}

type MealListCmd struct{}

func (c *MealListCmd) Run(ctx *cli.Context) error {
	meals, err := ctx.Store.ListMeals()
	if err != nil {
		return fmt.Errorf("failed to list meals: %w", err)
	}
	if len(meals) == 0 {
		fmt.Println("No meals found.")
		return nil
	}
	for _, m := range meals {
		marker := ""
		if m.IsDefault {
			marker = " (default)"
		}
		fmt.Printf("%4d  %s  %-9s %s  %s%s\n", m.ID, m.Time, m.Type, m.Name, cli.FormatCalories(m.Calories), marker)
	}
	return nil
}

type MealEditCmd struct {
	ID            int64   `arg:"" help:"Meal ID to edit."`
	Name          *string `help:"New name."`
	Type          *string `short:"T" help:"New meal type."`
	Time          *string `short:"t" help:"New time of day (HH:MM)."`
	Calories      *int    `short:"c" help:"New calories."`
	ClearCalories bool    `help:"Remove the calorie count."`
	Icon          *string `help:"New icon."`
}

func (c *MealEditCmd) patch() models.MealPatch {
	var p models.MealPatch
	if c.Name != nil {
		p.Name = models.Some(*c.Name)
	}
	if c.Type != nil {
		p.Type = models.Some(constants.MealType(*c.Type))
	}
	if c.Time != nil {
		p.Time = models.Some(*c.Time)
	}
	if c.ClearCalories {
		p.Calories = models.Some[*int](nil)
	} else if c.Calories != nil {
		p.Calories = models.Some(c.Calories)
	}
	if c.Icon != nil {
		p.Icon = models.Some(*c.Icon)
	}
	return p
}

func (c *MealEditCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.UpdateMeal(c.ID, c.patch()); err != nil {
		return fmt.Errorf("failed to update meal %d: %w", c.ID, err)
	}
	fmt.Printf("Updated meal %d\n", c.ID)
	return nil
}

type MealDeleteCmd struct {
	ID int64 `arg:"" help:"Meal ID to delete."`
}

func (c *MealDeleteCmd) Run(ctx *cli.Context) error {
	meal, err := ctx.Store.GetMeal(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find meal with ID %d: %w", c.ID, err)
	}
	if err := ctx.Store.DeleteMeal(c.ID); err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	fmt.Printf("Deleted meal: %s (ID: %d)\n", meal.Name, c.ID)
	return nil
}

type MealTodayCmd struct {
	Date string `help:"Date (YYYY-MM-DD), defaults to today."`
}

func (c *MealTodayCmd) Run(ctx *cli.Context) error {
	date, err := cli.ParseDate(ctx, c.Date)
	if err != nil {
		return err
	}
	meals, err := ctx.Store.TodayMeals(date)
	if err != nil {
		return err
	}
	stats, err := ctx.Store.MealStats(date)
	if err != nil {
		return err
	}

	fmt.Printf("Meals for %s: %d/%d (%d%%)\n", date, stats.Completed, stats.Total, stats.Percentage)
	for _, m := range meals {
		fmt.Printf("  %s %4d  %s  %-9s %s\n", cli.Check(m.Completed), m.ID, m.Time, m.Type, m.Name)
	}
	return nil
}

type MealToggleCmd struct {
	ID   int64  `arg:"" help:"Meal ID to toggle."`
	Date string `help:"Date (YYYY-MM-DD); only today is accepted."`
}

func (c *MealToggleCmd) Run(ctx *cli.Context) error {
	date, err := cli.ParseToday(ctx, c.Date)
	if err != nil {
		return err
	}
	dm, err := ctx.Store.ToggleMeal(c.ID, date)
	if err != nil {
		return fmt.Errorf("failed to toggle meal %d: %w", c.ID, err)
	}
	stats, err := ctx.Store.MealStats(date)
	if err != nil {
		return err
	}
	fmt.Printf("%s meal %d (%s), %d%% eaten\n", cli.Check(dm.Completed), c.ID, date, stats.Percentage)
	return nil
}
