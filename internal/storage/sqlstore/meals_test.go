package sqlstore_test

import (
	"errors"
	"testing"

	"github.com/julianstephens/bodyclock/internal/constants"
	"github.com/julianstephens/bodyclock/internal/models"
	"github.com/julianstephens/bodyclock/internal/storage/sqlstore"
)

func intPtr(v int) *int { return &v }

func TestMealCRUD(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	id, err := store.CreateMeal(models.NewMeal{Name: "Nasi uduk", Type: constants.MealBreakfast, Time: "07:00", Calories: intPtr(450)})
	if err != nil {
		t.Fatalf("CreateMeal failed: %v", err)
	}

	m, err := store.GetMeal(id)
	if err != nil {
		t.Fatalf("GetMeal failed: %v", err)
	}
	if m.Calories == nil || *m.Calories != 450 || m.Type != constants.MealBreakfast || m.IsDefault {
		t.Errorf("unexpected meal: %+v", m)
	}

	patch := models.MealPatch{Calories: models.Some[*int](nil), Time: models.Some("07:30")}
	if err := store.UpdateMeal(id, patch); err != nil {
		t.Fatalf("UpdateMeal failed: %v", err)
	}
	m, _ = store.GetMeal(id)
	if m.Calories != nil || m.Time != "07:30" || m.Name != "Nasi uduk" {
		t.Errorf("patch not applied as expected: %+v", m)
	}

	if err := store.UpdateMeal(id, models.MealPatch{}); err != nil {
		t.Errorf("empty patch on existing meal should succeed: %v", err)
	}
	if err := store.UpdateMeal(999, models.MealPatch{}); !errors.Is(err, sqlstore.ErrNotFound) {
		t.Errorf("empty patch on missing meal: expected ErrNotFound, got %v", err)
	}
	if err := store.UpdateMeal(id, models.MealPatch{Type: models.Some[constants.MealType]("brunch")}); !errors.Is(err, sqlstore.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	if err := store.DeleteMeal(id); err != nil {
		t.Fatalf("DeleteMeal failed: %v", err)
	}
	meals, _ := store.ListMeals()
	if len(meals) != 0 {
		t.Errorf("expected no meals, got %d", len(meals))
	}
}

func TestToggleMealAndStats(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	breakfast, _ := store.CreateMeal(models.NewMeal{Name: "Oatmeal", Type: constants.MealBreakfast, Time: "07:00"})
	lunch, _ := store.CreateMeal(models.NewMeal{Name: "Gado-gado", Type: constants.MealLunch, Time: "12:00"})
	if _, err := store.CreateMeal(models.NewMeal{Name: "Soto", Type: constants.MealDinner, Time: "19:00"}); err != nil {
		t.Fatalf("CreateMeal failed: %v", err)
	}

	dm, err := store.ToggleMeal(breakfast, "2024-01-10")
	if err != nil {
		t.Fatalf("ToggleMeal failed: %v", err)
	}
	if !dm.Completed || dm.CompletedAt == nil {
		t.Errorf("expected completed meal, got %+v", dm)
	}

	stats, err := store.MealStats("2024-01-10")
	if err != nil {
		t.Fatalf("MealStats failed: %v", err)
	}
	if stats.Total != 3 || stats.Completed != 1 || stats.Percentage != 33 {
		t.Errorf("MealStats = %+v, want 3/1/33", stats)
	}

	if _, err := store.ToggleMeal(lunch, "2024-01-10"); err != nil {
		t.Fatalf("ToggleMeal failed: %v", err)
	}
	stats, _ = store.MealStats("2024-01-10")
	if stats.Percentage != 67 {
		t.Errorf("Percentage = %d, want 67", stats.Percentage)
	}

	dm, err = store.ToggleMeal(breakfast, "2024-01-10")
	if err != nil {
		t.Fatalf("second ToggleMeal failed: %v", err)
	}
	if dm.Completed || dm.CompletedAt != nil {
		t.Errorf("expected toggled back to incomplete, got %+v", dm)
	}

	today, err := store.TodayMeals("2024-01-10")
	if err != nil {
		t.Fatalf("TodayMeals failed: %v", err)
	}
	if len(today) != 3 {
		t.Fatalf("expected 3 meals, got %d", len(today))
	}
	if today[0].Completed || today[0].DailyMealID == nil {
		t.Errorf("breakfast should be touched but incomplete: %+v", today[0])
	}
	if !today[1].Completed {
		t.Errorf("lunch should be complete: %+v", today[1])
	}
	if today[2].DailyMealID != nil {
		t.Errorf("dinner should be untouched: %+v", today[2])
	}

	if _, err := store.ToggleMeal(999, "2024-01-10"); !errors.Is(err, sqlstore.ErrNotFound) {
		t.Errorf("toggling a missing meal: expected ErrNotFound, got %v", err)
	}
}

func TestMealStatsEmpty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	stats, err := store.MealStats("2024-01-10")
	if err != nil {
		t.Fatalf("MealStats failed: %v", err)
	}
	if stats != (models.MealStats{}) {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestCleanupDailyMeals(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	id, _ := store.CreateMeal(models.NewMeal{Name: "Snack", Type: constants.MealSnack, Time: "15:00"})
	for _, date := range []string{"2023-12-01", "2023-12-11", "2024-01-10"} {
		if _, err := store.CreateOrGetDailyMeal(id, date); err != nil {
			t.Fatalf("CreateOrGetDailyMeal failed: %v", err)
		}
	}

	deleted, err := store.CleanupDailyMeals("2023-12-11")
	if err != nil {
		t.Fatalf("CleanupDailyMeals failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 row deleted, got %d", deleted)
	}
}
