package postgres

import (
	"os"
	"testing"

	"github.com/julianstephens/bodyclock/internal/constants"
	"github.com/julianstephens/bodyclock/internal/models"
)

// TestStore_Integration runs the shared queries against a real server.
// Example: BODYCLOCK_TEST_POSTGRES="postgres://bodyclock_user@localhost:5432/bodyclock_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("BODYCLOCK_TEST_POSTGRES")
	if connStr == "" {
		t.Skip("BODYCLOCK_TEST_POSTGRES not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	if err := store.ResetAllData("2024-01-10"); err != nil {
		t.Fatalf("Failed to reset data: %v", err)
	}

	t.Run("Settings", func(t *testing.T) {
		theme, ok, err := store.GetSetting(constants.SettingTheme)
		if err != nil || !ok {
			t.Fatalf("GetSetting(theme) = %q, %v, %v", theme, ok, err)
		}
		if err := store.SetSetting("integration_key", "1"); err != nil {
			t.Fatalf("SetSetting failed: %v", err)
		}
		if err := store.DeleteSetting("integration_key"); err != nil {
			t.Fatalf("DeleteSetting failed: %v", err)
		}
	})

	t.Run("DailyState", func(t *testing.T) {
		id, err := store.CreateSchedule(models.NewSchedule{Name: "Stretch", Time: "06:30"})
		if err != nil {
			t.Fatalf("CreateSchedule failed: %v", err)
		}

		first, err := store.CreateOrGetDailyState(id, "2024-01-10")
		if err != nil {
			t.Fatalf("CreateOrGetDailyState failed: %v", err)
		}
		second, err := store.CreateOrGetDailyState(id, "2024-01-10")
		if err != nil {
			t.Fatalf("CreateOrGetDailyState failed: %v", err)
		}
		if first.ID != second.ID {
			t.Errorf("expected the same row, got %d and %d", first.ID, second.ID)
		}

		if err := store.MarkCompleted(first.ID, "done"); err != nil {
			t.Fatalf("MarkCompleted failed: %v", err)
		}
		stats, err := store.DailyStats("2024-01-10")
		if err != nil {
			t.Fatalf("DailyStats failed: %v", err)
		}
		if stats.Total != 1 || stats.Completed != 1 {
			t.Errorf("unexpected stats: %+v", stats)
		}
	})

	t.Run("RecipeSearch", func(t *testing.T) {
		if _, err := store.CreateRecipe(models.NewRecipe{Title: "Sayur Bayam", Category: constants.CategorySayur, Ingredients: []string{"bayam"}}); err != nil {
			t.Fatalf("CreateRecipe failed: %v", err)
		}
		results, err := store.SearchRecipes("BAYAM")
		if err != nil {
			t.Fatalf("SearchRecipes failed: %v", err)
		}
		if len(results) == 0 {
			t.Error("expected a case-insensitive match")
		}
	})
}
