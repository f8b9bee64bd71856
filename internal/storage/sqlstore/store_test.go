package sqlstore_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/bodyclock/internal/storage/sqlite"
	"github.com/julianstephens/bodyclock/internal/storage/sqlstore"
)

func setupTestStore(t *testing.T) (*sqlite.Store, func()) {
	t.Helper()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	cleanup := func() {
		store.Close()
	}
	return store, cleanup
}

// stepClock returns a clock that advances one second per call so
// created_at ordering is deterministic.
func stepClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect sqlstore.Dialect
		query   string
		want    string
	}{
		{
			name:    "sqlite unchanged",
			dialect: sqlstore.SQLite,
			query:   "SELECT * FROM meals WHERE id = ? AND date = ?",
			want:    "SELECT * FROM meals WHERE id = ? AND date = ?",
		},
		{
			name:    "postgres numbered",
			dialect: sqlstore.Postgres,
			query:   "SELECT * FROM meals WHERE id = ? AND date = ?",
			want:    "SELECT * FROM meals WHERE id = $1 AND date = $2",
		},
		{
			name:    "quoted question mark kept",
			dialect: sqlstore.Postgres,
			query:   "SELECT '?' FROM meals WHERE id = ?",
			want:    "SELECT '?' FROM meals WHERE id = $1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.Rebind(tt.query); got != tt.want {
				t.Errorf("Rebind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSettings(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	theme, ok, err := store.GetSetting("theme")
	if err != nil || !ok || theme != "dark" {
		t.Errorf("default theme = %q, %v, %v", theme, ok, err)
	}

	if _, ok, _ := store.GetSetting("last_reset_date"); ok {
		t.Error("last_reset_date should not be seeded")
	}

	_, ok, err = store.GetSetting("missing")
	if err != nil || ok {
		t.Errorf("missing key should report ok=false, got ok=%v err=%v", ok, err)
	}

	if err := store.SetSetting("theme", "light"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := store.SetSetting("theme", "dark"); err != nil {
		t.Fatalf("SetSetting overwrite failed: %v", err)
	}

	all, err := store.GetAllSettings()
	if err != nil {
		t.Fatalf("GetAllSettings failed: %v", err)
	}
	if all["theme"] != "dark" {
		t.Errorf("theme = %q, want dark", all["theme"])
	}
	if all["default_wake_time"] != `{"hours":6,"minutes":0}` {
		t.Errorf("default_wake_time = %q", all["default_wake_time"])
	}

	if err := store.DeleteSetting("theme"); err != nil {
		t.Fatalf("DeleteSetting failed: %v", err)
	}
	if _, ok, _ := store.GetSetting("theme"); ok {
		t.Error("theme should be gone after delete")
	}
}

func TestSeedDefaultsKeepsExistingValues(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	if err := store.SetSetting("theme", "light"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}

	theme, _, _ := store.GetSetting("theme")
	if theme != "light" {
		t.Errorf("re-init overwrote theme: %q", theme)
	}
}

func TestLoadWithoutInit(t *testing.T) {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Error("expected error loading an uninitialized store")
	}
}

func TestNotFoundErrors(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	checks := map[string]error{}
	_, checks["GetSchedule"] = store.GetSchedule(99)
	_, checks["GetMeal"] = store.GetMeal(99)
	_, checks["GetRecipe"] = store.GetRecipe(99)
	_, checks["GetMorningNote"] = store.GetMorningNote("2024-01-10")
	checks["DeleteSchedule"] = store.DeleteSchedule(99)
	checks["DeleteRecipe"] = store.DeleteRecipe(99)
	checks["ArchiveRecipe"] = store.ArchiveRecipe(99)
	checks["MarkCompleted"] = store.MarkCompleted(99, "")

	for name, err := range checks {
		if !errors.Is(err, sqlstore.ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", name, err)
		}
	}
}
