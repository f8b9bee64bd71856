package backup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/bodyclock/internal/constants"
	"github.com/julianstephens/bodyclock/internal/models"
	"github.com/julianstephens/bodyclock/internal/storage/sqlite"
)

// setupTestDB creates an initialized database holding one recipe and
// returns its path.
func setupTestDB(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "bodyclock.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	if _, err := store.CreateRecipe(models.NewRecipe{Title: "Ikan bakar", Category: constants.CategoryIkan}); err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	store.Close()
	return dbPath
}

func recipeCount(t *testing.T, dbPath string) int {
	t.Helper()
	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	defer store.Close()

	recipes, err := store.ListRecipes(models.RecipeFilter{IncludeArchived: true})
	if err != nil {
		t.Fatalf("ListRecipes failed: %v", err)
	}
	return len(recipes)
}

func fixedNow(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if filepath.Dir(backupPath) != filepath.Join(filepath.Dir(dbPath), constants.BackupDirName) {
		t.Errorf("backup written outside the backup dir: %s", backupPath)
	}
	if err := VerifyBackup(backupPath); err != nil {
		t.Errorf("backup is not a valid database: %v", err)
	}
	if n := recipeCount(t, backupPath); n != 1 {
		t.Errorf("backup holds %d recipes, want 1", n)
	}
}

func TestBackupWithNoDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("expected ErrNoDatabase, got %v", err)
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = fixedNow(time.Date(2024, 1, 10, 6, 30, 15, 0, time.UTC))

	want := []string{
		"bodyclock-20240110-0630.db",
		"bodyclock-20240110-063015.db",
		"bodyclock-20240110-063015-1.db",
	}
	for _, name := range want {
		path, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup failed: %v", err)
		}
		if filepath.Base(path) != name {
			t.Errorf("backup name = %s, want %s", filepath.Base(path), name)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Errorf("expected 3 backups, got %d", len(backups))
	}
}

func TestParseBackupName(t *testing.T) {
	tests := []struct {
		name string
		want time.Time
		ok   bool
	}{
		{"bodyclock-20240110-0630.db", time.Date(2024, 1, 10, 6, 30, 0, 0, time.UTC), true},
		{"bodyclock-20240110-063015.db", time.Date(2024, 1, 10, 6, 30, 15, 0, time.UTC), true},
		{"bodyclock-20240110-063015-2.db", time.Date(2024, 1, 10, 6, 30, 15, 0, time.UTC), true},
		{"other-20240110-0630.db", time.Time{}, false},
		{"bodyclock-yesterday.db", time.Time{}, false},
		{"bodyclock-20240110-0630.txt", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseBackupName(tt.name)
			if ok != tt.ok || !got.Equal(tt.want) {
				t.Errorf("parseBackupName(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestBackupRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	start := time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)
	for day := 0; day < constants.MaxBackups+3; day++ {
		mgr.now = fixedNow(start.AddDate(0, 0, day))
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup failed on day %d: %v", day, err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("expected %d backups, got %d", constants.MaxBackups, len(backups))
	}
	newest := start.AddDate(0, 0, constants.MaxBackups+2)
	if !backups[0].Timestamp.Equal(newest) {
		t.Errorf("newest backup = %v, want %v", backups[0].Timestamp, newest)
	}
	oldest := start.AddDate(0, 0, 3)
	if !backups[len(backups)-1].Timestamp.Equal(oldest) {
		t.Errorf("oldest kept backup = %v, want %v", backups[len(backups)-1].Timestamp, oldest)
	}
}

func TestListBackupsIgnoresOtherFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backups, err := mgr.ListBackups()
	if err != nil || len(backups) != 0 {
		t.Fatalf("missing backup dir should list nothing: %v, %v", backups, err)
	}

	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(mgr.GetBackupDir(), "notes.txt"), []byte("x"), 0600)
	os.Mkdir(filepath.Join(mgr.GetBackupDir(), "bodyclock-20240101-0000.db"), 0700)

	if _, err := mgr.CreateBackup(); err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	backups, _ = mgr.ListBackups()
	if len(backups) != 1 {
		t.Errorf("expected only the real backup, got %+v", backups)
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = fixedNow(time.Date(2024, 1, 10, 6, 0, 0, 0, time.UTC))

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	store.CreateRecipe(models.NewRecipe{Title: "Telur balado", Category: constants.CategoryTelur})
	store.Close()
	if n := recipeCount(t, dbPath); n != 2 {
		t.Fatalf("expected 2 recipes before restore, got %d", n)
	}

	mgr.now = fixedNow(time.Date(2024, 1, 10, 7, 0, 0, 0, time.UTC))
	previous, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if n := recipeCount(t, dbPath); n != 1 {
		t.Errorf("expected 1 recipe after restore, got %d", n)
	}
	if previous == "" || recipeCount(t, previous) != 2 {
		t.Errorf("pre-restore backup should hold the replaced data: %q", previous)
	}
	if _, err := os.Stat(dbPath + ".restore.tmp"); !os.IsNotExist(err) {
		t.Error("temporary restore file left behind")
	}
}

func TestRestoreWithCorruptedBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	bad := filepath.Join(t.TempDir(), "bodyclock-20240101-0000.db")
	if err := os.WriteFile(bad, []byte("this is not a database file at all, just text"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.RestoreBackup(bad); err == nil {
		t.Error("expected error restoring a corrupted backup")
	}
	if _, err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("expected error restoring a missing backup")
	}
	if n := recipeCount(t, dbPath); n != 1 {
		t.Errorf("database should be untouched, has %d recipes", n)
	}
}
