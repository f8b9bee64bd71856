// Package migration applies the numbered SQL files embedded for each engine
// and records the applied version in schema_version. One row is kept there:
// the highest version applied.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/bodyclock/internal/storage/sqlstore"
)

var ErrSchemaTooNew = errors.New("database schema is newer than this build supports")

// Migration is one NNN_name.sql file.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Status compares the database against the embedded files.
type Status struct {
	Current int
	Latest  int
	Pending []Migration
}

func (s Status) UpToDate() bool {
	return s.Current == s.Latest
}

type Runner struct {
	db      *sql.DB
	fs      fs.FS
	dialect sqlstore.Dialect
}

// NewRunner reads migrations from the root of migrationFS and runs them
// against db using dialect's placeholder and column types.
func NewRunner(db *sql.DB, migrationFS fs.FS, dialect sqlstore.Dialect) *Runner {
	return &Runner{db: db, fs: migrationFS, dialect: dialect}
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (r *Runner) ensureTable() error {
	column := "INTEGER"
	if r.dialect == sqlstore.Postgres {
		column = "BIGINT"
	}
	if _, err := r.db.Exec("CREATE TABLE IF NOT EXISTS schema_version (version " + column + " PRIMARY KEY)"); err != nil {
		return fmt.Errorf("failed to ensure schema_version table: %w", err)
	}
	return nil
}

func (r *Runner) writeVersion(ex execer, version int) error {
	if _, err := ex.Exec("DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("failed to clear schema version: %w", err)
	}
	if _, err := ex.Exec(r.dialect.Rebind("INSERT INTO schema_version (version) VALUES (?)"), version); err != nil {
		return fmt.Errorf("failed to record schema version %d: %w", version, err)
	}
	return nil
}

// CurrentVersion returns the applied version, 0 for a fresh database.
func (r *Runner) CurrentVersion() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, err
	}
	var version int
	err := r.db.QueryRow("SELECT version FROM schema_version").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// SetVersion overwrites the recorded version without running anything.
func (r *Runner) SetVersion(version int) error {
	if err := r.ensureTable(); err != nil {
		return err
	}
	return r.writeVersion(r.db, version)
}

func parseFilename(name string) (int, string, error) {
	prefix, rest, ok := strings.Cut(strings.TrimSuffix(name, ".sql"), "_")
	if !ok || rest == "" {
		return 0, "", fmt.Errorf("invalid migration filename %s, expected NNN_name.sql", name)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, "", fmt.Errorf("invalid version in migration filename %s: %w", name, err)
	}
	if version < 1 {
		return 0, "", fmt.Errorf("invalid version in migration filename %s: must be at least 1", name)
	}
	return version, rest, nil
}

// Migrations returns the embedded files ordered by version. Duplicate
// versions are an error.
func (r *Runner) Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(r.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	var list []Migration
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".sql" {
			continue
		}
		version, name, err := parseFilename(entry.Name())
		if err != nil {
			return nil, err
		}
		body, err := fs.ReadFile(r.fs, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}
		list = append(list, Migration{Version: version, Name: name, SQL: string(body)})
	}

	sort.Slice(list, func(i, j int) bool { return list[i].Version < list[j].Version })
	for i := 1; i < len(list); i++ {
		if list[i].Version == list[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", list[i].Version)
		}
	}
	return list, nil
}

// Status reports the applied and latest versions and what would run.
func (r *Runner) Status() (Status, error) {
	current, err := r.CurrentVersion()
	if err != nil {
		return Status{}, err
	}
	list, err := r.Migrations()
	if err != nil {
		return Status{}, err
	}

	st := Status{Current: current}
	if len(list) > 0 {
		st.Latest = list[len(list)-1].Version
	}
	if current > st.Latest {
		return st, fmt.Errorf("%w: database is at version %d, latest known is %d", ErrSchemaTooNew, current, st.Latest)
	}
	for _, m := range list {
		if m.Version > current {
			st.Pending = append(st.Pending, m)
		}
	}
	return st, nil
}

// Validate fails when the database was migrated by a newer build.
func (r *Runner) Validate() error {
	_, err := r.Status()
	return err
}

func (r *Runner) apply(m Migration) (err error) {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(m.SQL); err != nil {
		return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
	}
	if err = r.writeVersion(tx, m.Version); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}

// Apply runs every pending migration, each in its own transaction, and
// returns how many succeeded. A failure stops the run and leaves the
// version at the last migration that committed.
func (r *Runner) Apply(logFn func(string)) (int, error) {
	if logFn == nil {
		logFn = func(string) {}
	}

	st, err := r.Status()
	if err != nil {
		return 0, err
	}
	if st.Latest == 0 {
		logFn("No migration files found")
		return 0, nil
	}
	if st.UpToDate() {
		logFn(fmt.Sprintf("Database schema is up to date (version %d)", st.Current))
		return 0, nil
	}

	logFn(fmt.Sprintf("Migrating %s schema from version %d to %d", r.dialect, st.Current, st.Latest))
	start := time.Now()
	for i, m := range st.Pending {
		logFn(fmt.Sprintf("  Applying migration %d: %s", m.Version, m.Name))
		if err := r.apply(m); err != nil {
			return i, err
		}
	}
	logFn(fmt.Sprintf("Applied %d migration(s) in %v", len(st.Pending), time.Since(start).Round(time.Millisecond)))
	return len(st.Pending), nil
}
