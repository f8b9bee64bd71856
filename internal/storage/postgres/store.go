package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/bodyclock/internal/constants"
	"github.com/julianstephens/bodyclock/internal/logger"
	"github.com/julianstephens/bodyclock/internal/migration"
	"github.com/julianstephens/bodyclock/internal/storage/sqlstore"
	"github.com/julianstephens/bodyclock/migrations"
)

type Store struct {
	*sqlstore.Store
	connStr string
	db      *sql.DB
	now     func() time.Time
}

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

// New returns a store for connStr. Nothing connects until Init or Load.
// Tables live in the bodyclock schema unless connStr picks a search_path.
func New(connStr string) *Store {
	return &Store{connStr: withAppSchema(connStr)}
}

func isURL(connStr string) bool {
	return strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://")
}

func withAppSchema(connStr string) string {
	if !isURL(connStr) {
		if dsnHasKey(connStr, "search_path") {
			return connStr
		}
		return strings.TrimSpace(connStr) + " search_path=" + constants.AppName
	}

	u, err := url.Parse(connStr)
	if err != nil {
		logger.Warn("Leaving unparseable Postgres URL unchanged", "error", err)
		return connStr
	}
	q := u.Query()
	if q.Get("search_path") != "" {
		return connStr
	}
	q.Set("search_path", constants.AppName)
	u.RawQuery = q.Encode()
	return u.String()
}

// dsnHasKey reports whether a key=value DSN sets key, ignoring case.
func dsnHasKey(connStr, key string) bool {
	for _, field := range strings.Fields(connStr) {
		if k, _, ok := strings.Cut(field, "="); ok && strings.EqualFold(strings.TrimSpace(k), key) {
			return true
		}
	}
	return false
}

// hasSSLMode accepts both URL and DSN forms.
func hasSSLMode(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for key := range u.Query() {
			if strings.EqualFold(key, "sslmode") {
				return true
			}
		}
	}
	return dsnHasKey(connStr, "sslmode")
}

// ValidateConnString accepts a URL or DSN that lib/pq can parse and that
// carries no password. Passwords belong in ~/.pgpass or PGPASSWORD.
func ValidateConnString(connStr string) (bool, error) {
	if strings.TrimSpace(connStr) == "" {
		return false, fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}

	if !isURL(connStr) {
		if dsnHasKey(connStr, "password") {
			return false, ErrEmbeddedCredentials
		}
		return true, nil
	}

	u, err := url.Parse(connStr)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}
	if _, set := u.User.Password(); set {
		return false, ErrEmbeddedCredentials
	}
	if u.Host == "" && u.User == nil && strings.Trim(u.Path, "/") == "" {
		return false, fmt.Errorf("%w: connection URL names no host, user or database", ErrInvalidConnectionString)
	}
	return true, nil
}

func (s *Store) connect() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// Several CLI invocations and the run daemon may share one server.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.connStr) {
			return fmt.Errorf("failed to connect to database: %w (add sslmode=disable for a local server)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	s.db = db
	s.Store = sqlstore.New(db, sqlstore.Postgres)
	if s.now != nil {
		s.Store.SetNow(s.now)
	}
	return nil
}

// SetNow sets the clock used for row timestamps. It holds across reopens.
func (s *Store) SetNow(now func() time.Time) {
	s.now = now
	if s.Store != nil {
		s.Store.SetNow(now)
	}
}

// Init creates the bodyclock schema, migrates it and seeds default settings.
func (s *Store) Init() error {
	if s.db == nil {
		if err := s.connect(); err != nil {
			return err
		}
	}
	if _, err := s.db.Exec("CREATE SCHEMA IF NOT EXISTS " + constants.AppName); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := s.Migrate(func(msg string) { logger.Info(msg) }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := s.SeedDefaults(); err != nil {
		return fmt.Errorf("failed to save default settings: %w", err)
	}
	return nil
}

// Load connects and refuses a schema written by a newer build.
func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}
	if err := s.connect(); err != nil {
		return err
	}
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.Validate()
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return nil, fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, sqlstore.Postgres), nil
}

// Migrate applies pending migrations to an already loaded database.
func (s *Store) Migrate(logFn func(string)) (int, error) {
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	return runner.Apply(logFn)
}

// SchemaVersion reports the applied and latest available schema versions.
// A database newer than this build is reported, not treated as an error.
func (s *Store) SchemaVersion() (current, latest int, err error) {
	runner, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	st, err := runner.Status()
	if err != nil && !errors.Is(err, migration.ErrSchemaTooNew) {
		return 0, 0, err
	}
	return st.Current, st.Latest, nil
}

// GetConfigPath names the engine only; the connection string may be secret.
func (s *Store) GetConfigPath() string {
	return "postgresql"
}

func (s *Store) GetDB() *sql.DB {
	return s.db
}
