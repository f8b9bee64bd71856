package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/bodyclock/internal/storage/postgres"
	"github.com/julianstephens/bodyclock/internal/storage/sqlite"
	"github.com/julianstephens/bodyclock/internal/storage/sqlstore"
)

var (
	ErrNotFound     = sqlstore.ErrNotFound
	ErrInvalidInput = sqlstore.ErrInvalidInput
)

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
)

// IsPostgres reports whether config is a PostgreSQL connection string
// rather than a SQLite file path.
func IsPostgres(config string) bool {
	return strings.HasPrefix(config, "postgres://") ||
		strings.HasPrefix(config, "postgresql://") ||
		strings.Contains(config, "host=")
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

// New returns the backend named by config. PostgreSQL connection strings
// must not embed a password.
func New(config string) (Provider, error) {
	if IsPostgres(config) {
		if _, err := postgres.ValidateConnString(config); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w: use the OS keyring, .pgpass or the environment for the password", err)
			}
			return nil, err
		}
		return postgres.New(config), nil
	}

	path, err := ExpandPath(config)
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(path), nil
}

// FromSecret builds a PostgreSQL backend from a connection string read from
// the environment or the OS keyring, where an embedded password is allowed.
func FromSecret(connStr string) (Provider, error) {
	if _, err := postgres.ValidateConnString(connStr); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
		return nil, err
	}
	return postgres.New(connStr), nil
}
