package keyring

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/bodyclock/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// KeyringConfigValue is the --config value that selects the stored connection string.
const KeyringConfigValue = "keyring"

// Source names where a database location came from.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
)

// Connection is a resolved database location. Secret is true when the value
// came from the environment or keyring and may carry a password.
type Connection struct {
	Value  string
	Source Source
	Secret bool
}

// Resolve picks the database location. BODYCLOCK_DB_CONNECTION wins, then
// the keyring when --config=keyring, then the flag value itself.
func Resolve(flagValue string) (Connection, error) {
	if env := os.Getenv(constants.EnvDBConnection); env != "" {
		return Connection{Value: env, Source: SourceEnv, Secret: true}, nil
	}

	if flagValue == KeyringConfigValue {
		connStr, err := GetConnectionString()
		if err != nil {
			return Connection{}, fmt.Errorf("failed to read connection string from keyring: %w", err)
		}
		return Connection{Value: connStr, Source: SourceKeyring, Secret: true}, nil
	}

	return Connection{Value: flagValue, Source: SourceFlag}, nil
}

// GetConnectionString retrieves the database connection string from the OS keyring.
// Returns ErrNotFound if no credentials are stored.
func GetConnectionString() (string, error) {
	connStr, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

// SetConnectionString stores the database connection string in the OS keyring.
func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// DeleteConnectionString removes the database connection string from the OS keyring.
func DeleteConnectionString() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// A read that reports "not found" still proves the keyring answers.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
