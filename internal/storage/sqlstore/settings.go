package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/bodyclock/internal/constants"
)

// GetSetting returns the value stored under key. A missing key is not an error.
func (s *Store) GetSetting(key string) (string, bool, error) {
	var value string
	err := s.queryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.timestamp())
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

func (s *Store) GetAllSettings() (map[string]string, error) {
	rows, err := s.query("SELECT key, value FROM settings ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

func (s *Store) DeleteSetting(key string) error {
	if _, err := s.exec("DELETE FROM settings WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}

// SeedDefaults inserts the default settings that are not already present.
// last_reset_date is left unset so the first rollover always runs.
func (s *Store) SeedDefaults() error {
	defaults := []struct {
		key   string
		value string
	}{
		{constants.SettingTheme, string(constants.DefaultTheme)},
		{constants.SettingAppVersion, constants.Version},
		{constants.SettingDefaultWakeTime, constants.DefaultWakeTimeJSON},
		{constants.SettingDefaultSleepTime, constants.DefaultSleepTimeJSON},
		{constants.SettingMorningNotesCompleted, constants.MorningNotesFlagPending},
	}

	ts := s.timestamp()
	for _, d := range defaults {
		_, err := s.exec(
			"INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT (key) DO NOTHING",
			d.key, d.value, ts)
		if err != nil {
			return fmt.Errorf("failed to seed setting %s: %w", d.key, err)
		}
	}
	return nil
}
