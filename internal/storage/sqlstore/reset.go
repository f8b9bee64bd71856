package sqlstore

import (
	"fmt"

	"github.com/julianstephens/bodyclock/internal/constants"
)

// ResetAllData wipes user data while keeping settings and default meals.
// Everything runs in one transaction.
func (s *Store) ResetAllData(today string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin reset: %w", err)
	}
	defer tx.Rollback()

	statements := []struct {
		query string
		args  []any
	}{
		{"DELETE FROM daily_meals", nil},
		{"DELETE FROM daily_state", nil},
		{"DELETE FROM morning_notes", nil},
		{"DELETE FROM meals WHERE is_default = ?", []any{false}},
		{"DELETE FROM schedule_templates", nil},
	}
	for _, st := range statements {
		if _, err := tx.Exec(s.dialect.Rebind(st.query), st.args...); err != nil {
			return fmt.Errorf("failed to reset data (%s): %w", st.query, err)
		}
	}

	upsert := s.dialect.Rebind(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	ts := s.timestamp()
	if _, err := tx.Exec(upsert, constants.SettingMorningNotesCompleted, constants.MorningNotesFlagPending, ts); err != nil {
		return fmt.Errorf("failed to reset morning note flag: %w", err)
	}
	if _, err := tx.Exec(upsert, constants.SettingLastResetDate, today, ts); err != nil {
		return fmt.Errorf("failed to reset last reset date: %w", err)
	}

	return tx.Commit()
}
