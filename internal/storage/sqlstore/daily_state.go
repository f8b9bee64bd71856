package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/bodyclock/internal/models"
)

const dailyStateColumns = "id, schedule_id, completed, completed_at, notes, date"

func scanDailyState(row rowScanner) (models.DailyState, error) {
	var (
		st          models.DailyState
		completedAt sql.NullString
		notes       sql.NullString
	)
	if err := row.Scan(&st.ID, &st.ScheduleID, &st.Completed, &completedAt, &notes, &st.Date); err != nil {
		return models.DailyState{}, err
	}
	st.Notes = notes.String

	var err error
	if st.CompletedAt, err = parseNullTimestamp(completedAt); err != nil {
		return models.DailyState{}, err
	}
	return st, nil
}

// TodayStates returns every daily state row for date in insertion order.
func (s *Store) TodayStates(date string) ([]models.DailyState, error) {
	rows, err := s.query("SELECT "+dailyStateColumns+" FROM daily_state WHERE date = ? ORDER BY id ASC", date)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily state: %w", err)
	}
	defer rows.Close()

	var states []models.DailyState
	for rows.Next() {
		st, err := scanDailyState(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily state: %w", err)
		}
		states = append(states, st)
	}
	return states, rows.Err()
}

func (s *Store) GetDailyState(scheduleID int64, date string) (models.DailyState, error) {
	st, err := scanDailyState(s.queryRow(
		"SELECT "+dailyStateColumns+" FROM daily_state WHERE schedule_id = ? AND date = ?", scheduleID, date))
	if errors.Is(err, sql.ErrNoRows) {
		return models.DailyState{}, fmt.Errorf("daily state for schedule %d on %s: %w", scheduleID, date, ErrNotFound)
	}
	if err != nil {
		return models.DailyState{}, fmt.Errorf("failed to get daily state: %w", err)
	}
	return st, nil
}

func (s *Store) getDailyStateByID(id int64) (models.DailyState, error) {
	st, err := scanDailyState(s.queryRow("SELECT "+dailyStateColumns+" FROM daily_state WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.DailyState{}, fmt.Errorf("daily state %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.DailyState{}, fmt.Errorf("failed to get daily state: %w", err)
	}
	return st, nil
}

// CreateOrGetDailyState returns the row for (scheduleID, date), creating it
// if needed. A concurrent insert of the same pair is absorbed by the unique
// constraint and resolved by re-reading.
func (s *Store) CreateOrGetDailyState(scheduleID int64, date string) (models.DailyState, error) {
	st, err := s.GetDailyState(scheduleID, date)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.DailyState{}, err
	}

	_, err = s.exec(
		"INSERT INTO daily_state (schedule_id, completed, date) VALUES (?, ?, ?) ON CONFLICT (schedule_id, date) DO NOTHING",
		scheduleID, false, date)
	if err != nil {
		return models.DailyState{}, fmt.Errorf("failed to create daily state: %w", err)
	}

	return s.GetDailyState(scheduleID, date)
}

// UpdateDailyState writes the present patch fields. Setting Completed also
// stamps or clears completed_at.
func (s *Store) UpdateDailyState(id int64, patch models.DailyStatePatch) error {
	b := newUpdate("daily_state")
	if completed, ok := patch.Completed.Get(); ok {
		b.set("completed", completed)
		if completed {
			b.set("completed_at", s.timestamp())
		} else {
			b.set("completed_at", sql.NullString{})
		}
	}
	setNullable(b, "notes", patch.Notes)

	if b.empty() {
		_, err := s.getDailyStateByID(id)
		return err
	}

	query, args := b.build("id = ?", id)
	res, err := s.exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update daily state: %w", err)
	}
	return expectAffected(res, "daily state", id)
}

func (s *Store) MarkCompleted(id int64, notes string) error {
	return s.UpdateDailyState(id, models.DailyStatePatch{
		Completed: models.Some(true),
		Notes:     models.Some(notes),
	})
}

// MarkUncompleted resets a row to its untouched state, dropping any notes.
func (s *Store) MarkUncompleted(id int64) error {
	return s.UpdateDailyState(id, models.DailyStatePatch{
		Completed: models.Some(false),
		Notes:     models.Some(""),
	})
}

func (s *Store) DailyStats(date string) (models.DailyStats, error) {
	var stats models.DailyStats
	err := s.queryRow(`
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0)
		FROM daily_state WHERE date = ?`, date).Scan(&stats.Total, &stats.Completed)
	if err != nil {
		return models.DailyStats{}, fmt.Errorf("failed to compute daily stats: %w", err)
	}
	return stats, nil
}

// CleanupDailyStates deletes rows dated strictly before the cutoff.
func (s *Store) CleanupDailyStates(before string) (int64, error) {
	res, err := s.exec("DELETE FROM daily_state WHERE date < ?", before)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up daily state: %w", err)
	}
	return res.RowsAffected()
}

// TodayChecklist joins active templates with their state on date.
func (s *Store) TodayChecklist(date string) ([]models.ChecklistItem, error) {
	rows, err := s.query(`
		SELECT t.id, t.name, t.time, t.description, t.icon, t.color, t.is_active, t.created_at, t.updated_at,
			d.id, d.completed, d.completed_at, d.notes
		FROM schedule_templates t
		LEFT JOIN daily_state d ON d.schedule_id = t.id AND d.date = ?
		WHERE t.is_active = ?
		ORDER BY t.time ASC, t.id ASC`, date, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load checklist: %w", err)
	}
	defer rows.Close()

	var items []models.ChecklistItem
	for rows.Next() {
		var (
			t                        models.ScheduleTemplate
			description, icon, color sql.NullString
			createdAt, updatedAt     string
			stateID                  sql.NullInt64
			completed                sql.NullBool
			completedAt, notes       sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.Time, &description, &icon, &color, &t.IsActive, &createdAt, &updatedAt,
			&stateID, &completed, &completedAt, &notes); err != nil {
			return nil, fmt.Errorf("failed to scan checklist item: %w", err)
		}
		t.Description = description.String
		t.Icon = icon.String
		t.Color = color.String
		if t.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		if t.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
			return nil, err
		}

		item := models.ChecklistItem{Schedule: t}
		if stateID.Valid {
			st := &models.DailyState{
				ID:         stateID.Int64,
				ScheduleID: t.ID,
				Completed:  completed.Bool,
				Notes:      notes.String,
				Date:       date,
			}
			if st.CompletedAt, err = parseNullTimestamp(completedAt); err != nil {
				return nil, err
			}
			item.State = st
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
