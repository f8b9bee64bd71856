package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/bodyclock/internal/models"
)

const scheduleColumns = "id, name, time, description, icon, color, is_active, created_at, updated_at"

func scanSchedule(row rowScanner) (models.ScheduleTemplate, error) {
	var (
		t                        models.ScheduleTemplate
		description, icon, color sql.NullString
		createdAt, updatedAt     string
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Time, &description, &icon, &color, &t.IsActive, &createdAt, &updatedAt); err != nil {
		return models.ScheduleTemplate{}, err
	}
	t.Description = description.String
	t.Icon = icon.String
	t.Color = color.String

	var err error
	if t.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return models.ScheduleTemplate{}, err
	}
	if t.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return models.ScheduleTemplate{}, err
	}
	return t, nil
}

func (s *Store) listSchedules(query string, args ...any) ([]models.ScheduleTemplate, error) {
	rows, err := s.query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	var schedules []models.ScheduleTemplate
	for rows.Next() {
		t, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, t)
	}
	return schedules, rows.Err()
}

// ListActiveSchedules returns active templates ordered by time of day.
func (s *Store) ListActiveSchedules() ([]models.ScheduleTemplate, error) {
	return s.listSchedules("SELECT "+scheduleColumns+" FROM schedule_templates WHERE is_active = ? ORDER BY time ASC, id ASC", true)
}

func (s *Store) ListSchedules(includeInactive bool) ([]models.ScheduleTemplate, error) {
	if !includeInactive {
		return s.ListActiveSchedules()
	}
	return s.listSchedules("SELECT " + scheduleColumns + " FROM schedule_templates ORDER BY time ASC, id ASC")
}

func (s *Store) GetSchedule(id int64) (models.ScheduleTemplate, error) {
	t, err := scanSchedule(s.queryRow("SELECT "+scheduleColumns+" FROM schedule_templates WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.ScheduleTemplate{}, fmt.Errorf("schedule %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.ScheduleTemplate{}, fmt.Errorf("failed to get schedule: %w", err)
	}
	return t, nil
}

func (s *Store) CreateSchedule(in models.NewSchedule) (int64, error) {
	if err := in.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ts := s.timestamp()
	id, err := s.insert(`
		INSERT INTO schedule_templates (name, time, description, icon, color, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.Time, nullString(in.Description), nullString(in.Icon), nullString(in.Color), true, ts, ts)
	if err != nil {
		return 0, fmt.Errorf("failed to create schedule: %w", err)
	}
	return id, nil
}

// UpdateSchedule writes the present patch fields and always refreshes updated_at.
func (s *Store) UpdateSchedule(id int64, patch models.SchedulePatch) error {
	if err := patch.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	b := newUpdate("schedule_templates")
	setOptional(b, "name", patch.Name)
	setOptional(b, "time", patch.Time)
	setNullable(b, "description", patch.Description)
	setNullable(b, "icon", patch.Icon)
	setNullable(b, "color", patch.Color)
	setOptional(b, "is_active", patch.IsActive)
	b.set("updated_at", s.timestamp())

	query, args := b.build("id = ?", id)
	res, err := s.exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	return expectAffected(res, "schedule", id)
}

// DeactivateSchedule hides a template from the checklist without touching its history.
func (s *Store) DeactivateSchedule(id int64) error {
	return s.UpdateSchedule(id, models.SchedulePatch{IsActive: models.Some(false)})
}

func (s *Store) ActivateSchedule(id int64) error {
	return s.UpdateSchedule(id, models.SchedulePatch{IsActive: models.Some(true)})
}

// DeleteSchedule removes a template permanently; its daily state cascades.
func (s *Store) DeleteSchedule(id int64) error {
	res, err := s.exec("DELETE FROM schedule_templates WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return expectAffected(res, "schedule", id)
}
