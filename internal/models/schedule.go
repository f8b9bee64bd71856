package models

import (
	"strings"
	"time"

	"github.com/julianstephens/bodyclock/internal/constants"
	apperrors "github.com/julianstephens/bodyclock/internal/errors"
)

// ScheduleTemplate is a recurring item on the daily checklist.
type ScheduleTemplate struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Time        string    `json:"time"` // HH:MM format
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Color       string    `json:"color,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewSchedule holds the fields accepted when creating a template.
type NewSchedule struct {
	Name        string
	Time        string
	Description string
	Icon        string
	Color       string
}

func (n NewSchedule) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return apperrors.Invalid("name", "cannot be empty")
	}
	return validateClock("time", n.Time)
}

// SchedulePatch lists the template columns an update should touch.
type SchedulePatch struct {
	Name        Optional[string]
	Time        Optional[string]
	Description Optional[string]
	Icon        Optional[string]
	Color       Optional[string]
	IsActive    Optional[bool]
}

func (p SchedulePatch) Validate() error {
	if p.Name.Set && strings.TrimSpace(p.Name.Value) == "" {
		return apperrors.Invalid("name", "cannot be empty")
	}
	if p.Time.Set {
		return validateClock("time", p.Time.Value)
	}
	return nil
}

// DailyState records whether a template was completed on a given date.
type DailyState struct {
	ID          int64      `json:"id"`
	ScheduleID  int64      `json:"schedule_id"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Date        string     `json:"date"` // YYYY-MM-DD
}

// DailyStatePatch lists the daily state columns an update should touch.
type DailyStatePatch struct {
	Completed Optional[bool]
	Notes     Optional[string]
}

// ChecklistItem pairs an active template with its state for one date.
// State is nil when the template has not been touched that day.
type ChecklistItem struct {
	Schedule ScheduleTemplate `json:"schedule"`
	State    *DailyState      `json:"state,omitempty"`
}

// Done reports whether the item is completed.
func (c ChecklistItem) Done() bool {
	return c.State != nil && c.State.Completed
}

// DailyStats summarizes checklist completion for one date.
type DailyStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

func validateClock(field, value string) error {
	if _, err := time.Parse(constants.TimeFormat, value); err != nil {
		return apperrors.Invalid(field, "expected HH:MM, got %q", value)
	}
	return nil
}
