// Package daily keeps the per-day bookkeeping in step with the calendar.
package daily

import (
	"fmt"

	"github.com/julianstephens/bodyclock/internal/constants"
	"github.com/julianstephens/bodyclock/internal/logger"
	"github.com/julianstephens/bodyclock/internal/models"
	"github.com/julianstephens/bodyclock/internal/utils"
)

// Store is the slice of storage the rollover needs.
type Store interface {
	GetSetting(key string) (string, bool, error)
	SetSetting(key, value string) error
	ListActiveSchedules() ([]models.ScheduleTemplate, error)
	CreateOrGetDailyState(scheduleID int64, date string) (models.DailyState, error)
	CleanupDailyStates(before string) (int64, error)
	CleanupDailyMeals(before string) (int64, error)
	CleanupMorningNotes(before string) (int64, error)
}

type Rollover struct {
	store Store
	clock utils.Clock
}

func NewRollover(store Store, clock utils.Clock) *Rollover {
	return &Rollover{store: store, clock: clock}
}

// Today returns the current date in the rollover's timezone.
func (r *Rollover) Today() string {
	return r.clock.Today()
}

// Check runs the rollover when last_reset_date differs from today and
// reports whether it did. Any storage error stops the sequence and is
// returned as is; steps already executed are not undone.
func (r *Rollover) Check() (bool, error) {
	today := r.clock.Today()

	last, ok, err := r.store.GetSetting(constants.SettingLastResetDate)
	if err != nil {
		return false, fmt.Errorf("failed to read last reset date: %w", err)
	}
	if ok && last == today {
		return false, nil
	}

	logger.Info("Running daily rollover", "today", today, "last_reset_date", last)

	cutoff, err := utils.ShiftDate(today, -constants.DailyStateRetentionDays)
	if err != nil {
		return false, err
	}
	removed, err := r.store.CleanupDailyStates(cutoff)
	if err != nil {
		return false, fmt.Errorf("failed to clean up daily state: %w", err)
	}
	logger.Debug("Removed stale daily state", "before", cutoff, "count", removed)

	if err := r.store.SetSetting(constants.SettingLastResetDate, today); err != nil {
		return false, fmt.Errorf("failed to update last reset date: %w", err)
	}
	if err := r.store.SetSetting(constants.SettingMorningNotesCompleted, constants.MorningNotesFlagPending); err != nil {
		return false, fmt.Errorf("failed to reset morning note flag: %w", err)
	}

	schedules, err := r.store.ListActiveSchedules()
	if err != nil {
		return false, fmt.Errorf("failed to list active schedules: %w", err)
	}
	for _, s := range schedules {
		if _, err := r.store.CreateOrGetDailyState(s.ID, today); err != nil {
			return false, fmt.Errorf("failed to create daily state for schedule %d: %w", s.ID, err)
		}
	}

	return true, nil
}

// CleanupResult counts the rows removed by Cleanup.
type CleanupResult struct {
	DailyMeals   int64
	MorningNotes int64
}

// Cleanup purges daily meals and morning notes outside their retention
// window relative to today.
func (r *Rollover) Cleanup() (CleanupResult, error) {
	today := r.clock.Today()
	var res CleanupResult

	mealCutoff, err := utils.ShiftDate(today, -constants.DailyMealRetentionDays)
	if err != nil {
		return res, err
	}
	if res.DailyMeals, err = r.store.CleanupDailyMeals(mealCutoff); err != nil {
		return res, fmt.Errorf("failed to clean up daily meals: %w", err)
	}

	noteCutoff, err := utils.ShiftDate(today, -constants.MorningNoteRetentionDays)
	if err != nil {
		return res, err
	}
	if res.MorningNotes, err = r.store.CleanupMorningNotes(noteCutoff); err != nil {
		return res, fmt.Errorf("failed to clean up morning notes: %w", err)
	}

	logger.Debug("Cleaned up old records", "daily_meals", res.DailyMeals, "morning_notes", res.MorningNotes)
	return res, nil
}
