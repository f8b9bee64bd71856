package models

import (
	"time"

	"github.com/julianstephens/bodyclock/internal/constants"
	apperrors "github.com/julianstephens/bodyclock/internal/errors"
)

// MorningNote is the once-per-day mood journal entry.
type MorningNote struct {
	ID           int64          `json:"id"`
	Date         string         `json:"date"`
	Mood         constants.Mood `json:"mood"`
	SleepQuality int            `json:"sleep_quality"`
	EnergyLevel  int            `json:"energy_level"`
	Notes        string         `json:"notes,omitempty"`
	CompletedAt  time.Time      `json:"completed_at"`
}

type NewMorningNote struct {
	Mood         constants.Mood
	SleepQuality int
	EnergyLevel  int
	Notes        string
}

func (n NewMorningNote) Validate() error {
	if err := ValidateMood(n.Mood); err != nil {
		return err
	}
	if err := validateRating("sleep_quality", n.SleepQuality); err != nil {
		return err
	}
	return validateRating("energy_level", n.EnergyLevel)
}

type MorningNotePatch struct {
	Mood         Optional[constants.Mood]
	SleepQuality Optional[int]
	EnergyLevel  Optional[int]
	Notes        Optional[string]
}

func (p MorningNotePatch) Validate() error {
	if p.Mood.Set {
		if err := ValidateMood(p.Mood.Value); err != nil {
			return err
		}
	}
	if p.SleepQuality.Set {
		if err := validateRating("sleep_quality", p.SleepQuality.Value); err != nil {
			return err
		}
	}
	if p.EnergyLevel.Set {
		return validateRating("energy_level", p.EnergyLevel.Value)
	}
	return nil
}

// NoteStats aggregates morning notes over a window.
type NoteStats struct {
	AvgSleepQuality float64 `json:"avg_sleep_quality"`
	AvgEnergyLevel  float64 `json:"avg_energy_level"`
	Count           int     `json:"count"`
}

func ValidateMood(m constants.Mood) error {
	for _, known := range constants.Moods {
		if m == known {
			return nil
		}
	}
	return apperrors.Invalid("mood", "unknown mood %q", m)
}

func validateRating(field string, v int) error {
	if v < constants.MinRating || v > constants.MaxRating {
		return apperrors.Invalid(field, "must be between %d and %d, got %d", constants.MinRating, constants.MaxRating, v)
	}
	return nil
}
