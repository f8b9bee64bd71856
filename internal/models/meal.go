package models

import (
	"strings"
	"time"

	"github.com/julianstephens/bodyclock/internal/constants"
	apperrors "github.com/julianstephens/bodyclock/internal/errors"
)

// Meal is a recurring meal slot.
type Meal struct {
	ID        int64              `json:"id"`
	Name      string             `json:"name"`
	Type      constants.MealType `json:"type"`
	Time      string             `json:"time"`
	Calories  *int               `json:"calories,omitempty"`
	Icon      string             `json:"icon,omitempty"`
	IsDefault bool               `json:"is_default"`
	CreatedAt time.Time          `json:"created_at"`
}

type NewMeal struct {
	Name      string
	Type      constants.MealType
	Time      string
	Calories  *int
	Icon      string
	IsDefault bool
}

func (n NewMeal) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return apperrors.Invalid("name", "cannot be empty")
	}
	if err := ValidateMealType(n.Type); err != nil {
		return err
	}
	if n.Calories != nil && *n.Calories < 0 {
		return apperrors.Invalid("calories", "cannot be negative")
	}
	return validateClock("time", n.Time)
}

type MealPatch struct {
	Name     Optional[string]
	Type     Optional[constants.MealType]
	Time     Optional[string]
	Calories Optional[*int]
	Icon     Optional[string]
}

func (p MealPatch) Validate() error {
	if p.Name.Set && strings.TrimSpace(p.Name.Value) == "" {
		return apperrors.Invalid("name", "cannot be empty")
	}
	if p.Type.Set {
		if err := ValidateMealType(p.Type.Value); err != nil {
			return err
		}
	}
	if p.Calories.Set && p.Calories.Value != nil && *p.Calories.Value < 0 {
		return apperrors.Invalid("calories", "cannot be negative")
	}
	if p.Time.Set {
		return validateClock("time", p.Time.Value)
	}
	return nil
}

// ValidateMealType rejects values outside the closed meal type set.
func ValidateMealType(t constants.MealType) error {
	for _, known := range constants.MealTypes {
		if t == known {
			return nil
		}
	}
	return apperrors.Invalid("type", "unknown meal type %q", t)
}

// DailyMeal records whether a meal was eaten on a given date.
type DailyMeal struct {
	ID          int64      `json:"id"`
	MealID      int64      `json:"meal_id"`
	Date        string     `json:"date"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// MealWithStatus is a meal joined with its completion on one date.
type MealWithStatus struct {
	Meal
	DailyMealID *int64     `json:"daily_meal_id,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type MealStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Percentage int `json:"percentage"`
}
