package storage

import (
	"database/sql"
	"time"

	"github.com/julianstephens/bodyclock/internal/models"
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (current, latest int, err error)

	// Settings
	GetSetting(key string) (string, bool, error)
	SetSetting(key, value string) error
	GetAllSettings() (map[string]string, error)
	DeleteSetting(key string) error

	// Schedule templates
	ListActiveSchedules() ([]models.ScheduleTemplate, error)
	ListSchedules(includeInactive bool) ([]models.ScheduleTemplate, error)
	GetSchedule(id int64) (models.ScheduleTemplate, error)
	CreateSchedule(models.NewSchedule) (int64, error)
	UpdateSchedule(id int64, patch models.SchedulePatch) error
	DeactivateSchedule(id int64) error
	ActivateSchedule(id int64) error
	DeleteSchedule(id int64) error

	// Daily state
	TodayStates(date string) ([]models.DailyState, error)
	GetDailyState(scheduleID int64, date string) (models.DailyState, error)
	// CreateOrGetDailyState never produces two rows for the same
	// (scheduleID, date), even under concurrent callers.
	CreateOrGetDailyState(scheduleID int64, date string) (models.DailyState, error)
	UpdateDailyState(id int64, patch models.DailyStatePatch) error
	MarkCompleted(id int64, notes string) error
	MarkUncompleted(id int64) error
	DailyStats(date string) (models.DailyStats, error)
	CleanupDailyStates(before string) (int64, error)
	TodayChecklist(date string) ([]models.ChecklistItem, error)

	// Meals
	ListMeals() ([]models.Meal, error)
	GetMeal(id int64) (models.Meal, error)
	CreateMeal(models.NewMeal) (int64, error)
	UpdateMeal(id int64, patch models.MealPatch) error
	DeleteMeal(id int64) error
	TodayMeals(date string) ([]models.MealWithStatus, error)
	CreateOrGetDailyMeal(mealID int64, date string) (models.DailyMeal, error)
	ToggleMeal(mealID int64, date string) (models.DailyMeal, error)
	MealStats(date string) (models.MealStats, error)
	CleanupDailyMeals(before string) (int64, error)

	// Morning notes
	GetMorningNote(date string) (models.MorningNote, error)
	IsMorningNoteCompleted(date string) (bool, error)
	SaveMorningNote(date string, note models.NewMorningNote) (int64, error)
	UpdateMorningNote(id int64, patch models.MorningNotePatch) error
	MorningNotesSince(since string) ([]models.MorningNote, error)
	WeeklyNoteStats(since string) (models.NoteStats, error)
	CleanupMorningNotes(before string) (int64, error)

	// Recipes
	ListRecipes(filter models.RecipeFilter) ([]models.Recipe, error)
	GetRecipe(id int64) (models.Recipe, error)
	CreateRecipe(models.NewRecipe) (int64, error)
	UpdateRecipe(id int64, patch models.RecipePatch) error
	ArchiveRecipe(id int64) error
	UnarchiveRecipe(id int64) error
	DeleteRecipe(id int64) error
	RecipeCountByCategory() ([]models.CategoryCount, error)
	SearchRecipes(query string) ([]models.Recipe, error)

	// Bulk
	ResetAllData(today string) error

	// Utils
	SetNow(now func() time.Time)
	GetConfigPath() string
	GetDB() *sql.DB
}
