package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/julianstephens/bodyclock/internal/constants"
	"github.com/julianstephens/bodyclock/internal/models"
)

const mealColumns = "id, name, type, time, calories, icon, is_default, created_at"

func scanMeal(row rowScanner) (models.Meal, error) {
	var (
		m         models.Meal
		mealType  string
		calories  sql.NullInt64
		icon      sql.NullString
		createdAt string
	)
	if err := row.Scan(&m.ID, &m.Name, &mealType, &m.Time, &calories, &icon, &m.IsDefault, &createdAt); err != nil {
		return models.Meal{}, err
	}
	m.Type = constants.MealType(mealType)
	m.Icon = icon.String
	if calories.Valid {
		c := int(calories.Int64)
		m.Calories = &c
	}

	var err error
	if m.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return models.Meal{}, err
	}
	return m, nil
}

// ListMeals returns all meal templates ordered by time of day.
func (s *Store) ListMeals() ([]models.Meal, error) {
	rows, err := s.query("SELECT " + mealColumns + " FROM meals ORDER BY time ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	var meals []models.Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

func (s *Store) GetMeal(id int64) (models.Meal, error) {
	m, err := scanMeal(s.queryRow("SELECT "+mealColumns+" FROM meals WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Meal{}, fmt.Errorf("meal %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Meal{}, fmt.Errorf("failed to get meal: %w", err)
	}
	return m, nil
}

func (s *Store) CreateMeal(in models.NewMeal) (int64, error) {
	if err := in.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	id, err := s.insert(`
		INSERT INTO meals (name, type, time, calories, icon, is_default, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.Name, string(in.Type), in.Time, nullInt(in.Calories), nullString(in.Icon), in.IsDefault, s.timestamp())
	if err != nil {
		return 0, fmt.Errorf("failed to create meal: %w", err)
	}
	return id, nil
}

func (s *Store) UpdateMeal(id int64, patch models.MealPatch) error {
	if err := patch.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	b := newUpdate("meals")
	setOptional(b, "name", patch.Name)
	if t, ok := patch.Type.Get(); ok {
		b.set("type", string(t))
	}
	setOptional(b, "time", patch.Time)
	setNullableInt(b, "calories", patch.Calories)
	setNullable(b, "icon", patch.Icon)

	if b.empty() {
		_, err := s.GetMeal(id)
		return err
	}

	query, args := b.build("id = ?", id)
	res, err := s.exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}
	return expectAffected(res, "meal", id)
}

func (s *Store) DeleteMeal(id int64) error {
	res, err := s.exec("DELETE FROM meals WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	return expectAffected(res, "meal", id)
}

// TodayMeals lists every meal with its completion status on date.
func (s *Store) TodayMeals(date string) ([]models.MealWithStatus, error) {
	rows, err := s.query(`
		SELECT m.id, m.name, m.type, m.time, m.calories, m.icon, m.is_default, m.created_at,
			dm.id, dm.completed, dm.completed_at
		FROM meals m
		LEFT JOIN daily_meals dm ON dm.meal_id = m.id AND dm.date = ?
		ORDER BY m.time ASC, m.id ASC`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list today's meals: %w", err)
	}
	defer rows.Close()

	var meals []models.MealWithStatus
	for rows.Next() {
		var (
			m           models.Meal
			mealType    string
			calories    sql.NullInt64
			icon        sql.NullString
			createdAt   string
			dailyID     sql.NullInt64
			completed   sql.NullBool
			completedAt sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.Name, &mealType, &m.Time, &calories, &icon, &m.IsDefault, &createdAt,
			&dailyID, &completed, &completedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		m.Type = constants.MealType(mealType)
		m.Icon = icon.String
		if calories.Valid {
			c := int(calories.Int64)
			m.Calories = &c
		}
		if m.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}

		entry := models.MealWithStatus{Meal: m, Completed: completed.Bool}
		if dailyID.Valid {
			id := dailyID.Int64
			entry.DailyMealID = &id
		}
		if entry.CompletedAt, err = parseNullTimestamp(completedAt); err != nil {
			return nil, err
		}
		meals = append(meals, entry)
	}
	return meals, rows.Err()
}

const dailyMealColumns = "id, meal_id, date, completed, completed_at, notes"

func scanDailyMeal(row rowScanner) (models.DailyMeal, error) {
	var (
		dm                 models.DailyMeal
		completedAt, notes sql.NullString
	)
	if err := row.Scan(&dm.ID, &dm.MealID, &dm.Date, &dm.Completed, &completedAt, &notes); err != nil {
		return models.DailyMeal{}, err
	}
	dm.Notes = notes.String

	var err error
	if dm.CompletedAt, err = parseNullTimestamp(completedAt); err != nil {
		return models.DailyMeal{}, err
	}
	return dm, nil
}

func (s *Store) getDailyMeal(mealID int64, date string) (models.DailyMeal, error) {
	dm, err := scanDailyMeal(s.queryRow(
		"SELECT "+dailyMealColumns+" FROM daily_meals WHERE meal_id = ? AND date = ?", mealID, date))
	if errors.Is(err, sql.ErrNoRows) {
		return models.DailyMeal{}, fmt.Errorf("daily meal for meal %d on %s: %w", mealID, date, ErrNotFound)
	}
	if err != nil {
		return models.DailyMeal{}, fmt.Errorf("failed to get daily meal: %w", err)
	}
	return dm, nil
}

func (s *Store) CreateOrGetDailyMeal(mealID int64, date string) (models.DailyMeal, error) {
	dm, err := s.getDailyMeal(mealID, date)
	if err == nil {
		return dm, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.DailyMeal{}, err
	}

	if _, err := s.GetMeal(mealID); err != nil {
		return models.DailyMeal{}, err
	}

	_, err = s.exec(
		"INSERT INTO daily_meals (meal_id, date, completed) VALUES (?, ?, ?) ON CONFLICT (meal_id, date) DO NOTHING",
		mealID, date, false)
	if err != nil {
		return models.DailyMeal{}, fmt.Errorf("failed to create daily meal: %w", err)
	}
	return s.getDailyMeal(mealID, date)
}

// ToggleMeal flips the completion of a meal on date and returns the new row.
func (s *Store) ToggleMeal(mealID int64, date string) (models.DailyMeal, error) {
	dm, err := s.CreateOrGetDailyMeal(mealID, date)
	if err != nil {
		return models.DailyMeal{}, err
	}

	completed := !dm.Completed
	completedAt := sql.NullString{}
	if completed {
		completedAt = nullString(s.timestamp())
	}

	if _, err := s.exec("UPDATE daily_meals SET completed = ?, completed_at = ? WHERE id = ?", completed, completedAt, dm.ID); err != nil {
		return models.DailyMeal{}, fmt.Errorf("failed to toggle meal: %w", err)
	}
	return s.getDailyMeal(mealID, date)
}

// MealStats counts every meal template against the completions recorded on date.
func (s *Store) MealStats(date string) (models.MealStats, error) {
	var stats models.MealStats
	err := s.queryRow(`
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN dm.completed THEN 1 ELSE 0 END), 0)
		FROM meals m
		LEFT JOIN daily_meals dm ON dm.meal_id = m.id AND dm.date = ?`, date).Scan(&stats.Total, &stats.Completed)
	if err != nil {
		return models.MealStats{}, fmt.Errorf("failed to compute meal stats: %w", err)
	}
	if stats.Total > 0 {
		stats.Percentage = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}
	return stats, nil
}

func (s *Store) CleanupDailyMeals(before string) (int64, error) {
	res, err := s.exec("DELETE FROM daily_meals WHERE date < ?", before)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up daily meals: %w", err)
	}
	return res.RowsAffected()
}
