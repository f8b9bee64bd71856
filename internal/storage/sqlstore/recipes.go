package sqlstore

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/bodyclock/internal/constants"
	"github.com/julianstephens/bodyclock/internal/models"
)

const recipeColumns = "id, title, category, tags, ingredients, steps, notes, is_archived, created_at, updated_at"

func scanRecipe(row rowScanner) (models.Recipe, error) {
	var (
		r                        models.Recipe
		category                 string
		tags, ingredients, steps string
		notes                    sql.NullString
		createdAt, updatedAt     string
	)
	if err := row.Scan(&r.ID, &r.Title, &category, &tags, &ingredients, &steps, &notes, &r.IsArchived, &createdAt, &updatedAt); err != nil {
		return models.Recipe{}, err
	}
	r.Category = constants.RecipeCategory(category)
	r.Notes = notes.String

	if err := decodeList(tags, &r.Tags); err != nil {
		return models.Recipe{}, fmt.Errorf("recipe %d tags: %w", r.ID, err)
	}
	if err := decodeList(ingredients, &r.Ingredients); err != nil {
		return models.Recipe{}, fmt.Errorf("recipe %d ingredients: %w", r.ID, err)
	}
	if err := decodeList(steps, &r.Steps); err != nil {
		return models.Recipe{}, fmt.Errorf("recipe %d steps: %w", r.ID, err)
	}

	var err error
	if r.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return models.Recipe{}, err
	}
	if r.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return models.Recipe{}, err
	}
	return r, nil
}

func decodeList[T any](raw string, dst *[]T) error {
	if raw == "" {
		*dst = []T{}
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return err
	}
	if *dst == nil {
		*dst = []T{}
	}
	return nil
}

func encodeList[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	// Stored text is searched with LIKE, so "&", "<" and ">" stay literal.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func (s *Store) listRecipes(query string, args ...any) ([]models.Recipe, error) {
	rows, err := s.query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []models.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

// ListRecipes returns recipes matching filter, newest first.
func (s *Store) ListRecipes(filter models.RecipeFilter) ([]models.Recipe, error) {
	var (
		where []string
		args  []any
	)
	if !filter.IncludeArchived {
		where = append(where, "is_archived = ?")
		args = append(args, false)
	}
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(filter.Category))
	}
	if len(filter.Tags) > 0 {
		var tagConds []string
		for _, tag := range filter.Tags {
			tagConds = append(tagConds, "tags LIKE ?")
			args = append(args, `%"`+string(tag)+`"%`)
		}
		where = append(where, "("+strings.Join(tagConds, " OR ")+")")
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(ingredients) LIKE ?)")
		args = append(args, likePattern(term), likePattern(term))
	}

	query := "SELECT " + recipeColumns + " FROM recipes"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	return s.listRecipes(query, args...)
}

func (s *Store) GetRecipe(id int64) (models.Recipe, error) {
	r, err := scanRecipe(s.queryRow("SELECT "+recipeColumns+" FROM recipes WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Recipe{}, fmt.Errorf("recipe %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Recipe{}, fmt.Errorf("failed to get recipe: %w", err)
	}
	return r, nil
}

func (s *Store) CreateRecipe(in models.NewRecipe) (int64, error) {
	if err := in.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	tags, err := encodeList(in.Tags)
	if err != nil {
		return 0, err
	}
	ingredients, err := encodeList(in.Ingredients)
	if err != nil {
		return 0, err
	}
	steps, err := encodeList(in.Steps)
	if err != nil {
		return 0, err
	}

	ts := s.timestamp()
	id, err := s.insert(`
		INSERT INTO recipes (title, category, tags, ingredients, steps, notes, is_archived, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Title, string(in.Category), tags, ingredients, steps, nullString(in.Notes), false, ts, ts)
	if err != nil {
		return 0, fmt.Errorf("failed to create recipe: %w", err)
	}
	return id, nil
}

// UpdateRecipe writes the present patch fields and always refreshes updated_at.
func (s *Store) UpdateRecipe(id int64, patch models.RecipePatch) error {
	if err := patch.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	b := newUpdate("recipes")
	setOptional(b, "title", patch.Title)
	if c, ok := patch.Category.Get(); ok {
		b.set("category", string(c))
	}
	if tags, ok := patch.Tags.Get(); ok {
		encoded, err := encodeList(tags)
		if err != nil {
			return err
		}
		b.set("tags", encoded)
	}
	if ingredients, ok := patch.Ingredients.Get(); ok {
		encoded, err := encodeList(ingredients)
		if err != nil {
			return err
		}
		b.set("ingredients", encoded)
	}
	if steps, ok := patch.Steps.Get(); ok {
		encoded, err := encodeList(steps)
		if err != nil {
			return err
		}
		b.set("steps", encoded)
	}
	setNullable(b, "notes", patch.Notes)
	setOptional(b, "is_archived", patch.IsArchived)
	b.set("updated_at", s.timestamp())

	query, args := b.build("id = ?", id)
	res, err := s.exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	return expectAffected(res, "recipe", id)
}

func (s *Store) ArchiveRecipe(id int64) error {
	return s.UpdateRecipe(id, models.RecipePatch{IsArchived: models.Some(true)})
}

func (s *Store) UnarchiveRecipe(id int64) error {
	return s.UpdateRecipe(id, models.RecipePatch{IsArchived: models.Some(false)})
}

// DeleteRecipe removes a recipe permanently.
func (s *Store) DeleteRecipe(id int64) error {
	res, err := s.exec("DELETE FROM recipes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return expectAffected(res, "recipe", id)
}

// RecipeCountByCategory counts non-archived recipes per category.
func (s *Store) RecipeCountByCategory() ([]models.CategoryCount, error) {
	rows, err := s.query(`
		SELECT category, COUNT(*) FROM recipes
		WHERE is_archived = ?
		GROUP BY category ORDER BY category`, false)
	if err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}
	defer rows.Close()

	var counts []models.CategoryCount
	for rows.Next() {
		var (
			c        models.CategoryCount
			category string
		)
		if err := rows.Scan(&category, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		c.Category = constants.RecipeCategory(category)
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// SearchRecipes finds non-archived recipes whose title, ingredients or tags
// contain query. Title matches come first, then ingredient matches, then
// tag-only matches; each group is ordered newest first.
func (s *Store) SearchRecipes(query string) ([]models.Recipe, error) {
	term := strings.TrimSpace(query)
	if term == "" {
		return []models.Recipe{}, nil
	}
	pattern := likePattern(term)

	return s.listRecipes(`
		SELECT `+recipeColumns+` FROM recipes
		WHERE is_archived = ?
			AND (LOWER(title) LIKE ? OR LOWER(ingredients) LIKE ? OR LOWER(tags) LIKE ?)
		ORDER BY
			CASE
				WHEN LOWER(title) LIKE ? THEN 1
				WHEN LOWER(ingredients) LIKE ? THEN 2
				ELSE 3
			END,
			created_at DESC, id DESC
		LIMIT ?`,
		false, pattern, pattern, pattern, pattern, pattern, constants.RecipeSearchLimit)
}
