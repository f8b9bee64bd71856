package models

import (
	"strings"
	"time"

	"github.com/julianstephens/bodyclock/internal/constants"
	apperrors "github.com/julianstephens/bodyclock/internal/errors"
)

type Recipe struct {
	ID          int64                    `json:"id"`
	Title       string                   `json:"title"`
	Category    constants.RecipeCategory `json:"category"`
	Tags        []constants.RecipeTag    `json:"tags"`
	Ingredients []string                 `json:"ingredients"`
	Steps       []string                 `json:"steps"`
	Notes       string                   `json:"notes,omitempty"`
	IsArchived  bool                     `json:"is_archived"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// HasTag reports whether the recipe carries tag.
func (r Recipe) HasTag(tag constants.RecipeTag) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

type NewRecipe struct {
	Title       string
	Category    constants.RecipeCategory
	Tags        []constants.RecipeTag
	Ingredients []string
	Steps       []string
	Notes       string
}

func (n NewRecipe) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return apperrors.Invalid("title", "cannot be empty")
	}
	if err := ValidateCategory(n.Category); err != nil {
		return err
	}
	return ValidateTags(n.Tags)
}

type RecipePatch struct {
	Title       Optional[string]
	Category    Optional[constants.RecipeCategory]
	Tags        Optional[[]constants.RecipeTag]
	Ingredients Optional[[]string]
	Steps       Optional[[]string]
	Notes       Optional[string]
	IsArchived  Optional[bool]
}

func (p RecipePatch) Validate() error {
	if p.Title.Set && strings.TrimSpace(p.Title.Value) == "" {
		return apperrors.Invalid("title", "cannot be empty")
	}
	if p.Category.Set {
		if err := ValidateCategory(p.Category.Value); err != nil {
			return err
		}
	}
	if p.Tags.Set {
		return ValidateTags(p.Tags.Value)
	}
	return nil
}

// RecipeFilter narrows ListRecipes. Zero values mean "no filter".
type RecipeFilter struct {
	IncludeArchived bool
	Category        constants.RecipeCategory
	Tags            []constants.RecipeTag // any-of
	Search          string
}

type CategoryCount struct {
	Category constants.RecipeCategory `json:"category"`
	Count    int                      `json:"count"`
}

func ValidateCategory(c constants.RecipeCategory) error {
	for _, known := range constants.RecipeCategories {
		if c == known {
			return nil
		}
	}
	return apperrors.Invalid("category", "unknown category %q", c)
}

func ValidateTags(tags []constants.RecipeTag) error {
	seen := make(map[constants.RecipeTag]bool, len(tags))
	for _, tag := range tags {
		known := false
		for _, k := range constants.RecipeTags {
			if tag == k {
				known = true
				break
			}
		}
		if !known {
			return apperrors.Invalid("tags", "unknown tag %q", tag)
		}
		if seen[tag] {
			return apperrors.Invalid("tags", "duplicate tag %q", tag)
		}
		seen[tag] = true
	}
	return nil
}
