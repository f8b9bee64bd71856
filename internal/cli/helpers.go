package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/bodyclock/internal/constants"
	apperrors "github.com/julianstephens/bodyclock/internal/errors"
	"github.com/julianstephens/bodyclock/internal/utils"
)

// ParseTime validates an HH:MM flag value.
func ParseTime(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if !utils.ValidateTimeFormat(value) {
		return "", apperrors.Invalid(field, "expected HH:MM, got %q", value)
	}
	return value, nil
}

// ParseDate returns value, or today when value is empty.
func ParseDate(ctx *Context, value string) (string, error) {
	if value == "" {
		return ctx.Today(), nil
	}
	if !utils.ValidateDateFormat(value) {
		return "", apperrors.Invalid("date", "expected YYYY-MM-DD, got %q", value)
	}
	return value, nil
}

// ParseToday is ParseDate for commands that write daily records. Daily
// instances only exist from the day they are first used, so any date other
// than today is rejected.
func ParseToday(ctx *Context, value string) (string, error) {
	date, err := ParseDate(ctx, value)
	if err != nil {
		return "", err
	}
	if today := ctx.Today(); date != today {
		return "", apperrors.Invalid("date", "daily records can only be changed for today (%s), got %s", today, date)
	}
	return date, nil
}

// Check renders a checkbox.
func Check(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// Confirm reports whether typed matches expected exactly.
func Confirm(typed, expected string) error {
	if typed != expected {
		return apperrors.Invalid("confirmation", "text did not match %q, nothing was changed", expected)
	}
	return nil
}

func FormatCalories(c *int) string {
	if c == nil {
		return "-"
	}
	return fmt.Sprintf("%d kcal", *c)
}

// ParseTags splits a comma-separated tag list.
func ParseTags(value string) []constants.RecipeTag {
	var tags []constants.RecipeTag
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(strings.ToLower(part)); part != "" {
			tags = append(tags, constants.RecipeTag(part))
		}
	}
	return tags
}

// SplitList splits a semicolon-separated list, dropping blanks.
func SplitList(value string) []string {
	var items []string
	for _, part := range strings.Split(value, ";") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
