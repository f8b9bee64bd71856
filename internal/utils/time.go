package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/bodyclock/internal/constants"
)

// Clock yields the current time in the user's configured timezone.
// NowFunc defaults to time.Now; tests replace it to pin "today".
type Clock struct {
	Location *time.Location
	NowFunc  func() time.Time
}

// NewClock returns a Clock for an IANA timezone name ("Local" or empty for the system zone).
func NewClock(timezone string) (Clock, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return Clock{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return Clock{Location: loc, NowFunc: time.Now}, nil
}

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return Clock{Location: t.Location(), NowFunc: func() time.Time { return t }}
}

// Now returns the current time in the clock's location.
func (c Clock) Now() time.Time {
	now := time.Now
	if c.NowFunc != nil {
		now = c.NowFunc
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc)
}

// Today returns the current calendar date (YYYY-MM-DD), midnight-truncated in the clock's location.
func (c Clock) Today() string {
	return c.Now().Format(constants.DateFormat)
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ShiftDate moves a YYYY-MM-DD date by the given number of days.
func ShiftDate(date string, days int) (string, error) {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return "", fmt.Errorf("invalid date format: %w", err)
	}
	return t.AddDate(0, 0, days).Format(constants.DateFormat), nil
}

// ParseClock parses HH:MM into hours and minutes.
func ParseClock(value string) (int, int, error) {
	t, err := time.Parse(constants.TimeFormat, value)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time format (expected HH:MM): %w", err)
	}
	return t.Hour(), t.Minute(), nil
}

// FormatClock renders hours and minutes as zero-padded HH:MM.
func FormatClock(hours, minutes int) string {
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

// NextOccurrence returns the next instant at hours:minutes strictly after now.
// If that wall-clock time has already passed today, it is tomorrow's.
func NextOccurrence(now time.Time, hours, minutes int) time.Time {
	target := time.Date(now.Year(), now.Month(), now.Day(), hours, minutes, 0, 0, now.Location())
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target
}

// SecondsUntil returns the whole seconds from now until the next hours:minutes.
func SecondsUntil(now time.Time, hours, minutes int) int {
	return int(NextOccurrence(now, hours, minutes).Sub(now) / time.Second)
}

// ValidateTimeFormat checks if the string matches the standard time format.
func ValidateTimeFormat(timeStr string) bool {
	_, err := time.Parse(constants.TimeFormat, timeStr)
	return err == nil
}

// ValidateDateFormat checks if the string matches the standard date format.
func ValidateDateFormat(dateStr string) bool {
	_, err := time.Parse(constants.DateFormat, dateStr)
	return err == nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}
