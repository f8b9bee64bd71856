package models

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/bodyclock/internal/constants"
	apperrors "github.com/julianstephens/bodyclock/internal/errors"
	"github.com/julianstephens/bodyclock/internal/utils"
)

// AlarmTime is a time of day. It is serialized as {"hours":H,"minutes":M}
// in the settings table.
type AlarmTime struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

func (t AlarmTime) String() string {
	return utils.FormatClock(t.Hours, t.Minutes)
}

// ParseAlarmTime parses HH:MM into an AlarmTime.
func ParseAlarmTime(value string) (AlarmTime, error) {
	h, m, err := utils.ParseClock(value)
	if err != nil {
		return AlarmTime{}, apperrors.Invalid("time", "expected HH:MM, got %q", value)
	}
	return AlarmTime{Hours: h, Minutes: m}, nil
}

// EncodeAlarmTime renders t in its settings representation.
func EncodeAlarmTime(t AlarmTime) (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("failed to encode alarm time: %w", err)
	}
	return string(data), nil
}

// DecodeAlarmTime parses the settings representation of an alarm time.
func DecodeAlarmTime(value string) (AlarmTime, error) {
	var t AlarmTime
	if err := json.Unmarshal([]byte(value), &t); err != nil {
		return AlarmTime{}, fmt.Errorf("failed to decode alarm time %q: %w", value, err)
	}
	return t, nil
}

// AlarmState is the persisted configuration of one alarm.
type AlarmState struct {
	Name    constants.AlarmName `json:"name"`
	Time    AlarmTime           `json:"time"`
	Enabled bool                `json:"enabled"`
}

// ValidateAlarmName rejects anything other than wake or sleep.
func ValidateAlarmName(name constants.AlarmName) error {
	for _, known := range constants.Alarms {
		if name == known {
			return nil
		}
	}
	return apperrors.Invalid("alarm", "unknown alarm %q (expected wake or sleep)", name)
}
