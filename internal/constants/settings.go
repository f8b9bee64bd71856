package constants

const (
	// Bookkeeping
	SettingLastResetDate         = "last_reset_date"
	SettingMorningNotesCompleted = "morning_notes_completed_today"
	SettingAppVersion            = "app_version"

	// Preferences
	SettingTheme            = "theme"
	SettingDefaultWakeTime  = "default_wake_time"
	SettingDefaultSleepTime = "default_sleep_time"

	// Default Settings Values
	DefaultTheme            = ThemeDark
	DefaultWakeTimeJSON     = `{"hours":6,"minutes":0}`
	DefaultSleepTimeJSON    = `{"hours":22,"minutes":0}`
	DefaultTimezone         = "Local" // Use system local timezone by default
	MorningNotesFlagDone    = "1"
	MorningNotesFlagPending = "0"
)

// AlarmEnabledKey returns the settings key holding the enabled flag of an alarm.
func AlarmEnabledKey(name AlarmName) string {
	return "alarm_" + string(name) + "_enabled"
}

// AlarmTimeKey returns the settings key holding the serialized time of an alarm.
func AlarmTimeKey(name AlarmName) string {
	return "alarm_" + string(name) + "_time"
}
