package constants

import "time"

// AlarmName identifies one of the two persistent alarms.
type AlarmName string

// MealType is the slot a meal template occupies in the day.
type MealType string

// Mood is the self-reported mood captured by a morning note.
type Mood string

// RecipeCategory is the closed set of recipe categories.
type RecipeCategory string

// RecipeTag is the closed set of recipe tags.
type RecipeTag string

// ThemeMode is the persisted color scheme preference.
type ThemeMode string

const (
	AppName            = "bodyclock"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/bodyclock/bodyclock.db"
	Version            = "v1.0.0"

	// EnvDBConnection overrides the PostgreSQL connection string
	EnvDBConnection = "BODYCLOCK_DB_CONNECTION"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Retention windows, in days, for per-day records
	DailyStateRetentionDays  = 7
	DailyMealRetentionDays   = 30
	MorningNoteRetentionDays = 30
	WeeklyWindowDays         = 7

	// RecipeSearchLimit caps the number of ranked search results
	RecipeSearchLimit = 50

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "bodyclock-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "bodyclock-notifier.lock"
	NotificationDurationMs = 8000
	TrayAppIdentifier      = "com.julianstephens.bodyclock"
	TrayProcessPrefix      = "bodyclock-tray"
	SchedulerTickInterval  = time.Minute

	// Alarm names and their scheduler identifiers
	AlarmWake    AlarmName = "wake"
	AlarmSleep   AlarmName = "sleep"
	WakeAlarmID            = "alarm_wake"
	SleepAlarmID           = "alarm_sleep"

	// Meal types
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"

	// Moods
	MoodGreat    Mood = "great"
	MoodGood     Mood = "good"
	MoodOkay     Mood = "okay"
	MoodBad      Mood = "bad"
	MoodTerrible Mood = "terrible"

	// Rating bounds for sleep quality and energy level
	MinRating = 1
	MaxRating = 5

	// Recipe categories
	CategoryDaging RecipeCategory = "daging"
	CategoryIkan   RecipeCategory = "ikan"
	CategorySayur  RecipeCategory = "sayur"
	CategoryTempe  RecipeCategory = "tempe"
	CategoryTelur  RecipeCategory = "telur"
	CategoryFrozen RecipeCategory = "frozen"
	CategoryTahu   RecipeCategory = "tahu"

	// Recipe tags
	TagBulking RecipeTag = "bulking"
	TagMurah   RecipeTag = "murah"

	// Theme modes
	ThemeDark  ThemeMode = "dark"
	ThemeLight ThemeMode = "light"

	// ResetConfirmationText must be typed to wipe all user data
	ResetConfirmationText = "RESET"
)

// Alarms lists the persistent alarms in restore order.
var Alarms = []AlarmName{AlarmWake, AlarmSleep}

var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

var Moods = []Mood{MoodGreat, MoodGood, MoodOkay, MoodBad, MoodTerrible}

var RecipeCategories = []RecipeCategory{
	CategoryDaging,
	CategoryIkan,
	CategorySayur,
	CategoryTempe,
	CategoryTelur,
	CategoryFrozen,
	CategoryTahu,
}

var RecipeTags = []RecipeTag{TagBulking, TagMurah}
