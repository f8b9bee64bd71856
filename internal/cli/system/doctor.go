package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/bodyclock/internal/backup"
	"github.com/julianstephens/bodyclock/internal/cli"
	"github.com/julianstephens/bodyclock/internal/constants"
	"github.com/julianstephens/bodyclock/internal/models"
	"github.com/julianstephens/bodyclock/internal/theme"
	"github.com/julianstephens/bodyclock/internal/utils"
)

type DoctorCmd struct{}

type severity int

const (
	severityFail severity = iota
	severityWarn
)

type check struct {
	name     string
	severity severity
	needsDB  bool
	run      func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Settings", needsDB: true, run: checkSettings},
	{name: "Alarm settings", needsDB: true, run: checkAlarmSettings},
	{name: "Daily rollover", needsDB: true, run: checkRollover},
	{name: "Record dates", needsDB: true, run: checkRecordDates},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Backups present", severity: severityWarn, run: checkBackupsPresent},
	{name: "Notifications", severity: severityWarn, run: checkNotifications},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true
	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.severity == severityWarn:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Database reachable" {
				dbReachable = false
			}
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Some checks failed. Please review the errors above.")
		return errors.New("diagnostics failed")
	}
	fmt.Println("All critical checks passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	db := ctx.Store.GetDB()
	if db == nil {
		return errors.New("database connection is not open")
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := ctx.Store.SchemaVersion()
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version %d is newer than supported version %d, upgrade %s", current, latest, constants.AppName)
	}
	if current < latest {
		return fmt.Errorf("%d pending migration(s), run '%s migrate'", latest-current, constants.AppName)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetAllSettings()
	if err != nil {
		return err
	}
	if mode, ok := settings[constants.SettingTheme]; ok {
		if err := theme.Validate(constants.ThemeMode(mode)); err != nil {
			return err
		}
	}
	for _, key := range []string{constants.SettingDefaultWakeTime, constants.SettingDefaultSleepTime} {
		if value, ok := settings[key]; ok {
			if _, err := models.DecodeAlarmTime(value); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		}
	}
	if flag, ok := settings[constants.SettingMorningNotesCompleted]; ok &&
		flag != constants.MorningNotesFlagDone && flag != constants.MorningNotesFlagPending {
		return fmt.Errorf("%s has unexpected value %q", constants.SettingMorningNotesCompleted, flag)
	}
	return nil
}

func checkAlarmSettings(ctx *cli.Context) error {
	for _, name := range constants.Alarms {
		if _, _, err := ctx.Alarms.Get(name); err != nil {
			return fmt.Errorf("%s alarm: %w", name, err)
		}
	}
	return nil
}

func checkRollover(ctx *cli.Context) error {
	last, ok, err := ctx.Store.GetSetting(constants.SettingLastResetDate)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("the daily rollover has never run")
	}
	if !utils.ValidateDateFormat(last) {
		return fmt.Errorf("%s has invalid date %q", constants.SettingLastResetDate, last)
	}
	if last > ctx.Today() {
		return fmt.Errorf("last rollover %s is after today %s, check the system clock", last, ctx.Today())
	}
	return nil
}

var datedTables = []string{"daily_state", "daily_meals", "morning_notes"}

func checkRecordDates(ctx *cli.Context) error {
	db := ctx.Store.GetDB()
	for _, table := range datedTables {
		rows, err := db.Query("SELECT DISTINCT date FROM " + table)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", table, err)
		}
		var invalid []string
		for rows.Next() {
			var date string
			if err := rows.Scan(&date); err != nil {
				rows.Close()
				return err
			}
			if !utils.ValidateDateFormat(date) {
				invalid = append(invalid, date)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		if len(invalid) > 0 {
			return fmt.Errorf("%s has %d invalid date(s): %v", table, len(invalid), invalid)
		}
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Clock.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	if !utils.ValidateDateFormat(ctx.Today()) {
		return fmt.Errorf("today resolved to an invalid date %q", ctx.Today())
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return errors.New("backups are only taken for SQLite storage")
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found, run '%s backup create'", constants.AppName)
	}
	return nil
}

func checkNotifications(ctx *cli.Context) error {
	if !ctx.Scheduler.HasPermission() {
		return errors.New("no notification target is running, alarms will not be delivered")
	}
	return nil
}
