package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/bodyclock/internal/cli"
	"github.com/julianstephens/bodyclock/internal/cli/alarms"
	"github.com/julianstephens/bodyclock/internal/cli/backups"
	"github.com/julianstephens/bodyclock/internal/cli/meals"
	"github.com/julianstephens/bodyclock/internal/cli/notes"
	"github.com/julianstephens/bodyclock/internal/cli/recipes"
	"github.com/julianstephens/bodyclock/internal/cli/schedules"
	"github.com/julianstephens/bodyclock/internal/cli/settings"
	"github.com/julianstephens/bodyclock/internal/cli/system"
	"github.com/julianstephens/bodyclock/internal/constants"
	apperrors "github.com/julianstephens/bodyclock/internal/errors"
	"github.com/julianstephens/bodyclock/internal/keyring"
	"github.com/julianstephens/bodyclock/internal/logger"
	"github.com/julianstephens/bodyclock/internal/notifier"
	"github.com/julianstephens/bodyclock/internal/storage"
	"github.com/julianstephens/bodyclock/internal/utils"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"SQLite database path, PostgreSQL connection string, or 'keyring'. PostgreSQL passwords must come from the keyring, ${env} or .pgpass." type:"string" default:"${config}"`
	Timezone string `help:"IANA timezone used to decide what 'today' is." default:"Local"`
	Debug    bool   `help:"Enable debug logging to stderr."`

	Init     system.InitCmd        `cmd:"" help:"Initialize bodyclock storage."`
	Migrate  system.MigrateCmd     `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd      `cmd:"" help:"Run health checks and diagnostics."`
	Run      system.RunCmd         `cmd:"" help:"Keep alarms firing and roll the day over in the background."`
	Tui      system.TuiCmd         `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Today    system.TodayCmd       `cmd:"" help:"Show today's checklist, meals, note and alarms."`
	Cleanup  system.CleanupCmd     `cmd:"" help:"Prune old meal history and morning notes."`
	Reset    system.ResetCmd       `cmd:"" help:"Delete all schedules, meal history and notes."`
	Schedule schedules.ScheduleCmd `cmd:"" help:"Manage the daily schedule checklist."`
	Meal     meals.MealCmd         `cmd:"" help:"Manage meals and the daily meal checklist."`
	Note     notes.NoteCmd         `cmd:"" help:"Write and review morning notes."`
	Recipe   recipes.RecipeCmd     `cmd:"" help:"Manage the recipe box."`
	Alarm    alarms.AlarmCmd       `cmd:"" help:"Manage the wake and sleep alarms."`
	Settings settings.SettingsCmd  `cmd:"" help:"Manage application settings."`
	Backup   backups.BackupCmd     `cmd:"" help:"Manage database backups."`
	Keyring  system.KeyringCmd     `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

// skipsLoad lists commands that run without an initialized database.
func skipsLoad(command string) bool {
	return command == "init" || strings.HasPrefix(command, "keyring")
}

// logDir returns where log files go for a resolved database location.
func logDir(conn keyring.Connection) string {
	if !storage.IsPostgres(conn.Value) {
		if path, err := storage.ExpandPath(conn.Value); err == nil {
			return filepath.Dir(path)
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, constants.AppName)
	}
	return os.TempDir()
}

func openStore(conn keyring.Connection) (storage.Provider, error) {
	if conn.Secret {
		return storage.FromSecret(conn.Value)
	}
	return storage.New(conn.Value)
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Sleep/wake alarms, daily checklists, meals, a morning journal and a recipe box."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"config":  constants.DefaultConfigPath,
			"env":     constants.EnvDBConnection,
		},
	)
	command := kctx.Command()

	conn, err := keyring.Resolve(CLI.Config)
	if err != nil && !skipsLoad(command) {
		apperrors.Fatal(err)
	}

	if err := logger.Init(logger.Config{
		Debug:      CLI.Debug,
		ConfigDir:  logDir(conn),
		Foreground: strings.HasPrefix(command, "run"),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	clock, err := utils.NewClock(CLI.Timezone)
	if err != nil {
		apperrors.Fatal(err)
	}

	var store storage.Provider
	if conn.Value != "" {
		if store, err = openStore(conn); err != nil {
			apperrors.Fatal(err)
		}
		defer store.Close()
	}

	appCtx := cli.NewContext(store, clock, notifier.New())

	if store != nil && !skipsLoad(command) {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
		if err := appCtx.Start(); err != nil {
			apperrors.Fatal(err)
		}
	}

	apperrors.Fatal(kctx.Run(appCtx))
}
