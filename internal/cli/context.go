package cli

import (
	"fmt"

	"github.com/julianstephens/bodyclock/internal/alarm"
	"github.com/julianstephens/bodyclock/internal/backup"
	"github.com/julianstephens/bodyclock/internal/daily"
	"github.com/julianstephens/bodyclock/internal/logger"
	"github.com/julianstephens/bodyclock/internal/scheduler"
	"github.com/julianstephens/bodyclock/internal/storage"
	"github.com/julianstephens/bodyclock/internal/theme"
	"github.com/julianstephens/bodyclock/internal/utils"
)

// Context is handed to every command. It owns the store and the
// single writer for each piece of shared state (theme, alarms).
type Context struct {
	Store     storage.Provider
	Scheduler *scheduler.Local
	Alarms    *alarm.Manager
	Rollover  *daily.Rollover
	Theme     *theme.Theme
	Clock     utils.Clock
}

func NewContext(store storage.Provider, clock utils.Clock, deliver scheduler.Deliverer) *Context {
	if store != nil {
		store.SetNow(clock.Now)
	}
	sched := scheduler.NewLocal(deliver, scheduler.WithNow(clock.Now))
	return &Context{
		Store:     store,
		Scheduler: sched,
		Alarms:    alarm.NewManager(store, sched),
		Rollover:  daily.NewRollover(store, clock),
		Theme:     theme.New(store),
		Clock:     clock,
	}
}

// Start runs after the store is loaded: theme first, then the daily
// rollover.
func (c *Context) Start() error {
	if err := c.Theme.Load(); err != nil {
		return err
	}
	ran, err := c.Rollover.Check()
	if err != nil {
		logger.Error("Daily rollover failed", "error", err)
		return fmt.Errorf("daily rollover failed: %w", err)
	}
	if ran {
		logger.Info("New day started", "date", c.Today())
	}
	return nil
}

func (c *Context) Today() string {
	return c.Clock.Today()
}

// IsSQLite reports whether the store is a local database file that can be
// backed up.
func (c *Context) IsSQLite() bool {
	return c.Store.GetConfigPath() != "postgresql"
}

// PerformAutomaticBackup creates a backup and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if !c.IsSQLite() {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
