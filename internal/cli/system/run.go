package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/bodyclock/internal/cli"
	"github.com/julianstephens/bodyclock/internal/constants"
	"github.com/julianstephens/bodyclock/internal/logger"
)

// RunCmd keeps alarms firing and performs the daily rollover while the
// process stays up.
type RunCmd struct {
	Interval time.Duration `help:"How often to check for a new day." default:"1m"`
}

func (c *RunCmd) Run(ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := startRunLoop(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- ctx.Scheduler.Run(sigCtx) }()

	fmt.Printf("%s is running. Press Ctrl+C to stop.\n", constants.AppName)
	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-sigCtx.Done():
			<-errCh
			logger.Info("Run loop stopped")
			return nil
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		case <-ticker.C:
			if err := tickRunLoop(ctx); err != nil {
				logger.Error("Daily rollover failed", "error", err)
			}
		}
	}
}

// startRunLoop restores alarms, keeps them reconciled with storage on every
// scheduler tick and routes notification responses.
func startRunLoop(ctx *cli.Context) error {
	granted, err := ctx.Alarms.Initialize()
	if err != nil {
		return fmt.Errorf("failed to restore alarms: %w", err)
	}
	if !granted {
		logger.Warn("Notifications unavailable, alarms will not fire until the tray app is running")
	}
	ctx.Scheduler.BeforeTick(func() { syncAlarms(ctx) })
	ctx.Scheduler.OnResponse(ctx.Alarms.HandleResponse)

	if _, err := ctx.Rollover.Cleanup(); err != nil {
		logger.Warn("Cleanup failed", "error", err)
	}
	return nil
}

// syncAlarms picks up alarm changes written by other processes, such as
// `bodyclock alarm toggle` run from another shell.
func syncAlarms(ctx *cli.Context) {
	if err := ctx.Alarms.Restore(); err != nil {
		logger.Warn("Failed to sync alarms from storage", "error", err)
	}
}

// tickRunLoop runs the rollover and, on a new day, prunes old records and
// takes a backup.
func tickRunLoop(ctx *cli.Context) error {
	ran, err := ctx.Rollover.Check()
	if err != nil {
		return err
	}
	if !ran {
		return nil
	}

	logger.Info("New day started", "date", ctx.Today())
	res, err := ctx.Rollover.Cleanup()
	if err != nil {
		logger.Warn("Cleanup failed", "error", err)
	} else {
		logger.Debug("Cleanup finished", "daily_meals", res.DailyMeals, "morning_notes", res.MorningNotes)
	}
	ctx.PerformAutomaticBackup()
	return nil
}
