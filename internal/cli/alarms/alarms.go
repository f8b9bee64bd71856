package alarms

import (
	"errors"
	"fmt"

	"github.com/julianstephens/bodyclock/internal/alarm"
	"github.com/julianstephens/bodyclock/internal/cli"
	"github.com/julianstephens/bodyclock/internal/constants"
	"github.com/julianstephens/bodyclock/internal/models"
)

type AlarmCmd struct {
	Set       AlarmSetCmd       `cmd:"" help:"Set the wake or sleep alarm."`
	Show      AlarmShowCmd      `cmd:"" help:"Show both alarms." default:"1"`
	Toggle    AlarmToggleCmd    `cmd:"" help:"Turn an alarm on or off, keeping its time."`
	Test      AlarmTestCmd      `cmd:"" help:"Send an alarm notification right now."`
	Restore   AlarmRestoreCmd   `cmd:"" help:"Re-register enabled alarms with the notifier."`
	CancelAll AlarmCancelAllCmd `cmd:"" name:"cancel-all" help:"Cancel and disable both alarms."`
}

// defaultTimeKeys maps each alarm to the setting holding its default time.
var defaultTimeKeys = map[constants.AlarmName]string{
	constants.AlarmWake:  constants.SettingDefaultWakeTime,
	constants.AlarmSleep: constants.SettingDefaultSleepTime,
}

type AlarmSetCmd struct {
	Name    string `arg:"" enum:"wake,sleep" help:"Alarm to set (wake or sleep)."`
	Time    string `arg:"" optional:"" help:"Time of day (HH:MM), defaults to the configured default."`
	Disable bool   `help:"Save the time but leave the alarm off."`
}

func (c *AlarmSetCmd) Run(ctx *cli.Context) error {
	name := constants.AlarmName(c.Name)
	t, err := c.resolveTime(ctx, name)
	if err != nil {
		return err
	}

	res, err := ctx.Alarms.Set(name, t, !c.Disable)
	if err != nil {
		return fmt.Errorf("failed to set %s alarm: %w", name, err)
	}
	report(name, t, !c.Disable, res)
	return nil
}

func (c *AlarmSetCmd) resolveTime(ctx *cli.Context, name constants.AlarmName) (models.AlarmTime, error) {
	if c.Time != "" {
		return models.ParseAlarmTime(c.Time)
	}
	raw, ok, err := ctx.Store.GetSetting(defaultTimeKeys[name])
	if err != nil {
		return models.AlarmTime{}, err
	}
	if !ok {
		return models.AlarmTime{}, fmt.Errorf("no time given and no default %s time configured", name)
	}
	return models.DecodeAlarmTime(raw)
}

// report prints the outcome of a set or toggle. A failed scheduling result
// still means the alarm was saved.
func report(name constants.AlarmName, t models.AlarmTime, enabled bool, res alarm.Result) {
	state := "off"
	if enabled {
		state = "on"
	}
	fmt.Printf("✓ %s alarm saved: %s (%s)\n", name, t, state)
	if enabled && !res.Success {
		fmt.Printf("⚠ Not scheduled: %s\n", res.Error)
		fmt.Printf("  It will be restored when '%s run' starts with the tray app available.\n", constants.AppName)
	}
}

type AlarmShowCmd struct{}

func (c *AlarmShowCmd) Run(ctx *cli.Context) error {
	for _, name := range constants.Alarms {
		state, ok, err := ctx.Alarms.Get(name)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Printf("%-5s  not set\n", name)
			continue
		}
		status := "off"
		if state.Enabled {
			status = "on"
		}
		fmt.Printf("%-5s  %s  %s\n", name, state.Time, status)
	}
	return nil
}

type AlarmToggleCmd struct {
	Name string `arg:"" enum:"wake,sleep" help:"Alarm to toggle (wake or sleep)."`
}

func (c *AlarmToggleCmd) Run(ctx *cli.Context) error {
	name := constants.AlarmName(c.Name)
	res, err := ctx.Alarms.Toggle(name)
	if err != nil {
		return fmt.Errorf("failed to toggle %s alarm: %w", name, err)
	}

	state, ok, err := ctx.Alarms.Get(name)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("%s alarm is not set. Use '%s alarm set %s HH:MM' first.\n", name, constants.AppName, name)
		return nil
	}
	report(name, state.Time, state.Enabled, res)
	return nil
}

type AlarmTestCmd struct {
	Name string `arg:"" enum:"wake,sleep" default:"wake" help:"Alarm to test (wake or sleep)."`
}

func (c *AlarmTestCmd) Run(ctx *cli.Context) error {
	if err := ctx.Alarms.Test(constants.AlarmName(c.Name)); err != nil {
		return fmt.Errorf("test notification failed: %w", err)
	}
	fmt.Println("✓ Test notification sent")
	return nil
}

type AlarmRestoreCmd struct{}

func (c *AlarmRestoreCmd) Run(ctx *cli.Context) error {
	granted, err := ctx.Alarms.Initialize()
	if err != nil {
		return err
	}
	if !granted {
		return errors.New(alarm.ErrNoPermission)
	}
	fmt.Printf("✓ %d alarm(s) registered\n", len(ctx.Scheduler.Pending()))
	return nil
}

type AlarmCancelAllCmd struct{}

func (c *AlarmCancelAllCmd) Run(ctx *cli.Context) error {
	if err := ctx.Alarms.CancelAll(); err != nil {
		return err
	}
	fmt.Println("✓ All alarms cancelled")
	return nil
}
