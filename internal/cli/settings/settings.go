package settings

import (
	"fmt"
	"sort"

	"github.com/julianstephens/bodyclock/internal/cli"
	"github.com/julianstephens/bodyclock/internal/constants"
	"github.com/julianstephens/bodyclock/internal/models"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Theme            *string `help:"Color scheme (dark or light)." enum:"dark,light"`
	DefaultWakeTime  *string `help:"Default wake alarm time (HH:MM)."`
	DefaultSleepTime *string `help:"Default sleep alarm time (HH:MM)."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	if c.List {
		return listSettings(ctx)
	}

	updated := false
	if c.Theme != nil {
		if err := ctx.Theme.Set(constants.ThemeMode(*c.Theme)); err != nil {
			return err
		}
		updated = true
	}
	if c.DefaultWakeTime != nil {
		if err := saveDefaultTime(ctx, constants.SettingDefaultWakeTime, *c.DefaultWakeTime); err != nil {
			return err
		}
		updated = true
	}
	if c.DefaultSleepTime != nil {
		if err := saveDefaultTime(ctx, constants.SettingDefaultSleepTime, *c.DefaultSleepTime); err != nil {
			return err
		}
		updated = true
	}

	if updated {
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}
	return nil
}

func saveDefaultTime(ctx *cli.Context, key, value string) error {
	t, err := models.ParseAlarmTime(value)
	if err != nil {
		return err
	}
	encoded, err := models.EncodeAlarmTime(t)
	if err != nil {
		return err
	}
	if err := ctx.Store.SetSetting(key, encoded); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// defaultTime reads a stored default alarm time, formatted as HH:MM.
func defaultTime(settings map[string]string, key string) string {
	raw, ok := settings[key]
	if !ok {
		return "-"
	}
	t, err := models.DecodeAlarmTime(raw)
	if err != nil {
		return "invalid"
	}
	return t.String()
}

func listSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetAllSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	fmt.Println("Current Settings:")
	fmt.Printf("  Theme:              %s\n", ctx.Theme.Mode())
	fmt.Printf("  Default Wake Time:  %s\n", defaultTime(settings, constants.SettingDefaultWakeTime))
	fmt.Printf("  Default Sleep Time: %s\n", defaultTime(settings, constants.SettingDefaultSleepTime))
	fmt.Printf("  Last Reset Date:    %s\n", settings[constants.SettingLastResetDate])
	fmt.Printf("  App Version:        %s\n", settings[constants.SettingAppVersion])

	fmt.Println("\nAll Keys:")
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-32s %s\n", k, settings[k])
	}
	return nil
}
