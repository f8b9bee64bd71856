package settings

import (
	"testing"

	"github.com/julianstephens/bodyclock/internal/cli/clitest"
	"github.com/julianstephens/bodyclock/internal/constants"
)

func strPtr(s string) *string { return &s }

func TestSettingsCmd_List(t *testing.T) {
	ctx, _ := clitest.NewContext(t)

	if err := (&SettingsCmd{List: true}).Run(ctx); err != nil {
		t.Errorf("SettingsCmd.Run() with List failed: %v", err)
	}
}

func TestSettingsCmd_UpdateTheme(t *testing.T) {
	ctx, _ := clitest.NewContext(t)

	if err := (&SettingsCmd{Theme: strPtr("light")}).Run(ctx); err != nil {
		t.Fatalf("SettingsCmd.Run() failed: %v", err)
	}
	if ctx.Theme.Mode() != constants.ThemeLight {
		t.Errorf("theme mode = %q, want light", ctx.Theme.Mode())
	}
	stored, _, err := ctx.Store.GetSetting(constants.SettingTheme)
	if err != nil || stored != string(constants.ThemeLight) {
		t.Errorf("stored theme = %q (%v), want light", stored, err)
	}
}

func TestSettingsCmd_UpdateDefaultTimes(t *testing.T) {
	tests := []struct {
		name      string
		cmd       SettingsCmd
		key       string
		want      string
		wantError bool
	}{
		{
			name: "wake time",
			cmd:  SettingsCmd{DefaultWakeTime: strPtr("05:45")},
			key:  constants.SettingDefaultWakeTime,
			want: `{"hours":5,"minutes":45}`,
		},
		{
			name: "sleep time",
			cmd:  SettingsCmd{DefaultSleepTime: strPtr("23:10")},
			key:  constants.SettingDefaultSleepTime,
			want: `{"hours":23,"minutes":10}`,
		},
		{
			name:      "invalid time is rejected",
			cmd:       SettingsCmd{DefaultWakeTime: strPtr("25:00")},
			key:       constants.SettingDefaultWakeTime,
			want:      constants.DefaultWakeTimeJSON,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := clitest.NewContext(t)

			err := tt.cmd.Run(ctx)
			if (err != nil) != tt.wantError {
				t.Fatalf("SettingsCmd.Run() error = %v, wantError %v", err, tt.wantError)
			}
			got, _, err := ctx.Store.GetSetting(tt.key)
			if err != nil {
				t.Fatalf("failed to read %s: %v", tt.key, err)
			}
			if got != tt.want {
				t.Errorf("%s = %s, want %s", tt.key, got, tt.want)
			}
		})
	}
}
