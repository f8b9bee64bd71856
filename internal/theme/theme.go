// Package theme owns the persisted color scheme. Set and Toggle are the
// only writers of the theme setting.
package theme

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/bodyclock/internal/constants"
	apperrors "github.com/julianstephens/bodyclock/internal/errors"
)

type Store interface {
	GetSetting(key string) (string, bool, error)
	SetSetting(key, value string) error
}

// Styles are the lipgloss styles rendered for one theme mode.
type Styles struct {
	Title    lipgloss.Style
	Tab      lipgloss.Style
	TabOff   lipgloss.Style
	Done     lipgloss.Style
	Pending  lipgloss.Style
	Muted    lipgloss.Style
	Danger   lipgloss.Style
	Warning  lipgloss.Style
	Selected lipgloss.Style
	Doc      lipgloss.Style
}

type Theme struct {
	mu    sync.RWMutex
	store Store
	mode  constants.ThemeMode
}

func New(store Store) *Theme {
	return &Theme{store: store, mode: constants.DefaultTheme}
}

func Validate(mode constants.ThemeMode) error {
	if mode != constants.ThemeDark && mode != constants.ThemeLight {
		return apperrors.Invalid("theme", "expected dark or light, got %q", mode)
	}
	return nil
}

// Load reads the persisted mode. Unknown or missing values fall back to
// the default.
func (t *Theme) Load() error {
	raw, ok, err := t.store.GetSetting(constants.SettingTheme)
	if err != nil {
		return fmt.Errorf("failed to load theme: %w", err)
	}

	mode := constants.DefaultTheme
	if ok && Validate(constants.ThemeMode(raw)) == nil {
		mode = constants.ThemeMode(raw)
	}

	t.mu.Lock()
	t.mode = mode
	t.mu.Unlock()
	return nil
}

func (t *Theme) Mode() constants.ThemeMode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode
}

func (t *Theme) Set(mode constants.ThemeMode) error {
	if err := Validate(mode); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.store.SetSetting(constants.SettingTheme, string(mode)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	t.mode = mode
	return nil
}

func (t *Theme) Toggle() (constants.ThemeMode, error) {
	next := constants.ThemeLight
	if t.Mode() == constants.ThemeLight {
		next = constants.ThemeDark
	}
	if err := t.Set(next); err != nil {
		return t.Mode(), err
	}
	return next, nil
}

func (t *Theme) Styles() Styles {
	if t.Mode() == constants.ThemeLight {
		return build("25", "252", "245", "28", "160", "130")
	}
	return build("205", "236", "240", "42", "196", "214")
}

func build(accent, surface, muted, ok, danger, warn string) Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Foreground(lipgloss.Color(accent)).Bold(true),
		Tab:      lipgloss.NewStyle().Foreground(lipgloss.Color(accent)).Background(lipgloss.Color(surface)).Padding(0, 1).Bold(true),
		TabOff:   lipgloss.NewStyle().Foreground(lipgloss.Color(muted)).Padding(0, 1),
		Done:     lipgloss.NewStyle().Foreground(lipgloss.Color(ok)),
		Pending:  lipgloss.NewStyle(),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color(muted)),
		Danger:   lipgloss.NewStyle().Foreground(lipgloss.Color(danger)).Bold(true),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color(warn)).Italic(true),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color(accent)).Bold(true),
		Doc:      lipgloss.NewStyle().Padding(1, 2),
	}
}
