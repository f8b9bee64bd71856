package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/bodyclock/internal/cli"
	"github.com/julianstephens/bodyclock/internal/cli/clitest"
	"github.com/julianstephens/bodyclock/internal/constants"
	"github.com/julianstephens/bodyclock/internal/models"
)

// send feeds msg through Update and then every message its command
// produces, stopping at commands that block (ticks) or quit.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	for cmd != nil {
		out := cmd()
		switch out.(type) {
		case nil, tea.QuitMsg:
			return m
		}
		next, cmd = m.Update(out)
		m = next.(Model)
	}
	return m
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func setupModel(t *testing.T) (Model, *cli.Context) {
	t.Helper()
	ctx, _ := clitest.NewContext(t)
	if _, err := ctx.Store.CreateSchedule(models.NewSchedule{Name: "Stretch", Time: "07:00"}); err != nil {
		t.Fatalf("failed to create schedule: %v", err)
	}
	if _, err := ctx.Store.CreateMeal(models.NewMeal{Name: "Oats", Type: constants.MealBreakfast, Time: "07:30"}); err != nil {
		t.Fatalf("failed to create meal: %v", err)
	}
	return NewModel(ctx), ctx
}

func TestTabNavigation(t *testing.T) {
	m, _ := setupModel(t)

	tests := []struct {
		msg  tea.KeyMsg
		want SessionState
	}{
		{tea.KeyMsg{Type: tea.KeyTab}, StateMeals},
		{tea.KeyMsg{Type: tea.KeyTab}, StateJournal},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, StateMeals},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, StateToday},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, StateAlarms},
	}
	for _, tt := range tests {
		m = send(t, m, tt.msg)
		if m.state != tt.want {
			t.Fatalf("after %s state = %d, want %d", tt.msg, m.state, tt.want)
		}
	}
}

func TestToggleScheduleItem(t *testing.T) {
	m, ctx := setupModel(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.errMsg != "" {
		t.Fatalf("unexpected error: %s", m.errMsg)
	}
	stats, err := ctx.Store.DailyStats(clitest.Today)
	if err != nil {
		t.Fatalf("failed to get stats: %v", err)
	}
	if stats.Completed != 1 {
		t.Errorf("completed = %d, want 1", stats.Completed)
	}
	if m.today.Completed() != 1 {
		t.Errorf("checklist should reload after toggling")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	stats, err = ctx.Store.DailyStats(clitest.Today)
	if err != nil {
		t.Fatalf("failed to get stats: %v", err)
	}
	if stats.Completed != 0 {
		t.Errorf("completed after second toggle = %d, want 0", stats.Completed)
	}
}

func TestToggleMeal(t *testing.T) {
	m, ctx := setupModel(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	stats, err := ctx.Store.MealStats(clitest.Today)
	if err != nil {
		t.Fatalf("failed to get stats: %v", err)
	}
	if stats.Percentage != 100 || m.mealPercentage() != 100 {
		t.Errorf("meal percentage = %d (view %d), want 100", stats.Percentage, m.mealPercentage())
	}
}

func TestToggleAlarm(t *testing.T) {
	m, ctx := setupModel(t)
	if _, err := ctx.Alarms.Set(constants.AlarmWake, models.AlarmTime{Hours: 6}, false); err != nil {
		t.Fatalf("failed to set alarm: %v", err)
	}
	m.reload()

	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	state, _, err := ctx.Alarms.Get(constants.AlarmWake)
	if err != nil {
		t.Fatalf("Get() = %v", err)
	}
	if !state.Enabled {
		t.Error("wake alarm should be enabled after toggling from the dashboard")
	}
	if len(ctx.Scheduler.Pending()) != 1 {
		t.Errorf("pending = %d, want 1", len(ctx.Scheduler.Pending()))
	}
}

func TestThemeToggle(t *testing.T) {
	m, ctx := setupModel(t)

	m = send(t, m, keyRune('T'))
	if ctx.Theme.Mode() != constants.ThemeLight {
		t.Errorf("theme = %s, want light", ctx.Theme.Mode())
	}
	if m.View() == "" {
		t.Error("view should render")
	}
}

func TestSaveNote(t *testing.T) {
	m, ctx := setupModel(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.journal.HasToday() {
		t.Fatal("no note expected yet")
	}

	m.form = m.newNoteForm()
	m.noteForm.Mood = string(constants.MoodGreat)
	m.noteForm.Sleep = 5
	if err := m.saveNote(); err != nil {
		t.Fatalf("saveNote() = %v", err)
	}
	m.reload()

	note, err := ctx.Store.GetMorningNote(clitest.Today)
	if err != nil {
		t.Fatalf("GetMorningNote() = %v", err)
	}
	if note.Mood != constants.MoodGreat || note.SleepQuality != 5 || note.EnergyLevel != 3 {
		t.Errorf("note = %+v", note)
	}
	if !m.journal.HasToday() {
		t.Error("journal should show today's note after reload")
	}
}

func TestQuit(t *testing.T) {
	m, _ := setupModel(t)
	m = send(t, m, keyRune('q'))
	if !m.quitting || m.View() != "" {
		t.Error("q should quit")
	}
}
