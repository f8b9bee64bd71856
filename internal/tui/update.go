package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/bodyclock/internal/constants"
	"github.com/julianstephens/bodyclock/internal/logger"
	"github.com/julianstephens/bodyclock/internal/models"
	"github.com/julianstephens/bodyclock/internal/tui/components/checklist"
	"github.com/julianstephens/bodyclock/internal/tui/components/recipebox"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.recipes.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tickMsg:
		ran, err := m.ctx.Rollover.Check()
		if err != nil {
			logger.Error("Daily rollover failed", "error", err)
			m.errMsg = err.Error()
			return m, tick()
		}
		if ran {
			m.status = "A new day has started"
		}
		m.reload()
		return m, tick()

	case checklist.ToggleMsg:
		if err := m.toggle(msg); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.reload()
		return m, nil

	case recipebox.ArchiveMsg:
		if err := m.ctx.Store.ArchiveRecipe(msg.ID); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.status = "Recipe archived"
		m.reload()
		return m, nil
	}

	if m.state == StateNoteForm {
		return m.updateNoteForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		capturing := m.state == StateRecipes && m.recipes.Filtering()
		if !capturing {
			switch {
			case key.Matches(keyMsg, m.keys.Quit):
				m.quitting = true
				return m, tea.Quit
			case key.Matches(keyMsg, m.keys.Tab):
				m.state = SessionState((int(m.state) + 1) % tabCount)
				return m, nil
			case key.Matches(keyMsg, m.keys.ShiftTab):
				m.state = SessionState((int(m.state) + tabCount - 1) % tabCount)
				return m, nil
			case key.Matches(keyMsg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
				return m, nil
			case key.Matches(keyMsg, m.keys.Theme):
				mode, err := m.ctx.Theme.Toggle()
				if err != nil {
					m.errMsg = err.Error()
				} else {
					m.status = fmt.Sprintf("Theme: %s", mode)
				}
				return m, nil
			case key.Matches(keyMsg, m.keys.Refresh):
				m.reload()
				return m, nil
			case m.state == StateJournal && key.Matches(keyMsg, m.keys.Add):
				m.form = m.newNoteForm()
				m.state = StateNoteForm
				return m, m.form.Init()
			}
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateToday:
		m.today, cmd = m.today.Update(msg)
	case StateMeals:
		m.meals, cmd = m.meals.Update(msg)
	case StateAlarms:
		m.alarms, cmd = m.alarms.Update(msg)
	case StateRecipes:
		m.recipes, cmd = m.recipes.Update(msg)
	}
	return m, cmd
}

func (m Model) updateNoteForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.state = StateJournal
		m.form = nil
		return m, nil
	case huh.StateCompleted:
		m.state = StateJournal
		m.form = nil
		if err := m.saveNote(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.status = "Morning note saved"
		m.reload()
		return m, nil
	}
	return m, cmd
}

func (m *Model) saveNote() error {
	_, err := m.ctx.Store.SaveMorningNote(m.date, models.NewMorningNote{
		Mood:         constants.Mood(m.noteForm.Mood),
		SleepQuality: m.noteForm.Sleep,
		EnergyLevel:  m.noteForm.Energy,
		Notes:        m.noteForm.Notes,
	})
	return err
}

func (m *Model) toggle(msg checklist.ToggleMsg) error {
	store := m.ctx.Store
	switch msg.List {
	case listSchedules:
		state, err := store.CreateOrGetDailyState(msg.ID, m.date)
		if err != nil {
			return err
		}
		if state.Completed {
			return store.MarkUncompleted(state.ID)
		}
		return store.MarkCompleted(state.ID, state.Notes)

	case listMeals:
		_, err := store.ToggleMeal(msg.ID, m.date)
		return err

	case listAlarms:
		if msg.ID < 0 || int(msg.ID) >= len(constants.Alarms) {
			return nil
		}
		res, err := m.ctx.Alarms.Toggle(constants.Alarms[msg.ID])
		if err != nil {
			return err
		}
		if !res.Success && res.Error != "" {
			m.status = res.Error
		}
	}
	return nil
}
