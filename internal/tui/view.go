package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	styles := m.ctx.Theme.Styles()

	var content string
	switch m.state {
	case StateToday:
		content = m.today.View(styles)
	case StateMeals:
		content = m.meals.View(styles) + "\n" + styles.Muted.Render(fmt.Sprintf("%d%% eaten", m.mealPercentage()))
	case StateJournal:
		content = m.journal.View(styles)
	case StateRecipes:
		content = m.recipes.View(styles)
	case StateAlarms:
		content = m.alarms.View(styles) + "\n" + styles.Muted.Render("Alarms fire while the dashboard or 'bodyclock run' is open.")
	case StateNoteForm:
		content = m.form.View()
	}

	var status string
	switch {
	case m.errMsg != "":
		status = styles.Danger.Render(m.errMsg)
	case m.status != "":
		status = styles.Warning.Render(m.status)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		styles.Doc.Render(content),
		status,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	styles := m.ctx.Theme.Styles()
	active := m.state
	if active == StateNoteForm {
		active = StateJournal
	}

	tabs := make([]string, 0, len(tabTitles)+1)
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs = append(tabs, styles.Tab.Render(title))
		} else {
			tabs = append(tabs, styles.TabOff.Render(title))
		}
	}
	tabs = append(tabs, styles.Muted.Render(m.date))
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) mealPercentage() int {
	items := m.meals.Items()
	if len(items) == 0 {
		return 0
	}
	return int(float64(m.meals.Completed())/float64(len(items))*100 + 0.5)
}
