// Package recipebox lists recipes with filtering and a detail pane.
package recipebox

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/bodyclock/internal/models"
	"github.com/julianstephens/bodyclock/internal/theme"
)

// ArchiveMsg asks the parent to archive the recipe with ID.
type ArchiveMsg struct {
	ID int64
}

type Item struct {
	Recipe models.Recipe
}

func (i Item) Title() string { return i.Recipe.Title }

func (i Item) Description() string {
	desc := string(i.Recipe.Category)
	for _, t := range i.Recipe.Tags {
		desc += " #" + string(t)
	}
	return desc
}

func (i Item) FilterValue() string {
	return i.Recipe.Title + " " + strings.Join(i.Recipe.Ingredients, " ")
}

type KeyMap struct {
	Show    key.Binding
	Back    key.Binding
	Archive key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Show: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "show"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Archive: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "archive"),
		),
	}
}

type Model struct {
	list    list.Model
	detail  viewport.Model
	showing bool
	keys    KeyMap
}

func New(recipes []models.Recipe, width, height int) Model {
	l := list.New(items(recipes), list.NewDefaultDelegate(), width, height)
	l.Title = "Recipes"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Show, keys.Archive}
	}

	return Model{list: l, detail: viewport.New(width, height), keys: keys}
}

func items(recipes []models.Recipe) []list.Item {
	out := make([]list.Item, len(recipes))
	for i, r := range recipes {
		out[i] = Item{Recipe: r}
	}
	return out
}

func (m *Model) SetRecipes(recipes []models.Recipe) {
	m.list.SetItems(items(recipes))
	m.showing = false
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
	m.detail.Width = width
	m.detail.Height = height
}

// Showing reports whether the detail pane is open.
func (m Model) Showing() bool {
	return m.showing
}

// Filtering reports whether the list is capturing keys for its filter.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.Filtering() {
		if m.showing {
			if key.Matches(keyMsg, m.keys.Back, m.keys.Show) {
				m.showing = false
				return m, nil
			}
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(keyMsg, m.keys.Show):
			if it, ok := m.list.SelectedItem().(Item); ok {
				m.detail.SetContent(Detail(it.Recipe))
				m.detail.GotoTop()
				m.showing = true
			}
			return m, nil
		case key.Matches(keyMsg, m.keys.Archive):
			if it, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return ArchiveMsg{ID: it.Recipe.ID} }
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// Detail renders the full recipe.
func Detail(r models.Recipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", r.Title, r.Category)
	if len(r.Ingredients) > 0 {
		b.WriteString("\nIngredients\n")
		for _, ing := range r.Ingredients {
			fmt.Fprintf(&b, "  - %s\n", ing)
		}
	}
	if len(r.Steps) > 0 {
		b.WriteString("\nSteps\n")
		for i, step := range r.Steps {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, step)
		}
	}
	if r.Notes != "" {
		fmt.Fprintf(&b, "\n%s\n", r.Notes)
	}
	return b.String()
}

func (m Model) View(styles theme.Styles) string {
	if m.showing {
		return m.detail.View() + "\n" + styles.Muted.Render("esc back")
	}
	if len(m.list.Items()) == 0 {
		return styles.Muted.Render("No recipes yet. Add one with 'bodyclock recipe add'.")
	}
	return m.list.View()
}
