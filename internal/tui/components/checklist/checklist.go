// Package checklist renders a cursor-driven list of items that can be
// ticked off.
package checklist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/bodyclock/internal/theme"
)

// ToggleMsg asks the parent to flip the item with ID in the named list.
type ToggleMsg struct {
	List string
	ID   int64
}

type Item struct {
	ID     int64
	Time   string
	Label  string
	Detail string
	Done   bool
}

type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space", "enter"),
			key.WithHelp("space", "toggle"),
		),
	}
}

type Model struct {
	name   string
	title  string
	empty  string
	items  []Item
	cursor int
	keys   KeyMap
}

func New(name, title, empty string) Model {
	return Model{name: name, title: title, empty: empty, keys: DefaultKeyMap()}
}

// SetItems replaces the items, keeping the cursor in range.
func (m *Model) SetItems(items []Item) {
	m.items = items
	if m.cursor >= len(items) {
		m.cursor = len(items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) Items() []Item {
	return m.items
}

// Selected returns the item under the cursor.
func (m Model) Selected() (Item, bool) {
	if len(m.items) == 0 {
		return Item{}, false
	}
	return m.items[m.cursor], true
}

func (m Model) Completed() int {
	n := 0
	for _, it := range m.items {
		if it.Done {
			n++
		}
	}
	return n
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Toggle):
		if it, ok := m.Selected(); ok {
			return m, func() tea.Msg { return ToggleMsg{List: m.name, ID: it.ID} }
		}
	}
	return m, nil
}

func (m Model) View(styles theme.Styles) string {
	var b strings.Builder
	b.WriteString(styles.Title.Render(fmt.Sprintf("%s  %d/%d", m.title, m.Completed(), len(m.items))))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(styles.Muted.Render(m.empty))
		return b.String()
	}

	for i, it := range m.items {
		box := "[ ]"
		style := styles.Pending
		if it.Done {
			box = "[x]"
			style = styles.Done
		}
		cursor := "  "
		if i == m.cursor {
			cursor = styles.Selected.Render("> ")
		}
		line := fmt.Sprintf("%s %s  %s", box, it.Time, it.Label)
		b.WriteString(cursor + style.Render(line))
		if it.Detail != "" {
			b.WriteString("  " + styles.Muted.Render(it.Detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}
