// Package journal renders today's morning note and the weekly averages.
package journal

import (
	"fmt"
	"strings"

	"github.com/julianstephens/bodyclock/internal/models"
	"github.com/julianstephens/bodyclock/internal/theme"
)

type Model struct {
	today *models.MorningNote
	week  []models.MorningNote
	stats models.NoteStats
}

func New() Model {
	return Model{}
}

// Set replaces the data shown. today is nil when no note exists yet.
func (m *Model) Set(today *models.MorningNote, week []models.MorningNote, stats models.NoteStats) {
	m.today = today
	m.week = week
	m.stats = stats
}

func (m Model) HasToday() bool {
	return m.today != nil
}

func (m Model) View(styles theme.Styles) string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Morning journal"))
	b.WriteString("\n\n")

	if m.today == nil {
		b.WriteString(styles.Warning.Render("No note yet today. Press 'a' to write one."))
	} else {
		fmt.Fprintf(&b, "Mood: %s   Sleep: %d/5   Energy: %d/5\n", m.today.Mood, m.today.SleepQuality, m.today.EnergyLevel)
		if m.today.Notes != "" {
			b.WriteString(styles.Muted.Render(m.today.Notes))
		}
	}
	b.WriteString("\n\n")

	b.WriteString(styles.Title.Render("Last 7 days"))
	b.WriteString("\n")
	if m.stats.Count == 0 {
		b.WriteString(styles.Muted.Render("No notes this week."))
		return b.String()
	}
	for _, n := range m.week {
		fmt.Fprintf(&b, "  %s  %-8s sleep %d  energy %d\n", n.Date, n.Mood, n.SleepQuality, n.EnergyLevel)
	}
	b.WriteString(styles.Muted.Render(fmt.Sprintf("avg sleep %.1f · avg energy %.1f · %d note(s)", m.stats.AvgSleepQuality, m.stats.AvgEnergyLevel, m.stats.Count)))
	return b.String()
}
