// Package tui is the interactive dashboard: today's checklist, meals, the
// morning journal, the recipe box and alarms.
package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/bodyclock/internal/cli"
	"github.com/julianstephens/bodyclock/internal/constants"
	"github.com/julianstephens/bodyclock/internal/models"
	"github.com/julianstephens/bodyclock/internal/storage"
	"github.com/julianstephens/bodyclock/internal/tui/components/checklist"
	"github.com/julianstephens/bodyclock/internal/tui/components/journal"
	"github.com/julianstephens/bodyclock/internal/tui/components/recipebox"
	"github.com/julianstephens/bodyclock/internal/utils"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateMeals
	StateJournal
	StateRecipes
	StateAlarms
	StateNoteForm
)

// tabCount is the number of states reachable with tab.
const tabCount = int(StateAlarms) + 1

var tabTitles = []string{"Today", "Meals", "Journal", "Recipes", "Alarms"}

const (
	listSchedules = "schedules"
	listMeals     = "meals"
	listAlarms    = "alarms"
)

// refreshInterval is how often the dashboard checks for a new day and
// picks up changes made from the command line.
const refreshInterval = time.Minute

type tickMsg time.Time

// NoteFormModel backs the morning note form. It lives behind a pointer so
// huh keeps writing to the same fields as the Model is copied.
type NoteFormModel struct {
	Mood   string
	Sleep  int
	Energy int
	Notes  string
}

type Model struct {
	ctx      *cli.Context
	state    SessionState
	keys     KeyMap
	help     help.Model
	today    checklist.Model
	meals    checklist.Model
	alarms   checklist.Model
	journal  journal.Model
	recipes  recipebox.Model
	form     *huh.Form
	noteForm *NoteFormModel
	date     string
	status   string
	errMsg   string
	quitting bool
	width    int
	height   int
}

func NewModel(ctx *cli.Context) Model {
	m := Model{
		ctx:     ctx,
		state:   StateToday,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		today:   checklist.New(listSchedules, "Schedule", "No schedules yet. Add one with 'bodyclock schedule add'."),
		meals:   checklist.New(listMeals, "Meals", "No meals yet. Add one with 'bodyclock meal add'."),
		alarms:  checklist.New(listAlarms, "Alarms", ""),
		journal: journal.New(),
		recipes: recipebox.New(nil, 0, 0),
	}
	m.reload()
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// reload reads everything the tabs show for the current day. Failures are
// surfaced in the status line rather than aborting the program.
func (m *Model) reload() {
	m.date = m.ctx.Today()
	m.errMsg = ""
	if err := m.load(); err != nil {
		m.errMsg = err.Error()
	}
}

func (m *Model) load() error {
	store := m.ctx.Store

	items, err := store.TodayChecklist(m.date)
	if err != nil {
		return err
	}
	todayItems := make([]checklist.Item, len(items))
	for i, it := range items {
		todayItems[i] = checklist.Item{ID: it.Schedule.ID, Time: it.Schedule.Time, Label: it.Schedule.Name, Detail: it.Schedule.Description, Done: it.Done()}
	}
	m.today.SetItems(todayItems)

	meals, err := store.TodayMeals(m.date)
	if err != nil {
		return err
	}
	mealItems := make([]checklist.Item, len(meals))
	for i, meal := range meals {
		mealItems[i] = checklist.Item{ID: meal.ID, Time: meal.Time, Label: meal.Name, Detail: string(meal.Type), Done: meal.Completed}
	}
	m.meals.SetItems(mealItems)

	alarmItems := make([]checklist.Item, len(constants.Alarms))
	for i, name := range constants.Alarms {
		state, ok, err := m.ctx.Alarms.Get(name)
		if err != nil {
			return err
		}
		item := checklist.Item{ID: int64(i), Time: "--:--", Label: string(name), Detail: "not set"}
		if ok {
			item.Time = state.Time.String()
			item.Done = state.Enabled
			item.Detail = ""
		}
		alarmItems[i] = item
	}
	m.alarms.SetItems(alarmItems)

	var todayNote *models.MorningNote
	note, err := store.GetMorningNote(m.date)
	switch {
	case err == nil:
		todayNote = &note
	case !errors.Is(err, storage.ErrNotFound):
		return err
	}
	since, err := utils.ShiftDate(m.date, -(constants.WeeklyWindowDays - 1))
	if err != nil {
		return err
	}
	week, err := store.MorningNotesSince(since)
	if err != nil {
		return err
	}
	stats, err := store.WeeklyNoteStats(since)
	if err != nil {
		return err
	}
	m.journal.Set(todayNote, week, stats)

	if !m.recipes.Showing() && !m.recipes.Filtering() {
		recipes, err := store.ListRecipes(models.RecipeFilter{})
		if err != nil {
			return err
		}
		m.recipes.SetRecipes(recipes)
	}
	return nil
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateToday, StateMeals, StateAlarms:
		keys = append(keys, m.keys.Toggle)
	case StateJournal:
		keys = append(keys, m.keys.Add)
	case StateRecipes:
		keys = append(keys, m.keys.Archive)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Theme, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Toggle}

	var actions []key.Binding
	switch m.state {
	case StateJournal:
		actions = []key.Binding{m.keys.Add}
	case StateRecipes:
		actions = []key.Binding{m.keys.Archive}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m *Model) newNoteForm() *huh.Form {
	m.noteForm = &NoteFormModel{Mood: string(constants.MoodOkay), Sleep: 3, Energy: 3}

	moods := make([]huh.Option[string], 0, len(constants.Moods))
	for _, mood := range constants.Moods {
		moods = append(moods, huh.NewOption(string(mood), string(mood)))
	}
	ratings := make([]huh.Option[int], 0, constants.MaxRating)
	for v := constants.MaxRating; v >= constants.MinRating; v-- {
		ratings = append(ratings, huh.NewOption(fmt.Sprint(v), v))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("How are you feeling?").
				Options(moods...).
				Value(&m.noteForm.Mood),
			huh.NewSelect[int]().
				Title("How well did you sleep?").
				Options(ratings...).
				Value(&m.noteForm.Sleep),
			huh.NewSelect[int]().
				Title("Energy level").
				Options(ratings...).
				Value(&m.noteForm.Energy),
			huh.NewText().
				Title("Anything else?").
				Value(&m.noteForm.Notes),
		),
	)
}
