package notes

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/bodyclock/internal/cli"
	"github.com/julianstephens/bodyclock/internal/constants"
	"github.com/julianstephens/bodyclock/internal/models"
	"github.com/julianstephens/bodyclock/internal/storage"
	"github.com/julianstephens/bodyclock/internal/utils"
)

type NoteCmd struct {
	Add   NoteAddCmd   `cmd:"" help:"Record this morning's mood, sleep and energy."`
	Today NoteTodayCmd `cmd:"" help:"Show today's morning note." default:"1"`
	Week  NoteWeekCmd  `cmd:"" help:"Show the last seven days of notes with averages."`
}

// NoteAddCmd saves the day's note. Without --mood an interactive form asks
// for every field.
type NoteAddCmd struct {
	Mood   string `short:"m" help:"Mood (great|good|okay|bad|terrible)."`
	Sleep  int    `short:"s" help:"Sleep quality from 1 to 5." default:"3"`
	Energy int    `short:"e" help:"Energy level from 1 to 5." default:"3"`
	Notes  string `short:"n" help:"Free-form notes."`
}

func (c *NoteAddCmd) Run(ctx *cli.Context) error {
	if c.Mood == "" {
		if err := c.prompt(); err != nil {
			return err
		}
	}

	_, err := ctx.Store.SaveMorningNote(ctx.Today(), models.NewMorningNote{
		Mood:         constants.Mood(c.Mood),
		SleepQuality: c.Sleep,
		EnergyLevel:  c.Energy,
		Notes:        c.Notes,
	})
	if err != nil {
		return fmt.Errorf("failed to save morning note: %w", err)
	}
	fmt.Printf("✓ Morning note saved for %s\n", ctx.Today())
	return nil
}

func ratingOptions() []huh.Option[int] {
	opts := make([]huh.Option[int], 0, constants.MaxRating)
	for v := constants.MaxRating; v >= constants.MinRating; v-- {
		opts = append(opts, huh.NewOption(strconv.Itoa(v), v))
	}
	return opts
}

func (c *NoteAddCmd) prompt() error {
	moods := make([]huh.Option[string], 0, len(constants.Moods))
	for _, m := range constants.Moods {
		moods = append(moods, huh.NewOption(string(m), string(m)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("How are you feeling?").
				Options(moods...).
				Value(&c.Mood),
			huh.NewSelect[int]().
				Title("How well did you sleep?").
				Options(ratingOptions()...).
				Value(&c.Sleep),
			huh.NewSelect[int]().
				Title("Energy level").
				Options(ratingOptions()...).
				Value(&c.Energy),
			huh.NewText().
				Title("Anything else?").
				Value(&c.Notes),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("morning note form error: %w", err)
	}
	return nil
}

type NoteTodayCmd struct{}

func (c *NoteTodayCmd) Run(ctx *cli.Context) error {
	note, err := ctx.Store.GetMorningNote(ctx.Today())
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Printf("No morning note yet for %s. Run '%s note add'.\n", ctx.Today(), constants.AppName)
		return nil
	}
	if err != nil {
		return err
	}
	printNote(note)
	return nil
}

func printNote(note models.MorningNote) {
	fmt.Printf("%s  mood: %-8s sleep: %d/5  energy: %d/5\n", note.Date, note.Mood, note.SleepQuality, note.EnergyLevel)
	if note.Notes != "" {
		fmt.Printf("            %s\n", note.Notes)
	}
}

type NoteWeekCmd struct{}

func (c *NoteWeekCmd) Run(ctx *cli.Context) error {
	since, err := utils.ShiftDate(ctx.Today(), -(constants.WeeklyWindowDays - 1))
	if err != nil {
		return err
	}
	notes, err := ctx.Store.MorningNotesSince(since)
	if err != nil {
		return err
	}
	stats, err := ctx.Store.WeeklyNoteStats(since)
	if err != nil {
		return err
	}

	if stats.Count == 0 {
		fmt.Println("No morning notes in the last seven days.")
		return nil
	}
	for _, note := range notes {
		printNote(note)
	}
	fmt.Printf("\n%d note(s), average sleep %.1f, average energy %.1f\n", stats.Count, stats.AvgSleepQuality, stats.AvgEnergyLevel)
	return nil
}
