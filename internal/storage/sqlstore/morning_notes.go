package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/julianstephens/bodyclock/internal/constants"
	"github.com/julianstephens/bodyclock/internal/models"
)

const morningNoteColumns = "id, date, mood, sleep_quality, energy_level, notes, completed_at"

func scanMorningNote(row rowScanner) (models.MorningNote, error) {
	var (
		n           models.MorningNote
		mood        string
		notes       sql.NullString
		completedAt string
	)
	if err := row.Scan(&n.ID, &n.Date, &mood, &n.SleepQuality, &n.EnergyLevel, &notes, &completedAt); err != nil {
		return models.MorningNote{}, err
	}
	n.Mood = constants.Mood(mood)
	n.Notes = notes.String

	var err error
	if n.CompletedAt, err = parseTimestamp(completedAt); err != nil {
		return models.MorningNote{}, err
	}
	return n, nil
}

func (s *Store) GetMorningNote(date string) (models.MorningNote, error) {
	n, err := scanMorningNote(s.queryRow("SELECT "+morningNoteColumns+" FROM morning_notes WHERE date = ?", date))
	if errors.Is(err, sql.ErrNoRows) {
		return models.MorningNote{}, fmt.Errorf("morning note for %s: %w", date, ErrNotFound)
	}
	if err != nil {
		return models.MorningNote{}, fmt.Errorf("failed to get morning note: %w", err)
	}
	return n, nil
}

func (s *Store) IsMorningNoteCompleted(date string) (bool, error) {
	var count int
	if err := s.queryRow("SELECT COUNT(*) FROM morning_notes WHERE date = ?", date).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check morning note: %w", err)
	}
	return count > 0, nil
}

// SaveMorningNote records the note for date. An existing note on that date
// is updated in place; a first save also raises the completed-today flag.
func (s *Store) SaveMorningNote(date string, in models.NewMorningNote) (int64, error) {
	if err := in.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	existing, err := s.GetMorningNote(date)
	if err == nil {
		patch := models.MorningNotePatch{
			Mood:         models.Some(in.Mood),
			SleepQuality: models.Some(in.SleepQuality),
			EnergyLevel:  models.Some(in.EnergyLevel),
			Notes:        models.Some(in.Notes),
		}
		if err := s.UpdateMorningNote(existing.ID, patch); err != nil {
			return 0, err
		}
		return existing.ID, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return 0, err
	}

	id, err := s.insert(`
		INSERT INTO morning_notes (date, mood, sleep_quality, energy_level, notes, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		date, string(in.Mood), in.SleepQuality, in.EnergyLevel, nullString(in.Notes), s.timestamp())
	if err != nil {
		return 0, fmt.Errorf("failed to create morning note: %w", err)
	}

	if err := s.SetSetting(constants.SettingMorningNotesCompleted, constants.MorningNotesFlagDone); err != nil {
		return id, err
	}
	return id, nil
}

// UpdateMorningNote writes the present patch fields and refreshes completed_at.
func (s *Store) UpdateMorningNote(id int64, patch models.MorningNotePatch) error {
	if err := patch.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	b := newUpdate("morning_notes")
	if m, ok := patch.Mood.Get(); ok {
		b.set("mood", string(m))
	}
	setOptional(b, "sleep_quality", patch.SleepQuality)
	setOptional(b, "energy_level", patch.EnergyLevel)
	setNullable(b, "notes", patch.Notes)
	b.set("completed_at", s.timestamp())

	query, args := b.build("id = ?", id)
	res, err := s.exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update morning note: %w", err)
	}
	return expectAffected(res, "morning note", id)
}

// MorningNotesSince returns notes dated on or after since, newest first.
func (s *Store) MorningNotesSince(since string) ([]models.MorningNote, error) {
	rows, err := s.query("SELECT "+morningNoteColumns+" FROM morning_notes WHERE date >= ? ORDER BY date DESC", since)
	if err != nil {
		return nil, fmt.Errorf("failed to list morning notes: %w", err)
	}
	defer rows.Close()

	var notes []models.MorningNote
	for rows.Next() {
		n, err := scanMorningNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan morning note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// WeeklyNoteStats averages ratings of notes dated on or after since,
// rounded to one decimal place.
func (s *Store) WeeklyNoteStats(since string) (models.NoteStats, error) {
	var (
		avgSleep, avgEnergy sql.NullFloat64
		stats               models.NoteStats
	)
	err := s.queryRow(`
		SELECT AVG(sleep_quality), AVG(energy_level), COUNT(*)
		FROM morning_notes WHERE date >= ?`, since).Scan(&avgSleep, &avgEnergy, &stats.Count)
	if err != nil {
		return models.NoteStats{}, fmt.Errorf("failed to compute note stats: %w", err)
	}
	stats.AvgSleepQuality = math.Round(avgSleep.Float64*10) / 10
	stats.AvgEnergyLevel = math.Round(avgEnergy.Float64*10) / 10
	return stats, nil
}

func (s *Store) CleanupMorningNotes(before string) (int64, error) {
	res, err := s.exec("DELETE FROM morning_notes WHERE date < ?", before)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up morning notes: %w", err)
	}
	return res.RowsAffected()
}
