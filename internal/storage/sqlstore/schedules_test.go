package sqlstore_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/bodyclock/internal/models"
	"github.com/julianstephens/bodyclock/internal/storage/sqlstore"
)

func TestScheduleCRUD(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	id, err := store.CreateSchedule(models.NewSchedule{Name: "Drink water", Time: "08:00", Icon: "water"})
	if err != nil {
		t.Fatalf("CreateSchedule failed: %v", err)
	}
	if _, err := store.CreateSchedule(models.NewSchedule{Name: "Stretch", Time: "06:30"}); err != nil {
		t.Fatalf("CreateSchedule failed: %v", err)
	}

	got, err := store.GetSchedule(id)
	if err != nil {
		t.Fatalf("GetSchedule failed: %v", err)
	}
	if got.Name != "Drink water" || got.Icon != "water" || !got.IsActive || got.Description != "" {
		t.Errorf("unexpected schedule: %+v", got)
	}

	active, err := store.ListActiveSchedules()
	if err != nil {
		t.Fatalf("ListActiveSchedules failed: %v", err)
	}
	if len(active) != 2 || active[0].Name != "Stretch" {
		t.Errorf("expected schedules ordered by time, got %+v", active)
	}

	if err := store.DeactivateSchedule(id); err != nil {
		t.Fatalf("DeactivateSchedule failed: %v", err)
	}
	active, _ = store.ListActiveSchedules()
	if len(active) != 1 {
		t.Errorf("expected 1 active schedule, got %d", len(active))
	}
	all, _ := store.ListSchedules(true)
	if len(all) != 2 {
		t.Errorf("expected 2 schedules including inactive, got %d", len(all))
	}

	if err := store.ActivateSchedule(id); err != nil {
		t.Fatalf("ActivateSchedule failed: %v", err)
	}
	if err := store.DeleteSchedule(id); err != nil {
		t.Fatalf("DeleteSchedule failed: %v", err)
	}
	if _, err := store.GetSchedule(id); !errors.Is(err, sqlstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCreateScheduleRejectsInvalidInput(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.CreateSchedule(models.NewSchedule{Name: "Nap", Time: "1pm"})
	if !errors.Is(err, sqlstore.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateSchedulePatch(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	store.SetNow(stepClock(time.Date(2024, 1, 10, 6, 0, 0, 0, time.UTC)))

	id, err := store.CreateSchedule(models.NewSchedule{Name: "Walk", Time: "17:00", Description: "around the block", Color: "#00ff00"})
	if err != nil {
		t.Fatalf("CreateSchedule failed: %v", err)
	}
	before, _ := store.GetSchedule(id)

	t.Run("empty patch only touches updated_at", func(t *testing.T) {
		if err := store.UpdateSchedule(id, models.SchedulePatch{}); err != nil {
			t.Fatalf("UpdateSchedule failed: %v", err)
		}
		after, _ := store.GetSchedule(id)
		if !after.UpdatedAt.After(before.UpdatedAt) {
			t.Errorf("updated_at not refreshed: %v -> %v", before.UpdatedAt, after.UpdatedAt)
		}
		after.UpdatedAt = before.UpdatedAt
		if after != before {
			t.Errorf("empty patch changed fields: %+v -> %+v", before, after)
		}
	})

	t.Run("present fields only", func(t *testing.T) {
		patch := models.SchedulePatch{
			Time:        models.Some("18:15"),
			Description: models.Some(""),
		}
		if err := store.UpdateSchedule(id, patch); err != nil {
			t.Fatalf("UpdateSchedule failed: %v", err)
		}
		after, _ := store.GetSchedule(id)
		if after.Time != "18:15" || after.Description != "" {
			t.Errorf("patch not applied: %+v", after)
		}
		if after.Name != "Walk" || after.Color != "#00ff00" {
			t.Errorf("absent fields changed: %+v", after)
		}
	})

	t.Run("missing row", func(t *testing.T) {
		err := store.UpdateSchedule(999, models.SchedulePatch{Name: models.Some("x")})
		if !errors.Is(err, sqlstore.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCreateOrGetDailyState(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	id, _ := store.CreateSchedule(models.NewSchedule{Name: "Meditate", Time: "07:00"})

	first, err := store.CreateOrGetDailyState(id, "2024-01-10")
	if err != nil {
		t.Fatalf("CreateOrGetDailyState failed: %v", err)
	}
	if first.Completed || first.CompletedAt != nil {
		t.Errorf("new state should be incomplete: %+v", first)
	}

	second, err := store.CreateOrGetDailyState(id, "2024-01-10")
	if err != nil {
		t.Fatalf("CreateOrGetDailyState failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected same row, got %d and %d", first.ID, second.ID)
	}

	states, _ := store.TodayStates("2024-01-10")
	if len(states) != 1 {
		t.Errorf("expected 1 state, got %d", len(states))
	}
}

func TestCreateOrGetDailyStateConcurrent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	id, _ := store.CreateSchedule(models.NewSchedule{Name: "Vitamins", Time: "09:00"})

	const workers = 8
	var wg sync.WaitGroup
	ids := make([]int64, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st, err := store.CreateOrGetDailyState(id, "2024-01-10")
			ids[i] = st.ID
			errs[i] = err
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("worker %d failed: %v", i, err)
		}
		if ids[i] != ids[0] {
			t.Errorf("worker %d got row %d, want %d", i, ids[i], ids[0])
		}
	}

	states, err := store.TodayStates("2024-01-10")
	if err != nil {
		t.Fatalf("TodayStates failed: %v", err)
	}
	if len(states) != 1 {
		t.Errorf("expected exactly one row, got %d", len(states))
	}
}

func TestMarkCompletedAndStats(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	a, _ := store.CreateSchedule(models.NewSchedule{Name: "A", Time: "06:00"})
	b, _ := store.CreateSchedule(models.NewSchedule{Name: "B", Time: "07:00"})
	sa, _ := store.CreateOrGetDailyState(a, "2024-01-10")
	if _, err := store.CreateOrGetDailyState(b, "2024-01-10"); err != nil {
		t.Fatalf("CreateOrGetDailyState failed: %v", err)
	}

	if err := store.MarkCompleted(sa.ID, "felt good"); err != nil {
		t.Fatalf("MarkCompleted failed: %v", err)
	}
	got, _ := store.GetDailyState(a, "2024-01-10")
	if !got.Completed || got.CompletedAt == nil || got.Notes != "felt good" {
		t.Errorf("unexpected completed state: %+v", got)
	}

	stats, err := store.DailyStats("2024-01-10")
	if err != nil {
		t.Fatalf("DailyStats failed: %v", err)
	}
	if stats.Total != 2 || stats.Completed != 1 {
		t.Errorf("DailyStats = %+v, want 2/1", stats)
	}

	if err := store.MarkUncompleted(sa.ID); err != nil {
		t.Fatalf("MarkUncompleted failed: %v", err)
	}
	got, _ = store.GetDailyState(a, "2024-01-10")
	if got.Completed || got.CompletedAt != nil || got.Notes != "" {
		t.Errorf("MarkUncompleted left data behind: %+v", got)
	}

	empty, _ := store.DailyStats("2023-01-01")
	if empty.Total != 0 || empty.Completed != 0 {
		t.Errorf("expected zero stats for empty day, got %+v", empty)
	}
}

func TestCleanupDailyStates(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	id, _ := store.CreateSchedule(models.NewSchedule{Name: "Read", Time: "21:00"})
	for _, date := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-10"} {
		if _, err := store.CreateOrGetDailyState(id, date); err != nil {
			t.Fatalf("CreateOrGetDailyState(%s) failed: %v", date, err)
		}
	}

	deleted, err := store.CleanupDailyStates("2024-01-03")
	if err != nil {
		t.Fatalf("CleanupDailyStates failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 rows deleted, got %d", deleted)
	}
	if _, err := store.GetDailyState(id, "2024-01-03"); err != nil {
		t.Errorf("cutoff date itself should be kept: %v", err)
	}
}

func TestDeleteScheduleCascadesDailyState(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	id, _ := store.CreateSchedule(models.NewSchedule{Name: "Journal", Time: "22:00"})
	if _, err := store.CreateOrGetDailyState(id, "2024-01-10"); err != nil {
		t.Fatalf("CreateOrGetDailyState failed: %v", err)
	}

	if err := store.DeleteSchedule(id); err != nil {
		t.Fatalf("DeleteSchedule failed: %v", err)
	}
	states, _ := store.TodayStates("2024-01-10")
	if len(states) != 0 {
		t.Errorf("expected daily state to cascade, got %d rows", len(states))
	}
}

func TestTodayChecklist(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	touched, _ := store.CreateSchedule(models.NewSchedule{Name: "Run", Time: "06:00"})
	if _, err := store.CreateSchedule(models.NewSchedule{Name: "Lunch walk", Time: "12:30"}); err != nil {
		t.Fatalf("CreateSchedule failed: %v", err)
	}
	hidden, _ := store.CreateSchedule(models.NewSchedule{Name: "Old habit", Time: "10:00"})
	_ = store.DeactivateSchedule(hidden)

	st, _ := store.CreateOrGetDailyState(touched, "2024-01-10")
	_ = store.MarkCompleted(st.ID, "")

	items, err := store.TodayChecklist("2024-01-10")
	if err != nil {
		t.Fatalf("TodayChecklist failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 active items, got %d", len(items))
	}
	if !items[0].Done() || items[0].State == nil {
		t.Errorf("first item should be done: %+v", items[0])
	}
	if items[1].State != nil || items[1].Done() {
		t.Errorf("second item should be untouched: %+v", items[1])
	}
}
