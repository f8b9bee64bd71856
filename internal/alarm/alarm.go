// Package alarm keeps the wake and sleep alarms registered with the
// notification scheduler. The settings store is the source of truth; the
// scheduler is reconciled against it on start and before every tick, so
// changes made by another process take effect.
package alarm

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/bodyclock/internal/constants"
	"github.com/julianstephens/bodyclock/internal/logger"
	"github.com/julianstephens/bodyclock/internal/models"
	"github.com/julianstephens/bodyclock/internal/scheduler"
)

const (
	PayloadType = "alarm"

	ErrNoPermission = "notification permission not granted"
)

// Store is the part of storage that holds alarm state.
type Store interface {
	GetSetting(key string) (string, bool, error)
	SetSetting(key, value string) error
}

// Result reports the outcome of a scheduling attempt. A missing permission
// is a failed Result, not an error.
type Result struct {
	Success        bool   `json:"success"`
	NotificationID string `json:"notification_id,omitempty"`
	Error          string `json:"error,omitempty"`
}

type Manager struct {
	store Store
	sched scheduler.Scheduler
}

func NewManager(store Store, sched scheduler.Scheduler) *Manager {
	return &Manager{store: store, sched: sched}
}

// ID returns the scheduler identifier for an alarm.
func ID(name constants.AlarmName) string {
	if name == constants.AlarmWake {
		return constants.WakeAlarmID
	}
	return constants.SleepAlarmID
}

// Message returns the notification title and body for an alarm at t.
func Message(name constants.AlarmName, t models.AlarmTime) (string, string) {
	if name == constants.AlarmWake {
		return "Time to wake up!", fmt.Sprintf("It's %s, let's start the day!", t)
	}
	return "Time to sleep", fmt.Sprintf("It's %s. Rest up for tomorrow.", t)
}

// TestMessage returns the title and body of a preview notification. It never
// reads like a real alarm.
func TestMessage(name constants.AlarmName) (string, string) {
	if name == constants.AlarmWake {
		return "Test: wake alarm", "This is a test of the wake alarm."
	}
	return "Test: sleep alarm", "This is a test of the sleep alarm."
}

// Set persists the alarm and registers or cancels its daily trigger.
// Hours and minutes are passed through as given.
func (m *Manager) Set(name constants.AlarmName, t models.AlarmTime, enabled bool) (Result, error) {
	if err := models.ValidateAlarmName(name); err != nil {
		return Result{}, err
	}

	encoded, err := models.EncodeAlarmTime(t)
	if err != nil {
		return Result{}, err
	}
	if err := m.store.SetSetting(constants.AlarmTimeKey(name), encoded); err != nil {
		return Result{}, fmt.Errorf("failed to save %s alarm time: %w", name, err)
	}
	if err := m.store.SetSetting(constants.AlarmEnabledKey(name), strconv.FormatBool(enabled)); err != nil {
		return Result{}, fmt.Errorf("failed to save %s alarm state: %w", name, err)
	}

	if !enabled {
		if err := m.sched.Cancel(ID(name)); err != nil {
			return Result{Success: false, Error: err.Error()}, nil
		}
		logger.Info("Alarm disabled", "alarm", name)
		return Result{Success: true}, nil
	}

	return m.schedule(name, t), nil
}

func (m *Manager) schedule(name constants.AlarmName, t models.AlarmTime) Result {
	if !m.sched.HasPermission() {
		logger.Warn("Cannot schedule alarm without notification permission", "alarm", name)
		return Result{Success: false, Error: ErrNoPermission}
	}

	id := ID(name)
	if err := m.sched.Cancel(id); err != nil {
		return Result{Success: false, Error: err.Error()}
	}

	title, body := Message(name, t)
	handle, err := m.sched.Schedule(scheduler.Request{
		ID:      id,
		Title:   title,
		Body:    body,
		Trigger: scheduler.Daily(t.Hours, t.Minutes),
		Payload: scheduler.Payload{Type: PayloadType, AlarmID: id},
	})
	if err != nil {
		logger.Warn("Failed to schedule alarm", "alarm", name, "error", err)
		return Result{Success: false, Error: err.Error()}
	}

	logger.Info("Alarm scheduled", "alarm", name, "time", t.String(), "handle", handle)
	return Result{Success: true, NotificationID: handle}
}

// Get returns the persisted alarm. ok is false when the alarm was never set.
func (m *Manager) Get(name constants.AlarmName) (models.AlarmState, bool, error) {
	if err := models.ValidateAlarmName(name); err != nil {
		return models.AlarmState{}, false, err
	}

	rawTime, ok, err := m.store.GetSetting(constants.AlarmTimeKey(name))
	if err != nil {
		return models.AlarmState{}, false, fmt.Errorf("failed to read %s alarm time: %w", name, err)
	}
	if !ok {
		return models.AlarmState{Name: name}, false, nil
	}
	t, err := models.DecodeAlarmTime(rawTime)
	if err != nil {
		return models.AlarmState{}, false, err
	}

	rawEnabled, _, err := m.store.GetSetting(constants.AlarmEnabledKey(name))
	if err != nil {
		return models.AlarmState{}, false, fmt.Errorf("failed to read %s alarm state: %w", name, err)
	}

	return models.AlarmState{Name: name, Time: t, Enabled: rawEnabled == "true"}, true, nil
}

// Toggle flips the enabled flag, keeping the time. An alarm that was never
// set is left alone.
func (m *Manager) Toggle(name constants.AlarmName) (Result, error) {
	state, ok, err := m.Get(name)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Success: false, Error: fmt.Sprintf("%s alarm is not set", name)}, nil
	}
	return m.Set(name, state.Time, !state.Enabled)
}

// Restore brings the scheduler in line with storage. Enabled alarms are
// registered at their stored time; registrations for disabled or unset
// alarms are dropped. Storage is not written.
func (m *Manager) Restore() error {
	pending := make(map[string]scheduler.Registration)
	for _, r := range m.sched.Pending() {
		pending[r.ID] = r
	}

	for _, name := range constants.Alarms {
		state, ok, err := m.Get(name)
		if err != nil {
			return err
		}
		id := ID(name)
		reg, registered := pending[id]

		if !ok || !state.Enabled {
			if registered {
				if err := m.sched.Cancel(id); err != nil {
					return fmt.Errorf("failed to cancel %s alarm: %w", name, err)
				}
				logger.Info("Dropped registration for disabled alarm", "alarm", name)
			}
			continue
		}

		if registered && reg.Trigger == scheduler.Daily(state.Time.Hours, state.Time.Minutes) {
			continue
		}
		if registered {
			// A stale time must not fire even if rescheduling fails below.
			if err := m.sched.Cancel(id); err != nil {
				return fmt.Errorf("failed to cancel %s alarm: %w", name, err)
			}
		}
		if !m.sched.HasPermission() {
			logger.Debug("Skipping alarm restore without notification permission", "alarm", name)
			continue
		}
		if res := m.schedule(name, state.Time); !res.Success {
			logger.Warn("Failed to restore alarm", "alarm", name, "error", res.Error)
		}
	}
	return nil
}

// CancelAll clears every registration and disables both alarms.
func (m *Manager) CancelAll() error {
	if err := m.sched.CancelAll(); err != nil {
		return fmt.Errorf("failed to cancel notifications: %w", err)
	}
	for _, name := range constants.Alarms {
		if err := m.store.SetSetting(constants.AlarmEnabledKey(name), "false"); err != nil {
			return fmt.Errorf("failed to disable %s alarm: %w", name, err)
		}
	}
	logger.Info("All alarms cancelled")
	return nil
}

// Test sends a preview of the alarm right away. Nothing is persisted or
// registered.
func (m *Manager) Test(name constants.AlarmName) error {
	if err := models.ValidateAlarmName(name); err != nil {
		return err
	}
	title, body := TestMessage(name)
	return m.sched.SendNow(title, body)
}

// Initialize restores alarms once notifications are permitted and reports
// whether they were.
func (m *Manager) Initialize() (bool, error) {
	if !m.sched.HasPermission() {
		logger.Warn("Notifications are not available; alarms were not restored")
		return false, nil
	}
	if err := m.Restore(); err != nil {
		return true, err
	}
	return true, nil
}

// HandleResponse routes a delivered wake alarm to the morning journal.
func (m *Manager) HandleResponse(p scheduler.Payload) {
	if p.Type != PayloadType || p.AlarmID != constants.WakeAlarmID {
		return
	}
	done, _, err := m.store.GetSetting(constants.SettingMorningNotesCompleted)
	if err != nil {
		logger.Warn("Failed to read morning note flag", "error", err)
		return
	}
	if done == constants.MorningNotesFlagDone {
		return
	}
	logger.Info("Routing wake alarm to morning journal")
	if err := m.sched.SendNow("Good morning", "How did you sleep? Run 'bodyclock note add' to log it."); err != nil {
		logger.Warn("Failed to send morning journal prompt", "error", err)
	}
}
