// Package scheduler keeps named notification triggers and delivers them
// when they come due.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/bodyclock/internal/constants"
	"github.com/julianstephens/bodyclock/internal/logger"
	"github.com/julianstephens/bodyclock/internal/notifier"
	"github.com/julianstephens/bodyclock/internal/utils"
)

var ErrMissingID = errors.New("registration identifier is required")

type TriggerKind string

const (
	TriggerDaily   TriggerKind = "daily"
	TriggerOneShot TriggerKind = "one_shot"
)

// Trigger says when a registration fires. Daily triggers repeat at
// Hour:Minute; one-shot triggers fire once after Seconds.
type Trigger struct {
	Kind    TriggerKind
	Hour    int
	Minute  int
	Seconds int
}

func Daily(hour, minute int) Trigger {
	return Trigger{Kind: TriggerDaily, Hour: hour, Minute: minute}
}

// After returns a one-shot trigger. Anything below one second is raised to one.
func After(seconds int) Trigger {
	if seconds < 1 {
		seconds = 1
	}
	return Trigger{Kind: TriggerOneShot, Seconds: seconds}
}

// Payload is handed to response handlers when a registration is delivered.
type Payload struct {
	Type    string `json:"type"`
	AlarmID string `json:"alarmId"`
}

type Request struct {
	ID      string
	Title   string
	Body    string
	Trigger Trigger
	Payload Payload
}

// Registration is a pending trigger. Handle changes every time the
// identifier is scheduled again.
type Registration struct {
	Request
	Handle   string
	NextFire time.Time
}

// Scheduler is the notification scheduler the alarm manager drives.
type Scheduler interface {
	Schedule(req Request) (string, error)
	Cancel(id string) error
	CancelAll() error
	HasPermission() bool
	SendNow(title, body string) error
	Pending() []Registration
	OnResponse(handler func(Payload))
}

// Deliverer shows a notification to the user.
type Deliverer interface {
	Available() error
	Notify(ctx context.Context, msg notifier.Message) error
}

type Option func(*Local)

func WithNow(now func() time.Time) Option {
	return func(l *Local) { l.now = now }
}

func WithTickInterval(d time.Duration) Option {
	return func(l *Local) { l.interval = d }
}

// Local is an in-process Scheduler. Registrations live in memory; the
// settings store stays the source of truth and alarms are restored from it
// on start.
type Local struct {
	mu       sync.Mutex
	regs     map[string]*Registration
	handlers []func(Payload)
	before   []func()
	deliver  Deliverer
	now      func() time.Time
	interval time.Duration
}

var _ Scheduler = (*Local)(nil)

func NewLocal(deliver Deliverer, opts ...Option) *Local {
	l := &Local{
		regs:     make(map[string]*Registration),
		deliver:  deliver,
		now:      time.Now,
		interval: constants.SchedulerTickInterval,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Schedule registers req under req.ID, replacing any registration with the
// same identifier, and returns the new handle.
func (l *Local) Schedule(req Request) (string, error) {
	if req.ID == "" {
		return "", ErrMissingID
	}

	var next time.Time
	now := l.now()
	switch req.Trigger.Kind {
	case TriggerDaily:
		if req.Trigger.Hour < 0 || req.Trigger.Minute < 0 {
			return "", fmt.Errorf("invalid daily trigger %02d:%02d", req.Trigger.Hour, req.Trigger.Minute)
		}
		next = utils.NextOccurrence(now, req.Trigger.Hour, req.Trigger.Minute)
	case TriggerOneShot:
		req.Trigger = After(req.Trigger.Seconds)
		next = now.Add(time.Duration(req.Trigger.Seconds) * time.Second)
	default:
		return "", fmt.Errorf("unknown trigger kind %q", req.Trigger.Kind)
	}

	reg := &Registration{Request: req, Handle: uuid.NewString(), NextFire: next}

	l.mu.Lock()
	l.regs[req.ID] = reg
	l.mu.Unlock()

	logger.Debug("Scheduled notification", "id", req.ID, "handle", reg.Handle, "next_fire", next.Format(time.RFC3339))
	return reg.Handle, nil
}

// Cancel removes the registration for id. Unknown identifiers are ignored.
func (l *Local) Cancel(id string) error {
	l.mu.Lock()
	delete(l.regs, id)
	l.mu.Unlock()
	return nil
}

func (l *Local) CancelAll() error {
	l.mu.Lock()
	l.regs = make(map[string]*Registration)
	l.mu.Unlock()
	return nil
}

func (l *Local) HasPermission() bool {
	if err := l.deliver.Available(); err != nil {
		logger.Debug("Notifications unavailable", "error", err)
		return false
	}
	return true
}

// SendNow delivers a notification immediately without registering it.
func (l *Local) SendNow(title, body string) error {
	return l.deliver.Notify(context.Background(), notifier.Message{Title: title, Body: body})
}

// Pending returns a snapshot of the registrations ordered by next fire time.
func (l *Local) Pending() []Registration {
	l.mu.Lock()
	out := make([]Registration, 0, len(l.regs))
	for _, r := range l.regs {
		out = append(out, *r)
	}
	l.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].NextFire.Equal(out[j].NextFire) {
			return out[i].ID < out[j].ID
		}
		return out[i].NextFire.Before(out[j].NextFire)
	})
	return out
}

func (l *Local) OnResponse(handler func(Payload)) {
	l.mu.Lock()
	l.handlers = append(l.handlers, handler)
	l.mu.Unlock()
}

// BeforeTick registers fn to run at the start of every Tick, ahead of
// delivery. Hooks may schedule and cancel registrations.
func (l *Local) BeforeTick(fn func()) {
	l.mu.Lock()
	l.before = append(l.before, fn)
	l.mu.Unlock()
}

// Tick runs the BeforeTick hooks, then delivers every registration due at
// the current time, re-arms daily triggers, drops one-shots and returns how
// many were delivered.
func (l *Local) Tick(ctx context.Context) int {
	l.mu.Lock()
	before := append([]func(){}, l.before...)
	l.mu.Unlock()
	for _, fn := range before {
		fn()
	}

	now := l.now()

	l.mu.Lock()
	var due []Registration
	for id, r := range l.regs {
		if r.NextFire.After(now) {
			continue
		}
		due = append(due, *r)
		if r.Trigger.Kind == TriggerDaily {
			r.NextFire = utils.NextOccurrence(now, r.Trigger.Hour, r.Trigger.Minute)
		} else {
			delete(l.regs, id)
		}
	}
	handlers := append([]func(Payload){}, l.handlers...)
	l.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].ID < due[j].ID })
	delivered := 0
	for _, r := range due {
		msg := notifier.Message{Title: r.Title, Body: r.Body, Kind: r.Payload.Type, AlarmID: r.Payload.AlarmID}
		if err := l.deliver.Notify(ctx, msg); err != nil {
			logger.Warn("Failed to deliver notification", "id", r.ID, "error", err)
			continue
		}
		logger.Info("Delivered notification", "id", r.ID)
		delivered++
		for _, h := range handlers {
			h(r.Payload)
		}
	}
	return delivered
}

// Run ticks until ctx is cancelled.
func (l *Local) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Tick(ctx)
		}
	}
}
