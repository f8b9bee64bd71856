// Package clitest builds command contexts over a temporary database.
package clitest

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/bodyclock/internal/cli"
	"github.com/julianstephens/bodyclock/internal/notifier"
	"github.com/julianstephens/bodyclock/internal/storage/sqlite"
	"github.com/julianstephens/bodyclock/internal/utils"
)

// Today is the date every test context is pinned to.
const Today = "2024-01-10"

// Recorder is a notification target that keeps what it is sent.
type Recorder struct {
	mu          sync.Mutex
	Messages    []notifier.Message
	Unavailable error
}

func (r *Recorder) Available() error { return r.Unavailable }

func (r *Recorder) Notify(_ context.Context, msg notifier.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, msg)
	return nil
}

func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Messages)
}

// NewContext initializes a SQLite store under t.TempDir and returns a
// started context whose clock reads 08:00 UTC on Today.
func NewContext(t testing.TB) (*cli.Context, *Recorder) {
	t.Helper()
	now, _ := time.Parse(time.RFC3339, Today+"T08:00:00Z")
	return NewContextWithClock(t, utils.FixedClock(now))
}

// NewContextWithClock is NewContext with a caller-controlled clock.
func NewContextWithClock(t testing.TB, clock utils.Clock) (*cli.Context, *Recorder) {
	t.Helper()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "bodyclock.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	rec := &Recorder{}
	ctx := cli.NewContext(store, clock, rec)
	if err := ctx.Start(); err != nil {
		t.Fatalf("failed to start context: %v", err)
	}
	return ctx, rec
}

// MovableClock returns a clock reading *now, so tests can advance time.
func MovableClock(now *time.Time) utils.Clock {
	return utils.Clock{Location: time.UTC, NowFunc: func() time.Time { return *now }}
}
