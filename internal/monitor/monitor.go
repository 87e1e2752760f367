package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/agrovision/dashboard-go/internal/models"
)

// DefaultInterval is the retrain status refresh cadence.
const DefaultInterval = 20 * time.Second

// ErrAlreadyStarted is returned by Start on a monitor that was started before.
var ErrAlreadyStarted = errors.New("monitor already started")

// Fetcher loads the current retrain status.
type Fetcher interface {
	RetrainStatus(ctx context.Context) (*models.RetrainStatus, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) (*models.RetrainStatus, error)

// RetrainStatus calls f.
func (f FetcherFunc) RetrainStatus(ctx context.Context) (*models.RetrainStatus, error) {
	return f(ctx)
}

// Snapshot is a copy of the monitor state.
type Snapshot struct {
	models.RetrainStatus
	Loading   bool      `json:"loading"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at,omitempty"`
	Seq       uint64    `json:"seq"`
}

// ChangeFunc is called after the status kind or raw text changes.
type ChangeFunc func(prev, next Snapshot)

// Option configures a Monitor.
type Option func(*Monitor)

// WithInterval sets the polling interval. Intervals under a second are
// rounded up to one second by the scheduler.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

// Monitor polls the retrain status on a fixed interval. It is owned by the
// component that created it and keeps polling until Stop is called.
type Monitor struct {
	fetcher  Fetcher
	interval time.Duration
	now      func() time.Time

	mu        sync.Mutex
	state     Snapshot
	nextSeq   uint64
	applied   uint64
	inflight  int
	started   bool
	released  bool
	scheduler *cron.Cron
	listeners []ChangeFunc
}

// New creates a monitor in the checking state. Nothing is fetched until Start.
func New(fetcher Fetcher, opts ...Option) *Monitor {
	m := &Monitor{
		fetcher:  fetcher,
		interval: DefaultInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.state.Kind = models.StatusChecking
	return m
}

// OnChange registers a listener for status changes.
func (m *Monitor) OnChange(fn ChangeFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Interval returns the polling interval.
func (m *Monitor) Interval() time.Duration {
	return m.interval
}

// Start issues an immediate fetch and schedules the following ones. ctx is
// used for every fetch; Stop does not cancel it.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.started = true

	logger := cron.PrintfLogger(log.Default())
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", m.interval), func() { m.Poll(ctx) }); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("failed to schedule retrain status poll: %w", err)
	}
	m.scheduler = c
	m.mu.Unlock()

	log.Printf("[monitor] polling retrain status every %s", m.interval)
	go m.Poll(ctx)
	c.Start()
	return nil
}

// Stop releases the monitor. No further fetches are scheduled and the
// result of a fetch still in flight is dropped.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		return
	}
	m.released = true
	c := m.scheduler
	m.mu.Unlock()

	if c != nil {
		c.Stop()
	}
	log.Println("[monitor] stopped")
}

// Snapshot returns the current state.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Poll performs one fetch and applies its outcome unless the monitor has been
// released or a newer fetch has already been applied.
func (m *Monitor) Poll(ctx context.Context) Snapshot {
	m.mu.Lock()
	if m.released {
		snap := m.snapshotLocked()
		m.mu.Unlock()
		return snap
	}
	m.nextSeq++
	seq := m.nextSeq
	m.inflight++
	m.mu.Unlock()

	status, err := m.fetcher.RetrainStatus(ctx)

	m.mu.Lock()
	m.inflight--
	if m.released {
		snap := m.snapshotLocked()
		m.mu.Unlock()
		return snap
	}
	if seq < m.applied {
		log.Printf("[monitor] dropping stale response #%d (already applied #%d)", seq, m.applied)
		snap := m.snapshotLocked()
		m.mu.Unlock()
		return snap
	}

	prev := m.state
	next := Snapshot{CheckedAt: m.now(), Seq: seq}
	if err != nil {
		log.Printf("[monitor] retrain status fetch failed: %v", err)
		next.Kind = models.StatusError
		next.Error = err.Error()
	} else {
		next.RetrainStatus = *status
	}
	m.state = next
	m.applied = seq

	changed := prev.Kind != next.Kind || prev.Raw != next.Raw
	listeners := append([]ChangeFunc(nil), m.listeners...)
	snap := m.snapshotLocked()
	prevSnap := prev
	prevSnap.Loading = false
	m.mu.Unlock()

	if changed {
		for _, fn := range listeners {
			fn(prevSnap, snap)
		}
	}
	return snap
}

func (m *Monitor) snapshotLocked() Snapshot {
	snap := m.state
	snap.Loading = m.inflight > 0 || snap.Kind == models.StatusChecking
	return snap
}
