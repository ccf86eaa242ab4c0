package liveness

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// DefaultInterval is the delay between the end of one check and the start of
// the next.
const DefaultInterval = 5 * time.Second

// Checker reports whether the backend answered its health request. It must not
// block past ctx and never reports errors; failures are simply false.
type Checker interface {
	CheckLiveness(ctx context.Context) bool
}

// CheckFunc adapts a plain function to Checker.
type CheckFunc func(ctx context.Context) bool

// CheckLiveness implements Checker.
func (f CheckFunc) CheckLiveness(ctx context.Context) bool { return f(ctx) }

// Timer is the subset of *time.Timer the monitor needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// State is the lifecycle phase of a Monitor.
type State int

const (
	StateUnstarted State = iota
	StatePolling
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StatePolling:
		return "polling"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Options configure a Monitor.
type Options struct {
	Interval time.Duration // zero uses DefaultInterval
	Logger   *zerolog.Logger
	// OnChange runs on the poll goroutine whenever the flag flips.
	OnChange  func(online bool)
	AfterFunc AfterFunc
}

// Monitor polls a Checker on a fixed delay and exposes the latest answer.
//
// The next check is scheduled only once the previous one has returned, so at
// most one check is in flight or pending at any time. Start and Stop are the
// only mutators of the schedule.
type Monitor struct {
	checker   Checker
	interval  time.Duration
	log       zerolog.Logger
	onChange  func(bool)
	afterFunc AfterFunc

	online atomic.Bool

	mu     sync.Mutex
	state  State
	gen    uint64
	timer  Timer
	cancel context.CancelFunc
}

// New builds a Monitor. The flag starts out true so no warning is shown
// before the first check has had a chance to fail.
func New(checker Checker, opts Options) *Monitor {
	m := &Monitor{
		checker:   checker,
		interval:  opts.Interval,
		log:       zerolog.Nop(),
		onChange:  opts.OnChange,
		afterFunc: opts.AfterFunc,
	}
	if m.interval <= 0 {
		m.interval = DefaultInterval
	}
	if opts.Logger != nil {
		m.log = opts.Logger.With().Str("component", "liveness").Logger()
	}
	if m.afterFunc == nil {
		m.afterFunc = realAfterFunc
	}
	m.online.Store(true)
	return m
}

// IsOnline reports the result of the most recent check. Safe from any goroutine.
func (m *Monitor) IsOnline() bool {
	return m.online.Load()
}

// Interval returns the delay between checks.
func (m *Monitor) Interval() time.Duration {
	return m.interval
}

// State returns the current lifecycle phase.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start begins polling immediately. Calling Start while already polling is a
// no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.state == StatePolling {
		m.mu.Unlock()
		return
	}
	m.state = StatePolling
	m.gen++
	gen := m.gen
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.mu.Unlock()

	m.log.Debug().Dur("interval", m.interval).Msg("liveness polling started")
	go m.poll(ctx, gen)
}

// Stop cancels the pending check and any check in flight. A timer that has
// already fired but not yet run is invalidated too. Stop is idempotent.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if m.state != StatePolling {
		m.mu.Unlock()
		return
	}
	m.state = StateStopped
	m.gen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.log.Debug().Msg("liveness polling stopped")
}

// Run starts the monitor and stops it once ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	m.Start()
	<-ctx.Done()
	m.Stop()
}

func (m *Monitor) current(gen uint64) bool {
	return m.state == StatePolling && m.gen == gen
}

func (m *Monitor) poll(ctx context.Context, gen uint64) {
	m.mu.Lock()
	if !m.current(gen) {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	m.mu.Unlock()

	ok := m.checker.CheckLiveness(ctx)

	m.mu.Lock()
	if !m.current(gen) {
		// Stopped while the check was in flight; the answer is stale.
		m.mu.Unlock()
		return
	}
	prev := m.online.Swap(ok)
	m.timer = m.afterFunc(m.interval, func() { m.poll(ctx, gen) })
	m.mu.Unlock()

	if prev == ok {
		return
	}
	if ok {
		m.log.Info().Bool("online", ok).Msg("backend is responding again")
	} else {
		m.log.Warn().Bool("online", ok).Msg("backend is not responding")
	}
	if m.onChange != nil {
		m.onChange(ok)
	}
}
