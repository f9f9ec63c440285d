package breaker

import (
	"sync"
	"time"

	"github.com/c360/shopgateway/errors"
)

// State represents the breaker state
type State int

const (
	// StateClosed allows all calls through
	StateClosed State = iota
	// StateOpen fails all calls immediately until the cool-down elapses
	StateOpen
	// StateHalfOpen admits a single trial call
	StateHalfOpen
)

// String returns the string representation of State
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Config holds circuit breaker tuning
type Config struct {
	// WindowSize is the number of recent outcomes considered. The failure
	// ratio is only evaluated once the window is full.
	WindowSize int

	// FailureRatio opens the circuit when failures/window >= this value
	FailureRatio float64

	// Cooldown is how long the circuit stays open before a trial call
	Cooldown time.Duration

	// Now overrides the clock, for tests
	Now func() time.Time
}

// DefaultConfig returns the gateway's standard breaker tuning: a window of
// 10 outcomes, opening at a 50% failure ratio, with a 10s cool-down.
func DefaultConfig() Config {
	return Config{
		WindowSize:   10,
		FailureRatio: 0.5,
		Cooldown:     10 * time.Second,
	}
}

// Breaker is a windowed circuit breaker. The zero value is not usable; use New.
type Breaker struct {
	mu  sync.Mutex
	cfg Config
	now func() time.Time

	state    State
	openedAt time.Time

	// Rolling outcome window (true = success)
	window   []bool
	idx      int
	filled   int
	failures int

	// Single-admission guard for the half-open trial
	trialInFlight bool
}

// New creates a breaker, applying defaults for zero config fields
func New(cfg Config) *Breaker {
	def := DefaultConfig()
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = def.WindowSize
	}
	if cfg.FailureRatio <= 0 || cfg.FailureRatio > 1 {
		cfg.FailureRatio = def.FailureRatio
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = def.Cooldown
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Breaker{
		cfg:    cfg,
		now:    now,
		window: make([]bool, cfg.WindowSize),
	}
}

// Allow reports whether a call may proceed. It returns ErrCircuitOpen while
// the circuit is open or while a half-open trial is already in flight. When
// the cool-down has elapsed it admits exactly one trial call.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return nil

	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cfg.Cooldown {
			return errors.ErrCircuitOpen
		}
		b.state = StateHalfOpen
		b.trialInFlight = true
		return nil

	case StateHalfOpen:
		if b.trialInFlight {
			return errors.ErrCircuitOpen
		}
		b.trialInFlight = true
		return nil
	}
	return nil
}

// Record registers the outcome of an allowed call. Every attempt counts as
// one outcome, including individual retry attempts.
func (b *Breaker) Record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen {
		b.trialInFlight = false
		if success {
			b.toClosed()
		} else {
			b.toOpen()
		}
		return
	}

	if b.state == StateOpen {
		// A call raced the transition to open; its outcome is irrelevant
		return
	}

	// Closed: roll the window
	if b.filled == len(b.window) {
		if !b.window[b.idx] {
			b.failures--
		}
	} else {
		b.filled++
	}
	b.window[b.idx] = success
	if !success {
		b.failures++
	}
	b.idx = (b.idx + 1) % len(b.window)

	if b.filled == len(b.window) &&
		float64(b.failures)/float64(b.filled) >= b.cfg.FailureRatio {
		b.toOpen()
	}
}

// State returns the current breaker state
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) toOpen() {
	b.state = StateOpen
	b.openedAt = b.now()
}

func (b *Breaker) toClosed() {
	b.state = StateClosed
	b.idx = 0
	b.filled = 0
	b.failures = 0
	for i := range b.window {
		b.window[i] = false
	}
}
