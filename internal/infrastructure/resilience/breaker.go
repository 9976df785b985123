package resilience

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures the circuit breaker behavior
type Settings struct {
	// FailureThreshold is the number of consecutive failures that opens the circuit
	FailureThreshold int
	// CoolDown is how long the circuit stays open before a trial request is allowed
	CoolDown time.Duration
	// OnStateChange is called whenever the state changes
	OnStateChange func(name string, from State, to State)
	// Now overrides the clock
	Now func() time.Time
}

// Breaker implements the circuit breaker pattern
type Breaker struct {
	name     string
	settings Settings

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	probing  bool
}

// New creates a new circuit breaker with the given settings
func New(name string, settings Settings) *Breaker {
	if settings.FailureThreshold <= 0 {
		settings.FailureThreshold = 5
	}
	if settings.CoolDown <= 0 {
		settings.CoolDown = 30 * time.Second
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}

	return &Breaker{
		name:     name,
		settings: settings,
		state:    StateClosed,
	}
}

// Name returns the name of the circuit breaker
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state of the circuit breaker
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.advance()
	return b.state
}

// Failures returns the current run of consecutive failures
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.failures
}

// Do runs fn if the breaker accepts it and records the outcome.
// A rejected call returns ErrCircuitOpen without invoking fn.
func (b *Breaker) Do(fn func() error) error {
	if err := b.acquire(); err != nil {
		return err
	}

	err := fn()
	b.record(err == nil)
	return err
}

// Reset forces the breaker back to closed
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.probing = false
	b.transition(StateClosed)
}

func (b *Breaker) acquire() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.advance()

	switch b.state {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		// one trial request at a time
		if b.probing {
			return ErrCircuitOpen
		}
		b.probing = true
	}
	return nil
}

func (b *Breaker) record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen {
		b.probing = false
		if success {
			b.failures = 0
			b.transition(StateClosed)
		} else {
			b.trip()
		}
		return
	}

	if success {
		b.failures = 0
		return
	}

	b.failures++
	if b.failures >= b.settings.FailureThreshold {
		b.trip()
	}
}

// advance moves an open breaker to half-open once the cool-down has elapsed.
// Caller holds mu.
func (b *Breaker) advance() {
	if b.state == StateOpen && !b.settings.Now().Before(b.openedAt.Add(b.settings.CoolDown)) {
		b.transition(StateHalfOpen)
	}
}

func (b *Breaker) trip() {
	b.openedAt = b.settings.Now()
	b.transition(StateOpen)
}

func (b *Breaker) transition(to State) {
	if b.state == to {
		return
	}

	from := b.state
	b.state = to

	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, from, to)
	}
}
