package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

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
	// Cooldown is how long the circuit stays open before a probe is allowed
	Cooldown time.Duration
	// OnStateChange is called whenever the state changes, outside the lock
	OnStateChange func(name string, from State, to State)
}

// Breaker stops calling a failing store until a cooldown elapses.
// After the cooldown one probe call is let through; its outcome closes or
// reopens the circuit.
type Breaker struct {
	name     string
	settings Settings
	now      func() time.Time

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
	if settings.Cooldown <= 0 {
		settings.Cooldown = 30 * time.Second
	}

	return &Breaker{
		name:     name,
		settings: settings,
		now:      time.Now,
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

	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.settings.Cooldown {
		return StateHalfOpen
	}
	return b.state
}

// Do runs fn if the circuit accepts it. The context error is returned
// without running fn when ctx is already done, and does not count as a
// failure.
func (b *Breaker) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.before(); err != nil {
		return err
	}

	err := fn(ctx)
	b.after(err)
	return err
}

func (b *Breaker) before() error {
	b.mu.Lock()
	var changed func()
	defer func() {
		b.mu.Unlock()
		if changed != nil {
			changed()
		}
	}()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.settings.Cooldown {
			return ErrCircuitOpen
		}
		changed = b.transition(StateHalfOpen)
		b.probing = true
		return nil
	case StateHalfOpen:
		if b.probing {
			return ErrCircuitOpen
		}
		b.probing = true
	}
	return nil
}

func (b *Breaker) after(err error) {
	b.mu.Lock()
	var changed func()
	defer func() {
		b.mu.Unlock()
		if changed != nil {
			changed()
		}
	}()

	// Cancellation says nothing about store health
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		b.probing = false
		return
	}

	if err == nil {
		b.failures = 0
		b.probing = false
		changed = b.transition(StateClosed)
		return
	}

	b.failures++
	if b.state == StateHalfOpen || b.failures >= b.settings.FailureThreshold {
		b.openedAt = b.now()
		b.probing = false
		changed = b.transition(StateOpen)
	}
}

// transition sets the state and returns the notification to run after
// unlocking, or nil when nothing changed (must hold lock)
func (b *Breaker) transition(to State) func() {
	from := b.state
	if from == to {
		return nil
	}
	b.state = to
	if to == StateClosed {
		b.failures = 0
	}
	if b.settings.OnStateChange == nil {
		return nil
	}
	return func() { b.settings.OnStateChange(b.name, from, to) }
}
