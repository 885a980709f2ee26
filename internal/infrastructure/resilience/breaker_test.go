package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errWrite = errors.New("write failed")

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(settings Settings) (*Breaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := New("store", settings)
	b.now = clock.now
	return b, clock
}

func fail(context.Context) error    { return errWrite }
func succeed(context.Context) error { return nil }

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		calls         []func(context.Context) error
		expectedState State
	}{
		{"stays closed on successes", []func(context.Context) error{succeed, succeed, succeed}, StateClosed},
		{"stays closed below threshold", []func(context.Context) error{fail, fail}, StateClosed},
		{"opens at threshold", []func(context.Context) error{fail, fail, fail}, StateOpen},
		{"success resets failures", []func(context.Context) error{fail, fail, succeed, fail, fail}, StateClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newTestBreaker(Settings{FailureThreshold: 3, Cooldown: time.Minute})
			for _, call := range tt.calls {
				_ = b.Do(context.Background(), call)
			}
			assert.Equal(t, tt.expectedState, b.State())
		})
	}
}

func TestBreakerRejectsWhileOpen(t *testing.T) {
	b, _ := newTestBreaker(Settings{FailureThreshold: 1, Cooldown: time.Minute})

	require.ErrorIs(t, b.Do(context.Background(), fail), errWrite)

	called := false
	err := b.Do(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	b, clock := newTestBreaker(Settings{FailureThreshold: 1, Cooldown: time.Minute})

	_ = b.Do(context.Background(), fail)
	clock.advance(time.Minute)
	assert.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, b.Do(context.Background(), succeed))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerFailedProbeReopens(t *testing.T) {
	b, clock := newTestBreaker(Settings{FailureThreshold: 1, Cooldown: time.Minute})

	_ = b.Do(context.Background(), fail)
	clock.advance(time.Minute)

	assert.ErrorIs(t, b.Do(context.Background(), fail), errWrite)
	assert.Equal(t, StateOpen, b.State())

	clock.advance(30 * time.Second)
	assert.ErrorIs(t, b.Do(context.Background(), succeed), ErrCircuitOpen)
}

func TestBreakerIgnoresCancellation(t *testing.T) {
	b, _ := newTestBreaker(Settings{FailureThreshold: 1, Cooldown: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, b.Do(ctx, succeed), context.Canceled)
	_ = b.Do(context.Background(), func(context.Context) error { return context.DeadlineExceeded })
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerOnStateChange(t *testing.T) {
	var transitions []string
	b, clock := newTestBreaker(Settings{
		FailureThreshold: 2,
		Cooldown:         time.Second,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, name+":"+from.String()+"->"+to.String())
		},
	})

	_ = b.Do(context.Background(), fail)
	_ = b.Do(context.Background(), fail)
	clock.advance(time.Second)
	_ = b.Do(context.Background(), succeed)

	assert.Equal(t, []string{
		"store:closed->open",
		"store:open->half-open",
		"store:half-open->closed",
	}, transitions)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "unknown", State(42).String())
}
