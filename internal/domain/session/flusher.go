package session

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// Flusher writes the latest enqueued value in the background.
//
// Enqueue never blocks; values enqueued before the previous write starts
// replace each other so only the newest is written. A failed write keeps its
// value pending (unless superseded) and is retried on the next Enqueue or
// Flush.
type Flusher[T any] struct {
	name     string
	write    func(context.Context, T) error
	logger   *zap.Logger
	debounce time.Duration

	mu      sync.Mutex
	pending T
	dirty   bool
	lastSeq uint64 // highest sequence accepted by EnqueueSeq

	writeMu sync.Mutex // serializes write calls
	wake    chan struct{}
}

// NewFlusher creates a flusher. A positive debounce delays each background
// write so bursts (drag gestures) collapse into one.
func NewFlusher[T any](name string, write func(context.Context, T) error, logger *zap.Logger, debounce time.Duration) *Flusher[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flusher[T]{
		name:     name,
		write:    write,
		logger:   logger,
		debounce: debounce,
		wake:     make(chan struct{}, 1),
	}
}

// Enqueue records value as the latest state to persist
func (f *Flusher[T]) Enqueue(value T) {
	f.mu.Lock()
	f.pending = value
	f.dirty = true
	f.mu.Unlock()

	f.signal()
}

func (f *Flusher[T]) signal() {
	select {
	case f.wake <- struct{}{}:
	default:
	}
}

// EnqueueSeq is Enqueue for values tagged with their source's event
// sequence. Events can be delivered out of order by concurrent publishers,
// so a value at or below the highest sequence seen is dropped. Reports
// whether the value was accepted.
func (f *Flusher[T]) EnqueueSeq(seq uint64, value T) bool {
	f.mu.Lock()
	if seq <= f.lastSeq {
		f.mu.Unlock()
		return false
	}
	f.lastSeq = seq
	f.pending = value
	f.dirty = true
	f.mu.Unlock()

	f.signal()
	return true
}

// Pending reports whether a value is waiting to be written
func (f *Flusher[T]) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirty
}

// Run writes enqueued values until ctx is done. It does not flush on exit;
// call Flush during shutdown.
func (f *Flusher[T]) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-f.wake:
		}

		if f.debounce > 0 {
			timer := time.NewTimer(f.debounce)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}

		if err := f.Flush(ctx); err != nil {
			f.logger.Warn("Background flush failed, keeping latest state for retry",
				zap.String("flusher", f.name), zap.Error(err))
		}
	}
}

// Flush synchronously writes the pending value, if any
func (f *Flusher[T]) Flush(ctx context.Context) error {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	f.mu.Lock()
	if !f.dirty {
		f.mu.Unlock()
		return nil
	}
	value := f.pending
	f.dirty = false
	f.mu.Unlock()

	if err := f.write(ctx, value); err != nil {
		f.mu.Lock()
		if !f.dirty {
			f.pending = value
			f.dirty = true
		}
		f.mu.Unlock()
		return err
	}
	return nil
}

// Flushable is anything holding state that can be written out
type Flushable interface {
	Flush(ctx context.Context) error
}

// FlushAll flushes every target and aggregates the failures
func FlushAll(ctx context.Context, targets ...Flushable) error {
	var result *multierror.Error
	for _, t := range targets {
		if err := t.Flush(ctx); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
