package tracing

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/id"
)

// TraceID represents a unique trace identifier
type TraceID string

// Span represents one traced request
type Span struct {
	TraceID    TraceID
	Name       string
	StartTime  time.Time
	Duration   time.Duration
	Tags       map[string]string
	Error      error
	StatusCode int
}

// Tracer collects finished spans and logs them off the request path
type Tracer struct {
	logger *zap.Logger
	spans  chan *Span
	done   chan struct{}
	once   sync.Once
}

// BufferSize is the number of finished spans held before new ones are dropped
const BufferSize = 1000

// New creates a tracer and starts its collector
func New(logger *zap.Logger) *Tracer {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracer{
		logger: logger,
		spans:  make(chan *Span, BufferSize),
		done:   make(chan struct{}),
	}
	go t.collectSpans()
	return t
}

// StartSpan creates a span, reusing the trace id already in ctx
func (t *Tracer) StartSpan(ctx context.Context, name string) (*Span, context.Context) {
	traceID := GetTraceID(ctx)
	if traceID == "" {
		traceID = TraceID(id.NewRequestID())
	}

	span := &Span{
		TraceID:   traceID,
		Name:      name,
		StartTime: time.Now(),
		Tags:      make(map[string]string),
	}
	return span, context.WithValue(ctx, traceIDKey, traceID)
}

// Finish marks the span as complete
func (s *Span) Finish() {
	s.Duration = time.Since(s.StartTime)
}

// SetTag adds a tag to the span
func (s *Span) SetTag(key, value string) {
	s.Tags[key] = value
}

// SetError records an error in the span
func (s *Span) SetError(err error) {
	s.Error = err
}

// Submit hands a finished span to the collector without blocking
func (t *Tracer) Submit(span *Span) {
	select {
	case <-t.done:
		return
	default:
	}

	select {
	case t.spans <- span:
	default:
		t.logger.Warn("span buffer full, dropping span", zap.String("trace_id", string(span.TraceID)))
	}
}

// Close stops the collector. Spans still buffered are logged first.
func (t *Tracer) Close() {
	t.once.Do(func() { close(t.done) })
}

func (t *Tracer) collectSpans() {
	for {
		select {
		case span := <-t.spans:
			t.processSpan(span)
		case <-t.done:
			for {
				select {
				case span := <-t.spans:
					t.processSpan(span)
				default:
					return
				}
			}
		}
	}
}

func (t *Tracer) processSpan(span *Span) {
	fields := make([]zap.Field, 0, len(span.Tags)+4)
	fields = append(fields,
		zap.String("trace_id", string(span.TraceID)),
		zap.String("operation", span.Name),
		zap.Duration("duration", span.Duration),
		zap.Int("status", span.StatusCode),
	)
	for k, v := range span.Tags {
		fields = append(fields, zap.String(k, v))
	}

	switch {
	case span.Error != nil:
		t.logger.Error("span completed with error", append(fields, zap.Error(span.Error))...)
	case span.StatusCode >= 500:
		t.logger.Warn("span completed", fields...)
	default:
		t.logger.Debug("span completed", fields...)
	}
}

type contextKey string

const traceIDKey contextKey = "trace_id"

// GetTraceID retrieves the trace ID from context
func GetTraceID(ctx context.Context) TraceID {
	if traceID, ok := ctx.Value(traceIDKey).(TraceID); ok {
		return traceID
	}
	return ""
}
