package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved() (*Tracer, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return New(zap.New(core)), logs
}

func TestStartSpanReusesTraceID(t *testing.T) {
	tracer, _ := newObserved()
	defer tracer.Close()

	span, ctx := tracer.StartSpan(context.Background(), "outer")
	require.NotEmpty(t, span.TraceID)
	assert.Equal(t, span.TraceID, GetTraceID(ctx))

	inner, _ := tracer.StartSpan(ctx, "inner")
	assert.Equal(t, span.TraceID, inner.TraceID)
}

func TestHTTPMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer, logs := newObserved()

	var seen TraceID
	router := gin.New()
	router.Use(HTTPMiddleware(tracer))
	router.GET("/windows/:id", func(c *gin.Context) {
		seen = GetTraceID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("propagates incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/windows/abc", nil)
		req.Header.Set(Header, "trace-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "trace-123", w.Header().Get(Header))
		assert.Equal(t, TraceID("trace-123"), seen)
	})

	t.Run("generates an id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/windows/abc", nil)
		req.Header.Set(Header, "bad id!")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.NotEmpty(t, w.Header().Get(Header))
		assert.NotEqual(t, "bad id!", w.Header().Get(Header))
	})

	tracer.Close()
	require.Eventually(t, func() bool {
		return logs.FilterMessage("span completed").Len() == 2
	}, time.Second, 10*time.Millisecond)

	entry := logs.FilterMessage("span completed").All()[0]
	assert.Equal(t, "/windows/:id", entry.ContextMap()["operation"])
	assert.Equal(t, "abc", entry.ContextMap()["window_id"])
}
