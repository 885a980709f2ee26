package tracing

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/utils"
)

// Header carries the trace id in both directions
const Header = "X-Trace-ID"

// HTTPMiddleware creates Gin middleware for HTTP tracing
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if incoming := c.GetHeader(Header); incoming != "" && utils.ValidateID(incoming, "trace_id", true) == nil {
			ctx = context.WithValue(ctx, traceIDKey, TraceID(incoming))
		}

		name := c.FullPath()
		if name == "" {
			name = "unmatched"
		}
		span, ctx := tracer.StartSpan(ctx, name)
		span.SetTag("http.method", c.Request.Method)

		c.Request = c.Request.WithContext(ctx)
		c.Header(Header, string(span.TraceID))

		c.Next()

		if id := c.Param("id"); id != "" {
			span.SetTag("window_id", id)
		}
		span.StatusCode = c.Writer.Status()
		if len(c.Errors) > 0 {
			span.SetError(c.Errors.Last())
		}
		span.Finish()
		tracer.Submit(span)
	}
}
