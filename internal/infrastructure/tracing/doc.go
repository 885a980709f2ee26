/*
Package tracing tags every HTTP request with a trace id and logs one span
per request.

The id is taken from the X-Trace-ID request header when the browser sends
one, otherwise a request ULID is generated. It is echoed in the response
header and stored in the request context so handlers can attach it to their
log lines with GetTraceID.

Finished spans are buffered and logged by a collector goroutine. Requests
that recorded a gin error log at error level, 5xx responses at warn, and the
rest at debug.

	tracer := tracing.New(logger.Component("tracing"))
	defer tracer.Close()
	router.Use(tracing.HTTPMiddleware(tracer))
*/
package tracing
