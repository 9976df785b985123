/*
Package tracing provides lightweight request tracing.

# Overview

Each HTTP request gets a span. Trace and parent span IDs arrive in the
X-Trace-ID and X-Span-ID headers and are echoed back, so a frontend can
correlate a tab action with the server log line that handled it.

# Features

- Trace context propagation via HTTP headers
- Parent-child spans through context.Context
- Buffered, asynchronous span collection logged through zap

# Usage

	tracer := tracing.New("bizadmin", logger)
	defer tracer.Close()
	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "workspace.open")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()
*/
package tracing
