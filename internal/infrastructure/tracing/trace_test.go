package tracing

import (
	"context"
	"errors"
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

func TestStartSpanContinuesTrace(t *testing.T) {
	tracer := New("test", nil)
	defer tracer.Close()

	root, ctx := tracer.StartSpan(context.Background(), "root")
	child, _ := tracer.StartSpan(ctx, "child")

	assert.NotEmpty(t, root.TraceID)
	assert.Equal(t, root.TraceID, child.TraceID)
	assert.Equal(t, root.SpanID, child.ParentID)
	assert.NotEqual(t, root.SpanID, child.SpanID)
	assert.Empty(t, root.ParentID)
}

func TestSetError(t *testing.T) {
	span := &Span{Tags: map[string]string{}}
	span.SetError(errors.New("boom"))
	assert.Equal(t, 500, span.StatusCode)

	span = &Span{Tags: map[string]string{}}
	span.SetStatus(404)
	span.SetError(errors.New("missing"))
	assert.Equal(t, 404, span.StatusCode)
}

func TestHTTPMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)
	tracer := New("test", zap.New(core))

	var seen TraceID
	r := gin.New()
	r.Use(HTTPMiddleware(tracer))
	r.GET("/workspaces/:ws", func(c *gin.Context) {
		seen = GetTraceID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/workspaces/alice", nil)
	req.Header.Set(HeaderTraceID, "trace-from-client")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, TraceID("trace-from-client"), seen)
	assert.Equal(t, "trace-from-client", w.Header().Get(HeaderTraceID))
	assert.NotEmpty(t, w.Header().Get(HeaderSpanID))

	tracer.Close()
	require.Eventually(t, func() bool {
		return logs.FilterMessage("span completed").Len() == 1
	}, time.Second, 10*time.Millisecond)

	entry := logs.FilterMessage("span completed").All()[0]
	fields := entry.ContextMap()
	assert.Equal(t, "GET /workspaces/:ws", fields["operation"])
	assert.Equal(t, "alice", fields["workspace"])
	assert.Equal(t, "204", fields["http.status"])
}

func TestSubmitAfterCloseIsDropped(t *testing.T) {
	tracer := New("test", nil)
	tracer.Close()
	tracer.Close()

	span, _ := tracer.StartSpan(context.Background(), "late")
	assert.NotPanics(t, func() { tracer.Submit(span) })
}
