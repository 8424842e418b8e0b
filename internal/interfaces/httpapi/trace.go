package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var (
	apiTracer = otel.Tracer("github.com/riskibarqy/getstandings/internal/interfaces/httpapi")
	noopSpan  = trace.SpanFromContext(context.Background())
)

// untracedPaths are probe endpoints that never get a server span.
var untracedPaths = map[string]struct{}{
	"/healthz": {},
	"/health":  {},
	"/livez":   {},
	"/readyz":  {},
}

// startSpan opens a child span for handler entry points. Helpers and
// middleware, and requests with no server span, get a no-op span.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !trace.SpanContextFromContext(ctx).IsValid() || !isHandlerSpan(name) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name)
}

func isHandlerSpan(name string) bool {
	return strings.HasPrefix(name, handlerSpanPrefix)
}

func shouldTraceRequest(path string) bool {
	_, skip := untracedPaths[strings.ToLower(strings.TrimSpace(path))]
	return !skip
}

func spanNameForRequest(_ string, r *http.Request) string {
	return r.Method + " " + r.URL.Path
}

func renderSpanAttributes(enabled, debug bool, tableRows int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool("standings.enabled", enabled),
		attribute.Bool("standings.debug", debug),
		attribute.Int("standings.table_rows", tableRows),
	}
}
