package telemetry

import (
	"context"
	"io"
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/product-explorer/internal/infrastructure/config"
	"go.opentelemetry.io/otel/trace"
)

// HTTPRouteFromContext returns the chi pattern matched so far for the request
// in ctx. It is read when a record is written, so logs from handlers carry the
// full route and logs from middleware before routing carry none.
func HTTPRouteFromContext(ctx context.Context) string {
	return chi.RouteContext(ctx).RoutePattern()
}

// contextHandler decorates records with request-scoped values found in ctx:
// trace and span ids, the HTTP route and the chi request id.
type contextHandler struct {
	next slog.Handler
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	if route := HTTPRouteFromContext(ctx); route != "" {
		r.AddAttrs(slog.String("http.route", route))
	}
	if reqID := chimiddleware.GetReqID(ctx); reqID != "" {
		r.AddAttrs(slog.String("request_id", reqID))
	}
	return h.next.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name)}
}

// NewLogger builds the JSON logger used across the service
func NewLogger(w io.Writer, level slog.Level, otlp *config.OTLPConfig) *slog.Logger {
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(&contextHandler{next: jsonHandler}).With(
		slog.String("service.name", otlp.ServiceName),
		slog.String("environment", otlp.Environment),
	)
}
