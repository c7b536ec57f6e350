package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/socialchef/chefgpt"

// New creates a new slog.Logger based on the environment.
// For "production", it returns a JSON handler.
// For other environments, it returns a text handler with debug level.
func New(env string) *slog.Logger {
	return NewWithWriter(env, os.Stdout)
}

// NewWithWriter is New with an explicit destination for the local handler.
func NewWithWriter(env string, w io.Writer) *slog.Logger {
	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(w, nil)
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	return slog.New(&otelHandler{handler: handler})
}

// WithTraceContext returns a slog.Attr containing trace_id and span_id if available in the context.
func WithTraceContext(ctx context.Context) slog.Attr {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return slog.Attr{}
	}
	sc := span.SpanContext()
	return slog.Group("trace",
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	)
}

// otelHandler writes every record locally and mirrors it to the global
// OpenTelemetry logger provider.
type otelHandler struct {
	handler slog.Handler
	attrs   []slog.Attr
}

func (h *otelHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.handler.Enabled(ctx, l)
}

func (h *otelHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.handler.Handle(ctx, r); err != nil {
		return err
	}

	provider := global.GetLoggerProvider()
	if provider == nil {
		return nil
	}
	logger := provider.Logger(instrumentationName)

	var otelRecord log.Record
	otelRecord.SetTimestamp(r.Time)
	otelRecord.SetBody(log.StringValue(r.Message))
	otelRecord.SetSeverity(toOTelSeverity(r.Level))
	otelRecord.SetSeverityText(r.Level.String())

	for _, a := range h.attrs {
		otelRecord.AddAttributes(log.KeyValue{Key: a.Key, Value: toOTelValue(a.Value)})
	}
	r.Attrs(func(a slog.Attr) bool {
		otelRecord.AddAttributes(log.KeyValue{
			Key:   a.Key,
			Value: toOTelValue(a.Value),
		})
		return true
	})

	logger.Emit(ctx, otelRecord)
	return nil
}

func (h *otelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &otelHandler{handler: h.handler.WithAttrs(attrs), attrs: merged}
}

func (h *otelHandler) WithGroup(name string) slog.Handler {
	return &otelHandler{handler: h.handler.WithGroup(name), attrs: h.attrs}
}

func toOTelSeverity(l slog.Level) log.Severity {
	switch {
	case l >= slog.LevelError:
		return log.SeverityError
	case l >= slog.LevelWarn:
		return log.SeverityWarn
	case l >= slog.LevelInfo:
		return log.SeverityInfo
	default:
		return log.SeverityDebug
	}
}

func toOTelValue(v slog.Value) log.Value {
	switch v.Kind() {
	case slog.KindString:
		return log.StringValue(v.String())
	case slog.KindInt64:
		return log.Int64Value(v.Int64())
	case slog.KindUint64:
		return log.Int64Value(int64(v.Uint64()))
	case slog.KindBool:
		return log.BoolValue(v.Bool())
	case slog.KindFloat64:
		return log.Float64Value(v.Float64())
	case slog.KindDuration:
		return log.Int64Value(v.Duration().Milliseconds())
	case slog.KindGroup:
		group := v.Group()
		kvs := make([]log.KeyValue, 0, len(group))
		for _, a := range group {
			kvs = append(kvs, log.KeyValue{Key: a.Key, Value: toOTelValue(a.Value)})
		}
		return log.MapValue(kvs...)
	case slog.KindLogValuer:
		return toOTelValue(v.Resolve())
	default:
		return log.StringValue(v.String())
	}
}
