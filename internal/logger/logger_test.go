package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

func TestNew(t *testing.T) {
	t.Run("production", func(t *testing.T) {
		l := New("production")
		if l == nil {
			t.Fatal("expected logger to be non-nil")
		}
	})

	t.Run("development", func(t *testing.T) {
		l := New("development")
		if l == nil {
			t.Fatal("expected logger to be non-nil")
		}
	})
}

type mockSpan struct {
	trace.Span
	sc trace.SpanContext
}

func (s mockSpan) SpanContext() trace.SpanContext {
	return s.sc
}

func TestWithTraceContext(t *testing.T) {
	t.Run("valid span", func(t *testing.T) {
		traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
		spanID, _ := trace.SpanIDFromHex("0102030405060708")
		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: traceID,
			SpanID:  spanID,
		})
		ctx := trace.ContextWithSpan(context.Background(), mockSpan{sc: sc})

		attr := WithTraceContext(ctx)
		if attr.Key != "trace" {
			t.Errorf("expected key 'trace', got %s", attr.Key)
		}

		group := attr.Value.Group()
		if len(group) != 2 {
			t.Errorf("expected 2 attributes in group, got %d", len(group))
		}

		foundTraceID := false
		foundSpanID := false
		for _, a := range group {
			if a.Key == "trace_id" && a.Value.String() == "0102030405060708090a0b0c0d0e0f10" {
				foundTraceID = true
			}
			if a.Key == "span_id" && a.Value.String() == "0102030405060708" {
				foundSpanID = true
			}
		}

		if !foundTraceID {
			t.Error("trace_id not found or incorrect")
		}
		if !foundSpanID {
			t.Error("span_id not found or incorrect")
		}
	})

	t.Run("invalid span", func(t *testing.T) {
		ctx := context.Background()
		attr := WithTraceContext(ctx)
		if !attr.Equal(slog.Attr{}) {
			t.Errorf("expected empty attribute for invalid span, got %+v", attr)
		}
	})
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("production", &buf)
	l.With("component", "ratelimit").Info("request rejected", "identifier", "10.0.0.1")

	out := buf.String()
	if !strings.Contains(out, `"msg":"request rejected"`) {
		t.Errorf("expected JSON message, got %s", out)
	}
	if !strings.Contains(out, `"component":"ratelimit"`) {
		t.Errorf("expected handler attrs in output, got %s", out)
	}
}

func TestToOTelValue(t *testing.T) {
	if got := toOTelValue(slog.DurationValue(1500 * time.Millisecond)); got.AsInt64() != 1500 {
		t.Errorf("expected duration in ms, got %v", got.AsInt64())
	}
	if got := toOTelValue(slog.BoolValue(true)); !got.AsBool() {
		t.Error("expected bool value")
	}
	group := toOTelValue(slog.GroupValue(slog.String("a", "b")))
	if len(group.AsMap()) != 1 {
		t.Errorf("expected 1 map entry, got %d", len(group.AsMap()))
	}
}
