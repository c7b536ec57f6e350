package telemetry

import (
	"context"
	"testing"
)

func TestInitTelemetry(t *testing.T) {
	// Empty endpoint installs only the propagator.
	shutdown, err := InitTelemetry(context.Background(), "test-service", "v1.0.0", "test", "", nil)
	if err != nil {
		t.Fatalf("InitTelemetry failed: %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected non-nil shutdown")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown returned %v", err)
	}
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		want     Endpoint
	}{
		{
			name:     "plain https host",
			endpoint: "https://otlp.example.com",
			want: Endpoint{
				Host:       "otlp.example.com",
				TracePath:  "/v1/traces",
				MetricPath: "/v1/metrics",
				LogPath:    "/v1/logs",
			},
		},
		{
			name:     "insecure with base path",
			endpoint: "http://localhost:4318/otlp",
			want: Endpoint{
				Host:       "localhost:4318",
				Insecure:   true,
				TracePath:  "/otlp/v1/traces",
				MetricPath: "/otlp/v1/metrics",
				LogPath:    "/otlp/v1/logs",
			},
		},
		{
			name:     "signal path is stripped",
			endpoint: "https://collector:4318/api/v1/traces",
			want: Endpoint{
				Host:       "collector:4318",
				TracePath:  "/api/v1/traces",
				MetricPath: "/api/v1/metrics",
				LogPath:    "/api/v1/logs",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseEndpoint(tt.endpoint)
			if got != tt.want {
				t.Errorf("ParseEndpoint(%q) = %+v, want %+v", tt.endpoint, got, tt.want)
			}
		})
	}
}

func TestTracer(t *testing.T) {
	tracer := Tracer("test-tracer")
	if tracer == nil {
		t.Fatal("Tracer returned nil")
	}
}
