package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// Endpoint is a parsed OTLP/HTTP collector address.
type Endpoint struct {
	Host       string
	Insecure   bool
	TracePath  string
	MetricPath string
	LogPath    string
}

// ParseEndpoint splits an OTLP endpoint URL into host and signal paths.
func ParseEndpoint(otlpEndpoint string) Endpoint {
	ep := Endpoint{
		TracePath:  "/v1/traces",
		MetricPath: "/v1/metrics",
		LogPath:    "/v1/logs",
	}

	host := otlpEndpoint
	if strings.HasPrefix(host, "https://") {
		host = strings.TrimPrefix(host, "https://")
	} else if strings.HasPrefix(host, "http://") {
		host = strings.TrimPrefix(host, "http://")
		ep.Insecure = true
	}

	basePath := ""
	if idx := strings.Index(host, "/"); idx > 0 {
		basePath = host[idx:]
		host = host[:idx]
	}
	ep.Host = host

	if basePath != "" {
		basePath = strings.TrimSuffix(basePath, "/v1/traces")
		basePath = strings.TrimSuffix(basePath, "/v1/metrics")
		basePath = strings.TrimSuffix(basePath, "/v1/logs")
		basePath = strings.TrimSuffix(basePath, "/")
		ep.TracePath = basePath + "/v1/traces"
		ep.MetricPath = basePath + "/v1/metrics"
		ep.LogPath = basePath + "/v1/logs"
	}
	return ep
}

// InitTelemetry initializes OpenTelemetry traces, metrics and logs with OTLP/HTTP exporters.
// With an empty endpoint only the propagator is installed.
// Returns shutdown function and error
func InitTelemetry(ctx context.Context, serviceName, serviceVersion, env, otlpEndpoint string, headers map[string]string) (func(context.Context) error, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if otlpEndpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(serviceVersion),
			semconv.DeploymentEnvironmentKey.String(env),
		),
	)
	if err != nil {
		return nil, err
	}

	ep := ParseEndpoint(otlpEndpoint)

	traceOpts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(ep.Host),
		otlptracehttp.WithURLPath(ep.TracePath),
	}
	metricOpts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(ep.Host),
		otlpmetrichttp.WithURLPath(ep.MetricPath),
	}
	logOpts := []otlploghttp.Option{
		otlploghttp.WithEndpoint(ep.Host),
		otlploghttp.WithURLPath(ep.LogPath),
	}
	if len(headers) > 0 {
		traceOpts = append(traceOpts, otlptracehttp.WithHeaders(headers))
		metricOpts = append(metricOpts, otlpmetrichttp.WithHeaders(headers))
		logOpts = append(logOpts, otlploghttp.WithHeaders(headers))
	}
	if ep.Insecure {
		traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
		metricOpts = append(metricOpts, otlpmetrichttp.WithInsecure())
		logOpts = append(logOpts, otlploghttp.WithInsecure())
	}

	traceExporter, err := otlptracehttp.New(ctx, traceOpts...)
	if err != nil {
		return nil, err
	}
	metricExporter, err := otlpmetrichttp.New(ctx, metricOpts...)
	if err != nil {
		return nil, err
	}
	logExporter, err := otlploghttp.New(ctx, logOpts...)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	lp := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)
	global.SetLoggerProvider(lp)

	slog.Info("Telemetry initialized",
		"endpoint", ep.Host,
		"trace_path", ep.TracePath,
		"metric_path", ep.MetricPath,
		"log_path", ep.LogPath,
		"insecure", ep.Insecure,
	)

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx), lp.Shutdown(ctx))
	}, nil
}

// Tracer returns a tracer with the given name
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
