// Package telemetry provides OpenTelemetry initialization and helpers
// for tracing, metrics and log export from the ChefGPT service.
//
// Signals are exported over OTLP/HTTP to a single collector endpoint.
package telemetry
