// Package observability provides structured logging, Prometheus metrics,
// optional OpenTelemetry tracing, and graceful shutdown for the gateway.
//
// # Logging
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("route", path).Info("navigation allowed")
//
// Loggers travel through the request context; FromContext enriches them with
// the request, user, and tenant identifiers put there by the middleware.
//
// # Metrics
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	healthMux.Handle("/metrics", observability.Handler(registry))
//
// # Tracing
//
// Tracing is env-gated. When enabled, InitTracing installs a global OTLP/gRPC
// tracer provider; the platform client wraps its transport with otelhttp so
// every upstream call produces a span.
package observability
