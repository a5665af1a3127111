// Package observability groups the logging, metrics and tracing packages
// shared by the sportsdesk binaries.
//
// Subpackages:
//   - logging: slog construction and context propagation
//   - metrics: Prometheus collectors for HTTP, database and editorial activity
//   - tracing: OpenTelemetry provider setup and HTTP middleware
package observability
