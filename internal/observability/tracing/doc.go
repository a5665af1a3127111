// Package tracing wires OpenTelemetry into sportsdesk.
//
// Setup installs a global tracer provider that exports spans over OTLP/HTTP
// when an endpoint is configured, and is a no-op otherwise. Middleware starts
// a server span per HTTP request; StartSpan opens child spans in use cases:
//
//	shutdown, err := tracing.Setup(ctx, "sportsdesk-api")
//	defer shutdown(context.Background())
//
//	ctx, span := tracing.StartSpan(ctx, "feed.Home")
//	defer span.End()
package tracing
