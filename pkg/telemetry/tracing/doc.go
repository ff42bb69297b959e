// Package tracing provides OpenTelemetry distributed tracing for the
// relay gateway.
//
// # Overview
//
// The tracing package implements W3C Trace Context propagation, span
// creation, and trace export over OTLP gRPC. It gives visibility into a
// request's path through the router: one span per routed operation with
// a child span per backend attempt, so a fallback walk reads directly
// off the trace.
//
// # Trace Context Propagation
//
// The package implements W3C Trace Context
// (https://www.w3.org/TR/trace-context/) for propagating trace context
// across HTTP boundaries:
//
//	traceparent: 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//
// # Sampling
//
// Sampling is ratio-based on the trace id (consistent decisions across
// services) and parent-based, so an upstream sampling decision is always
// respected. Ratio 1.0 samples everything, 0.0 nothing.
//
// # Usage
//
//	cfg := &config.TracingConfig{
//	    Enabled:     true,
//	    Endpoint:    "localhost:4317",
//	    ServiceName: "relay",
//	    SampleRatio: 0.1,
//	    Insecure:    true,
//	}
//	tracer, err := tracing.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "relay.generate")
//	defer span.End()
//	tracing.SetProviderAttributes(span, "openai", "gpt-4o-mini")
//
// # Span Hierarchy
//
// Spans form a hierarchy representing the fallback walk:
//
//	relay.router.generate (2.1s)
//	├── relay.router.attempt openai (1.8s, error: timeout)
//	└── relay.router.attempt claude (0.3s)
//
// # HTTP Integration
//
// Mount HTTPMiddleware on the server so incoming traceparent headers are
// extracted into the request context; spans started by the router then
// join the caller's trace. When tracing is disabled New returns a noop
// tracer and the middleware degrades to context passthrough.
package tracing
