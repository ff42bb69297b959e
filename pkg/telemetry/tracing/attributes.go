package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span Attribute Helpers
//
// These functions set common attributes on spans with consistent naming
// across the codebase. Standard keys follow OpenTelemetry semantic
// conventions (http.*, rpc.*); custom keys use the "relay.*" namespace.

// Common attribute keys used throughout the system
const (
	// Backend attributes
	AttrProvider = "relay.provider"
	AttrModel    = "relay.model"

	// Request attributes
	AttrRequestID = "relay.request_id"
	AttrOperation = "relay.operation"

	// Routing attributes
	AttrRequestedProvider = "relay.requested_provider"
	AttrFallback          = "relay.fallback"
	AttrAttempts          = "relay.attempts"
	AttrCause             = "relay.cause"

	// Cache attributes
	AttrCacheHit  = "relay.cache.hit"
	AttrCacheName = "relay.cache.name"

	// Error attributes
	AttrErrorMessage = "error.message"
)

// SetProviderAttributes sets backend-related attributes on a span.
func SetProviderAttributes(span trace.Span, provider, model string) {
	span.SetAttributes(
		attribute.String(AttrProvider, provider),
		attribute.String(AttrModel, model),
	)
}

// SetOperationAttributes sets the operation name and request id on a
// span. Empty values are skipped.
func SetOperationAttributes(span trace.Span, operation, requestID string) {
	attrs := make([]attribute.KeyValue, 0, 2)
	if operation != "" {
		attrs = append(attrs, attribute.String(AttrOperation, operation))
	}
	if requestID != "" {
		attrs = append(attrs, attribute.String(AttrRequestID, requestID))
	}
	span.SetAttributes(attrs...)
}

// SetRoutingAttributes records how the router resolved a request: the
// backend the caller asked for and how many failed attempts preceded the
// outcome. A fallback flag is set when a later backend served.
func SetRoutingAttributes(span trace.Span, requestedProvider string, attempts int, fallback bool) {
	span.SetAttributes(
		attribute.String(AttrRequestedProvider, requestedProvider),
		attribute.Int(AttrAttempts, attempts),
		attribute.Bool(AttrFallback, fallback),
	)
}

// SetCauseAttribute records the failure category of a failed backend
// attempt.
func SetCauseAttribute(span trace.Span, cause string) {
	span.SetAttributes(attribute.String(AttrCause, cause))
}

// SetCacheAttributes sets cache-related attributes on a span.
func SetCacheAttributes(span trace.Span, hit bool, cacheName string) {
	span.SetAttributes(
		attribute.Bool(AttrCacheHit, hit),
		attribute.String(AttrCacheName, cacheName),
	)
}

// SetErrorAttributes records the error on the span with its failure
// category and marks the span status as Error.
func SetErrorAttributes(span trace.Span, err error, cause string) {
	if err == nil {
		return
	}

	span.SetAttributes(
		attribute.Bool("error", true),
		attribute.String(AttrCause, cause),
		attribute.String(AttrErrorMessage, err.Error()),
	)

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddEvent adds a named event to the span with optional attributes.
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
