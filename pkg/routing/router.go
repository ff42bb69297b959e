package routing

import (
	"context"
	"log/slog"
	"time"

	"hunterhq/relay/pkg/providers"
	"hunterhq/relay/pkg/registry"
	"hunterhq/relay/pkg/telemetry/logging"
	"hunterhq/relay/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Router dispatches generation requests across the registered backends.
//
// Every request resolves to a starting backend (explicit override, else the
// configured default, with the auto sentinel and unregistered names falling
// back to the first registered backend). If the starting backend fails the
// router walks the remaining backends in registration order, each attempted
// at most once, strictly sequentially. Only when every backend has failed
// does the request fail, with one attempt record per backend.
//
// Router holds no mutable state besides atomic counters; concurrent calls
// are independent.
type Router struct {
	registry  *registry.Registry
	stats     *AtomicStats
	observers MultiObserver
	tracer    trace.Tracer
}

// NewRouter creates a router over the given registry. Observers, if any,
// receive a report after every completed operation. Spans are emitted
// through the globally installed tracer provider; without one they are
// noops.
func NewRouter(reg *registry.Registry, observers ...Observer) *Router {
	return &Router{
		registry:  reg,
		stats:     NewAtomicStats(),
		observers: MultiObserver(observers),
		tracer:    otel.Tracer("hunterhq/relay/pkg/routing"),
	}
}

// Generate routes the request to a backend and returns its response.
//
// An empty registry fails immediately with ErrNoProvidersAvailable and zero
// backend invocations. When all backends fail the returned error is an
// *AllProvidersFailedError carrying exactly one attempt record per backend
// in attempt order. Context cancellation stops the fallback walk and returns
// the context error unwrapped.
func (r *Router) Generate(ctx context.Context, req *providers.GenerationRequest) (*providers.GenerationResult, error) {
	start := time.Now()
	r.stats.IncrementTotal()

	ctx, span := r.tracer.Start(ctx, "relay.router.generate")
	defer span.End()
	tracing.SetOperationAttributes(span, OperationFromContext(ctx, OperationGenerate), logging.GetRequestID(ctx))

	if err := providers.ValidateRequest(req); err != nil {
		r.stats.IncrementErrors()
		tracing.SetStatus(span, err)
		return nil, err
	}

	if ctx.Err() != nil {
		r.stats.IncrementErrors()
		tracing.SetStatus(span, ctx.Err())
		return nil, ctx.Err()
	}

	ordered := r.registry.Providers()
	names := r.registry.Names()
	if len(ordered) == 0 {
		r.stats.IncrementErrors()
		tracing.SetStatus(span, ErrNoProvidersAvailable)
		r.report(ctx, Report{
			Operation:         OperationGenerate,
			RequestedProvider: req.Provider,
			Err:               ErrNoProvidersAvailable,
			Duration:          time.Since(start),
			PromptChars:       len(req.Prompt),
		})
		return nil, ErrNoProvidersAvailable
	}

	requested, startIdx, substituted := r.resolveStart(req.Provider, names)

	var attempts []Attempt
	for position, idx := range attemptOrder(len(ordered), startIdx) {
		if ctx.Err() != nil {
			r.stats.IncrementErrors()
			tracing.SetStatus(span, ctx.Err())
			return nil, ctx.Err()
		}

		provider := ordered[idx]
		name := names[idx]

		attemptCtx, attemptSpan := r.tracer.Start(ctx, "relay.router.attempt")
		tracing.SetProviderAttributes(attemptSpan, name, provider.Model())

		text, err := provider.Generate(attemptCtx, req)
		if err == nil {
			tracing.SetStatus(attemptSpan, nil)
			attemptSpan.End()

			if position > 0 {
				r.stats.IncrementFallback()
				slog.Info("fallback provider succeeded",
					"provider", name,
					"requested", requested,
					"failed_attempts", len(attempts),
				)
			}
			r.stats.IncrementProvider(name)

			result := &providers.GenerationResult{
				Text:     text,
				Provider: name,
				Model:    provider.Model(),
			}
			tracing.SetProviderAttributes(span, name, result.Model)
			tracing.SetRoutingAttributes(span, requested, len(attempts), position > 0)
			tracing.SetStatus(span, nil)

			r.report(ctx, Report{
				Operation:         OperationGenerate,
				RequestedProvider: requested,
				Substituted:       substituted,
				ActualProvider:    name,
				Model:             result.Model,
				Attempts:          attempts,
				Duration:          time.Since(start),
				PromptChars:       len(req.Prompt),
				ResponseChars:     len(text),
			})
			return result, nil
		}

		cause := providers.CauseOf(err)
		tracing.SetErrorAttributes(attemptSpan, err, string(cause))
		attemptSpan.End()

		attempts = append(attempts, Attempt{Provider: name, Cause: cause, Err: err})
		slog.Warn("provider attempt failed",
			"provider", name,
			"cause", cause,
			"attempt", position+1,
			"remaining", len(ordered)-position-1,
			"error", err,
		)
	}

	r.stats.IncrementErrors()
	failure := &AllProvidersFailedError{Attempts: attempts}
	tracing.SetRoutingAttributes(span, requested, len(attempts), false)
	tracing.SetStatus(span, failure)
	r.report(ctx, Report{
		Operation:         OperationGenerate,
		RequestedProvider: requested,
		Substituted:       substituted,
		Attempts:          attempts,
		Err:               failure,
		Duration:          time.Since(start),
		PromptChars:       len(req.Prompt),
	})
	return nil, failure
}

// StreamGenerate resolves a backend the same way Generate does and opens a
// streaming generation on it. Streams do not fall back: once chunks may have
// reached the caller the request is no longer retryable, so resolution and
// setup failures surface immediately. The resolved backend must implement
// StreamingProvider or the call fails with a StreamingNotSupportedError.
func (r *Router) StreamGenerate(ctx context.Context, req *providers.GenerationRequest) (<-chan providers.Chunk, error) {
	start := time.Now()
	r.stats.IncrementTotal()

	ctx, span := r.tracer.Start(ctx, "relay.router.stream_generate")
	tracing.SetOperationAttributes(span, OperationFromContext(ctx, OperationStreamGenerate), logging.GetRequestID(ctx))

	if err := providers.ValidateRequest(req); err != nil {
		r.stats.IncrementErrors()
		tracing.SetStatus(span, err)
		span.End()
		return nil, err
	}

	ordered := r.registry.Providers()
	names := r.registry.Names()
	if len(ordered) == 0 {
		r.stats.IncrementErrors()
		tracing.SetStatus(span, ErrNoProvidersAvailable)
		span.End()
		r.report(ctx, Report{
			Operation:         OperationStreamGenerate,
			RequestedProvider: req.Provider,
			Err:               ErrNoProvidersAvailable,
			Duration:          time.Since(start),
			PromptChars:       len(req.Prompt),
		})
		return nil, ErrNoProvidersAvailable
	}

	requested, startIdx, substituted := r.resolveStart(req.Provider, names)
	provider := ordered[startIdx]
	name := names[startIdx]

	tracing.SetProviderAttributes(span, name, provider.Model())

	streamer, ok := provider.(providers.StreamingProvider)
	if !ok {
		r.stats.IncrementErrors()
		err := &StreamingNotSupportedError{Provider: name}
		tracing.SetStatus(span, err)
		span.End()
		return nil, err
	}

	chunks, err := streamer.StreamGenerate(ctx, req)
	if err != nil {
		r.stats.IncrementErrors()
		tracing.SetErrorAttributes(span, err, string(providers.CauseOf(err)))
		span.End()
		r.report(ctx, Report{
			Operation:         OperationStreamGenerate,
			RequestedProvider: requested,
			Substituted:       substituted,
			ActualProvider:    name,
			Model:             provider.Model(),
			Err:               err,
			Duration:          time.Since(start),
			PromptChars:       len(req.Prompt),
		})
		return nil, err
	}

	r.stats.IncrementProvider(name)

	rep := Report{
		Operation:         OperationStreamGenerate,
		RequestedProvider: requested,
		Substituted:       substituted,
		ActualProvider:    name,
		Model:             provider.Model(),
		PromptChars:       len(req.Prompt),
	}

	// The span stays open until the stream finishes; forwardStream ends it.
	out := make(chan providers.Chunk)
	go r.forwardStream(ctx, start, span, rep, chunks, out)
	return out, nil
}

// Stats returns a snapshot of router statistics.
func (r *Router) Stats() *Stats {
	return r.stats.Snapshot()
}

// resolveStart maps the requested backend name to the index attempted first.
// The empty name takes the configured default; the auto sentinel and any
// unregistered name resolve to the first registered backend. Substituting
// for an unregistered name logs a warning, never errors.
func (r *Router) resolveStart(override string, names []string) (requested string, startIdx int, substituted bool) {
	requested = override
	if requested == "" {
		requested = r.registry.Default()
	}

	if requested == registry.AutoProvider {
		slog.Debug("auto provider requested, using first registered",
			"provider", names[0],
		)
		return requested, 0, false
	}

	for i, name := range names {
		if name == requested {
			return requested, i, false
		}
	}

	r.stats.IncrementSubstitution()
	slog.Warn("requested provider not registered, using first registered",
		"requested", requested,
		"provider", names[0],
	)
	return requested, 0, true
}

// forwardStream relays chunks to the caller, sizing the response and
// capturing any mid-stream error, then closes out the span and reports
// the outcome once the source closes or the context is cancelled.
func (r *Router) forwardStream(ctx context.Context, start time.Time, span trace.Span, rep Report, in <-chan providers.Chunk, out chan<- providers.Chunk) {
	defer close(out)

	var streamErr error

	finish := func(err error) {
		if streamErr != nil {
			err = streamErr
		}
		if err != nil {
			r.stats.IncrementErrors()
		}
		rep.Err = err
		rep.Duration = time.Since(start)
		tracing.SetError(span, err)
		tracing.SetStatus(span, err)
		span.End()
		r.report(ctx, rep)
	}

	for {
		select {
		case chunk, ok := <-in:
			if !ok {
				finish(nil)
				return
			}
			if chunk.Err != nil {
				streamErr = chunk.Err
			}
			rep.ResponseChars += len(chunk.Text)
			select {
			case out <- chunk:
			case <-ctx.Done():
				finish(ctx.Err())
				return
			}
		case <-ctx.Done():
			finish(ctx.Err())
			return
		}
	}
}

// report delivers a completed-operation report to the configured observers.
func (r *Router) report(ctx context.Context, rep Report) {
	if len(r.observers) == 0 {
		return
	}
	rep.Operation = OperationFromContext(ctx, rep.Operation)
	rep.RequestID = logging.GetRequestID(ctx)
	r.observers.ObserveGenerate(rep)
}

// attemptOrder returns backend indexes starting at startIdx followed by the
// rest in registration order.
func attemptOrder(n, startIdx int) []int {
	order := make([]int, 0, n)
	order = append(order, startIdx)
	for i := 0; i < n; i++ {
		if i != startIdx {
			order = append(order, i)
		}
	}
	return order
}
