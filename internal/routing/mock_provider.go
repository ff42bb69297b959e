package routing

import (
	"context"
	"sync"
	"time"

	"hunterhq/relay/pkg/providers"
)

// MockProvider is a scriptable implementation of the Provider interface for
// testing the router. It records every call so tests can assert how many
// attempts a provider received and with what request.
type MockProvider struct {
	mu       sync.Mutex
	name     string
	model    string
	response string
	err      error
	errs     []error
	delay    time.Duration
	calls    int
	requests []*providers.GenerationRequest
	closed   bool
}

// NewMockProvider creates a new mock provider with the given name.
func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		name:     name,
		model:    "mock-model",
		response: "mock response",
	}
}

// SetResponse sets the text returned by successful Generate calls.
func (m *MockProvider) SetResponse(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.response = text
}

// SetModel sets the model identifier the mock reports.
func (m *MockProvider) SetModel(model string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.model = model
}

// SetError makes every Generate call fail with err.
func (m *MockProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetErrorSequence scripts per-call errors: call N returns errs[N-1].
// A nil entry means that call succeeds. Calls beyond the sequence succeed.
func (m *MockProvider) SetErrorSequence(errs ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = errs
}

// SetDelay makes Generate block for the given duration before returning.
func (m *MockProvider) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Generate returns the scripted response or error, recording the call.
func (m *MockProvider) Generate(ctx context.Context, req *providers.GenerationRequest) (string, error) {
	m.mu.Lock()
	m.calls++
	m.requests = append(m.requests, req)
	err := m.err
	if err == nil && len(m.errs) > 0 {
		if m.calls <= len(m.errs) {
			err = m.errs[m.calls-1]
		}
	}
	delay := m.delay
	response := m.response
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}

	if err != nil {
		return "", err
	}
	return response, nil
}

// Name returns the provider name.
func (m *MockProvider) Name() string {
	return m.name
}

// Model returns the configured model identifier.
func (m *MockProvider) Model() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.model
}

// Close marks the provider closed.
func (m *MockProvider) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Calls returns how many Generate calls the mock has received.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastRequest returns the most recent request, or nil if none.
func (m *MockProvider) LastRequest() *providers.GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// Closed reports whether Close has been called.
func (m *MockProvider) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// MockStreamingProvider is a MockProvider that also implements
// providers.StreamingProvider, emitting scripted chunks.
type MockStreamingProvider struct {
	*MockProvider
	chunks []string
}

// NewMockStreamingProvider creates a streaming mock with scripted chunks.
func NewMockStreamingProvider(name string, chunks ...string) *MockStreamingProvider {
	return &MockStreamingProvider{
		MockProvider: NewMockProvider(name),
		chunks:       chunks,
	}
}

// StreamGenerate emits the scripted chunks, or an error chunk when an error
// is scripted.
func (m *MockStreamingProvider) StreamGenerate(ctx context.Context, req *providers.GenerationRequest) (<-chan providers.Chunk, error) {
	m.mu.Lock()
	m.calls++
	m.requests = append(m.requests, req)
	err := m.err
	chunks := m.chunks
	m.mu.Unlock()

	out := make(chan providers.Chunk, len(chunks)+1)
	go func() {
		defer close(out)
		if err != nil {
			out <- providers.Chunk{Err: err}
			return
		}
		for _, text := range chunks {
			select {
			case out <- providers.Chunk{Text: text}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
