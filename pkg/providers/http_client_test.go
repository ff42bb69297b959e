package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testClientConfig(baseURL string) Config {
	return Config{
		Name:       "test",
		BaseURL:    baseURL,
		APIKey:     "test-key",
		Timeout:    5 * time.Second,
		MaxRetries: 2,
	}
}

func TestHTTPClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewHTTPClient(testClientConfig(server.URL))
	defer client.Close()

	resp, err := client.DoRequest(context.Background(), "GET", server.URL, nil, nil)
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	resp.Body.Close()

	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestHTTPClient_NoRetryOnAuthError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewHTTPClient(testClientConfig(server.URL))
	defer client.Close()

	_, err := client.DoRequest(context.Background(), "GET", server.URL, nil, nil)
	if err == nil {
		t.Fatal("expected auth error, got nil")
	}

	if _, ok := err.(*AuthError); !ok {
		t.Fatalf("expected AuthError, got %T: %v", err, err)
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected 1 attempt (no retries), got %d", got)
	}
}

func TestHTTPClient_NoRetryOnRateLimit(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewHTTPClient(testClientConfig(server.URL))
	defer client.Close()

	_, err := client.DoRequest(context.Background(), "GET", server.URL, nil, nil)
	if err == nil {
		t.Fatal("expected rate limit error, got nil")
	}

	rateLimitErr, ok := err.(*RateLimitError)
	if !ok {
		t.Fatalf("expected RateLimitError, got %T: %v", err, err)
	}

	if rateLimitErr.RetryAfter != 30*time.Second {
		t.Errorf("expected retry after 30s, got %s", rateLimitErr.RetryAfter)
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected 1 attempt (no retries), got %d", got)
	}
}

func TestHTTPClient_NoRetryOnBadRequest(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewHTTPClient(testClientConfig(server.URL))
	defer client.Close()

	_, err := client.DoRequest(context.Background(), "GET", server.URL, nil, nil)
	if err == nil {
		t.Fatal("expected provider error, got nil")
	}

	providerErr, ok := err.(*ProviderError)
	if !ok {
		t.Fatalf("expected ProviderError, got %T: %v", err, err)
	}

	if providerErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", providerErr.StatusCode)
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected 1 attempt (no retries), got %d", got)
	}
}

func TestHTTPClient_TimeoutClassification(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	config := testClientConfig(server.URL)
	config.Timeout = 50 * time.Millisecond
	client := NewHTTPClient(config)
	defer client.Close()

	_, err := client.DoRequest(context.Background(), "GET", server.URL, nil, nil)
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}

	if _, ok := err.(*TimeoutError); !ok {
		t.Fatalf("expected TimeoutError, got %T: %v", err, err)
	}
}

func TestHTTPClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(testClientConfig(server.URL))
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := client.DoRequest(ctx, "GET", server.URL, nil, nil)
	if err == nil {
		t.Fatal("expected error after cancellation, got nil")
	}

	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestHTTPClient_DoJSONRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected JSON content type, got %s", r.Header.Get("Content-Type"))
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"value":"hello"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(testClientConfig(server.URL))
	defer client.Close()

	var out struct {
		Value string `json:"value"`
	}
	err := client.DoJSONRequest(context.Background(), "POST", server.URL, map[string]string{"in": "x"}, &out, nil)
	if err != nil {
		t.Fatalf("DoJSONRequest failed: %v", err)
	}

	if out.Value != "hello" {
		t.Errorf("expected value hello, got %q", out.Value)
	}
}

func TestHTTPClient_DoJSONRequest_ParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{invalid`))
	}))
	defer server.Close()

	client := NewHTTPClient(testClientConfig(server.URL))
	defer client.Close()

	var out map[string]interface{}
	err := client.DoJSONRequest(context.Background(), "POST", server.URL, nil, &out, nil)
	if err == nil {
		t.Fatal("expected parse error, got nil")
	}

	parseErr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}

	if parseErr.RawResponse != `{invalid` {
		t.Errorf("expected raw response preserved, got %q", parseErr.RawResponse)
	}
}

func TestHTTPClient_Accessors(t *testing.T) {
	config := testClientConfig("http://example.test")
	config.Model = "gpt-4-turbo-preview"
	client := NewHTTPClient(config)
	defer client.Close()

	if client.Name() != "test" {
		t.Errorf("expected name test, got %s", client.Name())
	}

	if client.Model() != "gpt-4-turbo-preview" {
		t.Errorf("expected configured model, got %s", client.Model())
	}

	// No model configured reports the auto sentinel
	config.Model = ""
	bare := NewHTTPClient(config)
	defer bare.Close()

	if bare.Model() != ModelAuto {
		t.Errorf("expected %q for unset model, got %q", ModelAuto, bare.Model())
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{"empty", "", 0},
		{"seconds", "30", 30 * time.Second},
		{"zero seconds", "0", 0},
		{"garbage", "soon", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseRetryAfter(tt.header); got != tt.want {
				t.Errorf("parseRetryAfter(%q) = %s, want %s", tt.header, got, tt.want)
			}
		})
	}
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name      string
		req       *GenerationRequest
		wantField string
	}{
		{"nil request", nil, "request"},
		{"empty prompt", &GenerationRequest{}, "prompt"},
		{"negative max tokens", &GenerationRequest{Prompt: "hi", MaxTokens: -5}, "max_tokens"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.req)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}

			validationErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected ValidationError, got %T", err)
			}

			if validationErr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, validationErr.Field)
			}
		})
	}

	if err := ValidateRequest(&GenerationRequest{Prompt: "hi"}); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}
}
