package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoggingMiddleware_PassesThrough(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	})

	wrapped := LoggingMiddleware(handler)

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	w := httptest.NewRecorder()

	wrapped.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %v, want %v", w.Code, http.StatusCreated)
	}
	if w.Body.String() != "created" {
		t.Errorf("Body = %q, want %q", w.Body.String(), "created")
	}
}

func TestLoggingMiddleware_PreservesFlusher(t *testing.T) {
	// SSE handlers type-assert http.Flusher on the writer they are
	// given; the wrapper must not hide it.
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Fatal("wrapped writer should still support flushing")
		}
		flusher.Flush()
	})

	wrapped := LoggingMiddleware(handler)

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	if !w.Flushed {
		t.Error("Flush should reach the underlying writer")
	}
}

func TestResponseWriter_CapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.WriteHeader(http.StatusTeapot)
	rw.WriteHeader(http.StatusOK)

	if rw.statusCode != http.StatusTeapot {
		t.Errorf("statusCode = %v, want %v (first write wins)", rw.statusCode, http.StatusTeapot)
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("recorded code = %v, want %v", rec.Code, http.StatusTeapot)
	}
}

func TestResponseWriter_DefaultsTo200OnWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	if _, err := rw.Write([]byte("body")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if rw.statusCode != http.StatusOK {
		t.Errorf("statusCode = %v, want %v", rw.statusCode, http.StatusOK)
	}
	if rec.Body.String() != "body" {
		t.Errorf("Body = %q, want %q", rec.Body.String(), "body")
	}
}
