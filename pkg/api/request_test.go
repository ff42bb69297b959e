package api

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hunterhq/relay/pkg/analysis"
)

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantErr  bool
		wantCode string
	}{
		{
			name: "valid request",
			body: `{"prompt": "Hello"}`,
		},
		{
			name: "valid request with all fields",
			body: `{"prompt": "Hello", "provider": "claude", "temperature": 0.5, "max_tokens": 100, "system_prompt": "Be brief.", "stream": true}`,
		},
		{
			name:     "invalid JSON",
			body:     `{"prompt": `,
			wantErr:  true,
			wantCode: CodeInvalidJSON,
		},
		{
			name:     "empty body",
			body:     ``,
			wantErr:  true,
			wantCode: CodeInvalidJSON,
		},
		{
			name:     "JSON array instead of object",
			body:     `["prompt"]`,
			wantErr:  true,
			wantCode: CodeInvalidJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/ai/generate", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			var dst GenerateRequest
			err := DecodeRequest(req, &dst)

			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}

			var reqErr *RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("error should be a *RequestError, got %T", err)
			}
			if reqErr.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", reqErr.Code, tt.wantCode)
			}
		})
	}
}

func TestDecodeRequest_BodyTooLarge(t *testing.T) {
	body := bytes.Repeat([]byte("a"), MaxRequestBodySize+1)

	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate", bytes.NewReader(body))

	var dst GenerateRequest
	err := DecodeRequest(req, &dst)
	if err == nil {
		t.Fatal("expected error for oversized body")
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error should be a *RequestError, got %T", err)
	}
	if reqErr.Code != CodeRequestTooLarge {
		t.Errorf("Code = %q, want %q", reqErr.Code, CodeRequestTooLarge)
	}
}

func TestGenerateRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		req       GenerateRequest
		wantParam string
	}{
		{
			name: "valid request",
			req:  GenerateRequest{Prompt: "Hello"},
		},
		{
			name: "valid with optional fields",
			req:  GenerateRequest{Prompt: "Hello", Provider: "ollama", Temperature: 1.2, MaxTokens: 256},
		},
		{
			name:      "missing prompt",
			req:       GenerateRequest{Provider: "openai"},
			wantParam: "prompt",
		},
		{
			name:      "negative max_tokens",
			req:       GenerateRequest{Prompt: "Hello", MaxTokens: -1},
			wantParam: "max_tokens",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()

			if tt.wantParam == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}

			var reqErr *RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("error should be a *RequestError, got %T", err)
			}
			if reqErr.Param != tt.wantParam {
				t.Errorf("Param = %q, want %q", reqErr.Param, tt.wantParam)
			}
		})
	}
}

func TestTextRequests_Validate(t *testing.T) {
	if err := (&SentimentRequest{Text: "great service"}).Validate(); err != nil {
		t.Errorf("SentimentRequest.Validate() unexpected error: %v", err)
	}
	if err := (&SentimentRequest{}).Validate(); err == nil {
		t.Error("SentimentRequest.Validate() should reject empty text")
	}

	if err := (&IntentRequest{Text: "cancel my account"}).Validate(); err != nil {
		t.Errorf("IntentRequest.Validate() unexpected error: %v", err)
	}
	if err := (&IntentRequest{}).Validate(); err == nil {
		t.Error("IntentRequest.Validate() should reject empty text")
	}
}

func TestResponseGenerationRequest_Validate(t *testing.T) {
	valid := ResponseGenerationRequest{CustomerMessage: "Where is my order?", Tone: "friendly"}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}

	// Tone is checked by the analysis layer, not here.
	oddTone := ResponseGenerationRequest{CustomerMessage: "Hi", Tone: "sarcastic"}
	if err := oddTone.Validate(); err != nil {
		t.Errorf("Validate() should not check tone, got: %v", err)
	}

	missing := ResponseGenerationRequest{Tone: "friendly"}
	err := missing.Validate()
	if err == nil {
		t.Fatal("Validate() should reject a missing customer_message")
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error should be a *RequestError, got %T", err)
	}
	if reqErr.Param != "customer_message" {
		t.Errorf("Param = %q, want customer_message", reqErr.Param)
	}
}

func TestConversationSummaryRequest_Validate(t *testing.T) {
	var absent ConversationSummaryRequest
	if err := absent.Validate(); err == nil {
		t.Error("Validate() should reject absent messages")
	}

	// An explicitly empty conversation is allowed.
	empty := ConversationSummaryRequest{Messages: []analysis.Message{}}
	if err := empty.Validate(); err != nil {
		t.Errorf("Validate() should allow an empty conversation, got: %v", err)
	}

	populated := ConversationSummaryRequest{Messages: []analysis.Message{
		{Sender: "Customer", Content: "Hello"},
		{Sender: "Agent", Content: "Hi, how can I help?"},
	}}
	if err := populated.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}
