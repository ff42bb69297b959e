package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"hunterhq/relay/pkg/analysis"
)

const (
	// MaxRequestBodySize is the maximum allowed request body size (10MB).
	MaxRequestBodySize = 10 * 1024 * 1024

	// RequestIDHeader is the HTTP header for request ID propagation.
	RequestIDHeader = "X-Request-ID"

	// UserIDHeader identifies the API consumer for quota accounting.
	UserIDHeader = "X-User-ID"
)

// GenerateRequest is the body of POST /api/ai/generate.
type GenerateRequest struct {
	// Prompt is the text prompt for generation (required).
	Prompt string `json:"prompt"`

	// Provider optionally names the backend to try first.
	Provider string `json:"provider,omitempty"`

	// Temperature controls randomness; zero uses the adapter default.
	Temperature float64 `json:"temperature,omitempty"`

	// MaxTokens caps the response length; zero uses the adapter default.
	MaxTokens int `json:"max_tokens,omitempty"`

	// SystemPrompt is an optional system instruction.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Stream switches the response to Server-Sent Events.
	Stream bool `json:"stream,omitempty"`
}

// Validate checks required fields and constraints.
func (r *GenerateRequest) Validate() error {
	if r.Prompt == "" {
		return &RequestError{Message: "prompt is required", Code: CodeMissingField, Param: "prompt"}
	}
	if r.MaxTokens < 0 {
		return &RequestError{Message: "max_tokens must be positive", Code: CodeInvalidValue, Param: "max_tokens"}
	}
	return nil
}

// GenerateResponse is the body returned by POST /api/ai/generate. Provider
// and Model describe the backend that actually served the request, which
// may differ from the requested one when fallback occurred.
type GenerateResponse struct {
	Response string `json:"response"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// SentimentRequest is the body of POST /api/ai/sentiment.
type SentimentRequest struct {
	// Text is the text to classify (required).
	Text string `json:"text"`
}

// Validate checks required fields.
func (r *SentimentRequest) Validate() error {
	if r.Text == "" {
		return &RequestError{Message: "text is required", Code: CodeMissingField, Param: "text"}
	}
	return nil
}

// IntentRequest is the body of POST /api/ai/intent.
type IntentRequest struct {
	// Text is the text to extract intent from (required).
	Text string `json:"text"`
}

// Validate checks required fields.
func (r *IntentRequest) Validate() error {
	if r.Text == "" {
		return &RequestError{Message: "text is required", Code: CodeMissingField, Param: "text"}
	}
	return nil
}

// ResponseGenerationRequest is the body of POST /api/ai/generate-response.
type ResponseGenerationRequest struct {
	// CustomerMessage is the message to respond to (required).
	CustomerMessage string `json:"customer_message"`

	// Context carries optional customer or conversation details.
	Context map[string]any `json:"context,omitempty"`

	// Tone selects the response register; empty defaults to professional.
	Tone string `json:"tone,omitempty"`
}

// Validate checks required fields. Tone is validated by the analysis
// layer so the canonical list lives in one place.
func (r *ResponseGenerationRequest) Validate() error {
	if r.CustomerMessage == "" {
		return &RequestError{Message: "customer_message is required", Code: CodeMissingField, Param: "customer_message"}
	}
	return nil
}

// ResponseGenerationResponse is the body returned by POST /api/ai/generate-response.
type ResponseGenerationResponse struct {
	Response string `json:"response"`
	Tone     string `json:"tone"`
}

// ConversationSummaryRequest is the body of POST /api/ai/summarize-conversation.
type ConversationSummaryRequest struct {
	// Messages is the conversation to summarize (required, may be empty).
	Messages []analysis.Message `json:"messages"`
}

// Validate checks required fields. An empty list is valid; an absent one
// is not.
func (r *ConversationSummaryRequest) Validate() error {
	if r.Messages == nil {
		return &RequestError{Message: "messages is required", Code: CodeMissingField, Param: "messages"}
	}
	return nil
}

// ConversationSummaryResponse is the body returned by POST /api/ai/summarize-conversation.
type ConversationSummaryResponse struct {
	Summary      string `json:"summary"`
	MessageCount int    `json:"message_count"`
}

// DecodeRequest parses an HTTP request body into dst, enforcing the size
// limit. Validation stays with the caller: decode tells you the JSON was
// readable, Validate tells you it made sense.
func DecodeRequest(r *http.Request, dst any) error {
	limitedReader := io.LimitReader(r.Body, MaxRequestBodySize)

	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}

	if len(body) >= MaxRequestBodySize {
		return &RequestError{
			Message: fmt.Sprintf("request body exceeds maximum size of %d bytes", MaxRequestBodySize),
			Code:    CodeRequestTooLarge,
			Param:   "body",
		}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return &RequestError{
			Message: fmt.Sprintf("invalid JSON: %v", err),
			Code:    CodeInvalidJSON,
			Param:   "body",
		}
	}

	return nil
}

// RequestError represents a request parsing or validation error.
type RequestError struct {
	Message string
	Code    string
	Param   string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Message
}

// ToErrorResponse converts a RequestError to the API error envelope.
func (e *RequestError) ToErrorResponse() *ErrorResponse {
	return NewInvalidRequestError(e.Message, e.Param, e.Code)
}
