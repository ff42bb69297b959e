package claude

import (
	"fmt"

	"hunterhq/relay/pkg/providers"
)

// Anthropic API request/response types

// ClaudeRequest represents an Anthropic messages request.
type ClaudeRequest struct {
	Model       string          `json:"model"`
	Messages    []ClaudeMessage `json:"messages"`
	System      string          `json:"system,omitempty"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature,omitempty"`
}

// ClaudeMessage represents a message in Anthropic format.
type ClaudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ContentBlock represents a content block in an Anthropic response.
type ContentBlock struct {
	Type string `json:"type"` // "text"
	Text string `json:"text,omitempty"`
}

// ClaudeResponse represents an Anthropic messages response.
type ClaudeResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Content    []ContentBlock `json:"content"`
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason"`
	Usage      ClaudeUsage    `json:"usage"`
}

// ClaudeUsage represents token usage in Anthropic format.
type ClaudeUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Transformation functions

// transformRequest transforms a normalized request to Anthropic format.
// The prompt becomes a single user message; the system prompt, when present,
// goes to Anthropic's dedicated top-level field. Temperature is only sent
// when the request sets one, leaving the backend default otherwise.
func transformRequest(req *providers.GenerationRequest, model string) *ClaudeRequest {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}

	return &ClaudeRequest{
		Model: model,
		Messages: []ClaudeMessage{
			{Role: "user", Content: req.Prompt},
		},
		System:      req.SystemPrompt,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	}
}

// extractText extracts the generated text from an Anthropic response,
// concatenating all text content blocks.
func extractText(resp *ClaudeResponse) (string, error) {
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("no content blocks in response")
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return text, nil
}
