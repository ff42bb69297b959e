package gemini

import (
	"fmt"

	"hunterhq/relay/pkg/providers"
)

// Gemini API request/response types

// GeminiRequest represents a generateContent request.
type GeminiRequest struct {
	Contents         []GeminiContent  `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

// GeminiContent represents a content entry with its parts.
type GeminiContent struct {
	Parts []GeminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

// GeminiPart represents a single text part.
type GeminiPart struct {
	Text string `json:"text"`
}

// GenerationConfig carries the sampling parameters in Gemini format.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// GeminiResponse represents a generateContent response.
type GeminiResponse struct {
	Candidates    []GeminiCandidate `json:"candidates"`
	UsageMetadata GeminiUsage       `json:"usageMetadata"`
}

// GeminiCandidate represents one generated candidate.
type GeminiCandidate struct {
	Content      GeminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
	Index        int           `json:"index"`
}

// GeminiUsage represents token usage in Gemini format.
type GeminiUsage struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// Transformation functions

// transformRequest transforms a normalized request to Gemini format.
// Gemini has no separate system channel here; a system prompt is folded
// into the text ahead of the prompt.
func transformRequest(req *providers.GenerationRequest) *GeminiRequest {
	text := req.Prompt
	if req.SystemPrompt != "" {
		text = req.SystemPrompt + "\n\n" + req.Prompt
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = providers.DefaultTemperature
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = providers.DefaultMaxTokens
	}

	return &GeminiRequest{
		Contents: []GeminiContent{
			{Parts: []GeminiPart{{Text: text}}},
		},
		GenerationConfig: GenerationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxTokens,
		},
	}
}

// extractText extracts the generated text from a Gemini response,
// reading the first candidate's parts.
func extractText(resp *GeminiResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", fmt.Errorf("no parts in candidate content")
	}

	var text string
	for _, part := range parts {
		text += part.Text
	}

	return text, nil
}
