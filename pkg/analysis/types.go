package analysis

import (
	"context"

	"hunterhq/relay/pkg/providers"
)

// Operation names for the derived operations. They tag router observer
// reports and namespace cache entries.
const (
	OperationSentiment = "sentiment"
	OperationIntent    = "intent"
	OperationResponse  = "generate_response"
	OperationSummarize = "summarize_conversation"
)

// Tones accepted by DraftResponse.
const (
	ToneProfessional = "professional"
	ToneFriendly     = "friendly"
	ToneCasual       = "casual"
	ToneFormal       = "formal"
)

// DefaultTone is applied when DraftResponse receives an empty tone.
const DefaultTone = ToneProfessional

// SentimentResult is the parsed sentiment classification.
type SentimentResult struct {
	// Sentiment is positive, negative, or neutral
	Sentiment string `json:"sentiment"`

	// Confidence is the model's self-reported confidence from 0.0 to 1.0
	Confidence float64 `json:"confidence"`

	// Emotions lists detected emotions, possibly empty
	Emotions []string `json:"emotions"`

	// Tone is a free-text description of the tone
	Tone string `json:"tone"`
}

// IntentResult is the parsed intent extraction.
type IntentResult struct {
	// PrimaryIntent is the detected intent name
	PrimaryIntent string `json:"primary_intent"`

	// Confidence is the model's self-reported confidence from 0.0 to 1.0
	Confidence float64 `json:"confidence"`

	// Entities maps entity types to extracted values
	Entities map[string]any `json:"entities"`

	// ActionRequired is the model's suggested follow-up action
	ActionRequired string `json:"action_required"`
}

// Message is one conversation entry for summarization.
type Message struct {
	// Sender is who wrote the message; empty defaults to "User"
	Sender string `json:"sender"`

	// Content is the message text
	Content string `json:"content"`
}

// Generator is the generation entry point the analyzer drives.
// *routing.Router satisfies it.
type Generator interface {
	Generate(ctx context.Context, req *providers.GenerationRequest) (*providers.GenerationResult, error)
}

// ResultCache caches serialized analysis results per operation and input
// text. Implementations swallow their own errors; a failed lookup is a miss.
type ResultCache interface {
	Get(ctx context.Context, operation, text string) ([]byte, bool)
	Set(ctx context.Context, operation, text string, value []byte)
}
