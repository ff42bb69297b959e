package handlers

import (
	"context"

	"hunterhq/relay/pkg/analysis"
	"hunterhq/relay/pkg/providers"
)

// Router is the generation surface the handlers drive.
// *routing.Router satisfies it.
type Router interface {
	Generate(ctx context.Context, req *providers.GenerationRequest) (*providers.GenerationResult, error)
	StreamGenerate(ctx context.Context, req *providers.GenerationRequest) (<-chan providers.Chunk, error)
}

// Analyzer is the derived-operation surface the handlers drive.
// *analysis.Analyzer satisfies it.
type Analyzer interface {
	AnalyzeSentiment(ctx context.Context, text string) (*analysis.SentimentResult, error)
	ExtractIntent(ctx context.Context, text string) (*analysis.IntentResult, error)
	DraftResponse(ctx context.Context, message string, contextData map[string]any, tone string) (string, error)
	SummarizeConversation(ctx context.Context, messages []analysis.Message) (string, error)
}
