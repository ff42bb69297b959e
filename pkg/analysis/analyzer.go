package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"hunterhq/relay/pkg/prompts"
	"hunterhq/relay/pkg/providers"
	"hunterhq/relay/pkg/routing"
)

// Generation parameters per operation. Classification runs cold for stable
// JSON, drafting runs warm for varied phrasing.
const (
	classifyTemperature = 0.3
	draftTemperature    = 0.8
	summaryTemperature  = 0.5
	summaryMaxTokens    = 200
)

// Analyzer implements the derived operations on top of the router. Each
// operation renders a prompt template, issues exactly one Generate call, and
// post-processes the raw text.
type Analyzer struct {
	generator Generator
	prompts   *prompts.Store
	cache     ResultCache
}

// NewAnalyzer creates an analyzer. cache may be nil to disable result
// caching.
func NewAnalyzer(generator Generator, store *prompts.Store, cache ResultCache) *Analyzer {
	return &Analyzer{
		generator: generator,
		prompts:   store,
		cache:     cache,
	}
}

// AnalyzeSentiment classifies the sentiment of text. When the model response
// contains no parsable JSON the neutral fallback is returned without error;
// generation failures propagate unmodified.
func (a *Analyzer) AnalyzeSentiment(ctx context.Context, text string) (*SentimentResult, error) {
	if data, ok := a.cacheGet(ctx, OperationSentiment, text); ok {
		var result SentimentResult
		if err := json.Unmarshal(data, &result); err == nil {
			return &result, nil
		}
	}

	prompt, err := a.prompts.Render(prompts.Sentiment, prompts.TextData{Text: text})
	if err != nil {
		return nil, err
	}

	ctx = routing.WithOperation(ctx, OperationSentiment)
	generated, err := a.generator.Generate(ctx, &providers.GenerationRequest{
		Prompt:      prompt,
		Temperature: classifyTemperature,
	})
	if err != nil {
		return nil, err
	}

	if raw, ok := extractJSON(generated.Text); ok {
		var result SentimentResult
		parseErr := json.Unmarshal([]byte(raw), &result)
		if parseErr == nil {
			if result.Emotions == nil {
				result.Emotions = []string{}
			}
			a.cacheSet(ctx, OperationSentiment, text, &result)
			return &result, nil
		}
		slog.Warn("sentiment response JSON did not parse, using neutral fallback",
			"provider", generated.Provider, "error", parseErr)
	} else {
		slog.Warn("sentiment response contained no JSON, using neutral fallback",
			"provider", generated.Provider)
	}

	return &SentimentResult{
		Sentiment:  "neutral",
		Confidence: 0.5,
		Emotions:   []string{},
		Tone:       "unclear",
	}, nil
}

// ExtractIntent extracts the primary intent and entities from text. Parse
// failures degrade to the unknown fallback without error.
func (a *Analyzer) ExtractIntent(ctx context.Context, text string) (*IntentResult, error) {
	if data, ok := a.cacheGet(ctx, OperationIntent, text); ok {
		var result IntentResult
		if err := json.Unmarshal(data, &result); err == nil {
			return &result, nil
		}
	}

	prompt, err := a.prompts.Render(prompts.Intent, prompts.TextData{Text: text})
	if err != nil {
		return nil, err
	}

	ctx = routing.WithOperation(ctx, OperationIntent)
	generated, err := a.generator.Generate(ctx, &providers.GenerationRequest{
		Prompt:      prompt,
		Temperature: classifyTemperature,
	})
	if err != nil {
		return nil, err
	}

	if raw, ok := extractJSON(generated.Text); ok {
		var result IntentResult
		parseErr := json.Unmarshal([]byte(raw), &result)
		if parseErr == nil {
			if result.Entities == nil {
				result.Entities = map[string]any{}
			}
			a.cacheSet(ctx, OperationIntent, text, &result)
			return &result, nil
		}
		slog.Warn("intent response JSON did not parse, using unknown fallback",
			"provider", generated.Provider, "error", parseErr)
	} else {
		slog.Warn("intent response contained no JSON, using unknown fallback",
			"provider", generated.Provider)
	}

	return &IntentResult{
		PrimaryIntent:  "unknown",
		Confidence:     0,
		Entities:       map[string]any{},
		ActionRequired: "clarify",
	}, nil
}

// DraftResponse generates a reply to a customer message in the given tone.
// contextData is serialized as JSON into the prompt when non-empty. The raw
// generated text is returned verbatim.
func (a *Analyzer) DraftResponse(ctx context.Context, message string, contextData map[string]any, tone string) (string, error) {
	if tone == "" {
		tone = DefaultTone
	}
	if !ValidTone(tone) {
		return "", &InvalidToneError{Tone: tone}
	}

	contextJSON := ""
	if len(contextData) > 0 {
		encoded, err := marshalContext(contextData)
		if err != nil {
			return "", fmt.Errorf("serializing response context: %w", err)
		}
		contextJSON = encoded
	}

	prompt, err := a.prompts.Render(prompts.Response, prompts.ResponseData{
		Tone:    tone,
		Context: contextJSON,
		Message: message,
	})
	if err != nil {
		return "", err
	}

	ctx = routing.WithOperation(ctx, OperationResponse)
	generated, err := a.generator.Generate(ctx, &providers.GenerationRequest{
		Prompt:      prompt,
		Temperature: draftTemperature,
	})
	if err != nil {
		return "", err
	}
	return generated.Text, nil
}

// SummarizeConversation summarizes a message history in 2-3 sentences.
// Messages are flattened to "sender: content" lines; an empty sender
// defaults to "User".
func (a *Analyzer) SummarizeConversation(ctx context.Context, messages []Message) (string, error) {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		sender := msg.Sender
		if sender == "" {
			sender = "User"
		}
		lines = append(lines, sender+": "+msg.Content)
	}

	prompt, err := a.prompts.Render(prompts.Summarize, prompts.SummaryData{
		Conversation: strings.Join(lines, "\n"),
	})
	if err != nil {
		return "", err
	}

	ctx = routing.WithOperation(ctx, OperationSummarize)
	generated, err := a.generator.Generate(ctx, &providers.GenerationRequest{
		Prompt:      prompt,
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
	})
	if err != nil {
		return "", err
	}
	return generated.Text, nil
}

// ValidTone reports whether tone is in the accepted set.
func ValidTone(tone string) bool {
	switch tone {
	case ToneProfessional, ToneFriendly, ToneCasual, ToneFormal:
		return true
	}
	return false
}

func (a *Analyzer) cacheGet(ctx context.Context, operation, text string) ([]byte, bool) {
	if a.cache == nil {
		return nil, false
	}
	return a.cache.Get(ctx, operation, text)
}

// cacheSet stores only successfully parsed results so a transient formatting
// failure is never pinned for the TTL.
func (a *Analyzer) cacheSet(ctx context.Context, operation, text string, result any) {
	if a.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	a.cache.Set(ctx, operation, text, data)
}

// marshalContext serializes prompt context without HTML escaping, since the
// output lands in a prompt rather than a web page.
func marshalContext(contextData map[string]any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(contextData); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
