package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"hunterhq/relay/pkg/analysis"
	"hunterhq/relay/pkg/api"
	"hunterhq/relay/pkg/providers"
	"hunterhq/relay/pkg/registry"
	"hunterhq/relay/pkg/telemetry/logging"
)

// AIHandler serves the AI routes: generation, the derived CRM operations,
// and the provider info and health endpoints.
type AIHandler struct {
	router   Router
	analyzer Analyzer
	registry *registry.Registry
}

// NewAIHandler creates the handler over the router, analyzer and registry.
func NewAIHandler(router Router, analyzer Analyzer, reg *registry.Registry) *AIHandler {
	return &AIHandler{
		router:   router,
		analyzer: analyzer,
		registry: reg,
	}
}

// Generate handles POST /api/ai/generate. With "stream": true the
// response switches to Server-Sent Events.
func (h *AIHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	ctx := r.Context()

	var req api.GenerateRequest
	if err := api.DecodeRequest(r, &req); err != nil {
		writeError(ctx, w, api.MapError(err))
		return
	}
	if err := req.Validate(); err != nil {
		writeError(ctx, w, api.MapError(err))
		return
	}

	genReq := &providers.GenerationRequest{
		Prompt:       req.Prompt,
		Provider:     req.Provider,
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
		SystemPrompt: req.SystemPrompt,
	}

	if req.Stream {
		h.streamGenerate(w, r, genReq)
		return
	}

	start := time.Now()
	result, err := h.router.Generate(ctx, genReq)
	if err != nil {
		slog.ErrorContext(ctx, "generation failed",
			"request_id", logging.GetRequestID(ctx),
			"requested_provider", req.Provider,
			"error", err,
		)
		writeError(ctx, w, api.MapError(err))
		return
	}

	slog.InfoContext(ctx, "generation complete",
		"request_id", logging.GetRequestID(ctx),
		"provider", result.Provider,
		"model", result.Model,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	writeJSON(ctx, w, http.StatusOK, api.GenerateResponse{
		Response: result.Text,
		Provider: result.Provider,
		Model:    result.Model,
	})
}

// streamGenerate forwards a streaming generation as SSE. Resolution and
// setup failures still return a JSON error; once the stream is open,
// failures arrive as an error event before the [DONE] marker.
func (h *AIHandler) streamGenerate(w http.ResponseWriter, r *http.Request, req *providers.GenerationRequest) {
	ctx := r.Context()
	requestID := logging.GetRequestID(ctx)

	chunks, err := h.router.StreamGenerate(ctx, req)
	if err != nil {
		slog.ErrorContext(ctx, "streaming generation failed",
			"request_id", requestID,
			"requested_provider", req.Provider,
			"error", err,
		)
		writeError(ctx, w, api.MapError(err))
		return
	}

	api.SetSSEHeaders(w)

	sent := 0
	for chunk := range chunks {
		if chunk.Err != nil {
			slog.ErrorContext(ctx, "error in stream",
				"request_id", requestID,
				"chunks_sent", sent,
				"error", chunk.Err,
			)
			errResp := api.NewBadGatewayError(fmt.Sprintf("stream interrupted: %v", chunk.Err))
			if err := api.WriteSSEError(w, errResp); err != nil {
				slog.ErrorContext(ctx, "failed to write SSE error", "error", err)
			}
			break
		}

		if err := api.WriteSSEDelta(w, chunk.Text); err != nil {
			slog.WarnContext(ctx, "client disconnected during streaming",
				"request_id", requestID,
				"chunks_sent", sent,
			)
			return
		}
		sent++
	}

	if err := api.WriteSSEDone(w); err != nil {
		slog.ErrorContext(ctx, "failed to write SSE done marker",
			"request_id", requestID,
			"error", err,
		)
	}
}

// Sentiment handles POST /api/ai/sentiment.
func (h *AIHandler) Sentiment(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	ctx := r.Context()

	var req api.SentimentRequest
	if err := api.DecodeRequest(r, &req); err != nil {
		writeError(ctx, w, api.MapError(err))
		return
	}
	if err := req.Validate(); err != nil {
		writeError(ctx, w, api.MapError(err))
		return
	}

	result, err := h.analyzer.AnalyzeSentiment(ctx, req.Text)
	if err != nil {
		slog.ErrorContext(ctx, "sentiment analysis failed",
			"request_id", logging.GetRequestID(ctx),
			"error", err,
		)
		writeError(ctx, w, api.MapError(err))
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}

// Intent handles POST /api/ai/intent.
func (h *AIHandler) Intent(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	ctx := r.Context()

	var req api.IntentRequest
	if err := api.DecodeRequest(r, &req); err != nil {
		writeError(ctx, w, api.MapError(err))
		return
	}
	if err := req.Validate(); err != nil {
		writeError(ctx, w, api.MapError(err))
		return
	}

	result, err := h.analyzer.ExtractIntent(ctx, req.Text)
	if err != nil {
		slog.ErrorContext(ctx, "intent extraction failed",
			"request_id", logging.GetRequestID(ctx),
			"error", err,
		)
		writeError(ctx, w, api.MapError(err))
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}

// GenerateResponse handles POST /api/ai/generate-response.
func (h *AIHandler) GenerateResponse(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	ctx := r.Context()

	var req api.ResponseGenerationRequest
	if err := api.DecodeRequest(r, &req); err != nil {
		writeError(ctx, w, api.MapError(err))
		return
	}
	if err := req.Validate(); err != nil {
		writeError(ctx, w, api.MapError(err))
		return
	}

	tone := req.Tone
	if tone == "" {
		tone = analysis.DefaultTone
	}

	response, err := h.analyzer.DraftResponse(ctx, req.CustomerMessage, req.Context, tone)
	if err != nil {
		slog.ErrorContext(ctx, "response drafting failed",
			"request_id", logging.GetRequestID(ctx),
			"tone", tone,
			"error", err,
		)
		writeError(ctx, w, api.MapError(err))
		return
	}

	writeJSON(ctx, w, http.StatusOK, api.ResponseGenerationResponse{
		Response: response,
		Tone:     tone,
	})
}

// SummarizeConversation handles POST /api/ai/summarize-conversation.
func (h *AIHandler) SummarizeConversation(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	ctx := r.Context()

	var req api.ConversationSummaryRequest
	if err := api.DecodeRequest(r, &req); err != nil {
		writeError(ctx, w, api.MapError(err))
		return
	}
	if err := req.Validate(); err != nil {
		writeError(ctx, w, api.MapError(err))
		return
	}

	summary, err := h.analyzer.SummarizeConversation(ctx, req.Messages)
	if err != nil {
		slog.ErrorContext(ctx, "conversation summarization failed",
			"request_id", logging.GetRequestID(ctx),
			"message_count", len(req.Messages),
			"error", err,
		)
		writeError(ctx, w, api.MapError(err))
		return
	}

	writeJSON(ctx, w, http.StatusOK, api.ConversationSummaryResponse{
		Summary:      summary,
		MessageCount: len(req.Messages),
	})
}

// allowMethod enforces the expected HTTP method, answering 405 with the
// Allow header when it does not match.
func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}

	w.Header().Set("Allow", method)
	message := fmt.Sprintf("method %s not allowed, use %s", r.Method, method)
	writeError(r.Context(), w, api.NewMethodNotAllowedError(message))
	return false
}

func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	if err := api.WriteJSON(w, statusCode, data); err != nil {
		slog.ErrorContext(ctx, "failed to write response", "error", err)
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, errResp *api.ErrorResponse) {
	if err := api.WriteError(w, errResp); err != nil {
		slog.ErrorContext(ctx, "failed to write error response", "error", err)
	}
}
