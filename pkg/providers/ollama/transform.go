package ollama

import (
	"hunterhq/relay/pkg/providers"
)

// Ollama API request/response types

// OllamaRequest represents a native Ollama generate request.
// Stream is always sent explicitly; the adapter only uses the
// non-streaming form.
type OllamaRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	System  string         `json:"system,omitempty"`
	Stream  bool           `json:"stream"`
	Options *OllamaOptions `json:"options,omitempty"`
}

// OllamaOptions carries sampling parameters in Ollama format.
type OllamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// OllamaResponse represents a native Ollama generate response.
type OllamaResponse struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
}

// Transformation functions

// transformRequest transforms a normalized request to Ollama format.
// Sampling options are only attached when the request sets them; a bare
// request goes out as {model, prompt, stream: false} and the daemon's model
// defaults apply.
func transformRequest(req *providers.GenerationRequest, model string) *OllamaRequest {
	ollamaReq := &OllamaRequest{
		Model:  model,
		Prompt: req.Prompt,
		System: req.SystemPrompt,
		Stream: false,
	}

	if req.Temperature != 0 || req.MaxTokens != 0 {
		ollamaReq.Options = &OllamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		}
	}

	return ollamaReq
}
