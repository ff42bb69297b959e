package prompts

// Template names understood by the store. Every name has a built-in default
// and may be overridden from a YAML file.
const (
	Sentiment = "sentiment"
	Intent    = "intent"
	Response  = "response"
	Summarize = "summarize"
)

// TextData is the payload for the sentiment and intent templates.
type TextData struct {
	Text string
}

// ResponseData is the payload for the response template. Context carries
// JSON-serialized conversation context and may be empty.
type ResponseData struct {
	Tone    string
	Context string
	Message string
}

// SummaryData is the payload for the summarize template. Conversation is the
// flattened "sender: content" transcript, one message per line.
type SummaryData struct {
	Conversation string
}

const defaultSentiment = `Analyze the sentiment of the following text and respond with JSON only:

Text: {{.Text}}

Respond with this exact JSON structure:
{
    "sentiment": "positive/negative/neutral",
    "confidence": 0.0-1.0,
    "emotions": ["emotion1", "emotion2"],
    "tone": "description of tone"
}`

const defaultIntent = `Extract the intent from the following text and respond with JSON only:

Text: {{.Text}}

Respond with this exact JSON structure:
{
    "primary_intent": "intent_name",
    "confidence": 0.0-1.0,
    "entities": {"entity_type": "entity_value"},
    "action_required": "suggested action"
}`

const defaultResponse = `Generate a {{.Tone}} response to the following customer message:{{if .Context}}
Context: {{.Context}}{{end}}

Customer Message: {{.Message}}

Generate a helpful, {{.Tone}} response:`

const defaultSummarize = `Summarize the following conversation in 2-3 sentences:

{{.Conversation}}

Summary:`

// defaultTexts maps every known template name to its built-in text.
func defaultTexts() map[string]string {
	return map[string]string{
		Sentiment: defaultSentiment,
		Intent:    defaultIntent,
		Response:  defaultResponse,
		Summarize: defaultSummarize,
	}
}

// samplePayloads maps template names to zero-value payloads used to validate
// overrides before they are applied.
func samplePayloads() map[string]any {
	return map[string]any{
		Sentiment: TextData{},
		Intent:    TextData{},
		Response:  ResponseData{},
		Summarize: SummaryData{},
	}
}
