package translation

import (
	"context"
	"time"
)

const (
	// DefaultOpenAIModel is the chat model used when none is configured
	DefaultOpenAIModel = "gpt-4-1106-preview"

	// DefaultGeminiModel is the Gemini model used when none is configured
	DefaultGeminiModel = "gemini-2.5-flash"

	// DefaultTimeout bounds a single outbound call
	DefaultTimeout = 60 * time.Second
)

// Request is one translation call: the built system prompt and the user
// message carrying the phrase
type Request struct {
	SystemPrompt string
	UserMessage  string
}

// Usage reports token consumption of a call
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the raw text answered by the API together with call metadata
type Response struct {
	Translation string
	Model       string
	Usage       Usage
}

// Client sends a translation request to an external API
type Client interface {
	Translate(ctx context.Context, req Request) (Response, error)
	Name() string
}
