package translation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIConfig configures an OpenAIClient
type OpenAIConfig struct {
	Model      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// OpenAIClient translates through an OpenAI-compatible chat-completion API
type OpenAIClient struct {
	credentials CredentialSupplier
	config      OpenAIConfig
}

// NewOpenAIClient creates a client that asks credentials for a key on
// every call
func NewOpenAIClient(credentials CredentialSupplier, config OpenAIConfig) *OpenAIClient {
	if config.Model == "" {
		config.Model = DefaultOpenAIModel
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &OpenAIClient{credentials: credentials, config: config}
}

// Name identifies the provider and model
func (c *OpenAIClient) Name() string { return "openai:" + c.config.Model }

// Translate sends the system prompt and user message as one chat completion
func (c *OpenAIClient) Translate(ctx context.Context, req Request) (Response, error) {
	key, err := c.credentials.Credential(ctx)
	if err != nil {
		return Response{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	resp, err := c.client(key).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserMessage},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return Response{}, fmt.Errorf("OpenAI API error: %s", apiErr.Message)
		}
		return Response{}, fmt.Errorf("OpenAI request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Response{}, ErrNoChoices
	}

	return Response{
		Translation: strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:       resp.Model,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func (c *OpenAIClient) client(key string) *openai.Client {
	cfg := openai.DefaultConfig(key)
	if c.config.BaseURL != "" {
		cfg.BaseURL = c.config.BaseURL
	}
	if c.config.HTTPClient != nil {
		cfg.HTTPClient = c.config.HTTPClient
	}
	return openai.NewClientWithConfig(cfg)
}
