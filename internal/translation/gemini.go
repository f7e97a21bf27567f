package translation

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GeminiConfig configures a GeminiClient
type GeminiConfig struct {
	Model      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// GeminiClient translates through the Gemini API
type GeminiClient struct {
	credentials CredentialSupplier
	config      GeminiConfig
}

// NewGeminiClient creates a Gemini client that asks credentials for a key
// on every call
func NewGeminiClient(credentials CredentialSupplier, config GeminiConfig) *GeminiClient {
	if config.Model == "" {
		config.Model = DefaultGeminiModel
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &GeminiClient{credentials: credentials, config: config}
}

// Name identifies the provider and model
func (g *GeminiClient) Name() string { return "gemini:" + g.config.Model }

// Translate sends the prompt as system instruction and the phrase as the
// single user turn
func (g *GeminiClient) Translate(ctx context.Context, req Request) (Response, error) {
	key, err := g.credentials.Credential(ctx)
	if err != nil {
		return Response{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	cfg := &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.config.HTTPClient,
	}
	if g.config.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.config.BaseURL}
	}
	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return Response{}, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	resp, err := cli.Models.GenerateContent(ctx, g.config.Model,
		[]*genai.Content{genai.NewContentFromText(req.UserMessage, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(req.SystemPrompt, genai.RoleUser),
		},
	)
	if err != nil {
		return Response{}, fmt.Errorf("Gemini request failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Response{}, ErrNoChoices
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return Response{}, ErrNoChoices
	}

	out := Response{Translation: text, Model: resp.ModelVersion}
	if out.Model == "" {
		out.Model = g.config.Model
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return out, nil
}
