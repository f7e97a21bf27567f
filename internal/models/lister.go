package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/phrasememo/internal/translation"
)

// Lister handles listing available OpenAI models
type Lister struct {
	credentials translation.CredentialSupplier
	baseURL     string
}

// NewLister creates a new model lister. An empty baseURL uses the public API.
func NewLister(credentials translation.CredentialSupplier, baseURL string) *Lister {
	return &Lister{credentials: credentials, baseURL: baseURL}
}

// ChatModels returns the sorted ids of models usable for translation
func (l *Lister) ChatModels(ctx context.Context) ([]string, error) {
	key, err := l.credentials.Credential(ctx)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY or openai.keys_file in .phrasememo.yaml: %w", err)
	}

	cfg := openai.DefaultConfig(key)
	if l.baseURL != "" {
		cfg.BaseURL = l.baseURL
	}

	models, err := openai.NewClientWithConfig(cfg).ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var chat []string
	for _, model := range models.Models {
		id := model.ID
		if strings.Contains(id, "tts") || strings.Contains(id, "audio") ||
			strings.Contains(id, "realtime") || strings.Contains(id, "transcribe") {
			continue
		}
		if strings.Contains(id, "gpt") || strings.Contains(id, "chat") || strings.HasPrefix(id, "o") {
			chat = append(chat, id)
		}
	}
	sort.Strings(chat)
	return chat, nil
}

// ListAvailableModels prints the chat models to w, marking current
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer, current string) error {
	chat, err := l.ChatModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Chat/Translation Models:")
	if len(chat) == 0 {
		fmt.Fprintln(w, "  No chat models found")
		return nil
	}
	for _, model := range chat {
		if model == current {
			fmt.Fprintf(w, "  %s (configured)\n", model)
		} else {
			fmt.Fprintf(w, "  %s\n", model)
		}
	}
	return nil
}
