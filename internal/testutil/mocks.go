package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"codeberg.org/snonux/phrasememo/internal/translation"
)

// FakeClient is an in-memory translation.Client. Replies are keyed by the
// user message; unknown messages get Default.
type FakeClient struct {
	Replies map[string]string
	Errors  map[string]error
	Default string
	Model   string

	mu       sync.Mutex
	requests []translation.Request
}

// NewFakeClient returns a FakeClient answering with replies
func NewFakeClient(replies map[string]string) *FakeClient {
	return &FakeClient{Replies: replies, Model: "fake-model"}
}

// Name identifies the fake
func (f *FakeClient) Name() string { return "fake:" + f.Model }

// Translate records req and returns the configured reply or error
func (f *FakeClient) Translate(ctx context.Context, req translation.Request) (translation.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return translation.Response{}, err
	}
	if err, ok := f.Errors[req.UserMessage]; ok {
		return translation.Response{}, err
	}

	reply, ok := f.Replies[req.UserMessage]
	if !ok {
		reply = f.Default
	}
	return translation.Response{
		Translation: reply,
		Model:       f.Model,
		Usage:       translation.Usage{PromptTokens: 10, CompletionTokens: 2, TotalTokens: 12},
	}, nil
}

// Requests returns a copy of the recorded requests
func (f *FakeClient) Requests() []translation.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]translation.Request(nil), f.requests...)
}

// Calls returns the number of recorded requests
func (f *FakeClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// FakeOpenAIServer starts an OpenAI-compatible chat-completion endpoint that
// answers every request with reply(userMessage)
func FakeOpenAIServer(t *testing.T, reply func(user string) string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		user := ""
		for _, m := range body.Messages {
			if m.Role == "user" {
				user = m.Content
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  body.Model,
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": reply(user)},
				"finish_reason": "stop",
			}},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 2, "total_tokens": 12},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}
