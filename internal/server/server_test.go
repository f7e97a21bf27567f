package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"codeberg.org/snonux/phrasememo/internal/cache"
	"codeberg.org/snonux/phrasememo/internal/engine"
	"codeberg.org/snonux/phrasememo/internal/prompt"
	"codeberg.org/snonux/phrasememo/internal/testutil"
)

func newTestServer(t *testing.T, replies map[string]string) (*httptest.Server, *engine.Engine, *testutil.FakeClient) {
	t.Helper()

	cfg, err := prompt.Parse([]byte(testutil.PromptDocument))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	builder, err := prompt.NewBuilder(cfg, 0)
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}

	logger := testutil.DiscardLogger()
	client := testutil.NewFakeClient(replies)
	e := engine.New(engine.Deps{
		Cache:   cache.New(cache.NewMemoryStore(), logger),
		Builder: builder,
		Client:  client,
		Logger:  logger,
	})

	srv := httptest.NewServer(New(e, logger).Handler())
	t.Cleanup(srv.Close)
	return srv, e, client
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return resp, out
}

func TestTranslateEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t, map[string]string{
		`Fragment to translate: "Give way"`: "Уступите дорогу",
	})

	resp, out := post(t, srv.URL, `{"text": "3. Give way"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if out["translate"] != "3. Уступите дорогу" || out["approved"] != false {
		t.Errorf("response = %v", out)
	}
	if v, ok := out["error"]; !ok || v != nil {
		t.Errorf("error = %v, want null", v)
	}
	if _, ok := out["prompt"]; !ok {
		t.Error("prompt missing from API response")
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("request id header not set")
	}

	// /translate is an alias and the second call is a cache hit
	_, out = post(t, srv.URL+"/translate", `{"text": "Give way"}`)
	if out["translate"] != "Уступите дорогу" {
		t.Errorf("response = %v", out)
	}
	if _, ok := out["prompt"]; ok {
		t.Error("cache hit carries a prompt")
	}
}

func TestShortTextEndpoint(t *testing.T) {
	srv, _, client := newTestServer(t, nil)

	_, out := post(t, srv.URL, `{"text": "B-1"}`)
	if out["translate"] != "B-1" || out["approved"] != true || out["info"] != "A short string: only 3 symbol(s)" {
		t.Errorf("response = %v", out)
	}
	if client.Calls() != 0 {
		t.Error("short text reached the API")
	}
}

func TestApproveEndpoint(t *testing.T) {
	srv, e, _ := newTestServer(t, nil)
	_ = e.Cache().Put(context.Background(), "Stop", "Стоп", cache.NotApproved)

	_, out := post(t, srv.URL, `{"approve": "Стоп"}`)
	if out["success"] != true || out["error"] != nil {
		t.Errorf("approve response = %v", out)
	}

	_, out = post(t, srv.URL, `{"text": "Stop"}`)
	if out["approved"] != true {
		t.Errorf("approved translation not served: %v", out)
	}

	_, out = post(t, srv.URL, `{"mark_incorrect": "Нет такого"}`)
	if out["success"] != false || out["error"] != nil {
		t.Errorf("mark_incorrect response = %v", out)
	}
}

func TestCacheFlag(t *testing.T) {
	srv, e, client := newTestServer(t, nil)
	client.Default = "Свежий перевод"
	_ = e.Cache().Put(context.Background(), "Give way", "Старый", cache.Approved)

	_, out := post(t, srv.URL, `{"text": "Give way", "cache": false}`)
	if out["translate"] != "Свежий перевод" {
		t.Errorf("response = %v", out)
	}
}

func TestBadRequests(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"no known field", `{"add_to_favorites": "x"}`},
		{"invalid json", `{"text": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := post(t, srv.URL, tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			if msg, _ := out["error"].(string); msg == "" {
				t.Errorf("error = %v", out["error"])
			}
		})
	}

	_, out := post(t, srv.URL, `{}`)
	if out["error"] != engine.ErrInputMissing.Error() {
		t.Errorf("error = %v", out["error"])
	}
}

func TestTransportFailureEndpoint(t *testing.T) {
	srv, _, client := newTestServer(t, nil)
	client.Errors = map[string]error{`Fragment to translate: "Give way"`: errors.New("upstream timeout")}

	resp, out := post(t, srv.URL, `{"text": "Give way"}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
	if out["translate"] != nil {
		t.Errorf("translate = %v, want null", out["translate"])
	}
	if msg, _ := out["error"].(string); !strings.Contains(msg, "upstream timeout") {
		t.Errorf("error = %v", out["error"])
	}
}

func TestHealthAndMethods(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET / status = %d, want 405", resp.StatusCode)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)

	req, _ := http.NewRequest(http.MethodPost, srv.URL, strings.NewReader(`{"text": "42"}`))
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q", got)
	}
}

func TestRunShutsDown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	e := engine.New(engine.Deps{Logger: testutil.DiscardLogger()})
	s := New(e, testutil.DiscardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	cfg := DefaultConfig()
	cfg.Addr = addr
	go func() { done <- s.Run(ctx, cfg) }()

	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err == nil {
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not start: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
