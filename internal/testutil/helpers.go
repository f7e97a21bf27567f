package testutil

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// PromptDocument is a small rules document covering every placeholder
const PromptDocument = `{
  "prompt": "Translate the Polish road-sign fragment into Russian. %comments%\n%dictionary_intro%%dictionary%\n%short_notice%",
  "dictionary_intro": "Use these terms:",
  "short_notice": "The fragment is short, answer briefly.",
  "dictionary_by_phrase": {
    "ustąp pierwszeństwa = уступите дорогу": ["ustąp", "pierwszeństw"]
  },
  "dictionary_by_search_word": {
    "stop": ["stop = стоп"]
  },
  "dictionary_others": {
    "znak": "znak = знак"
  },
  "comments": {
    "Keep sign codes in Latin script.": ["B-", "A-"]
  }
}`

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// WritePromptFile writes PromptDocument into a temp dir and returns its path
func WritePromptFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "prompt.json")
	CreateTestFile(t, path, []byte(PromptDocument))
	return path
}

// WriteKeysFile writes one API key per line into a temp dir
func WriteKeysFile(t *testing.T, keys ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "keys.txt")
	CreateTestFile(t, path, []byte(strings.Join(keys, "\n")+"\n"))
	return path
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file %s to exist, but it doesn't", path)
	}
}

// AssertFileContains checks if a file contains a substring
func AssertFileContains(t *testing.T, path string, substring string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if !strings.Contains(string(content), substring) {
		t.Errorf("File %s does not contain expected substring %q", path, substring)
	}
}

// DiscardLogger returns a logger that drops everything
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// BufferLogger returns a debug-level logger writing into the returned buffer
func BufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}
