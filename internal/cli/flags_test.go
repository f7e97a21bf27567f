package cli

import (
	"reflect"
	"testing"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	// Test default values
	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Provider", flags.Provider, "openai"},
		{"PromptFile", flags.PromptFile, "chat_gpt_prompt.json"},
		{"StoreBackend", flags.StoreBackend, "file"},
		{"StorePath", flags.StorePath, "translations.json"},
		{"LogLevel", flags.LogLevel, "info"},
		{"LogFormat", flags.LogFormat, "text"},
		{"Concurrency", flags.Concurrency, 4},
		{"Addr", flags.Addr, ":8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Test boolean and empty defaults
	if flags.NoCache || flags.JSON {
		t.Error("boolean flags should default to false")
	}
	if flags.CfgFile != "" || flags.Model != "" || flags.StoreDSN != "" {
		t.Error("string flags without defaults should be empty")
	}
}
