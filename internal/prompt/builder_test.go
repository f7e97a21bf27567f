package prompt

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func loadFixture(t *testing.T, name string) *Config {
	t.Helper()

	cfg, err := Load(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("Load(%s) failed: %v", name, err)
	}
	return cfg
}

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()

	b, err := NewBuilder(loadFixture(t, "prompt.json"), 4)
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}
	return b
}

func TestLoadJSONKeepsOrder(t *testing.T) {
	cfg := loadFixture(t, "prompt.json")

	if len(cfg.Dictionary.ByPhrase) != 2 {
		t.Fatalf("expected 2 by-phrase entries, got %d", len(cfg.Dictionary.ByPhrase))
	}
	if cfg.Dictionary.ByPhrase[0].Phrase != "pierwszeństwo - преимущество" {
		t.Errorf("first by-phrase entry = %q", cfg.Dictionary.ByPhrase[0].Phrase)
	}
	if len(cfg.Comments) != 2 || cfg.Comments[1].Line != "Translate 'tramwaj' as 'трамвай'." {
		t.Errorf("unexpected comments: %+v", cfg.Comments)
	}
	if cfg.UserPrompt != DefaultUserPrompt {
		t.Errorf("UserPrompt = %q, want default", cfg.UserPrompt)
	}
	if len(cfg.Augmentations) != 2 {
		t.Errorf("expected default augmentations, got %d", len(cfg.Augmentations))
	}
}

func TestLoadYAML(t *testing.T) {
	cfg := loadFixture(t, "prompt.yaml")

	if cfg.UserPrompt != "Phrase: <%phrase%>" {
		t.Errorf("UserPrompt = %q", cfg.UserPrompt)
	}
	if len(cfg.Dictionary.ByPhrase[0].Terms) != 2 {
		t.Errorf("unexpected terms: %+v", cfg.Dictionary.ByPhrase)
	}
	if len(cfg.Augmentations) != 1 || cfg.Augmentations[0].Approve {
		t.Errorf("unexpected augmentations: %+v", cfg.Augmentations)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrConfigurationMissing) {
		t.Errorf("expected ErrConfigurationMissing, got %v", err)
	}
}

func TestParseRejectsEmptyPrompt(t *testing.T) {
	_, err := Parse([]byte(`{"prompt": "  "}`))
	if !errors.Is(err, ErrConfigurationMissing) {
		t.Errorf("expected ErrConfigurationMissing, got %v", err)
	}

	_, err = Parse([]byte(`{"prompt": "x", "user_prompt": "no placeholder"}`))
	if !errors.Is(err, ErrConfigurationMissing) {
		t.Errorf("expected ErrConfigurationMissing for user_prompt, got %v", err)
	}
}

func TestParseExplicitEmptyAugmentations(t *testing.T) {
	cfg, err := Parse([]byte(`{"prompt": "x", "augmentations": []}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cfg.Augmentations) != 0 {
		t.Errorf("expected no augmentations, got %+v", cfg.Augmentations)
	}
}

func TestBuildWithDictionary(t *testing.T) {
	b := newTestBuilder(t)

	got := b.Build("Ustąp pierwszeństwa tramwajowi")

	want := "You translate Polish driving-test questions into Russian. Translate 'tramwaj' as 'трамвай'.\n" +
		"Use these dictionary entries:\n" +
		"pierwszeństwo - преимущество\n" +
		"ustąpić - уступить"
	if got != want {
		t.Errorf("Build() =\n%s\nwant\n%s", got, want)
	}
}

func TestBuildDeduplicatesDictionary(t *testing.T) {
	b := newTestBuilder(t)

	got := b.Build("Kierujący musi ustąpić pierwszeństwa na tym pasie ruchu")
	if n := strings.Count(got, "pierwszeństwo - преимущество"); n != 1 {
		t.Errorf("dictionary phrase appears %d times, want 1:\n%s", n, got)
	}
	if n := strings.Count(got, "pas ruchu - полоса движения"); n != 1 {
		t.Errorf("dictionary phrase appears %d times, want 1:\n%s", n, got)
	}
	if strings.Contains(got, "short fragment") {
		t.Errorf("long phrase must not get the short notice:\n%s", got)
	}
}

func TestBuildShortNoticeWithoutDictionary(t *testing.T) {
	b := newTestBuilder(t)

	got := b.Build("Znak B-20")
	if strings.Contains(got, "Use these dictionary entries") {
		t.Errorf("intro must be omitted without dictionary matches:\n%s", got)
	}
	if !strings.HasSuffix(got, "This is a short fragment, translate it without adding anything.") {
		t.Errorf("expected short notice (case-insensitive placeholder):\n%s", got)
	}
	if !strings.Contains(got, "Keep sign codes such as B-20 in Latin letters.") {
		t.Errorf("expected comment line:\n%s", got)
	}
	if strings.Contains(got, "%") {
		t.Errorf("unreplaced placeholder:\n%s", got)
	}
}

func TestBuildIsCached(t *testing.T) {
	b := newTestBuilder(t)

	first := b.Build("Znak B-20")
	if !b.cache.Contains("Znak B-20") {
		t.Fatal("prompt was not cached")
	}
	if second := b.Build("Znak B-20"); second != first {
		t.Errorf("cached prompt differs: %q vs %q", second, first)
	}
}

func TestUserMessage(t *testing.T) {
	b := newTestBuilder(t)

	if got := b.UserMessage("Give way"); got != `Fragment to translate: "Give way"` {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestNewBuilderNilConfig(t *testing.T) {
	if _, err := NewBuilder(nil, 0); !errors.Is(err, ErrConfigurationMissing) {
		t.Errorf("expected ErrConfigurationMissing, got %v", err)
	}
}

func TestLoadUnreadable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte("prompt: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrConfigurationMissing) {
		t.Errorf("expected ErrConfigurationMissing, got %v", err)
	}
}
