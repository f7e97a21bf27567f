package prompt

import (
	"fmt"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"codeberg.org/snonux/phrasememo/internal"
	"codeberg.org/snonux/phrasememo/internal/dictionary"
)

const (
	phrasePlaceholder = "%phrase%"

	// phrases shorter than this get the short-fragment notice
	shortFragmentLength = 30

	// DefaultCacheSize is the number of built prompts kept in memory
	DefaultCacheSize = 512
)

var (
	commentsPlaceholder        = placeholder("%comments%")
	dictionaryIntroPlaceholder = placeholder("%dictionary_intro%")
	dictionaryPlaceholder      = placeholder("%dictionary%")
	shortNoticePlaceholder     = placeholder("%short_notice%")
)

func placeholder(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(name))
}

// Builder synthesizes system prompts from a Config. Config is read-only, so
// built prompts are cached for the life of the process.
type Builder struct {
	cfg   *Config
	cache *lru.Cache[string, string]
}

// NewBuilder creates a Builder keeping up to size prompts in its cache
func NewBuilder(cfg *Config, size int) (*Builder, error) {
	if cfg == nil {
		return nil, ErrConfigurationMissing
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if size <= 0 {
		size = DefaultCacheSize
	}

	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("creating prompt cache: %w", err)
	}

	return &Builder{cfg: cfg, cache: cache}, nil
}

// Build returns the system prompt for text
func (b *Builder) Build(text string) string {
	if prompt, ok := b.cache.Get(text); ok {
		return prompt
	}

	prompt := b.build(text)
	b.cache.Add(text, prompt)
	return prompt
}

func (b *Builder) build(text string) string {
	comments := dictionary.MatchComments(text, b.cfg.Comments)
	phrases := dictionary.Match(text, b.cfg.Dictionary)

	intro := ""
	if len(phrases) > 0 {
		intro = b.cfg.DictionaryIntro + "\n"
	}

	notice := ""
	if internal.RuneLen(text) < shortFragmentLength {
		notice = b.cfg.ShortNotice
	}

	prompt := b.cfg.Prompt
	prompt = commentsPlaceholder.ReplaceAllLiteralString(prompt, strings.TrimSpace(strings.Join(comments, " ")))
	prompt = dictionaryIntroPlaceholder.ReplaceAllLiteralString(prompt, intro)
	prompt = dictionaryPlaceholder.ReplaceAllLiteralString(prompt, strings.TrimSpace(strings.Join(phrases, "\n")))
	prompt = shortNoticePlaceholder.ReplaceAllLiteralString(prompt, notice)

	return strings.TrimSpace(prompt)
}

// UserMessage returns the user message carrying the phrase to translate
func (b *Builder) UserMessage(phrase string) string {
	return strings.ReplaceAll(b.cfg.UserPrompt, phrasePlaceholder, phrase)
}

// Augmentations returns the augmentation rules of the document
func (b *Builder) Augmentations() []dictionary.Augmentation {
	return b.cfg.Augmentations
}
