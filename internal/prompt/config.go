package prompt

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"codeberg.org/snonux/phrasememo/internal/dictionary"
)

// DefaultUserPrompt wraps the phrase sent as the user message
const DefaultUserPrompt = `Fragment to translate: "%phrase%"`

// Config is the immutable rules document. Build it once per process and
// share it; nothing mutates it after Load.
type Config struct {
	Prompt          string
	DictionaryIntro string
	ShortNotice     string
	UserPrompt      string
	Dictionary      dictionary.Rules
	Comments        []dictionary.CommentRule
	Augmentations   []dictionary.Augmentation
}

type document struct {
	Prompt          string                    `yaml:"prompt"`
	DictionaryIntro string                    `yaml:"dictionary_intro"`
	ShortNotice     string                    `yaml:"short_notice"`
	UserPrompt      string                    `yaml:"user_prompt"`
	ByPhrase        orderedLists              `yaml:"dictionary_by_phrase"`
	BySearchWord    orderedLists              `yaml:"dictionary_by_search_word"`
	Others          orderedStrings            `yaml:"dictionary_others"`
	Comments        orderedLists              `yaml:"comments"`
	Augmentations   []dictionary.Augmentation `yaml:"augmentations"`
}

type listEntry struct {
	key    string
	values []string
}

type stringEntry struct {
	key   string
	value string
}

// orderedLists decodes a mapping of string -> []string keeping key order
type orderedLists []listEntry

// orderedStrings decodes a mapping of string -> string keeping key order
type orderedStrings []stringEntry

func (o *orderedLists) UnmarshalYAML(n *yaml.Node) error {
	if emptySequence(n) {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of lists", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		var values []string
		if err := n.Content[i+1].Decode(&values); err != nil {
			return fmt.Errorf("key %q: %w", n.Content[i].Value, err)
		}
		*o = append(*o, listEntry{key: n.Content[i].Value, values: values})
	}
	return nil
}

func (o *orderedStrings) UnmarshalYAML(n *yaml.Node) error {
	if emptySequence(n) {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of strings", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		var value string
		if err := n.Content[i+1].Decode(&value); err != nil {
			return fmt.Errorf("key %q: %w", n.Content[i].Value, err)
		}
		*o = append(*o, stringEntry{key: n.Content[i].Value, value: value})
	}
	return nil
}

// JSON encoders write empty objects as [] so accept that too
func emptySequence(n *yaml.Node) bool {
	return n.Kind == yaml.SequenceNode && len(n.Content) == 0
}

// Load reads the rules document at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found", ErrConfigurationMissing, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigurationMissing, err)
	}
	return Parse(data)
}

// Parse decodes a rules document from JSON or YAML
func Parse(data []byte) (*Config, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing rules document: %v", ErrConfigurationMissing, err)
	}

	// an explicit empty list disables augmentation, a missing key keeps the default
	var keys map[string]yaml.Node
	_ = yaml.Unmarshal(data, &keys)
	_, hasAugmentations := keys["augmentations"]

	cfg := doc.config(hasAugmentations)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (d *document) config(hasAugmentations bool) *Config {
	cfg := &Config{
		Prompt:          d.Prompt,
		DictionaryIntro: d.DictionaryIntro,
		ShortNotice:     d.ShortNotice,
		UserPrompt:      d.UserPrompt,
		Augmentations:   d.Augmentations,
	}
	if cfg.UserPrompt == "" {
		cfg.UserPrompt = DefaultUserPrompt
	}
	if !hasAugmentations {
		cfg.Augmentations = dictionary.DefaultAugmentations()
	}

	for _, e := range d.ByPhrase {
		cfg.Dictionary.ByPhrase = append(cfg.Dictionary.ByPhrase, dictionary.PhraseTerms{Phrase: e.key, Terms: e.values})
	}
	for _, e := range d.BySearchWord {
		cfg.Dictionary.BySearchTerm = append(cfg.Dictionary.BySearchTerm, dictionary.TermPhrases{Term: e.key, Phrases: e.values})
	}
	for _, e := range d.Others {
		cfg.Dictionary.Others = append(cfg.Dictionary.Others, dictionary.TermPhrase{Term: e.key, Phrase: e.value})
	}
	for _, e := range d.Comments {
		cfg.Comments = append(cfg.Comments, dictionary.CommentRule{Line: e.key, Triggers: e.values})
	}
	return cfg
}

// Validate checks that the document can produce a prompt
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Prompt) == "" {
		return fmt.Errorf("%w: prompt template is empty", ErrConfigurationMissing)
	}
	if !strings.Contains(c.UserPrompt, phrasePlaceholder) {
		return fmt.Errorf("%w: user_prompt must contain %s", ErrConfigurationMissing, phrasePlaceholder)
	}
	return nil
}
