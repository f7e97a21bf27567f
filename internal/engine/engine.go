package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"codeberg.org/snonux/phrasememo/internal"
	"codeberg.org/snonux/phrasememo/internal/cache"
	"codeberg.org/snonux/phrasememo/internal/dictionary"
	"codeberg.org/snonux/phrasememo/internal/normalize"
	"codeberg.org/snonux/phrasememo/internal/prompt"
	"codeberg.org/snonux/phrasememo/internal/translation"
)

const (
	// phrases up to this many characters are returned as they are
	maxTrivialLength = 3

	noticeNumber = "A number: no need to translate"
)

// a digit followed by one to nine more characters, e.g. "1.5 t" or "3,5m"
var numberLikePattern = regexp.MustCompile(`^[0-9].{1,9}$`)

// Deps are the collaborators of an Engine. Builder and Client may be nil;
// requests that need them then fail with ErrConfigurationMissing.
type Deps struct {
	Cache   *cache.Cache
	Builder *prompt.Builder
	Client  translation.Client
	Logger  *slog.Logger

	// Augmentations overrides the rules taken from Builder
	Augmentations []dictionary.Augmentation
}

// Options control a single Translate call
type Options struct {
	UseCache bool
}

// DefaultOptions reads from and writes to the cache
var DefaultOptions = Options{UseCache: true}

// Result is the outcome of translating one phrase. Info is a note string on
// the pass-through paths and [model, usage] on the API path.
type Result struct {
	Translation string   `json:"translate"`
	Approved    bool     `json:"approved"`
	Info        any      `json:"info,omitempty"`
	Prompt      []string `json:"prompt,omitempty"`
}

// Engine orchestrates normalization, caching and API calls
type Engine struct {
	cache         *cache.Cache
	builder       *prompt.Builder
	client        translation.Client
	augmentations []dictionary.Augmentation
	logger        *slog.Logger
}

// New creates an Engine. Without a cache an in-memory one is used.
func New(deps Deps) *Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := deps.Cache
	if c == nil {
		c = cache.New(cache.NewMemoryStore(), logger)
	}

	augmentations := deps.Augmentations
	if augmentations == nil {
		if deps.Builder != nil {
			augmentations = deps.Builder.Augmentations()
		} else {
			augmentations = dictionary.DefaultAugmentations()
		}
	}

	return &Engine{
		cache:         c,
		builder:       deps.Builder,
		client:        deps.Client,
		augmentations: augmentations,
		logger:        logger.With("system", "engine"),
	}
}

// Cache returns the cache the engine reads and writes
func (e *Engine) Cache() *cache.Cache { return e.cache }

// Translate returns the translation of raw. A numbered-list prefix such as
// "3. " is split off before anything else and put back in front of the
// translation; it never becomes part of the cache key.
func (e *Engine) Translate(ctx context.Context, raw string, opts Options) (Result, error) {
	prefix, text := normalize.Normalize(raw)

	res, err := e.translate(ctx, text, opts)
	if err != nil {
		return res, err
	}

	if res.Translation != "" {
		if clause, approve := dictionary.Augment(text, e.augmentations); clause != "" {
			res.Translation += " (" + clause + ")"
			res.Approved = res.Approved || approve
		}
		res.Translation = prefix + res.Translation
	}
	return res, nil
}

func (e *Engine) translate(ctx context.Context, text string, opts Options) (Result, error) {
	if n := internal.RuneLen(text); n <= maxTrivialLength {
		return Result{
			Translation: text,
			Approved:    true,
			Info:        fmt.Sprintf("A short string: only %d symbol(s)", n),
		}, nil
	}

	if isNumeric(text) || numberLikePattern.MatchString(text) {
		return Result{Translation: text, Approved: true, Info: noticeNumber}, nil
	}

	if opts.UseCache {
		hit, ok, err := e.cache.Lookup(ctx, text)
		if err != nil {
			e.logger.Warn("cache lookup failed, asking the API", "phrase", text, "error", err)
		} else if ok {
			e.logger.Debug("cache hit", "phrase", text, "approved", hit.Approved)
			return Result{Translation: hit.Translation, Approved: hit.Approved}, nil
		}
	}

	return e.requestAPI(ctx, text, opts)
}

func (e *Engine) requestAPI(ctx context.Context, text string, opts Options) (Result, error) {
	if e.builder == nil {
		return Result{}, fmt.Errorf("%w: rules document not loaded", ErrConfigurationMissing)
	}
	if e.client == nil {
		return Result{}, fmt.Errorf("%w: no translation client", ErrConfigurationMissing)
	}

	req := translation.Request{
		SystemPrompt: e.builder.Build(text),
		UserMessage:  e.builder.UserMessage(text),
	}
	res := Result{Prompt: []string{req.SystemPrompt, req.UserMessage}}

	resp, err := e.client.Translate(ctx, req)
	if err != nil {
		if errors.Is(err, translation.ErrMissingCredentials) {
			return res, fmt.Errorf("%w: %w", ErrConfigurationMissing, err)
		}
		return res, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	res.Translation = normalize.CleanTranslation(resp.Translation)
	res.Info = []any{resp.Model, resp.Usage}
	e.logger.Info("translated by API", "phrase", text, "client", e.client.Name(), "tokens", resp.Usage.TotalTokens)

	if opts.UseCache && res.Translation != "" {
		if err := e.cache.Put(ctx, text, res.Translation, cache.NotApproved); err != nil {
			e.logger.Error("failed to cache translation", "phrase", text, "error", err)
		}
	}
	return res, nil
}

// Approve moves the not-approved entry translated as raw to the approved
// bucket. It reports false when no such entry exists.
func (e *Engine) Approve(ctx context.Context, raw string) (bool, error) {
	return e.move(ctx, raw, cache.Approved)
}

// MarkIncorrect moves the not-approved entry translated as raw to the
// incorrect bucket. It reports false when no such entry exists.
func (e *Engine) MarkIncorrect(ctx context.Context, raw string) (bool, error) {
	return e.move(ctx, raw, cache.Incorrect)
}

// Seed stores translation as the approved translation of raw. raw is
// normalized the way Translate normalizes it, and a numbered-list prefix is
// dropped from both sides.
func (e *Engine) Seed(ctx context.Context, raw, translation string) error {
	_, text := normalize.Normalize(raw)
	_, translation = normalize.SplitPrefix(translation)
	if text == "" || translation == "" {
		return ErrInputMissing
	}

	if err := e.cache.Put(ctx, text, translation, cache.Approved); err != nil {
		return err
	}
	e.logger.Debug("translation seeded", "phrase", text)
	return nil
}

func (e *Engine) move(ctx context.Context, raw string, state cache.State) (bool, error) {
	_, text := normalize.SplitPrefix(raw)
	if text == "" {
		return false, ErrInputMissing
	}

	phrase, err := e.cache.FindByTranslation(ctx, text)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			e.logger.Info("translation not found", "translation", text, "state", state)
			return false, nil
		}
		return false, err
	}

	if err := e.cache.Put(ctx, phrase, text, state); err != nil {
		return false, err
	}
	e.logger.Info("translation moved", "phrase", phrase, "state", state)
	return true, nil
}

// isNumeric reports whether s is a decimal number such as "12", "-3.5" or "1e3"
func isNumeric(s string) bool {
	if s == "" || strings.Trim(s, "0123456789+-.eE") != "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil || errors.Is(err, strconv.ErrRange)
}
