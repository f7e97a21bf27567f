package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"codeberg.org/snonux/phrasememo/internal/archive"
	"codeberg.org/snonux/phrasememo/internal/batch"
	"codeberg.org/snonux/phrasememo/internal/cache"
	"codeberg.org/snonux/phrasememo/internal/engine"
	"codeberg.org/snonux/phrasememo/internal/models"
	"codeberg.org/snonux/phrasememo/internal/prompt"
	"codeberg.org/snonux/phrasememo/internal/server"
	"codeberg.org/snonux/phrasememo/internal/store"
	"codeberg.org/snonux/phrasememo/internal/translation"
)

// Processor owns the engine and the resources behind it
type Processor struct {
	cfg    Config
	logger *slog.Logger
	cache  *cache.Cache
	engine *engine.Engine
}

// NewProcessor opens the store and builds the engine. A missing prompt
// document is only logged: pass-through and cached phrases still work, and
// API requests fail with a configuration error.
func NewProcessor(ctx context.Context, cfg Config, logger *slog.Logger) (*Processor, error) {
	if logger == nil {
		logger = slog.Default()
	}

	backend, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open translation store: %w", err)
	}
	c := cache.New(backend, logger)

	var builder *prompt.Builder
	if rules, err := prompt.Load(cfg.PromptFile); err != nil {
		logger.Warn("prompt rules not loaded, API translation disabled", "file", cfg.PromptFile, "error", err)
	} else if builder, err = prompt.NewBuilder(rules, cfg.PromptCacheSize); err != nil {
		_ = c.Close()
		return nil, err
	}

	client, err := NewClient(cfg)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	e := engine.New(engine.Deps{
		Cache:   c,
		Builder: builder,
		Client: translation.NewBreaker(client, translation.BreakerConfig{
			ConsecutiveFailures: cfg.BreakerFailures,
			OpenTimeout:         cfg.BreakerTimeout,
		}, logger),
		Logger: logger,
	})

	logger.Debug("processor ready", "store", cfg.Store.Backend, "client", client.Name())
	return &Processor{cfg: cfg, logger: logger, cache: c, engine: e}, nil
}

// NewClient builds the translation client for cfg.Provider
func NewClient(cfg Config) (translation.Client, error) {
	switch cfg.Provider {
	case "", "openai":
		return translation.NewOpenAIClient(credentials(cfg.OpenAI), translation.OpenAIConfig{
			Model:   cfg.OpenAI.Model,
			BaseURL: cfg.OpenAI.BaseURL,
			Timeout: cfg.RequestTimeout,
		}), nil
	case "gemini":
		return translation.NewGeminiClient(credentials(cfg.Gemini), translation.GeminiConfig{
			Model:   cfg.Gemini.Model,
			BaseURL: cfg.Gemini.BaseURL,
			Timeout: cfg.RequestTimeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (use openai or gemini)", cfg.Provider)
	}
}

// credentials prefers a key file over a single key
func credentials(p ProviderConfig) translation.CredentialSupplier {
	if p.KeysFile != "" {
		return translation.NewPoolSupplier(p.KeysFile)
	}
	return translation.StaticSupplier(p.APIKey)
}

// Engine returns the wired engine
func (p *Processor) Engine() *engine.Engine { return p.engine }

// Close releases the store
func (p *Processor) Close() error { return p.cache.Close() }

// Translate translates phrases and prints one line per phrase, or the full
// results as JSON
func (p *Processor) Translate(ctx context.Context, w io.Writer, phrases []string, useCache, asJSON bool) error {
	entries := make([]batch.Entry, len(phrases))
	for i, phrase := range phrases {
		entries[i] = batch.Entry{Phrase: phrase}
	}

	results, err := batch.Run(ctx, p.engine, entries, batch.Options{Concurrency: 1, UseCache: useCache})
	if err != nil {
		return err
	}

	if asJSON {
		out := make([]server.TranslateResponse, len(results))
		for i, r := range results {
			out[i] = toResponse(r)
		}
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else if err := batch.Write(w, results); err != nil {
		return err
	}

	if n := batch.Failed(results); n > 0 {
		return fmt.Errorf("%d of %d phrases failed", n, len(results))
	}
	return nil
}

func toResponse(r batch.Result) server.TranslateResponse {
	if r.Err != nil {
		msg := r.Err.Error()
		return server.TranslateResponse{Prompt: r.Result.Prompt, Error: &msg}
	}
	tr := r.Result.Translation
	return server.TranslateResponse{
		Translate: &tr,
		Approved:  r.Result.Approved,
		Info:      r.Result.Info,
		Prompt:    r.Result.Prompt,
	}
}

// Approve approves the remembered translation text
func (p *Processor) Approve(ctx context.Context, w io.Writer, text string) error {
	ok, err := p.engine.Approve(ctx, text)
	return report(w, "approved", text, ok, err)
}

// MarkIncorrect marks the remembered translation text as incorrect
func (p *Processor) MarkIncorrect(ctx context.Context, w io.Writer, text string) error {
	ok, err := p.engine.MarkIncorrect(ctx, text)
	return report(w, "marked incorrect", text, ok, err)
}

func report(w io.Writer, verb, text string, ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%q: %w", text, engine.ErrNotFound)
	}
	_, err = fmt.Fprintf(w, "%s: %s\n", verb, text)
	return err
}

// ProcessBatch translates the phrases in filename and prints the results
func (p *Processor) ProcessBatch(ctx context.Context, w io.Writer, filename string, useCache bool) error {
	entries, err := batch.ReadBatchFile(filename)
	if err != nil {
		return err
	}

	results, err := batch.Run(ctx, p.engine, entries, batch.Options{
		Concurrency: p.cfg.BatchConcurrency,
		UseCache:    useCache,
	})
	if werr := batch.Write(w, results); werr != nil && err == nil {
		err = werr
	}
	if err != nil {
		return err
	}

	failed := batch.Failed(results)
	p.logger.Info("batch finished", "file", filename, "total", len(results), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d phrases failed", failed, len(results))
	}
	return nil
}

// Export writes the whole translation memory as indented JSON
func (p *Processor) Export(ctx context.Context, w io.Writer) error {
	doc, err := p.cache.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to read translation memory: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(doc)
}

// Archive saves a timestamped snapshot of the translation memory into dir,
// or into the configured archive directory when dir is empty
func (p *Processor) Archive(ctx context.Context, w io.Writer, dir string) error {
	if dir == "" {
		dir = p.cfg.ArchiveDir
	}
	path, err := archive.WriteSnapshot(ctx, p.cache, dir)
	if err != nil {
		return err
	}
	p.logger.Info("translation memory archived", "path", path)
	_, err = fmt.Fprintf(w, "Translation memory archived to: %s\n", path)
	return err
}

// Serve runs the HTTP endpoint until ctx is cancelled
func (p *Processor) Serve(ctx context.Context) error {
	cfg := p.cfg.Server
	if cfg.Addr == "" {
		cfg = server.DefaultConfig()
	}
	return server.New(p.engine, p.logger).Run(ctx, cfg)
}

// ListModels prints the chat models of the configured OpenAI account
func ListModels(ctx context.Context, w io.Writer, cfg Config) error {
	lister := models.NewLister(credentials(cfg.OpenAI), cfg.OpenAI.BaseURL)
	return lister.ListAvailableModels(ctx, w, cfg.OpenAI.Model)
}

// Migrate applies the schema migrations of a SQL store
func Migrate(ctx context.Context, cfg Config, logger *slog.Logger) error {
	switch cfg.Store.Backend {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: %q has no migrations", errNoMigrations, cfg.Store.Backend)
	}

	backend, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	logger.Info("migrations applied", "store", cfg.Store.Backend)
	return backend.Close()
}

var errNoMigrations = errors.New("store backend without schema")
