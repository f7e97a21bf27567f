package cache

import (
	"context"
	"fmt"
	"log/slog"

	"codeberg.org/snonux/phrasememo/internal/normalize"
)

// Store is the durable side of the cache. Implementations must keep a phrase
// in one bucket only and make Put safe under concurrent writers.
type Store interface {
	LookupApproved(ctx context.Context, phrase string) (string, bool, error)
	LookupNotApproved(ctx context.Context, phrase string) (string, bool, error)
	FindNotApprovedByTranslation(ctx context.Context, translation string) ([]string, error)
	Put(ctx context.Context, phrase, translation string, state State) error
	Snapshot(ctx context.Context) (*Document, error)
	Close() error
}

// Hit is a cached translation and whether it came from an approved bucket
type Hit struct {
	Translation string
	Approved    bool
}

// Cache applies key normalization in front of a Store
type Cache struct {
	store  Store
	logger *slog.Logger
}

// New creates a Cache backed by store
func New(store Store, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{store: store, logger: logger.With("system", "cache")}
}

// Lookup searches the approved buckets first, then the not-approved one
func (c *Cache) Lookup(ctx context.Context, phrase string) (Hit, bool, error) {
	key := normalize.CacheKey(phrase)

	tr, ok, err := c.store.LookupApproved(ctx, key)
	if err != nil {
		return Hit{}, false, fmt.Errorf("approved lookup: %w", err)
	}
	if ok {
		return Hit{Translation: tr, Approved: true}, true, nil
	}

	tr, ok, err = c.store.LookupNotApproved(ctx, key)
	if err != nil {
		return Hit{}, false, fmt.Errorf("not-approved lookup: %w", err)
	}
	if ok {
		return Hit{Translation: tr}, true, nil
	}
	return Hit{}, false, nil
}

// LookupApproved returns the approved translation of phrase
func (c *Cache) LookupApproved(ctx context.Context, phrase string) (string, bool, error) {
	return c.store.LookupApproved(ctx, normalize.CacheKey(phrase))
}

// LookupNotApproved returns the not-approved translation of phrase
func (c *Cache) LookupNotApproved(ctx context.Context, phrase string) (string, bool, error) {
	return c.store.LookupNotApproved(ctx, normalize.CacheKey(phrase))
}

// FindByTranslation returns the not-approved phrase translated as
// translation. When several phrases share it, the last one in phrase order
// wins and the ambiguity is logged.
func (c *Cache) FindByTranslation(ctx context.Context, translation string) (string, error) {
	phrases, err := c.store.FindNotApprovedByTranslation(ctx, translation)
	if err != nil {
		return "", fmt.Errorf("reverse lookup: %w", err)
	}
	if len(phrases) == 0 {
		return "", ErrNotFound
	}
	if len(phrases) > 1 {
		c.logger.Warn("translation shared by several phrases",
			"translation", translation,
			"phrases", phrases,
			"chosen", phrases[len(phrases)-1])
	}
	return phrases[len(phrases)-1], nil
}

// Put moves phrase into the bucket for state
func (c *Cache) Put(ctx context.Context, phrase, translation string, state State) error {
	key := normalize.CacheKey(phrase)
	if key == "" {
		return fmt.Errorf("empty phrase")
	}
	if err := c.store.Put(ctx, key, translation, state); err != nil {
		return fmt.Errorf("storing %q: %w", key, err)
	}
	c.logger.Debug("translation stored", "phrase", key, "state", state)
	return nil
}

// Snapshot returns a copy of the whole cache
func (c *Cache) Snapshot(ctx context.Context) (*Document, error) {
	return c.store.Snapshot(ctx)
}

// Close releases the underlying store
func (c *Cache) Close() error {
	return c.store.Close()
}
