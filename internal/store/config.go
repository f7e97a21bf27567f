package store

import (
	"context"
	"fmt"

	"codeberg.org/snonux/phrasememo/internal/cache"
)

// Config selects and locates a cache backend
type Config struct {
	Backend string // "file", "sqlite", "postgres", "s3" or "memory"
	Path    string // file and sqlite
	DSN     string // postgres
	S3      S3Config
}

// Open creates the backend described by cfg
func Open(ctx context.Context, cfg Config) (cache.Store, error) {
	switch cfg.Backend {
	case "", "file":
		if cfg.Path == "" {
			return nil, fmt.Errorf("file store requires a path")
		}
		return NewFileStore(cfg.Path), nil
	case "sqlite":
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite store requires a path")
		}
		return OpenSQLite(cfg.Path)
	case "postgres":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres store requires a dsn")
		}
		return OpenPostgres(ctx, cfg.DSN)
	case "s3":
		return NewObjectStore(cfg.S3)
	case "memory":
		return cache.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}
