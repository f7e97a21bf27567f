package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/snonux/phrasememo/internal/cache"
)

// Snapshotter is anything that can return the whole translation memory
type Snapshotter interface {
	Snapshot(ctx context.Context) (*cache.Document, error)
}

// WriteSnapshot saves the translation memory of src as a timestamped JSON
// file inside dir and returns the file path
func WriteSnapshot(ctx context.Context, src Snapshotter, dir string) (string, error) {
	doc, err := src.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read translation memory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode translation memory: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	path := filepath.Join(dir, archiveName("20060102-150405"))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		// Two snapshots within one second
		path = filepath.Join(dir, archiveName("20060102-150405.000000"))
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	}
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}
	return path, nil
}

func archiveName(layout string) string {
	return fmt.Sprintf("translations-%s.json", time.Now().Format(layout))
}
