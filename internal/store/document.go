package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"codeberg.org/snonux/phrasememo/internal/cache"
)

// Blob reads and writes the serialized document. Read reports false when
// nothing has been written yet.
type Blob interface {
	Read(ctx context.Context) ([]byte, bool, error)
	Write(ctx context.Context, data []byte) error
	String() string
}

// DocumentStore implements cache.Store over a single JSON document.
// Mutations within the process are serialized; across processes the last
// complete write wins, which the Blob guarantees to be atomic.
type DocumentStore struct {
	mu   sync.Mutex
	blob Blob
}

// NewDocumentStore creates a store persisting to blob
func NewDocumentStore(blob Blob) *DocumentStore {
	return &DocumentStore{blob: blob}
}

// NewFileStore creates a DocumentStore backed by a local JSON file
func NewFileStore(path string) *DocumentStore {
	return NewDocumentStore(NewFileBlob(path))
}

func (s *DocumentStore) load(ctx context.Context) (*cache.Document, error) {
	data, ok, err := s.blob.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.blob, err)
	}
	if !ok || len(bytes.TrimSpace(data)) == 0 {
		return cache.NewDocument(), nil
	}

	var doc cache.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.blob, err)
	}
	return doc.Normalize(), nil
}

func (s *DocumentStore) save(ctx context.Context, doc *cache.Document) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	if err := s.blob.Write(ctx, buf.Bytes()); err != nil {
		return fmt.Errorf("writing %s: %w", s.blob, err)
	}
	return nil
}

func (s *DocumentStore) LookupApproved(ctx context.Context, phrase string) (string, bool, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return "", false, err
	}
	tr, ok := doc.LookupApproved(phrase)
	return tr, ok, nil
}

func (s *DocumentStore) LookupNotApproved(ctx context.Context, phrase string) (string, bool, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return "", false, err
	}
	tr, ok := doc.LookupNotApproved(phrase)
	return tr, ok, nil
}

func (s *DocumentStore) FindNotApprovedByTranslation(ctx context.Context, translation string) ([]string, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.FindNotApprovedByTranslation(translation), nil
}

// Put reads the document, moves the phrase and rewrites the document
func (s *DocumentStore) Put(ctx context.Context, phrase, translation string, state cache.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := doc.Put(phrase, translation, state); err != nil {
		return err
	}
	return s.save(ctx, doc)
}

func (s *DocumentStore) Snapshot(ctx context.Context) (*cache.Document, error) {
	return s.load(ctx)
}

func (s *DocumentStore) Close() error { return nil }
