package cache

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore keeps the document in process memory. It is used for tests
// and for runs that do not need persistence.
type MemoryStore struct {
	mu  sync.RWMutex
	doc *Document
}

// NewMemoryStore returns an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{doc: NewDocument()}
}

func (m *MemoryStore) LookupApproved(_ context.Context, phrase string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tr, ok := m.doc.LookupApproved(phrase)
	return tr, ok, nil
}

func (m *MemoryStore) LookupNotApproved(_ context.Context, phrase string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tr, ok := m.doc.LookupNotApproved(phrase)
	return tr, ok, nil
}

func (m *MemoryStore) FindNotApprovedByTranslation(_ context.Context, translation string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc.FindNotApprovedByTranslation(translation), nil
}

func (m *MemoryStore) Put(_ context.Context, phrase, translation string, state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.Put(phrase, translation, state)
}

// Snapshot returns a deep copy of the document
func (m *MemoryStore) Snapshot(_ context.Context) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc.Clone()
}

func (m *MemoryStore) Close() error { return nil }

// Clone returns a deep copy of d
func (d *Document) Clone() (*Document, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var out Document
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out.Normalize(), nil
}
