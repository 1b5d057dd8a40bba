package store

import (
	"context"
	"sync"
	"time"
)

// MemStore is a thread-safe in-memory document store, used by tests and as
// the fake behind the core's persistence seams.
type MemStore struct {
	mu   sync.RWMutex
	docs map[string]Document

	// now is injectable for tests.
	now func() time.Time
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		docs: make(map[string]Document),
		now:  time.Now,
	}
}

// WithClock overrides the store's clock and returns the store for chaining.
func (s *MemStore) WithClock(now func() time.Time) *MemStore {
	s.now = now
	return s
}

// Load returns the stored document for id.
func (s *MemStore) Load(_ context.Context, id string) (Document, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	return doc, ok, nil
}

// Save upserts the document, stamping UpdatedAt and preserving CreatedAt.
func (s *MemStore) Save(_ context.Context, id string, doc Document) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc = sanitizeDocument(doc)
	now := s.now().UTC()
	if existing, ok := s.docs[id]; ok {
		doc.CreatedAt = existing.CreatedAt
	} else {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	s.docs[id] = doc
	return doc, nil
}

var _ Store = (*MemStore)(nil)
