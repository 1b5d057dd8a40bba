package persist

import (
	"context"
	"sync"
	"time"

	"github.com/schemapad/schemapad/store"
)

// SessionClock is the injected capability tracking the last store
// timestamp this session has seen per document. Uncoordinated editors
// (another tab, another machine) advance the store behind our back; the
// baseline is how staleness is detected.
type SessionClock interface {
	// Baseline returns the last store timestamp this session observed.
	Baseline(docID string) (time.Time, bool)

	// Advance records a newly observed store timestamp.
	Advance(docID string, t time.Time)
}

// MemSessionClock is a thread-safe in-memory SessionClock.
type MemSessionClock struct {
	mu        sync.RWMutex
	baselines map[string]time.Time
}

// NewMemSessionClock creates an empty session clock.
func NewMemSessionClock() *MemSessionClock {
	return &MemSessionClock{baselines: make(map[string]time.Time)}
}

func (c *MemSessionClock) Baseline(docID string) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.baselines[docID]
	return t, ok
}

func (c *MemSessionClock) Advance(docID string, t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baselines[docID] = t
}

// Conflict reports that the store holds a newer document than this
// session's baseline. It is advisory: there is no atomic check-and-set,
// so a race between the check and a write is possible and accepted.
type Conflict struct {
	DocumentID      string
	LocalBaseline   time.Time
	RemoteUpdatedAt time.Time
}

// ConflictChecker detects stale local state by comparing the store's
// updatedAt against the session baseline. Resolution is always an
// explicit user decision: Overwrite pushes local state over the remote,
// Reload discards local state in favor of the remote.
type ConflictChecker struct {
	st    store.Store
	clock SessionClock
}

// NewConflictChecker creates a checker over the given store and clock.
func NewConflictChecker(st store.Store, clock SessionClock) *ConflictChecker {
	return &ConflictChecker{st: st, clock: clock}
}

// Check returns a non-nil Conflict when the stored document is newer than
// the session baseline. A document this session has never observed is
// never in conflict.
func (c *ConflictChecker) Check(ctx context.Context, docID string) (*Conflict, error) {
	baseline, ok := c.clock.Baseline(docID)
	if !ok {
		return nil, nil
	}
	doc, found, err := c.st.Load(ctx, docID)
	if err != nil {
		return nil, err
	}
	if !found || !doc.UpdatedAt.After(baseline) {
		return nil, nil
	}
	return &Conflict{
		DocumentID:      docID,
		LocalBaseline:   baseline,
		RemoteUpdatedAt: doc.UpdatedAt,
	}, nil
}

// Overwrite resolves a conflict by writing the local document over the
// remote one and advancing the baseline to the new store timestamp.
func (c *ConflictChecker) Overwrite(ctx context.Context, docID string, doc store.Document) (store.Document, error) {
	saved, err := c.st.Save(ctx, docID, doc)
	if err != nil {
		return store.Document{}, err
	}
	c.clock.Advance(docID, saved.UpdatedAt)
	return saved, nil
}

// Reload resolves a conflict by discarding local state: it returns the
// remote document and advances the baseline to its timestamp.
func (c *ConflictChecker) Reload(ctx context.Context, docID string) (store.Document, bool, error) {
	doc, ok, err := c.st.Load(ctx, docID)
	if err != nil || !ok {
		return store.Document{}, ok, err
	}
	c.clock.Advance(docID, doc.UpdatedAt)
	return doc, true, nil
}
