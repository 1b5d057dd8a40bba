// Package persist layers session behavior over the document store: a
// debounced autosaver that coalesces bursts of edits into single writes,
// and an advisory conflict checker for uncoordinated concurrent editors.
package persist

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/schemapad/schemapad/store"
)

// AutosaverConfig configures an Autosaver.
type AutosaverConfig struct {
	Store      store.Store
	DocumentID string

	// Debounce is how long after the last mutation the save fires.
	// Default: 750ms.
	Debounce time.Duration

	// OnSaved, when set, receives the stored document after every
	// successful write.
	OnSaved func(store.Document)

	// OnError, when set, receives save failures so the caller can surface
	// a notice. In-memory state is never rolled back on failure.
	OnError func(error)

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Autosaver debounces document writes. Each Note replaces the pending
// snapshot and resets the timer, so a burst of edits produces one write
// carrying only the latest state. Writes are fire-and-forget: editing is
// never blocked, and an in-flight write is never cancelled.
type Autosaver struct {
	st       store.Store
	docID    string
	debounce time.Duration
	onSaved  func(store.Document)
	onError  func(error)
	logger   *slog.Logger

	mu       sync.Mutex
	pending  *store.Document
	timer    *time.Timer
	closed   bool
	inFlight sync.WaitGroup
}

// NewAutosaver creates an autosaver for one document.
func NewAutosaver(cfg AutosaverConfig) *Autosaver {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = 750 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Autosaver{
		st:       cfg.Store,
		docID:    cfg.DocumentID,
		debounce: debounce,
		onSaved:  cfg.OnSaved,
		onError:  cfg.OnError,
		logger:   logger,
	}
}

// Note records the latest document state and (re)arms the debounce timer.
// A newer Note supersedes a pending one; only the newest state is written.
func (a *Autosaver) Note(doc store.Document) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	a.pending = &doc
	if a.timer == nil {
		a.timer = time.AfterFunc(a.debounce, a.flush)
	} else {
		a.timer.Reset(a.debounce)
	}
}

// Flush writes any pending snapshot immediately, without waiting for the
// timer. It blocks until the write completes.
func (a *Autosaver) Flush() {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	doc := a.pending
	a.pending = nil
	a.mu.Unlock()

	if doc != nil {
		a.save(*doc)
	}
}

// Close flushes any pending snapshot and stops the autosaver. Later Notes
// are ignored. It is safe to call Close multiple times.
func (a *Autosaver) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.mu.Unlock()

	a.Flush()
	a.inFlight.Wait()
}

// flush runs on the debounce timer.
func (a *Autosaver) flush() {
	a.mu.Lock()
	doc := a.pending
	a.pending = nil
	a.mu.Unlock()

	if doc == nil {
		return
	}
	a.inFlight.Add(1)
	go func() {
		defer a.inFlight.Done()
		a.save(*doc)
	}()
}

func (a *Autosaver) save(doc store.Document) {
	saved, err := a.st.Save(context.Background(), a.docID, doc)
	if err != nil {
		a.logger.Error("autosave failed", "document", a.docID, "error", err)
		if a.onError != nil {
			a.onError(err)
		}
		return
	}
	if a.onSaved != nil {
		a.onSaved(saved)
	}
}
