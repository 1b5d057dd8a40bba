package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/schemapad/schemapad"
	"github.com/schemapad/schemapad/store"
)

var standardCronParser = cron.NewParser(
	cron.Minute |
		cron.Hour |
		cron.Dom |
		cron.Month |
		cron.Dow,
)

func parseCronExpressionUTC(expr string) (cron.Schedule, error) {
	clean := strings.TrimSpace(expr)
	if clean == "" {
		return nil, fmt.Errorf("cron expression is required")
	}

	upper := strings.ToUpper(clean)
	if strings.Contains(upper, "CRON_TZ=") || strings.Contains(upper, "TZ=") {
		return nil, fmt.Errorf("cron expression must be UTC-only (timezone prefixes are not allowed)")
	}

	schedule, err := standardCronParser.Parse(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}
	return schedule, nil
}

// SnapshotterConfig configures a Snapshotter.
type SnapshotterConfig struct {
	Store      store.Store
	DocumentID string

	// Dir is where snapshot files land. Created on first snapshot.
	Dir string

	// CronExpr is a standard five-field cron expression, evaluated in UTC.
	CronExpr string

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Now is for tests. Defaults to time.Now.
	Now func() time.Time
}

// Snapshotter periodically writes the stored document to disk as an export
// envelope. Snapshots are plain files a user can re-import or diff; a
// missing document is skipped, not an error.
type Snapshotter struct {
	st       store.Store
	docID    string
	dir      string
	schedule cron.Schedule
	logger   *slog.Logger
	now      func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewSnapshotter creates a snapshotter. The cron expression is validated up
// front so a misconfigured daemon fails at startup, not at the first tick.
func NewSnapshotter(cfg SnapshotterConfig) (*Snapshotter, error) {
	if cfg.Store == nil {
		return nil, errors.New("daemon: snapshotter store is nil")
	}
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, errors.New("daemon: snapshot dir is required")
	}
	schedule, err := parseCronExpressionUTC(cfg.CronExpr)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	docID := cfg.DocumentID
	if docID == "" {
		docID = "default"
	}
	return &Snapshotter{
		st:       cfg.Store,
		docID:    docID,
		dir:      cfg.Dir,
		schedule: schedule,
		logger:   logger,
		now:      now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start launches the cron loop. It returns immediately.
func (s *Snapshotter) Start() {
	go s.run()
}

// Stop halts the cron loop and waits for it to exit. An in-progress
// snapshot finishes first.
func (s *Snapshotter) Stop() {
	close(s.stopCh)
	<-s.doneCh
}

func (s *Snapshotter) run() {
	defer close(s.doneCh)
	for {
		next := s.schedule.Next(s.now().UTC())
		timer := time.NewTimer(next.Sub(s.now().UTC()))
		select {
		case <-s.stopCh:
			timer.Stop()
			return
		case <-timer.C:
			if _, err := s.SnapshotOnce(context.Background()); err != nil {
				s.logger.Error("snapshot failed", "document", s.docID, "error", err)
			}
		}
	}
}

// SnapshotOnce writes one snapshot immediately and returns the file path.
// It returns an empty path when no document is stored yet.
func (s *Snapshotter) SnapshotOnce(ctx context.Context) (string, error) {
	doc, ok, err := s.st.Load(ctx, s.docID)
	if err != nil {
		return "", fmt.Errorf("loading document %q: %w", s.docID, err)
	}
	if !ok {
		s.logger.Debug("snapshot skipped, no document", "document", s.docID)
		return "", nil
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating snapshot dir %q: %w", s.dir, err)
	}

	ts := s.now().UTC()
	env := schemapad.NewEnvelope(doc.Data(), ts)
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}

	name := fmt.Sprintf("%s-%s.json", s.docID, ts.Format("20060102T150405Z"))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing snapshot %q: %w", path, err)
	}

	s.logger.Info("snapshot written", "document", s.docID, "path", path)
	return path, nil
}
