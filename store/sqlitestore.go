package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const documentSQLiteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	nodes BLOB NOT NULL,
	edges BLOB NOT NULL,
	collections BLOB NOT NULL,
	separators BLOB NOT NULL,
	db_type TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

// DefaultSQLitePath returns ~/.schemapad/schemapad.db.
func DefaultSQLitePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("document store: resolve user home: %w", err)
	}
	return filepath.Join(home, ".schemapad", "schemapad.db"), nil
}

// SQLiteStoreConfig configures the SQLite document store.
type SQLiteStoreConfig struct {
	DSN string

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// SQLiteStore persists canvas documents in SQLite, one row per document id.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite-backed document store.
func NewSQLiteStore(cfg SQLiteStoreConfig) (*SQLiteStore, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, errors.New("document store sqlite dsn is required")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("document sqlite store open: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("document sqlite store set WAL mode: %w", err)
	}
	if _, err := db.Exec(documentSQLiteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("document sqlite store create schema: %w", err)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &SQLiteStore{db: db, now: now}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load returns the stored document for id.
func (s *SQLiteStore) Load(ctx context.Context, id string) (Document, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT nodes, edges, collections, separators, db_type, created_at, updated_at
FROM documents WHERE id = ?`, id)

	var (
		nodesJSON, edgesJSON, collectionsJSON, separatorsJSON []byte
		dbType, createdAt, updatedAt                          string
	)
	err := row.Scan(&nodesJSON, &edgesJSON, &collectionsJSON, &separatorsJSON, &dbType, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, fmt.Errorf("document sqlite store load: %w", err)
	}

	doc := Document{DBType: dbType}
	if err := json.Unmarshal(nodesJSON, &doc.Nodes); err != nil {
		return Document{}, false, fmt.Errorf("document sqlite store decode nodes: %w", err)
	}
	if err := json.Unmarshal(edgesJSON, &doc.Edges); err != nil {
		return Document{}, false, fmt.Errorf("document sqlite store decode edges: %w", err)
	}
	if err := json.Unmarshal(collectionsJSON, &doc.Collections); err != nil {
		return Document{}, false, fmt.Errorf("document sqlite store decode collections: %w", err)
	}
	if err := json.Unmarshal(separatorsJSON, &doc.Separators); err != nil {
		return Document{}, false, fmt.Errorf("document sqlite store decode separators: %w", err)
	}
	if doc.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Document{}, false, fmt.Errorf("document sqlite store parse created_at: %w", err)
	}
	if doc.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return Document{}, false, fmt.Errorf("document sqlite store parse updated_at: %w", err)
	}
	return doc, true, nil
}

// Save upserts the document, stamping UpdatedAt and preserving the
// existing row's CreatedAt.
func (s *SQLiteStore) Save(ctx context.Context, id string, doc Document) (Document, error) {
	doc = sanitizeDocument(doc)
	now := s.now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	nodesJSON, err := json.Marshal(doc.Nodes)
	if err != nil {
		return Document{}, fmt.Errorf("document sqlite store encode nodes: %w", err)
	}
	edgesJSON, err := json.Marshal(doc.Edges)
	if err != nil {
		return Document{}, fmt.Errorf("document sqlite store encode edges: %w", err)
	}
	collectionsJSON, err := json.Marshal(doc.Collections)
	if err != nil {
		return Document{}, fmt.Errorf("document sqlite store encode collections: %w", err)
	}
	separatorsJSON, err := json.Marshal(doc.Separators)
	if err != nil {
		return Document{}, fmt.Errorf("document sqlite store encode separators: %w", err)
	}

	ts := now.Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx, `
INSERT INTO documents (id, nodes, edges, collections, separators, db_type, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	nodes = excluded.nodes,
	edges = excluded.edges,
	collections = excluded.collections,
	separators = excluded.separators,
	db_type = excluded.db_type,
	updated_at = excluded.updated_at`,
		id, nodesJSON, edgesJSON, collectionsJSON, separatorsJSON, doc.DBType, ts, ts)
	if err != nil {
		return Document{}, fmt.Errorf("document sqlite store save: %w", err)
	}

	// The upsert keeps the original created_at; read it back so the
	// returned document reflects what is stored.
	row := s.db.QueryRowContext(ctx, `SELECT created_at FROM documents WHERE id = ?`, id)
	var createdAt string
	if err := row.Scan(&createdAt); err != nil {
		return Document{}, fmt.Errorf("document sqlite store read created_at: %w", err)
	}
	if doc.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Document{}, fmt.Errorf("document sqlite store parse created_at: %w", err)
	}
	return doc, nil
}

var _ Store = (*SQLiteStore)(nil)
