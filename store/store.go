// Package store implements the persistence contract of the canvas: a
// single document, keyed by a caller-chosen identifier, holding the whole
// graph plus created/updated timestamps. Writes are upserts; reads return
// the whole document or "not found".
package store

import (
	"context"
	"errors"
	"time"

	"github.com/schemapad/schemapad"
)

// Sentinel errors for store operations.
var (
	ErrClosed = errors.New("store is closed")
)

// Document is the persisted form of one canvas.
type Document struct {
	Nodes       []schemapad.Node       `json:"nodes"`
	Edges       []schemapad.Edge       `json:"edges"`
	Collections []schemapad.Collection `json:"collections"`
	Separators  []schemapad.Separator  `json:"separators"`
	DBType      string                 `json:"dbType,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

// Data converts the document into export data.
func (d Document) Data() schemapad.ExportData {
	return schemapad.ExportData{
		Nodes:       d.Nodes,
		Edges:       d.Edges,
		Collections: d.Collections,
		Separators:  d.Separators,
		DBType:      d.DBType,
	}
}

// FromData builds a document from export data. Timestamps are the store's
// responsibility and are left zero.
func FromData(data schemapad.ExportData) Document {
	return Document{
		Nodes:       data.Nodes,
		Edges:       data.Edges,
		Collections: data.Collections,
		Separators:  data.Separators,
		DBType:      data.DBType,
	}
}

// Store persists canvas documents. Save is an upsert: the store stamps
// UpdatedAt on every write and preserves the existing CreatedAt, and
// returns the document as stored. Load returns ok=false when the id has
// never been written.
type Store interface {
	Load(ctx context.Context, id string) (Document, bool, error)
	Save(ctx context.Context, id string, doc Document) (Document, error)
}
