package schemapad

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ExportVersion is the current export envelope version.
const ExportVersion = "1.0"

// Envelope parsing errors.
var (
	ErrInvalidEnvelope = errors.New("invalid export envelope")
)

// ExportMetadata summarizes the exported content for human readers.
type ExportMetadata struct {
	NodeCount       int `json:"nodeCount"`
	EdgeCount       int `json:"edgeCount"`
	CollectionCount int `json:"collectionCount"`
	SeparatorCount  int `json:"separatorCount"`
}

// ExportData is the graph payload of an export envelope.
type ExportData struct {
	Nodes       []Node       `json:"nodes"`
	Edges       []Edge       `json:"edges"`
	Collections []Collection `json:"collections"`
	Separators  []Separator  `json:"separators"`
	DBType      string       `json:"dbType,omitempty"`
}

// Envelope is the human-readable JSON export/import format.
type Envelope struct {
	Version    string         `json:"version"`
	ExportedAt time.Time      `json:"exportedAt"`
	Metadata   ExportMetadata `json:"metadata"`
	Data       ExportData     `json:"data"`
}

// NewEnvelope wraps export data in a versioned envelope.
func NewEnvelope(data ExportData, now time.Time) Envelope {
	return Envelope{
		Version:    ExportVersion,
		ExportedAt: now,
		Metadata: ExportMetadata{
			NodeCount:       len(data.Nodes),
			EdgeCount:       len(data.Edges),
			CollectionCount: len(data.Collections),
			SeparatorCount:  len(data.Separators),
		},
		Data: data,
	}
}

// Export snapshots the graph into an envelope.
func Export(g *Graph, dbType string, now time.Time) Envelope {
	return NewEnvelope(ExportData{
		Nodes:       g.Nodes(),
		Edges:       g.Edges(),
		Collections: g.Collections(),
		Separators:  g.Separators(),
		DBType:      dbType,
	}, now)
}

// ParseEnvelope decodes and validates an export envelope. It fails before
// any state could be touched: a missing version or data section aborts the
// import, so a partially applied import can never occur.
func ParseEnvelope(b []byte) (Envelope, error) {
	var raw struct {
		Version    *string          `json:"version"`
		ExportedAt time.Time        `json:"exportedAt"`
		Metadata   ExportMetadata   `json:"metadata"`
		Data       *json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if raw.Version == nil || *raw.Version == "" {
		return Envelope{}, fmt.Errorf("%w: missing version", ErrInvalidEnvelope)
	}
	if raw.Data == nil {
		return Envelope{}, fmt.Errorf("%w: missing data", ErrInvalidEnvelope)
	}
	var data ExportData
	if err := json.Unmarshal(*raw.Data, &data); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	return Envelope{
		Version:    *raw.Version,
		ExportedAt: raw.ExportedAt,
		Metadata:   raw.Metadata,
		Data:       data,
	}, nil
}

// Diagnostic severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Diagnostic is one structural problem found while validating export data.
type Diagnostic struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate checks export data for structural problems: duplicate node ids,
// edges referencing missing nodes, and edges whose handles are absent from
// their node's port catalogue.
func (d ExportData) Validate() []Diagnostic {
	var diags []Diagnostic

	byID := make(map[string]Node, len(d.Nodes))
	for _, n := range d.Nodes {
		if _, dup := byID[n.ID]; dup {
			diags = append(diags, Diagnostic{
				Code:     "SP-001",
				Severity: SeverityError,
				Message:  fmt.Sprintf("duplicate node id %q", n.ID),
			})
			continue
		}
		byID[n.ID] = n
	}

	for _, e := range d.Edges {
		src, srcOK := byID[e.Source]
		if !srcOK {
			diags = append(diags, Diagnostic{
				Code:     "SP-002",
				Severity: SeverityError,
				Message:  fmt.Sprintf("edge %q references unknown source node %q", e.ID, e.Source),
			})
		}
		tgt, tgtOK := byID[e.Target]
		if !tgtOK {
			diags = append(diags, Diagnostic{
				Code:     "SP-002",
				Severity: SeverityError,
				Message:  fmt.Sprintf("edge %q references unknown target node %q", e.ID, e.Target),
			})
		}
		if srcOK && !HasOutputPort(src, e.SourceHandle) {
			diags = append(diags, Diagnostic{
				Code:     "SP-003",
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("edge %q source handle %q is not in node %q's port catalogue", e.ID, e.SourceHandle, e.Source),
			})
		}
		if tgtOK && !HasInputPort(tgt, e.TargetHandle) {
			diags = append(diags, Diagnostic{
				Code:     "SP-003",
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("edge %q target handle %q is not in node %q's port catalogue", e.ID, e.TargetHandle, e.Target),
			})
		}
	}

	return diags
}
