package schemapad

import (
	"time"
)

// NodeKind identifies the type of a canvas node.
// A node's kind is fixed at creation and never changes.
type NodeKind string

const (
	// NodeKindDocument is a document (top-level record) node.
	NodeKindDocument NodeKind = "document"

	// NodeKindArray is an array/subcollection node whose label is usually
	// derived from the field it is connected to.
	NodeKindArray NodeKind = "array"

	// NodeKindProcess is a flow-step node carrying recorded actions.
	NodeKindProcess NodeKind = "process"
)

// String returns the string representation of the NodeKind.
func (k NodeKind) String() string {
	return string(k)
}

// FieldType identifies the value type of a document field.
type FieldType string

const (
	FieldString        FieldType = "string"
	FieldNumber        FieldType = "number"
	FieldBoolean       FieldType = "boolean"
	FieldDate          FieldType = "date"
	FieldArray         FieldType = "array"
	FieldSubcollection FieldType = "subcollection"
	FieldObject        FieldType = "object"
)

// Field is a named, typed entry in a node's field list.
// Field order is user-controlled and significant.
type Field struct {
	Name string    `json:"name"`
	Type FieldType `json:"type"`
}

// Position is a node's location on the canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ProcessColor is the display color of a process node.
type ProcessColor string

const (
	ProcessColorBlue   ProcessColor = "blue"
	ProcessColorGreen  ProcessColor = "green"
	ProcessColorOrange ProcessColor = "orange"
	ProcessColorRed    ProcessColor = "red"
	ProcessColorPurple ProcessColor = "purple"
)

// ActionKind identifies whether an action targets a whole node or one field.
type ActionKind string

const (
	// ActionDocument references a whole document/array node.
	ActionDocument ActionKind = "document"

	// ActionField references a single field of a node, optionally carrying
	// a value override.
	ActionField ActionKind = "field"
)

// ValueType describes how a field action's value is produced.
type ValueType string

const (
	// ValueDynamic marks the field value as computed at runtime.
	ValueDynamic ValueType = "dynamic"

	// ValueFixed marks the field value as the action's FixedValue literal.
	ValueFixed ValueType = "fixed"
)

// Action is a recorded reference attached to a process node.
// Actions are append-only from the editing surface but removable by ID.
// SavedAt orders actions within a single process during flow replay.
type Action struct {
	ID           string     `json:"id"`
	Kind         ActionKind `json:"kind"`
	TargetNodeID string     `json:"targetNodeId"`
	FieldName    string     `json:"fieldName,omitempty"`
	ValueType    ValueType  `json:"valueType,omitempty"`
	FixedValue   string     `json:"fixedValue,omitempty"`
	SavedAt      time.Time  `json:"savedAt"`
}

// ProcessProperties holds the properties specific to process nodes.
type ProcessProperties struct {
	Description string       `json:"description,omitempty"`
	Color       ProcessColor `json:"color,omitempty"`
	Actions     []Action     `json:"actions,omitempty"`
}

// Clone returns a deep copy of the properties.
func (p *ProcessProperties) Clone() *ProcessProperties {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Actions = append([]Action(nil), p.Actions...)
	return &cp
}

// ArrayProvenance records where an auto-named array node's label came from.
// It is derived state: a pure function of the current edges and the
// connected source node's fields, recomputed after every edge mutation.
type ArrayProvenance struct {
	ConnectedFieldName string `json:"connectedFieldName,omitempty"`
	SourceLabel        string `json:"sourceLabel,omitempty"`
	AutoNamed          bool   `json:"autoNamed,omitempty"`
}

// Node is a single entity on the canvas.
type Node struct {
	ID           string             `json:"id"`
	Kind         NodeKind           `json:"kind"`
	Label        string             `json:"label"`
	Position     Position           `json:"position"`
	Fields       []Field            `json:"fields,omitempty"`
	CollectionID string             `json:"collectionId,omitempty"`
	Process      *ProcessProperties `json:"process,omitempty"`
	Array        *ArrayProvenance   `json:"array,omitempty"`

	// Extra preserves unknown keys from the persisted format so round-trips
	// through older/newer clients do not drop data.
	Extra map[string]any `json:"extra,omitempty"`
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	cp := n
	cp.Fields = append([]Field(nil), n.Fields...)
	cp.Process = n.Process.Clone()
	if n.Array != nil {
		arr := *n.Array
		cp.Array = &arr
	}
	if n.Extra != nil {
		extra := make(map[string]any, len(n.Extra))
		for k, v := range n.Extra {
			extra[k] = v
		}
		cp.Extra = extra
	}
	return cp
}

// LineHint is a rendering hint attached to an edge whose endpoints were
// snapped into exact alignment on one axis. It is a rendering contract
// only, never a model invariant.
type LineHint string

const (
	HintNone       LineHint = ""
	HintHorizontal LineHint = "horizontal"
	HintVertical   LineHint = "vertical"
)

// Edge is a directed connection between two node handles.
type Edge struct {
	ID           string   `json:"id"`
	Source       string   `json:"source"`
	SourceHandle string   `json:"sourceHandle"`
	Target       string   `json:"target"`
	TargetHandle string   `json:"targetHandle"`
	Hint         LineHint `json:"hint,omitempty"`
}

// Collection is a label bucket for grouping nodes. ParentID expresses
// subcollection nesting but is not consumed by any traversal here.
type Collection struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ParentID    string `json:"parentId,omitempty"`
}

// Separator is a vertical visual divider keyed by horizontal position.
// It has no relationship to nodes or edges.
type Separator struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Label string  `json:"label,omitempty"`
	Color string  `json:"color,omitempty"`
}
