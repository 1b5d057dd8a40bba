package schemapad

import (
	"time"
)

// EventKind identifies the type of change event emitted by the editor.
type EventKind string

const (
	EventNodeAdded        EventKind = "node_added"
	EventNodeUpdated      EventKind = "node_updated"
	EventNodeRemoved      EventKind = "node_removed"
	EventEdgeAdded        EventKind = "edge_added"
	EventEdgeRemoved      EventKind = "edge_removed"
	EventEdgeRejected     EventKind = "edge_rejected"
	EventCollectionAdded  EventKind = "collection_added"
	EventCollectionRemove EventKind = "collection_removed"
	EventSeparatorAdded   EventKind = "separator_added"
	EventSeparatorUpdated EventKind = "separator_updated"
	EventSeparatorRemoved EventKind = "separator_removed"
	EventUndone           EventKind = "undone"
	EventRedone           EventKind = "redone"
	EventGraphReplaced    EventKind = "graph_replaced"
)

// String returns the string representation of the EventKind.
func (k EventKind) String() string {
	return string(k)
}

// Event is a small record of one editor change, consumed by observers such
// as the autosaver and the metrics handler. EdgeRejected is the only kind
// that does not correspond to a mutation; it exists so rejected connection
// attempts can be logged or counted without ever blocking the user.
type Event struct {
	Kind     EventKind
	EntityID string
	Time     time.Time
}

// EventHandler consumes editor change events.
type EventHandler func(Event)
