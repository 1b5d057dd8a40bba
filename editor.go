package schemapad

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// EditorConfig configures an Editor.
type EditorConfig struct {
	// JournalLimit bounds the undo history (DefaultJournalLimit when zero).
	JournalLimit int

	// OnChange, when set, receives an event after every accepted mutation
	// and after every rejected connection attempt.
	OnChange EventHandler

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Now defaults to time.Now. Injectable for tests.
	Now func() time.Time
}

// Editor is the editing surface over a Graph. Every gesture flows through
// it: the connection validator gates edge creation, accepted mutations are
// journaled where inverse-able, and derived state (array names, valid edge
// set) is recomputed before the mutation returns.
//
// The editor is single-threaded by design: all mutations and recomputation
// happen synchronously on the caller's event loop. Persistence is an
// external observer wired through OnChange.
type Editor struct {
	graph     *Graph
	journal   *Journal
	selection Selection
	onChange  EventHandler
	logger    *slog.Logger
	now       func() time.Time

	selectedEdgeID      string
	selectedSeparatorID string
}

// NewEditor creates an editor over an empty graph.
func NewEditor(cfg EditorConfig) *Editor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Editor{
		graph:    NewGraph(),
		journal:  NewJournal(cfg.JournalLimit),
		onChange: cfg.OnChange,
		logger:   logger,
		now:      now,
	}
}

// Graph exposes the underlying model for reads.
func (e *Editor) Graph() *Graph {
	return e.graph
}

func (e *Editor) emit(kind EventKind, entityID string) {
	if e.onChange != nil {
		e.onChange(Event{Kind: kind, EntityID: entityID, Time: e.now()})
	}
}

// rederive refreshes all state derived from the edge set.
func (e *Editor) rederive() {
	SweepEdges(e.graph)
	ResolveArrayNames(e.graph)
}

// DropNode creates a node of the given kind at a canvas position. This is
// the drag-and-drop contract: a typed payload dropped at a position.
func (e *Editor) DropNode(kind NodeKind, pos Position) Node {
	n := Node{
		ID:       uuid.NewString(),
		Kind:     kind,
		Position: pos,
	}
	switch kind {
	case NodeKindDocument:
		n.Label = "document"
	case NodeKindArray:
		n.Label = ArrayLabelPlaceholder
	case NodeKindProcess:
		n.Label = "process"
		n.Process = &ProcessProperties{Color: ProcessColorBlue}
	}
	e.graph.AddNode(n)
	e.journal.Push(Record{Kind: RecordAddNode, Node: &n})
	e.emit(EventNodeAdded, n.ID)
	return n
}

// UpdateFields replaces a node's field list, then sweeps edges whose
// field-indexed handles the new list invalidated.
func (e *Editor) UpdateFields(id string, fields []Field) {
	if !e.graph.HasNode(id) {
		return
	}
	e.graph.UpdateNodeFields(id, fields)
	e.rederive()
	e.emit(EventNodeUpdated, id)
}

// RenameNode replaces a node's label. Renaming an auto-named array node is
// not allowed while its naming connection exists.
func (e *Editor) RenameNode(id, label string) {
	n, ok := e.graph.NodeByID(id)
	if !ok {
		return
	}
	if n.Array != nil && n.Array.AutoNamed {
		return
	}
	e.graph.UpdateNodeLabel(id, label)
	e.emit(EventNodeUpdated, id)
}

// MoveNode updates a node's canvas position.
func (e *Editor) MoveNode(id string, pos Position) {
	if !e.graph.HasNode(id) {
		return
	}
	e.graph.UpdateNodePosition(id, pos)
	e.emit(EventNodeUpdated, id)
}

// AssignCollection puts a node into a collection (empty id clears it).
func (e *Editor) AssignCollection(nodeID, collectionID string) {
	if !e.graph.HasNode(nodeID) {
		return
	}
	e.graph.UpdateNodeCollection(nodeID, collectionID)
	e.emit(EventNodeUpdated, nodeID)
}

// SetProcessProperties replaces a process node's description and color,
// preserving its recorded actions.
func (e *Editor) SetProcessProperties(id, description string, color ProcessColor) {
	n, ok := e.graph.NodeByID(id)
	if !ok || n.Kind != NodeKindProcess {
		return
	}
	props := ProcessProperties{Description: description, Color: color}
	if n.Process != nil {
		props.Actions = n.Process.Actions
	}
	e.graph.UpdateProcessProperties(id, props)
	e.emit(EventNodeUpdated, id)
}

// AppendAction records an action on a process node, stamping SavedAt and
// assigning an id when absent.
func (e *Editor) AppendAction(processID string, a Action) (Action, bool) {
	n, ok := e.graph.NodeByID(processID)
	if !ok || n.Kind != NodeKindProcess {
		return Action{}, false
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.SavedAt.IsZero() {
		a.SavedAt = e.now()
	}
	props := ProcessProperties{}
	if n.Process != nil {
		props = *n.Process
	}
	props.Actions = append(append([]Action(nil), props.Actions...), a)
	e.graph.UpdateProcessProperties(processID, props)
	e.emit(EventNodeUpdated, processID)
	return a, true
}

// RemoveAction deletes an action from a process node by id.
func (e *Editor) RemoveAction(processID, actionID string) bool {
	n, ok := e.graph.NodeByID(processID)
	if !ok || n.Kind != NodeKindProcess || n.Process == nil {
		return false
	}
	props := *n.Process
	kept := make([]Action, 0, len(props.Actions))
	removed := false
	for _, a := range props.Actions {
		if a.ID == actionID {
			removed = true
			continue
		}
		kept = append(kept, a)
	}
	if !removed {
		return false
	}
	props.Actions = kept
	e.graph.UpdateProcessProperties(processID, props)
	e.emit(EventNodeUpdated, processID)
	return true
}

// DeleteNode removes a node and its incident edges, journaling the inverse.
func (e *Editor) DeleteNode(id string) bool {
	node, edges, ok := e.graph.RemoveNode(id)
	if !ok {
		return false
	}
	e.journal.Push(Record{Kind: RecordDeleteNode, Node: &node, Edges: edges})
	e.rederive()
	e.emit(EventNodeRemoved, id)
	return true
}

// Connect validates a candidate connection and, when legal, creates the
// edge, applies any snap alignment, and recomputes derived names. An
// illegal candidate leaves the graph untouched.
func (e *Editor) Connect(source, sourceHandle, target, targetHandle string) (Edge, bool) {
	d := ValidateConnection(e.graph, source, sourceHandle, target, targetHandle)
	if !d.Allowed {
		e.logger.Debug("connection rejected",
			"source", source, "sourceHandle", sourceHandle,
			"target", target, "targetHandle", targetHandle,
			"reason", d.Reason)
		e.emit(EventEdgeRejected, "")
		return Edge{}, false
	}
	edge := Edge{
		ID:           uuid.NewString(),
		Source:       source,
		SourceHandle: sourceHandle,
		Target:       target,
		TargetHandle: targetHandle,
		Hint:         d.Hint,
	}
	e.graph.AddEdge(edge)
	if d.SnapTarget != nil {
		e.graph.UpdateNodePosition(target, *d.SnapTarget)
	}
	e.journal.Push(Record{Kind: RecordAddEdge, Edge: &edge})
	ResolveArrayNames(e.graph)
	e.emit(EventEdgeAdded, edge.ID)
	return edge, true
}

// DeleteEdge removes an edge, journaling the inverse.
func (e *Editor) DeleteEdge(id string) bool {
	edge, ok := e.graph.RemoveEdge(id)
	if !ok {
		return false
	}
	e.journal.Push(Record{Kind: RecordDeleteEdge, Edge: &edge})
	ResolveArrayNames(e.graph)
	e.emit(EventEdgeRemoved, id)
	return true
}

// AddCollection creates a new collection.
func (e *Editor) AddCollection(name, description, parentID string) Collection {
	c := Collection{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		ParentID:    parentID,
	}
	e.graph.AddCollection(c)
	e.emit(EventCollectionAdded, c.ID)
	return c
}

// DeleteCollection removes a collection.
func (e *Editor) DeleteCollection(id string) bool {
	_, ok := e.graph.RemoveCollection(id)
	if ok {
		e.emit(EventCollectionRemove, id)
	}
	return ok
}

// AddSeparator creates a vertical divider at the given x position.
func (e *Editor) AddSeparator(x float64, label, color string) Separator {
	s := Separator{ID: uuid.NewString(), X: x, Label: label, Color: color}
	e.graph.AddSeparator(s)
	e.emit(EventSeparatorAdded, s.ID)
	return s
}

// UpdateSeparator replaces a separator with the same id.
func (e *Editor) UpdateSeparator(s Separator) {
	e.graph.UpdateSeparator(s)
	e.emit(EventSeparatorUpdated, s.ID)
}

// DeleteSeparator removes a separator, journaling the inverse.
func (e *Editor) DeleteSeparator(id string) bool {
	sep, ok := e.graph.RemoveSeparator(id)
	if !ok {
		return false
	}
	e.journal.Push(Record{Kind: RecordDeleteSeparator, Separator: &sep})
	e.emit(EventSeparatorRemoved, id)
	return true
}

// SelectEdge marks an edge as the current keyboard-deletable selection.
func (e *Editor) SelectEdge(id string) {
	if _, ok := e.graph.EdgeByID(id); ok {
		e.selectedEdgeID = id
		e.selectedSeparatorID = ""
	}
}

// SelectSeparator marks a separator as the keyboard-deletable selection.
func (e *Editor) SelectSeparator(id string) {
	for _, s := range e.graph.separators {
		if s.ID == id {
			e.selectedSeparatorID = id
			e.selectedEdgeID = ""
			return
		}
	}
}

// DeleteSelected implements the Delete/Backspace keyboard contract: it
// removes the currently selected edge or separator. Nodes are never
// deleted this way; node deletion goes through a confirmed dialog.
func (e *Editor) DeleteSelected() bool {
	switch {
	case e.selectedEdgeID != "":
		id := e.selectedEdgeID
		e.selectedEdgeID = ""
		return e.DeleteEdge(id)
	case e.selectedSeparatorID != "":
		id := e.selectedSeparatorID
		e.selectedSeparatorID = ""
		return e.DeleteSeparator(id)
	}
	return false
}

// Undo reverts the most recent journaled mutation.
func (e *Editor) Undo() bool {
	if !e.journal.Undo(e.graph) {
		return false
	}
	e.rederive()
	e.emit(EventUndone, "")
	return true
}

// Redo re-applies the most recently undone mutation.
func (e *Editor) Redo() bool {
	if !e.journal.Redo(e.graph) {
		return false
	}
	e.rederive()
	e.emit(EventRedone, "")
	return true
}

// ClickProcess routes a click on a process node into the selection state
// machine. Clicks on nodes of any other kind must not be routed here.
func (e *Editor) ClickProcess(id string) {
	if n, ok := e.graph.NodeByID(id); !ok || n.Kind != NodeKindProcess {
		return
	}
	e.selection.ClickProcess(id)
}

// ClickCanvas clears the process selection.
func (e *Editor) ClickCanvas() {
	e.selection.ClickCanvas()
}

// SelectedProcess returns the selected process id, if any.
func (e *Editor) SelectedProcess() (string, bool) {
	return e.selection.Selected()
}

// FlowView projects the canvas at the current selection.
func (e *Editor) FlowView() FlowView {
	selected, _ := e.selection.Selected()
	return ResolveFlow(e.graph, selected)
}

// Replace swaps in a whole new graph (import or persistence rehydration),
// re-deriving dependent state. The journal is kept; selection is cleared.
func (e *Editor) Replace(nodes []Node, edges []Edge, collections []Collection, separators []Separator) {
	e.graph.Replace(nodes, edges, collections, separators)
	e.selection.ClickCanvas()
	e.selectedEdgeID = ""
	e.selectedSeparatorID = ""
	e.rederive()
	e.emit(EventGraphReplaced, "")
}
