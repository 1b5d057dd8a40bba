package schemapad

import (
	"reflect"
	"testing"
	"time"
)

func newTestEditor(t *testing.T) (*Editor, *[]Event) {
	t.Helper()
	var events []Event
	ed := NewEditor(EditorConfig{
		OnChange: func(e Event) { events = append(events, e) },
		Now:      func() time.Time { return flowT0 },
	})
	return ed, &events
}

func lastEvent(events []Event) Event {
	if len(events) == 0 {
		return Event{}
	}
	return events[len(events)-1]
}

func TestEditor_DropNodeAssignsID(t *testing.T) {
	ed, events := newTestEditor(t)

	n := ed.DropNode(NodeKindDocument, Position{X: 10, Y: 20})

	if n.ID == "" {
		t.Error("dropped node has no id")
	}
	if !ed.Graph().HasNode(n.ID) {
		t.Error("dropped node missing from graph")
	}
	if got := lastEvent(*events); got.Kind != EventNodeAdded {
		t.Errorf("event = %v, want node_added", got.Kind)
	}
}

func TestEditor_DropProcessNodeHasProperties(t *testing.T) {
	ed, _ := newTestEditor(t)

	n := ed.DropNode(NodeKindProcess, Position{})

	stored, _ := ed.Graph().NodeByID(n.ID)
	if stored.Process == nil {
		t.Error("process node dropped without properties")
	}
}

func TestEditor_ConnectAutoNamesArray(t *testing.T) {
	// Scenario: connect a document's tags field (type array) to an
	// unconnected array node; its label becomes "tags". Disconnect; it
	// reverts to the placeholder.
	ed, _ := newTestEditor(t)
	doc := ed.DropNode(NodeKindDocument, Position{})
	ed.UpdateFields(doc.ID, []Field{{Name: "tags", Type: FieldArray}})
	arr := ed.DropNode(NodeKindArray, Position{})

	edge, ok := ed.Connect(doc.ID, "field-0", arr.ID, PortLeft)
	if !ok {
		t.Fatal("legal connection rejected")
	}

	named, _ := ed.Graph().NodeByID(arr.ID)
	if named.Label != "tags" || named.Array == nil || !named.Array.AutoNamed {
		t.Errorf("array node = %+v, want auto-named 'tags'", named)
	}

	ed.DeleteEdge(edge.ID)

	reverted, _ := ed.Graph().NodeByID(arr.ID)
	if reverted.Label != ArrayLabelPlaceholder || reverted.Array != nil {
		t.Errorf("array node = %+v, want placeholder after disconnect", reverted)
	}
}

func TestEditor_ConnectRejectionLeavesGraphUnchanged(t *testing.T) {
	ed, events := newTestEditor(t)
	doc := ed.DropNode(NodeKindDocument, Position{})
	ed.UpdateFields(doc.ID, []Field{{Name: "tags", Type: FieldArray}})
	arr := ed.DropNode(NodeKindArray, Position{})
	ed.UpdateFields(arr.ID, []Field{{Name: "inner", Type: FieldArray}})

	// Array output into a document: documents expose no input port.
	_, ok := ed.Connect(arr.ID, "field-0", doc.ID, PortLeft)

	if ok {
		t.Fatal("illegal connection accepted")
	}
	if len(ed.Graph().Edges()) != 0 {
		t.Errorf("edge set = %v, want unchanged", ed.Graph().Edges())
	}
	if got := lastEvent(*events); got.Kind != EventEdgeRejected {
		t.Errorf("event = %v, want edge_rejected", got.Kind)
	}
}

func TestEditor_ConnectSnapsAlignedTarget(t *testing.T) {
	ed, _ := newTestEditor(t)
	p1 := ed.DropNode(NodeKindProcess, Position{X: 0, Y: 100})
	p2 := ed.DropNode(NodeKindProcess, Position{X: 300, Y: 108})

	edge, ok := ed.Connect(p1.ID, PortRight, p2.ID, PortLeft)
	if !ok {
		t.Fatal("connection rejected")
	}
	if edge.Hint != HintHorizontal {
		t.Errorf("Hint = %v, want horizontal", edge.Hint)
	}
	moved, _ := ed.Graph().NodeByID(p2.ID)
	if moved.Position.Y != 100 {
		t.Errorf("target Y = %v, want snapped to 100", moved.Position.Y)
	}
}

func TestEditor_RenameAutoNamedArrayBlocked(t *testing.T) {
	ed, _ := newTestEditor(t)
	doc := ed.DropNode(NodeKindDocument, Position{})
	ed.UpdateFields(doc.ID, []Field{{Name: "tags", Type: FieldArray}})
	arr := ed.DropNode(NodeKindArray, Position{})
	ed.Connect(doc.ID, "field-0", arr.ID, PortLeft)

	ed.RenameNode(arr.ID, "my name")

	n, _ := ed.Graph().NodeByID(arr.ID)
	if n.Label != "tags" {
		t.Errorf("Label = %q, want auto-name preserved", n.Label)
	}
}

func TestEditor_UpdateFieldsSweepsEdges(t *testing.T) {
	ed, _ := newTestEditor(t)
	doc := ed.DropNode(NodeKindDocument, Position{})
	ed.UpdateFields(doc.ID, []Field{{Name: "tags", Type: FieldArray}})
	arr := ed.DropNode(NodeKindArray, Position{})
	ed.Connect(doc.ID, "field-0", arr.ID, PortLeft)

	ed.UpdateFields(doc.ID, []Field{{Name: "tags", Type: FieldString}})

	if edges := ed.Graph().Edges(); len(edges) != 0 {
		t.Errorf("edges = %v, want swept after retype", edges)
	}
	n, _ := ed.Graph().NodeByID(arr.ID)
	if n.Label != ArrayLabelPlaceholder {
		t.Errorf("Label = %q, want placeholder after sweep", n.Label)
	}
}

func TestEditor_DeleteNodeUndoRedo(t *testing.T) {
	ed, _ := newTestEditor(t)
	doc := ed.DropNode(NodeKindDocument, Position{})
	ed.UpdateFields(doc.ID, []Field{
		{Name: "tags", Type: FieldArray},
		{Name: "roles", Type: FieldArray},
	})
	a1 := ed.DropNode(NodeKindArray, Position{})
	a2 := ed.DropNode(NodeKindArray, Position{})
	ed.Connect(doc.ID, "field-0", a1.ID, PortLeft)
	ed.Connect(doc.ID, "field-1", a2.ID, PortLeft)

	wantNodes := ed.Graph().Nodes()
	wantEdges := ed.Graph().Edges()

	if !ed.DeleteNode(doc.ID) {
		t.Fatal("DeleteNode failed")
	}
	if len(ed.Graph().Edges()) != 0 {
		t.Fatal("cascade left edges behind")
	}

	if !ed.Undo() {
		t.Fatal("Undo failed")
	}
	if !reflect.DeepEqual(ed.Graph().Nodes(), wantNodes) {
		t.Errorf("nodes after undo = %+v, want %+v", ed.Graph().Nodes(), wantNodes)
	}
	if !reflect.DeepEqual(ed.Graph().Edges(), wantEdges) {
		t.Errorf("edges after undo = %+v, want %+v", ed.Graph().Edges(), wantEdges)
	}

	if !ed.Redo() {
		t.Fatal("Redo failed")
	}
	if ed.Graph().HasNode(doc.ID) || len(ed.Graph().Edges()) != 0 {
		t.Error("redo did not re-delete")
	}
}

func TestEditor_ActionsAppendAndRemove(t *testing.T) {
	ed, _ := newTestEditor(t)
	p := ed.DropNode(NodeKindProcess, Position{})
	doc := ed.DropNode(NodeKindDocument, Position{})

	a, ok := ed.AppendAction(p.ID, Action{Kind: ActionField, TargetNodeID: doc.ID, FieldName: "status", ValueType: ValueFixed, FixedValue: "draft"})
	if !ok {
		t.Fatal("AppendAction failed")
	}
	if a.ID == "" || a.SavedAt.IsZero() {
		t.Errorf("action = %+v, want stamped id and savedAt", a)
	}

	n, _ := ed.Graph().NodeByID(p.ID)
	if len(n.Process.Actions) != 1 {
		t.Fatalf("actions = %v, want 1", n.Process.Actions)
	}

	if !ed.RemoveAction(p.ID, a.ID) {
		t.Fatal("RemoveAction failed")
	}
	n, _ = ed.Graph().NodeByID(p.ID)
	if len(n.Process.Actions) != 0 {
		t.Errorf("actions = %v, want empty", n.Process.Actions)
	}
}

func TestEditor_AppendActionOnNonProcess(t *testing.T) {
	ed, _ := newTestEditor(t)
	doc := ed.DropNode(NodeKindDocument, Position{})

	if _, ok := ed.AppendAction(doc.ID, Action{Kind: ActionDocument, TargetNodeID: doc.ID}); ok {
		t.Error("AppendAction on a document node succeeded")
	}
}

func TestEditor_DeleteSelectedKeyboardContract(t *testing.T) {
	ed, _ := newTestEditor(t)
	p1 := ed.DropNode(NodeKindProcess, Position{})
	p2 := ed.DropNode(NodeKindProcess, Position{X: 500, Y: 500})
	edge, _ := ed.Connect(p1.ID, PortRight, p2.ID, PortLeft)
	sep := ed.AddSeparator(120, "phase", "gray")

	ed.SelectEdge(edge.ID)
	if !ed.DeleteSelected() {
		t.Fatal("DeleteSelected did not remove the selected edge")
	}
	if len(ed.Graph().Edges()) != 0 {
		t.Error("edge survived DeleteSelected")
	}

	ed.SelectSeparator(sep.ID)
	if !ed.DeleteSelected() {
		t.Fatal("DeleteSelected did not remove the selected separator")
	}
	if len(ed.Graph().Separators()) != 0 {
		t.Error("separator survived DeleteSelected")
	}

	// Nothing selected: no-op.
	if ed.DeleteSelected() {
		t.Error("DeleteSelected with empty selection reported a deletion")
	}
	if !ed.Graph().HasNode(p1.ID) || !ed.Graph().HasNode(p2.ID) {
		t.Error("DeleteSelected touched nodes")
	}
}

func TestEditor_FlowViewFollowsSelection(t *testing.T) {
	ed, _ := newTestEditor(t)
	doc := ed.DropNode(NodeKindDocument, Position{})
	ed.UpdateFields(doc.ID, []Field{{Name: "status", Type: FieldString}})
	p := ed.DropNode(NodeKindProcess, Position{})
	ed.AppendAction(p.ID, Action{Kind: ActionField, TargetNodeID: doc.ID, FieldName: "status", ValueType: ValueFixed, FixedValue: "draft"})

	ed.ClickProcess(p.ID)
	view := ed.FlowView()
	if got := view.Overrides[doc.ID]["status"].FixedValue; got != "draft" {
		t.Errorf("override = %q, want draft", got)
	}

	// Clicking a document must not disturb the process selection.
	ed.ClickProcess(doc.ID)
	if id, _ := ed.SelectedProcess(); id != p.ID {
		t.Errorf("SelectedProcess() = %v, want %v", id, p.ID)
	}

	ed.ClickCanvas()
	view = ed.FlowView()
	if view.Overrides != nil {
		t.Errorf("Overrides = %v, want none after deselect", view.Overrides)
	}
}

func TestEditor_ReplaceRederives(t *testing.T) {
	ed, _ := newTestEditor(t)

	nodes := []Node{
		docNode("users", Field{Name: "tags", Type: FieldArray}),
		arrayNode("arr"),
	}
	edges := []Edge{
		{ID: "e1", Source: "users", SourceHandle: "field-0", Target: "arr", TargetHandle: PortLeft},
		{ID: "bad", Source: "users", SourceHandle: "field-9", Target: "arr", TargetHandle: PortLeft},
	}
	ed.Replace(nodes, edges, nil, nil)

	if len(ed.Graph().Edges()) != 1 {
		t.Errorf("edges = %v, want invalid handle swept", ed.Graph().Edges())
	}
	n, _ := ed.Graph().NodeByID("arr")
	if n.Label != "tags" {
		t.Errorf("Label = %q, want derived 'tags'", n.Label)
	}
}
