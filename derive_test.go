package schemapad

import (
	"reflect"
	"testing"
)

func TestResolveArrayNames_AutoNames(t *testing.T) {
	g := NewGraph()
	g.AddNode(docNode("users",
		Field{Name: "name", Type: FieldString},
		Field{Name: "tags", Type: FieldArray},
	))
	g.AddNode(arrayNode("arr"))
	g.AddEdge(Edge{ID: "e1", Source: "users", SourceHandle: "field-1", Target: "arr", TargetHandle: PortLeft})

	ResolveArrayNames(g)

	n, _ := g.NodeByID("arr")
	if n.Label != "tags" {
		t.Errorf("Label = %q, want %q", n.Label, "tags")
	}
	if n.Array == nil || !n.Array.AutoNamed {
		t.Fatal("array node not marked auto-named")
	}
	if n.Array.ConnectedFieldName != "tags" || n.Array.SourceLabel != "users" {
		t.Errorf("provenance = %+v, want field 'tags' from 'users'", n.Array)
	}
}

func TestResolveArrayNames_RevertsOnDisconnect(t *testing.T) {
	g := NewGraph()
	g.AddNode(docNode("users", Field{Name: "tags", Type: FieldArray}))
	g.AddNode(arrayNode("arr"))
	g.AddEdge(Edge{ID: "e1", Source: "users", SourceHandle: "field-0", Target: "arr", TargetHandle: PortLeft})

	ResolveArrayNames(g)
	g.RemoveEdge("e1")
	ResolveArrayNames(g)

	n, _ := g.NodeByID("arr")
	if n.Label != ArrayLabelPlaceholder {
		t.Errorf("Label = %q, want placeholder %q", n.Label, ArrayLabelPlaceholder)
	}
	if n.Array != nil {
		t.Errorf("provenance = %+v, want cleared", n.Array)
	}
}

func TestResolveArrayNames_ManualLabelUntouched(t *testing.T) {
	g := NewGraph()
	n := arrayNode("arr")
	n.Label = "my custom name"
	g.AddNode(n)

	ResolveArrayNames(g)

	got, _ := g.NodeByID("arr")
	if got.Label != "my custom name" {
		t.Errorf("Label = %q, want manual label preserved", got.Label)
	}
}

func TestResolveArrayNames_NonQualifyingFirstEdge(t *testing.T) {
	// The first inbound edge wins even when a later one would qualify;
	// a non-qualifying first edge means no auto-name.
	g := NewGraph()
	g.AddNode(processNode("p1"))
	g.AddNode(docNode("users", Field{Name: "tags", Type: FieldArray}))
	g.AddNode(arrayNode("arr"))
	g.AddEdge(Edge{ID: "e1", Source: "p1", SourceHandle: PortRight, Target: "arr", TargetHandle: PortLeft})
	g.AddEdge(Edge{ID: "e2", Source: "users", SourceHandle: "field-0", Target: "arr", TargetHandle: PortRight})

	ResolveArrayNames(g)

	n, _ := g.NodeByID("arr")
	if n.Array != nil && n.Array.AutoNamed {
		t.Error("auto-named from a later edge; first-found edge must win")
	}
}

func TestResolveArrayNames_FollowsFieldRename(t *testing.T) {
	g := NewGraph()
	g.AddNode(docNode("users", Field{Name: "tags", Type: FieldArray}))
	g.AddNode(arrayNode("arr"))
	g.AddEdge(Edge{ID: "e1", Source: "users", SourceHandle: "field-0", Target: "arr", TargetHandle: PortLeft})

	ResolveArrayNames(g)
	g.UpdateNodeFields("users", []Field{{Name: "labels", Type: FieldArray}})
	ResolveArrayNames(g)

	n, _ := g.NodeByID("arr")
	if n.Label != "labels" {
		t.Errorf("Label = %q, want renamed field 'labels'", n.Label)
	}
}

func TestResolveArrayNames_Idempotent(t *testing.T) {
	g := NewGraph()
	g.AddNode(docNode("users", Field{Name: "tags", Type: FieldArray}))
	g.AddNode(arrayNode("arr"))
	g.AddNode(arrayNode("orphan"))
	g.AddEdge(Edge{ID: "e1", Source: "users", SourceHandle: "field-0", Target: "arr", TargetHandle: PortLeft})

	ResolveArrayNames(g)
	once := g.Nodes()
	ResolveArrayNames(g)
	twice := g.Nodes()

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second resolve changed state:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}
