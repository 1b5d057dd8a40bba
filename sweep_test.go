package schemapad

import (
	"testing"
)

func TestSweepEdges_RemovesRetypedFieldEdge(t *testing.T) {
	g := NewGraph()
	g.AddNode(docNode("users", Field{Name: "tags", Type: FieldArray}))
	g.AddNode(arrayNode("arr"))
	g.AddEdge(Edge{ID: "e1", Source: "users", SourceHandle: "field-0", Target: "arr", TargetHandle: PortLeft})

	// Retyping the field to string removes its output port.
	g.UpdateNodeFields("users", []Field{{Name: "tags", Type: FieldString}})
	removed := SweepEdges(g)

	if len(removed) != 1 || removed[0].ID != "e1" {
		t.Errorf("removed = %v, want [e1]", removed)
	}
	if len(g.Edges()) != 0 {
		t.Errorf("Edges() = %v, want empty", g.Edges())
	}
}

func TestSweepEdges_RemovesShrunkFieldListEdge(t *testing.T) {
	g := NewGraph()
	g.AddNode(docNode("users",
		Field{Name: "name", Type: FieldString},
		Field{Name: "tags", Type: FieldArray},
	))
	g.AddNode(arrayNode("arr"))
	g.AddEdge(Edge{ID: "e1", Source: "users", SourceHandle: "field-1", Target: "arr", TargetHandle: PortLeft})

	// Deleting the first field shifts "tags" to index 0; field-1 is gone.
	g.UpdateNodeFields("users", []Field{{Name: "tags", Type: FieldArray}})
	SweepEdges(g)

	if len(g.Edges()) != 0 {
		t.Errorf("Edges() = %v, want empty", g.Edges())
	}
}

func TestSweepEdges_KeepsValidEdges(t *testing.T) {
	g := NewGraph()
	g.AddNode(docNode("users", Field{Name: "tags", Type: FieldArray}))
	g.AddNode(arrayNode("arr"))
	g.AddNode(processNode("p1"))
	g.AddNode(processNode("p2"))
	g.AddEdge(Edge{ID: "e1", Source: "users", SourceHandle: "field-0", Target: "arr", TargetHandle: PortLeft})
	g.AddEdge(processEdge("e2", "p1", "p2"))

	removed := SweepEdges(g)

	if len(removed) != 0 {
		t.Errorf("removed = %v, want none", removed)
	}
	if len(g.Edges()) != 2 {
		t.Errorf("len(Edges()) = %v, want 2", len(g.Edges()))
	}
}

func TestSweepEdges_NoDanglingAfterMutations(t *testing.T) {
	g := NewGraph()
	g.AddNode(docNode("users",
		Field{Name: "tags", Type: FieldArray},
		Field{Name: "roles", Type: FieldArray},
	))
	g.AddNode(arrayNode("a1"))
	g.AddNode(arrayNode("a2"))
	g.AddEdge(Edge{ID: "e1", Source: "users", SourceHandle: "field-0", Target: "a1", TargetHandle: PortLeft})
	g.AddEdge(Edge{ID: "e2", Source: "users", SourceHandle: "field-1", Target: "a2", TargetHandle: PortLeft})

	g.UpdateNodeFields("users", []Field{{Name: "tags", Type: FieldArray}})
	SweepEdges(g)

	// Every surviving edge endpoint must exist in the current catalogue.
	for _, e := range g.Edges() {
		src, ok := g.NodeByID(e.Source)
		if !ok || !HasOutputPort(src, e.SourceHandle) {
			t.Errorf("edge %v has dangling source handle", e.ID)
		}
		tgt, ok := g.NodeByID(e.Target)
		if !ok || !HasInputPort(tgt, e.TargetHandle) {
			t.Errorf("edge %v has dangling target handle", e.ID)
		}
	}
}
