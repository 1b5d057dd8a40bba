package schemapad

// DefaultJournalLimit bounds the undo history; the oldest record is
// discarded first when the limit is exceeded.
const DefaultJournalLimit = 20

// RecordKind identifies a journaled, inverse-able mutation.
type RecordKind string

const (
	RecordAddNode         RecordKind = "add_node"
	RecordDeleteNode      RecordKind = "delete_node"
	RecordAddEdge         RecordKind = "add_edge"
	RecordDeleteEdge      RecordKind = "delete_edge"
	RecordDeleteSeparator RecordKind = "delete_separator"
)

// Record is one journaled mutation with enough state to invert it.
// DeleteNode carries the node's incident edges so undo restores both.
type Record struct {
	Kind      RecordKind
	Node      *Node
	Edges     []Edge
	Edge      *Edge
	Separator *Separator
}

// Journal is the bounded in-memory undo/redo history. It is lost on
// reload; history is never persisted.
type Journal struct {
	limit int
	undo  []Record
	redo  []Record
}

// NewJournal creates a journal with the given capacity.
// A non-positive capacity falls back to DefaultJournalLimit.
func NewJournal(limit int) *Journal {
	if limit <= 0 {
		limit = DefaultJournalLimit
	}
	return &Journal{limit: limit}
}

// Push records an accepted mutation and clears the redo sequence.
func (j *Journal) Push(r Record) {
	j.undo = append(j.undo, r)
	if len(j.undo) > j.limit {
		j.undo = append(j.undo[:0], j.undo[len(j.undo)-j.limit:]...)
	}
	j.redo = j.redo[:0]
}

// CanUndo reports whether an undo record is available.
func (j *Journal) CanUndo() bool {
	return len(j.undo) > 0
}

// CanRedo reports whether a redo record is available.
func (j *Journal) CanRedo() bool {
	return len(j.redo) > 0
}

// Undo pops the most recent record, applies its inverse to g, and moves
// the record onto the redo sequence. It reports whether anything happened.
func (j *Journal) Undo(g *Graph) bool {
	if len(j.undo) == 0 {
		return false
	}
	r := j.undo[len(j.undo)-1]
	j.undo = j.undo[:len(j.undo)-1]
	applyInverse(g, r)
	j.redo = append(j.redo, r)
	return true
}

// Redo pops from the redo sequence, re-applies the forward action to g,
// and moves the record back onto the undo sequence.
func (j *Journal) Redo(g *Graph) bool {
	if len(j.redo) == 0 {
		return false
	}
	r := j.redo[len(j.redo)-1]
	j.redo = j.redo[:len(j.redo)-1]
	applyForward(g, r)
	j.undo = append(j.undo, r)
	return true
}

func applyInverse(g *Graph, r Record) {
	switch r.Kind {
	case RecordAddNode:
		if r.Node != nil {
			g.RemoveNode(r.Node.ID)
		}
	case RecordDeleteNode:
		if r.Node != nil {
			g.AddNode(*r.Node)
			for _, e := range r.Edges {
				g.AddEdge(e)
			}
		}
	case RecordAddEdge:
		if r.Edge != nil {
			g.RemoveEdge(r.Edge.ID)
		}
	case RecordDeleteEdge:
		if r.Edge != nil {
			g.AddEdge(*r.Edge)
		}
	case RecordDeleteSeparator:
		if r.Separator != nil {
			g.AddSeparator(*r.Separator)
		}
	}
}

func applyForward(g *Graph, r Record) {
	switch r.Kind {
	case RecordAddNode:
		if r.Node != nil {
			g.AddNode(*r.Node)
		}
	case RecordDeleteNode:
		if r.Node != nil {
			g.RemoveNode(r.Node.ID)
		}
	case RecordAddEdge:
		if r.Edge != nil {
			g.AddEdge(*r.Edge)
		}
	case RecordDeleteEdge:
		if r.Edge != nil {
			g.RemoveEdge(r.Edge.ID)
		}
	case RecordDeleteSeparator:
		if r.Separator != nil {
			g.RemoveSeparator(r.Separator.ID)
		}
	}
}
