package schemapad

// SweepEdges removes every edge whose source or target node no longer
// exists, or whose handle is absent from the node's current port catalogue.
// It must run after any field add/remove/retype, since shrinking or
// retyping a field list invalidates previously valid field-indexed handles.
//
// The sweep is a pure filter over the edge set: nodes are never mutated.
// The removed edges are returned in their original order.
func SweepEdges(g *Graph) []Edge {
	return g.removeEdges(func(e Edge) bool {
		src, ok := g.nodes[e.Source]
		if !ok {
			return false
		}
		tgt, ok := g.nodes[e.Target]
		if !ok {
			return false
		}
		return HasOutputPort(src, e.SourceHandle) && HasInputPort(tgt, e.TargetHandle)
	})
}
