package schemapad

// ArrayLabelPlaceholder is the label an array node reverts to when its
// auto-naming connection goes away.
const ArrayLabelPlaceholder = "array"

// ResolveArrayNames recomputes the derived label and provenance of every
// array node from the current edge set. It must run after every edge
// mutation. The pass is idempotent and pure given (nodes, edges): it only
// rewrites the affected array nodes' label and provenance.
//
// For each array node the first inbound edge on either input handle (in
// stable edge order) is inspected. If it originates from a field output
// whose field is of type array, the array node takes that field's name as
// its label and records where it came from. Otherwise, a previously
// auto-named node reverts to the placeholder. Additional inbound edges are
// deliberately not disambiguated beyond first-found.
func ResolveArrayNames(g *Graph) {
	for _, id := range g.nodeOrder {
		n := g.nodes[id]
		if n.Kind != NodeKindArray {
			continue
		}

		edge, found := firstInboundArrayEdge(g, id)
		if found {
			if src, field, ok := resolveSourceField(g, edge); ok && field.Type == FieldArray {
				g.setArrayProvenance(id, field.Name, &ArrayProvenance{
					ConnectedFieldName: field.Name,
					SourceLabel:        src.Label,
					AutoNamed:          true,
				})
				continue
			}
		}
		if n.Array != nil && n.Array.AutoNamed {
			g.setArrayProvenance(id, ArrayLabelPlaceholder, nil)
		}
	}
}

// firstInboundArrayEdge returns the first edge targeting either input
// handle of the given array node.
func firstInboundArrayEdge(g *Graph, nodeID string) (Edge, bool) {
	for _, e := range g.edges {
		if e.Target == nodeID && isArrayInput(e.TargetHandle) {
			return e, true
		}
	}
	return Edge{}, false
}

// resolveSourceField resolves an edge's source handle to the concrete field
// it indexes on the source node.
func resolveSourceField(g *Graph, e Edge) (Node, Field, bool) {
	src, ok := g.nodes[e.Source]
	if !ok {
		return Node{}, Field{}, false
	}
	idx, ok := ParseFieldPort(e.SourceHandle)
	if !ok || idx >= len(src.Fields) {
		return Node{}, Field{}, false
	}
	return src, src.Fields[idx], true
}
