package schemapad

// Graph is the canonical in-memory model of a data-model sketch: nodes,
// edges, collections, and separators.
//
// Mutations are total replacements of the affected entity, guarded by
// existence checks. A mutation referencing an unknown id is a silent
// no-op, never an error. Nodes iterate in insertion order, which is the
// stable order every derived computation relies on.
type Graph struct {
	nodes       map[string]Node
	nodeOrder   []string
	edges       []Edge
	collections []Collection
	separators  []Separator
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]Node),
	}
}

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		nodes = append(nodes, g.nodes[id].Clone())
	}
	return nodes
}

// NodeByID returns a copy of the node with the given id.
func (g *Graph) NodeByID(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.Clone(), true
}

// HasNode reports whether a node with the given id exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Edges returns copies of all edges in insertion order.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// EdgeByID returns the edge with the given id.
func (g *Graph) EdgeByID(id string) (Edge, bool) {
	for _, e := range g.edges {
		if e.ID == id {
			return e, true
		}
	}
	return Edge{}, false
}

// Collections returns copies of all collections.
func (g *Graph) Collections() []Collection {
	return append([]Collection(nil), g.collections...)
}

// Separators returns copies of all separators.
func (g *Graph) Separators() []Separator {
	return append([]Separator(nil), g.separators...)
}

// AddNode inserts a node. A node with a duplicate or empty id is ignored.
func (g *Graph) AddNode(n Node) {
	if n.ID == "" {
		return
	}
	if _, exists := g.nodes[n.ID]; exists {
		return
	}
	g.nodes[n.ID] = n.Clone()
	g.nodeOrder = append(g.nodeOrder, n.ID)
}

// UpdateNodeFields replaces a node's field list.
func (g *Graph) UpdateNodeFields(id string, fields []Field) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	n.Fields = append([]Field(nil), fields...)
	g.nodes[id] = n
}

// UpdateNodeLabel replaces a node's display label.
func (g *Graph) UpdateNodeLabel(id, label string) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	n.Label = label
	g.nodes[id] = n
}

// UpdateNodePosition moves a node.
func (g *Graph) UpdateNodePosition(id string, pos Position) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	n.Position = pos
	g.nodes[id] = n
}

// UpdateNodeCollection assigns a node to a collection (empty id clears it).
func (g *Graph) UpdateNodeCollection(id, collectionID string) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	n.CollectionID = collectionID
	g.nodes[id] = n
}

// UpdateProcessProperties replaces a process node's properties.
// Ignored for nodes of any other kind.
func (g *Graph) UpdateProcessProperties(id string, props ProcessProperties) {
	n, ok := g.nodes[id]
	if !ok || n.Kind != NodeKindProcess {
		return
	}
	n.Process = props.Clone()
	g.nodes[id] = n
}

// setArrayProvenance replaces an array node's derived label and provenance.
// Used only by the derived-name resolver.
func (g *Graph) setArrayProvenance(id, label string, prov *ArrayProvenance) {
	n, ok := g.nodes[id]
	if !ok || n.Kind != NodeKindArray {
		return
	}
	n.Label = label
	if prov != nil {
		p := *prov
		n.Array = &p
	} else {
		n.Array = nil
	}
	g.nodes[id] = n
}

// RemoveNode deletes a node and all its incident edges. It returns the
// removed node and edges so callers can journal the inverse.
func (g *Graph) RemoveNode(id string) (Node, []Edge, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, nil, false
	}
	delete(g.nodes, id)
	for i, oid := range g.nodeOrder {
		if oid == id {
			g.nodeOrder = append(g.nodeOrder[:i], g.nodeOrder[i+1:]...)
			break
		}
	}

	var removed []Edge
	kept := g.edges[:0]
	for _, e := range g.edges {
		if e.Source == id || e.Target == id {
			removed = append(removed, e)
			continue
		}
		kept = append(kept, e)
	}
	g.edges = kept
	return n, removed, true
}

// AddEdge inserts an edge. Edges with a duplicate or empty id, or
// referencing a missing endpoint, are ignored. Connection legality is the
// validator's job; the model only guards referential integrity.
func (g *Graph) AddEdge(e Edge) {
	if e.ID == "" {
		return
	}
	if _, exists := g.EdgeByID(e.ID); exists {
		return
	}
	if !g.HasNode(e.Source) || !g.HasNode(e.Target) {
		return
	}
	g.edges = append(g.edges, e)
}

// RemoveEdge deletes an edge by id, returning it for journaling.
func (g *Graph) RemoveEdge(id string) (Edge, bool) {
	for i, e := range g.edges {
		if e.ID == id {
			g.edges = append(g.edges[:i], g.edges[i+1:]...)
			return e, true
		}
	}
	return Edge{}, false
}

// removeEdges drops every edge the keep predicate rejects, returning the
// dropped edges in their original order.
func (g *Graph) removeEdges(keep func(Edge) bool) []Edge {
	var removed []Edge
	kept := g.edges[:0]
	for _, e := range g.edges {
		if keep(e) {
			kept = append(kept, e)
			continue
		}
		removed = append(removed, e)
	}
	g.edges = kept
	return removed
}

// AddCollection inserts a collection. Duplicate or empty ids are ignored.
func (g *Graph) AddCollection(c Collection) {
	if c.ID == "" {
		return
	}
	for _, existing := range g.collections {
		if existing.ID == c.ID {
			return
		}
	}
	g.collections = append(g.collections, c)
}

// RemoveCollection deletes a collection and clears it from any node that
// referenced it.
func (g *Graph) RemoveCollection(id string) (Collection, bool) {
	for i, c := range g.collections {
		if c.ID != id {
			continue
		}
		g.collections = append(g.collections[:i], g.collections[i+1:]...)
		for nid, n := range g.nodes {
			if n.CollectionID == id {
				n.CollectionID = ""
				g.nodes[nid] = n
			}
		}
		return c, true
	}
	return Collection{}, false
}

// AddSeparator inserts a separator. Duplicate or empty ids are ignored.
func (g *Graph) AddSeparator(s Separator) {
	if s.ID == "" {
		return
	}
	for _, existing := range g.separators {
		if existing.ID == s.ID {
			return
		}
	}
	g.separators = append(g.separators, s)
}

// UpdateSeparator replaces a separator with the same id.
func (g *Graph) UpdateSeparator(s Separator) {
	for i, existing := range g.separators {
		if existing.ID == s.ID {
			g.separators[i] = s
			return
		}
	}
}

// RemoveSeparator deletes a separator by id, returning it for journaling.
func (g *Graph) RemoveSeparator(id string) (Separator, bool) {
	for i, s := range g.separators {
		if s.ID == id {
			g.separators = append(g.separators[:i], g.separators[i+1:]...)
			return s, true
		}
	}
	return Separator{}, false
}

// Replace swaps the entire graph content atomically. Used by import and by
// persistence rehydration. Nodes keep the given order; edges referencing
// unknown nodes are dropped.
func (g *Graph) Replace(nodes []Node, edges []Edge, collections []Collection, separators []Separator) {
	g.nodes = make(map[string]Node, len(nodes))
	g.nodeOrder = g.nodeOrder[:0]
	for _, n := range nodes {
		if n.ID == "" {
			continue
		}
		if _, exists := g.nodes[n.ID]; exists {
			continue
		}
		g.nodes[n.ID] = n.Clone()
		g.nodeOrder = append(g.nodeOrder, n.ID)
	}
	g.edges = nil
	for _, e := range edges {
		g.AddEdge(e)
	}
	g.collections = append([]Collection(nil), collections...)
	g.separators = append([]Separator(nil), separators...)
}
