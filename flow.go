package schemapad

import (
	"sort"
)

// ValueOverride is the cumulative last-write-wins value recorded for one
// field during flow replay.
type ValueOverride struct {
	ValueType  ValueType `json:"valueType"`
	FixedValue string    `json:"fixedValue,omitempty"`
}

// FlowView is the projected snapshot of the canvas at a selected flow step.
//
// Process nodes are always present. Document and array nodes appear only
// when referenced by a replayed action, with their field lists filtered to
// the referenced fields (an unreferenced field filter leaves the list
// whole). Overrides maps nodeID -> fieldName -> cumulative value.
//
// The view is deterministic: node order follows graph insertion order and
// field order follows each node's own field order, so identical inputs
// produce identical views.
type FlowView struct {
	Chain     []string                            `json:"chain"`
	Relevant  []string                            `json:"relevant,omitempty"`
	Nodes     []Node                              `json:"nodes"`
	Overrides map[string]map[string]ValueOverride `json:"overrides,omitempty"`
}

// ResolveFlow computes the flow view for the given selected process id.
// An empty selection projects the whole graph unfiltered.
// The resolver recomputes from scratch on every call; nothing is cached.
func ResolveFlow(g *Graph, selected string) FlowView {
	chain := ProcessChain(g)

	if selected == "" {
		return FlowView{Chain: chain, Nodes: g.Nodes()}
	}

	relevant := relevantProcesses(g, chain, selected)
	referenced, fieldRefs, overrides := replayActions(g, relevant)

	view := FlowView{
		Chain:     chain,
		Relevant:  relevant,
		Overrides: overrides,
	}
	for _, id := range g.nodeOrder {
		n := g.nodes[id]
		if n.Kind == NodeKindProcess {
			view.Nodes = append(view.Nodes, n.Clone())
			continue
		}
		if !referenced[id] {
			continue
		}
		projected := n.Clone()
		if refs := fieldRefs[id]; len(refs) > 0 {
			filtered := make([]Field, 0, len(refs))
			for _, f := range projected.Fields {
				if refs[f.Name] {
					filtered = append(filtered, f)
				}
			}
			projected.Fields = filtered
		}
		view.Nodes = append(view.Nodes, projected)
	}
	return view
}

// ProcessChain derives the deterministic linear ordering of process nodes.
//
// Only edges between two process nodes that leave an output handle
// ("right"/"bottom") and enter an input handle ("left"/"top") order the
// chain. The start is the first process node in stable iteration order
// with no qualifying incoming edge; when every process node has one (a
// cycle, or no clear root) the first process node wins. The chain is then
// a depth-first walk from the start, following outgoing qualifying edges
// sorted by target id, visiting each node at most once. Process nodes
// unreachable from the start are absent.
func ProcessChain(g *Graph) []string {
	processes := processIDs(g)
	if len(processes) == 0 {
		return nil
	}

	succ, pred := processLinks(g)

	start := processes[0]
	for _, id := range processes {
		if len(pred[id]) == 0 {
			start = id
			break
		}
	}

	var chain []string
	visited := make(map[string]bool)
	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		chain = append(chain, id)
		next := append([]string(nil), succ[id]...)
		sort.Strings(next)
		for _, t := range next {
			visit(t)
		}
	}
	visit(start)
	return chain
}

// relevantProcesses resolves a selection to the set of processes whose
// actions have cumulatively run at that step, in execution order.
//
// When the selection sits on the chain the relevant set is the chain's
// prefix up to and including it. A selection the linearization missed
// (a disconnected subgraph) falls back to a backward chain: its transitive
// predecessors, visited-set guarded against cycles, followed by the
// selection itself.
func relevantProcesses(g *Graph, chain []string, selected string) []string {
	if n, ok := g.nodes[selected]; !ok || n.Kind != NodeKindProcess {
		return nil
	}

	for i, id := range chain {
		if id == selected {
			return append([]string(nil), chain[:i+1]...)
		}
	}

	_, pred := processLinks(g)
	var backward []string
	visited := map[string]bool{selected: true}
	var visit func(id string)
	visit = func(id string) {
		sources := append([]string(nil), pred[id]...)
		sort.Strings(sources)
		for _, p := range sources {
			if visited[p] {
				continue
			}
			visited[p] = true
			visit(p)
			backward = append(backward, p)
		}
	}
	visit(selected)
	return append(backward, selected)
}

// replayActions replays each relevant process's actions in chain order,
// each process's actions sorted ascending by SavedAt. Later writes win.
func replayActions(g *Graph, relevant []string) (referenced map[string]bool, fieldRefs map[string]map[string]bool, overrides map[string]map[string]ValueOverride) {
	referenced = make(map[string]bool)
	fieldRefs = make(map[string]map[string]bool)
	overrides = make(map[string]map[string]ValueOverride)

	for _, pid := range relevant {
		p, ok := g.nodes[pid]
		if !ok || p.Process == nil {
			continue
		}
		actions := append([]Action(nil), p.Process.Actions...)
		sort.SliceStable(actions, func(i, j int) bool {
			return actions[i].SavedAt.Before(actions[j].SavedAt)
		})
		for _, a := range actions {
			switch a.Kind {
			case ActionDocument:
				referenced[a.TargetNodeID] = true
			case ActionField:
				referenced[a.TargetNodeID] = true
				if fieldRefs[a.TargetNodeID] == nil {
					fieldRefs[a.TargetNodeID] = make(map[string]bool)
				}
				fieldRefs[a.TargetNodeID][a.FieldName] = true
				if a.ValueType != "" {
					if overrides[a.TargetNodeID] == nil {
						overrides[a.TargetNodeID] = make(map[string]ValueOverride)
					}
					overrides[a.TargetNodeID][a.FieldName] = ValueOverride{
						ValueType:  a.ValueType,
						FixedValue: a.FixedValue,
					}
				}
			}
		}
	}
	return referenced, fieldRefs, overrides
}

// processIDs returns the ids of all process nodes in insertion order.
func processIDs(g *Graph) []string {
	var ids []string
	for _, id := range g.nodeOrder {
		if g.nodes[id].Kind == NodeKindProcess {
			ids = append(ids, id)
		}
	}
	return ids
}

// processLinks builds the qualifying process-to-process adjacency:
// output handle on the source, input handle on the target, both process
// nodes. Everything else still renders but never orders the chain.
func processLinks(g *Graph) (succ, pred map[string][]string) {
	succ = make(map[string][]string)
	pred = make(map[string][]string)
	for _, e := range g.edges {
		src, ok := g.nodes[e.Source]
		if !ok || src.Kind != NodeKindProcess {
			continue
		}
		tgt, ok := g.nodes[e.Target]
		if !ok || tgt.Kind != NodeKindProcess {
			continue
		}
		if e.SourceHandle != PortRight && e.SourceHandle != PortBottom {
			continue
		}
		if e.TargetHandle != PortLeft && e.TargetHandle != PortTop {
			continue
		}
		succ[e.Source] = append(succ[e.Source], e.Target)
		pred[e.Target] = append(pred[e.Target], e.Source)
	}
	return succ, pred
}
