package schemapad

import "math"

// SnapTolerance is how close (in canvas units) two node centers must be on
// one axis before an accepted connection snaps the target into exact
// alignment and tags the edge with a straight-line hint.
const SnapTolerance = 16.0

// Decision is the outcome of validating a candidate connection.
// A rejected candidate is a silent no-op for the model; Reason exists so
// callers may surface a warning, never to signal a fatal error.
type Decision struct {
	Allowed bool
	Reason  string

	// Hint and SnapTarget are set only on acceptance, and only when the
	// endpoints were nearly aligned on one axis through a canonical
	// output/input pairing. SnapTarget is the nudged target position.
	Hint       LineHint
	SnapTarget *Position
}

func reject(reason string) Decision {
	return Decision{Reason: reason}
}

// ValidateConnection decides whether an edge from (source, sourceHandle) to
// (target, targetHandle) may be created in the current graph. It is pure:
// the same candidate against the same graph always yields the same decision.
func ValidateConnection(g *Graph, source, sourceHandle, target, targetHandle string) Decision {
	if source == target {
		return reject("self connections are not allowed")
	}
	src, ok := g.NodeByID(source)
	if !ok {
		return reject("source node does not exist")
	}
	tgt, ok := g.NodeByID(target)
	if !ok {
		return reject("target node does not exist")
	}
	if !HasOutputPort(src, sourceHandle) {
		return reject("source handle is not an output port")
	}
	if !HasInputPort(tgt, targetHandle) {
		return reject("target handle is not an input port")
	}

	// Process nodes connect to anything through their four fixed ports.
	// Everything else is a field output feeding an array node input, and
	// only fields of type array may feed one.
	if src.Kind != NodeKindProcess && tgt.Kind != NodeKindProcess {
		if tgt.Kind != NodeKindArray || !isArrayInput(targetHandle) {
			return reject("only array node inputs accept field connections")
		}
		idx, ok := ParseFieldPort(sourceHandle)
		if !ok || idx >= len(src.Fields) {
			return reject("source handle is not a field output port")
		}
		if src.Fields[idx].Type != FieldArray {
			return reject("source field is not of type array")
		}
	}

	d := Decision{Allowed: true}
	d.Hint, d.SnapTarget = alignmentHint(src, sourceHandle, tgt, targetHandle)
	return d
}

// alignmentHint checks the canonical straight-line pairings: "right"→"left"
// snaps horizontally when the centers nearly share a Y, "bottom"→"top"
// snaps vertically when they nearly share an X.
func alignmentHint(src Node, sourceHandle string, tgt Node, targetHandle string) (LineHint, *Position) {
	switch {
	case sourceHandle == PortRight && targetHandle == PortLeft:
		if math.Abs(src.Position.Y-tgt.Position.Y) <= SnapTolerance {
			return HintHorizontal, &Position{X: tgt.Position.X, Y: src.Position.Y}
		}
	case sourceHandle == PortBottom && targetHandle == PortTop:
		if math.Abs(src.Position.X-tgt.Position.X) <= SnapTolerance {
			return HintVertical, &Position{X: src.Position.X, Y: tgt.Position.Y}
		}
	}
	return HintNone, nil
}
