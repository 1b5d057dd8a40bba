package schemapad

import (
	"strconv"
	"strings"
)

// Handle names for the fixed ports on array and process nodes.
// Array nodes accept connections on "left" and "right"; the two are
// functionally identical and only influence default routing geometry.
// Process nodes take input on "top"/"left" and emit on "right"/"bottom".
const (
	PortTop    = "top"
	PortLeft   = "left"
	PortRight  = "right"
	PortBottom = "bottom"
)

const fieldPortPrefix = "field-"

// FieldPort returns the output handle name for the field at index i.
func FieldPort(i int) string {
	return fieldPortPrefix + strconv.Itoa(i)
}

// ParseFieldPort extracts the field index from a field output handle.
func ParseFieldPort(handle string) (int, bool) {
	rest, ok := strings.CutPrefix(handle, fieldPortPrefix)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(rest)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// OutputPorts returns the declared output handles for a node, derived from
// its kind and current field list.
//
// Document nodes expose one output per field of type array or
// subcollection. Array nodes expose one output per internal field of type
// array. Process nodes expose the fixed "right" and "bottom" handles.
func OutputPorts(n Node) []string {
	switch n.Kind {
	case NodeKindProcess:
		return []string{PortRight, PortBottom}
	case NodeKindDocument:
		var ports []string
		for i, f := range n.Fields {
			if f.Type == FieldArray || f.Type == FieldSubcollection {
				ports = append(ports, FieldPort(i))
			}
		}
		return ports
	case NodeKindArray:
		var ports []string
		for i, f := range n.Fields {
			if f.Type == FieldArray {
				ports = append(ports, FieldPort(i))
			}
		}
		return ports
	}
	return nil
}

// InputPorts returns the declared input handles for a node.
// Document nodes expose no inputs: documents never receive edges.
func InputPorts(n Node) []string {
	switch n.Kind {
	case NodeKindProcess:
		return []string{PortTop, PortLeft}
	case NodeKindArray:
		return []string{PortLeft, PortRight}
	}
	return nil
}

// HasOutputPort reports whether handle is a declared output on n.
func HasOutputPort(n Node, handle string) bool {
	for _, p := range OutputPorts(n) {
		if p == handle {
			return true
		}
	}
	return false
}

// HasInputPort reports whether handle is a declared input on n.
func HasInputPort(n Node, handle string) bool {
	for _, p := range InputPorts(n) {
		if p == handle {
			return true
		}
	}
	return false
}

// isArrayInput reports whether handle is one of the array node input handles.
func isArrayInput(handle string) bool {
	return handle == PortLeft || handle == PortRight
}
