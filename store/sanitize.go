package store

import (
	"github.com/schemapad/schemapad"
)

// Sanitize returns a copy of v with every nil-valued map entry removed,
// recursively through nested maps and slices. The persisted format must
// never contain explicit null placeholders for absent values, so this pass
// runs over the free-form portions of a document before every write.
func Sanitize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if val == nil {
				continue
			}
			out[k] = Sanitize(val)
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, val := range t {
			out = append(out, Sanitize(val))
		}
		return out
	default:
		return v
	}
}

// sanitizeDocument strips nil entries from the forward-compatible bags of
// every node before the document is serialized.
func sanitizeDocument(doc Document) Document {
	doc.Nodes = append([]schemapad.Node(nil), doc.Nodes...)
	for i, n := range doc.Nodes {
		if n.Extra == nil {
			continue
		}
		cleaned, _ := Sanitize(n.Extra).(map[string]any)
		if len(cleaned) == 0 {
			cleaned = nil
		}
		doc.Nodes[i].Extra = cleaned
	}
	return doc
}
