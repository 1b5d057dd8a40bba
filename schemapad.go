// Package schemapad is the core engine of a node-and-edge canvas for
// sketching NoSQL data models: documents, arrays/subcollections, and
// process flow-steps.
//
// The package owns the in-memory graph model, the connection validator
// that gates which handles may connect, the derived-name resolver for
// array nodes, the edge consistency sweeper, the process flow resolver
// that replays recorded actions along a deterministic process chain, and
// the bounded undo/redo journal. Rendering, drag-and-drop affordances,
// and persistence live outside; they talk to this package through the
// Editor facade and its change events.
//
//	import "github.com/schemapad/schemapad"        // core model + engine
//	import "github.com/schemapad/schemapad/store"  // document persistence
//	import "github.com/schemapad/schemapad/persist" // autosave + conflicts
package schemapad
