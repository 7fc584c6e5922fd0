// Package domain defines the core value types of the JSON item store.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - ID: A GUID item, template, or field identifier with a Null sentinel
//   - Language and Version: The coordinates of a field revision
//   - FieldMap and ItemFields: Insertion-ordered field storage per scope
//   - Item: A tree node owning its children and its field scope store
//   - ItemChanges: A batch of rename and field edits for one item
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import the Go
// standard library and github.com/google/uuid for the GUID value type.
// All other packages depend on domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, github.com/google/uuid
//   - Cannot Import: Any internal/ package, any other external dependency
package domain
