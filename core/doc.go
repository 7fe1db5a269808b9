// Package core provides the foundational domain types and collaborator
// contracts used by shopcart. It defines:
//
//   - Products, stock records and cart entries
//   - The Cart collection with copy-on-write helpers
//   - Results (operation outcome taxonomy returned to callers)
//   - Pluggable collaborators for catalog lookup, slot persistence and
//     outcome notification
//
// The package keeps implementation concerns (HTTP transport, storage
// engines, presentation) out of scope, exposing small interfaces so that
// backends can be swapped in tests and production wiring.
package core
