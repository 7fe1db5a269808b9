// Package slot contains concrete implementations of core.Slot.
//
// The canonical Slot interface lives in the core package to keep domain
// contracts central. Implementation packages (in‑memory here, a JSON file in
// slot/file, SQLite in slot/sqlite) provide storage backends that can be
// swapped without touching the cart store.
//
// Every backend treats the slot value as an opaque byte string written as a
// whole; none of them understands the cart format.
package slot
