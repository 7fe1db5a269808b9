// Package cart implements the shopping-cart state container.
//
// A Store owns one in-memory cart, loaded from a core.Slot when the store is
// created and written back as a whole after every successful mutation. It
// exposes three mutations (Add, Remove, SetQuantity) and a snapshot read
// (Cart). Each mutation returns a core.Result carrying one of four outcomes
// (success, not-found, out-of-stock, transport-error) and is also handed to
// the configured core.Notifier, so the presentation layer can decide how to
// react.
//
// Mutations are serialized: a Store holds its lock for the whole operation,
// including the catalog lookups, so read-modify-write cycles never
// interleave and effects apply in call order.
package cart
