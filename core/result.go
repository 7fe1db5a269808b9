package core

import (
	"encoding/json"
	"errors"
)

// Operation names a cart mutation.
type Operation int

const (
	// OpAdd adds a product or increments its amount.
	OpAdd Operation = iota
	// OpRemove removes a product line.
	OpRemove
	// OpSetQuantity replaces the amount of a product line.
	OpSetQuantity
)

// String returns the wire name of the operation.
func (o Operation) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	case OpSetQuantity:
		return "set_quantity"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Operation) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Outcome is the four-way result taxonomy of a cart operation.
type Outcome int

const (
	// OutcomeSuccess means the operation completed (or was a silent no-op).
	OutcomeSuccess Outcome = iota
	// OutcomeNotFound means the product or cart entry does not exist.
	OutcomeNotFound
	// OutcomeOutOfStock means the requested quantity exceeds available stock.
	OutcomeOutOfStock
	// OutcomeTransportError means a lookup or the slot write failed.
	OutcomeTransportError
)

// String returns the wire name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeOutOfStock:
		return "out_of_stock"
	case OutcomeTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Result is returned by every cart operation. Cart is the snapshot after the
// operation; it equals the prior cart whenever Changed is false.
type Result struct {
	Op        Operation
	ProductID int
	Outcome   Outcome
	Changed   bool
	Err       error
	Cart      Cart
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool { return r.Outcome == OutcomeSuccess }

// Ignored reports whether the operation was a silent no-op (a quantity
// below 1). Ignored results are not passed to the notifier.
func (r Result) Ignored() bool { return r.OK() && !r.Changed }

// MarshalJSON renders the error as its message.
func (r Result) MarshalJSON() ([]byte, error) {
	type wire struct {
		Op        Operation `json:"op"`
		ProductID int       `json:"product_id"`
		Outcome   Outcome   `json:"outcome"`
		Changed   bool      `json:"changed"`
		Error     string    `json:"error,omitempty"`
		Cart      Cart      `json:"cart"`
	}
	w := wire{Op: r.Op, ProductID: r.ProductID, Outcome: r.Outcome, Changed: r.Changed, Cart: r.Cart}
	if r.Err != nil {
		w.Error = r.Err.Error()
	}
	if w.Cart == nil {
		w.Cart = Cart{}
	}
	return json.Marshal(w)
}

// Classify maps a lookup or persistence error to an outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrPersist):
		return OutcomeTransportError
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrOutOfStock):
		return OutcomeOutOfStock
	default:
		return OutcomeTransportError
	}
}
