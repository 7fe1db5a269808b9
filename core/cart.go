package core

import (
	"encoding/json"
	"fmt"
)

// Entry is one product line in the cart. The product metadata is flattened
// into the JSON form next to the amount, e.g.
//
//	{"id":1,"title":"Tênis","price":179.9,"image":"...","amount":2}
type Entry struct {
	Product
	Amount int `json:"amount"`
}

// Cart is an ordered collection of entries unique by product ID.
//
// Contract:
//   - Amount of every entry is at least 1
//   - Mutating helpers (Append, Without, WithAmount) never modify the
//     receiver; they return a fresh slice so a failed persist can discard it
//   - Order is insertion order and carries no meaning beyond presentation
type Cart []Entry

// Find returns the entry for productID and whether it exists.
func (c Cart) Find(productID int) (Entry, bool) {
	for _, e := range c {
		if e.ID == productID {
			return e, true
		}
	}
	return Entry{}, false
}

// Clone returns a copy that is safe for independent mutation.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Append returns a new cart with e added at the end.
func (c Cart) Append(e Entry) Cart {
	out := make(Cart, 0, len(c)+1)
	out = append(out, c...)
	return append(out, e)
}

// Without returns a new cart without the entry for productID.
func (c Cart) Without(productID int) Cart {
	out := make(Cart, 0, len(c))
	for _, e := range c {
		if e.ID != productID {
			out = append(out, e)
		}
	}
	return out
}

// WithAmount returns a new cart where the entry for productID has the given
// amount. All other entries are copied untouched.
func (c Cart) WithAmount(productID, amount int) Cart {
	out := c.Clone()
	for i := range out {
		if out[i].ID == productID {
			out[i].Amount = amount
		}
	}
	return out
}

// Validate checks the cart invariants (positive amounts, unique IDs).
func (c Cart) Validate() error {
	seen := make(map[int]struct{}, len(c))
	for _, e := range c {
		if e.Amount < 1 {
			return fmt.Errorf("entry %d: amount %d below 1", e.ID, e.Amount)
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("entry %d: duplicate product id", e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return nil
}

// EncodeCart serializes the cart to its persisted JSON array form. A nil cart
// encodes as an empty array.
func EncodeCart(c Cart) ([]byte, error) {
	if c == nil {
		c = Cart{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}
	return data, nil
}

// DecodeCart parses a persisted cart and validates its invariants.
func DecodeCart(data []byte) (Cart, error) {
	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if c == nil {
		c = Cart{}
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return c, nil
}
