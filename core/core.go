package core

import "context"

// Catalog looks up product metadata and available stock. Implementations
// return ErrNotFound (possibly wrapped) when the product does not exist; any
// other error is treated as a transport failure.
type Catalog interface {
	Product(ctx context.Context, productID int) (Product, error)
	Stock(ctx context.Context, productID int) (Stock, error)
}

// Slot is a single named key-value location holding the serialized cart.
// Save replaces the stored value as a whole. Load returns ErrSlotEmpty
// (possibly wrapped) when nothing was saved yet.
type Slot interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Notifier receives the outcome of every cart operation that was not
// silently ignored. It is the presentation hook; implementations must not
// block for long and must not call back into the cart store.
type Notifier interface {
	Notify(ctx context.Context, res Result)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(ctx context.Context, res Result)

// Notify calls f(ctx, res).
func (f NotifierFunc) Notify(ctx context.Context, res Result) { f(ctx, res) }
