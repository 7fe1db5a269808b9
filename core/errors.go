package core

import "errors"

var (
	// ErrNotFound is returned when a product, stock record or cart entry does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrOutOfStock is attached to results whose requested quantity exceeds
	// the available stock.
	ErrOutOfStock = errors.New("requested quantity out of stock")

	// ErrPersist wraps failures to write the cart to its slot.
	ErrPersist = errors.New("persist cart")

	// ErrSlotEmpty is returned by Slot.Load when nothing was saved yet.
	ErrSlotEmpty = errors.New("slot is empty")
)
