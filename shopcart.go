// Package shopcart provides a high-level façade over the cart Store and its
// collaborators (catalog, slot, notifier & logging) for storefront clients.
// Most applications interact with this package by:
//  1. Creating a ShopCart via New() (overriding the default in‑memory collaborators)
//  2. Calling Add, Remove and SetQuantity in response to shopper actions
//  3. Reading Cart() to render the current lines
//
// The façade delegates the cart semantics to cart.Store while keeping setup
// concise. Defaults are in-memory and silent, which suits tests and local
// development; production wiring supplies an HTTP catalog, a durable slot
// and a structured logger.
package shopcart

import (
	"context"

	"github.com/hupe1980/shopcart/cart"
	"github.com/hupe1980/shopcart/catalog"
	"github.com/hupe1980/shopcart/core"
	"github.com/hupe1980/shopcart/logging"
	"github.com/hupe1980/shopcart/notify"
	"github.com/hupe1980/shopcart/slot"
)

// Options configures the ShopCart instance.
type Options struct {
	// Catalog answers product and stock lookups (defaults to an empty
	// in-memory catalog, so every Add reports not-found until populated).
	Catalog core.Catalog

	// Slot persists the cart between sessions (defaults to in-memory).
	Slot core.Slot

	// Notifier receives operation outcomes (defaults to NoOp).
	Notifier core.Notifier

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// ShopCart is the high-level façade over a cart.Store.
type ShopCart struct {
	store *cart.Store
}

// New creates a ShopCart and loads the persisted cart. Any unset
// collaborator is initialized with an in-memory or no-op implementation.
func New(ctx context.Context, optFns ...func(o *Options)) (*ShopCart, error) {
	opts := Options{
		Catalog:  catalog.NewInMemory(),
		Slot:     slot.NewInMemory(),
		Notifier: notify.NoOp{},
		Logger:   logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	store, err := cart.New(ctx, opts.Catalog, func(o *cart.Options) {
		o.Slot = opts.Slot
		o.Notifier = opts.Notifier
		o.Logger = opts.Logger
	})
	if err != nil {
		return nil, err
	}

	return &ShopCart{store: store}, nil
}

// Add puts one unit of productID in the cart.
func (s *ShopCart) Add(ctx context.Context, productID int) core.Result {
	return s.store.Add(ctx, productID)
}

// Remove deletes the line for productID.
func (s *ShopCart) Remove(ctx context.Context, productID int) core.Result {
	return s.store.Remove(ctx, productID)
}

// SetQuantity replaces the amount of the line for productID.
func (s *ShopCart) SetQuantity(ctx context.Context, productID, amount int) core.Result {
	return s.store.SetQuantity(ctx, productID, amount)
}

// Cart returns a snapshot of the current cart.
func (s *ShopCart) Cart() core.Cart {
	return s.store.Cart()
}

// Store exposes the underlying cart store.
func (s *ShopCart) Store() *cart.Store { return s.store }
