package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/shopcart/core"
	"github.com/hupe1980/shopcart/logging"
	"github.com/hupe1980/shopcart/notify"
	"github.com/hupe1980/shopcart/slot"
)

// Options configures a Store using the functional options pattern. All
// collaborators except the catalog have in-memory or no-op defaults.
type Options struct {
	// Slot persists the serialized cart. Defaults to an empty in-memory slot.
	Slot core.Slot

	// Notifier receives every non-ignored result. Defaults to a no-op.
	Notifier core.Notifier

	// Logger records loads, operations and persistence failures.
	// Defaults to NoOpLogger.
	Logger logging.Logger
}

// Store is the cart state container. It is safe for concurrent use; all
// operations are serialized.
type Store struct {
	mu       sync.Mutex
	catalog  core.Catalog
	slot     core.Slot
	notifier core.Notifier
	logger   logging.Logger
	cart     core.Cart
}

// operationLogger is implemented by loggers with a dedicated helper for
// operation outcomes (logging.CartLogger).
type operationLogger interface {
	LogOperation(op string, productID int, dur time.Duration, outcome string, err error)
}

// New creates a store and loads the persisted cart from the slot. A missing
// slot value, an unreadable slot or bytes that do not decode into a valid
// cart all yield an empty cart; the latter two are logged as warnings.
func New(ctx context.Context, catalog core.Catalog, optFns ...func(o *Options)) (*Store, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}

	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Slot == nil {
		opts.Slot = slot.NewInMemory()
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.NoOp{}
	}

	s := &Store{
		catalog:  catalog,
		slot:     opts.Slot,
		notifier: opts.Notifier,
		logger:   logging.Or(opts.Logger),
	}
	s.cart = s.load(ctx)
	return s, nil
}

func (s *Store) load(ctx context.Context) core.Cart {
	data, err := s.slot.Load(ctx)
	if err != nil {
		if !errors.Is(err, core.ErrSlotEmpty) {
			s.logger.Warn("failed to read persisted cart, starting empty", "error", err)
		}
		return core.Cart{}
	}
	c, err := core.DecodeCart(data)
	if err != nil {
		s.logger.Warn("persisted cart is unparsable, starting empty", "error", err)
		return core.Cart{}
	}
	s.logger.Debug("loaded persisted cart", "entries", len(c))
	return c
}

// Cart returns a snapshot of the current cart, safe for caller mutation.
func (s *Store) Cart() core.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// Add puts one unit of productID in the cart. An existing line is
// incremented through the same stock check as SetQuantity; a new line
// requires both a product record and at least one unit in stock.
func (s *Store) Add(ctx context.Context, productID int) core.Result {
	return s.run(ctx, func() core.Result { return s.add(ctx, productID) })
}

// Remove deletes the line for productID. Removing an absent product is a
// not-found failure and leaves the cart untouched.
func (s *Store) Remove(ctx context.Context, productID int) core.Result {
	return s.run(ctx, func() core.Result { return s.remove(ctx, productID) })
}

// SetQuantity replaces the amount of an existing line. Amounts below 1 are
// silently ignored (the line is not removed) and no catalog call is made.
func (s *Store) SetQuantity(ctx context.Context, productID, amount int) core.Result {
	return s.run(ctx, func() core.Result { return s.setQuantity(ctx, core.OpSetQuantity, productID, amount) })
}

// run serializes op, logs it and forwards its result to the notifier.
func (s *Store) run(ctx context.Context, op func() core.Result) core.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	res := op()
	s.logResult(res, time.Since(start))

	if !res.Ignored() {
		s.notifier.Notify(ctx, res)
	}
	return res
}

func (s *Store) add(ctx context.Context, productID int) core.Result {
	if e, ok := s.cart.Find(productID); ok {
		return s.setQuantity(ctx, core.OpAdd, productID, e.Amount+1)
	}

	// Both lookups always run to completion; the stock failure takes
	// precedence over the product failure regardless of arrival order.
	var (
		product              core.Product
		stock                core.Stock
		stockErr, productErr error
		g                    errgroup.Group
	)
	g.Go(func() error {
		stock, stockErr = s.catalog.Stock(ctx, productID)
		return nil
	})
	g.Go(func() error {
		product, productErr = s.catalog.Product(ctx, productID)
		return nil
	})
	_ = g.Wait()

	if stockErr != nil {
		return s.reject(core.OpAdd, productID, fmt.Errorf("lookup stock %d: %w", productID, stockErr))
	}
	if productErr != nil {
		return s.reject(core.OpAdd, productID, fmt.Errorf("lookup product %d: %w", productID, productErr))
	}

	if !stock.Covers(1) {
		return s.reject(core.OpAdd, productID, fmt.Errorf("product %d has %d in stock: %w", productID, stock.Amount, core.ErrOutOfStock))
	}

	product.ID = productID
	return s.commit(ctx, core.OpAdd, productID, s.cart.Append(core.Entry{Product: product, Amount: 1}))
}

func (s *Store) remove(ctx context.Context, productID int) core.Result {
	if _, ok := s.cart.Find(productID); !ok {
		return s.reject(core.OpRemove, productID, fmt.Errorf("cart entry %d: %w", productID, core.ErrNotFound))
	}
	return s.commit(ctx, core.OpRemove, productID, s.cart.Without(productID))
}

func (s *Store) setQuantity(ctx context.Context, op core.Operation, productID, amount int) core.Result {
	if amount < 1 {
		return core.Result{Op: op, ProductID: productID, Outcome: core.OutcomeSuccess, Cart: s.cart.Clone()}
	}
	if _, ok := s.cart.Find(productID); !ok {
		return s.reject(op, productID, fmt.Errorf("cart entry %d: %w", productID, core.ErrNotFound))
	}

	stock, err := s.catalog.Stock(ctx, productID)
	if err != nil {
		return s.reject(op, productID, fmt.Errorf("lookup stock %d: %w", productID, err))
	}
	if !stock.Covers(amount) {
		return s.reject(op, productID, fmt.Errorf("requested %d of product %d, %d in stock: %w", amount, productID, stock.Amount, core.ErrOutOfStock))
	}

	return s.commit(ctx, op, productID, s.cart.WithAmount(productID, amount))
}

// commit persists next and, only if that succeeds, makes it the current cart.
func (s *Store) commit(ctx context.Context, op core.Operation, productID int, next core.Cart) core.Result {
	data, err := core.EncodeCart(next)
	if err != nil {
		return s.reject(op, productID, fmt.Errorf("%w: %w", core.ErrPersist, err))
	}
	if err := s.slot.Save(ctx, data); err != nil {
		s.logger.Error("failed to persist cart", "operation", op.String(), "product_id", productID, "error", err)
		return s.reject(op, productID, fmt.Errorf("%w: %w", core.ErrPersist, err))
	}
	s.cart = next
	return core.Result{Op: op, ProductID: productID, Outcome: core.OutcomeSuccess, Changed: true, Cart: next.Clone()}
}

func (s *Store) reject(op core.Operation, productID int, err error) core.Result {
	return core.Result{Op: op, ProductID: productID, Outcome: core.Classify(err), Err: err, Cart: s.cart.Clone()}
}

func (s *Store) logResult(res core.Result, dur time.Duration) {
	if ol, ok := s.logger.(operationLogger); ok {
		ol.LogOperation(res.Op.String(), res.ProductID, dur, res.Outcome.String(), res.Err)
		return
	}
	if res.Err != nil {
		s.logger.Warn("Cart operation rejected", "operation", res.Op.String(), "product_id", res.ProductID, "outcome", res.Outcome.String(), "error", res.Err)
		return
	}
	s.logger.Info("Cart operation completed", "operation", res.Op.String(), "product_id", res.ProductID, "changed", res.Changed)
}
