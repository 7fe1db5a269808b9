package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/shopcart/core"
)

// InMemoryCatalog is a volatile Catalog storing products and stock in
// process local maps. It is safe for concurrent access and best suited for
// tests, examples and the fake storefront API.
type InMemoryCatalog struct {
	mu       sync.RWMutex
	products map[int]core.Product
	stock    map[int]core.Stock
	failErr  error
	calls    map[string]int
}

// NewInMemory constructs an empty in‑memory catalog.
func NewInMemory() *InMemoryCatalog {
	return &InMemoryCatalog{
		products: make(map[int]core.Product),
		stock:    make(map[int]core.Stock),
		calls:    make(map[string]int),
	}
}

// PutProduct stores (or overwrites) product metadata.
func (c *InMemoryCatalog) PutProduct(p core.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID] = p
}

// PutStock stores (or overwrites) the available amount for a product.
func (c *InMemoryCatalog) PutStock(productID, amount int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stock[productID] = core.Stock{ID: productID, Amount: amount}
}

// Put stores a product together with its stock amount.
func (c *InMemoryCatalog) Put(p core.Product, amount int) {
	c.PutProduct(p)
	c.PutStock(p.ID, amount)
}

// Fail makes every subsequent lookup return err; Fail(nil) restores normal
// behaviour. Used to simulate transport failures.
func (c *InMemoryCatalog) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failErr = err
}

// Calls reports how many lookups of the given kind ("product" or "stock")
// were served.
func (c *InMemoryCatalog) Calls(kind string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.calls[kind]
}

// Products returns all stored products.
func (c *InMemoryCatalog) Products() []core.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]core.Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}
	return out
}

// Product returns the product metadata or core.ErrNotFound.
func (c *InMemoryCatalog) Product(ctx context.Context, productID int) (core.Product, error) {
	if err := ctx.Err(); err != nil {
		return core.Product{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls["product"]++
	if c.failErr != nil {
		return core.Product{}, c.failErr
	}
	p, ok := c.products[productID]
	if !ok {
		return core.Product{}, fmt.Errorf("product %d: %w", productID, core.ErrNotFound)
	}
	return p, nil
}

// Stock returns the stock record or core.ErrNotFound.
func (c *InMemoryCatalog) Stock(ctx context.Context, productID int) (core.Stock, error) {
	if err := ctx.Err(); err != nil {
		return core.Stock{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls["stock"]++
	if c.failErr != nil {
		return core.Stock{}, c.failErr
	}
	s, ok := c.stock[productID]
	if !ok {
		return core.Stock{}, fmt.Errorf("stock %d: %w", productID, core.ErrNotFound)
	}
	return s, nil
}
