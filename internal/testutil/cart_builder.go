package testutil

import (
	"fmt"

	"github.com/hupe1980/shopcart/core"
)

// CartBuilder provides fluent construction of carts in tests.
// Example:
//
//	c := NewCartBuilder().Entry(1, 2).Entry(3, 1).Build()
//
// Entries added with Entry get a generated title and price so that
// round-trip assertions exercise the metadata fields too.
type CartBuilder struct {
	entries []core.Entry
}

// NewCartBuilder creates an empty builder.
func NewCartBuilder() *CartBuilder { return &CartBuilder{} }

// Entry appends a line for productID with the given amount (chainable).
func (b *CartBuilder) Entry(productID, amount int) *CartBuilder {
	return b.Product(SampleProduct(productID), amount)
}

// Product appends a line with explicit metadata (chainable).
func (b *CartBuilder) Product(p core.Product, amount int) *CartBuilder {
	b.entries = append(b.entries, core.Entry{Product: p, Amount: amount})
	return b
}

// Build returns the cart. An empty builder yields an empty, non-nil cart.
func (b *CartBuilder) Build() core.Cart {
	out := make(core.Cart, len(b.entries))
	copy(out, b.entries)
	return out
}

// Encoded returns the persisted JSON form of the cart, panicking on error.
func (b *CartBuilder) Encoded() []byte {
	data, err := core.EncodeCart(b.Build())
	if err != nil {
		panic(err)
	}
	return data
}

// SampleProduct returns deterministic metadata for productID.
func SampleProduct(productID int) core.Product {
	return core.Product{
		ID:    productID,
		Title: fmt.Sprintf("Tênis %d", productID),
		Price: 100 + float64(productID)*10,
		Image: fmt.Sprintf("https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis%d.jpg", productID),
	}
}
