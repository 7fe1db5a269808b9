package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/shopcart/core"
)

// Fixture is a json-server style catalog document:
//
//	{"products":[{"id":1,"title":"...","price":179.9,"image":"..."}],
//	 "stock":[{"id":1,"amount":3}]}
type Fixture struct {
	Products []core.Product `json:"products"`
	Stock    []core.Stock   `json:"stock"`
}

// DecodeFixture reads a fixture document from r into a fresh InMemoryCatalog.
func DecodeFixture(r io.Reader) (*InMemoryCatalog, error) {
	var f Fixture
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	c := NewInMemory()
	for _, p := range f.Products {
		c.PutProduct(p)
	}
	for _, s := range f.Stock {
		if s.Amount < 0 {
			return nil, fmt.Errorf("decode fixture: stock %d has negative amount", s.ID)
		}
		c.PutStock(s.ID, s.Amount)
	}
	return c, nil
}

// LoadFixture reads a fixture file.
func LoadFixture(path string) (*InMemoryCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()
	return DecodeFixture(f)
}
