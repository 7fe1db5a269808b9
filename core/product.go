package core

// Product is the catalog metadata of a sellable item. The cart carries it
// verbatim and never interprets any field besides ID.
type Product struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// Stock is the remotely reported available quantity for a product.
type Stock struct {
	ID     int `json:"id"`
	Amount int `json:"amount"`
}

// Covers reports whether the stock satisfies a requested total quantity.
func (s Stock) Covers(amount int) bool {
	return amount <= s.Amount
}
