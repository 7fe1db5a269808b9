// Package catalog houses core.Catalog implementations:
//
//   - HTTPCatalog talks to the storefront API (GET products/{id}, GET stock/{id})
//   - InMemoryCatalog keeps products and stock in process memory
//   - Handler serves an InMemoryCatalog over the same HTTP routes, which is
//     handy as a local fake API and as the peer of HTTPCatalog in tests
package catalog
