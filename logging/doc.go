// Package logging provides a minimal logging interface and adapters for shopcart.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the cart store, catalogs and slots use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - CartLogger with component scoping and operation helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	sc, err := shopcart.New(ctx, func(o *shopcart.Options) { o.Logger = logger })
package logging
