// Command shopcart drives a persisted shopping cart from the terminal.
//
//	shopcart add 1
//	shopcart set 1 3
//	shopcart remove 1
//	shopcart list
//	shopcart serve-catalog --fixture db.json
//
// Configuration comes from SHOPCART_* environment variables (see
// internal/config). Toast messages for failed operations go to stderr.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
