package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hupe1980/shopcart/core"
	"github.com/hupe1980/shopcart/logging"
)

// NoOp discards every result.
type NoOp struct{}

// Notify does nothing.
func (NoOp) Notify(context.Context, core.Result) {}

// ToastOptions configures a Toast.
type ToastOptions struct {
	// Locale selects the message language. Defaults to DefaultLocale.
	Locale language.Tag
	// Logger additionally records every toast at warn level.
	Logger logging.Logger
}

// Toast writes one localized line per failed result, mirroring the error
// toasts of the storefront UI. Successful results are silent.
type Toast struct {
	mu      sync.Mutex
	w       io.Writer
	printer *message.Printer
	logger  logging.Logger
}

// NewToast creates a toast notifier writing to w. A nil w writes to stderr.
func NewToast(w io.Writer, optFns ...func(o *ToastOptions)) *Toast {
	opts := ToastOptions{Locale: DefaultLocale}
	for _, fn := range optFns {
		fn(&opts)
	}
	if w == nil {
		w = os.Stderr
	}
	return &Toast{w: w, printer: message.NewPrinter(opts.Locale), logger: logging.Or(opts.Logger)}
}

// Message returns the localized text for res ("" when res succeeded).
func (t *Toast) Message(res core.Result) string {
	key := MessageKey(res)
	if key == "" {
		return ""
	}
	return t.printer.Sprintf(key)
}

// Notify writes the toast line for failed results.
func (t *Toast) Notify(_ context.Context, res core.Result) {
	msg := t.Message(res)
	if msg == "" {
		return
	}
	t.logger.Warn("toast", "message", msg, "operation", res.Op.String(), "product_id", res.ProductID, "outcome", res.Outcome.String())

	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = fmt.Fprintln(t.w, msg)
}

type multi []core.Notifier

func (m multi) Notify(ctx context.Context, res core.Result) {
	for _, n := range m {
		n.Notify(ctx, res)
	}
}

// Multi returns a notifier that forwards every result to each of ns in order.
// Nil entries are skipped.
func Multi(ns ...core.Notifier) core.Notifier {
	out := make(multi, 0, len(ns))
	for _, n := range ns {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
