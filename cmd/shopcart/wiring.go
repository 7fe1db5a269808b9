package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/shopcart"
	"github.com/hupe1980/shopcart/catalog"
	"github.com/hupe1980/shopcart/core"
	"github.com/hupe1980/shopcart/internal/config"
	"github.com/hupe1980/shopcart/logging"
	"github.com/hupe1980/shopcart/notify"
	amqpnotify "github.com/hupe1980/shopcart/notify/amqp"
	"github.com/hupe1980/shopcart/slot"
	"github.com/hupe1980/shopcart/slot/file"
	"github.com/hupe1980/shopcart/slot/sqlite"
)

// app bundles the collaborators built from the configuration.
type app struct {
	cfg     config.Config
	logger  *logging.CartLogger
	cart    *shopcart.ShopCart
	closers []io.Closer
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func newApp(ctx context.Context, cfg config.Config, toastOut io.Writer) (*app, error) {
	a := &app{cfg: cfg, logger: cfg.Logger()}

	cat, err := catalog.NewHTTP(cfg.CatalogURL, func(o *catalog.HTTPOptions) {
		o.Timeout = cfg.CatalogTimeout
		o.Logger = a.logger.WithComponent("catalog")
	})
	if err != nil {
		return nil, err
	}

	s, err := a.openSlot()
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	n, err := a.notifier(toastOut)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	sc, err := shopcart.New(ctx, func(o *shopcart.Options) {
		o.Catalog = cat
		o.Slot = s
		o.Notifier = n
		o.Logger = a.logger.WithComponent("store")
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.cart = sc
	return a, nil
}

func (a *app) openSlot() (core.Slot, error) {
	switch a.cfg.SlotBackend {
	case config.SlotMemory:
		return slot.NewInMemory(), nil
	case config.SlotFile:
		return file.Open(a.cfg.SlotPath)
	case config.SlotSQLite:
		store, err := sqlite.Open(a.cfg.SlotPath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store)
		return store.Slot(a.cfg.SlotKey), nil
	default:
		return nil, fmt.Errorf("unknown slot backend %q", a.cfg.SlotBackend)
	}
}

func (a *app) notifier(toastOut io.Writer) (core.Notifier, error) {
	tag, err := a.cfg.Language()
	if err != nil {
		return nil, err
	}
	if toastOut == nil {
		toastOut = os.Stderr
	}
	toast := notify.NewToast(toastOut, func(o *notify.ToastOptions) {
		o.Locale = tag
		o.Logger = a.logger.WithComponent("notify")
	})
	if a.cfg.AMQPURI == "" {
		return toast, nil
	}

	events, conn, err := amqpnotify.Dial(a.cfg.AMQPURI, a.cfg.AMQPQueue, func(o *amqpnotify.Options) {
		o.Logger = a.logger.WithComponent("amqp")
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, conn)
	return notify.Multi(toast, events), nil
}
