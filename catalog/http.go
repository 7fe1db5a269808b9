package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hupe1980/shopcart/core"
	"github.com/hupe1980/shopcart/logging"
)

// maxBodyBytes bounds how much of a catalog response is read.
const maxBodyBytes = 1 << 20

// StatusError is returned when the catalog API answers with an unexpected
// (non-2xx, non-404) status code.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog %s: unexpected status %d", e.Endpoint, e.StatusCode)
}

// HTTPOptions configures an HTTPCatalog.
type HTTPOptions struct {
	// Client performs the requests. Defaults to a fresh http.Client.
	Client *http.Client
	// Timeout bounds every lookup on top of the caller's context. Zero
	// disables the extra bound.
	Timeout time.Duration
	// Logger receives one entry per lookup. Defaults to NoOpLogger.
	Logger logging.Logger
}

// HTTPCatalog implements core.Catalog against the storefront API.
type HTTPCatalog struct {
	base    *url.URL
	client  *http.Client
	timeout time.Duration
	logger  logging.Logger
}

// remoteCallLogger is implemented by loggers with a dedicated latency helper
// (logging.CartLogger).
type remoteCallLogger interface {
	LogRemoteCall(endpoint string, dur time.Duration, err error)
}

// NewHTTP creates a catalog client rooted at baseURL (e.g. http://localhost:3333).
func NewHTTP(baseURL string, optFns ...func(o *HTTPOptions)) (*HTTPCatalog, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("catalog base url is required")
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse catalog base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("catalog base url must be http or https, got %q", baseURL)
	}

	opts := HTTPOptions{Timeout: 5 * time.Second}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}

	return &HTTPCatalog{
		base:    base,
		client:  opts.Client,
		timeout: opts.Timeout,
		logger:  logging.Or(opts.Logger),
	}, nil
}

// Product fetches GET products/{id}.
func (c *HTTPCatalog) Product(ctx context.Context, productID int) (core.Product, error) {
	var p core.Product
	if err := c.get(ctx, "products", productID, &p); err != nil {
		return core.Product{}, err
	}
	return p, nil
}

// Stock fetches GET stock/{id}.
func (c *HTTPCatalog) Stock(ctx context.Context, productID int) (core.Stock, error) {
	var s core.Stock
	if err := c.get(ctx, "stock", productID, &s); err != nil {
		return core.Stock{}, err
	}
	return s, nil
}

func (c *HTTPCatalog) get(ctx context.Context, resource string, productID int, out any) (err error) {
	endpoint := resource + "/" + strconv.Itoa(productID)
	start := time.Now()
	defer func() { c.logCall(endpoint, time.Since(start), err) }()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.JoinPath(resource, strconv.Itoa(productID)).String(), nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("catalog %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return fmt.Errorf("catalog %s: %w", endpoint, core.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read %s: %w", endpoint, err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) || bytes.Equal(body, []byte("{}")) {
		return fmt.Errorf("catalog %s: empty body: %w", endpoint, core.ErrNotFound)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func (c *HTTPCatalog) logCall(endpoint string, dur time.Duration, err error) {
	if rl, ok := c.logger.(remoteCallLogger); ok {
		rl.LogRemoteCall(endpoint, dur, err)
		return
	}
	if err != nil {
		c.logger.Error("Remote call failed", "endpoint", endpoint, "duration", dur, "error", err)
		return
	}
	c.logger.Debug("Remote call completed", "endpoint", endpoint, "duration", dur)
}
