// Package amqp publishes cart outcomes to RabbitMQ. Every result (success or
// failure) becomes one JSON event on the configured queue so downstream
// consumers (analytics, stock reservation) can follow the cart.
package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/hupe1980/shopcart/core"
	"github.com/hupe1980/shopcart/logging"
)

// DefaultQueue is the queue declared by Dial when none is given.
const DefaultQueue = "cart-events"

// Publisher is the subset of *amqp091.Channel used by the notifier.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// Event is the message body published for one cart result.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Op        string    `json:"op"`
	ProductID int       `json:"product_id"`
	Outcome   string    `json:"outcome"`
	Changed   bool      `json:"changed"`
	Error     string    `json:"error,omitempty"`
	Cart      core.Cart `json:"cart"`
}

// NewEvent converts a result into its wire event.
func NewEvent(res core.Result, now time.Time) Event {
	ev := Event{
		ID:        uuid.NewString(),
		Timestamp: now.UTC(),
		Op:        res.Op.String(),
		ProductID: res.ProductID,
		Outcome:   res.Outcome.String(),
		Changed:   res.Changed,
		Cart:      res.Cart,
	}
	if res.Err != nil {
		ev.Error = res.Err.Error()
	}
	if ev.Cart == nil {
		ev.Cart = core.Cart{}
	}
	return ev
}

// Options configures a Notifier.
type Options struct {
	// Exchange to publish to; "" is the default exchange.
	Exchange string
	// RoutingKey is the queue name when publishing to the default exchange.
	RoutingKey string
	// Timeout bounds each publish. Zero disables the extra bound.
	Timeout time.Duration
	// Logger records publish failures.
	Logger logging.Logger
	// Now returns the event timestamp. Defaults to time.Now.
	Now func() time.Time
}

// Notifier implements core.Notifier over an AMQP channel. Publish errors are
// logged and never reach the cart caller.
type Notifier struct {
	pub  Publisher
	opts Options
}

// New wraps a publisher (usually an *amqp091.Channel).
func New(pub Publisher, optFns ...func(o *Options)) *Notifier {
	opts := Options{RoutingKey: DefaultQueue, Timeout: 5 * time.Second, Now: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.Or(opts.Logger)
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Notifier{pub: pub, opts: opts}
}

// Notify publishes res as an Event.
func (n *Notifier) Notify(ctx context.Context, res core.Result) {
	ev := NewEvent(res, n.opts.Now())
	body, err := json.Marshal(ev)
	if err != nil {
		n.opts.Logger.Error("failed to marshal cart event", "error", err)
		return
	}

	if n.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.opts.Timeout)
		defer cancel()
	}

	msg := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    ev.ID,
		Timestamp:    ev.Timestamp,
		Type:         "cart." + ev.Op,
		Body:         body,
	}
	if err := n.pub.PublishWithContext(ctx, n.opts.Exchange, n.opts.RoutingKey, false, false, msg); err != nil {
		n.opts.Logger.Error("failed to publish cart event", "event_id", ev.ID, "operation", ev.Op, "error", err)
		return
	}
	n.opts.Logger.Debug("published cart event", "event_id", ev.ID, "operation", ev.Op, "outcome", ev.Outcome)
}

// Connection owns the broker connection and channel behind a Notifier.
type Connection struct {
	conn closer
	ch   closer
}

type closer interface {
	Close() error
}

// Close closes the channel and the connection.
func (c *Connection) Close() error {
	var errs []error
	if c.ch != nil {
		if err := c.ch.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close amqp channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close amqp connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Dial connects to uri, declares a durable queue and returns a Notifier
// publishing to it together with the connection to close on shutdown.
func Dial(uri, queue string, optFns ...func(o *Options)) (*Notifier, *Connection, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, nil, fmt.Errorf("amqp uri is required")
	}
	if queue == "" {
		queue = DefaultQueue
	}
	conn, err := amqp091.Dial(uri)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	q, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare %s queue: %w", queue, err)
	}

	fns := append([]func(o *Options){func(o *Options) { o.RoutingKey = q.Name }}, optFns...)
	return New(ch, fns...), &Connection{conn: conn, ch: ch}, nil
}
