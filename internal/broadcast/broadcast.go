// Package broadcast fans one announcement out to every known subscriber.
package broadcast

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"sanad/internal/platform/metrics"
	"sanad/internal/store"
	"sanad/internal/transport"
)

const defaultConcurrency = 8

// Dispatcher sends announcements. One failed recipient never aborts the
// batch; the caller only sees aggregate counts.
type Dispatcher struct {
	subscribers store.SubscriberStore
	sender      transport.Sender
	logger      *slog.Logger
	metrics     *metrics.Metrics
	concurrency int
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithConcurrency bounds how many sends run at once.
func WithConcurrency(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// WithMetrics records per-outcome send counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

func New(subscribers store.SubscriberStore, sender transport.Sender, logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		subscribers: subscribers,
		sender:      sender,
		logger:      logger,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Broadcast sends text to every subscriber and reports how many sends
// succeeded and failed. Send failures are isolated per recipient and logged;
// only listing the subscribers can fail the call itself.
func (d *Dispatcher) Broadcast(ctx context.Context, text string) (sent, failed int, err error) {
	subs, err := d.subscribers.List(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list subscribers: %w", err)
	}

	var sentCount, failedCount atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for _, sub := range subs {
		g.Go(func() error {
			if err := d.sender.SendText(ctx, sub.ChatID, text, nil); err != nil {
				failedCount.Add(1)
				if d.metrics != nil {
					d.metrics.IncrementBroadcast("failed")
				}
				d.logger.WarnContext(ctx, "broadcast send failed",
					"chat_id", sub.ChatID,
					"error", err,
				)
				return nil
			}
			sentCount.Add(1)
			if d.metrics != nil {
				d.metrics.IncrementBroadcast("sent")
			}
			return nil
		})
	}
	// Workers swallow their own errors, so Wait only observes ctx cancellation.
	_ = g.Wait()

	return int(sentCount.Load()), int(failedCount.Load()), nil
}
