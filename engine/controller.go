// Package engine orchestrates the trading session: the order lifecycle
// controller and the clock-driven loop that paces it.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rustyeddy/daytrader/broker"
	"github.com/rustyeddy/daytrader/ledger"
	"github.com/rustyeddy/daytrader/market"
)

// Controller drives a single order from submission to cancellation:
// validate, submit, one fill check, record on fill, then a fixed grace
// wait before the remainder is cancelled. One order is in flight at a
// time; there is no retry and no mid-wait cancellation.
type Controller struct {
	backend broker.Backend
	store   *ledger.Store
	grace   time.Duration

	sleep func(time.Duration)
}

// NewController returns a controller with the given grace window.
func NewController(backend broker.Backend, store *ledger.Store, grace time.Duration) *Controller {
	return &Controller{
		backend: backend,
		store:   store,
		grace:   grace,
		sleep:   time.Sleep,
	}
}

// Execute runs one order lifecycle. A validation or submission failure is
// terminal with no side effects; after a successful submit the order is
// always cancelled once the grace window passes, whether or not the single
// fill check found a fill.
func (c *Controller) Execute(ctx context.Context, o *market.Order) error {
	if err := c.backend.Validate(o); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	oid, err := c.backend.Submit(ctx, o)
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	slog.Info("order submitted",
		"order_id", oid, "code", o.Code, "side", o.Side,
		"quantity", o.Quantity, "price", o.Price)

	filled, err := c.backend.PollFilled(ctx, oid)
	if err != nil {
		return fmt.Errorf("poll fill %s: %w", oid, err)
	}

	if filled {
		tr, err := c.store.SaveTrade(ctx, o)
		if err != nil {
			return fmt.Errorf("record trade %s: %w", oid, err)
		}
		slog.Info("trade recorded",
			"order_id", oid, "code", tr.Code, "profit", tr.Profit, "roi", tr.ROI)
	} else {
		slog.Info("order not yet filled", "order_id", oid)
	}

	// Give the remainder a chance to fill before cleanup.
	c.sleep(c.grace)

	if err := c.backend.Cancel(ctx, oid); err != nil {
		return fmt.Errorf("cancel %s: %w", oid, err)
	}
	slog.Info("order remainder cancelled", "order_id", oid)
	return nil
}
