package engine

import (
	"time"

	"github.com/rustyeddy/daytrader/market"
	"github.com/rustyeddy/daytrader/session"
)

// Planner is the strategy boundary: asked on open and update signals
// whether an order should be placed now. Decision logic lives outside this
// module.
type Planner interface {
	Next(sig session.Signal, now time.Time) (*market.Order, bool)
}

// NoopPlanner never places an order.
type NoopPlanner struct{}

func (NoopPlanner) Next(sig session.Signal, now time.Time) (*market.Order, bool) {
	return nil, false
}
