// Package broker defines the execution backend contract (submit, poll for
// fill, cancel) and its three variants: the live brokerage API, an
// in-memory simulated venue, and the local trading database.
package broker

import (
	"context"
	"fmt"

	"github.com/rustyeddy/daytrader/broker/kis"
	"github.com/rustyeddy/daytrader/config"
	"github.com/rustyeddy/daytrader/ledger"
	"github.com/rustyeddy/daytrader/market"
)

// Backend executes orders against a venue. All variants share the same
// contract. Cancel is idempotent from the caller's perspective: cancelling
// an already-filled or already-cancelled order is not a failure.
type Backend interface {
	Validate(o *market.Order) error
	Submit(ctx context.Context, o *market.Order) (string, error)
	PollFilled(ctx context.Context, orderID string) (bool, error)
	Cancel(ctx context.Context, orderID string) error
}

// New selects the backend variant for env. The kis client is required for
// real, the ledger store for db; paper needs neither.
func New(env config.Env, client *kis.Client, store *ledger.Store) (Backend, error) {
	switch env {
	case config.EnvReal:
		if client == nil {
			return nil, fmt.Errorf("broker: env %q needs a kis client", env)
		}
		return NewLive(client), nil
	case config.EnvPaper:
		return NewSim(), nil
	case config.EnvDB:
		if store == nil {
			return nil, fmt.Errorf("broker: env %q needs a ledger store", env)
		}
		return NewLedgerBackend(store), nil
	}
	return nil, fmt.Errorf("broker: unknown env %q", env)
}
