package broker

import (
	"context"

	"github.com/rustyeddy/daytrader/ledger"
	"github.com/rustyeddy/daytrader/market"
)

// LedgerBackend executes against the trading database itself: submissions
// land in the orders table and fill on first poll. No remote venue is
// involved.
type LedgerBackend struct {
	store *ledger.Store
}

// NewLedgerBackend returns a backend over the ledger store.
func NewLedgerBackend(store *ledger.Store) *LedgerBackend {
	return &LedgerBackend{store: store}
}

func (b *LedgerBackend) Validate(o *market.Order) error {
	return o.Validate()
}

func (b *LedgerBackend) Submit(ctx context.Context, o *market.Order) (string, error) {
	return b.store.SubmitOrder(ctx, o)
}

func (b *LedgerBackend) PollFilled(ctx context.Context, orderID string) (bool, error) {
	return b.store.FillOrder(ctx, orderID)
}

func (b *LedgerBackend) Cancel(ctx context.Context, orderID string) error {
	return b.store.CancelOrder(ctx, orderID)
}
