package oracle

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/daytrader/market"
)

// Ledger resolves prices from the trading database itself: the average
// purchase price is the quantity-weighted average of recorded buys, and the
// asset value is the latest overview valuation. It opens its own read
// connection, so it can be built before (or without) the ledger store.
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

// NewLedger opens an oracle over the trading database at path.
func NewLedger(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	return &Ledger{db: db, now: time.Now}, nil
}

// SetNow overrides the snapshot clock, for deterministic tests.
func (l *Ledger) SetNow(now func() time.Time) { l.now = now }

// Close closes the read connection.
func (l *Ledger) Close() error { return l.db.Close() }

func (l *Ledger) AvgPurchasePrice(ctx context.Context, code string) (float64, error) {
	var cost, qty sql.NullFloat64
	err := l.db.QueryRowContext(ctx, `
		SELECT SUM(price * quantity), SUM(quantity)
		FROM trading WHERE instrument = ? AND side = 'buy'`, code,
	).Scan(&cost, &qty)
	if err != nil {
		return 0, fmt.Errorf("avg price query for %s: %w", code, err)
	}
	if !qty.Valid || qty.Float64 == 0 {
		return 0, fmt.Errorf("%w: no recorded buys for %s", ErrNotFound, code)
	}
	return cost.Float64 / qty.Float64, nil
}

// AssetSnapshot reports the most recent known valuation: the latest
// overview row's close, or its open when the day was never finalized. The
// snapshot is stamped now; the value carries forward from the last session.
func (l *Ledger) AssetSnapshot(ctx context.Context) (market.AssetSnapshot, error) {
	var open float64
	var close sql.NullFloat64
	err := l.db.QueryRowContext(ctx, `
		SELECT open, close FROM overview ORDER BY date DESC LIMIT 1`,
	).Scan(&open, &close)
	if err != nil {
		if err == sql.ErrNoRows {
			return market.AssetSnapshot{}, fmt.Errorf("no overview rows to value assets from")
		}
		return market.AssetSnapshot{}, err
	}

	value := open
	if close.Valid {
		value = close.Float64
	}
	return market.AssetSnapshot{Time: l.now(), Value: value}, nil
}
