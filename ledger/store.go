// Package ledger persists executed trades and daily overview rows in a
// SQLite database, and applies the profit/ROI transform when a fill is
// recorded.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/daytrader/market"
)

// ErrZeroAvgPrice is returned by SaveTrade when the resolved average
// purchase price is zero; profit/ROI are undefined in that case and no
// trade row is written.
var ErrZeroAvgPrice = errors.New("ledger: average purchase price is zero")

// DateFormat and TimeFormat are the column layouts for trade rows and
// overview keys.
const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04:05"
)

// PriceSource answers the two price questions the store needs: the average
// purchase price of an instrument and the current total asset value. Any
// price oracle satisfies it.
type PriceSource interface {
	AvgPurchasePrice(ctx context.Context, code string) (float64, error)
	AssetSnapshot(ctx context.Context) (market.AssetSnapshot, error)
}

// Store owns all persisted rows. No other component writes to the database
// directly; the single controller thread keeps statements short and
// non-overlapping.
type Store struct {
	db     *sql.DB
	prices PriceSource
}

// Open opens (creating if needed) the trading database at path and binds
// the price source used for trade and overview valuation.
func Open(path string, prices PriceSource) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, prices: prices}, nil
}

// SaveTrade resolves the order's realized average purchase price, derives
// profit and ROI, and persists one trade row.
func (s *Store) SaveTrade(ctx context.Context, o *market.Order) (market.Trade, error) {
	avg, err := s.prices.AvgPurchasePrice(ctx, o.Code)
	if err != nil {
		return market.Trade{}, fmt.Errorf("resolve avg price for %s: %w", o.Code, err)
	}
	if avg == 0 {
		return market.Trade{}, fmt.Errorf("%w: %s", ErrZeroAvgPrice, o.Code)
	}

	tr := o.ToTrade(avg)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO trading
		(date, time, instrument, side, quantity, price, fee, strategy, avg_price, profit, roi)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tr.Date.Format(DateFormat), tr.Date.Format(TimeFormat),
		tr.Code, string(tr.Side), tr.Quantity, tr.Price, tr.Fee,
		tr.Strategy, tr.AvgPrice, tr.Profit, tr.ROI,
	)
	if err != nil {
		return market.Trade{}, fmt.Errorf("insert trade: %w", err)
	}
	return tr, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
