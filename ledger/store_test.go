package ledger

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/daytrader/market"
)

const tol = 1e-9

// fakePrices is a scriptable PriceSource.
type fakePrices struct {
	avg   map[string]float64
	value float64
	at    time.Time
	err   error
}

func (f *fakePrices) AvgPurchasePrice(ctx context.Context, code string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	avg, ok := f.avg[code]
	if !ok {
		return 0, errors.New("instrument not held")
	}
	return avg, nil
}

func (f *fakePrices) AssetSnapshot(ctx context.Context) (market.AssetSnapshot, error) {
	if f.err != nil {
		return market.AssetSnapshot{}, f.err
	}
	return market.AssetSnapshot{Time: f.at, Value: f.value}, nil
}

func newTestStore(t *testing.T, prices PriceSource) (*Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, prices)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s, path
}

func sessionTime(hour, minute int) time.Time {
	return time.Date(2025, time.July, 16, hour, minute, 0, 0, time.Local)
}

func TestSchemaCreated(t *testing.T) {
	t.Parallel()

	s, path := newTestStore(t, &fakePrices{})
	assert.NoError(t, s.Close())

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trading','overview','orders')`)
	assert.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["trading"])
	assert.True(t, found["overview"])
	assert.True(t, found["orders"])
}

func TestSaveTradeBuy(t *testing.T) {
	t.Parallel()

	prices := &fakePrices{avg: map[string]float64{"005930": 65000}}
	s, _ := newTestStore(t, prices)

	o := &market.Order{
		Date: sessionTime(10, 15), Code: "005930", Side: market.Buy,
		Quantity: 10, Price: 70000, Fee: 1.5, Strategy: "manual",
	}
	tr, err := s.SaveTrade(context.Background(), o)
	assert.NoError(t, err)
	assert.InDelta(t, -1.5, tr.Profit, tol)

	trades, err := s.TradesOn(context.Background(), "2025-07-16")
	assert.NoError(t, err)
	assert.Len(t, trades, 1)
	assert.Equal(t, "005930", trades[0].Code)
	assert.Equal(t, market.Buy, trades[0].Side)
	assert.InDelta(t, 65000, trades[0].AvgPrice, tol)
	assert.InDelta(t, -1.5, trades[0].Profit, tol)
	assert.Equal(t, sessionTime(10, 15), trades[0].Date)
}

func TestSaveTradeSellProfitAndROI(t *testing.T) {
	t.Parallel()

	prices := &fakePrices{avg: map[string]float64{"005930": 100}}
	s, _ := newTestStore(t, prices)

	o := &market.Order{
		Date: sessionTime(11, 0), Code: "005930", Side: market.Sell,
		Quantity: 10, Price: 110, Fee: 2, Strategy: "tp",
	}
	tr, err := s.SaveTrade(context.Background(), o)
	assert.NoError(t, err)
	assert.InDelta(t, 98.0, tr.Profit, tol)
	assert.InDelta(t, 9.8, tr.ROI, tol)
}

func TestSaveTradeZeroAvgPrice(t *testing.T) {
	t.Parallel()

	prices := &fakePrices{avg: map[string]float64{"005930": 0}}
	s, _ := newTestStore(t, prices)

	o := &market.Order{Date: sessionTime(10, 0), Code: "005930", Side: market.Sell, Quantity: 1, Price: 100}
	_, err := s.SaveTrade(context.Background(), o)
	assert.ErrorIs(t, err, ErrZeroAvgPrice)

	trades, err := s.TradesOn(context.Background(), "2025-07-16")
	assert.NoError(t, err)
	assert.Empty(t, trades)
}

func TestSaveTradeOracleErrorPropagates(t *testing.T) {
	t.Parallel()

	prices := &fakePrices{avg: map[string]float64{}}
	s, _ := newTestStore(t, prices)

	o := &market.Order{Date: sessionTime(10, 0), Code: "999999", Side: market.Sell, Quantity: 1, Price: 100}
	_, err := s.SaveTrade(context.Background(), o)
	assert.Error(t, err)
}
