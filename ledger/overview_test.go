package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/daytrader/market"
)

func TestInsertOverviewSeedsOHL(t *testing.T) {
	t.Parallel()

	prices := &fakePrices{value: 100, at: sessionTime(9, 0)}
	s, _ := newTestStore(t, prices)
	ctx := context.Background()

	assert.NoError(t, s.InsertOverview(ctx))

	row, err := s.Overview(ctx, "2025-07-16")
	assert.NoError(t, err)
	assert.InDelta(t, 100, row.Open, tol)
	assert.InDelta(t, 100, row.High, tol)
	assert.InDelta(t, 100, row.Low, tol)
	assert.False(t, row.Close.Valid)
}

func TestInsertOverviewTwiceViolatesConstraint(t *testing.T) {
	t.Parallel()

	prices := &fakePrices{value: 100, at: sessionTime(9, 0)}
	s, _ := newTestStore(t, prices)
	ctx := context.Background()

	assert.NoError(t, s.InsertOverview(ctx))
	assert.Error(t, s.InsertOverview(ctx))
}

func TestUpdateOverviewRatchet(t *testing.T) {
	t.Parallel()

	prices := &fakePrices{value: 100, at: sessionTime(9, 0)}
	s, _ := newTestStore(t, prices)
	ctx := context.Background()

	assert.NoError(t, s.InsertOverview(ctx))

	for _, v := range []float64{95, 110, 105} {
		prices.value = v
		assert.NoError(t, s.UpdateOverview(ctx))
	}

	row, err := s.Overview(ctx, "2025-07-16")
	assert.NoError(t, err)
	assert.InDelta(t, 110, row.High, tol)
	assert.InDelta(t, 95, row.Low, tol)
	assert.InDelta(t, 100, row.Open, tol)
}

func TestUpdateOverviewWithoutInsertFails(t *testing.T) {
	t.Parallel()

	prices := &fakePrices{value: 100, at: sessionTime(10, 0)}
	s, _ := newTestStore(t, prices)

	assert.Error(t, s.UpdateOverview(context.Background()))
}

func TestFinishOverviewAggregates(t *testing.T) {
	t.Parallel()

	prices := &fakePrices{
		avg:   map[string]float64{"005930": 100},
		value: 1000,
		at:    sessionTime(9, 0),
	}
	s, _ := newTestStore(t, prices)
	ctx := context.Background()

	assert.NoError(t, s.InsertOverview(ctx))

	// One buy, one sell during the day.
	buy := &market.Order{Date: sessionTime(10, 0), Code: "005930", Side: market.Buy, Quantity: 10, Price: 100, Fee: 1.5, Strategy: "s"}
	sell := &market.Order{Date: sessionTime(14, 0), Code: "005930", Side: market.Sell, Quantity: 10, Price: 110, Fee: 2, Strategy: "s"}
	_, err := s.SaveTrade(ctx, buy)
	assert.NoError(t, err)
	_, err = s.SaveTrade(ctx, sell)
	assert.NoError(t, err)

	prices.value = 1100
	prices.at = sessionTime(15, 30)
	assert.NoError(t, s.FinishOverview(ctx))

	row, err := s.Overview(ctx, "2025-07-16")
	assert.NoError(t, err)
	assert.True(t, row.Close.Valid)
	assert.InDelta(t, 1100, row.Close.Float64, tol)
	assert.InDelta(t, 100, row.Profit.Float64, tol)    // 1100 - 1000
	assert.InDelta(t, 10, row.ROI.Float64, tol)        // 100/1000*100
	assert.InDelta(t, 3.5, row.Fee.Float64, tol)       // 1.5 + 2
	assert.InDelta(t, 2100, row.Turnover.Float64, tol) // 10*100 + 10*110
	assert.Equal(t, int64(20), row.Volume.Int64)

	// Finalize invariant.
	assert.GreaterOrEqual(t, row.High, row.Open)
	assert.LessOrEqual(t, row.Low, row.Open)
}

func TestFinishOverviewIsIdempotent(t *testing.T) {
	t.Parallel()

	prices := &fakePrices{
		avg:   map[string]float64{"005930": 100},
		value: 1000,
		at:    sessionTime(9, 0),
	}
	s, _ := newTestStore(t, prices)
	ctx := context.Background()

	assert.NoError(t, s.InsertOverview(ctx))
	sell := &market.Order{Date: sessionTime(13, 0), Code: "005930", Side: market.Sell, Quantity: 5, Price: 120, Fee: 1, Strategy: "s"}
	_, err := s.SaveTrade(ctx, sell)
	assert.NoError(t, err)

	prices.value = 1050
	prices.at = sessionTime(15, 30)

	assert.NoError(t, s.FinishOverview(ctx))
	first, err := s.Overview(ctx, "2025-07-16")
	assert.NoError(t, err)

	// Re-run, as a crash-recovery would.
	assert.NoError(t, s.FinishOverview(ctx))
	second, err := s.Overview(ctx, "2025-07-16")
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestListOverviews(t *testing.T) {
	t.Parallel()

	prices := &fakePrices{value: 500, at: sessionTime(9, 0)}
	s, _ := newTestStore(t, prices)
	ctx := context.Background()

	assert.NoError(t, s.InsertOverview(ctx))

	prices.at = prices.at.AddDate(0, 0, 1)
	prices.value = 510
	assert.NoError(t, s.InsertOverview(ctx))

	rows, err := s.ListOverviews(ctx, "2025-07-16", "2025-07-17")
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "2025-07-16", rows[0].Date)
	assert.Equal(t, "2025-07-17", rows[1].Date)

	rows, err = s.ListOverviews(ctx, "2025-07-17", "2025-07-17")
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestAssetSnapshotErrorPropagates(t *testing.T) {
	t.Parallel()

	prices := &fakePrices{err: assert.AnError, at: time.Now()}
	s, _ := newTestStore(t, prices)

	assert.Error(t, s.InsertOverview(context.Background()))
	assert.Error(t, s.UpdateOverview(context.Background()))
	assert.Error(t, s.FinishOverview(context.Background()))
}
