package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/daytrader/market"
)

func TestOrderLifecycleInDB(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t, &fakePrices{})
	ctx := context.Background()

	o := &market.Order{Code: "005930", Side: market.Buy, Quantity: 10, Price: 70000}
	oid, err := s.SubmitOrder(ctx, o)
	assert.NoError(t, err)
	assert.NotEmpty(t, oid)

	status, err := s.orderStatus(ctx, oid)
	assert.NoError(t, err)
	assert.Equal(t, OrderSubmitted, status)

	filled, err := s.FillOrder(ctx, oid)
	assert.NoError(t, err)
	assert.True(t, filled)

	// Cancel after fill is a no-op, not an error.
	assert.NoError(t, s.CancelOrder(ctx, oid))
	status, err = s.orderStatus(ctx, oid)
	assert.NoError(t, err)
	assert.Equal(t, OrderFilled, status)
}

func TestCancelSubmittedOrder(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t, &fakePrices{})
	ctx := context.Background()

	o := &market.Order{Code: "000660", Side: market.Sell, Quantity: 3, Price: 120000}
	oid, err := s.SubmitOrder(ctx, o)
	assert.NoError(t, err)

	assert.NoError(t, s.CancelOrder(ctx, oid))
	status, err := s.orderStatus(ctx, oid)
	assert.NoError(t, err)
	assert.Equal(t, OrderCancelled, status)

	// Cancelling again still succeeds.
	assert.NoError(t, s.CancelOrder(ctx, oid))
}

func TestCancelUnknownOrderFails(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t, &fakePrices{})
	assert.Error(t, s.CancelOrder(context.Background(), "no-such-order"))
}

func TestOrderIDsAreSortable(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t, &fakePrices{})
	ctx := context.Background()

	o := &market.Order{Code: "005930", Side: market.Buy, Quantity: 1, Price: 100}
	first, err := s.SubmitOrder(ctx, o)
	assert.NoError(t, err)
	second, err := s.SubmitOrder(ctx, o)
	assert.NoError(t, err)

	assert.Less(t, first, second)
}
