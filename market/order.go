// Package market holds the value types passed between the session engine,
// the execution backends and the ledger: orders, realized trades and asset
// snapshots.
package market

import (
	"fmt"
	"time"
)

// Side is the direction of an order.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// ParseSide converts a config/CLI string into a Side.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case Buy, Sell:
		return Side(s), nil
	}
	return "", fmt.Errorf("unknown order side %q", s)
}

// Order is a request to trade one instrument. It is created by the caller
// and treated as immutable once handed to a backend.
type Order struct {
	Date     time.Time // submission timestamp
	Code     string    // security identifier, e.g. "005930"
	Side     Side
	Quantity int
	Price    float64
	Fee      float64
	Strategy string // free-form label of the originating strategy
}

// Validate is the shared structural check applied before submission.
// Venue-specific rules belong to the individual backends.
func (o *Order) Validate() error {
	if o.Code == "" {
		return fmt.Errorf("order: instrument code is required")
	}
	if o.Side != Buy && o.Side != Sell {
		return fmt.Errorf("order: invalid side %q", o.Side)
	}
	if o.Quantity <= 0 {
		return fmt.Errorf("order: quantity must be positive, got %d", o.Quantity)
	}
	if o.Price <= 0 {
		return fmt.Errorf("order: price must be positive, got %g", o.Price)
	}
	if o.Fee < 0 {
		return fmt.Errorf("order: fee must not be negative, got %g", o.Fee)
	}
	return nil
}

// Trade is the realized outcome of a filled order. Profit and ROI are
// derived at creation and never mutated afterwards.
type Trade struct {
	Date     time.Time
	Code     string
	Side     Side
	Quantity int
	Price    float64
	Fee      float64
	Strategy string
	AvgPrice float64 // average purchase price at fill time
	Profit   float64
	ROI      float64 // percent
}

// ToTrade realizes the order against the given average purchase price.
//
// A buy only loses its fee; a sell realizes (price - avgPrice) * quantity
// minus the fee. ROI relates profit to the capital committed at avgPrice.
func (o *Order) ToTrade(avgPrice float64) Trade {
	var profit float64
	switch o.Side {
	case Buy:
		profit = -o.Fee
	case Sell:
		profit = (o.Price-avgPrice)*float64(o.Quantity) - o.Fee
	}
	roi := profit / (avgPrice * float64(o.Quantity)) * 100

	return Trade{
		Date:     o.Date,
		Code:     o.Code,
		Side:     o.Side,
		Quantity: o.Quantity,
		Price:    o.Price,
		Fee:      o.Fee,
		Strategy: o.Strategy,
		AvgPrice: avgPrice,
		Profit:   profit,
		ROI:      roi,
	}
}

// AssetSnapshot is a point-in-time total asset valuation, the unit the
// price oracle returns for overview bookkeeping.
type AssetSnapshot struct {
	Time  time.Time
	Value float64
}
