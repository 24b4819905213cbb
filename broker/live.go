package broker

import (
	"context"
	"fmt"

	"github.com/rustyeddy/daytrader/broker/kis"
	"github.com/rustyeddy/daytrader/market"
)

// Live executes against the KIS open API (real or mock endpoint, per the
// client's configuration).
type Live struct {
	client *kis.Client
}

// NewLive returns a backend over the given API client.
func NewLive(client *kis.Client) *Live {
	return &Live{client: client}
}

// Validate applies the shared structural check plus the venue's instrument
// code format: domestic equities are six digits.
func (l *Live) Validate(o *market.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if len(o.Code) != 6 {
		return fmt.Errorf("broker: instrument code %q must be 6 digits", o.Code)
	}
	for _, r := range o.Code {
		if r < '0' || r > '9' {
			return fmt.Errorf("broker: instrument code %q must be 6 digits", o.Code)
		}
	}
	return nil
}

func (l *Live) Submit(ctx context.Context, o *market.Order) (string, error) {
	return l.client.SubmitOrder(ctx, o)
}

func (l *Live) PollFilled(ctx context.Context, orderID string) (bool, error) {
	return l.client.OrderFilled(ctx, orderID)
}

func (l *Live) Cancel(ctx context.Context, orderID string) error {
	return l.client.CancelOrder(ctx, orderID)
}
