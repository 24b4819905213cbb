package oracle

import (
	"context"
	"fmt"

	"github.com/rustyeddy/daytrader/broker/kis"
	"github.com/rustyeddy/daytrader/market"
)

// Live resolves prices from the brokerage balance inquiry.
type Live struct {
	client *kis.Client
}

// NewLive returns an oracle backed by the KIS balance API.
func NewLive(client *kis.Client) *Live {
	return &Live{client: client}
}

func (l *Live) AvgPurchasePrice(ctx context.Context, code string) (float64, error) {
	bal, err := l.client.GetBalance(ctx)
	if err != nil {
		return 0, err
	}
	for _, pos := range bal.Positions {
		if pos.Code == code {
			return pos.AvgPrice, nil
		}
	}
	return 0, fmt.Errorf("%w: %s not in holdings", ErrNotFound, code)
}

func (l *Live) AssetSnapshot(ctx context.Context) (market.AssetSnapshot, error) {
	bal, err := l.client.GetBalance(ctx)
	if err != nil {
		return market.AssetSnapshot{}, err
	}
	return market.AssetSnapshot{Time: bal.Time, Value: bal.NetAsset}, nil
}
