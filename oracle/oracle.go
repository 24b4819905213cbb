// Package oracle answers the two price questions the ledger needs: the
// average purchase price of a held instrument and the current total asset
// value. One implementing type exists per environment.
package oracle

import (
	"context"
	"errors"
	"fmt"

	"github.com/rustyeddy/daytrader/broker/kis"
	"github.com/rustyeddy/daytrader/config"
	"github.com/rustyeddy/daytrader/market"
)

// ErrNotFound is returned when an instrument cannot be resolved to an
// average purchase price. Callers must not substitute a default; a trade
// without a resolvable basis is not recordable.
var ErrNotFound = errors.New("oracle: instrument not found")

// Oracle resolves purchase prices and asset valuations.
type Oracle interface {
	AvgPurchasePrice(ctx context.Context, code string) (float64, error)
	AssetSnapshot(ctx context.Context) (market.AssetSnapshot, error)
}

// New selects the oracle variant for env: the brokerage balance inquiry for
// real, the in-memory simulation for paper, and the trading database for db.
func New(env config.Env, client *kis.Client, dbPath string) (Oracle, error) {
	switch env {
	case config.EnvReal:
		if client == nil {
			return nil, fmt.Errorf("oracle: env %q needs a kis client", env)
		}
		return NewLive(client), nil
	case config.EnvPaper:
		return NewSim(0), nil
	case config.EnvDB:
		return NewLedger(dbPath)
	}
	return nil, fmt.Errorf("oracle: unknown env %q", env)
}
