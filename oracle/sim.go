package oracle

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/daytrader/market"
)

// Sim is an in-memory oracle for paper runs and tests: a fixed set of
// positions and a settable asset value.
type Sim struct {
	positions map[string]float64 // code -> avg purchase price
	value     float64
	now       func() time.Time
}

// NewSim returns a simulated oracle with the given starting asset value.
func NewSim(value float64) *Sim {
	return &Sim{
		positions: make(map[string]float64),
		value:     value,
		now:       time.Now,
	}
}

// SetPosition records an average purchase price for code.
func (s *Sim) SetPosition(code string, avgPrice float64) {
	s.positions[code] = avgPrice
}

// SetAssetValue moves the simulated total asset value.
func (s *Sim) SetAssetValue(v float64) { s.value = v }

// SetNow overrides the snapshot clock, for deterministic tests.
func (s *Sim) SetNow(now func() time.Time) { s.now = now }

func (s *Sim) AvgPurchasePrice(ctx context.Context, code string) (float64, error) {
	avg, ok := s.positions[code]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	return avg, nil
}

func (s *Sim) AssetSnapshot(ctx context.Context) (market.AssetSnapshot, error) {
	return market.AssetSnapshot{Time: s.now(), Value: s.value}, nil
}
