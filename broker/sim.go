package broker

import (
	"context"
	"fmt"
	"sync"

	"github.com/rustyeddy/daytrader/id"
	"github.com/rustyeddy/daytrader/market"
)

type simStatus int

const (
	simSubmitted simStatus = iota
	simFilled
	simCancelled
)

// Sim is an in-memory venue. By default every submitted order fills on its
// first poll; set FillOrders to false to exercise the unfilled path.
type Sim struct {
	mu         sync.Mutex
	orders     map[string]simStatus
	FillOrders bool
}

// NewSim returns a simulated venue that fills everything.
func NewSim() *Sim {
	return &Sim{
		orders:     make(map[string]simStatus),
		FillOrders: true,
	}
}

// Validate applies the shared structural check; the simulated venue accepts
// any instrument code.
func (s *Sim) Validate(o *market.Order) error {
	return o.Validate()
}

func (s *Sim) Submit(ctx context.Context, o *market.Order) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	oid := id.New()
	s.orders[oid] = simSubmitted
	return oid, nil
}

func (s *Sim) PollFilled(ctx context.Context, orderID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status, ok := s.orders[orderID]
	if !ok {
		return false, fmt.Errorf("broker: order %q not found", orderID)
	}
	if status == simSubmitted && s.FillOrders {
		s.orders[orderID] = simFilled
		return true, nil
	}
	return status == simFilled, nil
}

// Cancel marks a submitted order cancelled. Filled and already-cancelled
// orders cancel as a no-op.
func (s *Sim) Cancel(ctx context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	status, ok := s.orders[orderID]
	if !ok {
		return fmt.Errorf("broker: order %q not found", orderID)
	}
	if status == simSubmitted {
		s.orders[orderID] = simCancelled
	}
	return nil
}

// Status reports an order's state, for tests and inspection.
func (s *Sim) Status(orderID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status, ok := s.orders[orderID]
	if !ok {
		return "", false
	}
	switch status {
	case simFilled:
		return "filled", true
	case simCancelled:
		return "cancelled", true
	}
	return "submitted", true
}
