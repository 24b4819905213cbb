package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rustyeddy/daytrader/id"
	"github.com/rustyeddy/daytrader/market"
)

// Order statuses in the orders table.
const (
	OrderSubmitted = "submitted"
	OrderFilled    = "filled"
	OrderCancelled = "cancelled"
)

// SubmitOrder records a submission in the orders table and returns its id.
// This is the venue side of the DB-only execution backend.
func (s *Store) SubmitOrder(ctx context.Context, o *market.Order) (string, error) {
	oid := id.New()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO orders (id, instrument, side, quantity, price, status, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		oid, o.Code, string(o.Side), o.Quantity, o.Price, OrderSubmitted,
		time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("submit order: %w", err)
	}
	return oid, nil
}

// FillOrder promotes a submitted order to filled and reports whether the
// order is filled afterwards. Without a venue every submitted order fills
// on its first poll.
func (s *Store) FillOrder(ctx context.Context, oid string) (bool, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE id = ? AND status = ?`,
		OrderFilled, oid, OrderSubmitted,
	)
	if err != nil {
		return false, fmt.Errorf("fill order %s: %w", oid, err)
	}

	status, err := s.orderStatus(ctx, oid)
	if err != nil {
		return false, err
	}
	return status == OrderFilled, nil
}

// CancelOrder marks a submitted order cancelled. Cancelling an order that is
// already filled or cancelled is a no-op, not an error.
func (s *Store) CancelOrder(ctx context.Context, oid string) error {
	if _, err := s.orderStatus(ctx, oid); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE id = ? AND status = ?`,
		OrderCancelled, oid, OrderSubmitted,
	)
	if err != nil {
		return fmt.Errorf("cancel order %s: %w", oid, err)
	}
	return nil
}

func (s *Store) orderStatus(ctx context.Context, oid string) (string, error) {
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT status FROM orders WHERE id = ?`, oid,
	).Scan(&status)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("order %q not found", oid)
		}
		return "", err
	}
	return status, nil
}
