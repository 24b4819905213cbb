package ledger

import (
	"context"
	"fmt"
)

// InsertOverview opens today's overview row: open, high and low all start at
// the current asset value. One row per date; a duplicate insert violates the
// primary key and the error propagates.
func (s *Store) InsertOverview(ctx context.Context) error {
	snap, err := s.prices.AssetSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("asset snapshot: %w", err)
	}

	date := snap.Time.Format(DateFormat)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO overview (date, open, high, low) VALUES (?, ?, ?, ?)`,
		date, snap.Value, snap.Value, snap.Value,
	)
	if err != nil {
		return fmt.Errorf("insert overview %s: %w", date, err)
	}
	return nil
}

// UpdateOverview ratchets today's high/low against the current asset value.
func (s *Store) UpdateOverview(ctx context.Context) error {
	snap, err := s.prices.AssetSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("asset snapshot: %w", err)
	}
	date := snap.Time.Format(DateFormat)

	var high, low float64
	err = s.db.QueryRowContext(ctx,
		`SELECT high, low FROM overview WHERE date = ?`, date,
	).Scan(&high, &low)
	if err != nil {
		return fmt.Errorf("read overview %s: %w", date, err)
	}

	if snap.Value > high {
		high = snap.Value
	}
	if snap.Value < low {
		low = snap.Value
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE overview SET high = ?, low = ? WHERE date = ?`,
		high, low, date,
	)
	if err != nil {
		return fmt.Errorf("update overview %s: %w", date, err)
	}
	return nil
}

// FinishOverview finalizes today's row at market close: close, daily
// profit/ROI, and fee/volume/turnover summed from the day's trades.
// Everything is recomputed from source rows, so re-running after a partial
// write produces the same result.
func (s *Store) FinishOverview(ctx context.Context) error {
	snap, err := s.prices.AssetSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("asset snapshot: %w", err)
	}
	date := snap.Time.Format(DateFormat)

	var open float64
	err = s.db.QueryRowContext(ctx,
		`SELECT open FROM overview WHERE date = ?`, date,
	).Scan(&open)
	if err != nil {
		return fmt.Errorf("read overview %s: %w", date, err)
	}

	close := snap.Value
	profit := close - open
	roi := profit / open * 100

	var fee, turnover float64
	var volume int64
	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(fee), 0),
		       COALESCE(SUM(price * quantity), 0),
		       COALESCE(SUM(quantity), 0)
		FROM trading WHERE date = ?`, date,
	).Scan(&fee, &turnover, &volume)
	if err != nil {
		return fmt.Errorf("sum trades %s: %w", date, err)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE overview
		SET close = ?, profit = ?, roi = ?, fee = ?, turnover = ?, volume = ?
		WHERE date = ?`,
		close, profit, roi, fee, turnover, volume, date,
	)
	if err != nil {
		return fmt.Errorf("finish overview %s: %w", date, err)
	}
	return nil
}
