package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rustyeddy/daytrader/market"
)

// OverviewRow is one day's portfolio summary. Close and the aggregate
// columns are null until FinishOverview runs for that date.
type OverviewRow struct {
	Date     string
	Open     float64
	High     float64
	Low      float64
	Close    sql.NullFloat64
	Volume   sql.NullInt64
	Turnover sql.NullFloat64
	Profit   sql.NullFloat64
	ROI      sql.NullFloat64
	Fee      sql.NullFloat64
}

// Overview returns the overview row for one date.
func (s *Store) Overview(ctx context.Context, date string) (OverviewRow, error) {
	var row OverviewRow
	err := s.db.QueryRowContext(ctx, `
		SELECT date, open, high, low, close, volume, turnover, profit, roi, fee
		FROM overview WHERE date = ?`, date,
	).Scan(
		&row.Date, &row.Open, &row.High, &row.Low, &row.Close,
		&row.Volume, &row.Turnover, &row.Profit, &row.ROI, &row.Fee,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return OverviewRow{}, fmt.Errorf("no overview for %s", date)
		}
		return OverviewRow{}, err
	}
	return row, nil
}

// ListOverviews returns overview rows with date in [from, to], ascending.
func (s *Store) ListOverviews(ctx context.Context, from, to string) ([]OverviewRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, open, high, low, close, volume, turnover, profit, roi, fee
		FROM overview
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OverviewRow
	for rows.Next() {
		var row OverviewRow
		if err := rows.Scan(
			&row.Date, &row.Open, &row.High, &row.Low, &row.Close,
			&row.Volume, &row.Turnover, &row.Profit, &row.ROI, &row.Fee,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// TradesOn returns the trades executed on one date, in insertion order.
func (s *Store) TradesOn(ctx context.Context, date string) ([]market.Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, time, instrument, side, quantity, price, fee, strategy, avg_price, profit, roi
		FROM trading
		WHERE date = ?
		ORDER BY id ASC`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []market.Trade
	for rows.Next() {
		var (
			tr         market.Trade
			dstr, tstr string
			side       string
		)
		if err := rows.Scan(
			&dstr, &tstr, &tr.Code, &side, &tr.Quantity, &tr.Price,
			&tr.Fee, &tr.Strategy, &tr.AvgPrice, &tr.Profit, &tr.ROI,
		); err != nil {
			return nil, err
		}
		tr.Side = market.Side(side)
		tr.Date, err = time.ParseInLocation(DateFormat+" "+TimeFormat, dstr+" "+tstr, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse trade timestamp %s %s: %w", dstr, tstr, err)
		}
		out = append(out, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
