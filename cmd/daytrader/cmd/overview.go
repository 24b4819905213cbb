package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/daytrader/ledger"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show daily portfolio overview rows",
	Long: `Print the daily open/high/low/close asset values with profit, ROI,
fee and turnover for a date range, plus the trades of each day.

Example:
  daytrader overview --db ./daytrader.db --from 2025-07-14 --to 2025-07-18`,
	RunE: runOverview,
}

var (
	overviewDBPath string
	overviewFrom   string
	overviewTo     string
	overviewTrades bool
)

func init() {
	rootCmd.AddCommand(overviewCmd)

	today := time.Now().Format(ledger.DateFormat)
	overviewCmd.Flags().StringVar(&overviewDBPath, "db", "./daytrader.db", "path to the trading database")
	overviewCmd.Flags().StringVar(&overviewFrom, "from", today, "start date (YYYY-MM-DD)")
	overviewCmd.Flags().StringVar(&overviewTo, "to", today, "end date (YYYY-MM-DD)")
	overviewCmd.Flags().BoolVar(&overviewTrades, "trades", false, "also list each day's trades")
}

func runOverview(cmd *cobra.Command, args []string) error {
	// Read-only: the price source is never consulted.
	store, err := ledger.Open(overviewDBPath, nil)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	rows, err := store.ListOverviews(ctx, overviewFrom, overviewTo)
	if err != nil {
		return fmt.Errorf("list overviews: %w", err)
	}
	if len(rows) == 0 {
		fmt.Printf("No overview rows between %s and %s\n", overviewFrom, overviewTo)
		return nil
	}

	fmt.Printf("%-12s %12s %12s %12s %12s %10s %12s %8s %10s\n",
		"DATE", "OPEN", "HIGH", "LOW", "CLOSE", "PROFIT", "TURNOVER", "ROI%", "FEE")
	for _, row := range rows {
		close, profit, roi := "-", "-", "-"
		turnover, fee := "-", "-"
		if row.Close.Valid {
			close = fmt.Sprintf("%.2f", row.Close.Float64)
			profit = fmt.Sprintf("%.2f", row.Profit.Float64)
			roi = fmt.Sprintf("%.2f", row.ROI.Float64)
			turnover = fmt.Sprintf("%.2f", row.Turnover.Float64)
			fee = fmt.Sprintf("%.2f", row.Fee.Float64)
		}
		fmt.Printf("%-12s %12.2f %12.2f %12.2f %12s %10s %12s %8s %10s\n",
			row.Date, row.Open, row.High, row.Low, close, profit, turnover, roi, fee)

		if overviewTrades {
			trades, err := store.TradesOn(ctx, row.Date)
			if err != nil {
				return fmt.Errorf("list trades for %s: %w", row.Date, err)
			}
			for _, tr := range trades {
				fmt.Printf("    %s %-4s %-7s qty %-6d @ %-10.2f avg %-10.2f profit %10.2f roi %6.2f%%\n",
					tr.Date.Format("15:04:05"), tr.Side, tr.Code,
					tr.Quantity, tr.Price, tr.AvgPrice, tr.Profit, tr.ROI)
			}
		}
	}
	return nil
}
