package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "daytrader",
	Short: "A session-driven equity order automation bot",
	Long: `Daytrader automates order placement around the daily KRX trading session.

It provides tools for:
  - Running the session loop (data prep, open, minute updates, close, overnight)
  - Executing orders against the live API, a simulated venue, or the local DB
  - Recording executed trades with realized profit and ROI
  - Maintaining daily portfolio open/high/low/close overviews
  - Querying the trading-day calendar (weekends and market holidays)

Complete documentation is available at https://github.com/rustyeddy/daytrader`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
