package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/daytrader/calendar"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Query the trading-day calendar",
}

var calendarDir string

var calendarCheckCmd = &cobra.Command{
	Use:   "check [date]",
	Short: "Report whether a date is a trading day",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := calendarArgDate(args)
		if err != nil {
			return err
		}

		cal := calendar.New(calendarDir)
		if cal.IsTradingDay(d) {
			fmt.Printf("%s is a trading day\n", d.Format(calendar.DateFormat))
		} else {
			fmt.Printf("%s is NOT a trading day\n", d.Format(calendar.DateFormat))
		}
		return nil
	},
}

var calendarNextCmd = &cobra.Command{
	Use:   "next [date]",
	Short: "Print the next trading day after a date",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := calendarArgDate(args)
		if err != nil {
			return err
		}

		cal := calendar.New(calendarDir)
		fmt.Println(cal.NextTradingDay(d).Format(calendar.DateFormat))
		return nil
	},
}

func calendarArgDate(args []string) (time.Time, error) {
	if len(args) == 0 {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	d, err := time.ParseInLocation(calendar.DateFormat, args[0], time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", args[0], err)
	}
	return d, nil
}

func init() {
	rootCmd.AddCommand(calendarCmd)
	calendarCmd.PersistentFlags().StringVar(&calendarDir, "data", "./data", "holiday data directory")
	calendarCmd.AddCommand(calendarCheckCmd)
	calendarCmd.AddCommand(calendarNextCmd)
}
