package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/daytrader/broker"
	"github.com/rustyeddy/daytrader/broker/kis"
	"github.com/rustyeddy/daytrader/calendar"
	"github.com/rustyeddy/daytrader/config"
	"github.com/rustyeddy/daytrader/engine"
	"github.com/rustyeddy/daytrader/ledger"
	"github.com/rustyeddy/daytrader/oracle"
	"github.com/rustyeddy/daytrader/session"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the trading session loop",
	Long: `Run the session loop: wait for each session event (data prep, market
open, minute updates, market close, overnight) and drive overview bookkeeping
and order execution against the configured environment.

API credentials come from the environment (KIS_APP_KEY, KIS_APP_SECRET),
optionally via a .env file in the working directory.

Example:
  daytrader run -f configs/paper.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	env, err := config.ParseEnv(cfg.Env)
	if err != nil {
		return err
	}

	var client *kis.Client
	if env == config.EnvReal {
		client = kis.NewClient(kis.Config{
			AppKey:    os.Getenv("KIS_APP_KEY"),
			AppSecret: os.Getenv("KIS_APP_SECRET"),
			Account:   cfg.KIS.Account,
			Paper:     cfg.KIS.Paper,
		})
	}

	orc, err := oracle.New(env, client, cfg.Ledger.DBPath)
	if err != nil {
		return fmt.Errorf("create oracle: %w", err)
	}

	store, err := ledger.Open(cfg.Ledger.DBPath, orc)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer store.Close()

	backend, err := broker.New(env, client, store)
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}

	grace, err := cfg.Session.ParseGrace()
	if err != nil {
		return err
	}

	cal := calendar.New(cfg.Session.HolidayDir)
	clock := session.New(cal)
	ctrl := engine.NewController(backend, store, grace)
	runner := engine.NewRunner(clock, cal, store, ctrl, engine.NoopPlanner{})

	fmt.Printf("Running session loop (env: %s, db: %s)\n", env, cfg.Ledger.DBPath)
	fmt.Printf("  Next event: %s at %s\n", clock.Signal(), clock.Now().Format("2006-01-02 15:04"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Println("Session loop stopped.")
	return nil
}
