package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/rustyeddy/daytrader/calendar"
	"github.com/rustyeddy/daytrader/ledger"
	"github.com/rustyeddy/daytrader/session"
)

// Runner is the single thread of control: it walks the session clock and
// dispatches each signal to the ledger and the order controller. Event
// errors are logged and the loop moves on to the next scheduled event.
type Runner struct {
	clock   *session.Clock
	cal     *calendar.Calendar
	store   *ledger.Store
	ctrl    *Controller
	planner Planner
}

// NewRunner wires the session loop. A nil planner means no orders are
// placed.
func NewRunner(clock *session.Clock, cal *calendar.Calendar, store *ledger.Store, ctrl *Controller, planner Planner) *Runner {
	if planner == nil {
		planner = NoopPlanner{}
	}
	return &Runner{clock: clock, cal: cal, store: store, ctrl: ctrl, planner: planner}
}

// Run processes session events until ctx is done. Cancellation is observed
// between events; a wait in progress is not interrupted.
func (r *Runner) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ts, sig := r.clock.Now(), r.clock.Signal()
		r.clock.WaitUntil(ts)
		r.dispatch(ctx, ts, sig)
		r.clock.Advance()
	}
}

func (r *Runner) dispatch(ctx context.Context, ts time.Time, sig session.Signal) {
	slog.Info("session event", "signal", sig.String(), "at", ts)

	switch sig {
	case session.DataPrep:
		// Preload this year's holiday list (and next year's, near the
		// boundary) so overnight scheduling never reads mid-loop.
		n := r.cal.Warm(ts.Year(), ts.AddDate(0, 0, 14).Year())
		if n == 0 {
			slog.Warn("no holidays loaded; check the holiday data dir", "year", ts.Year())
		}

	case session.MarketOpen:
		if err := r.store.InsertOverview(ctx); err != nil {
			slog.Error("insert overview", "error", err)
		}
		r.maybePlace(ctx, ts, sig)

	case session.Update:
		if err := r.store.UpdateOverview(ctx); err != nil {
			slog.Error("update overview", "error", err)
		}
		r.maybePlace(ctx, ts, sig)

	case session.MarketClose:
		if err := r.store.FinishOverview(ctx); err != nil {
			slog.Error("finish overview", "error", err)
		}

	case session.Overnight:
		slog.Info("market closed, waiting for next trading day", "until", ts)
	}
}

func (r *Runner) maybePlace(ctx context.Context, ts time.Time, sig session.Signal) {
	o, ok := r.planner.Next(sig, ts)
	if !ok {
		return
	}
	if err := r.ctrl.Execute(ctx, o); err != nil {
		slog.Error("order lifecycle failed", "code", o.Code, "error", err)
	}
}
