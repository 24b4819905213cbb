// Package session drives the daily trading timeline: a clock that walks the
// fixed session boundaries and emits the signal for each one.
package session

import (
	"time"

	"github.com/rustyeddy/daytrader/calendar"
)

// Fixed session boundaries, local exchange time.
const (
	PrepHour, PrepMinute             = 8, 30
	OpenHour, OpenMinute             = 9, 0
	LastUpdateHour, LastUpdateMinute = 15, 29
	CloseHour, CloseMinute           = 15, 30
)

// Clock owns the "current time" cursor of the session loop. Advance moves
// the cursor to the next session event; WaitUntil blocks until the wall
// clock catches up. All computation happens in a single local timezone.
type Clock struct {
	cal     *calendar.Calendar
	current time.Time
	signal  Signal
}

// New returns a Clock positioned on the first session event after wall-clock
// now. It never yields a past signal.
func New(cal *calendar.Calendar) *Clock {
	return NewAt(cal, time.Now())
}

// NewAt is New with an explicit starting instant, for deterministic runs.
func NewAt(cal *calendar.Calendar, start time.Time) *Clock {
	c := &Clock{cal: cal, current: start}
	c.current, c.signal = c.next()
	return c
}

// Now returns the cursor, i.e. the time of the event the clock points at.
func (c *Clock) Now() time.Time { return c.current }

// Signal returns the signal of the event the clock points at.
func (c *Clock) Signal() Signal { return c.signal }

// Advance moves the cursor to the next session event and returns it. It is
// a pure function of the cursor; wall-clock time is not consulted.
func (c *Clock) Advance() (time.Time, Signal) {
	c.current, c.signal = c.next()
	return c.current, c.signal
}

// WaitUntil blocks until the wall clock reaches target. A target already in
// the past returns immediately. This is the clock's only suspension point.
func (c *Clock) WaitUntil(target time.Time) {
	if d := time.Until(target); d > 0 {
		time.Sleep(d)
	}
}

// next computes the event following the cursor. All boundary comparisons
// are half-open [lo, hi), so exactly one branch applies.
func (c *Clock) next() (time.Time, Signal) {
	prep := c.at(PrepHour, PrepMinute)
	open := c.at(OpenHour, OpenMinute)
	lastUpdate := c.at(LastUpdateHour, LastUpdateMinute)
	close := c.at(CloseHour, CloseMinute)

	switch {
	case c.current.Before(prep):
		return prep, DataPrep
	case c.current.Before(open):
		return open, MarketOpen
	case c.current.Before(lastUpdate):
		return c.current.Add(time.Minute), Update
	case c.current.Before(close):
		return close, MarketClose
	default:
		next := c.cal.NextTradingDay(c.current)
		return time.Date(next.Year(), next.Month(), next.Day(),
			PrepHour, PrepMinute, 0, 0, c.current.Location()), Overnight
	}
}

// at returns hh:mm on the cursor's date, in the cursor's location.
func (c *Clock) at(hour, minute int) time.Time {
	y, m, d := c.current.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, c.current.Location())
}
