package session

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/daytrader/calendar"
)

// 2025-07-16 is a Wednesday.
func wed(hour, minute int) time.Time {
	return time.Date(2025, time.July, 16, hour, minute, 0, 0, time.Local)
}

func emptyCal(t *testing.T) *calendar.Calendar {
	t.Helper()
	return calendar.New(t.TempDir())
}

func TestAdvanceBeforePrepYieldsDataPrep(t *testing.T) {
	t.Parallel()

	c := NewAt(emptyCal(t), wed(7, 30))
	assert.Equal(t, DataPrep, c.Signal())
	assert.Equal(t, wed(8, 30), c.Now())
}

func TestAdvanceBetweenPrepAndOpenYieldsMarketOpen(t *testing.T) {
	t.Parallel()

	c := NewAt(emptyCal(t), wed(8, 45))
	assert.Equal(t, MarketOpen, c.Signal())
	assert.Equal(t, wed(9, 0), c.Now())
}

func TestAdvanceIntradayYieldsMinuteUpdates(t *testing.T) {
	t.Parallel()

	c := NewAt(emptyCal(t), wed(10, 0))
	assert.Equal(t, Update, c.Signal())
	assert.Equal(t, wed(10, 1), c.Now())

	ts, sig := c.Advance()
	assert.Equal(t, Update, sig)
	assert.Equal(t, wed(10, 2), ts)
}

func TestAdvanceLateUpdateWindowYieldsMarketClose(t *testing.T) {
	t.Parallel()

	c := NewAt(emptyCal(t), wed(15, 29))
	assert.Equal(t, MarketClose, c.Signal())
	assert.Equal(t, wed(15, 30), c.Now())
}

func TestAdvanceAfterCloseOnFridaySkipsWeekend(t *testing.T) {
	t.Parallel()

	// 2025-07-18 is a Friday.
	friday := time.Date(2025, time.July, 18, 16, 0, 0, 0, time.Local)
	c := NewAt(emptyCal(t), friday)

	assert.Equal(t, Overnight, c.Signal())
	assert.Equal(t, time.Monday, c.Now().Weekday())
	assert.Equal(t, time.Date(2025, time.July, 21, 8, 30, 0, 0, time.Local), c.Now())
}

func TestOvernightSkipsHolidays(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	body := "2025-01-27\n2025-01-28\n2025-01-29\n2025-01-30\n"
	path := filepath.Join(dir, fmt.Sprintf("market_close_day_%d.txt", 2025))
	assert.NoError(t, os.WriteFile(path, []byte(body), 0644))

	// Friday 2025-01-24, after close. Weekend plus the holiday run skip to
	// Friday the 31st.
	friday := time.Date(2025, time.January, 24, 15, 30, 0, 0, time.Local)
	c := NewAt(calendar.New(dir), friday)

	assert.Equal(t, Overnight, c.Signal())
	assert.Equal(t, time.Date(2025, time.January, 31, 8, 30, 0, 0, time.Local), c.Now())
}

func TestFullDaySignalSequenceIsMonotonic(t *testing.T) {
	t.Parallel()

	c := NewAt(emptyCal(t), wed(7, 0))
	prev := c.Now()

	seen := map[Signal]bool{c.Signal(): true}
	for i := 0; i < 500; i++ {
		ts, sig := c.Advance()
		assert.True(t, ts.After(prev), "event times must be strictly increasing")
		prev = ts
		seen[sig] = true
	}

	for _, sig := range []Signal{DataPrep, MarketOpen, Update, MarketClose, Overnight} {
		assert.True(t, seen[sig], "missing signal %s", sig)
	}
}

func TestUpdateCountPerDay(t *testing.T) {
	t.Parallel()

	c := NewAt(emptyCal(t), wed(9, 0))
	updates := 0
	for c.Signal() != MarketClose {
		if c.Signal() == Update {
			updates++
		}
		c.Advance()
	}
	// 09:01 through 15:29 inclusive.
	assert.Equal(t, 389, updates)
}

func TestWaitUntilPastTargetReturnsImmediately(t *testing.T) {
	t.Parallel()

	c := NewAt(emptyCal(t), wed(10, 0))
	start := time.Now()
	c.WaitUntil(start.Add(-time.Hour))
	assert.Less(t, time.Since(start), time.Second)
}

func TestSignalString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "data-prep", DataPrep.String())
	assert.Equal(t, "overnight", Overnight.String())
	assert.Equal(t, "unknown", Signal(42).String())
}
