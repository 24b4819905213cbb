// Package calendar answers "is this a trading day?" for the KRX session,
// combining the weekend rule with per-year market holiday files.
package calendar

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DateFormat is the layout used for holiday files and date keys.
const DateFormat = "2006-01-02"

// Calendar resolves trading days from weekends and listed market holidays.
// Holiday lists are loaded lazily per year and cached on the value; there is
// no process-wide state, so two Calendars with different data dirs coexist.
type Calendar struct {
	dir   string
	years map[int]map[string]bool
}

// New returns a Calendar that loads holiday files from dir.
func New(dir string) *Calendar {
	return &Calendar{
		dir:   dir,
		years: make(map[int]map[string]bool),
	}
}

// IsTradingDay reports whether d is a trading day: not a Saturday or Sunday
// and not listed in d's year's holiday file.
func (c *Calendar) IsTradingDay(d time.Time) bool {
	if isWeekend(d) {
		return false
	}
	return !c.holidaysFor(d.Year())[d.Format(DateFormat)]
}

// NextTradingDay returns the first trading day strictly after d. Gaps are
// small (weekends plus holiday runs), so a linear day scan is fine.
func (c *Calendar) NextTradingDay(d time.Time) time.Time {
	next := d.AddDate(0, 0, 1)
	for !c.IsTradingDay(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// HolidaysFor returns the holiday dates listed for year, sorted by file
// order not guaranteed; callers treat it as a set.
func (c *Calendar) HolidaysFor(year int) []time.Time {
	set := c.holidaysFor(year)
	out := make([]time.Time, 0, len(set))
	for key := range set {
		d, err := time.ParseInLocation(DateFormat, key, time.Local)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Warm preloads the holiday lists for the given years and returns the total
// number of holidays loaded. A zero count for a year usually means the file
// is missing; the permissive fallback stands, but callers may want to log it.
func (c *Calendar) Warm(years ...int) int {
	n := 0
	for _, y := range years {
		n += len(c.holidaysFor(y))
	}
	return n
}

func (c *Calendar) holidaysFor(year int) map[string]bool {
	if set, ok := c.years[year]; ok {
		return set
	}
	set := loadHolidays(c.dir, year)
	c.years[year] = set
	return set
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// loadHolidays reads <dir>/market_close_day_<year>.txt, one YYYY-MM-DD date
// per line. Blank and malformed lines are skipped. A missing file yields an
// empty set with no error; years without a list simply have no holidays.
func loadHolidays(dir string, year int) map[string]bool {
	set := make(map[string]bool)

	path := filepath.Join(dir, fmt.Sprintf("market_close_day_%d.txt", year))
	f, err := os.Open(path)
	if err != nil {
		return set
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if _, err := time.ParseInLocation(DateFormat, line, time.Local); err != nil {
			continue
		}
		set[line] = true
	}
	return set
}
