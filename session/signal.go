package session

// Signal names a discrete event in the trading-day timeline. Exactly one
// signal is current at any instant; the clock emits them in strict time
// order within a day.
type Signal int

const (
	// DataPrep fires at 08:30, before the market opens.
	DataPrep Signal = iota
	// MarketOpen fires at 09:00.
	MarketOpen
	// Update fires once per minute from 09:01 through 15:29.
	Update
	// MarketClose fires at 15:30.
	MarketClose
	// Overnight is the wait until 08:30 on the next trading day.
	Overnight
)

func (s Signal) String() string {
	switch s {
	case DataPrep:
		return "data-prep"
	case MarketOpen:
		return "market-open"
	case Update:
		return "update"
	case MarketClose:
		return "market-close"
	case Overnight:
		return "overnight"
	}
	return "unknown"
}
