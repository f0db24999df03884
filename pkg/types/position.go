package types

import "fmt"

// Side represents the direction of an open position
type Side int

const (
	SideLong Side = iota
	SideShort
)

func (s Side) String() string {
	switch s {
	case SideLong:
		return "LONG"
	case SideShort:
		return "SHORT"
	default:
		return "UNKNOWN"
	}
}

// Sign returns +1 for long positions and -1 for short positions.
// Used to fold the two price directions into one arithmetic path.
func (s Side) Sign() float64 {
	if s == SideShort {
		return -1
	}
	return 1
}

// Position is a broker-reported snapshot of one open trade.
// It is rebuilt from live state on every poll cycle and treated as
// immutable within a single decision.
type Position struct {
	Ticket       string  // unique position identifier
	Symbol       string  // instrument symbol (e.g. "BTCUSDT")
	Side         Side    // long or short
	Volume       float64 // position size in lots/contracts
	EntryPrice   float64 // average open price
	CurrentPrice float64 // current mark price
	StopLoss     float64 // current stop-loss price, 0 = unset
	TakeProfit   float64 // current take-profit price, 0 = unset
	Profit       float64 // gross unrealized profit in account currency (includes swap)
	Swap         float64 // accumulated financing charge (signed)
	Comment      string  // free-text comment attached at open
}

// Validate checks the snapshot invariants
func (p *Position) Validate() error {
	if p.Ticket == "" {
		return fmt.Errorf("position ticket is required")
	}
	if p.Symbol == "" {
		return fmt.Errorf("position symbol is required")
	}
	if p.Volume <= 0 {
		return fmt.Errorf("position volume must be positive, got %f", p.Volume)
	}
	if p.EntryPrice <= 0 {
		return fmt.Errorf("position entry price must be positive, got %f", p.EntryPrice)
	}
	if p.CurrentPrice <= 0 {
		return fmt.Errorf("position current price must be positive, got %f", p.CurrentPrice)
	}
	return nil
}

// HasStopLoss reports whether the broker currently holds a stop for this position
func (p *Position) HasStopLoss() bool {
	return p.StopLoss != 0
}

// IsLong reports whether the position profits from rising prices
func (p *Position) IsLong() bool {
	return p.Side == SideLong
}
