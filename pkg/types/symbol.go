package types

import (
	"fmt"
	"math"
)

// SymbolMetadata holds the static per-symbol trading rules the engine
// needs to place a legal stop. Fetched per decision and treated as
// immutable for the duration of one cycle.
type SymbolMetadata struct {
	Symbol       string
	Digits       int     // price decimal precision
	Point        float64 // minimum price increment
	ContractSize float64 // base-instrument units per lot
	MinStopUnits int     // broker-mandated minimum stop distance, in points
}

// Validate checks that all metadata fields are usable
func (m *SymbolMetadata) Validate() error {
	// Digits 0 is legal: instruments with whole-number ticks quote
	// without decimals.
	if m.Digits < 0 {
		return fmt.Errorf("symbol digits must not be negative, got %d", m.Digits)
	}
	if m.Point <= 0 {
		return fmt.Errorf("symbol point must be positive, got %f", m.Point)
	}
	if m.ContractSize <= 0 {
		return fmt.Errorf("symbol contract size must be positive, got %f", m.ContractSize)
	}
	if m.MinStopUnits <= 0 {
		return fmt.Errorf("symbol min stop distance must be positive, got %d", m.MinStopUnits)
	}
	return nil
}

// RoundPrice snaps a price onto the symbol's tick grid. Rounding the
// tick count, not decimal places, keeps coarse grids (tick 0.5, tick 10)
// on valid quotes; the trailing decimal round clears float artifacts
// from the multiply.
func (m *SymbolMetadata) RoundPrice(price float64) float64 {
	onGrid := math.Round(price/m.Point) * m.Point
	scale := math.Pow(10, float64(m.Digits))
	return math.Round(onGrid*scale) / scale
}

// BrokerMinDistance returns the broker-mandated minimum stop distance in price units
func (m *SymbolMetadata) BrokerMinDistance() float64 {
	return float64(m.MinStopUnits) * m.Point
}
