package trailing

import (
	"fmt"
	"strings"
)

// Strategy names accepted by the factory
const (
	StrategyVolumeATR   = "volume_atr"
	StrategyFixedPoints = "fixed_points"
)

// CreateStrategy builds a trailing strategy from its configured name.
// Selection happens once at startup; there is no runtime re-dispatch.
func CreateStrategy(cfg *Config) (Strategy, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Strategy))

	switch name {
	case StrategyVolumeATR, "atr", "":
		return NewVolumeATRStrategy(cfg), nil

	case StrategyFixedPoints, "fixed":
		return NewFixedPointsStrategy(cfg), nil

	default:
		return nil, fmt.Errorf("unknown trailing strategy: %s (supported: %s)",
			cfg.Strategy, strings.Join(GetAvailableStrategies(), ", "))
	}
}

// GetAvailableStrategies returns the list of selectable strategy names
func GetAvailableStrategies() []string {
	return []string{
		StrategyVolumeATR,   // volume-adjusted ATR distance (default)
		StrategyFixedPoints, // constant distance in points
	}
}

// GetStrategyDescription returns a short description of a strategy name
func GetStrategyDescription(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyVolumeATR, "atr":
		return "Volume-adjusted ATR trailing - tighter stops in quiet markets, wider during volume spikes"
	case StrategyFixedPoints, "fixed":
		return "Fixed-distance trailing - constant stop distance in points"
	default:
		return "Unknown strategy"
	}
}
