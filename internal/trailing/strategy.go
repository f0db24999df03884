package trailing

import (
	"math"
	"time"

	"github.com/ducminhle1904/smart-trailing-bot/pkg/types"
)

// DecisionInput bundles everything one engine invocation needs: the
// position snapshot, its symbol rules, and the estimator outputs for the
// current cycle.
type DecisionInput struct {
	Position    *types.Position
	Meta        *types.SymbolMetadata
	ATR         float64
	VolumeRatio float64
	Now         time.Time

	// multiplierScale is set by the engine's velocity damper before the
	// strategy runs; 1.0 when damping is off or inactive.
	multiplierScale float64
}

// Strategy computes the trailing distance between the current price and
// the candidate stop. The engine owns the ratchet and all clamping; a
// strategy only answers "how far behind price should the stop sit".
type Strategy interface {
	// TrailingDistance returns the distance in price units. Must be positive.
	TrailingDistance(in *DecisionInput) float64

	// GetName returns the name of the strategy
	GetName() string
}

// VolumeATRStrategy scales the ATR by a volume-sensitive multiplier:
// distance = clip(base × ratio^(1/sensitivity), min, max) × ATR.
type VolumeATRStrategy struct {
	cfg *Config
}

// NewVolumeATRStrategy creates the volume-adjusted ATR trailing strategy
func NewVolumeATRStrategy(cfg *Config) *VolumeATRStrategy {
	return &VolumeATRStrategy{cfg: cfg}
}

// TrailingDistance implements Strategy
func (s *VolumeATRStrategy) TrailingDistance(in *DecisionInput) float64 {
	mult := s.cfg.Multiplier(in.VolumeRatio)
	if in.multiplierScale > 0 && in.multiplierScale < 1 {
		// Velocity damping tightens the stop but never below the floor
		mult = math.Max(mult*in.multiplierScale, s.cfg.MinMultiplier)
	}
	return mult * in.ATR
}

// GetName implements Strategy
func (s *VolumeATRStrategy) GetName() string {
	return StrategyVolumeATR
}

// FixedPointsStrategy trails at a constant distance in points, ignoring
// volatility. Mainly useful for instruments with unreliable volume data.
type FixedPointsStrategy struct {
	cfg *Config
}

// NewFixedPointsStrategy creates the fixed-distance trailing strategy
func NewFixedPointsStrategy(cfg *Config) *FixedPointsStrategy {
	return &FixedPointsStrategy{cfg: cfg}
}

// TrailingDistance implements Strategy
func (s *FixedPointsStrategy) TrailingDistance(in *DecisionInput) float64 {
	return float64(s.cfg.FixedStopPoints) * in.Meta.Point
}

// GetName implements Strategy
func (s *FixedPointsStrategy) GetName() string {
	return StrategyFixedPoints
}
