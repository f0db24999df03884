package trailing

import (
	"fmt"
	"time"
)

// Config captures every tunable parameter of the trailing-stop logic.
// The defaults mirror the values the strategy was tuned with on
// 5-minute bars.
type Config struct {
	// ATRPeriod is the number of completed bars averaged into the ATR
	ATRPeriod int `json:"atr_period"`
	// ATRInterval is the bar interval used for ATR and volume data (exchange notation, e.g. "5")
	ATRInterval string `json:"atr_interval"`
	// ATRBuffer is how many extra bars to request beyond the minimum window
	ATRBuffer int `json:"atr_buffer"`
	// ATRFallbackPoints is the conservative ATR substitute (in points) when history is too short
	ATRFallbackPoints float64 `json:"atr_fallback_points"`

	// VolumeLookback is the rolling window for the average-volume baseline
	VolumeLookback int `json:"volume_lookback"`
	// VolumeSensitivity dampens the volume ratio: multiplier scales with ratio^(1/sensitivity)
	VolumeSensitivity float64 `json:"volume_sensitivity"`

	// BaseMultiplier is the ATR multiple at neutral volume (ratio = 1.0)
	BaseMultiplier float64 `json:"base_multiplier"`
	// MinMultiplier is the tightest allowed ATR multiple (quiet markets)
	MinMultiplier float64 `json:"min_multiplier"`
	// MaxMultiplier is the loosest allowed ATR multiple (volume spikes)
	MaxMultiplier float64 `json:"max_multiplier"`

	// MinProfitToStart is the gross-profit activation threshold in account currency
	MinProfitToStart float64 `json:"min_profit_to_start"`
	// ExtraSafetyBuffer is the profit (account currency) the initial stop must lock after costs
	ExtraSafetyBuffer float64 `json:"extra_safety_buffer"`
	// CommissionPerLot is the estimated round-trip commission per lot
	CommissionPerLot float64 `json:"commission_per_lot"`
	// ProfitTolerance is the fraction of the locked-profit target forgiven to price rounding
	ProfitTolerance float64 `json:"profit_tolerance"`

	// MinStopPoints is the floor (in points) for the stop-to-price distance,
	// applied on top of the broker's own minimum
	MinStopPoints int `json:"min_stop_points"`

	// Strategy selects the trailing-distance strategy ("volume_atr" or "fixed_points")
	Strategy string `json:"strategy"`
	// FixedStopPoints is the trailing distance for the fixed_points strategy
	FixedStopPoints int `json:"fixed_stop_points"`

	// VelocityDamping enables tightening the multiplier during fast profit runs
	VelocityDamping bool `json:"velocity_damping"`
	// VelocityThreshold is the profit growth (account currency per second) that triggers damping
	VelocityThreshold float64 `json:"velocity_threshold"`
	// VelocityFactor scales the multiplier down while damping is active
	VelocityFactor float64 `json:"velocity_factor"`

	// CheckInterval is the pause between poll cycles
	CheckInterval time.Duration `json:"-"`
}

// DefaultConfig returns the tuned default configuration
func DefaultConfig() *Config {
	return &Config{
		ATRPeriod:         14,
		ATRInterval:       "5",
		ATRBuffer:         10,
		ATRFallbackPoints: 150,

		VolumeLookback:    20,
		VolumeSensitivity: 1.5,

		BaseMultiplier: 3.0,
		MinMultiplier:  1.5,
		MaxMultiplier:  6.0,

		MinProfitToStart:  0.10,
		ExtraSafetyBuffer: 1.00,
		CommissionPerLot:  0.0,
		ProfitTolerance:   0.01,

		MinStopPoints: 30,

		Strategy:        StrategyVolumeATR,
		FixedStopPoints: 200,

		VelocityDamping:   false,
		VelocityThreshold: 1.0,
		VelocityFactor:    0.7,

		CheckInterval: 5 * time.Second,
	}
}

// Validate checks the configuration for inconsistent values
func (c *Config) Validate() error {
	if c.ATRPeriod <= 0 {
		return fmt.Errorf("atr_period must be positive, got %d", c.ATRPeriod)
	}
	if c.ATRFallbackPoints <= 0 {
		return fmt.Errorf("atr_fallback_points must be positive, got %f", c.ATRFallbackPoints)
	}
	if c.VolumeLookback <= 0 {
		return fmt.Errorf("volume_lookback must be positive, got %d", c.VolumeLookback)
	}
	if c.VolumeSensitivity <= 0 {
		return fmt.Errorf("volume_sensitivity must be positive, got %f", c.VolumeSensitivity)
	}
	if c.MinMultiplier <= 0 || c.MaxMultiplier < c.MinMultiplier {
		return fmt.Errorf("multiplier bounds invalid: min=%f max=%f", c.MinMultiplier, c.MaxMultiplier)
	}
	if c.BaseMultiplier < c.MinMultiplier || c.BaseMultiplier > c.MaxMultiplier {
		return fmt.Errorf("base_multiplier %f outside [%f, %f]", c.BaseMultiplier, c.MinMultiplier, c.MaxMultiplier)
	}
	if c.MinProfitToStart < 0 {
		return fmt.Errorf("min_profit_to_start must not be negative, got %f", c.MinProfitToStart)
	}
	if c.ExtraSafetyBuffer < 0 {
		return fmt.Errorf("extra_safety_buffer must not be negative, got %f", c.ExtraSafetyBuffer)
	}
	if c.ProfitTolerance < 0 || c.ProfitTolerance >= 1 {
		return fmt.Errorf("profit_tolerance must be in [0, 1), got %f", c.ProfitTolerance)
	}
	if c.MinStopPoints <= 0 {
		return fmt.Errorf("min_stop_points must be positive, got %d", c.MinStopPoints)
	}
	if c.CheckInterval <= 0 {
		return fmt.Errorf("check_interval must be positive")
	}
	if c.VelocityDamping {
		if c.VelocityThreshold <= 0 {
			return fmt.Errorf("velocity_threshold must be positive, got %f", c.VelocityThreshold)
		}
		if c.VelocityFactor <= 0 || c.VelocityFactor > 1 {
			return fmt.Errorf("velocity_factor must be in (0, 1], got %f", c.VelocityFactor)
		}
	}
	return nil
}
