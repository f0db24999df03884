package trailing

import "math"

// Multiplier converts a relative-volume reading into an ATR multiple.
// Quiet markets (ratio < 1) tighten the stop toward MinMultiplier, volume
// spikes widen it toward MaxMultiplier so noise does not knock us out.
// A non-positive ratio is treated as neutral before exponentiation.
func (c *Config) Multiplier(volumeRatio float64) float64 {
	if volumeRatio <= 0 {
		volumeRatio = 1.0
	}
	mult := c.BaseMultiplier * math.Pow(volumeRatio, 1/c.VolumeSensitivity)
	return clamp(mult, c.MinMultiplier, c.MaxMultiplier)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
