package trailing

import "time"

// profitSample remembers the last observed profit for one ticket so the
// damper can estimate how fast the position is moving.
type profitSample struct {
	profit float64
	at     time.Time
}

// velocityDamper tightens the trailing multiplier while profit is growing
// faster than the configured threshold. It is an optional layer: when
// disabled the engine never constructs one.
type velocityDamper struct {
	threshold float64 // account currency per second
	factor    float64 // multiplier scale while damping, in (0, 1]
	samples   map[string]profitSample
}

func newVelocityDamper(threshold, factor float64) *velocityDamper {
	return &velocityDamper{
		threshold: threshold,
		factor:    factor,
		samples:   make(map[string]profitSample),
	}
}

// scale records the current profit observation and returns the multiplier
// scale to apply this cycle: 1.0 normally, factor during a fast run-up.
func (d *velocityDamper) scale(ticket string, profit float64, now time.Time) float64 {
	prev, seen := d.samples[ticket]
	d.samples[ticket] = profitSample{profit: profit, at: now}

	if !seen || !now.After(prev.at) {
		return 1.0
	}
	rate := (profit - prev.profit) / now.Sub(prev.at).Seconds()
	if rate > d.threshold {
		return d.factor
	}
	return 1.0
}

// forget drops the sample for a closed position
func (d *velocityDamper) forget(ticket string) {
	delete(d.samples, ticket)
}
