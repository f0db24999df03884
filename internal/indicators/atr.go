package indicators

import (
	"errors"
	"math"

	"github.com/ducminhle1904/smart-trailing-bot/pkg/types"
)

// ATR represents the Average True Range volatility indicator.
// The value is the simple moving average of per-bar true range over the
// last period completed bars, which is what the trailing distance is
// scaled from.
type ATR struct {
	period int
}

// NewATR creates a new ATR calculator
func NewATR(period int) *ATR {
	return &ATR{period: period}
}

// Calculate computes the ATR over the most recent bars.
// Requires at least period+1 bars because true range needs the previous close.
func (a *ATR) Calculate(data []types.OHLCV) (float64, error) {
	if a.period <= 0 {
		return 0, errors.New("ATR period must be positive")
	}
	if len(data) < a.period+1 {
		return 0, errors.New("insufficient data points for ATR calculation")
	}

	// True range of the last `period` bars, each needing its predecessor
	sum := 0.0
	for i := len(data) - a.period; i < len(data); i++ {
		sum += trueRange(data[i], data[i-1].Close)
	}

	return sum / float64(a.period), nil
}

// GetRequiredPeriods returns the minimum number of bars needed
func (a *ATR) GetRequiredPeriods() int {
	return a.period + 1
}

// GetName returns the indicator name
func (a *ATR) GetName() string {
	return "ATR"
}

// trueRange is max(high-low, |high-prevClose|, |low-prevClose|)
func trueRange(bar types.OHLCV, prevClose float64) float64 {
	hl := bar.High - bar.Low
	hc := math.Abs(bar.High - prevClose)
	lc := math.Abs(bar.Low - prevClose)
	return math.Max(hl, math.Max(hc, lc))
}
