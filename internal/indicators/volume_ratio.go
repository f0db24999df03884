package indicators

import (
	"errors"

	"github.com/ducminhle1904/smart-trailing-bot/pkg/types"
)

// VolumeRatio compares the most recent bar's trade volume against the
// rolling average of the bars immediately preceding it. Values above 1
// mean the market is busier than usual, below 1 quieter.
type VolumeRatio struct {
	lookback int
}

// NewVolumeRatio creates a new volume-ratio calculator
func NewVolumeRatio(lookback int) *VolumeRatio {
	return &VolumeRatio{lookback: lookback}
}

// Calculate returns (latest bar volume) / (mean volume of the lookback
// bars before it). Errors on insufficient data or a non-positive mean;
// the caller substitutes the neutral ratio 1.0 in those cases.
func (v *VolumeRatio) Calculate(data []types.OHLCV) (float64, error) {
	if v.lookback <= 0 {
		return 0, errors.New("volume lookback must be positive")
	}
	if len(data) < v.lookback+1 {
		return 0, errors.New("insufficient data points for volume ratio calculation")
	}

	latest := data[len(data)-1].Volume

	sum := 0.0
	for i := len(data) - 1 - v.lookback; i < len(data)-1; i++ {
		sum += data[i].Volume
	}
	mean := sum / float64(v.lookback)
	if mean <= 0 {
		return 0, errors.New("non-positive average volume")
	}

	return latest / mean, nil
}

// GetRequiredPeriods returns the minimum number of bars needed
func (v *VolumeRatio) GetRequiredPeriods() int {
	return v.lookback + 1
}

// GetName returns the indicator name
func (v *VolumeRatio) GetName() string {
	return "VolumeRatio"
}
