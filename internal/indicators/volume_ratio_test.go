package indicators

import (
	"testing"
	"time"

	"github.com/ducminhle1904/smart-trailing-bot/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func barsWithVolumes(volumes []float64) []types.OHLCV {
	bars := make([]types.OHLCV, len(volumes))
	ts := time.Now().Add(-time.Duration(len(volumes)) * time.Hour)
	for i, v := range volumes {
		bars[i] = types.OHLCV{
			Timestamp: ts.Add(time.Duration(i) * time.Hour),
			Open:      100,
			High:      101,
			Low:       99,
			Close:     100,
			Volume:    v,
		}
	}
	return bars
}

func TestNewVolumeRatio(t *testing.T) {
	vr := NewVolumeRatio(20)

	assert.NotNil(t, vr)
	assert.Equal(t, 20, vr.lookback)
	assert.Equal(t, 21, vr.GetRequiredPeriods())
	assert.Equal(t, "VolumeRatio", vr.GetName())
}

func TestVolumeRatio_Calculate_InsufficientData(t *testing.T) {
	vr := NewVolumeRatio(20)

	_, err := vr.Calculate(barsWithVolumes([]float64{100, 200, 300}))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient data")
}

func TestVolumeRatio_Calculate_InvalidLookback(t *testing.T) {
	vr := NewVolumeRatio(0)

	_, err := vr.Calculate(barsWithVolumes([]float64{100, 200}))
	assert.Error(t, err)
}

func TestVolumeRatio_Calculate_Spike(t *testing.T) {
	vr := NewVolumeRatio(3)

	// Baseline mean (10+20+30)/3 = 20, latest 60
	ratio, err := vr.Calculate(barsWithVolumes([]float64{10, 20, 30, 60}))
	require.NoError(t, err)
	assert.InDelta(t, 3.0, ratio, 1e-12)
}

func TestVolumeRatio_Calculate_QuietBar(t *testing.T) {
	vr := NewVolumeRatio(3)

	ratio, err := vr.Calculate(barsWithVolumes([]float64{100, 100, 100, 25}))
	require.NoError(t, err)
	assert.InDelta(t, 0.25, ratio, 1e-12)
}

func TestVolumeRatio_Calculate_LatestBarExcludedFromBaseline(t *testing.T) {
	vr := NewVolumeRatio(3)

	// The huge latest bar must not inflate its own baseline
	ratio, err := vr.Calculate(barsWithVolumes([]float64{100, 100, 100, 10000}))
	require.NoError(t, err)
	assert.InDelta(t, 100.0, ratio, 1e-12)
}

func TestVolumeRatio_Calculate_UsesMostRecentWindow(t *testing.T) {
	vr := NewVolumeRatio(2)

	// Only the two bars before the latest count: mean (50+150)/2 = 100
	ratio, err := vr.Calculate(barsWithVolumes([]float64{99999, 50, 150, 200}))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, ratio, 1e-12)
}

func TestVolumeRatio_Calculate_ZeroBaseline(t *testing.T) {
	vr := NewVolumeRatio(3)

	_, err := vr.Calculate(barsWithVolumes([]float64{0, 0, 0, 100}))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "non-positive average volume")
}
