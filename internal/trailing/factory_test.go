package trailing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStrategy_VolumeATR(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = StrategyVolumeATR

	strategy, err := CreateStrategy(cfg)
	require.NoError(t, err)
	assert.IsType(t, &VolumeATRStrategy{}, strategy)
	assert.Equal(t, StrategyVolumeATR, strategy.GetName())
}

func TestCreateStrategy_FixedPoints(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = StrategyFixedPoints

	strategy, err := CreateStrategy(cfg)
	require.NoError(t, err)
	assert.IsType(t, &FixedPointsStrategy{}, strategy)
	assert.Equal(t, StrategyFixedPoints, strategy.GetName())
}

func TestCreateStrategy_Aliases(t *testing.T) {
	cases := map[string]Strategy{
		"atr":            &VolumeATRStrategy{},
		"":               &VolumeATRStrategy{},
		"fixed":          &FixedPointsStrategy{},
		"ATR":            &VolumeATRStrategy{},
		" fixed_points ": &FixedPointsStrategy{},
	}

	for name, expected := range cases {
		cfg := DefaultConfig()
		cfg.Strategy = name

		strategy, err := CreateStrategy(cfg)
		require.NoError(t, err, "strategy name %q", name)
		assert.IsType(t, expected, strategy, "strategy name %q", name)
	}
}

func TestCreateStrategy_Unknown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = "martingale"

	_, err := CreateStrategy(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown trailing strategy")
}

func TestGetAvailableStrategies(t *testing.T) {
	strategies := GetAvailableStrategies()

	assert.Contains(t, strategies, StrategyVolumeATR)
	assert.Contains(t, strategies, StrategyFixedPoints)
}

func TestGetStrategyDescription(t *testing.T) {
	assert.NotEqual(t, "Unknown strategy", GetStrategyDescription(StrategyVolumeATR))
	assert.NotEqual(t, "Unknown strategy", GetStrategyDescription(StrategyFixedPoints))
	assert.Equal(t, "Unknown strategy", GetStrategyDescription("martingale"))
}
