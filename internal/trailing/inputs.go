package trailing

import (
	"context"

	"github.com/ducminhle1904/smart-trailing-bot/internal/broker"
	"github.com/ducminhle1904/smart-trailing-bot/internal/indicators"
	"github.com/ducminhle1904/smart-trailing-bot/pkg/types"
)

// InputProvider fetches bar history and turns it into the two estimator
// inputs the engine consumes. Provider hiccups and short history degrade
// to documented conservative fallbacks instead of errors: the monitoring
// loop must keep running across data-source outages.
type InputProvider struct {
	market broker.MarketDataProvider
	cfg    *Config
	atr    *indicators.ATR
	volume *indicators.VolumeRatio
}

// NewInputProvider creates an input provider backed by a market data source
func NewInputProvider(market broker.MarketDataProvider, cfg *Config) *InputProvider {
	return &InputProvider{
		market: market,
		cfg:    cfg,
		atr:    indicators.NewATR(cfg.ATRPeriod),
		volume: indicators.NewVolumeRatio(cfg.VolumeLookback),
	}
}

// ATR returns the smoothed true range for the symbol, or point×fallback
// when history is missing or too short.
func (p *InputProvider) ATR(ctx context.Context, symbol string, meta *types.SymbolMetadata) float64 {
	fallback := meta.Point * p.cfg.ATRFallbackPoints

	bars, err := p.market.GetKlines(ctx, symbol, p.cfg.ATRInterval, p.cfg.ATRPeriod+p.cfg.ATRBuffer)
	if err != nil || len(bars) == 0 {
		return fallback
	}

	atr, err := p.atr.Calculate(bars)
	if err != nil || atr <= 0 {
		return fallback
	}
	return atr
}

// VolumeRatio returns the latest-bar volume relative to its rolling
// average, or the neutral 1.0 when data is insufficient. Never returns a
// value ≤ 0: the ratio is later raised to a fractional power.
func (p *InputProvider) VolumeRatio(ctx context.Context, symbol string) float64 {
	bars, err := p.market.GetKlines(ctx, symbol, p.cfg.ATRInterval, p.cfg.VolumeLookback+p.cfg.ATRBuffer)
	if err != nil || len(bars) == 0 {
		return 1.0
	}

	ratio, err := p.volume.Calculate(bars)
	if err != nil || ratio <= 0 {
		return 1.0
	}
	return ratio
}
