package broker

import (
	"context"

	"github.com/ducminhle1904/smart-trailing-bot/pkg/types"
)

// MarketDataProvider supplies recent price bars for the estimators.
// Implementations may return fewer bars than requested; "not enough
// data" is a valid result, not an error.
type MarketDataProvider interface {
	// GetKlines returns up to limit bars ordered oldest -> newest.
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]types.OHLCV, error)
}

// SymbolInfoProvider supplies per-symbol trading rules.
type SymbolInfoProvider interface {
	GetSymbolMetadata(ctx context.Context, symbol string) (*types.SymbolMetadata, error)
}

// PositionProvider reports the live state of open positions.
type PositionProvider interface {
	// GetPosition returns the current snapshot for a ticket, or
	// (nil, nil) when the position no longer exists (closed).
	GetPosition(ctx context.Context, ticket string) (*types.Position, error)

	// ListPositions returns all currently open positions.
	ListPositions(ctx context.Context) ([]types.Position, error)
}

// StopLossActuator applies stop-loss instructions against the broker.
type StopLossActuator interface {
	// ModifyStopLoss sets the protective stop for a position.
	// stopLoss = 0 removes the stop. The take-profit is passed through
	// unchanged so the modify call never clears it server-side.
	ModifyStopLoss(ctx context.Context, pos *types.Position, stopLoss float64, digits int) error
}

// Broker bundles every collaborator the trailing loop needs from one
// exchange connection.
type Broker interface {
	MarketDataProvider
	SymbolInfoProvider
	PositionProvider
	StopLossActuator

	GetName() string
}
