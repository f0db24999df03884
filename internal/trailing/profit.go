package trailing

import (
	"math"

	"github.com/ducminhle1904/smart-trailing-bot/pkg/types"
)

// EstimateCommission returns the estimated round-trip commission for a position
func (c *Config) EstimateCommission(pos *types.Position) float64 {
	return c.CommissionPerLot * pos.Volume
}

// RequiredProfit returns the gross-profit threshold the position must clear
// before the engine starts protecting it. Swap already incurred counts as a
// signed contribution: negative swap raises the bar, positive swap lowers it.
func (c *Config) RequiredProfit(pos *types.Position) float64 {
	return math.Max(c.MinProfitToStart, c.EstimateCommission(pos)+c.ExtraSafetyBuffer-pos.Swap)
}

// ProfitIfStopHit returns the realized profit (account currency) if the
// position closes exactly at stop, net of swap and commission.
func ProfitIfStopHit(pos *types.Position, meta *types.SymbolMetadata, stop, commission float64) float64 {
	if stop == 0 {
		return 0
	}
	diff := (stop - pos.EntryPrice) * pos.Side.Sign()
	gross := diff * pos.Volume * meta.ContractSize
	return gross + pos.Swap - commission
}

// SolveStopForProfit is the algebraic inverse of ProfitIfStopHit: the stop
// price at which the realized profit equals target after swap and commission.
func SolveStopForProfit(pos *types.Position, meta *types.SymbolMetadata, target, commission float64) float64 {
	contract := pos.Volume * meta.ContractSize
	return pos.EntryPrice + pos.Side.Sign()*(target+commission-pos.Swap)/contract
}
