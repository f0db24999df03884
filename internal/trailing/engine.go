package trailing

import (
	"fmt"
	"math"

	"github.com/ducminhle1904/smart-trailing-bot/pkg/types"
)

// Engine is the per-process trailing decision engine. It holds the only
// cross-call state in the system: the set of tickets whose protective
// stop it has placed and now ratchets. The state is derived, not
// authoritative - after a restart every position starts as unowned and
// ownership is safely re-established on the next profitable cycle.
//
// Engine is not safe for concurrent use; the poller drives it from a
// single goroutine.
type Engine struct {
	cfg      *Config
	strategy Strategy
	owned    map[string]struct{}
	velocity *velocityDamper
}

// NewEngine creates a trailing decision engine with the given strategy
func NewEngine(cfg *Config, strategy Strategy) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("engine configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}
	if strategy == nil {
		return nil, fmt.Errorf("trailing strategy is required")
	}

	e := &Engine{
		cfg:      cfg,
		strategy: strategy,
		owned:    make(map[string]struct{}),
	}
	if cfg.VelocityDamping {
		e.velocity = newVelocityDamper(cfg.VelocityThreshold, cfg.VelocityFactor)
	}
	return e, nil
}

// Owns reports whether the engine has placed (and is ratcheting) the
// stop for a ticket.
func (e *Engine) Owns(ticket string) bool {
	_, ok := e.owned[ticket]
	return ok
}

// Decide evaluates one position snapshot and returns the stop-loss
// instruction for this cycle. It performs no I/O and mutates no state
// except the velocity sample; ownership changes only via Confirm.
func (e *Engine) Decide(in *DecisionInput) Instruction {
	pos := in.Position
	meta := in.Meta

	if err := pos.Validate(); err != nil {
		return noop(fmt.Sprintf("invalid position snapshot: %v", err))
	}
	if meta == nil {
		return noop("symbol metadata unavailable")
	}
	if err := meta.Validate(); err != nil {
		return noop(fmt.Sprintf("symbol metadata unusable: %v", err))
	}

	required := e.cfg.RequiredProfit(pos)

	// Profit gate: an unprofitable position must never sit behind a
	// stop that would crystallize a loss.
	if pos.Profit < required {
		if pos.HasStopLoss() && !e.Owns(pos.Ticket) {
			return removeStop(fmt.Sprintf("profit %.2f below threshold %.2f, clearing untracked stop", pos.Profit, required))
		}
		return noop(fmt.Sprintf("waiting for profit (%.2f / %.2f)", pos.Profit, required))
	}

	// An owned stop that vanished server-side (manual removal on the
	// exchange) is re-established through the profit-verified solve,
	// never trailed blind.
	if !e.Owns(pos.Ticket) || !pos.HasStopLoss() {
		return e.initialStop(pos, meta, required)
	}

	return e.trailStop(in)
}

// initialStop solves for the first protective stop: the price at which
// closing still nets at least the activation threshold after swap and
// commission.
func (e *Engine) initialStop(pos *types.Position, meta *types.SymbolMetadata, required float64) Instruction {
	commission := e.cfg.EstimateCommission(pos)
	stop := SolveStopForProfit(pos, meta, required, commission)
	minDist := e.minStopDistance(meta)

	// The tighter of "profit-sufficient" and "distance-legal" wins; the
	// broker rule is never violated even if it means under-locking.
	if pos.IsLong() {
		if pos.HasStopLoss() {
			stop = math.Max(stop, pos.StopLoss)
		}
		stop = math.Min(stop, pos.CurrentPrice-minDist)
	} else {
		if pos.HasStopLoss() {
			stop = math.Min(stop, pos.StopLoss)
		}
		stop = math.Max(stop, pos.CurrentPrice+minDist)
	}
	stop = meta.RoundPrice(stop)

	// Re-verify after rounding: refuse to place a stop that fails the
	// profit guarantee, and wait for a better price instead.
	locked := ProfitIfStopHit(pos, meta, stop, commission)
	if locked < required*(1-e.cfg.ProfitTolerance) {
		return noop(fmt.Sprintf("initial stop %.5f would lock only %.2f of required %.2f", stop, locked, required))
	}

	return setStop(stop, fmt.Sprintf("first protective stop, locks >= %.2f", locked))
}

// trailStop applies the ratchet: the stop follows price at the strategy
// distance, only ever moving in the profit-protecting direction, never
// closer to price than the minimum legal distance.
func (e *Engine) trailStop(in *DecisionInput) Instruction {
	pos := in.Position
	meta := in.Meta

	in.multiplierScale = 1.0
	if e.velocity != nil {
		in.multiplierScale = e.velocity.scale(pos.Ticket, pos.Profit, in.Now)
	}

	distance := e.strategy.TrailingDistance(in)
	minDist := e.minStopDistance(meta)

	var stop float64
	if pos.IsLong() {
		stop = pos.CurrentPrice - distance
		if pos.HasStopLoss() {
			stop = math.Max(stop, pos.StopLoss)
		}
		stop = math.Min(stop, pos.CurrentPrice-minDist)
	} else {
		stop = pos.CurrentPrice + distance
		if pos.HasStopLoss() {
			stop = math.Min(stop, pos.StopLoss)
		}
		stop = math.Max(stop, pos.CurrentPrice+minDist)
	}
	stop = meta.RoundPrice(stop)

	// Only talk to the broker when the stop actually moves by more than
	// one point; anything smaller is churn. Counted in whole points so the
	// boundary is not at the mercy of float representation.
	if pos.HasStopLoss() {
		movedPoints := math.Round((stop - pos.StopLoss) * pos.Side.Sign() / meta.Point)
		if movedPoints <= 1 {
			return noop(fmt.Sprintf("stop unchanged at %.5f", pos.StopLoss))
		}
	}

	return setStop(stop, fmt.Sprintf("trailing at distance %.5f", distance))
}

// Confirm records the outcome of a successfully actuated instruction.
// Called only after the broker accepted the modification, so a failed
// call naturally retries the same decision next cycle.
func (e *Engine) Confirm(ticket string, instr Instruction) {
	switch instr.Type {
	case SetStop:
		e.owned[ticket] = struct{}{}
	case RemoveStop:
		delete(e.owned, ticket)
	}
}

// Forget drops all engine state for a closed position
func (e *Engine) Forget(ticket string) {
	delete(e.owned, ticket)
	if e.velocity != nil {
		e.velocity.forget(ticket)
	}
}

// minStopDistance returns the effective minimum stop-to-price distance:
// the broker rule or the configured floor, whichever is larger.
func (e *Engine) minStopDistance(meta *types.SymbolMetadata) float64 {
	return math.Max(meta.BrokerMinDistance(), float64(e.cfg.MinStopPoints)*meta.Point)
}
