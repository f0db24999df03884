package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ducminhle1904/smart-trailing-bot/internal/broker"
	"github.com/ducminhle1904/smart-trailing-bot/internal/config"
	"github.com/ducminhle1904/smart-trailing-bot/internal/logger"
	"github.com/ducminhle1904/smart-trailing-bot/internal/monitoring"
	"github.com/ducminhle1904/smart-trailing-bot/internal/trailing"
	"github.com/ducminhle1904/smart-trailing-bot/pkg/reporting"
	"github.com/ducminhle1904/smart-trailing-bot/pkg/types"
)

// statusLogInterval controls how often a NO_OP cycle still writes a
// position status line, to keep the log readable on quiet markets.
const statusLogInterval = 12

// TrailBot drives the trailing engine for one position: poll the broker,
// compute the estimator inputs, ask the engine for an instruction, and
// actuate it. All engine state changes go through Confirm so a rejected
// broker call simply retries next cycle.
type TrailBot struct {
	cfg    *config.Config
	broker broker.Broker
	engine *trailing.Engine
	inputs *trailing.InputProvider
	logger *logger.Logger

	ticket  string
	symbol  string
	journal *reporting.Journal

	// Bot control
	running  bool
	stopChan chan struct{}
	doneChan chan struct{}

	// Session counters for the closing summary
	cyclesRun  int
	stopsMoved int
	finalStop  float64
	noopStreak int
}

// NewTrailBot creates a trailing bot for the given open position
func NewTrailBot(cfg *config.Config, brk broker.Broker, pos *types.Position) (*TrailBot, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if brk == nil {
		return nil, fmt.Errorf("broker connection is required")
	}
	if pos == nil {
		return nil, fmt.Errorf("a position to trail is required")
	}

	strategy, err := trailing.CreateStrategy(cfg.Trailing)
	if err != nil {
		return nil, fmt.Errorf("failed to create trailing strategy: %w", err)
	}

	engine, err := trailing.NewEngine(cfg.Trailing, strategy)
	if err != nil {
		return nil, err
	}

	fileLogger, err := logger.NewLogger(pos.Symbol, pos.Ticket, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	bot := &TrailBot{
		cfg:      cfg,
		broker:   brk,
		engine:   engine,
		inputs:   trailing.NewInputProvider(brk, cfg.Trailing),
		logger:   fileLogger,
		ticket:   pos.Ticket,
		symbol:   pos.Symbol,
		journal:  reporting.NewJournal(),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
	bot.finalStop = pos.StopLoss

	return bot, nil
}

// Journal returns the session journal for reporting
func (bot *TrailBot) Journal() *reporting.Journal {
	return bot.journal
}

// Done is closed when the trailing loop has fully exited, either after
// Stop or because the position closed on its own.
func (bot *TrailBot) Done() <-chan struct{} {
	return bot.doneChan
}

// Start begins the trailing loop in a background goroutine
func (bot *TrailBot) Start() error {
	if bot.running {
		return fmt.Errorf("bot is already running")
	}
	bot.running = true

	bot.logger.Info("Trailing %s (ticket %s) on %s every %s, strategy=%s, dry_run=%v",
		bot.symbol, bot.ticket, bot.broker.GetName(), bot.cfg.Trailing.CheckInterval,
		bot.cfg.Trailing.Strategy, bot.cfg.DryRun)
	if bot.cfg.DryRun {
		fmt.Println("🧪 DRY RUN: decisions are logged but never sent to the exchange")
	}

	go bot.trailLoop()

	return nil
}

// Stop gracefully stops the trailing loop and waits for it to exit
func (bot *TrailBot) Stop() {
	if !bot.running {
		return
	}
	bot.running = false

	close(bot.stopChan)
	<-bot.doneChan
}

// trailLoop is the main poll loop. One decision per tick, first tick
// immediately.
func (bot *TrailBot) trailLoop() {
	defer close(bot.doneChan)
	defer bot.closeSession()

	ticker := time.NewTicker(bot.cfg.Trailing.CheckInterval)
	defer ticker.Stop()

	if !bot.runCycle() {
		return
	}

	for {
		select {
		case <-bot.stopChan:
			return
		case <-ticker.C:
			if !bot.runCycle() {
				return
			}
		}
	}
}

// runCycle performs one full poll-decide-actuate pass. Returns false
// when the loop should end (position closed).
func (bot *TrailBot) runCycle() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	bot.cyclesRun++

	pos, err := bot.broker.GetPosition(ctx, bot.ticket)
	if err != nil {
		bot.logger.Error("Failed to fetch position: %v", err)
		monitoring.RecordError("position_fetch")
		return true
	}
	if pos == nil {
		bot.logger.Info("Position %s no longer exists, ending session", bot.ticket)
		bot.engine.Forget(bot.ticket)
		return false
	}

	if bot.cfg.CommentTag != "" && !strings.Contains(pos.Comment, bot.cfg.CommentTag) {
		bot.logger.Status("Skipping %s: comment %q lacks tag %q", pos.Ticket, pos.Comment, bot.cfg.CommentTag)
		return true
	}

	meta, err := bot.broker.GetSymbolMetadata(ctx, pos.Symbol)
	if err != nil {
		// Without trading rules no stop can be validated; sit this cycle out.
		bot.logger.Warning("Symbol metadata unavailable for %s: %v", pos.Symbol, err)
		monitoring.RecordError("symbol_metadata")
		return true
	}

	in := &trailing.DecisionInput{
		Position:    pos,
		Meta:        meta,
		ATR:         bot.inputs.ATR(ctx, pos.Symbol, meta),
		VolumeRatio: bot.inputs.VolumeRatio(ctx, pos.Symbol),
		Now:         time.Now(),
	}

	instr := bot.engine.Decide(in)

	monitoring.RecordDecision(pos.Symbol, instr.Type.String())
	monitoring.UpdatePosition(pos.Symbol, pos.CurrentPrice, pos.StopLoss, pos.Profit)

	executed := bot.actuate(ctx, pos, meta, instr)

	bot.journal.Record(reporting.DecisionRecord{
		Timestamp:    in.Now,
		Ticket:       pos.Ticket,
		Symbol:       pos.Symbol,
		Side:         pos.Side.String(),
		Instruction:  instr.Type.String(),
		StopPrice:    instr.StopPrice,
		CurrentPrice: pos.CurrentPrice,
		Profit:       pos.Profit,
		Executed:     executed,
		Reason:       instr.Reason,
	})

	return true
}

// actuate applies the instruction against the broker (or pretends to in
// dry-run mode) and reports whether it took effect.
func (bot *TrailBot) actuate(ctx context.Context, pos *types.Position, meta *types.SymbolMetadata, instr trailing.Instruction) bool {
	switch instr.Type {
	case trailing.NoOp:
		bot.noopStreak++
		if bot.noopStreak%statusLogInterval == 1 {
			bot.logger.Status("%s %s | price %.5f | SL %.5f | profit %+.2f | %s",
				pos.Symbol, pos.Side, pos.CurrentPrice, pos.StopLoss, pos.Profit, instr.Reason)
		}
		return false

	case trailing.SetStop:
		bot.noopStreak = 0
		if bot.cfg.DryRun {
			bot.logger.Trade("[DRY RUN] Would set stop %.5f (%s)", instr.StopPrice, instr.Reason)
			bot.engine.Confirm(pos.Ticket, instr)
			bot.finalStop = instr.StopPrice
			return true
		}
		if err := bot.broker.ModifyStopLoss(ctx, pos, instr.StopPrice, meta.Digits); err != nil {
			bot.logger.Error("Failed to set stop %.5f: %v", instr.StopPrice, err)
			monitoring.RecordError("stop_modify")
			return false
		}
		bot.engine.Confirm(pos.Ticket, instr)
		bot.stopsMoved++
		bot.finalStop = instr.StopPrice
		locked := trailing.ProfitIfStopHit(pos, meta, instr.StopPrice, bot.cfg.Trailing.EstimateCommission(pos))
		bot.logger.LogStopMove(pos.Side.String(), pos.StopLoss, instr.StopPrice, pos.CurrentPrice, locked, instr.Reason)
		monitoring.RecordStopMove(pos.Symbol, pos.Side.String())
		return true

	case trailing.RemoveStop:
		bot.noopStreak = 0
		if bot.cfg.DryRun {
			bot.logger.Trade("[DRY RUN] Would remove stop %.5f (%s)", pos.StopLoss, instr.Reason)
			bot.engine.Confirm(pos.Ticket, instr)
			bot.finalStop = 0
			return true
		}
		if err := bot.broker.ModifyStopLoss(ctx, pos, 0, meta.Digits); err != nil {
			bot.logger.Error("Failed to remove stop: %v", err)
			monitoring.RecordError("stop_modify")
			return false
		}
		bot.engine.Confirm(pos.Ticket, instr)
		bot.finalStop = 0
		bot.logger.Trade("Removed stop %.5f: %s", pos.StopLoss, instr.Reason)
		return true
	}

	return false
}

// closeSession writes the end-of-session footer and releases the logger
func (bot *TrailBot) closeSession() {
	bot.logger.LogSessionEnd(bot.cyclesRun, bot.stopsMoved, bot.finalStop)
	bot.logger.Close()
}
