package bot

import (
	"context"
	"os"
	"testing"

	"github.com/ducminhle1904/smart-trailing-bot/internal/config"
	"github.com/ducminhle1904/smart-trailing-bot/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBroker is a scriptable in-memory broker for loop tests
type fakeBroker struct {
	position *types.Position // nil = closed
	meta     *types.SymbolMetadata
	metaErr  error
	bars     []types.OHLCV

	stopCalls []float64 // stop prices passed to ModifyStopLoss
}

func (f *fakeBroker) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]types.OHLCV, error) {
	return f.bars, nil
}

func (f *fakeBroker) GetSymbolMetadata(ctx context.Context, symbol string) (*types.SymbolMetadata, error) {
	if f.metaErr != nil {
		return nil, f.metaErr
	}
	return f.meta, nil
}

func (f *fakeBroker) GetPosition(ctx context.Context, ticket string) (*types.Position, error) {
	if f.position == nil {
		return nil, nil
	}
	snapshot := *f.position
	return &snapshot, nil
}

func (f *fakeBroker) ListPositions(ctx context.Context) ([]types.Position, error) {
	if f.position == nil {
		return nil, nil
	}
	return []types.Position{*f.position}, nil
}

func (f *fakeBroker) ModifyStopLoss(ctx context.Context, pos *types.Position, stopLoss float64, digits int) error {
	f.stopCalls = append(f.stopCalls, stopLoss)
	f.position.StopLoss = stopLoss
	return nil
}

func (f *fakeBroker) GetName() string {
	return "fake"
}

func testBroker() *fakeBroker {
	return &fakeBroker{
		position: &types.Position{
			Ticket:       "EURUSD-BUY",
			Symbol:       "EURUSD",
			Side:         types.SideLong,
			Volume:       0.1,
			EntryPrice:   1.10000,
			CurrentPrice: 1.10800,
			Profit:       60.0,
		},
		meta: &types.SymbolMetadata{
			Symbol:       "EURUSD",
			Digits:       5,
			Point:        0.00001,
			ContractSize: 100000,
			MinStopUnits: 10,
		},
	}
}

func testConfig() *config.Config {
	cfg, _ := config.Load("")
	cfg.DryRun = false
	cfg.Exchange.APIKey = "k"
	cfg.Exchange.APISecret = "s"
	return cfg
}

func newTestBot(t *testing.T, cfg *config.Config, brk *fakeBroker) *TrailBot {
	t.Helper()
	// session logs land in a scratch dir
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(orig) })

	bot, err := NewTrailBot(cfg, brk, brk.position)
	require.NoError(t, err)
	t.Cleanup(func() { bot.logger.Close() })
	return bot
}

func TestRunCycle_PlacesInitialStop(t *testing.T) {
	brk := testBroker()
	bot := newTestBot(t, testConfig(), brk)

	alive := bot.runCycle()

	assert.True(t, alive)
	require.Len(t, brk.stopCalls, 1)
	// Required profit 1.00 over 0.1 lots × 100000: entry + 0.00010
	assert.InDelta(t, 1.10010, brk.stopCalls[0], 1e-9)
	assert.True(t, bot.engine.Owns("EURUSD-BUY"))
}

func TestRunCycle_TrailsAfterInitialStop(t *testing.T) {
	brk := testBroker()
	bot := newTestBot(t, testConfig(), brk)

	require.True(t, bot.runCycle()) // places the initial stop

	// Price advances; without bar history the ATR falls back to
	// point × 150 = 0.00150, distance 3 × 0.00150 = 0.00450
	brk.position.CurrentPrice = 1.11500
	brk.position.Profit = 150.0
	require.True(t, bot.runCycle())

	require.Len(t, brk.stopCalls, 2)
	assert.InDelta(t, 1.11050, brk.stopCalls[1], 1e-9)
}

func TestRunCycle_RatchetHoldsOnPullback(t *testing.T) {
	brk := testBroker()
	bot := newTestBot(t, testConfig(), brk)

	require.True(t, bot.runCycle())
	calls := len(brk.stopCalls)

	// Pullback: candidate below the stored stop, no broker call
	brk.position.CurrentPrice = 1.10100
	brk.position.Profit = 10.0
	require.True(t, bot.runCycle())

	assert.Len(t, brk.stopCalls, calls)
}

func TestRunCycle_RemovesUntrackedStopBelowThreshold(t *testing.T) {
	brk := testBroker()
	brk.position.Profit = 0.05
	brk.position.StopLoss = 1.09900
	bot := newTestBot(t, testConfig(), brk)

	require.True(t, bot.runCycle())

	require.Len(t, brk.stopCalls, 1)
	assert.Equal(t, 0.0, brk.stopCalls[0])
	assert.Equal(t, 0.0, brk.position.StopLoss)
}

func TestRunCycle_PositionClosedEndsLoop(t *testing.T) {
	brk := testBroker()
	bot := newTestBot(t, testConfig(), brk)

	require.True(t, bot.runCycle())
	brk.position = nil

	assert.False(t, bot.runCycle())
}

func TestRunCycle_MetadataErrorSkipsCycle(t *testing.T) {
	brk := testBroker()
	brk.metaErr = assert.AnError
	bot := newTestBot(t, testConfig(), brk)

	assert.True(t, bot.runCycle())
	assert.Empty(t, brk.stopCalls)
}

func TestRunCycle_DryRunNeverTouchesBroker(t *testing.T) {
	cfg := testConfig()
	cfg.DryRun = true
	cfg.Exchange.APIKey = ""
	cfg.Exchange.APISecret = ""

	brk := testBroker()
	bot := newTestBot(t, cfg, brk)

	require.True(t, bot.runCycle())

	assert.Empty(t, brk.stopCalls)
	// The simulated placement still drives the engine state machine
	assert.True(t, bot.engine.Owns("EURUSD-BUY"))
}

func TestRunCycle_CommentTagFilter(t *testing.T) {
	cfg := testConfig()
	cfg.CommentTag = "trail-me"

	brk := testBroker()
	brk.position.Comment = "manual entry"
	bot := newTestBot(t, cfg, brk)

	require.True(t, bot.runCycle())
	assert.Empty(t, brk.stopCalls)

	brk.position.Comment = "trail-me v2"
	require.True(t, bot.runCycle())
	assert.Len(t, brk.stopCalls, 1)
}

func TestRunCycle_JournalRecordsDecisions(t *testing.T) {
	brk := testBroker()
	bot := newTestBot(t, testConfig(), brk)

	require.True(t, bot.runCycle())

	records := bot.Journal().Records()
	require.Len(t, records, 1)
	assert.Equal(t, "SET_STOP", records[0].Instruction)
	assert.True(t, records[0].Executed)
	assert.Equal(t, "EURUSD-BUY", records[0].Ticket)
}

func TestNewTrailBot_Validation(t *testing.T) {
	brk := testBroker()

	_, err := NewTrailBot(nil, brk, brk.position)
	assert.Error(t, err)

	_, err = NewTrailBot(testConfig(), nil, brk.position)
	assert.Error(t, err)

	_, err = NewTrailBot(testConfig(), brk, nil)
	assert.Error(t, err)
}
