package trader

import (
	"context"
	"errors"
	"testing"
	"time"

	"TradeSimBot/internal/models"
	"TradeSimBot/internal/operations/position"
	"TradeSimBot/internal/services/strategy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedStrategy signals on the most recent candle only, steered by the
// test between steps.
type scriptedStrategy struct {
	warmup    int
	entryLast bool
	exitLast  bool
}

func (s *scriptedStrategy) Name() string { return "scripted" }
func (s *scriptedStrategy) Side() string { return models.PositionSideLong }
func (s *scriptedStrategy) Warmup() int  { return s.warmup }

func (s *scriptedStrategy) PopulateIndicators(*strategy.Series) error { return nil }

func (s *scriptedStrategy) PopulateEntrySignals(series *strategy.Series) error {
	signals := make([]bool, series.Len())
	if s.entryLast && series.Len() > 0 {
		signals[series.Len()-1] = true
	}
	return series.SetEntrySignals(signals)
}

func (s *scriptedStrategy) PopulateExitSignals(series *strategy.Series) error {
	signals := make([]bool, series.Len())
	if s.exitLast && series.Len() > 0 {
		signals[series.Len()-1] = true
	}
	return series.SetExitSignals(signals)
}

type fakeSource struct {
	candles []models.Candle
	err     error
	calls   int
}

func (f *fakeSource) FetchRecent(ctx context.Context, symbol, timeFrame string, limit int) ([]models.Candle, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.candles, nil
}

type placedOrder struct {
	symbol   string
	side     string
	quantity float64
}

type fakeOrders struct {
	placed []placedOrder
	err    error
}

func (f *fakeOrders) PlaceOrder(ctx context.Context, symbol, side string, quantity float64) error {
	if f.err != nil {
		return f.err
	}
	f.placed = append(f.placed, placedOrder{symbol: symbol, side: side, quantity: quantity})
	return nil
}

func window(step int, closes ...float64) []models.Candle {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, len(closes))
	for i, c := range closes {
		t := base.Add(time.Duration(step+i) * time.Hour)
		candles[i] = models.Candle{
			Symbol:    "BTCUSDT",
			TimeFrame: models.CandleTimeFrame1h,
			OpenTime:  t,
			CloseTime: t.Add(time.Hour),
			Open:      c,
			High:      c + 0.5,
			Low:       c - 0.5,
			Close:     c,
			Volume:    1000,
		}
	}
	return candles
}

func traderManager() *position.Manager {
	return position.NewManager(position.Settings{
		Symbol:        "BTCUSDT",
		Strategy:      "scripted",
		StakeAmount:   100,
		MaxOpenTrades: 1,
		StopLossPct:   -0.05,
		TakeProfitPct: 0.10,
		StopLossFirst: true,
	}, nil, nil)
}

func traderSettings() Settings {
	return Settings{
		Symbol:               "BTCUSDT",
		TimeFrame:            models.CandleTimeFrame1h,
		CheckInterval:        time.Millisecond,
		WindowSize:           10,
		MaxConsecutiveErrors: 3,
	}
}

func TestStep_DryRunEntry(t *testing.T) {
	strat := &scriptedStrategy{entryLast: true}
	source := &fakeSource{candles: window(0, 100, 100, 100)}
	manager := traderManager()

	tr := NewTrader(source, nil, strat, manager, traderSettings(), nil)
	require.NoError(t, tr.step(context.Background()))

	assert.Equal(t, 1, manager.OpenCount())
	pos := manager.OpenPositions()[0]
	assert.Equal(t, 100.0, pos.EntryPrice)
	assert.Equal(t, models.PositionSideLong, pos.Side)
}

func TestStep_LiveEntryPlacesOrder(t *testing.T) {
	strat := &scriptedStrategy{entryLast: true}
	source := &fakeSource{candles: window(0, 100, 100, 100)}
	orders := &fakeOrders{}
	manager := traderManager()

	tr := NewTrader(source, orders, strat, manager, traderSettings(), nil)
	require.NoError(t, tr.step(context.Background()))

	require.Len(t, orders.placed, 1)
	assert.Equal(t, "BTCUSDT", orders.placed[0].symbol)
	assert.Equal(t, models.PositionSideLong, orders.placed[0].side)
	assert.InDelta(t, 1.0, orders.placed[0].quantity, 1e-9)
	assert.Equal(t, 1, manager.OpenCount())
}

func TestStep_EntryOrderRejectionLeavesNoPosition(t *testing.T) {
	strat := &scriptedStrategy{entryLast: true}
	source := &fakeSource{candles: window(0, 100, 100, 100)}
	orders := &fakeOrders{err: errors.New("insufficient margin")}
	manager := traderManager()

	tr := NewTrader(source, orders, strat, manager, traderSettings(), nil)
	err := tr.step(context.Background())

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "open", execErr.Op)
	assert.Equal(t, 0, manager.OpenCount())
}

func TestStep_RepeatedCandleIsNoOp(t *testing.T) {
	strat := &scriptedStrategy{entryLast: true}
	source := &fakeSource{candles: window(0, 100, 100, 100)}
	orders := &fakeOrders{}
	manager := traderManager()

	tr := NewTrader(source, orders, strat, manager, traderSettings(), nil)
	require.NoError(t, tr.step(context.Background()))
	require.NoError(t, tr.step(context.Background()))

	// The second fetch saw the same candle; nothing re-executed
	assert.Len(t, orders.placed, 1)
	assert.Equal(t, 1, manager.OpenCount())
}

func TestStep_SignalExitPlacesClosingOrder(t *testing.T) {
	strat := &scriptedStrategy{entryLast: true}
	source := &fakeSource{candles: window(0, 100, 100, 100)}
	orders := &fakeOrders{}
	manager := traderManager()

	tr := NewTrader(source, orders, strat, manager, traderSettings(), nil)
	require.NoError(t, tr.step(context.Background()))
	require.Equal(t, 1, manager.OpenCount())

	// Next candle: exit signal fires
	strat.entryLast = false
	strat.exitLast = true
	source.candles = window(1, 100, 100, 102)
	require.NoError(t, tr.step(context.Background()))

	assert.Equal(t, 0, manager.OpenCount())
	require.Len(t, orders.placed, 2)
	// Closing a long sells
	assert.Equal(t, models.PositionSideShort, orders.placed[1].side)
	assert.InDelta(t, 1.0, orders.placed[1].quantity, 1e-9)

	trades := manager.ClosedTrades()
	require.Len(t, trades, 1)
	assert.Equal(t, models.ExitReasonSignal, trades[0].ExitReason)
	assert.InDelta(t, 2.0, trades[0].PnL, 1e-9)
}

func TestStep_FetchFailure(t *testing.T) {
	strat := &scriptedStrategy{}
	source := &fakeSource{err: errors.New("connection reset")}

	tr := NewTrader(source, nil, strat, traderManager(), traderSettings(), nil)
	assert.Error(t, tr.step(context.Background()))
}

func TestRun_ConsecutiveFailureThreshold(t *testing.T) {
	strat := &scriptedStrategy{}
	source := &fakeSource{err: errors.New("connection reset")}

	tr := NewTrader(source, nil, strat, traderManager(), traderSettings(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := tr.Run(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, source.calls, 3)
}

func TestRun_CancellationClosesPositions(t *testing.T) {
	strat := &scriptedStrategy{entryLast: true}
	source := &fakeSource{candles: window(0, 100, 100, 100)}
	manager := traderManager()

	tr := NewTrader(source, nil, strat, manager, traderSettings(), nil)
	require.NoError(t, tr.step(context.Background()))
	require.Equal(t, 1, manager.OpenCount())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := tr.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	// Shutdown liquidated at the last seen price
	assert.Equal(t, 0, manager.OpenCount())
	trades := manager.ClosedTrades()
	require.Len(t, trades, 1)
	assert.Equal(t, models.ExitReasonShutdown, trades[0].ExitReason)
	assert.Equal(t, 100.0, trades[0].ExitPrice)
}

func TestNewTrader_WindowSizeDefault(t *testing.T) {
	strat := &scriptedStrategy{warmup: 20}
	settings := traderSettings()
	settings.WindowSize = 0

	tr := NewTrader(&fakeSource{}, nil, strat, traderManager(), settings, nil)
	assert.Equal(t, 80, tr.settings.WindowSize)
}

func TestNewTrader_WindowSizeFloor(t *testing.T) {
	// A zero-warmup strategy must still fetch a non-empty window
	strat := &scriptedStrategy{warmup: 0}
	settings := traderSettings()
	settings.WindowSize = 0

	tr := NewTrader(&fakeSource{}, nil, strat, traderManager(), settings, nil)
	assert.Equal(t, minWindowSize, tr.settings.WindowSize)
}
