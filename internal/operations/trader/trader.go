package trader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"TradeSimBot/internal/models"
	"TradeSimBot/internal/operations/position"
	"TradeSimBot/internal/services/strategy"

	"go.uber.org/zap"
)

// minWindowSize keeps the fetched candle window usable even for
// strategies with no warm-up at all.
const minWindowSize = 50

// Trader is the live/dry-run stepping loop. Each tick it fetches the
// recent candle window, recomputes signals, and executes exactly one step
// against the position manager, in the same step order the backtest
// engine uses. No two steps run concurrently; cancellation takes effect between
// steps only, never mid-step.
type Trader struct {
	source   CandleSource
	orders   OrderPlacer // nil in dry-run mode
	strategy strategy.Strategy
	manager  *position.Manager
	settings Settings
	logger   *zap.Logger

	lastStepTime     time.Time
	consecutiveFails int
	lastClose        float64
}

func NewTrader(source CandleSource, orders OrderPlacer, strat strategy.Strategy, manager *position.Manager, settings Settings, logger *zap.Logger) *Trader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if settings.WindowSize < strat.Warmup()+1 {
		settings.WindowSize = strat.Warmup() * 4
	}
	if settings.WindowSize < minWindowSize {
		settings.WindowSize = minWindowSize
	}
	return &Trader{
		source:   source,
		orders:   orders,
		strategy: strat,
		manager:  manager,
		settings: settings,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled or the consecutive-failure threshold
// is exceeded. On cancellation every open position is closed at the last
// seen price before returning.
func (t *Trader) Run(ctx context.Context) error {
	mode := "dry-run"
	if t.orders != nil {
		mode = "live"
	}
	t.logger.Info("starting trader",
		zap.String("mode", mode),
		zap.String("symbol", t.settings.Symbol),
		zap.String("strategy", t.strategy.Name()),
		zap.Duration("interval", t.settings.CheckInterval),
	)

	ticker := time.NewTicker(t.settings.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.shutdown()
			return ctx.Err()
		case <-ticker.C:
			if err := t.step(ctx); err != nil {
				t.consecutiveFails++
				t.logger.Error("trading step failed",
					zap.Error(err),
					zap.Int("consecutive_failures", t.consecutiveFails),
				)
				if t.consecutiveFails >= t.settings.MaxConsecutiveErrors {
					t.shutdown()
					return fmt.Errorf("aborting after %d consecutive step failures: %w", t.consecutiveFails, err)
				}
				continue
			}
			t.consecutiveFails = 0
		}
	}
}

// step executes one full simulation step synchronously.
func (t *Trader) step(ctx context.Context) error {
	candles, err := t.source.FetchRecent(ctx, t.settings.Symbol, t.settings.TimeFrame, t.settings.WindowSize)
	if err != nil {
		return fmt.Errorf("fetch candles: %w", err)
	}
	if len(candles) == 0 {
		return errors.New("candle source returned no data")
	}

	series, err := strategy.NewSeries(candles)
	if err != nil {
		return err
	}
	if err := strategy.Analyze(t.strategy, series); err != nil {
		return err
	}

	last := series.Len() - 1
	candle := series.Candle(last)
	t.lastClose = candle.Close

	// One step per candle: a repeated fetch of the same interval is a
	// no-op until the next candle opens.
	if !candle.OpenTime.After(t.lastStepTime) {
		return nil
	}

	closedNow, err := t.manager.CheckExits(candle, series.ExitSignal(last))
	if err != nil {
		return err
	}
	for _, closed := range closedNow {
		if err := t.placeClosingOrder(ctx, closed); err != nil {
			return err
		}
	}

	if series.EntrySignal(last) && t.manager.CanOpen() {
		if err := t.openWithConfirmation(ctx, candle); err != nil {
			return err
		}
	}

	t.lastStepTime = candle.OpenTime
	return nil
}

// openWithConfirmation places the entry order before any local state
// changes, so a venue rejection never leaves a phantom open position.
func (t *Trader) openWithConfirmation(ctx context.Context, candle models.Candle) error {
	side := t.strategy.Side()

	if t.orders != nil {
		quantity := t.manager.PreviewQuantity(candle.Close)
		if err := t.orders.PlaceOrder(ctx, t.settings.Symbol, side, quantity); err != nil {
			return &ExecutionError{Op: "open", Err: err}
		}
	}

	_, err := t.manager.Open(candle, side)
	if errors.Is(err, position.ErrRiskLimitExceeded) {
		// Lost capacity between the check and the open. Skip the entry.
		t.logger.Debug("entry skipped at capacity", zap.String("symbol", t.settings.Symbol))
		return nil
	}
	return err
}

func (t *Trader) placeClosingOrder(ctx context.Context, closed models.Position) error {
	if t.orders == nil {
		return nil
	}

	// Closing a long sells; closing a short buys back.
	side := models.PositionSideShort
	if closed.Side == models.PositionSideShort {
		side = models.PositionSideLong
	}
	if err := t.orders.PlaceOrder(ctx, closed.Symbol, side, closed.Quantity); err != nil {
		return &ExecutionError{Op: "close", Err: err}
	}
	return nil
}

// shutdown closes all open positions at the last seen market price.
func (t *Trader) shutdown() {
	if t.manager.OpenCount() == 0 {
		t.logger.Info("trader stopped")
		return
	}
	if t.lastClose > 0 {
		closed := t.manager.CloseAll(t.lastClose, time.Now().UTC(), models.ExitReasonShutdown)
		t.logger.Info("closed open positions on shutdown", zap.Int("count", len(closed)))
	} else {
		t.logger.Warn("no market price seen; open positions left unclosed", zap.Int("count", t.manager.OpenCount()))
	}
	t.logger.Info("trader stopped")
}
