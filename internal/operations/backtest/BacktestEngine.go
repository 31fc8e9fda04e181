package backtest

import (
	"fmt"

	"TradeSimBot/internal/models"
	"TradeSimBot/internal/operations/position"
	"TradeSimBot/internal/services/performance"
	"TradeSimBot/internal/services/strategy"

	"go.uber.org/zap"
)

// Engine drives one strategy over one ordered candle sequence. The run is
// single-threaded and strictly sequential: identical candles, strategy
// and configuration yield a bit-identical summary.
type Engine struct {
	strategy strategy.Strategy
	manager  *position.Manager
	config   Config
	logger   *zap.Logger
}

func NewEngine(strat strategy.Strategy, manager *position.Manager, config Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		strategy: strat,
		manager:  manager,
		config:   config,
		logger:   logger,
	}
}

// Run simulates the whole candle sequence. Per candle the fixed order is:
// risk exits first, then the entry if a slot is free, then the equity
// snapshot. Exits-before-entries is deliberate: a slot freed by a
// same-candle close can be reused by a same-candle entry (configurable).
func (e *Engine) Run(candles []models.Candle) (*Results, error) {
	if len(candles) == 0 {
		return nil, models.NewDataError("empty candle sequence")
	}

	series, err := strategy.NewSeries(candles)
	if err != nil {
		return nil, err
	}
	if err := strategy.Analyze(e.strategy, series); err != nil {
		return nil, fmt.Errorf("strategy %q: %w", e.strategy.Name(), err)
	}

	e.logger.Info("starting backtest",
		zap.String("strategy", e.strategy.Name()),
		zap.Int("candles", len(candles)),
		zap.Float64("initial_balance", e.config.InitialBalance),
	)

	equityCurve := make([]performance.EquityPoint, 0, len(candles))

	for i := 0; i < series.Len(); i++ {
		candle := series.Candle(i)

		closedNow, err := e.manager.CheckExits(candle, series.ExitSignal(i))
		if err != nil {
			return nil, err
		}

		if series.EntrySignal(i) {
			// The reuse knob only withholds capacity freed by this
			// candle's closes; a slot that was already free before the
			// exits ran admits the entry either way.
			reusesFreedSlot := e.manager.OpenCount()+len(closedNow) >= e.manager.MaxOpenTrades()
			blocked := !e.config.AllowSameBarReuse && len(closedNow) > 0 && reusesFreedSlot
			if !blocked {
				_, err := e.manager.Open(candle, e.strategy.Side())
				if err != nil && err != position.ErrRiskLimitExceeded {
					return nil, err
				}
			}
		}

		balance := e.config.InitialBalance + e.manager.RealizedPnL()
		equityCurve = append(equityCurve, performance.EquityPoint{
			Timestamp: candle.OpenTime,
			Balance:   balance,
			Equity:    balance + e.manager.UnrealizedPnL(candle.Close),
		})
	}

	// Liquidate whatever is still open at the final close so the trade
	// log accounts for every entry.
	last := series.Candle(series.Len() - 1)
	e.manager.CloseAll(last.Close, last.OpenTime, models.ExitReasonEndOfData)

	trades := e.manager.ClosedTrades()
	summary := performance.Calculate(trades, equityCurve, e.config.InitialBalance, e.config.PeriodsPerYear)

	e.logger.Info("backtest finished",
		zap.Int("trades", summary.TotalTrades),
		zap.Float64("total_pnl", summary.TotalPnL),
		zap.Float64("final_balance", summary.FinalBalance),
	)

	return &Results{
		Summary:     summary,
		Trades:      trades,
		EquityCurve: equityCurve,
	}, nil
}
