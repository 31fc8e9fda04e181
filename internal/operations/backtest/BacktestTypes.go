package backtest

import (
	"TradeSimBot/internal/models"
	"TradeSimBot/internal/services/performance"
)

// Config holds the simulation inputs. The engine itself carries no
// ambient state; everything is handed in at construction.
type Config struct {
	InitialBalance float64
	PeriodsPerYear float64

	// AllowSameBarReuse lets a slot freed by a same-candle close be
	// reused by a same-candle entry. Disabling it imposes a one-step
	// lag on freed capacity.
	AllowSameBarReuse bool
}

// Results is everything a run produces: the summary, the immutable
// closed-trade log, and the full equity curve for downstream reporting.
type Results struct {
	Summary     performance.Summary
	Trades      []models.Position
	EquityCurve []performance.EquityPoint
}
