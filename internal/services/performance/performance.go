// Package performance reduces a closed-trade log and equity curve to
// summary statistics. Metrics that are undefined for the input (no closed
// trades, zero return variance) report NaN rather than a misleading zero;
// a profit factor with winners and no losers reports +Inf.
package performance

import (
	"math"
	"time"

	"TradeSimBot/internal/models"
)

// EquityPoint is one per-step snapshot: realized balance plus
// mark-to-market value of open positions.
type EquityPoint struct {
	Timestamp time.Time
	Balance   float64
	Equity    float64
}

type Summary struct {
	TotalTrades   int
	WinningTrades int
	LosingTrades  int

	WinRate      float64 // NaN with no closed trades
	ProfitFactor float64 // +Inf with no losers; NaN with no trades

	TotalPnL        float64
	TotalPnLPercent float64 // relative to starting balance
	FinalBalance    float64

	AvgTradeDuration time.Duration
	MaxDrawdown      float64
	SharpeRatio      float64 // NaN when return stddev is zero
}

// Calculate reduces the run's closed trades and equity curve.
// periodsPerYear annualizes the Sharpe estimate and depends on the candle
// timeframe, so it is a configuration input.
func Calculate(trades []models.Position, equity []EquityPoint, initialBalance, periodsPerYear float64) Summary {
	summary := Summary{
		WinRate:      math.NaN(),
		ProfitFactor: math.NaN(),
		SharpeRatio:  math.NaN(),
		FinalBalance: initialBalance,
	}

	totalPnL := 0.0
	grossProfit := 0.0
	grossLoss := 0.0
	var totalDuration time.Duration

	for _, trade := range trades {
		totalPnL += trade.PnL
		totalDuration += trade.Duration()
		if trade.PnL > 0 {
			summary.WinningTrades++
			grossProfit += trade.PnL
		} else {
			summary.LosingTrades++
			grossLoss += math.Abs(trade.PnL)
		}
	}

	summary.TotalTrades = len(trades)
	summary.TotalPnL = totalPnL
	summary.TotalPnLPercent = totalPnL / initialBalance
	summary.FinalBalance = initialBalance + totalPnL

	if len(trades) > 0 {
		summary.WinRate = float64(summary.WinningTrades) / float64(len(trades))
		summary.AvgTradeDuration = totalDuration / time.Duration(len(trades))

		if grossLoss > 0 {
			summary.ProfitFactor = grossProfit / grossLoss
		} else if summary.WinningTrades > 0 {
			summary.ProfitFactor = math.Inf(1)
		}
	}

	summary.MaxDrawdown = maxDrawdown(equity, initialBalance)
	summary.SharpeRatio = sharpeRatio(equity, periodsPerYear)

	return summary
}

func maxDrawdown(equity []EquityPoint, initialBalance float64) float64 {
	peak := initialBalance
	maxDD := 0.0
	for _, point := range equity {
		if point.Equity > peak {
			peak = point.Equity
		}
		drawdown := (peak - point.Equity) / peak
		if drawdown > maxDD {
			maxDD = drawdown
		}
	}
	return maxDD
}

// sharpeRatio estimates mean(returns)/stddev(returns)*sqrt(periodsPerYear)
// over per-snapshot equity returns, using sample variance.
func sharpeRatio(equity []EquityPoint, periodsPerYear float64) float64 {
	if len(equity) < 3 {
		return math.NaN()
	}

	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Equity
		if prev == 0 {
			return math.NaN()
		}
		returns = append(returns, (equity[i].Equity-prev)/prev)
	}

	avgReturn := 0.0
	for _, r := range returns {
		avgReturn += r
	}
	avgReturn /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		diff := r - avgReturn
		variance += diff * diff
	}
	variance /= float64(len(returns) - 1)
	stdDev := math.Sqrt(variance)

	if stdDev == 0 {
		return math.NaN()
	}

	return avgReturn / stdDev * math.Sqrt(periodsPerYear)
}
