package indicators

import (
	"math"

	"TradeSimBot/internal/models"
)

type ATRService struct{}

func NewATRService() *ATRService {
	return &ATRService{}
}

// Calculate computes the Wilder-smoothed Average True Range, where
// true range = max(high-low, |high-prev_close|, |low-prev_close|).
// The first candle has no previous close, so its true range is high-low.
// The ATR is seeded with a simple mean of the first period true ranges.
func (s *ATRService) Calculate(candles []models.Candle, period int) []float64 {
	if period <= 0 || len(candles) < period {
		return nil
	}

	atr := nanSlice(len(candles))

	tr := make([]float64, len(candles))
	tr[0] = candles[0].High - candles[0].Low
	for i := 1; i < len(candles); i++ {
		prevClose := candles[i-1].Close
		highLow := candles[i].High - candles[i].Low
		highClose := math.Abs(candles[i].High - prevClose)
		lowClose := math.Abs(candles[i].Low - prevClose)
		tr[i] = math.Max(highLow, math.Max(highClose, lowClose))
	}

	sum := 0.0
	for _, r := range tr[:period] {
		sum += r
	}
	atr[period-1] = sum / float64(period)

	for i := period; i < len(candles); i++ {
		atr[i] = (atr[i-1]*float64(period-1) + tr[i]) / float64(period)
	}

	return atr
}
