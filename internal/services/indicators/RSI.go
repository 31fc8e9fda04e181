package indicators

import "math"

type RSIService struct{}

func NewRSIService() *RSIService {
	return &RSIService{}
}

// Calculate computes Wilder's RSI. Average gain and loss are seeded with a
// simple mean over the first period price changes, then smoothed with
// Wilder's factor (period-1)/period. Output is bounded to [0,100]; the
// first period entries are NaN.
func (s *RSIService) Calculate(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period+1 {
		return nil
	}

	rsi := nanSlice(len(prices))

	// Seed averages from the first period changes
	avgGain := 0.0
	avgLoss := 0.0
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	rsi[period] = s.value(avgGain, avgLoss)

	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain := 0.0
		loss := 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}

		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		rsi[i] = s.value(avgGain, avgLoss)
	}

	return rsi
}

func (s *RSIService) value(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// IsOverbought and IsOversold use the conventional 70/30 levels.
func (s *RSIService) IsOverbought(value float64) bool {
	return !math.IsNaN(value) && value >= 70
}

func (s *RSIService) IsOversold(value float64) bool {
	return !math.IsNaN(value) && value <= 30
}
