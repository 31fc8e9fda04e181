package indicators

import "math"

// EMAService provides Exponential Moving Average calculations
type EMAService struct{}

// NewEMAService creates a new EMA service instance
func NewEMAService() *EMAService {
	return &EMAService{}
}

// Calculate computes EMA for the entire series with smoothing factor
// 2/(period+1). The EMA is seeded with an SMA over the first full window;
// everything before that is NaN. A NaN prefix in the input (an indicator
// built on another indicator) shifts the seed forward instead of poisoning
// the whole output.
func (s *EMAService) Calculate(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return nil
	}

	ema := nanSlice(len(prices))

	start := firstDefined(prices)
	if start < 0 || len(prices)-start < period {
		return ema
	}

	multiplier := s.getMultiplier(period)

	// Seed with SMA of the first defined window
	sum := 0.0
	for _, price := range prices[start : start+period] {
		sum += price
	}
	ema[start+period-1] = sum / float64(period)

	for i := start + period; i < len(prices); i++ {
		ema[i] = s.calculatePoint(prices[i], ema[i-1], multiplier)
	}

	return ema
}

// CalculateOne advances a running EMA by a single price.
func (s *EMAService) CalculateOne(price, prevEMA float64, period int) float64 {
	if period <= 0 || math.IsNaN(prevEMA) {
		return math.NaN()
	}
	return s.calculatePoint(price, prevEMA, s.getMultiplier(period))
}

func (s *EMAService) getMultiplier(period int) float64 {
	return 2.0 / float64(period+1)
}

func (s *EMAService) calculatePoint(price, prevEMA, multiplier float64) float64 {
	return (price-prevEMA)*multiplier + prevEMA
}
