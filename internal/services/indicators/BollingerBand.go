package indicators

import "math"

type BBandsService struct{}

type BBandsResult struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
	Width  []float64 // Volatility indicator
}

func NewBBandsService() *BBandsService {
	return &BBandsService{}
}

// Calculate computes Bollinger Bands: SMA middle band plus/minus
// deviations times the rolling standard deviation over the same window.
func (s *BBandsService) Calculate(prices []float64, period int, deviations float64) *BBandsResult {
	if period <= 0 || len(prices) < period {
		return nil
	}

	upper := nanSlice(len(prices))
	middle := nanSlice(len(prices))
	lower := nanSlice(len(prices))
	width := nanSlice(len(prices))

	for i := period - 1; i < len(prices); i++ {
		subset := prices[i-period+1 : i+1]

		sum := 0.0
		for _, price := range subset {
			sum += price
		}
		sma := sum / float64(period)
		middle[i] = sma

		squareSum := 0.0
		for _, price := range subset {
			diff := price - sma
			squareSum += diff * diff
		}
		stdDev := math.Sqrt(squareSum / float64(period))

		upper[i] = sma + (deviations * stdDev)
		lower[i] = sma - (deviations * stdDev)
		width[i] = (upper[i] - lower[i]) / middle[i]
	}

	return &BBandsResult{
		Upper:  upper,
		Middle: middle,
		Lower:  lower,
		Width:  width,
	}
}
