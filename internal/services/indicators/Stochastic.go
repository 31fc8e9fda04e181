package indicators

import (
	"math"

	"TradeSimBot/internal/models"
)

type StochasticService struct {
	sma *SMAService
}

type StochasticResult struct {
	K []float64 // fast line from rolling high/low extremes
	D []float64 // moving average of K
}

func NewStochasticService() *StochasticService {
	return &StochasticService{
		sma: NewSMAService(),
	}
}

// Calculate computes the Stochastic Oscillator. %K is the position of the
// close within the rolling high/low range of the last period candles,
// scaled to [0,100]. %D is an SMA of %K over the smoothing window. A flat
// window (high == low) yields a neutral 50.
func (s *StochasticService) Calculate(candles []models.Candle, period, smoothing int) *StochasticResult {
	if period <= 0 || smoothing <= 0 || len(candles) < period+smoothing-1 {
		return nil
	}

	k := nanSlice(len(candles))

	for i := period - 1; i < len(candles); i++ {
		lowMin := math.Inf(1)
		highMax := math.Inf(-1)
		for _, c := range candles[i-period+1 : i+1] {
			lowMin = math.Min(lowMin, c.Low)
			highMax = math.Max(highMax, c.High)
		}

		if highMax == lowMin {
			k[i] = 50
			continue
		}
		k[i] = 100 * (candles[i].Close - lowMin) / (highMax - lowMin)
	}

	// Windows overlapping the %K warm-up sum to NaN, so %D stays NaN
	// until index period+smoothing-2.
	d := s.sma.Calculate(k, smoothing)

	return &StochasticResult{K: k, D: d}
}
