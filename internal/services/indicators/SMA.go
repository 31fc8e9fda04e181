package indicators

type SMAService struct{}

func NewSMAService() *SMAService {
	return &SMAService{}
}

// Calculate computes the simple moving average over a rolling window.
// The first period-1 entries are NaN.
func (s *SMAService) Calculate(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return nil
	}

	sma := nanSlice(len(prices))

	for i := period - 1; i < len(prices); i++ {
		sum := 0.0
		for _, price := range prices[i-period+1 : i+1] {
			sum += price
		}
		sma[i] = sum / float64(period)
	}

	return sma
}

// CalculateOne returns the mean of the trailing window only.
func (s *SMAService) CalculateOne(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period {
		return 0
	}

	sum := 0.0
	for _, price := range prices[len(prices)-period:] {
		sum += price
	}
	return sum / float64(period)
}
