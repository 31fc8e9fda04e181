package strategy

import (
	"TradeSimBot/internal/models"
	"TradeSimBot/internal/services/indicators"
)

// MACDStrategy enters long when the MACD line crosses above its signal
// line and exits once the MACD line turns negative.
type MACDStrategy struct {
	macd *indicators.MACDService

	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

func init() {
	Register("macd", func() Strategy { return NewMACDStrategy() })
}

func NewMACDStrategy() *MACDStrategy {
	return &MACDStrategy{
		macd:         indicators.NewMACDService(),
		fastPeriod:   12,
		slowPeriod:   26,
		signalPeriod: 9,
	}
}

func (s *MACDStrategy) Name() string {
	return "macd"
}

func (s *MACDStrategy) Side() string {
	return models.PositionSideLong
}

func (s *MACDStrategy) Warmup() int {
	return s.slowPeriod + s.signalPeriod
}

func (s *MACDStrategy) PopulateIndicators(series *Series) error {
	result := s.macd.Calculate(series.Closes(), s.fastPeriod, s.slowPeriod, s.signalPeriod)
	if result == nil {
		return nil
	}

	if err := series.SetColumn("macd", result.MACD); err != nil {
		return err
	}
	if err := series.SetColumn("macd_signal", result.Signal); err != nil {
		return err
	}
	return series.SetColumn("macd_histogram", result.Histogram)
}

func (s *MACDStrategy) PopulateEntrySignals(series *Series) error {
	signals := make([]bool, series.Len())

	for i := 1; i < series.Len(); i++ {
		macd := series.Value("macd", i)
		signal := series.Value("macd_signal", i)
		prevMACD := series.Value("macd", i-1)
		prevSignal := series.Value("macd_signal", i-1)

		if !indicators.Defined(macd) || !indicators.Defined(signal) ||
			!indicators.Defined(prevMACD) || !indicators.Defined(prevSignal) {
			continue
		}

		// Bullish crossover
		signals[i] = macd > signal && prevMACD <= prevSignal
	}

	return series.SetEntrySignals(signals)
}

func (s *MACDStrategy) PopulateExitSignals(series *Series) error {
	signals := make([]bool, series.Len())

	for i := 0; i < series.Len(); i++ {
		macd := series.Value("macd", i)
		if !indicators.Defined(macd) {
			continue
		}
		signals[i] = macd < 0
	}

	return series.SetExitSignals(signals)
}
