package strategy

import (
	"TradeSimBot/internal/models"
	"TradeSimBot/internal/services/indicators"
)

// RSIStrategy enters long on oversold RSI while the faster moving average
// trades above the slower one, and exits on overbought RSI.
type RSIStrategy struct {
	rsi *indicators.RSIService
	sma *indicators.SMAService

	rsiPeriod int
	rsiUpper  float64
	rsiLower  float64
	smaFast   int
	smaSlow   int
}

func init() {
	Register("rsi", func() Strategy { return NewRSIStrategy() })
}

func NewRSIStrategy() *RSIStrategy {
	return &RSIStrategy{
		rsi:       indicators.NewRSIService(),
		sma:       indicators.NewSMAService(),
		rsiPeriod: 14,
		rsiUpper:  70,
		rsiLower:  30,
		smaFast:   20,
		smaSlow:   50,
	}
}

func (s *RSIStrategy) Name() string {
	return "rsi"
}

func (s *RSIStrategy) Side() string {
	return models.PositionSideLong
}

func (s *RSIStrategy) Warmup() int {
	return s.smaSlow
}

func (s *RSIStrategy) PopulateIndicators(series *Series) error {
	closes := series.Closes()

	if rsi := s.rsi.Calculate(closes, s.rsiPeriod); rsi != nil {
		if err := series.SetColumn("rsi", rsi); err != nil {
			return err
		}
	}
	if smaFast := s.sma.Calculate(closes, s.smaFast); smaFast != nil {
		if err := series.SetColumn("sma_fast", smaFast); err != nil {
			return err
		}
	}
	if smaSlow := s.sma.Calculate(closes, s.smaSlow); smaSlow != nil {
		if err := series.SetColumn("sma_slow", smaSlow); err != nil {
			return err
		}
	}
	return nil
}

func (s *RSIStrategy) PopulateEntrySignals(series *Series) error {
	signals := make([]bool, series.Len())

	for i := 0; i < series.Len(); i++ {
		rsi := series.Value("rsi", i)
		smaFast := series.Value("sma_fast", i)
		smaSlow := series.Value("sma_slow", i)

		// Warm-up suppression: any undefined input means no trade.
		if !indicators.Defined(rsi) || !indicators.Defined(smaFast) || !indicators.Defined(smaSlow) {
			continue
		}

		close := series.Candle(i).Close
		signals[i] = rsi < s.rsiLower && close > smaFast && smaFast > smaSlow
	}

	return series.SetEntrySignals(signals)
}

func (s *RSIStrategy) PopulateExitSignals(series *Series) error {
	signals := make([]bool, series.Len())

	for i := 0; i < series.Len(); i++ {
		rsi := series.Value("rsi", i)
		if !indicators.Defined(rsi) {
			continue
		}
		signals[i] = rsi > s.rsiUpper
	}

	return series.SetExitSignals(signals)
}
