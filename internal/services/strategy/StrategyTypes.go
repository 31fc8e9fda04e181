package strategy

import (
	"math"

	"TradeSimBot/internal/models"
)

// Series is the shared time-series table a strategy works against: the
// candle sequence plus named indicator columns and the entry/exit signal
// pair. Every column is validated to be index-aligned with the candles;
// misalignment is a DataError, never silently truncated.
type Series struct {
	candles []models.Candle
	columns map[string][]float64

	entrySignals []bool
	exitSignals  []bool
}

// NewSeries validates the candle sequence (ascending timestamps, no
// duplicates, positive prices) and wraps it in an empty table.
func NewSeries(candles []models.Candle) (*Series, error) {
	for i := range candles {
		if err := candles[i].Validate(); err != nil {
			return nil, err
		}
		if i > 0 && !candles[i].OpenTime.After(candles[i-1].OpenTime) {
			return nil, models.NewDataError("non-monotonic timestamp at index %d (%s then %s)",
				i,
				candles[i-1].OpenTime.Format("2006-01-02 15:04:05"),
				candles[i].OpenTime.Format("2006-01-02 15:04:05"))
		}
	}

	return &Series{
		candles: candles,
		columns: make(map[string][]float64),
	}, nil
}

func (s *Series) Len() int {
	return len(s.candles)
}

func (s *Series) Candle(i int) models.Candle {
	return s.candles[i]
}

func (s *Series) Candles() []models.Candle {
	return s.candles
}

// Closes extracts the close column for the indicator library.
func (s *Series) Closes() []float64 {
	closes := make([]float64, len(s.candles))
	for i := range s.candles {
		closes[i] = s.candles[i].Close
	}
	return closes
}

// SetColumn attaches a named indicator column. The column must align 1:1
// with the candle sequence.
func (s *Series) SetColumn(name string, values []float64) error {
	if len(values) != len(s.candles) {
		return models.NewDataError("column %q has %d values for %d candles", name, len(values), len(s.candles))
	}
	s.columns[name] = values
	return nil
}

// Column returns a named indicator column, or false if never attached.
func (s *Series) Column(name string) ([]float64, bool) {
	values, ok := s.columns[name]
	return values, ok
}

// Value returns a single cell. NaN when the column is missing or still in
// its warm-up range, so consumers can treat both as "no signal".
func (s *Series) Value(name string, i int) float64 {
	values, ok := s.columns[name]
	if !ok || i < 0 || i >= len(values) {
		return math.NaN()
	}
	return values[i]
}

// SetEntrySignals installs the entry signal sequence. Aligned 1:1 with the
// candles; never mutated afterward by the engine.
func (s *Series) SetEntrySignals(signals []bool) error {
	if len(signals) != len(s.candles) {
		return models.NewDataError("entry signals have %d values for %d candles", len(signals), len(s.candles))
	}
	s.entrySignals = signals
	return nil
}

// SetExitSignals installs the exit signal sequence.
func (s *Series) SetExitSignals(signals []bool) error {
	if len(signals) != len(s.candles) {
		return models.NewDataError("exit signals have %d values for %d candles", len(signals), len(s.candles))
	}
	s.exitSignals = signals
	return nil
}

func (s *Series) EntrySignal(i int) bool {
	return s.entrySignals != nil && i >= 0 && i < len(s.entrySignals) && s.entrySignals[i]
}

func (s *Series) ExitSignal(i int) bool {
	return s.exitSignals != nil && i >= 0 && i < len(s.exitSignals) && s.exitSignals[i]
}

// HasSignals reports whether both signal sequences were populated.
func (s *Series) HasSignals() bool {
	return s.entrySignals != nil && s.exitSignals != nil
}
