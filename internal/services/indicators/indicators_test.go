package indicators

import (
	"math"
	"testing"
	"time"

	"TradeSimBot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCandles(highs, lows, closes []float64) []models.Candle {
	candles := make([]models.Candle, len(closes))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range closes {
		candles[i] = models.Candle{
			Symbol:    "BTCUSDT",
			TimeFrame: models.CandleTimeFrame1h,
			OpenTime:  base.Add(time.Duration(i) * time.Hour),
			CloseTime: base.Add(time.Duration(i+1) * time.Hour),
			Open:      closes[i],
			High:      highs[i],
			Low:       lows[i],
			Close:     closes[i],
			Volume:    100,
		}
	}
	return candles
}

func TestSMACalculate(t *testing.T) {
	sma := NewSMAService()

	prices := []float64{10, 11, 12, 13, 14}
	result := sma.Calculate(prices, 3)
	require.Len(t, result, 5)

	assert.True(t, math.IsNaN(result[0]))
	assert.True(t, math.IsNaN(result[1]))
	assert.InDelta(t, 11.0, result[2], 1e-9)
	assert.InDelta(t, 12.0, result[3], 1e-9)
	assert.InDelta(t, 13.0, result[4], 1e-9)
}

func TestSMACalculate_ConstantSeries(t *testing.T) {
	sma := NewSMAService()

	prices := make([]float64, 200)
	for i := range prices {
		prices[i] = 42.5
	}

	result := sma.Calculate(prices, 20)
	require.Len(t, result, 200)
	for i := 19; i < len(result); i++ {
		assert.Equal(t, 42.5, result[i], "index %d", i)
	}
}

func TestSMACalculate_InsufficientData(t *testing.T) {
	sma := NewSMAService()

	assert.Nil(t, sma.Calculate([]float64{1, 2}, 3))
	assert.Nil(t, sma.Calculate([]float64{1, 2, 3}, 0))
}

func TestSMACalculateOne(t *testing.T) {
	sma := NewSMAService()

	assert.InDelta(t, 13.0, sma.CalculateOne([]float64{10, 11, 12, 13, 14}, 3), 1e-9)
	assert.Equal(t, 0.0, sma.CalculateOne([]float64{10}, 3))
}

func TestEMACalculate(t *testing.T) {
	ema := NewEMAService()

	prices := []float64{10, 11, 12, 13, 14, 15}
	result := ema.Calculate(prices, 3)
	require.Len(t, result, 6)

	assert.True(t, math.IsNaN(result[0]))
	assert.True(t, math.IsNaN(result[1]))
	// Seed = SMA(10,11,12) = 11, multiplier = 0.5
	assert.InDelta(t, 11.0, result[2], 1e-9)
	assert.InDelta(t, 12.0, result[3], 1e-9)
	assert.InDelta(t, 13.0, result[4], 1e-9)
	assert.InDelta(t, 14.0, result[5], 1e-9)
}

func TestEMACalculate_NaNPrefix(t *testing.T) {
	ema := NewEMAService()

	// Indicator-on-indicator input: the warm-up prefix shifts the seed
	// instead of producing all-NaN output.
	prices := []float64{math.NaN(), math.NaN(), 10, 11, 12, 13}
	result := ema.Calculate(prices, 3)
	require.Len(t, result, 6)

	assert.True(t, math.IsNaN(result[2]))
	assert.True(t, math.IsNaN(result[3]))
	assert.InDelta(t, 11.0, result[4], 1e-9)
	assert.False(t, math.IsNaN(result[5]))
}

func TestEMACalculateOne(t *testing.T) {
	ema := NewEMAService()

	next := ema.CalculateOne(14, 12, 3)
	assert.InDelta(t, 13.0, next, 1e-9)

	assert.True(t, math.IsNaN(ema.CalculateOne(14, math.NaN(), 3)))
}

func TestRSICalculate_Bounds(t *testing.T) {
	rsi := NewRSIService()

	prices := []float64{44, 44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.10,
		45.42, 45.84, 46.08, 45.89, 46.03, 45.61, 46.28, 46.28, 46.00, 46.03,
		46.41, 46.22, 45.64}
	result := rsi.Calculate(prices, 14)
	require.Len(t, result, len(prices))

	for i := 0; i < 14; i++ {
		assert.True(t, math.IsNaN(result[i]), "index %d should be warm-up", i)
	}
	for i := 14; i < len(result); i++ {
		assert.GreaterOrEqual(t, result[i], 0.0)
		assert.LessOrEqual(t, result[i], 100.0)
	}
}

func TestRSICalculate_AllGains(t *testing.T) {
	rsi := NewRSIService()

	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}

	result := rsi.Calculate(prices, 14)
	require.NotNil(t, result)
	assert.Equal(t, 100.0, result[14])
	assert.Equal(t, 100.0, result[19])
}

func TestRSICalculate_AllLosses(t *testing.T) {
	rsi := NewRSIService()

	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100 - float64(i)
	}

	result := rsi.Calculate(prices, 14)
	require.NotNil(t, result)
	assert.Equal(t, 0.0, result[14])
}

func TestRSICalculate_InsufficientData(t *testing.T) {
	rsi := NewRSIService()
	assert.Nil(t, rsi.Calculate([]float64{1, 2, 3}, 14))
}

func TestRSILevels(t *testing.T) {
	rsi := NewRSIService()

	assert.True(t, rsi.IsOverbought(75))
	assert.False(t, rsi.IsOverbought(65))
	assert.True(t, rsi.IsOversold(25))
	assert.False(t, rsi.IsOversold(35))
	assert.False(t, rsi.IsOverbought(math.NaN()))
	assert.False(t, rsi.IsOversold(math.NaN()))
}

func TestMACDCalculate(t *testing.T) {
	macd := NewMACDService()

	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100 + float64(i)*0.5
	}

	result := macd.Calculate(prices, 12, 26, 9)
	require.NotNil(t, result)
	require.Len(t, result.MACD, 60)
	require.Len(t, result.Signal, 60)
	require.Len(t, result.Histogram, 60)

	// MACD line defined once the slow EMA is seeded
	assert.True(t, math.IsNaN(result.MACD[24]))
	assert.False(t, math.IsNaN(result.MACD[25]))

	// Signal line needs signalPeriod MACD values on top of that
	assert.True(t, math.IsNaN(result.Signal[32]))
	assert.False(t, math.IsNaN(result.Signal[33]))
	assert.False(t, math.IsNaN(result.Histogram[33]))

	// Steady uptrend keeps the fast EMA above the slow one
	for i := 30; i < 60; i++ {
		assert.Greater(t, result.MACD[i], 0.0, "index %d", i)
	}
}

func TestMACDValidatePeriods(t *testing.T) {
	macd := NewMACDService()

	long := make([]float64, 40)
	assert.True(t, macd.ValidatePeriods(long, 12, 26, 9))
	assert.False(t, macd.ValidatePeriods(make([]float64, 33), 12, 26, 9))
	assert.False(t, macd.ValidatePeriods(long, 26, 12, 9))
	assert.False(t, macd.ValidatePeriods(long, 0, 26, 9))
}

func TestBBandsCalculate(t *testing.T) {
	bbands := NewBBandsService()

	prices := []float64{20, 21, 22, 23, 24, 25, 24, 23, 22, 21}
	result := bbands.Calculate(prices, 5, 2.0)
	require.NotNil(t, result)

	assert.True(t, math.IsNaN(result.Middle[3]))
	assert.InDelta(t, 22.0, result.Middle[4], 1e-9)
	assert.Greater(t, result.Upper[4], result.Middle[4])
	assert.Less(t, result.Lower[4], result.Middle[4])
	assert.InDelta(t, (result.Upper[4]-result.Lower[4])/result.Middle[4], result.Width[4], 1e-9)
}

func TestBBandsCalculate_ConstantSeries(t *testing.T) {
	bbands := NewBBandsService()

	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 50
	}

	result := bbands.Calculate(prices, 10, 2.0)
	require.NotNil(t, result)

	// Zero volatility collapses the bands onto the middle
	assert.Equal(t, 50.0, result.Upper[15])
	assert.Equal(t, 50.0, result.Lower[15])
	assert.Equal(t, 0.0, result.Width[15])
}

func TestATRCalculate(t *testing.T) {
	atr := NewATRService()

	highs := []float64{12, 13, 14, 13, 15, 14}
	lows := []float64{10, 11, 12, 11, 13, 12}
	closes := []float64{11, 12, 13, 12, 14, 13}
	candles := testCandles(highs, lows, closes)

	result := atr.Calculate(candles, 3)
	require.Len(t, result, 6)

	assert.True(t, math.IsNaN(result[0]))
	assert.True(t, math.IsNaN(result[1]))
	assert.False(t, math.IsNaN(result[2]))
	for i := 2; i < len(result); i++ {
		assert.Greater(t, result[i], 0.0)
	}
}

func TestATRCalculate_ConstantRange(t *testing.T) {
	atr := NewATRService()

	n := 20
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := range highs {
		highs[i] = 102
		lows[i] = 98
		closes[i] = 100
	}
	candles := testCandles(highs, lows, closes)

	result := atr.Calculate(candles, 5)
	require.NotNil(t, result)
	for i := 4; i < n; i++ {
		assert.InDelta(t, 4.0, result[i], 1e-9, "index %d", i)
	}
}

func TestStochasticCalculate(t *testing.T) {
	stoch := NewStochasticService()

	highs := []float64{12, 13, 14, 15, 16, 17, 18}
	lows := []float64{10, 11, 12, 13, 14, 15, 16}
	closes := []float64{11, 12, 13, 14, 16, 17, 18}
	candles := testCandles(highs, lows, closes)

	result := stoch.Calculate(candles, 3, 3)
	require.NotNil(t, result)
	require.Len(t, result.K, 7)
	require.Len(t, result.D, 7)

	assert.True(t, math.IsNaN(result.K[1]))
	assert.False(t, math.IsNaN(result.K[2]))
	assert.True(t, math.IsNaN(result.D[3]))
	assert.False(t, math.IsNaN(result.D[4]))

	// Close at the top of the rolling range pins %K to 100
	assert.Equal(t, 100.0, result.K[6])

	// %D is the smoothing-window mean of %K
	assert.InDelta(t, (result.K[2]+result.K[3]+result.K[4])/3, result.D[4], 1e-9)
	assert.InDelta(t, (result.K[4]+result.K[5]+result.K[6])/3, result.D[6], 1e-9)

	for i := 2; i < 7; i++ {
		assert.GreaterOrEqual(t, result.K[i], 0.0)
		assert.LessOrEqual(t, result.K[i], 100.0)
	}
}

func TestStochasticCalculate_FlatWindow(t *testing.T) {
	stoch := NewStochasticService()

	n := 10
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := range highs {
		highs[i] = 100
		lows[i] = 100
		closes[i] = 100
	}
	candles := testCandles(highs, lows, closes)

	result := stoch.Calculate(candles, 3, 3)
	require.NotNil(t, result)
	assert.Equal(t, 50.0, result.K[5])
}
