package price

import (
	"context"
	"strconv"
	"time"

	"TradeSimBot/internal/models"

	"github.com/adshao/go-binance/v2/futures"
	"go.uber.org/zap"
)

// Fetcher pulls candles from the exchange. It is the external "give me
// the next candle" collaborator; the core assumes its output has already
// been shaped into valid Candle records.
type Fetcher struct {
	client *futures.Client
	logger *zap.Logger
}

func NewFetcher(client *futures.Client, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		client: client,
		logger: logger,
	}
}

// FetchHistory fetches historical candles for the given number of days,
// chunked to stay inside the exchange's 500-candle page limit.
func (f *Fetcher) FetchHistory(ctx context.Context, symbol, timeFrame string, days int) ([]models.Candle, error) {
	endTime := time.Now()
	startTime := endTime.AddDate(0, 0, -days)
	var allCandles []models.Candle

	chunkDuration := models.TimeFrameDuration(timeFrame) * 500
	currentStart := startTime
	currentEnd := currentStart.Add(chunkDuration)

	for currentStart.Before(endTime) {
		if currentEnd.After(endTime) {
			currentEnd = endTime
		}

		klines, err := f.client.NewKlinesService().
			Symbol(symbol).
			Interval(timeFrame).
			StartTime(currentStart.UnixNano() / int64(time.Millisecond)).
			EndTime(currentEnd.UnixNano() / int64(time.Millisecond)).
			Limit(500).
			Do(ctx)
		if err != nil {
			return nil, err
		}

		for _, k := range klines {
			allCandles = append(allCandles, klineToCandle(symbol, timeFrame, k))
		}

		f.logger.Debug("fetched candle chunk",
			zap.String("symbol", symbol),
			zap.String("timeframe", timeFrame),
			zap.Int("count", len(klines)),
			zap.Time("from", currentStart),
			zap.Time("to", currentEnd),
		)

		currentStart = currentEnd
		currentEnd = currentStart.Add(chunkDuration)

		// Small delay to avoid rate limits
		time.Sleep(100 * time.Millisecond)
	}

	return allCandles, nil
}

// FetchRecent fetches the most recent window of candles, oldest first.
// The live loop calls this once per step.
func (f *Fetcher) FetchRecent(ctx context.Context, symbol, timeFrame string, limit int) ([]models.Candle, error) {
	klines, err := f.client.NewKlinesService().
		Symbol(symbol).
		Interval(timeFrame).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	candles := make([]models.Candle, 0, len(klines))
	for _, k := range klines {
		candles = append(candles, klineToCandle(symbol, timeFrame, k))
	}
	return candles, nil
}

func klineToCandle(symbol, timeFrame string, k *futures.Kline) models.Candle {
	return models.Candle{
		Symbol:     symbol,
		TimeFrame:  timeFrame,
		OpenTime:   time.Unix(k.OpenTime/1000, 0).UTC(),
		CloseTime:  time.Unix(k.CloseTime/1000, 0).UTC(),
		Open:       parseFloat(k.Open),
		High:       parseFloat(k.High),
		Low:        parseFloat(k.Low),
		Close:      parseFloat(k.Close),
		Volume:     parseFloat(k.Volume),
		TradeCount: k.TradeNum,
	}
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
