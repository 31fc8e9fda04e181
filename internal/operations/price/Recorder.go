package price

import (
	"context"
	"time"

	"TradeSimBot/internal/models"
	"TradeSimBot/internal/repositories"

	"go.uber.org/zap"
)

// Recorder periodically persists the latest candle so the candle store
// stays warm for later backtests.
type Recorder struct {
	fetcher    *Fetcher
	candleRepo *repositories.CandleRepository
	symbol     string
	timeFrame  string
	logger     *zap.Logger
}

func NewRecorder(fetcher *Fetcher, candleRepo *repositories.CandleRepository, symbol, timeFrame string, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		fetcher:    fetcher,
		candleRepo: candleRepo,
		symbol:     symbol,
		timeFrame:  timeFrame,
		logger:     logger,
	}
}

// Start records one candle per timeframe interval until ctx is cancelled.
func (r *Recorder) Start(ctx context.Context) {
	interval := models.TimeFrameDuration(r.timeFrame)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger.Info("starting candle recording",
		zap.String("symbol", r.symbol),
		zap.String("timeframe", r.timeFrame),
	)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("stopping candle recording", zap.String("symbol", r.symbol))
			return
		case <-ticker.C:
			r.record(ctx)
		}
	}
}

func (r *Recorder) record(ctx context.Context) {
	candles, err := r.fetcher.FetchRecent(ctx, r.symbol, r.timeFrame, 1)
	if err != nil {
		r.logger.Warn("failed to fetch candle", zap.String("symbol", r.symbol), zap.Error(err))
		return
	}
	if len(candles) == 0 {
		return
	}

	if err := r.candleRepo.Create(&candles[0]); err != nil {
		r.logger.Warn("failed to save candle", zap.String("symbol", r.symbol), zap.Error(err))
		return
	}

	r.logger.Debug("recorded candle",
		zap.String("symbol", r.symbol),
		zap.Float64("close", candles[0].Close),
	)
}
