package handlers

import (
	"context"

	"TradeSimBot/internal/operations/price"
	"TradeSimBot/internal/repositories"

	"go.uber.org/zap"
)

// PriceHandler bootstraps the candle store: loads historical candles on
// start, then keeps recording new ones in the background.
type PriceHandler struct {
	fetcher    *price.Fetcher
	recorder   *price.Recorder
	candleRepo *repositories.CandleRepository
	symbol     string
	timeFrame  string
	logger     *zap.Logger
}

func NewPriceHandler(fetcher *price.Fetcher, candleRepo *repositories.CandleRepository, symbol, timeFrame string, logger *zap.Logger) *PriceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriceHandler{
		fetcher:    fetcher,
		candleRepo: candleRepo,
		symbol:     symbol,
		timeFrame:  timeFrame,
		logger:     logger,
		recorder:   price.NewRecorder(fetcher, candleRepo, symbol, timeFrame, logger),
	}
}

// Start fetches historyDays of candles into the store and starts the
// background recorder. The recorder stops when ctx is cancelled.
func (h *PriceHandler) Start(ctx context.Context, historyDays int) error {
	h.logger.Info("fetching historical candles",
		zap.String("symbol", h.symbol),
		zap.String("timeframe", h.timeFrame),
		zap.Int("days", historyDays),
	)

	candles, err := h.fetcher.FetchHistory(ctx, h.symbol, h.timeFrame, historyDays)
	if err != nil {
		return err
	}
	if err := h.candleRepo.CreateBatch(candles); err != nil {
		return err
	}

	h.logger.Info("historical candles stored", zap.Int("count", len(candles)))

	go h.recorder.Start(ctx)
	return nil
}
