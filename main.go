package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TradeSimBot/config"
	"TradeSimBot/internal/handlers"
	"TradeSimBot/internal/models"
	"TradeSimBot/internal/operations/backtest"
	"TradeSimBot/internal/operations/position"
	"TradeSimBot/internal/operations/price"
	"TradeSimBot/internal/operations/trader"
	"TradeSimBot/internal/repositories"
	"TradeSimBot/internal/services/strategy"

	"github.com/adshao/go-binance/v2/futures"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// historyDays is how much history the trader warms the candle store with
// on startup.
const historyDays = 30

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	strat, err := strategy.New(cfg.Trading.Strategy)
	if err != nil {
		logger.Fatal("failed to create strategy",
			zap.Error(err),
			zap.Strings("available", strategy.Names()),
		)
	}

	switch cfg.Mode {
	case config.ModeBacktest:
		runBacktest(cfg, strat, logger)
	case config.ModeDryRun, config.ModeLive:
		runTrader(cfg, strat, logger)
	}
}

func runBacktest(cfg *config.Config, strat strategy.Strategy, logger *zap.Logger) {
	db := setupDatabase(cfg.Database, logger)
	candleRepo := repositories.NewCandleRepository(db)

	candles, err := loadBacktestCandles(cfg, candleRepo, logger)
	if err != nil {
		logger.Fatal("failed to load candles", zap.Error(err))
	}

	manager := position.NewManager(managerSettings(cfg), nil, logger)
	engine := backtest.NewEngine(strat, manager, backtest.Config{
		InitialBalance:    cfg.Backtest.InitialBalance,
		PeriodsPerYear:    cfg.PeriodsPerYear(),
		AllowSameBarReuse: cfg.Risk.AllowSameBarReuse,
	}, logger)

	results, err := engine.Run(candles)
	if err != nil {
		logger.Fatal("backtest failed", zap.Error(err))
	}

	printResults(results)
}

func loadBacktestCandles(cfg *config.Config, candleRepo *repositories.CandleRepository, logger *zap.Logger) ([]models.Candle, error) {
	start := cfg.Backtest.StartTime
	end := cfg.Backtest.EndTime
	if end.IsZero() {
		end = time.Now().UTC()
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -30)
	}

	candles, err := candleRepo.GetCandlesByTimeFrame(cfg.Trading.Symbol, cfg.Trading.TimeFrame, start, end)
	if err != nil {
		return nil, err
	}
	if len(candles) > 0 {
		return candles, nil
	}

	// Empty store: pull history from the exchange once, then reload.
	logger.Info("candle store empty, fetching history from exchange")
	futuresClient := futures.NewClient(cfg.Exchange.APIKey, cfg.Exchange.SecretKey)
	fetcher := price.NewFetcher(futuresClient, logger)

	days := int(end.Sub(start).Hours()/24) + 1
	fetched, err := fetcher.FetchHistory(context.Background(), cfg.Trading.Symbol, cfg.Trading.TimeFrame, days)
	if err != nil {
		return nil, err
	}
	if err := candleRepo.CreateBatch(fetched); err != nil {
		return nil, err
	}

	return candleRepo.GetCandlesByTimeFrame(cfg.Trading.Symbol, cfg.Trading.TimeFrame, start, end)
}

func runTrader(cfg *config.Config, strat strategy.Strategy, logger *zap.Logger) {
	db := setupDatabase(cfg.Database, logger)
	positionRepo := repositories.NewPositionRepository(db)
	candleRepo := repositories.NewCandleRepository(db)

	futuresClient := futures.NewClient(cfg.Exchange.APIKey, cfg.Exchange.SecretKey)
	fetcher := price.NewFetcher(futuresClient, logger)

	var orders trader.OrderPlacer
	if cfg.Mode == config.ModeLive {
		orders = trader.NewBinanceOrderPlacer(futuresClient)
	}

	manager := position.NewManager(managerSettings(cfg), positionRepo, logger)
	bot := trader.NewTrader(fetcher, orders, strat, manager, trader.Settings{
		Symbol:               cfg.Trading.Symbol,
		TimeFrame:            cfg.Trading.TimeFrame,
		CheckInterval:        cfg.Trading.CheckInterval,
		WindowSize:           strat.Warmup() * 4,
		MaxConsecutiveErrors: cfg.Risk.MaxConsecutiveErrors,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cooperative shutdown: cancellation lands between steps, never
	// mid-step.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		logger.Info("shutdown signal received")
		cancel()
	}()

	priceHandler := handlers.NewPriceHandler(fetcher, candleRepo, cfg.Trading.Symbol, cfg.Trading.TimeFrame, logger)
	if err := priceHandler.Start(ctx, historyDays); err != nil {
		logger.Warn("failed to warm candle store", zap.Error(err))
	}

	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("trader terminated", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func managerSettings(cfg *config.Config) position.Settings {
	return position.Settings{
		Symbol:        cfg.Trading.Symbol,
		Strategy:      cfg.Trading.Strategy,
		StakeAmount:   cfg.Trading.StakeAmount,
		MaxOpenTrades: cfg.Trading.MaxOpenTrades,
		StopLossPct:   cfg.Risk.StopLossPct,
		TakeProfitPct: cfg.Risk.TakeProfitPct,
		StopLossFirst: cfg.Risk.StopLossFirst,
	}
}

func setupDatabase(dbConfig config.DatabaseConfig, logger *zap.Logger) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Error),
	})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(&models.Candle{}, &models.Position{}); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	return db
}

func printResults(results *backtest.Results) {
	s := results.Summary
	fmt.Println("\n=== Backtest Results ===")
	fmt.Printf("Total Trades: %d\n", s.TotalTrades)
	fmt.Printf("Winning Trades: %d\n", s.WinningTrades)
	fmt.Printf("Losing Trades: %d\n", s.LosingTrades)
	fmt.Printf("Win Rate: %.2f%%\n", s.WinRate*100)
	fmt.Printf("Profit Factor: %.2f\n", s.ProfitFactor)
	fmt.Printf("Total PnL: $%.2f (%.2f%%)\n", s.TotalPnL, s.TotalPnLPercent*100)
	fmt.Printf("Avg Trade Duration: %s\n", s.AvgTradeDuration)
	fmt.Printf("Max Drawdown: %.2f%%\n", s.MaxDrawdown*100)
	fmt.Printf("Final Balance: $%.2f\n", s.FinalBalance)
	fmt.Printf("Sharpe Ratio: %.2f\n", s.SharpeRatio)
}
