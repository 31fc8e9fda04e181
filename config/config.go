package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"TradeSimBot/internal/models"

	"github.com/joho/godotenv"
)

// ValidationError means the configuration itself is unusable. It is fatal
// and reported before any trading loop starts.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config: %s %s", e.Field, e.Reason)
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := &Config{
		Mode: envOrDefault("BOT_MODE", ModeBacktest),
		Exchange: ExchangeConfig{
			APIKey:    os.Getenv("BINANCE_API_KEY"),
			SecretKey: os.Getenv("BINANCE_SECRET_KEY"),
		},
		Database: DatabaseConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     envToInt(os.Getenv("DB_PORT"), 5432),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   os.Getenv("DB_NAME"),
		},
		Trading: TradingConfig{
			Symbol:        envOrDefault("TRADING_SYMBOL", "BTCUSDT"),
			TimeFrame:     envOrDefault("TRADING_TIMEFRAME", models.CandleTimeFrame1h),
			Strategy:      envOrDefault("TRADING_STRATEGY", "rsi"),
			StakeAmount:   envToFloat(os.Getenv("STAKE_AMOUNT"), 100.0),
			MaxOpenTrades: envToInt(os.Getenv("MAX_OPEN_TRADES"), 3),
			CheckInterval: time.Duration(envToInt(os.Getenv("CHECK_INTERVAL_SECONDS"), 60)) * time.Second,
		},
		Risk: RiskConfig{
			StopLossPct:          envToFloat(os.Getenv("STOP_LOSS_PCT"), -0.05),
			TakeProfitPct:        envToFloat(os.Getenv("TAKE_PROFIT_PCT"), 0.10),
			StopLossFirst:        envToBool(os.Getenv("STOP_LOSS_FIRST"), true),
			AllowSameBarReuse:    envToBool(os.Getenv("ALLOW_SAME_BAR_REUSE"), true),
			MaxConsecutiveErrors: envToInt(os.Getenv("MAX_CONSECUTIVE_ERRORS"), 5),
		},
		Backtest: BacktestConfig{
			InitialBalance: envToFloat(os.Getenv("INITIAL_BALANCE"), 10000.0),
			StartTime:      envToTime(os.Getenv("BACKTEST_START")),
			EndTime:        envToTime(os.Getenv("BACKTEST_END")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks everything the trading core depends on. Any failure here
// aborts before the first candle is processed.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeBacktest, ModeDryRun, ModeLive:
	default:
		return &ValidationError{"BOT_MODE", fmt.Sprintf("must be one of %s|%s|%s", ModeBacktest, ModeDryRun, ModeLive)}
	}
	if c.Trading.Symbol == "" {
		return &ValidationError{"TRADING_SYMBOL", "must not be empty"}
	}
	if models.TimeFrameDuration(c.Trading.TimeFrame) == 0 {
		return &ValidationError{"TRADING_TIMEFRAME", fmt.Sprintf("unknown timeframe %q", c.Trading.TimeFrame)}
	}
	if c.Trading.StakeAmount <= 0 {
		return &ValidationError{"STAKE_AMOUNT", "must be positive"}
	}
	if c.Trading.MaxOpenTrades < 1 {
		return &ValidationError{"MAX_OPEN_TRADES", "must be a positive integer"}
	}
	if c.Trading.CheckInterval <= 0 {
		return &ValidationError{"CHECK_INTERVAL_SECONDS", "must be positive"}
	}
	if c.Risk.StopLossPct >= 0 {
		return &ValidationError{"STOP_LOSS_PCT", "must be a negative fraction"}
	}
	if c.Risk.TakeProfitPct <= 0 {
		return &ValidationError{"TAKE_PROFIT_PCT", "must be a positive fraction"}
	}
	if c.Risk.MaxConsecutiveErrors < 1 {
		return &ValidationError{"MAX_CONSECUTIVE_ERRORS", "must be a positive integer"}
	}
	if c.Backtest.InitialBalance <= 0 {
		return &ValidationError{"INITIAL_BALANCE", "must be positive"}
	}
	return nil
}

// PeriodsPerYear derives the Sharpe annualization factor from the candle
// timeframe. Not hard-coded: a 5m backtest and a 4h backtest annualize
// differently.
func (c *Config) PeriodsPerYear() float64 {
	interval := models.TimeFrameDuration(c.Trading.TimeFrame)
	if interval == 0 {
		return 0
	}
	return float64(365*24*time.Hour) / float64(interval)
}

// helper env(string) to int
func envToInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return i
}

func envToFloat(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envToBool(s string, fallback bool) bool {
	if s == "" {
		return fallback
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return b
}

func envToTime(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
