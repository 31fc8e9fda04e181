package config

import "time"

type Config struct {
	Mode     string
	Exchange ExchangeConfig
	Database DatabaseConfig
	Trading  TradingConfig
	Risk     RiskConfig
	Backtest BacktestConfig
}

type ExchangeConfig struct {
	APIKey    string
	SecretKey string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type TradingConfig struct {
	Symbol        string
	TimeFrame     string // "1m", "5m", "15m", "1h", "4h"
	Strategy      string
	StakeAmount   float64
	MaxOpenTrades int
	CheckInterval time.Duration
}

type RiskConfig struct {
	StopLossPct   float64 // negative fraction, e.g. -0.05
	TakeProfitPct float64 // positive fraction, e.g. 0.10

	// Same-candle ambiguity knobs. StopLossFirst decides the gap scenario
	// where both stop and target sit inside one candle's range.
	StopLossFirst     bool
	AllowSameBarReuse bool

	MaxConsecutiveErrors int
}

type BacktestConfig struct {
	InitialBalance float64
	StartTime      time.Time
	EndTime        time.Time
}

const (
	ModeBacktest = "backtest"
	ModeDryRun   = "dry-run"
	ModeLive     = "live"
)
