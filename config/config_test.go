package config

import (
	"testing"
	"time"

	"TradeSimBot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Mode: ModeBacktest,
		Trading: TradingConfig{
			Symbol:        "BTCUSDT",
			TimeFrame:     models.CandleTimeFrame1h,
			Strategy:      "rsi",
			StakeAmount:   100,
			MaxOpenTrades: 3,
			CheckInterval: time.Minute,
		},
		Risk: RiskConfig{
			StopLossPct:          -0.05,
			TakeProfitPct:        0.10,
			StopLossFirst:        true,
			AllowSameBarReuse:    true,
			MaxConsecutiveErrors: 5,
		},
		Backtest: BacktestConfig{
			InitialBalance: 10000,
		},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown mode", func(c *Config) { c.Mode = "paper" }, "BOT_MODE"},
		{"empty symbol", func(c *Config) { c.Trading.Symbol = "" }, "TRADING_SYMBOL"},
		{"unknown timeframe", func(c *Config) { c.Trading.TimeFrame = "1w" }, "TRADING_TIMEFRAME"},
		{"zero stake", func(c *Config) { c.Trading.StakeAmount = 0 }, "STAKE_AMOUNT"},
		{"negative stake", func(c *Config) { c.Trading.StakeAmount = -50 }, "STAKE_AMOUNT"},
		{"zero max trades", func(c *Config) { c.Trading.MaxOpenTrades = 0 }, "MAX_OPEN_TRADES"},
		{"zero interval", func(c *Config) { c.Trading.CheckInterval = 0 }, "CHECK_INTERVAL_SECONDS"},
		{"positive stop loss", func(c *Config) { c.Risk.StopLossPct = 0.05 }, "STOP_LOSS_PCT"},
		{"zero stop loss", func(c *Config) { c.Risk.StopLossPct = 0 }, "STOP_LOSS_PCT"},
		{"negative take profit", func(c *Config) { c.Risk.TakeProfitPct = -0.10 }, "TAKE_PROFIT_PCT"},
		{"zero error threshold", func(c *Config) { c.Risk.MaxConsecutiveErrors = 0 }, "MAX_CONSECUTIVE_ERRORS"},
		{"zero balance", func(c *Config) { c.Backtest.InitialBalance = 0 }, "INITIAL_BALANCE"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestPeriodsPerYear(t *testing.T) {
	cfg := validConfig()

	cfg.Trading.TimeFrame = models.CandleTimeFrame1h
	assert.InDelta(t, 8760.0, cfg.PeriodsPerYear(), 1e-9)

	cfg.Trading.TimeFrame = models.CandleTimeFrame1m
	assert.InDelta(t, 525600.0, cfg.PeriodsPerYear(), 1e-9)

	cfg.Trading.TimeFrame = models.CandleTimeFrame4h
	assert.InDelta(t, 2190.0, cfg.PeriodsPerYear(), 1e-9)
}

func TestEnvHelpers(t *testing.T) {
	assert.Equal(t, 7, envToInt("7", 3))
	assert.Equal(t, 3, envToInt("", 3))
	assert.Equal(t, 3, envToInt("junk", 3))

	assert.Equal(t, 1.5, envToFloat("1.5", 0))
	assert.Equal(t, 2.0, envToFloat("", 2.0))

	assert.True(t, envToBool("true", false))
	assert.False(t, envToBool("false", true))
	assert.True(t, envToBool("", true))

	parsed := envToTime("2024-03-01")
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), parsed)
	assert.True(t, envToTime("not-a-date").IsZero())
}
