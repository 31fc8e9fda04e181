package models

import (
	"time"
)

// Candle is one OHLCV interval. Immutable once recorded.
type Candle struct {
	ID         uint      `gorm:"primaryKey"`
	Symbol     string    `gorm:"index;not null"`
	TimeFrame  string    `gorm:"not null"`
	OpenTime   time.Time `gorm:"index;not null"`
	CloseTime  time.Time `gorm:"index"`
	Open       float64   `gorm:"type:decimal(20,8)"`
	High       float64   `gorm:"type:decimal(20,8)"`
	Low        float64   `gorm:"type:decimal(20,8)"`
	Close      float64   `gorm:"type:decimal(20,8)"`
	Volume     float64   `gorm:"type:decimal(20,8)"`
	TradeCount int64
}

const (
	CandleTimeFrame1m  = "1m"
	CandleTimeFrame5m  = "5m"
	CandleTimeFrame15m = "15m"
	CandleTimeFrame1h  = "1h"
	CandleTimeFrame4h  = "4h"
)

// TableName sets the table name for Candle model
func (Candle) TableName() string {
	return "candles"
}

// Validate rejects candles whose values would corrupt downstream accounting.
func (c *Candle) Validate() error {
	if c.OpenTime.IsZero() {
		return NewDataError("candle for %s has zero open time", c.Symbol)
	}
	if c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0 {
		return NewDataError("candle for %s at %s has non-positive price",
			c.Symbol, c.OpenTime.Format("2006-01-02 15:04:05"))
	}
	if c.Volume < 0 {
		return NewDataError("candle for %s at %s has negative volume",
			c.Symbol, c.OpenTime.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// TimeFrameDuration maps a timeframe label to its candle interval.
func TimeFrameDuration(timeFrame string) time.Duration {
	intervalsMap := map[string]time.Duration{
		CandleTimeFrame1m:  time.Minute,
		CandleTimeFrame5m:  5 * time.Minute,
		CandleTimeFrame15m: 15 * time.Minute,
		CandleTimeFrame1h:  time.Hour,
		CandleTimeFrame4h:  4 * time.Hour,
	}
	return intervalsMap[timeFrame]
}
