package repositories

import (
	"errors"
	"time"

	"TradeSimBot/internal/models"

	"gorm.io/gorm"
)

type CandleRepository struct {
	db *gorm.DB
}

// NewCandleRepository creates a new instance of CandleRepository
func NewCandleRepository(db *gorm.DB) *CandleRepository {
	return &CandleRepository{db: db}
}

// Create adds a new Candle record to the database
func (r *CandleRepository) Create(candle *models.Candle) error {
	if candle == nil {
		return errors.New("candle cannot be nil")
	}
	return r.db.Create(candle).Error
}

// CreateBatch inserts a chunk of candles in one statement
func (r *CandleRepository) CreateBatch(candles []models.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	return r.db.CreateInBatches(candles, 500).Error
}

// GetCandlesByTimeFrame gets candles for a symbol and timeframe, ascending
func (r *CandleRepository) GetCandlesByTimeFrame(symbol, timeFrame string, start, end time.Time) ([]models.Candle, error) {
	if symbol == "" || timeFrame == "" {
		return nil, errors.New("invalid symbol or timeframe")
	}

	var candles []models.Candle
	err := r.db.Where("symbol = ? AND time_frame = ? AND open_time BETWEEN ? AND ?",
		symbol, timeFrame, start, end).
		Order("open_time ASC").
		Find(&candles).Error
	return candles, err
}

// GetLatestCandle gets the most recent candle for a symbol and timeframe
func (r *CandleRepository) GetLatestCandle(symbol, timeFrame string) (*models.Candle, error) {
	if symbol == "" || timeFrame == "" {
		return nil, errors.New("invalid symbol or timeframe")
	}

	var candle models.Candle
	err := r.db.Where("symbol = ? AND time_frame = ?", symbol, timeFrame).
		Order("open_time DESC").
		First(&candle).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return &candle, err
}

// CountByTimeFrame reports how many candles are stored for a symbol and timeframe
func (r *CandleRepository) CountByTimeFrame(symbol, timeFrame string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Candle{}).
		Where("symbol = ? AND time_frame = ?", symbol, timeFrame).
		Count(&count).Error
	return count, err
}
