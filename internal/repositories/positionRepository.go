package repositories

import (
	"errors"
	"time"

	"TradeSimBot/internal/models"

	"gorm.io/gorm"
)

type PositionRepository struct {
	db *gorm.DB
}

// NewPositionRepository creates a new instance of PositionRepository
func NewPositionRepository(db *gorm.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// Create adds a new Position record to the database
func (r *PositionRepository) Create(position *models.Position) error {
	if position == nil {
		return errors.New("position cannot be nil")
	}
	return r.db.Create(position).Error
}

// Update modifies an existing Position record
func (r *PositionRepository) Update(position *models.Position) error {
	if position == nil {
		return errors.New("position cannot be nil")
	}
	return r.db.Save(position).Error
}

// FindByID retrieves a Position record by its ID
func (r *PositionRepository) FindByID(id string) (*models.Position, error) {
	if id == "" {
		return nil, errors.New("invalid id")
	}
	var position models.Position
	err := r.db.First(&position, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return &position, err
}

// FindOpenPositionsBySymbol retrieves all open Position records for a specific symbol
func (r *PositionRepository) FindOpenPositionsBySymbol(symbol string) ([]models.Position, error) {
	if symbol == "" {
		return nil, errors.New("invalid symbol")
	}
	var positions []models.Position
	err := r.db.Where("symbol = ? AND status = ?", symbol, models.PositionStatusOpen).Find(&positions).Error
	return positions, err
}

// FindClosedPositionsBySymbol retrieves the closed-trade journal for a symbol
func (r *PositionRepository) FindClosedPositionsBySymbol(symbol string) ([]models.Position, error) {
	if symbol == "" {
		return nil, errors.New("invalid symbol")
	}
	var positions []models.Position
	err := r.db.Where("symbol = ? AND status = ?", symbol, models.PositionStatusClosed).
		Order("exit_time ASC").
		Find(&positions).Error
	return positions, err
}

// GetTotalPnL calculates the total profit and loss for all closed positions within a time range
func (r *PositionRepository) GetTotalPnL(start, end time.Time) (float64, error) {
	var totalPnL float64
	err := r.db.Model(&models.Position{}).
		Where("exit_time BETWEEN ? AND ? AND status = ?", start, end, models.PositionStatusClosed).
		Select("COALESCE(SUM(pn_l), 0) as total_pnl").
		Scan(&totalPnL).Error
	return totalPnL, err
}
