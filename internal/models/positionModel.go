package models

import "time"

type Position struct {
	ID       string  `gorm:"primaryKey"`
	Symbol   string  `gorm:"index;not null"`
	Side     string  `gorm:"not null"`
	Strategy string  `gorm:"not null"`
	Quantity float64 `gorm:"type:decimal(20,8);not null"`

	EntryPrice float64   `gorm:"type:decimal(20,8);not null"`
	EntryTime  time.Time `gorm:"index;not null"`

	StopLossPrice   float64 `gorm:"type:decimal(20,8);not null"`
	TakeProfitPrice float64 `gorm:"type:decimal(20,8);not null"`

	Status     string    `gorm:"not null"`
	ExitPrice  float64   `gorm:"type:decimal(20,8)"`
	ExitTime   time.Time `gorm:"index"`
	ExitReason string

	PnL        float64 `gorm:"type:decimal(20,8)"`
	PnLPercent float64 `gorm:"type:decimal(20,8)"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

const (
	PositionStatusOpen   = "open"
	PositionStatusClosed = "closed"

	PositionSideLong  = "long"
	PositionSideShort = "short"

	ExitReasonStopLoss   = "stop_loss"
	ExitReasonTakeProfit = "take_profit"
	ExitReasonSignal     = "exit_signal"
	ExitReasonEndOfData  = "end_of_data"
	ExitReasonShutdown   = "shutdown"
)

// TableName sets the table name for Position model
func (Position) TableName() string {
	return "positions"
}

// DirectionSign is +1 for a long position and -1 for a short.
func (p *Position) DirectionSign() float64 {
	if p.Side == PositionSideShort {
		return -1
	}
	return 1
}

// UnrealizedPnL marks the open position to the given price.
func (p *Position) UnrealizedPnL(markPrice float64) float64 {
	if p.Status != PositionStatusOpen {
		return 0
	}
	return (markPrice - p.EntryPrice) * p.Quantity * p.DirectionSign()
}

// Duration is the time the position was held. Zero while still open.
func (p *Position) Duration() time.Duration {
	if p.Status != PositionStatusClosed {
		return 0
	}
	return p.ExitTime.Sub(p.EntryTime)
}
