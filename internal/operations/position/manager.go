package position

import (
	"errors"
	"time"

	"TradeSimBot/internal/models"
	"TradeSimBot/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrRiskLimitExceeded is returned by Open when the symbol is already at
// its max open trades. It is recoverable: the caller skips the entry and
// may retry on a future signal.
var ErrRiskLimitExceeded = errors.New("risk limit exceeded: max open trades reached")

// Settings are the risk inputs handed in at construction. Parsing and
// validating them is the config layer's job.
type Settings struct {
	Symbol        string
	Strategy      string
	StakeAmount   float64
	MaxOpenTrades int
	StopLossPct   float64 // negative fraction
	TakeProfitPct float64 // positive fraction
	StopLossFirst bool    // gap-candle tie-break: stop-loss wins when true
}

// Manager exclusively owns the mutable position set for one symbol. All
// state transitions (open, risk exits, close) happen here; the simulation
// engine never mutates a Position directly.
type Manager struct {
	settings Settings

	open   []*models.Position
	closed []models.Position

	realizedPnL float64

	positionRepo *repositories.PositionRepository // optional journal mirror
	logger       *zap.Logger
}

// NewManager creates a position manager. positionRepo may be nil (backtest
// mode keeps the trade log in memory only).
func NewManager(settings Settings, positionRepo *repositories.PositionRepository, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		settings:     settings,
		open:         make([]*models.Position, 0, settings.MaxOpenTrades),
		closed:       make([]models.Position, 0),
		positionRepo: positionRepo,
		logger:       logger,
	}
}

// PreviewQuantity is the quantity a position opened at the given price
// would carry. Used by live execution to size the entry order before the
// position exists.
func (m *Manager) PreviewQuantity(price float64) float64 {
	if price <= 0 {
		return 0
	}
	return m.settings.StakeAmount / price
}

// CanOpen reports whether capacity is available for a new position.
func (m *Manager) CanOpen() bool {
	return len(m.open) < m.settings.MaxOpenTrades
}

// MaxOpenTrades is the configured capacity limit.
func (m *Manager) MaxOpenTrades() int {
	return m.settings.MaxOpenTrades
}

// Open transitions a new position to OPEN at the candle close. Quantity is
// stake/entry, fixed for the life of the position. Stop-loss and
// take-profit are derived from the configured fractions, signs inverted
// for shorts.
func (m *Manager) Open(candle models.Candle, side string) (*models.Position, error) {
	if err := candle.Validate(); err != nil {
		return nil, err
	}
	if side != models.PositionSideLong && side != models.PositionSideShort {
		return nil, models.NewDataError("unknown position side %q", side)
	}
	if !m.CanOpen() {
		return nil, ErrRiskLimitExceeded
	}

	entryPrice := candle.Close
	stopLoss := entryPrice * (1 + m.settings.StopLossPct)
	takeProfit := entryPrice * (1 + m.settings.TakeProfitPct)
	if side == models.PositionSideShort {
		stopLoss = entryPrice * (1 - m.settings.StopLossPct)
		takeProfit = entryPrice * (1 - m.settings.TakeProfitPct)
	}

	pos := &models.Position{
		ID:              uuid.NewString(),
		Symbol:          candle.Symbol,
		Side:            side,
		Strategy:        m.settings.Strategy,
		Quantity:        m.settings.StakeAmount / entryPrice,
		EntryPrice:      entryPrice,
		EntryTime:       candle.OpenTime,
		StopLossPrice:   stopLoss,
		TakeProfitPrice: takeProfit,
		Status:          models.PositionStatusOpen,
	}

	m.open = append(m.open, pos)

	if m.positionRepo != nil {
		if err := m.positionRepo.Create(pos); err != nil {
			m.logger.Warn("failed to journal opened position", zap.String("id", pos.ID), zap.Error(err))
		}
	}

	m.logger.Info("position opened",
		zap.String("symbol", pos.Symbol),
		zap.String("side", pos.Side),
		zap.Float64("entry", pos.EntryPrice),
		zap.Float64("quantity", pos.Quantity),
		zap.Float64("stop_loss", pos.StopLossPrice),
		zap.Float64("take_profit", pos.TakeProfitPrice),
	)

	return pos, nil
}

// CheckExits evaluates every open position against the candle, in fixed
// priority order: stop-loss breach, take-profit breach, then the
// strategy's exit signal. When a gap candle breaches both levels the
// configured tie-break picks the fill. Returns the positions closed this
// candle, in the order they were opened.
func (m *Manager) CheckExits(candle models.Candle, exitSignal bool) ([]models.Position, error) {
	if err := candle.Validate(); err != nil {
		return nil, err
	}

	var closedNow []models.Position
	remaining := m.open[:0]

	for _, pos := range m.open {
		exitPrice, reason, hit := m.evaluateExit(pos, candle, exitSignal)
		if !hit {
			remaining = append(remaining, pos)
			continue
		}
		closedNow = append(closedNow, m.close(pos, exitPrice, candle.OpenTime, reason))
	}

	m.open = remaining
	return closedNow, nil
}

func (m *Manager) evaluateExit(pos *models.Position, candle models.Candle, exitSignal bool) (float64, string, bool) {
	var stopHit, targetHit bool
	if pos.Side == models.PositionSideLong {
		stopHit = candle.Low <= pos.StopLossPrice
		targetHit = candle.High >= pos.TakeProfitPrice
	} else {
		stopHit = candle.High >= pos.StopLossPrice
		targetHit = candle.Low <= pos.TakeProfitPrice
	}

	switch {
	case stopHit && targetHit:
		if m.settings.StopLossFirst {
			return pos.StopLossPrice, models.ExitReasonStopLoss, true
		}
		return pos.TakeProfitPrice, models.ExitReasonTakeProfit, true
	case stopHit:
		return pos.StopLossPrice, models.ExitReasonStopLoss, true
	case targetHit:
		return pos.TakeProfitPrice, models.ExitReasonTakeProfit, true
	case exitSignal:
		return candle.Close, models.ExitReasonSignal, true
	}
	return 0, "", false
}

// CloseAll closes every open position at the given price. Used for
// end-of-data liquidation and shutdown.
func (m *Manager) CloseAll(exitPrice float64, exitTime time.Time, reason string) []models.Position {
	var closedNow []models.Position
	for _, pos := range m.open {
		closedNow = append(closedNow, m.close(pos, exitPrice, exitTime, reason))
	}
	m.open = m.open[:0]
	return closedNow
}

// close performs the single CLOSED transition: realized P&L is fixed, the
// trade is appended to the immutable log, and entry fields are never
// touched again.
func (m *Manager) close(pos *models.Position, exitPrice float64, exitTime time.Time, reason string) models.Position {
	pos.Status = models.PositionStatusClosed
	pos.ExitPrice = exitPrice
	pos.ExitTime = exitTime
	pos.ExitReason = reason
	pos.PnL = (exitPrice - pos.EntryPrice) * pos.Quantity * pos.DirectionSign()
	pos.PnLPercent = pos.PnL / (pos.EntryPrice * pos.Quantity)

	m.realizedPnL += pos.PnL
	m.closed = append(m.closed, *pos)

	if m.positionRepo != nil {
		if err := m.positionRepo.Update(pos); err != nil {
			m.logger.Warn("failed to journal closed position", zap.String("id", pos.ID), zap.Error(err))
		}
	}

	m.logger.Info("position closed",
		zap.String("symbol", pos.Symbol),
		zap.String("reason", reason),
		zap.Float64("exit", exitPrice),
		zap.Float64("pnl", pos.PnL),
	)

	return *pos
}

// OpenCount is the number of currently open positions.
func (m *Manager) OpenCount() int {
	return len(m.open)
}

// OpenPositions returns a snapshot of the open set.
func (m *Manager) OpenPositions() []models.Position {
	out := make([]models.Position, len(m.open))
	for i, pos := range m.open {
		out[i] = *pos
	}
	return out
}

// ClosedTrades returns the immutable closed-trade log.
func (m *Manager) ClosedTrades() []models.Position {
	out := make([]models.Position, len(m.closed))
	copy(out, m.closed)
	return out
}

// RealizedPnL is the sum of closed-trade P&L.
func (m *Manager) RealizedPnL() float64 {
	return m.realizedPnL
}

// UnrealizedPnL marks every open position to the given price.
func (m *Manager) UnrealizedPnL(markPrice float64) float64 {
	total := 0.0
	for _, pos := range m.open {
		total += pos.UnrealizedPnL(markPrice)
	}
	return total
}
