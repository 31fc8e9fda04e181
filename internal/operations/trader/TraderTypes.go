package trader

import (
	"context"
	"fmt"
	"time"

	"TradeSimBot/internal/models"
)

// CandleSource produces the most recent candle window, oldest first.
// Blocking and I/O behavior live behind this boundary, not in the core.
type CandleSource interface {
	FetchRecent(ctx context.Context, symbol, timeFrame string, limit int) ([]models.Candle, error)
}

// OrderPlacer places a market order on the venue. Implementations confirm
// or fail synchronously; a position is never marked open before the entry
// order is confirmed.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, symbol, side string, quantity float64) error
}

// ExecutionError wraps an order-placement failure from the connectivity
// layer. The triggering step fails; local position state is unchanged for
// entries.
type ExecutionError struct {
	Op  string
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution error during %s: %v", e.Op, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Settings configures the stepping loop.
type Settings struct {
	Symbol        string
	TimeFrame     string
	CheckInterval time.Duration

	// WindowSize is how many trailing candles each step recomputes
	// signals over. Must exceed the strategy warm-up.
	WindowSize int

	// MaxConsecutiveErrors terminates the loop once this many steps in a
	// row have failed.
	MaxConsecutiveErrors int
}
