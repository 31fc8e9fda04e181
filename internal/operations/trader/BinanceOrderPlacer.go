package trader

import (
	"context"
	"strconv"

	"TradeSimBot/internal/models"

	"github.com/adshao/go-binance/v2/futures"
)

// BinanceOrderPlacer submits market orders through the futures API.
type BinanceOrderPlacer struct {
	client *futures.Client
}

func NewBinanceOrderPlacer(client *futures.Client) *BinanceOrderPlacer {
	return &BinanceOrderPlacer{client: client}
}

func (p *BinanceOrderPlacer) PlaceOrder(ctx context.Context, symbol, side string, quantity float64) error {
	orderSide := futures.SideTypeBuy
	if side == models.PositionSideShort {
		orderSide = futures.SideTypeSell
	}

	_, err := p.client.NewCreateOrderService().
		Symbol(symbol).
		Side(orderSide).
		Type(futures.OrderTypeMarket).
		Quantity(strconv.FormatFloat(quantity, 'f', -1, 64)).
		Do(ctx)
	return err
}
