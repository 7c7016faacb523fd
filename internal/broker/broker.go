package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/shopspring/decimal"
)

var ErrOrderSubmission = errors.New("order submission failed")

const (
	PaperBaseURL = "https://paper-api.alpaca.markets"
	LiveBaseURL  = "https://api.alpaca.markets"
)

type OrderRequest struct {
	Symbol        string
	Qty           int
	Side          alpaca.Side
	Type          alpaca.OrderType
	TimeInForce   alpaca.TimeInForce
	ClientOrderID string
	LimitPrice    *float64
}

type OrderRef struct {
	ID            string
	ClientOrderID string
	Status        string
}

type Position struct {
	Symbol   string
	Qty      int
	AvgEntry float64
}

type Account struct {
	Cash           float64
	Equity         float64
	PortfolioValue float64
	BuyingPower    float64
}

type Client struct {
	client *alpaca.Client
}

func New(apiKey, apiSecret, baseURL string) *Client {
	opts := alpaca.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   baseURL,
	}
	return &Client{client: alpaca.NewClient(opts)}
}

func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (OrderRef, error) {
	if err := ctx.Err(); err != nil {
		return OrderRef{}, err
	}
	qty := decimal.NewFromInt(int64(req.Qty))
	orderReq := alpaca.PlaceOrderRequest{
		Symbol:        req.Symbol,
		Qty:           &qty,
		Side:          req.Side,
		Type:          req.Type,
		TimeInForce:   req.TimeInForce,
		ClientOrderID: req.ClientOrderID,
	}
	if req.LimitPrice != nil {
		limitPrice := decimal.NewFromFloat(*req.LimitPrice).Round(2)
		orderReq.LimitPrice = &limitPrice
	}

	order, err := c.client.PlaceOrder(orderReq)
	if err != nil {
		slog.Error("place order failed", "side", req.Side, "symbol", req.Symbol, "qty", req.Qty, "type", req.Type, "error", err)
		return OrderRef{}, fmt.Errorf("%w: %s %s: %w", ErrOrderSubmission, req.Side, req.Symbol, err)
	}

	slog.Info("place order success", "order_id", order.ID, "side", req.Side, "symbol", req.Symbol, "qty", req.Qty, "type", req.Type, "status", order.Status)
	return OrderRef{
		ID:            order.ID,
		ClientOrderID: order.ClientOrderID,
		Status:        string(order.Status),
	}, nil
}

// Positions returns every open position keyed by symbol.
func (c *Client) Positions(ctx context.Context) (map[string]Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	positions, err := c.client.GetPositions()
	if err != nil {
		slog.Error("fetch positions failed", "error", err)
		return nil, fmt.Errorf("fetch positions: %w", err)
	}
	result := make(map[string]Position, len(positions))
	for _, pos := range positions {
		avgEntry, _ := pos.AvgEntryPrice.Float64()
		result[pos.Symbol] = Position{
			Symbol:   pos.Symbol,
			Qty:      int(pos.Qty.IntPart()),
			AvgEntry: avgEntry,
		}
	}
	slog.Info("positions fetched", "count", len(result))
	return result, nil
}

func (c *Client) Account(ctx context.Context) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	acct, err := c.client.GetAccount()
	if err != nil {
		slog.Error("fetch account failed", "error", err)
		return Account{}, fmt.Errorf("fetch account: %w", err)
	}
	cash, _ := acct.Cash.Float64()
	equity, _ := acct.Equity.Float64()
	portfolioValue, _ := acct.PortfolioValue.Float64()
	buyingPower, _ := acct.BuyingPower.Float64()

	slog.Info("account fetched", "cash", cash, "equity", equity, "portfolio_value", portfolioValue, "buying_power", buyingPower)
	return Account{Cash: cash, Equity: equity, PortfolioValue: portfolioValue, BuyingPower: buyingPower}, nil
}

func (c *Client) IsMarketOpen(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	clock, err := c.client.GetClock()
	if err != nil {
		slog.Error("fetch clock failed", "error", err)
		return false, fmt.Errorf("fetch clock: %w", err)
	}
	slog.Info("market clock", "is_open", clock.IsOpen, "next_open", clock.NextOpen.Format(time.RFC3339), "next_close", clock.NextClose.Format(time.RFC3339))
	return clock.IsOpen, nil
}

// IsNotFound reports an Alpaca 404, e.g. a position that does not exist.
func IsNotFound(err error) bool {
	var apiErr *alpaca.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

func ParseOrderType(value string) (alpaca.OrderType, error) {
	switch value {
	case "market":
		return alpaca.Market, nil
	case "limit":
		return alpaca.Limit, nil
	default:
		return "", fmt.Errorf("unsupported order type: %s", value)
	}
}

func ParseTimeInForce(value string) (alpaca.TimeInForce, error) {
	switch value {
	case "day":
		return alpaca.Day, nil
	case "gtc":
		return alpaca.GTC, nil
	default:
		return "", fmt.Errorf("unsupported time in force: %s", value)
	}
}
