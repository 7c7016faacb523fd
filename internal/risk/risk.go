package risk

import (
	"fmt"
	"log/slog"

	"crossbot/internal/strategy"
)

// RiskContext is what the gate knows about the account when an intent is
// about to be submitted.
type RiskContext struct {
	HeldQty     int
	MaxNotional float64
	KillSwitch  bool
	OrderType   string
	LimitPrice  float64
}

type ApprovedIntent struct {
	Intent strategy.TradeIntent
	Reason string
}

// Gate is the last check before an intent reaches the broker.
type Gate struct{}

func (g Gate) Evaluate(intent strategy.TradeIntent, ctx RiskContext) (ApprovedIntent, error) {
	notional := intent.Price * float64(intent.Qty)

	slog.Info("risk evaluation", "intent", intent.Action, "symbol", intent.Symbol, "qty", intent.Qty, "held", ctx.HeldQty, "price", intent.Price, "notional", notional)

	if ctx.KillSwitch {
		slog.Info("risk rejected", "reason", "kill_switch_enabled")
		return ApprovedIntent{}, fmt.Errorf("kill_switch_enabled")
	}
	if intent.Symbol == "" {
		slog.Info("risk rejected", "reason", "missing_symbol")
		return ApprovedIntent{}, fmt.Errorf("missing_symbol")
	}
	if intent.Qty <= 0 {
		slog.Info("risk rejected", "reason", "invalid_quantity", "qty", intent.Qty)
		return ApprovedIntent{}, fmt.Errorf("invalid_quantity")
	}
	if intent.Action == strategy.Sell && ctx.HeldQty < intent.Qty {
		slog.Info("risk rejected", "reason", "no_position_to_sell", "held", ctx.HeldQty, "qty", intent.Qty)
		return ApprovedIntent{}, fmt.Errorf("no_position_to_sell")
	}
	if intent.Action == strategy.Buy && ctx.HeldQty > 0 {
		slog.Info("risk rejected", "reason", "already_held", "held", ctx.HeldQty)
		return ApprovedIntent{}, fmt.Errorf("already_held")
	}
	if intent.Action == strategy.Buy && ctx.MaxNotional > 0 && notional > ctx.MaxNotional {
		slog.Info("risk rejected", "reason", "max_notional_exceeded", "notional", notional, "max", ctx.MaxNotional)
		return ApprovedIntent{}, fmt.Errorf("max_notional_exceeded")
	}
	if ctx.OrderType == "limit" && ctx.LimitPrice <= 0 {
		slog.Info("risk rejected", "reason", "limit_without_price")
		return ApprovedIntent{}, fmt.Errorf("limit_without_price")
	}

	slog.Info("risk approved", "intent", intent.Action, "symbol", intent.Symbol, "qty", intent.Qty, "reason", intent.Reason)
	return ApprovedIntent{Intent: intent, Reason: "approved"}, nil
}
