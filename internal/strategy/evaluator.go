package strategy

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"crossbot/internal/indicator"
)

// EvaluatePosition decides HOLD or SELL for one held position. A death
// cross takes precedence over the stop-loss. When the averages cannot be
// computed the crossover counts as NONE and only the stop-loss applies.
func EvaluatePosition(pos Position, series indicator.Series, cfg Config) Evaluation {
	eval := Evaluation{Phase: PhaseSell, Symbol: pos.Symbol, Signal: indicator.None}

	current := pos.CurrentPrice
	if last, ok := series.Last(); ok && current <= 0 {
		current = last.Close
	}
	if current <= 0 || math.IsNaN(current) || math.IsInf(current, 0) {
		eval.Outcome = OutcomeDataUnavailable
		eval.Err = fmt.Errorf("%w: no current price for %s", indicator.ErrInsufficientData, pos.Symbol)
		return eval
	}
	eval.Close = current

	pair, signal, err := indicator.Evaluate(series.Closes(), cfg.ShortWindow, cfg.LongWindow)
	if err != nil {
		if errors.Is(err, indicator.ErrInvalidWindow) {
			eval.Outcome = OutcomeDataUnavailable
			eval.Err = err
			return eval
		}
		eval.Err = err
	} else {
		eval.Pair = pair
		eval.Signal = signal
	}

	switch {
	case eval.Signal == indicator.DeathCross:
		eval.Intent = &TradeIntent{Action: Sell, Symbol: pos.Symbol, Qty: pos.Qty, Reason: ReasonDeathCross, Price: current}
		slog.Info("death cross", "symbol", pos.Symbol, "price", current, "short_ma", pair.Short, "long_ma", pair.Long)
	case StopLossHit(pos.EntryPrice, current, cfg.StopLossPct):
		eval.Intent = &TradeIntent{Action: Sell, Symbol: pos.Symbol, Qty: pos.Qty, Reason: ReasonStopLoss, Price: current}
		slog.Warn("stop-loss", "symbol", pos.Symbol, "price", current, "entry", pos.EntryPrice, "pnl_pct", PnLPct(pos.EntryPrice, current))
	default:
		eval.Outcome = OutcomeHold
		slog.Info("holding", "symbol", pos.Symbol, "price", current, "entry", pos.EntryPrice, "pnl_pct", PnLPct(pos.EntryPrice, current))
		return eval
	}
	eval.Outcome = OutcomeSell
	return eval
}

// SellPhase evaluates every held position. Positions are visited in symbol
// order so logs are stable between runs.
func SellPhase(positions map[string]Position, cfg Config, lookup Lookup) ([]TradeIntent, []Evaluation) {
	symbols := make([]string, 0, len(positions))
	for symbol := range positions {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	var sells []TradeIntent
	evals := make([]Evaluation, 0, len(symbols))
	for _, symbol := range symbols {
		pos := positions[symbol]
		series, err := lookup(symbol)
		if err != nil {
			slog.Error("sell check skipped", "symbol", symbol, "error", err)
			evals = append(evals, Evaluation{Phase: PhaseSell, Symbol: symbol, Signal: indicator.None, Outcome: OutcomeDataUnavailable, Err: err})
			continue
		}
		if last, ok := series.Last(); ok {
			pos.CurrentPrice = last.Close
		}
		eval := EvaluatePosition(pos, series, cfg)
		if eval.Intent != nil {
			sells = append(sells, *eval.Intent)
		}
		evals = append(evals, eval)
	}
	return sells, evals
}
