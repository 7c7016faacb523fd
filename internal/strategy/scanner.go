package strategy

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"crossbot/internal/indicator"
	"crossbot/internal/logging"
)

var scanLog = logging.New("scanner")

// Scan walks the watchlist in declared order and emits a BUY for every
// golden cross it can size. Each buy draws down capacity before the next
// symbol is looked at, so earlier symbols win when slots or cash run out.
func Scan(cfg Config, held map[string]bool, capacity *Capacity, equity float64, lookup Lookup) ([]TradeIntent, []Evaluation) {
	var buys []TradeIntent
	evals := make([]Evaluation, 0, len(cfg.Watchlist))
	visited := make(map[string]bool, len(cfg.Watchlist))
	equityDec := decimal.NewFromFloat(equity)
	pct := decimal.NewFromFloat(cfg.MaxInvestmentPct)

	for _, symbol := range cfg.Watchlist {
		if visited[symbol] {
			continue
		}
		visited[symbol] = true

		eval := Evaluation{Phase: PhaseBuy, Symbol: symbol, Signal: indicator.None}
		if held[symbol] {
			eval.Outcome = OutcomeHeld
			evals = append(evals, eval)
			continue
		}
		if capacity.Slots <= 0 {
			eval.Outcome = OutcomeNoCapacity
			evals = append(evals, eval)
			continue
		}

		series, err := lookup(symbol)
		if err != nil {
			eval.Outcome = OutcomeDataUnavailable
			eval.Err = err
			scanLog.Debug("series unavailable", "symbol", symbol, "error", err)
			evals = append(evals, eval)
			continue
		}
		pair, signal, err := indicator.Evaluate(series.Closes(), cfg.ShortWindow, cfg.LongWindow)
		if err != nil {
			eval.Outcome = outcomeFor(err)
			eval.Err = err
			scanLog.Debug("signal skipped", "symbol", symbol, "error", err)
			evals = append(evals, eval)
			continue
		}
		last, _ := series.Last()
		eval.Pair = pair
		eval.Signal = signal
		eval.Close = last.Close

		if signal != indicator.GoldenCross {
			eval.Outcome = OutcomeNoSignal
			scanLog.Debug("no golden cross", "symbol", symbol, "signal", signal, "short_ma", pair.Short, "long_ma", pair.Long)
			evals = append(evals, eval)
			continue
		}
		slog.Info("golden cross", "symbol", symbol, "price", last.Close, "short_ma", pair.Short, "long_ma", pair.Long, "prev_short_ma", pair.PrevShort, "prev_long_ma", pair.PrevLong)

		price := decimal.NewFromFloat(last.Close)
		qty := allocate(equityDec, pct, price, capacity.Cash)
		if qty == 0 {
			eval.Outcome = OutcomeInsufficientCash
			slog.Warn("insufficient cash", "symbol", symbol, "price", last.Close, "cash", capacity.Cash.String())
			evals = append(evals, eval)
			continue
		}

		intent := TradeIntent{Action: Buy, Symbol: symbol, Qty: int(qty), Reason: ReasonGoldenCross, Price: last.Close}
		capacity.take(qty, price)
		eval.Outcome = OutcomeBuy
		eval.Intent = &intent
		buys = append(buys, intent)
		evals = append(evals, eval)
		slog.Info("buy sized", "symbol", symbol, "qty", qty, "price", last.Close, "slots_left", capacity.Slots, "cash_left", capacity.Cash.String())
	}
	return buys, evals
}
