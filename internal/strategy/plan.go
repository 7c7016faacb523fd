package strategy

import (
	"github.com/shopspring/decimal"

	"crossbot/internal/indicator"
)

// Plan is the outcome of one decision pass: sells first, then buys.
type Plan struct {
	Sells       []TradeIntent
	Buys        []TradeIntent
	Evaluations []Evaluation
	Remaining   Capacity
}

func (p Plan) Intents() []TradeIntent {
	intents := make([]TradeIntent, 0, len(p.Sells)+len(p.Buys))
	intents = append(intents, p.Sells...)
	return append(intents, p.Buys...)
}

// GoldenCrosses counts golden crosses seen by the buy phase, sized or not.
func (p Plan) GoldenCrosses() int {
	count := 0
	for _, eval := range p.Evaluations {
		if eval.Phase == PhaseBuy && eval.Signal == indicator.GoldenCross {
			count++
		}
	}
	return count
}

// Scanned counts buy-phase symbols whose series was actually evaluated.
func (p Plan) Scanned() int {
	count := 0
	for _, eval := range p.Evaluations {
		if eval.Phase != PhaseBuy {
			continue
		}
		if eval.Outcome == OutcomeHeld || eval.Outcome == OutcomeNoCapacity {
			continue
		}
		count++
	}
	return count
}

// Build runs the sell phase over every position and then the buy phase over
// the watchlist. Cash released by same-pass sells is not reused: the buy
// phase only sees the cash the account had when the pass started. Slots
// freed by sells are available.
func Build(cfg Config, portfolio Portfolio, lookup Lookup) Plan {
	sells, evals := SellPhase(portfolio.Positions, cfg, lookup)

	slots := cfg.MaxPositions - (len(portfolio.Positions) - len(sells))
	if slots < 0 {
		slots = 0
	}
	cash := decimal.NewFromFloat(portfolio.Cash)
	if cash.IsNegative() {
		cash = decimal.Zero
	}
	capacity := Capacity{Slots: slots, Cash: cash}

	held := make(map[string]bool, len(portfolio.Positions))
	for symbol := range portfolio.Positions {
		held[symbol] = true
	}
	buys, buyEvals := Scan(cfg, held, &capacity, portfolio.Equity, lookup)

	return Plan{
		Sells:       sells,
		Buys:        buys,
		Evaluations: append(evals, buyEvals...),
		Remaining:   capacity,
	}
}
