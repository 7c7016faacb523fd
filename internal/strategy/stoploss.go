package strategy

import "github.com/shopspring/decimal"

// StopLossHit reports whether the drawdown from entry has reached pct.
// The threshold is fixed against the entry price.
func StopLossHit(entry, current, pct float64) bool {
	e := decimal.NewFromFloat(entry)
	if !e.IsPositive() {
		return false
	}
	loss := e.Sub(decimal.NewFromFloat(current)).Div(e)
	return loss.GreaterThanOrEqual(decimal.NewFromFloat(pct))
}

// PnLPct is the unrealized return from entry in percent.
func PnLPct(entry, current float64) float64 {
	if entry <= 0 {
		return 0
	}
	return (current - entry) / entry * 100
}
