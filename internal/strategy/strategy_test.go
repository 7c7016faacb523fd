package strategy

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"crossbot/internal/indicator"
)

var start = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func flatSeries(n int, price float64) indicator.Series {
	series := make(indicator.Series, n)
	for i := range series {
		series[i] = indicator.Point{Date: start.AddDate(0, 0, i), Close: price}
	}
	return series
}

// crossSeries is 200 flat closes followed by last. A higher last close is a
// golden cross under 50/200, a lower one a death cross.
func crossSeries(base, last float64) indicator.Series {
	series := flatSeries(200, base)
	return append(series, indicator.Point{Date: start.AddDate(0, 0, 200), Close: last})
}

func testConfig(watchlist ...string) Config {
	return Config{
		ShortWindow:      50,
		LongWindow:       200,
		MaxPositions:     4,
		MaxInvestmentPct: 0.25,
		StopLossPct:      0.05,
		Watchlist:        watchlist,
	}
}

func lookupFrom(data map[string]indicator.Series) (Lookup, *[]string) {
	var calls []string
	return func(symbol string) (indicator.Series, error) {
		calls = append(calls, symbol)
		series, ok := data[symbol]
		if !ok {
			return nil, fmt.Errorf("no bars for %s", symbol)
		}
		return series, nil
	}, &calls
}

func TestSizePosition(t *testing.T) {
	if got := SizePosition(100000, 0.25, 312.00); got != 80 {
		t.Fatalf("expected 80 shares, got %d", got)
	}
	if got := SizePosition(100000, 0.25, 0); got != 0 {
		t.Fatalf("expected 0 shares for zero price, got %d", got)
	}
}

func TestAllocateCapsAtCash(t *testing.T) {
	if got := Allocate(100000, 0.25, 312, 1000); got != 3 {
		t.Fatalf("expected qty reduced to 3, got %d", got)
	}
	if got := Allocate(100000, 0.25, 312, 50000); got != 80 {
		t.Fatalf("expected equity based qty 80, got %d", got)
	}
	if got := Allocate(100000, 0.25, 312, 311.99); got != 0 {
		t.Fatalf("expected 0 when cash < price, got %d", got)
	}
}

func TestStopLossThreshold(t *testing.T) {
	if !StopLossHit(100, 94.9, 0.05) {
		t.Fatalf("expected stop-loss at 94.9")
	}
	if !StopLossHit(100, 95, 0.05) {
		t.Fatalf("expected stop-loss exactly at threshold")
	}
	if StopLossHit(100, 95.1, 0.05) {
		t.Fatalf("expected hold at 95.1")
	}
}

func TestEvaluatePositionStopLoss(t *testing.T) {
	cfg := testConfig("AAPL")
	pos := Position{Symbol: "AAPL", Qty: 10, EntryPrice: 100}

	eval := EvaluatePosition(pos, flatSeries(201, 94.9), cfg)
	if eval.Intent == nil || eval.Intent.Reason != ReasonStopLoss || eval.Intent.Qty != 10 {
		t.Fatalf("expected STOP_LOSS sell of 10, got %+v", eval.Intent)
	}

	eval = EvaluatePosition(pos, flatSeries(201, 95.1), cfg)
	if eval.Intent != nil || eval.Outcome != OutcomeHold {
		t.Fatalf("expected hold, got %+v", eval)
	}
}

func TestEvaluatePositionStopLossWithoutEnoughHistory(t *testing.T) {
	cfg := testConfig("AAPL")
	pos := Position{Symbol: "AAPL", Qty: 3, EntryPrice: 100, CurrentPrice: 94.9}

	eval := EvaluatePosition(pos, flatSeries(20, 94.9), cfg)
	if eval.Intent == nil || eval.Intent.Reason != ReasonStopLoss {
		t.Fatalf("expected stop-loss sell, got %+v", eval)
	}
	if !errors.Is(eval.Err, indicator.ErrInsufficientData) {
		t.Fatalf("expected insufficient data to be recorded, got %v", eval.Err)
	}
}

func TestEvaluatePositionDeathCrossTakesPrecedence(t *testing.T) {
	cfg := testConfig("AAPL")
	pos := Position{Symbol: "AAPL", Qty: 5, EntryPrice: 200}

	// last close 50 is both a death cross and far below the stop
	eval := EvaluatePosition(pos, crossSeries(100, 50), cfg)
	if eval.Intent == nil || eval.Intent.Reason != ReasonDeathCross {
		t.Fatalf("expected DEATH_CROSS sell, got %+v", eval.Intent)
	}
	if eval.Intent.Price != 50 {
		t.Fatalf("expected reference price 50, got %.2f", eval.Intent.Price)
	}
}

func TestSellPhaseSkipsUnavailableSeries(t *testing.T) {
	cfg := testConfig("AAPL")
	lookup, _ := lookupFrom(map[string]indicator.Series{
		"KO": crossSeries(100, 50),
	})
	positions := map[string]Position{
		"KO":  {Symbol: "KO", Qty: 1, EntryPrice: 100},
		"MCD": {Symbol: "MCD", Qty: 1, EntryPrice: 100},
	}

	sells, evals := SellPhase(positions, cfg, lookup)
	if len(sells) != 1 || sells[0].Symbol != "KO" {
		t.Fatalf("expected one KO sell, got %+v", sells)
	}
	if len(evals) != 2 || evals[1].Symbol != "MCD" || evals[1].Outcome != OutcomeDataUnavailable {
		t.Fatalf("expected MCD skipped, got %+v", evals)
	}
}

func TestBuildEndToEnd(t *testing.T) {
	cfg := testConfig("NVDA", "AAPL", "KO")
	lookup, _ := lookupFrom(map[string]indicator.Series{
		"KO":   flatSeries(201, 312),
		"MCD":  flatSeries(201, 311),
		"NVDA": crossSeries(800, 850),
		"AAPL": flatSeries(201, 190),
	})
	portfolio := Portfolio{
		Cash:   50000,
		Equity: 100000,
		Positions: map[string]Position{
			"KO":  {Symbol: "KO", Qty: 80, EntryPrice: 312},
			"MCD": {Symbol: "MCD", Qty: 80, EntryPrice: 311},
		},
	}

	plan := Build(cfg, portfolio, lookup)

	if len(plan.Sells) != 0 {
		t.Fatalf("expected no sells, got %+v", plan.Sells)
	}
	if len(plan.Buys) != 1 {
		t.Fatalf("expected one buy, got %+v", plan.Buys)
	}
	buy := plan.Buys[0]
	if buy.Symbol != "NVDA" || buy.Qty != 29 || buy.Action != Buy || buy.Reason != ReasonGoldenCross {
		t.Fatalf("unexpected buy %+v", buy)
	}
	if plan.Remaining.Slots != 1 {
		t.Fatalf("expected 1 slot left, got %d", plan.Remaining.Slots)
	}
	if !plan.Remaining.Cash.Equal(decimal.NewFromInt(25350)) {
		t.Fatalf("expected 25350 cash left, got %s", plan.Remaining.Cash)
	}
	if plan.GoldenCrosses() != 1 {
		t.Fatalf("expected 1 golden cross, got %d", plan.GoldenCrosses())
	}
	if plan.Scanned() != 2 {
		t.Fatalf("expected 2 symbols scanned, got %d", plan.Scanned())
	}
}

func TestScanWatchlistOrderWins(t *testing.T) {
	cfg := testConfig("AMD", "NVDA")
	lookup, calls := lookupFrom(map[string]indicator.Series{
		"AMD":  crossSeries(100, 120),
		"NVDA": crossSeries(800, 850),
	})
	capacity := Capacity{Slots: 1, Cash: decimal.NewFromInt(100000)}

	buys, evals := Scan(cfg, map[string]bool{}, &capacity, 100000, lookup)
	if len(buys) != 1 || buys[0].Symbol != "AMD" {
		t.Fatalf("expected AMD to take the last slot, got %+v", buys)
	}
	if evals[1].Outcome != OutcomeNoCapacity {
		t.Fatalf("expected NVDA skipped for capacity, got %s", evals[1].Outcome)
	}
	if len(*calls) != 1 {
		t.Fatalf("expected no fetch once slots are gone, got %v", *calls)
	}
}

func TestScanCashDepletionAcrossBuys(t *testing.T) {
	cfg := testConfig("AMD", "NVDA", "AVGO")
	lookup, _ := lookupFrom(map[string]indicator.Series{
		"AMD":  crossSeries(100, 120),
		"NVDA": crossSeries(800, 850),
		"AVGO": crossSeries(100, 120),
	})
	capacity := Capacity{Slots: 3, Cash: decimal.NewFromInt(30000)}

	buys, evals := Scan(cfg, map[string]bool{}, &capacity, 100000, lookup)
	// AMD takes 25000/120 = 208 shares (24960), leaving 5040 for NVDA: 5 shares
	if len(buys) != 3 {
		t.Fatalf("expected three buys, got %+v", buys)
	}
	if buys[0].Qty != 208 || buys[1].Qty != 5 {
		t.Fatalf("unexpected quantities %+v", buys)
	}
	// 5040 - 4250 = 790 left, AVGO at 120 gets 6
	if buys[2].Qty != 6 {
		t.Fatalf("expected AVGO capped to 6, got %d", buys[2].Qty)
	}
	if capacity.Slots != 0 || !capacity.Cash.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("unexpected remaining capacity %d %s", capacity.Slots, capacity.Cash)
	}
	for _, eval := range evals {
		if eval.Outcome != OutcomeBuy {
			t.Fatalf("expected all buys, got %s for %s", eval.Outcome, eval.Symbol)
		}
	}
}

func TestScanSkipsHeldUnavailableAndPoorSymbols(t *testing.T) {
	cfg := testConfig("KO", "MISSING", "SHORT", "BRK.A", "KO")
	lookup, calls := lookupFrom(map[string]indicator.Series{
		"SHORT": flatSeries(50, 10),
		"BRK.A": crossSeries(600000, 650000),
	})
	capacity := Capacity{Slots: 2, Cash: decimal.NewFromInt(50000)}

	buys, evals := Scan(cfg, map[string]bool{"KO": true}, &capacity, 100000, lookup)
	if len(buys) != 0 {
		t.Fatalf("expected no buys, got %+v", buys)
	}
	want := []Outcome{OutcomeHeld, OutcomeDataUnavailable, OutcomeInsufficientData, OutcomeInsufficientCash}
	if len(evals) != len(want) {
		t.Fatalf("expected %d evaluations, got %d", len(want), len(evals))
	}
	for i, outcome := range want {
		if evals[i].Outcome != outcome {
			t.Fatalf("evaluation %d: expected %s, got %s", i, outcome, evals[i].Outcome)
		}
	}
	if len(*calls) != 3 {
		t.Fatalf("expected held and duplicate symbols not fetched, got %v", *calls)
	}
	if capacity.Slots != 2 {
		t.Fatalf("expected slots untouched, got %d", capacity.Slots)
	}
}

func TestBuildSellProceedsAreNotReused(t *testing.T) {
	cfg := testConfig("NVDA")
	lookup, _ := lookupFrom(map[string]indicator.Series{
		"KO":   crossSeries(312, 100),
		"NVDA": crossSeries(800, 850),
	})
	portfolio := Portfolio{
		Cash:   500,
		Equity: 100000,
		Positions: map[string]Position{
			"KO": {Symbol: "KO", Qty: 80, EntryPrice: 312},
		},
	}

	plan := Build(cfg, portfolio, lookup)
	if len(plan.Sells) != 1 {
		t.Fatalf("expected KO sell, got %+v", plan.Sells)
	}
	if len(plan.Buys) != 0 {
		t.Fatalf("expected no buy with 500 cash, got %+v", plan.Buys)
	}
	if plan.Remaining.Slots != 4 {
		t.Fatalf("expected the sold slot to be free, got %d", plan.Remaining.Slots)
	}
	intents := plan.Intents()
	if len(intents) != 1 || intents[0].Action != Sell {
		t.Fatalf("unexpected intents %+v", intents)
	}
}

func TestBuildFullBookSkipsScan(t *testing.T) {
	cfg := testConfig("NVDA")
	cfg.MaxPositions = 1
	lookup, calls := lookupFrom(map[string]indicator.Series{
		"KO":   flatSeries(201, 312),
		"NVDA": crossSeries(800, 850),
	})
	portfolio := Portfolio{
		Cash:      100000,
		Equity:    100000,
		Positions: map[string]Position{"KO": {Symbol: "KO", Qty: 1, EntryPrice: 312}},
	}

	plan := Build(cfg, portfolio, lookup)
	if len(plan.Buys) != 0 {
		t.Fatalf("expected no buys, got %+v", plan.Buys)
	}
	if len(*calls) != 1 {
		t.Fatalf("expected only the held symbol fetched, got %v", *calls)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := testConfig("AAPL").Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	bad := testConfig("AAPL")
	bad.LongWindow = 50
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected window error")
	}
	bad = testConfig()
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected empty watchlist error")
	}
	bad = testConfig("AAPL")
	bad.MaxInvestmentPct = 1.5
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected pct error")
	}
}
