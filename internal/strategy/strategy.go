package strategy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"crossbot/internal/indicator"
)

type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

type Reason string

const (
	ReasonGoldenCross Reason = "GOLDEN_CROSS"
	ReasonDeathCross  Reason = "DEATH_CROSS"
	ReasonStopLoss    Reason = "STOP_LOSS"
)

// TradeIntent is an order the pass wants placed. Price is the close the
// decision was made on.
type TradeIntent struct {
	Action Action
	Symbol string
	Qty    int
	Reason Reason
	Price  float64
}

type Position struct {
	Symbol       string
	Qty          int
	EntryPrice   float64
	CurrentPrice float64
}

// Portfolio is the account snapshot taken at the start of a pass.
type Portfolio struct {
	Cash      float64
	Equity    float64
	Positions map[string]Position
}

// Config is fixed for the lifetime of an engine.
type Config struct {
	ShortWindow      int
	LongWindow       int
	MaxPositions     int
	MaxInvestmentPct float64
	StopLossPct      float64
	Watchlist        []string
}

func (c Config) Validate() error {
	if err := indicator.ValidateWindows(c.ShortWindow, c.LongWindow); err != nil {
		return err
	}
	if c.MaxPositions <= 0 {
		return fmt.Errorf("max positions must be > 0")
	}
	if c.MaxInvestmentPct <= 0 || c.MaxInvestmentPct > 1 {
		return fmt.Errorf("max investment pct must be in (0, 1]")
	}
	if c.StopLossPct <= 0 || c.StopLossPct >= 1 {
		return fmt.Errorf("stop loss pct must be in (0, 1)")
	}
	if len(c.Watchlist) == 0 {
		return fmt.Errorf("watchlist is empty")
	}
	for _, symbol := range c.Watchlist {
		if strings.TrimSpace(symbol) == "" {
			return fmt.Errorf("watchlist contains an empty symbol")
		}
	}
	return nil
}

// Capacity is the buy-side headroom left in a pass. The scanner draws it
// down as it sizes each buy.
type Capacity struct {
	Slots int
	Cash  decimal.Decimal
}

func (c *Capacity) take(qty int64, price decimal.Decimal) {
	c.Slots--
	c.Cash = c.Cash.Sub(price.Mul(decimal.NewFromInt(qty)))
}

// Lookup returns the daily series for a symbol. Errors skip the symbol.
type Lookup func(symbol string) (indicator.Series, error)

type Phase string

const (
	PhaseSell Phase = "sell"
	PhaseBuy  Phase = "buy"
)

type Outcome string

const (
	OutcomeHold                Outcome = "hold"
	OutcomeSell                Outcome = "sell"
	OutcomeBuy                 Outcome = "buy"
	OutcomeNoSignal            Outcome = "no_signal"
	OutcomeHeld                Outcome = "held"
	OutcomeNoCapacity          Outcome = "no_capacity"
	OutcomeInsufficientCash    Outcome = "insufficient_cash"
	OutcomeInsufficientData    Outcome = "insufficient_data"
	OutcomeIndeterminateSignal Outcome = "indeterminate_signal"
	OutcomeDataUnavailable     Outcome = "data_unavailable"
)

// Evaluation is the per-symbol result of a phase. Err explains why the
// crossover could not be computed; a held position can still be sold on
// its stop-loss when Err is set.
type Evaluation struct {
	Phase   Phase
	Symbol  string
	Close   float64
	Pair    indicator.Pair
	Signal  indicator.Signal
	Outcome Outcome
	Intent  *TradeIntent
	Err     error
}

func (e Evaluation) Skipped() bool {
	switch e.Outcome {
	case OutcomeInsufficientData, OutcomeIndeterminateSignal, OutcomeDataUnavailable:
		return true
	}
	return false
}

func outcomeFor(err error) Outcome {
	switch {
	case errors.Is(err, indicator.ErrInsufficientData):
		return OutcomeInsufficientData
	case errors.Is(err, indicator.ErrIndeterminateSignal):
		return OutcomeIndeterminateSignal
	default:
		return OutcomeDataUnavailable
	}
}
