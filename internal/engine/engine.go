package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"

	"crossbot/internal/broker"
	"crossbot/internal/config"
	"crossbot/internal/indicator"
	"crossbot/internal/risk"
	"crossbot/internal/strategy"
)

// Broker is the account side of Alpaca the engine talks to.
type Broker interface {
	IsMarketOpen(ctx context.Context) (bool, error)
	Account(ctx context.Context) (broker.Account, error)
	Positions(ctx context.Context) (map[string]broker.Position, error)
	PlaceOrder(ctx context.Context, req broker.OrderRequest) (broker.OrderRef, error)
}

type History interface {
	Series(ctx context.Context, symbol string, lookbackDays int) (indicator.Series, error)
}

type TradeJournal interface {
	Append(intent strategy.TradeIntent) error
}

const (
	ResultSubmitted   = "order_submitted"
	ResultRejected    = "rejected"
	ResultBuildFailed = "order_build_failed"
	ResultFailed      = "order_failed"
	ResultDryRun      = "dry_run"
)

// Submission is what happened to one intent at the order sink.
type Submission struct {
	Intent        strategy.TradeIntent
	Result        string
	OrderID       string
	ClientOrderID string
	Err           error
}

// Pass is the record of one daily run.
type Pass struct {
	StartedAt   time.Time
	Duration    time.Duration
	MarketOpen  bool
	DryRun      bool
	Account     broker.Account
	Positions   map[string]strategy.Position
	Plan        strategy.Plan
	Submissions []Submission
}

type Engine struct {
	cfg         config.Config
	strategy    strategy.Config
	gate        risk.Gate
	broker      Broker
	history     History
	trades      TradeJournal
	decisions   *DecisionLogger
	runID       string
	orderSeqNum uint64
	now         func() time.Time
}

func New(cfg config.Config, gate risk.Gate, brokerClient Broker, history History, trades TradeJournal, decisions *DecisionLogger) *Engine {
	return &Engine{
		cfg:       cfg,
		strategy:  cfg.Strategy(),
		gate:      gate,
		broker:    brokerClient,
		history:   history,
		trades:    trades,
		decisions: decisions,
		runID:     decisions.RunID(),
		now:       time.Now,
	}
}

// Run executes one pass: market gate, account snapshot, sell phase, buy
// phase, then submission of sells followed by buys. Per-symbol problems are
// recorded and skipped. A clock or account failure, or ctx ending before
// submission, aborts the pass with nothing submitted.
func (e *Engine) Run(ctx context.Context) (pass Pass, err error) {
	pass = Pass{StartedAt: e.now(), DryRun: e.cfg.Mode == config.ModeDryRun}
	defer func() { pass.Duration = e.now().Sub(pass.StartedAt) }()

	open, err := e.broker.IsMarketOpen(ctx)
	if err != nil {
		return pass, fmt.Errorf("market clock: %w", err)
	}
	if !open {
		slog.Info("market closed, skipping pass", "run_id", e.runID)
		return pass, nil
	}
	pass.MarketOpen = true

	account, err := e.broker.Account(ctx)
	if err != nil {
		return pass, fmt.Errorf("snapshot account: %w", err)
	}
	held, err := e.broker.Positions(ctx)
	if err != nil {
		return pass, fmt.Errorf("snapshot positions: %w", err)
	}
	pass.Account = account
	pass.Positions = toPortfolioPositions(held)

	slog.Info("pass started", "run_id", e.runID, "mode", e.cfg.Mode, "cash", account.Cash, "equity", account.Equity, "positions", len(held), "watchlist", len(e.strategy.Watchlist))

	lookup := func(symbol string) (indicator.Series, error) {
		return e.history.Series(ctx, symbol, e.cfg.LookbackDays)
	}
	plan := strategy.Build(e.strategy, strategy.Portfolio{
		Cash:      account.Cash,
		Equity:    account.Equity,
		Positions: pass.Positions,
	}, lookup)
	pass.Plan = plan

	for _, eval := range plan.Evaluations {
		if eval.Phase == strategy.PhaseSell && eval.Close > 0 {
			pos := pass.Positions[eval.Symbol]
			pos.CurrentPrice = eval.Close
			pass.Positions[eval.Symbol] = pos
		}
		if eval.Outcome == strategy.OutcomeHeld || eval.Outcome == strategy.OutcomeNoCapacity {
			continue
		}
		e.decisions.Append(decisionFromEvaluation(e.runID, eval))
	}

	if err := ctx.Err(); err != nil {
		slog.Error("pass aborted before submission", "run_id", e.runID, "sells", len(plan.Sells), "buys", len(plan.Buys), "error", err)
		return pass, fmt.Errorf("pass aborted: %w", err)
	}

	for _, intent := range plan.Intents() {
		pass.Submissions = append(pass.Submissions, e.submit(ctx, intent, held[intent.Symbol].Qty))
	}

	slog.Info("pass complete", "run_id", e.runID, "sells", len(plan.Sells), "buys", len(plan.Buys), "golden_crosses", plan.GoldenCrosses(), "scanned", plan.Scanned(), "slots_left", plan.Remaining.Slots, "cash_left", plan.Remaining.Cash.String())
	return pass, nil
}

func (e *Engine) submit(ctx context.Context, intent strategy.TradeIntent, heldQty int) Submission {
	sub := Submission{Intent: intent}
	decision := Decision{
		RunID:     e.runID,
		Timestamp: time.Now().UTC(),
		Phase:     phaseOf(intent),
		Symbol:    intent.Symbol,
		Close:     intent.Price,
		Intent:    intent.Action,
		IntentQty: intent.Qty,
		Reason:    intent.Reason,
	}
	defer func() {
		decision.Result = sub.Result
		decision.OrderID = sub.OrderID
		decision.ClientOrderID = sub.ClientOrderID
		e.decisions.Append(decision)
	}()

	approved, err := e.gate.Evaluate(intent, risk.RiskContext{
		HeldQty:     heldQty,
		MaxNotional: e.cfg.MaxNotional,
		KillSwitch:  e.cfg.KillSwitch,
		OrderType:   e.cfg.OrderType,
		LimitPrice:  intent.Price,
	})
	if err != nil {
		sub.Result, sub.Err = ResultRejected, err
		decision.RejectReason = err.Error()
		slog.Warn("intent rejected", "symbol", intent.Symbol, "intent", intent.Action, "qty", intent.Qty, "reason", err)
		return sub
	}

	if e.cfg.Mode == config.ModeDryRun {
		sub.Result = ResultDryRun
		slog.Info("dry run, order not placed", "symbol", intent.Symbol, "intent", intent.Action, "qty", intent.Qty, "price", intent.Price, "reason", intent.Reason)
		return sub
	}

	orderReq, err := e.buildOrder(approved.Intent)
	if err != nil {
		sub.Result, sub.Err = ResultBuildFailed, err
		decision.Error = err.Error()
		slog.Error("order build failed", "symbol", intent.Symbol, "error", err)
		return sub
	}

	orderRef, err := e.broker.PlaceOrder(ctx, orderReq)
	if err != nil {
		sub.Result, sub.Err = ResultFailed, err
		sub.ClientOrderID = orderReq.ClientOrderID
		decision.Error = err.Error()
		if intent.Action == strategy.Sell && broker.IsNotFound(err) {
			slog.Warn("position no longer held at broker", "symbol", intent.Symbol)
		}
		slog.Error("order failed, continuing", "symbol", intent.Symbol, "intent", intent.Action, "qty", intent.Qty, "error", err)
		return sub
	}

	sub.Result = ResultSubmitted
	sub.OrderID = orderRef.ID
	sub.ClientOrderID = orderRef.ClientOrderID
	slog.Info("order submitted", "symbol", intent.Symbol, "side", intent.Action, "qty", intent.Qty, "order_id", orderRef.ID, "client_order_id", orderRef.ClientOrderID)

	if err := e.trades.Append(intent); err != nil {
		slog.Error("trade log append failed", "symbol", intent.Symbol, "error", err)
	}
	return sub
}

func (e *Engine) buildOrder(intent strategy.TradeIntent) (broker.OrderRequest, error) {
	orderType, err := broker.ParseOrderType(e.cfg.OrderType)
	if err != nil {
		return broker.OrderRequest{}, err
	}
	tif, err := broker.ParseTimeInForce(e.cfg.TimeInForce)
	if err != nil {
		return broker.OrderRequest{}, err
	}
	side := alpaca.Buy
	if intent.Action == strategy.Sell {
		side = alpaca.Sell
	}

	req := broker.OrderRequest{
		Symbol:        intent.Symbol,
		Qty:           intent.Qty,
		Side:          side,
		Type:          orderType,
		TimeInForce:   tif,
		ClientOrderID: e.nextClientOrderID(),
	}

	if orderType == alpaca.Limit {
		price := intent.Price
		req.LimitPrice = &price
	}

	return req, nil
}

func (e *Engine) nextClientOrderID() string {
	seq := atomic.AddUint64(&e.orderSeqNum, 1)
	return fmt.Sprintf("%s-%d", e.runID, seq)
}

func phaseOf(intent strategy.TradeIntent) strategy.Phase {
	if intent.Action == strategy.Sell {
		return strategy.PhaseSell
	}
	return strategy.PhaseBuy
}

func toPortfolioPositions(held map[string]broker.Position) map[string]strategy.Position {
	positions := make(map[string]strategy.Position, len(held))
	for symbol, pos := range held {
		positions[symbol] = strategy.Position{
			Symbol:     symbol,
			Qty:        pos.Qty,
			EntryPrice: pos.AvgEntry,
		}
	}
	return positions
}
