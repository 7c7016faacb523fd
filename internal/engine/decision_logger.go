package engine

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"crossbot/internal/indicator"
	"crossbot/internal/strategy"
)

// Decision is one NDJSON line: either a per-symbol evaluation or the result
// of submitting an intent.
type Decision struct {
	RunID         string           `json:"run_id"`
	Timestamp     time.Time        `json:"timestamp"`
	Phase         strategy.Phase   `json:"phase"`
	Symbol        string           `json:"symbol"`
	Close         float64          `json:"close,omitempty"`
	ShortMA       float64          `json:"short_ma,omitempty"`
	LongMA        float64          `json:"long_ma,omitempty"`
	PrevShortMA   float64          `json:"prev_short_ma,omitempty"`
	PrevLongMA    float64          `json:"prev_long_ma,omitempty"`
	Signal        indicator.Signal `json:"signal,omitempty"`
	Intent        strategy.Action  `json:"intent,omitempty"`
	IntentQty     int              `json:"intent_qty,omitempty"`
	Reason        strategy.Reason  `json:"reason,omitempty"`
	Result        string           `json:"result"`
	RejectReason  string           `json:"reject_reason,omitempty"`
	Error         string           `json:"error,omitempty"`
	OrderID       string           `json:"order_id,omitempty"`
	ClientOrderID string           `json:"client_order_id,omitempty"`
}

func decisionFromEvaluation(runID string, eval strategy.Evaluation) Decision {
	d := Decision{
		RunID:       runID,
		Timestamp:   time.Now().UTC(),
		Phase:       eval.Phase,
		Symbol:      eval.Symbol,
		Close:       eval.Close,
		ShortMA:     eval.Pair.Short,
		LongMA:      eval.Pair.Long,
		PrevShortMA: eval.Pair.PrevShort,
		PrevLongMA:  eval.Pair.PrevLong,
		Signal:      eval.Signal,
		Result:      string(eval.Outcome),
	}
	if eval.Intent != nil {
		d.Intent = eval.Intent.Action
		d.IntentQty = eval.Intent.Qty
		d.Reason = eval.Intent.Reason
	}
	if eval.Err != nil {
		d.Error = eval.Err.Error()
	}
	return d
}

type DecisionLogger struct {
	runID  string
	file   *os.File
	writer *bufio.Writer
	mu     sync.Mutex
}

func NewDecisionLogger(path string, runID string) (*DecisionLogger, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &DecisionLogger{
		runID:  runID,
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

func (d *DecisionLogger) RunID() string {
	return d.runID
}

func (d *DecisionLogger) Append(decision Decision) {
	d.mu.Lock()
	defer d.mu.Unlock()
	payload, err := json.Marshal(decision)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal decision: %v\n", err)
		return
	}
	if _, err := d.writer.Write(append(payload, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write decision: %v\n", err)
		return
	}
	if err := d.writer.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to flush decision log: %v\n", err)
	}
}

func (d *DecisionLogger) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writer.Flush(); err != nil {
		_ = d.file.Close()
		return err
	}
	return d.file.Close()
}
