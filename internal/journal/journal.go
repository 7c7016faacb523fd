// Package journal appends executed trades to a flat CSV file.
package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"crossbot/internal/strategy"
)

// TimestampLayout is local wall-clock time.
const TimestampLayout = "2006-01-02 15:04:05"

var header = []string{"timestamp", "action", "symbol", "quantity", "price"}

type TradeLog struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func New(path string) *TradeLog {
	return &TradeLog{path: path, now: time.Now}
}

// Append writes one row per intent, adding the header when the file is new.
func (l *TradeLog) Append(intent strategy.TradeIntent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, statErr := os.Stat(l.path)
	writeHeader := os.IsNotExist(statErr) || (statErr == nil && info.Size() == 0)

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open trade log: %w", err)
	}
	w := csv.NewWriter(file)
	if writeHeader {
		if err := w.Write(header); err != nil {
			_ = file.Close()
			return fmt.Errorf("write trade log header: %w", err)
		}
	}
	row := []string{
		l.now().Local().Format(TimestampLayout),
		actionLabel(intent),
		intent.Symbol,
		strconv.Itoa(intent.Qty),
		strconv.FormatFloat(intent.Price, 'f', 2, 64),
	}
	if err := w.Write(row); err != nil {
		_ = file.Close()
		return fmt.Errorf("write trade log row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = file.Close()
		return fmt.Errorf("flush trade log: %w", err)
	}
	return file.Close()
}

// actionLabel keeps the exit reason next to the side, e.g. "SELL (STOP_LOSS)".
func actionLabel(intent strategy.TradeIntent) string {
	if intent.Action == strategy.Sell && intent.Reason != "" {
		return fmt.Sprintf("%s (%s)", intent.Action, intent.Reason)
	}
	return string(intent.Action)
}
