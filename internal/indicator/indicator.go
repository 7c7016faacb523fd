// Package indicator computes simple moving averages over daily closes and
// classifies the short/long relationship between two consecutive bars.
package indicator

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/markcheno/go-talib"

	"crossbot/internal/logging"
)

var (
	ErrInsufficientData    = errors.New("insufficient data")
	ErrIndeterminateSignal = errors.New("indeterminate signal")
	ErrInvalidWindow       = errors.New("invalid moving average window")
)

var maLog = logging.New("indicator")

type Signal string

const (
	GoldenCross Signal = "GOLDEN_CROSS"
	DeathCross  Signal = "DEATH_CROSS"
	None        Signal = "NONE"
)

// Point is one daily close.
type Point struct {
	Date  time.Time
	Close float64
}

// Series is chronological, oldest first.
type Series []Point

func (s Series) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, p := range s {
		closes[i] = p.Close
	}
	return closes
}

func (s Series) Last() (Point, bool) {
	if len(s) == 0 {
		return Point{}, false
	}
	return s[len(s)-1], true
}

// Pair holds the short and long averages at an evaluation index and one
// bar earlier.
type Pair struct {
	Short     float64
	Long      float64
	PrevShort float64
	PrevLong  float64
}

func ValidateWindows(short, long int) error {
	if short < 1 || long <= short {
		return fmt.Errorf("%w: short=%d long=%d", ErrInvalidWindow, short, long)
	}
	return nil
}

// MovingAverages evaluates the pair at the latest close.
func MovingAverages(closes []float64, short, long int) (Pair, error) {
	return MovingAveragesAt(closes, len(closes)-1, short, long)
}

// MovingAveragesAt evaluates the pair at closes[idx]. It needs long+1
// closes ending at idx, all of them finite.
func MovingAveragesAt(closes []float64, idx, short, long int) (Pair, error) {
	if err := ValidateWindows(short, long); err != nil {
		return Pair{}, err
	}
	if idx >= len(closes) || idx < long {
		return Pair{}, fmt.Errorf("%w: have %d closes, need %d", ErrInsufficientData, idx+1, long+1)
	}

	tail := closes[idx-long : idx+1]
	for i, v := range tail {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Pair{}, fmt.Errorf("%w: missing close at offset %d", ErrIndeterminateSignal, idx-long+i)
		}
	}

	shortMA := talib.Sma(tail, short)
	longMA := talib.Sma(tail, long)
	n := len(tail) - 1
	pair := Pair{
		Short:     shortMA[n],
		Long:      longMA[n],
		PrevShort: shortMA[n-1],
		PrevLong:  longMA[n-1],
	}
	maLog.Debug("moving averages", "idx", idx, "short", pair.Short, "long", pair.Long, "prev_short", pair.PrevShort, "prev_long", pair.PrevLong)
	return pair, nil
}

// Crossover classifies the transition from the previous bar to the current
// one. Equal averages on both bars yield None.
func Crossover(p Pair) Signal {
	switch {
	case p.PrevShort <= p.PrevLong && p.Short > p.Long:
		return GoldenCross
	case p.PrevShort >= p.PrevLong && p.Short < p.Long:
		return DeathCross
	default:
		return None
	}
}

// Evaluate is MovingAverages followed by Crossover.
func Evaluate(closes []float64, short, long int) (Pair, Signal, error) {
	pair, err := MovingAverages(closes, short, long)
	if err != nil {
		return Pair{}, None, err
	}
	return pair, Crossover(pair), nil
}

// RecentCross looks back over the last lookback transitions for the most
// recent occurrence of want. barsAgo is 0 when it happened on the latest
// close. Windows with missing closes are skipped.
func RecentCross(closes []float64, short, long, lookback int, want Signal) (barsAgo int, pair Pair, found bool, err error) {
	if err := ValidateWindows(short, long); err != nil {
		return 0, Pair{}, false, err
	}
	last := len(closes) - 1
	if last < long {
		return 0, Pair{}, false, fmt.Errorf("%w: have %d closes, need %d", ErrInsufficientData, len(closes), long+1)
	}
	for idx := last; idx > last-lookback && idx >= long; idx-- {
		p, err := MovingAveragesAt(closes, idx, short, long)
		if err != nil {
			if errors.Is(err, ErrIndeterminateSignal) {
				continue
			}
			return 0, Pair{}, false, err
		}
		if Crossover(p) == want {
			return last - idx, p, true, nil
		}
	}
	return 0, Pair{}, false, nil
}
