package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crossbot/internal/indicator"
)

type fakeSource map[string]indicator.Series

func (f fakeSource) Series(ctx context.Context, symbol string, lookbackDays int) (indicator.Series, error) {
	series, ok := f[symbol]
	if !ok {
		return nil, errors.New("no bars")
	}
	return series, nil
}

// crossAt builds 201+after closes: flat at base, a jump to up on bar 200,
// then after more closes at up.
func crossAt(base, up float64, after int) indicator.Series {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	n := 201 + after
	series := make(indicator.Series, n)
	for i := range series {
		price := base
		if i >= 200 {
			price = up
		}
		series[i] = indicator.Point{Date: start.AddDate(0, 0, i), Close: price}
	}
	return series
}

func TestScanSortsByRecency(t *testing.T) {
	source := fakeSource{
		"OLD":   crossAt(100, 110, 3),
		"FRESH": crossAt(50, 55, 0),
		"FLAT":  crossAt(10, 10, 5),
	}

	hits, scanned := scan(context.Background(), source, []string{"OLD", "FLAT", "MISSING", "FRESH", "OLD"}, 50, 200, 20, 400)

	assert.Equal(t, 3, scanned)
	require.Len(t, hits, 2)
	assert.Equal(t, "FRESH", hits[0].symbol)
	assert.Equal(t, 0, hits[0].barsAgo)
	assert.Equal(t, "OLD", hits[1].symbol)
	assert.Equal(t, 3, hits[1].barsAgo)
}

func TestScanRespectsWindow(t *testing.T) {
	source := fakeSource{"OLD": crossAt(100, 110, 3)}

	hits, _ := scan(context.Background(), source, []string{"OLD"}, 50, 200, 3, 400)
	assert.Empty(t, hits)
}

func TestRenderEmpty(t *testing.T) {
	out := render(nil, 7, 20, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, out, "none among 7 symbols")
}
