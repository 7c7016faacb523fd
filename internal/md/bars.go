// Package md fetches daily bar history from Alpaca market data.
package md

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"crossbot/internal/indicator"
)

var ErrDataUnavailable = errors.New("data unavailable")

// BarsClient is the subset of the Alpaca market data client the provider
// needs.
type BarsClient interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

type Provider struct {
	client BarsClient
	feed   marketdata.Feed
	now    func() time.Time
}

func New(apiKey, apiSecret, feed string) *Provider {
	client := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	})
	return NewWithClient(client, feed)
}

func NewWithClient(client BarsClient, feed string) *Provider {
	return &Provider{
		client: client,
		feed:   parseFeed(feed),
		now:    time.Now,
	}
}

// Series returns split-adjusted daily closes covering the last lookbackDays
// calendar days, oldest first.
func (p *Provider) Series(ctx context.Context, symbol string, lookbackDays int) (indicator.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	end := p.now()
	bars, err := p.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.Split,
		Start:      end.AddDate(0, 0, -lookbackDays),
		End:        end,
		Feed:       p.feed,
	})
	if err != nil {
		slog.Error("fetch bars failed", "symbol", symbol, "error", err)
		return nil, fmt.Errorf("%w: %s: %w", ErrDataUnavailable, symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s: no bars returned", ErrDataUnavailable, symbol)
	}

	series := make(indicator.Series, 0, len(bars))
	for _, bar := range bars {
		series = append(series, indicator.Point{Date: bar.Timestamp, Close: bar.Close})
	}
	return series, nil
}

func parseFeed(feed string) marketdata.Feed {
	switch feed {
	case "iex":
		return marketdata.IEX
	case "sip":
		return marketdata.SIP
	default:
		return marketdata.IEX
	}
}
