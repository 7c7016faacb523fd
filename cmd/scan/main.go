// Command scan lists watchlist symbols whose short average crossed above the
// long average within the last few daily bars. It never places orders.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"

	"crossbot/internal/config"
	"crossbot/internal/indicator"
	"crossbot/internal/logging"
	"crossbot/internal/md"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4CAF50"))
	freshStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type hit struct {
	symbol  string
	barsAgo int
	close   float64
	pair    indicator.Pair
}

func main() {
	defaults := config.Defaults()
	watchlist := flag.String("watchlist", "", "comma separated symbols (default S&P 500)")
	within := flag.Int("within", 20, "report crosses within this many bars")
	shortWindow := flag.Int("short-window", defaults.ShortWindow, "short moving average window")
	longWindow := flag.Int("long-window", defaults.LongWindow, "long moving average window")
	lookbackDays := flag.Int("lookback-days", defaults.LookbackDays+30, "calendar days of daily bars to fetch")
	feed := flag.String("feed", defaults.Feed, "market data feed: iex or sip")
	timeout := flag.Duration("timeout", defaults.Timeout, "deadline for the whole scan")
	logFormat := flag.String("log-format", defaults.LogFormat, "log format: text or json")
	flag.Parse()

	logging.Setup(os.Stderr, *logFormat)

	if err := indicator.ValidateWindows(*shortWindow, *longWindow); err != nil {
		log.Fatalf("config error: %v", err)
	}
	if *within <= 0 {
		log.Fatalf("config error: within must be > 0")
	}
	symbols := defaults.Watchlist
	if *watchlist != "" {
		symbols = config.ParseWatchlist(*watchlist)
	}

	key, secret, err := config.Credentials()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	provider := md.New(key, secret, *feed)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	hits, scanned := scan(ctx, provider, symbols, *shortWindow, *longWindow, *within, *lookbackDays)
	fmt.Println(render(hits, scanned, *within, time.Now()))
}

func scan(ctx context.Context, provider barSource, symbols []string, short, long, within, lookbackDays int) ([]hit, int) {
	var hits []hit
	seen := make(map[string]bool, len(symbols))
	scanned := 0
	for _, symbol := range symbols {
		if seen[symbol] {
			continue
		}
		seen[symbol] = true
		if ctx.Err() != nil {
			slog.Warn("scan stopped", "error", ctx.Err())
			break
		}

		series, err := provider.Series(ctx, symbol, lookbackDays)
		if err != nil {
			slog.Warn("skipping symbol", "symbol", symbol, "error", err)
			continue
		}
		closes := series.Closes()
		barsAgo, pair, found, err := indicator.RecentCross(closes, short, long, within, indicator.GoldenCross)
		if err != nil {
			slog.Debug("skipping symbol", "symbol", symbol, "error", err)
			continue
		}
		scanned++
		if !found {
			continue
		}
		last, _ := series.Last()
		hits = append(hits, hit{symbol: symbol, barsAgo: barsAgo, close: last.Close, pair: pair})
		slog.Info("golden cross found", "symbol", symbol, "bars_ago", barsAgo, "short_ma", pair.Short, "long_ma", pair.Long)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].barsAgo != hits[j].barsAgo {
			return hits[i].barsAgo < hits[j].barsAgo
		}
		return hits[i].symbol < hits[j].symbol
	})
	return hits, scanned
}

type barSource interface {
	Series(ctx context.Context, symbol string, lookbackDays int) (indicator.Series, error)
}

func render(hits []hit, scanned, within int, now time.Time) string {
	lines := []string{headerStyle.Render(fmt.Sprintf("Golden crosses in the last %d bars (%s)", within, now.Format("2006-01-02")))}
	if len(hits) == 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("none among %d symbols", scanned)))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}
	for _, h := range hits {
		line := fmt.Sprintf("%-6s %3d bars ago  close %9.2f  short %9.2f  long %9.2f", h.symbol, h.barsAgo, h.close, h.pair.Short, h.pair.Long)
		if h.barsAgo == 0 {
			line = freshStyle.Render(line)
		}
		lines = append(lines, line)
	}
	lines = append(lines, dimStyle.Render(fmt.Sprintf("%d of %d symbols", len(hits), scanned)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
