package engine

import (
	"sort"

	"crossbot/internal/report"
)

// Summary flattens a pass into what the HTML and terminal reports show.
// Dry-run intents are listed as trades with their dry_run result.
func (p Pass) Summary() report.Summary {
	s := report.Summary{
		GeneratedAt:    p.StartedAt,
		MarketOpen:     p.MarketOpen,
		DryRun:         p.DryRun,
		PortfolioValue: p.Account.PortfolioValue,
		Cash:           p.Account.Cash,
		Scanned:        p.Plan.Scanned(),
		GoldenCrosses:  p.Plan.GoldenCrosses(),
		Duration:       p.Duration,
	}

	symbols := make([]string, 0, len(p.Positions))
	for symbol := range p.Positions {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	for _, symbol := range symbols {
		pos := p.Positions[symbol]
		current := pos.CurrentPrice
		if current <= 0 {
			current = pos.EntryPrice
		}
		s.Positions = append(s.Positions, report.PositionRow{
			Symbol:  symbol,
			Qty:     pos.Qty,
			Entry:   pos.EntryPrice,
			Current: current,
		})
	}

	for _, sub := range p.Submissions {
		s.Trades = append(s.Trades, report.Trade{
			Action: string(sub.Intent.Action),
			Symbol: sub.Intent.Symbol,
			Qty:    sub.Intent.Qty,
			Price:  sub.Intent.Price,
			Reason: string(sub.Intent.Reason),
			Result: sub.Result,
		})
	}
	return s
}

// Submitted counts intents the broker accepted.
func (p Pass) Submitted() int {
	count := 0
	for _, sub := range p.Submissions {
		if sub.Result == ResultSubmitted {
			count++
		}
	}
	return count
}
