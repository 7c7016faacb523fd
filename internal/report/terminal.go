package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4CAF50"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	buyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	sellStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f44336")).Bold(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Terminal renders the summary for stdout.
func Terminal(s Summary) string {
	var lines []string
	title := "Daily pass " + s.GeneratedAt.Format("2006-01-02 15:04 MST")
	if s.DryRun {
		title += " (dry run)"
	}
	lines = append(lines, titleStyle.Render(title))

	if !s.MarketOpen {
		lines = append(lines, "market closed, nothing evaluated")
		return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	lines = append(lines,
		field("portfolio", fmt.Sprintf("$%.2f", s.PortfolioValue)),
		field("cash", fmt.Sprintf("$%.2f", s.Cash)),
		field("positions", fmt.Sprintf("%d", len(s.Positions))),
		field("scanned", fmt.Sprintf("%d", s.Scanned)),
		field("golden crosses", fmt.Sprintf("%d", s.GoldenCrosses)),
		field("elapsed", s.Duration.String()),
	)

	if len(s.Trades) == 0 {
		lines = append(lines, "no trades")
	}
	for _, trade := range s.Trades {
		style := buyStyle
		if trade.Action == "SELL" {
			style = sellStyle
		}
		lines = append(lines, fmt.Sprintf("%s %-6s %5d @ $%.2f  %s  %s",
			style.Render(fmt.Sprintf("%-4s", trade.Action)), trade.Symbol, trade.Qty, trade.Price, trade.Reason, trade.Result))
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func field(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-15s", label)) + " " + strings.TrimSpace(value)
}
