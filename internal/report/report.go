// Package report renders the end-of-pass summary as an HTML file and as a
// terminal block.
package report

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"
)

const LatestName = "latest_report.html"

type PositionRow struct {
	Symbol  string
	Qty     int
	Entry   float64
	Current float64
}

func (p PositionRow) Value() float64 {
	return float64(p.Qty) * p.Current
}

func (p PositionRow) PnLPct() float64 {
	if p.Entry <= 0 {
		return 0
	}
	return (p.Current - p.Entry) / p.Entry * 100
}

type Trade struct {
	Action string
	Symbol string
	Qty    int
	Price  float64
	Reason string
	Result string
}

type Summary struct {
	GeneratedAt    time.Time
	MarketOpen     bool
	DryRun         bool
	PortfolioValue float64
	Cash           float64
	Positions      []PositionRow
	Trades         []Trade
	Scanned        int
	GoldenCrosses  int
	Duration       time.Duration
}

var funcs = template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
	"pct":   func(v float64) string { return fmt.Sprintf("%+.2f%%", v) },
	"sell":  func(action string) bool { return action == "SELL" },
	"date":  func(t time.Time, layout string) string { return t.Format(layout) },
}

var page = template.Must(template.New("report").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="UTF-8">
    <title>Trading Report - {{date .GeneratedAt "2006-01-02"}}</title>
    <style>
      body { font-family: Arial, sans-serif; color: #333; background: #f5f5f5; margin: 0; }
      .container { max-width: 1100px; margin: 20px auto; background: #fff; }
      .header { background: #4CAF50; color: #fff; padding: 24px; text-align: center; }
      .content { padding: 24px; }
      .stats { display: flex; justify-content: space-around; flex-wrap: wrap; }
      .stat { text-align: center; padding: 16px; background: #e3f2fd; border-radius: 8px; min-width: 180px; margin: 8px; }
      .trade { border-left: 4px solid #4CAF50; padding: 8px 12px; margin: 8px 0; }
      .trade.sell { border-left-color: #f44336; }
      .gain { color: #4CAF50; } .loss { color: #f44336; }
      table { width: 100%; border-collapse: collapse; }
      th, td { padding: 8px; border-bottom: 1px solid #ddd; text-align: right; }
      th:first-child, td:first-child { text-align: left; }
    </style>
  </head>
  <body>
    <div class="container">
      <div class="header">
        <h1>Multi-Stock Trading Agent</h1>
        <p>Daily Report - {{date .GeneratedAt "Monday, January 2, 2006 at 3:04 PM MST"}}{{if .DryRun}} (dry run){{end}}</p>
      </div>
      <div class="content">
        <div class="stats">
          <div class="stat"><strong>{{money .PortfolioValue}}</strong><br>Portfolio Value</div>
          <div class="stat"><strong>{{money .Cash}}</strong><br>Cash Available</div>
          <div class="stat"><strong>{{len .Positions}}</strong><br>Open Positions</div>
        </div>
        <h2>Current Positions</h2>
        {{if .Positions}}
        <table>
          <tr><th>Symbol</th><th>Quantity</th><th>Entry</th><th>Current Price</th><th>Value</th><th>P/L %</th></tr>
          {{range .Positions}}
          <tr><td><strong>{{.Symbol}}</strong></td><td>{{.Qty}}</td><td>{{money .Entry}}</td><td>{{money .Current}}</td><td>{{money .Value}}</td>
            <td class="{{if lt .PnLPct 0.0}}loss{{else}}gain{{end}}">{{pct .PnLPct}}</td></tr>
          {{end}}
        </table>
        {{else}}<p>No open positions.</p>{{end}}
        <h2>Today's Activity</h2>
        {{if not .MarketOpen}}<p>Market closed. No evaluation was run.</p>
        {{else if .Trades}}
          {{range .Trades}}
          <div class="trade{{if sell .Action}} sell{{end}}">
            <p><strong>{{.Action}}</strong> {{.Symbol}} ({{.Result}})</p>
            <p>Quantity: {{.Qty}} shares | Price: {{money .Price}} | Reason: {{.Reason}}</p>
          </div>
          {{end}}
        {{else}}<p>No trades executed today.</p>{{end}}
        <h2>Market Scan Results</h2>
        <p><strong>Stocks Scanned:</strong> {{.Scanned}}</p>
        <p><strong>Golden Crosses Found:</strong> {{.GoldenCrosses}}</p>
        <p><strong>Execution Time:</strong> {{.Duration}}</p>
      </div>
    </div>
  </body>
</html>
`))

func RenderHTML(w io.Writer, s Summary) error {
	return page.Execute(w, s)
}

// WriteHTML writes trading_report_<timestamp>.html into dir and points
// latest_report.html at it. It returns the path of the new report.
func WriteHTML(dir string, s Summary) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	name := fmt.Sprintf("trading_report_%s.html", s.GeneratedAt.Format("2006-01-02_15-04-05"))
	path := filepath.Join(dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	if err := RenderHTML(file, s); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("render report: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}

	latest := filepath.Join(dir, LatestName)
	if err := os.Remove(latest); err != nil && !os.IsNotExist(err) {
		return path, fmt.Errorf("remove latest link: %w", err)
	}
	if err := os.Symlink(name, latest); err != nil {
		return path, fmt.Errorf("link latest report: %w", err)
	}
	return path, nil
}
