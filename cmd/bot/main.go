package main

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crossbot/internal/broker"
	"crossbot/internal/config"
	"crossbot/internal/engine"
	"crossbot/internal/journal"
	"crossbot/internal/logging"
	"crossbot/internal/md"
	"crossbot/internal/notify"
	"crossbot/internal/report"
	"crossbot/internal/risk"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logging.Setup(os.Stderr, cfg.LogFormat)

	runID := generateRunID()
	decisions, err := engine.NewDecisionLogger(cfg.DecisionsPath, runID)
	if err != nil {
		log.Fatalf("decision logger error: %v", err)
	}

	brokerClient := broker.New(cfg.APIKey, cfg.APISecret, cfg.BaseURL)
	history := md.New(cfg.APIKey, cfg.APISecret, cfg.Feed)
	trades := journal.New(cfg.TradeLogPath)
	engineImpl := engine.New(cfg, risk.Gate{}, brokerClient, history, trades, decisions)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalChan
		slog.Warn("shutdown signal received")
		cancel()
	}()

	slog.Info("starting daily pass", "run_id", runID, "mode", cfg.Mode, "feed", cfg.Feed, "base_url", cfg.BaseURL, "watchlist", len(cfg.Watchlist))
	pass, runErr := engineImpl.Run(ctx)
	if runErr != nil {
		slog.Error("daily pass failed", "run_id", runID, "error", runErr)
	}

	if err := decisions.Close(); err != nil {
		slog.Error("failed to close decision logger", "error", err)
	}

	summary := pass.Summary()
	fmt.Println(report.Terminal(summary))
	if runErr == nil && pass.MarketOpen {
		publish(cfg, summary)
	}

	if runErr != nil {
		os.Exit(1)
	}
	slog.Info("daily pass complete", "run_id", runID, "submitted", pass.Submitted(), "elapsed", pass.Duration)
}

// publish writes the HTML report and mails it when e-mail is configured.
func publish(cfg config.Config, summary report.Summary) {
	if cfg.ReportDir != "" {
		path, err := report.WriteHTML(cfg.ReportDir, summary)
		if err != nil {
			slog.Error("failed to write report", "dir", cfg.ReportDir, "error", err)
		} else {
			slog.Info("report written", "path", path)
		}
	}

	emailer := notify.NewEmailer(cfg.Email)
	if !emailer.Enabled() {
		return
	}
	var body bytes.Buffer
	if err := report.RenderHTML(&body, summary); err != nil {
		slog.Error("failed to render email body", "error", err)
		return
	}
	subject := "Trading report " + summary.GeneratedAt.Format("2006-01-02")
	if err := emailer.Send(subject, body.String(), time.Now()); err != nil {
		slog.Error("failed to send report", "error", err)
	}
}

func generateRunID() string {
	timestamp := time.Now().UTC().Format("20060102T150405")
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return timestamp
	}
	return timestamp + "-" + hex.EncodeToString(randomBytes)
}
