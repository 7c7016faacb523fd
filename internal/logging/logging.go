// Package logging wires the process-wide slog handler and hands out
// topic-gated debug loggers for noisy per-symbol detail.
//
// Topics are enabled with DEBUG_TOPICS, e.g. DEBUG_TOPICS=indicator,scanner
// or DEBUG_TOPICS=all.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var enabledTopics = parseTopics(os.Getenv("DEBUG_TOPICS"))

func parseTopics(value string) map[string]bool {
	topics := make(map[string]bool)
	value = strings.TrimSpace(value)
	if value == "" {
		return topics
	}
	if value == "all" {
		topics["*"] = true
		return topics
	}
	for _, topic := range strings.Split(value, ",") {
		topic = strings.TrimSpace(topic)
		if topic != "" {
			topics[topic] = true
		}
	}
	return topics
}

// Setup installs the default slog handler. Debug level is switched on when
// any topic is enabled so topic loggers are not filtered by the handler.
func Setup(w io.Writer, format string) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if len(enabledTopics) > 0 {
		opts.Level = slog.LevelDebug
	}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// Logger emits debug records for a single topic.
// Usage: var scanLog = logging.New("scanner")
type Logger struct {
	topic   string
	enabled bool
}

func New(topic string) *Logger {
	return &Logger{
		topic:   topic,
		enabled: enabledTopics["*"] || enabledTopics[topic],
	}
}

// Debug is a single bool check when the topic is disabled.
func (l *Logger) Debug(msg string, args ...any) {
	if !l.enabled {
		return
	}
	slog.Debug(msg, append([]any{"topic", l.topic}, args...)...)
}

func (l *Logger) Enabled() bool {
	return l.enabled
}
