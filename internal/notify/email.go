// Package notify mails the daily report.
package notify

import (
	"bytes"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

type EmailConfig struct {
	Enabled  bool
	To       string
	From     string
	Server   string
	Port     int
	Password string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Emailer struct {
	cfg  EmailConfig
	send sendFunc
}

func NewEmailer(cfg EmailConfig) *Emailer {
	return &Emailer{cfg: cfg, send: smtp.SendMail}
}

func (e *Emailer) Enabled() bool {
	return e.cfg.Enabled && e.cfg.From != "" && e.cfg.To != "" && e.cfg.Server != ""
}

// Send mails an HTML body. It is a no-op when e-mail is not configured.
func (e *Emailer) Send(subject, htmlBody string, now time.Time) error {
	if !e.Enabled() {
		return nil
	}
	recipients := splitRecipients(e.cfg.To)
	addr := net.JoinHostPort(e.cfg.Server, strconv.Itoa(e.cfg.Port))
	var auth smtp.Auth
	if e.cfg.Password != "" {
		auth = smtp.PlainAuth("", e.cfg.From, e.cfg.Password, e.cfg.Server)
	}

	msg := buildMessage(e.cfg.From, recipients, subject, htmlBody, now)
	if err := e.send(addr, auth, e.cfg.From, recipients, msg); err != nil {
		slog.Error("send email failed", "to", e.cfg.To, "server", addr, "error", err)
		return fmt.Errorf("send email: %w", err)
	}
	slog.Info("email sent", "to", e.cfg.To, "subject", subject)
	return nil
}

func splitRecipients(value string) []string {
	var out []string
	for _, r := range strings.Split(value, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

func buildMessage(from string, to []string, subject, htmlBody string, now time.Time) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "Date: %s\r\n", now.Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	buf.WriteString(htmlBody)
	return buf.Bytes()
}
