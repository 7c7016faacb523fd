package notify

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendDisabledIsNoop(t *testing.T) {
	e := NewEmailer(EmailConfig{Enabled: false, From: "a@b.c", To: "d@e.f", Server: "smtp"})
	called := false
	e.send = func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	}

	require.NoError(t, e.Send("subject", "<p>hi</p>", time.Now()))
	assert.False(t, called)
}

func TestSendBuildsMessage(t *testing.T) {
	e := NewEmailer(EmailConfig{Enabled: true, From: "bot@example.com", To: "a@example.com, b@example.com", Server: "smtp.example.com", Port: 587, Password: "pw"})
	var gotAddr string
	var gotTo []string
	var gotMsg []byte
	e.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, msg
		assert.NotNil(t, a)
		assert.Equal(t, "bot@example.com", from)
		return nil
	}

	require.NoError(t, e.Send("Daily report", "<p>hi</p>", time.Date(2024, 5, 6, 16, 0, 0, 0, time.UTC)))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, gotTo)
	msg := string(gotMsg)
	assert.True(t, strings.HasPrefix(msg, "From: bot@example.com\r\n"))
	assert.Contains(t, msg, "Subject: Daily report\r\n")
	assert.Contains(t, msg, "text/html")
	assert.True(t, strings.HasSuffix(msg, "<p>hi</p>"))
}

func TestSendWrapsFailure(t *testing.T) {
	e := NewEmailer(EmailConfig{Enabled: true, From: "bot@example.com", To: "a@example.com", Server: "smtp.example.com", Port: 25})
	e.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") }

	err := e.Send("s", "b", time.Now())
	assert.ErrorContains(t, err, "refused")
}
