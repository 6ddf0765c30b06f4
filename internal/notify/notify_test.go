package notify

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Vladiumnika/forumblackdynasty/internal/config"
	"github.com/stretchr/testify/require"
)

// captured — последнее «отправленное» письмо.
type captured struct {
	from string
	to   []string
	raw  string
}

func newTestMailer(t *testing.T, sendErr error) (*SMTPMailer, *captured) {
	t.Helper()

	cfg := &config.Config{
		Mail: config.MailConfig{
			From:        "Black Dynasty Forum <no-reply@forum.test>",
			FrontendURL: "https://forum.test/",
		},
		Auth: config.AuthConfig{VerificationTTL: 24 * time.Hour, ResetTTL: time.Hour},
	}

	got := &captured{}
	m, err := NewSMTPMailer(cfg, func(_ context.Context, from string, to []string, msg []byte) error {
		got.from, got.to, got.raw = from, to, string(msg)
		return sendErr
	})
	require.NoError(t, err)

	return m, got
}

// body декодирует base64-тело письма.
func body(t *testing.T, raw string) string {
	t.Helper()

	_, enc, ok := strings.Cut(raw, "\r\n\r\n")
	require.True(t, ok)

	dec, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(enc, "\r\n", ""))
	require.NoError(t, err)

	return string(dec)
}

func TestSendVerification(t *testing.T) {
	t.Parallel()

	m, got := newTestMailer(t, nil)

	require.NoError(t, m.SendVerification(context.Background(), "alice@example.com", "alice", "abc123"))
	require.Equal(t, "no-reply@forum.test", got.from)
	require.Equal(t, []string{"alice@example.com"}, got.to)
	require.Contains(t, got.raw, "Content-Type: text/html; charset=\"UTF-8\"\r\n")
	require.Contains(t, got.raw, "Subject: =?utf-8?q?")

	html := body(t, got.raw)
	require.Contains(t, html, "https://forum.test/verify.html?token=abc123")
	require.Contains(t, html, "<strong>alice</strong>")
	require.Contains(t, html, "24 ч")
}

func TestSendPasswordReset(t *testing.T) {
	t.Parallel()

	m, got := newTestMailer(t, nil)

	require.NoError(t, m.SendPasswordReset(context.Background(), "bob@example.com", "bob", "tok"))

	html := body(t, got.raw)
	require.Contains(t, html, "https://forum.test/reset.html?token=tok")
	require.Contains(t, html, "1 ч")
}

func TestSendWelcome_EscapesUsername(t *testing.T) {
	t.Parallel()

	m, got := newTestMailer(t, nil)

	require.NoError(t, m.SendWelcome(context.Background(), "eve@example.com", "<script>x</script>"))

	html := body(t, got.raw)
	require.NotContains(t, html, "<script>")
	require.Contains(t, html, "&lt;script&gt;")
	require.Contains(t, html, `href="https://forum.test/"`)
}

func TestSend_Failure(t *testing.T) {
	t.Parallel()

	m, _ := newTestMailer(t, errors.New("connection refused"))

	err := m.SendVerification(context.Background(), "alice@example.com", "alice", "abc")
	require.ErrorIs(t, err, ErrSend)
}

func TestSend_BadRecipient(t *testing.T) {
	t.Parallel()

	m, got := newTestMailer(t, nil)

	err := m.SendWelcome(context.Background(), "not an email", "x")
	require.ErrorIs(t, err, ErrSend)
	require.Empty(t, got.raw)
}

func TestNewSMTPMailer_BadFrom(t *testing.T) {
	t.Parallel()

	_, err := NewSMTPMailer(&config.Config{Mail: config.MailConfig{From: "@@"}}, LogSender)
	require.Error(t, err)
}

func TestHumanTTL(t *testing.T) {
	t.Parallel()

	require.Equal(t, "24 ч", humanTTL(24*time.Hour))
	require.Equal(t, "1 ч", humanTTL(time.Hour))
	require.Equal(t, "90 мин", humanTTL(90*time.Minute))
	require.Equal(t, "30 мин", humanTTL(30*time.Minute))
}
