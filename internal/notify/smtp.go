package notify

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/Vladiumnika/forumblackdynasty/internal/config"
	"github.com/Vladiumnika/forumblackdynasty/internal/pkg/log"
	"github.com/Vladiumnika/forumblackdynasty/internal/pkg/redact"
	"github.com/google/uuid"
)

// SendFunc доставляет готовое MIME-сообщение. В тестах подменяется.
type SendFunc func(ctx context.Context, from string, to []string, msg []byte) error

// SMTPMailer — Notifier поверх SMTP.
type SMTPMailer struct {
	composer *Composer
	from     *mail.Address
	send     SendFunc
	now      func() time.Time
}

// NewSMTPMailer собирает mailer из конфига. send == nil -> отправка через cfg.Mail.Host.
func NewSMTPMailer(cfg *config.Config, send SendFunc) (*SMTPMailer, error) {
	from, err := mail.ParseAddress(cfg.Mail.From)
	if err != nil {
		return nil, fmt.Errorf("notify: mail.from %q: %w", cfg.Mail.From, err)
	}

	if send == nil {
		send = dialSender(cfg.Mail)
	}

	return &SMTPMailer{
		composer: NewComposer(cfg.Mail.FrontendURL, cfg.Auth.VerificationTTL, cfg.Auth.ResetTTL),
		from:     from,
		send:     send,
		now:      time.Now,
	}, nil
}

func (m *SMTPMailer) SendVerification(ctx context.Context, email, username, token string) error {
	msg, err := m.composer.Verification(email, username, token)
	if err != nil {
		return err
	}

	return m.deliver(ctx, "verification", msg)
}

func (m *SMTPMailer) SendWelcome(ctx context.Context, email, username string) error {
	msg, err := m.composer.Welcome(email, username)
	if err != nil {
		return err
	}

	return m.deliver(ctx, "welcome", msg)
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, email, username, token string) error {
	msg, err := m.composer.PasswordReset(email, username, token)
	if err != nil {
		return err
	}

	return m.deliver(ctx, "password_reset", msg)
}

func (m *SMTPMailer) deliver(ctx context.Context, kind string, msg Message) error {
	lg := log.From(ctx).With("op", "notify/deliver", "kind", kind, "to", redact.Email(msg.To))

	to, err := mail.ParseAddress(msg.To)
	if err != nil {
		lg.Warn("bad recipient", "err", err)
		return fmt.Errorf("%w: recipient: %v", ErrSend, err)
	}

	raw := m.build(to, msg)

	if err := m.send(ctx, m.from.Address, []string{to.Address}, raw); err != nil {
		lg.Error("smtp send failed", "err", err)
		return fmt.Errorf("%w: %v", ErrSend, err)
	}

	lg.Info("email sent")
	return nil
}

// build формирует text/html письмо в UTF-8; тело в base64 с переносом строк по 76 символов.
func (m *SMTPMailer) build(to *mail.Address, msg Message) []byte {
	var b strings.Builder

	host := "localhost"
	if i := strings.LastIndexByte(m.from.Address, '@'); i >= 0 {
		host = m.from.Address[i+1:]
	}

	headers := []struct{ k, v string }{
		{"From", m.from.String()},
		{"To", to.String()},
		{"Subject", mime.QEncoding.Encode("utf-8", msg.Subject)},
		{"Date", m.now().Format(time.RFC1123Z)},
		{"Message-ID", "<" + uuid.NewString() + "@" + host + ">"},
		{"MIME-Version", "1.0"},
		{"Content-Type", `text/html; charset="UTF-8"`},
		{"Content-Transfer-Encoding", "base64"},
	}

	for _, h := range headers {
		b.WriteString(h.k)
		b.WriteString(": ")
		b.WriteString(h.v)
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")

	enc := base64.StdEncoding.EncodeToString([]byte(msg.HTML))
	for len(enc) > 76 {
		b.WriteString(enc[:76])
		b.WriteString("\r\n")
		enc = enc[76:]
	}
	b.WriteString(enc)
	b.WriteString("\r\n")

	return []byte(b.String())
}

// dialSender — отправка через SMTP с STARTTLS (если сервер его объявляет) и PLAIN-аутентификацией.
func dialSender(cfg config.MailConfig) SendFunc {
	return func(ctx context.Context, from string, to []string, msg []byte) error {
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}

		addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return fmt.Errorf("dial %s: %w", addr, err)
		}

		if dl, ok := ctx.Deadline(); ok {
			_ = conn.SetDeadline(dl)
		}

		c, err := smtp.NewClient(conn, cfg.Host)
		if err != nil {
			_ = conn.Close()
			return fmt.Errorf("smtp client: %w", err)
		}
		defer c.Close()

		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}

		if cfg.User != "" {
			if err := c.Auth(smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)); err != nil {
				return fmt.Errorf("auth: %w", err)
			}
		}

		if err := c.Mail(from); err != nil {
			return fmt.Errorf("mail from: %w", err)
		}

		for _, rcpt := range to {
			if err := c.Rcpt(rcpt); err != nil {
				return fmt.Errorf("rcpt %s: %w", redact.Email(rcpt), err)
			}
		}

		w, err := c.Data()
		if err != nil {
			return fmt.Errorf("data: %w", err)
		}

		if _, err := w.Write(msg); err != nil {
			_ = w.Close()
			return fmt.Errorf("write: %w", err)
		}

		if err := w.Close(); err != nil {
			return fmt.Errorf("data close: %w", err)
		}

		return c.Quit()
	}
}

// LogSender не отправляет письмо, а пишет его заголовки в лог. Для локальной разработки без SMTP.
func LogSender(ctx context.Context, from string, to []string, msg []byte) error {
	head, _, _ := strings.Cut(string(msg), "\r\n\r\n")

	recipients := make([]string, 0, len(to))
	for _, r := range to {
		recipients = append(recipients, redact.Email(r))
	}

	log.From(ctx).Info("email not sent: smtp disabled", "from", from, "to", recipients, "headers_len", len(head))
	return nil
}

var _ Notifier = (*SMTPMailer)(nil)
