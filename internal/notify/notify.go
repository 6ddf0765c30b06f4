// Package notify отправляет транзакционные письма: подтверждение email,
// приветствие после подтверждения и сброс пароля.
package notify

//go:generate mockgen -source=notify.go -destination=../../mocks/notify.go -package=mocks

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"
)

// Notifier — шлюз уведомлений. Ошибка отправки не откатывает вызвавшую операцию.
type Notifier interface {
	SendVerification(ctx context.Context, email, username, token string) error
	SendWelcome(ctx context.Context, email, username string) error
	SendPasswordReset(ctx context.Context, email, username, token string) error
}

// ErrSend — письмо не доставлено SMTP-серверу.
var ErrSend = errors.New("notify: send failed")

//go:embed templates/*.html
var templatesFS embed.FS

// Message — готовое к отправке письмо.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// kind — вид письма: тема и шаблон.
type kind struct {
	subject string
	tmpl    *template.Template
}

func mustKind(subject, file string) kind {
	t := template.Must(template.New("").ParseFS(templatesFS, "templates/layout.html", "templates/"+file))
	return kind{subject: subject, tmpl: t}
}

var (
	verificationKind = mustKind("Подтверждение регистрации - Black Dynasty Forum", "verification.html")
	welcomeKind      = mustKind("Добро пожаловать в Black Dynasty Forum!", "welcome.html")
	resetKind        = mustKind("Сброс пароля - Black Dynasty Forum", "reset.html")
)

// templateData — переменные шаблонов.
type templateData struct {
	Title    string
	Username string
	Link     string
	ValidFor string
}

// Composer собирает письма: ссылки строятся от FrontendURL.
type Composer struct {
	frontendURL     string
	verificationTTL time.Duration
	resetTTL        time.Duration
}

// NewComposer — frontendURL вида https://forum.example.com (без завершающего /).
func NewComposer(frontendURL string, verificationTTL, resetTTL time.Duration) *Composer {
	return &Composer{
		frontendURL:     strings.TrimRight(frontendURL, "/"),
		verificationTTL: verificationTTL,
		resetTTL:        resetTTL,
	}
}

func (c *Composer) link(page, token string) string {
	if token == "" {
		return c.frontendURL + page
	}

	return c.frontendURL + page + "?token=" + url.QueryEscape(token)
}

func (c *Composer) render(k kind, to string, data templateData) (Message, error) {
	data.Title = k.subject

	var b strings.Builder
	if err := k.tmpl.ExecuteTemplate(&b, "layout", data); err != nil {
		return Message{}, fmt.Errorf("notify: render %q: %w", k.subject, err)
	}

	return Message{To: to, Subject: k.subject, HTML: b.String()}, nil
}

// Verification — письмо со ссылкой /verify.html?token=...
func (c *Composer) Verification(email, username, token string) (Message, error) {
	return c.render(verificationKind, email, templateData{
		Username: username,
		Link:     c.link("/verify.html", token),
		ValidFor: humanTTL(c.verificationTTL),
	})
}

func (c *Composer) Welcome(email, username string) (Message, error) {
	return c.render(welcomeKind, email, templateData{
		Username: username,
		Link:     c.link("/", ""),
	})
}

// PasswordReset — письмо со ссылкой /reset.html?token=...
func (c *Composer) PasswordReset(email, username, token string) (Message, error) {
	return c.render(resetKind, email, templateData{
		Username: username,
		Link:     c.link("/reset.html", token),
		ValidFor: humanTTL(c.resetTTL),
	})
}

// humanTTL — «24 ч», «1 ч», «30 мин».
func humanTTL(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		return fmt.Sprintf("%d ч", int(d/time.Hour))
	}

	return fmt.Sprintf("%d мин", int(d.Round(time.Minute)/time.Minute))
}
