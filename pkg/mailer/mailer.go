package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/cjnation/cjnation-backend/pkg/config"
	"github.com/cjnation/cjnation-backend/pkg/logger"
)

// Sender delivers transactional mail for account flows.
type Sender interface {
	SendVerificationEmail(ctx context.Context, to, link string) error
	SendPasswordResetEmail(ctx context.Context, to, link string) error
}

// Mailer sends HTML mail over SMTP. When the SMTP config is incomplete the
// mailer runs disabled and every send becomes a logged no-op, which keeps
// local development working without a mail server.
type Mailer struct {
	cfg  config.SMTPConfig
	logg *logger.Logger
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

func New(cfg config.SMTPConfig, logg *logger.Logger) *Mailer {
	return &Mailer{
		cfg:  cfg,
		logg: logg,
		send: smtp.SendMail,
	}
}

func (m *Mailer) SendVerificationEmail(ctx context.Context, to, link string) error {
	body, err := renderTemplate(verificationTemplate, map[string]string{"Link": link})
	if err != nil {
		return fmt.Errorf("render verification email: %w", err)
	}
	return m.deliver(ctx, to, "Verify your CJNation account", body)
}

func (m *Mailer) SendPasswordResetEmail(ctx context.Context, to, link string) error {
	body, err := renderTemplate(resetTemplate, map[string]string{"Link": link})
	if err != nil {
		return fmt.Errorf("render reset email: %w", err)
	}
	return m.deliver(ctx, to, "Reset your CJNation password", body)
}

func (m *Mailer) deliver(ctx context.Context, to, subject, body string) error {
	if !m.cfg.Enabled() {
		if m.logg != nil {
			m.logg.Warn(ctx, "mailer disabled, skipping send")
		}
		return nil
	}

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)

	msg := buildMessage(m.cfg.From, to, subject, body)
	if err := m.send(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	if m.logg != nil {
		m.logg.Info(ctx, "email sent")
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("From: CJNation <" + from + ">\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

func renderTemplate(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var verificationTemplate = template.Must(template.New("verification").Parse(`<html>
<body>
<p>Welcome to CJNation!</p>
<p>Please confirm your email address by clicking the link below. The link expires in 10 minutes.</p>
<p><a href="{{.Link}}">Verify my email</a></p>
<p>If you did not create an account, you can ignore this message.</p>
</body>
</html>`))

var resetTemplate = template.Must(template.New("reset").Parse(`<html>
<body>
<p>We received a request to reset your CJNation password.</p>
<p>Click the link below to choose a new password. The link expires in 10 minutes.</p>
<p><a href="{{.Link}}">Reset my password</a></p>
<p>If you did not request a reset, you can ignore this message.</p>
</body>
</html>`))
