package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Debashish2005/Shopzi/internal/config"
)

// Mailer sends transactional mail. The only template today is the
// password-reset link.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, fullName, resetLink string) error
}

type smtpMailer struct {
	host string
	port int
	user string
	pass string
}

func NewSMTPMailer(cfg config.SMTPConfig) Mailer {
	return &smtpMailer{
		host: cfg.Host,
		port: cfg.Port,
		user: cfg.User,
		pass: cfg.Password,
	}
}

func (m *smtpMailer) SendPasswordReset(ctx context.Context, to, fullName, resetLink string) error {
	subject := "Password Reset Request"
	body := fmt.Sprintf(
		"<p>Hello %s,</p>"+
			"<p>You requested to reset your password.</p>"+
			`<p><a href="%s">Click here to reset it</a></p>`+
			"<p>If you didn't request this, just ignore this email.</p>",
		fullName, resetLink,
	)

	var msg strings.Builder
	msg.WriteString("From: \"Shopzi Support\" <" + m.user + ">\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	if err := smtp.SendMail(addr, auth, m.user, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
