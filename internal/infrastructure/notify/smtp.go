package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/papyrus/bookstore-api/internal/core/domain"
)

// SMTPConfig mirrors the MAIL_* settings.
type SMTPConfig struct {
	Server   string
	Port     int
	Username string
	Password string
	From     string
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier sends plain-text mails.
type SMTPNotifier struct {
	cfg  SMTPConfig
	send sendMailFunc
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, send: smtp.SendMail}
}

func (n *SMTPNotifier) Send(ctx context.Context, msg domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Server)
	}
	addr := net.JoinHostPort(n.cfg.Server, strconv.Itoa(n.cfg.Port))

	if err := n.send(addr, auth, n.cfg.From, []string{msg.Recipient}, n.render(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.Recipient, err)
	}
	return nil
}

func (n *SMTPNotifier) render(msg domain.Notification) []byte {
	subject, lead := "Your verification link", "Confirm your email address"
	if msg.Purpose == domain.PurposeResetPassword {
		subject, lead = "Reset your password", "Use the link below to choose a new password"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.Recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	fmt.Fprintf(&b, "%s:\r\n\r\n%s\r\n", lead, msg.Link)
	return []byte(b.String())
}
