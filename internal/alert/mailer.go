// Package alert mails developer alerts over SMTP.
package alert

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"commerce_notifier/platform/config"

	gomail "github.com/wneessen/go-mail"
)

const (
	fromName      = "Commerce Notifier"
	subjectPrefix = "[notifier] "
)

// Mailer sends plain-text alert mails through a direct SMTP connection.
type Mailer struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
	to        []string
}

// NewMailer returns nil when alert mail is not configured.
func NewMailer(cfg config.AlertConfig) *Mailer {
	if !cfg.IsAlertMailEnabled() {
		return nil
	}
	return &Mailer{
		host:      cfg.GetAlertSMTPHost(),
		port:      cfg.GetAlertSMTPPort(),
		username:  cfg.GetAlertSMTPUsername(),
		password:  cfg.GetAlertSMTPPassword(),
		fromEmail: cfg.GetAlertFromAddress(),
		to:        splitRecipients(cfg.GetAlertToAddress()),
	}
}

// Alert mails subject and body to every configured recipient.
func (m *Mailer) Alert(ctx context.Context, subject, body string) error {
	if m == nil {
		return nil
	}
	msg, err := m.message(subject, body)
	if err != nil {
		return err
	}

	opts := []gomail.Option{
		gomail.WithPort(m.port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	}
	if m.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.username),
			gomail.WithPassword(m.password),
		)
	}

	client, err := gomail.NewClient(m.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (m *Mailer) message(subject, body string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(fromName, m.fromEmail); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(m.to...); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subjectPrefix + subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)
	return msg, nil
}

func splitRecipients(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
