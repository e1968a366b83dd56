package alert

import (
	"bytes"
	"strings"
	"testing"
)

type alertConfig struct {
	enabled bool
	to      string
}

func (c alertConfig) GetAlertSMTPHost() string     { return "smtp.example.com" }
func (c alertConfig) GetAlertSMTPPort() int        { return 587 }
func (c alertConfig) GetAlertSMTPUsername() string { return "" }
func (c alertConfig) GetAlertSMTPPassword() string { return "" }
func (c alertConfig) GetAlertFromAddress() string  { return "notifier@example.com" }
func (c alertConfig) GetAlertToAddress() string    { return c.to }
func (c alertConfig) IsAlertMailEnabled() bool     { return c.enabled }

func TestNewMailerDisabled(t *testing.T) {
	if m := NewMailer(alertConfig{}); m != nil {
		t.Fatalf("expected nil mailer when alerts are disabled")
	}
}

func TestMessageAddressesEveryRecipient(t *testing.T) {
	m := NewMailer(alertConfig{enabled: true, to: "dev@example.com, ops@example.com,"})
	if len(m.to) != 2 {
		t.Fatalf("unexpected recipients %v", m.to)
	}

	msg, err := m.message("Invalid payload received", "Invalid payload received.\n\nmissing key \"id\"")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("write message: %v", err)
	}
	raw := buf.String()
	for _, want := range []string{"dev@example.com", "ops@example.com", "[notifier] Invalid payload received"} {
		if !strings.Contains(raw, want) {
			t.Fatalf("message missing %q:\n%s", want, raw)
		}
	}
}
