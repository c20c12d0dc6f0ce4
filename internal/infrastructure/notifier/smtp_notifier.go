// Package notifier delivers integration failure alerts to the operations
// mailbox.
package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/lucreapp/backend/internal/domain/integration"
)

// Config holds SMTP delivery settings
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// Enabled reports whether the config points at a real SMTP server
func (c Config) Enabled() bool {
	return c.Host != "" && len(c.To) > 0
}

// SMTPNotifier implements integration.AlertNotifier over plain SMTP.
// Delivery is fire and forget: a failed send is logged and dropped, the
// error log row remains the durable record.
type SMTPNotifier struct {
	cfg    Config
	logger *zap.Logger
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPNotifier creates a new SMTPNotifier
func NewSMTPNotifier(cfg Config, logger *zap.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:    cfg,
		logger: logger,
		send:   smtp.SendMail,
	}
}

var _ integration.AlertNotifier = (*SMTPNotifier)(nil)

// Notify emails one failure entry
func (n *SMTPNotifier) Notify(_ context.Context, entry *integration.ErrorLogEntry) {
	if !n.cfg.Enabled() {
		return
	}

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)

	if err := n.send(addr, auth, n.cfg.From, n.cfg.To, n.buildMessage(entry)); err != nil {
		n.logger.Warn("Alert email delivery failed",
			zap.String("organization_id", entry.OrganizationID.String()),
			zap.Error(err),
		)
	}
}

// buildMessage renders a plain-text alert
func (n *SMTPNotifier) buildMessage(entry *integration.ErrorLogEntry) []byte {
	subject := fmt.Sprintf("[lucre] %s %s failed", entry.Platform.DisplayName(), entry.Task)

	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(n.cfg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Organization: %s\r\n", entry.OrganizationID)
	fmt.Fprintf(&b, "Platform:     %s\r\n", entry.Platform)
	fmt.Fprintf(&b, "Task:         %s\r\n", entry.Task)
	fmt.Fprintf(&b, "When:         %s\r\n", entry.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Error:        %s\r\n", entry.Message)
	return []byte(b.String())
}
