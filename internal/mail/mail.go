package mail

import (
	"errors"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/sanket-telunagi/pyautos/internal/config"
	"github.com/sanket-telunagi/pyautos/internal/logging"
)

// Subject of the report mail.
const Subject = "API Validation Report"

// ErrNotConfigured is returned when mandatory email settings are missing
// from the environment file.
var ErrNotConfigured = errors.New("email settings are incomplete: sender, recipient, and smtp_server are required")

// sendFunc performs the actual SMTP submission. Replaced in tests.
type sendFunc func(cfg config.EmailConfig, msg *gomail.Msg) error

// Mailer delivers the HTML report over authenticated STARTTLS SMTP.
type Mailer struct {
	cfg  config.EmailConfig
	send sendFunc
}

// New creates a Mailer for the given settings.
func New(cfg config.EmailConfig) *Mailer {
	return &Mailer{cfg: cfg, send: smtpSend}
}

// Send delivers the rendered report HTML to the configured recipient.
func (m *Mailer) Send(reportHTML string) error {
	if m.cfg.Sender == "" || m.cfg.Recipient == "" || m.cfg.SMTPServer == "" {
		return ErrNotConfigured
	}
	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.Sender); err != nil {
		return fmt.Errorf("invalid sender address '%s': %w", m.cfg.Sender, err)
	}
	if err := msg.To(m.cfg.Recipient); err != nil {
		return fmt.Errorf("invalid recipient address '%s': %w", m.cfg.Recipient, err)
	}
	msg.Subject(Subject)
	msg.SetBodyString(gomail.TypeTextHTML, reportHTML)

	logging.Logf(logging.Debug, "Sending report mail via %s:%d as %s", m.cfg.SMTPServer, m.port(), m.cfg.Sender)
	return m.send(m.cfg, msg)
}

func (m *Mailer) port() int {
	if m.cfg.SMTPPort > 0 {
		return m.cfg.SMTPPort
	}
	return 587
}

// smtpSend dials the server with mandatory STARTTLS and plain authentication
// and submits the message.
func smtpSend(cfg config.EmailConfig, msg *gomail.Msg) error {
	port := cfg.SMTPPort
	if port <= 0 {
		port = 587
	}
	client, err := gomail.NewClient(cfg.SMTPServer,
		gomail.WithPort(port),
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Sender),
		gomail.WithPassword(cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client for '%s': %w", cfg.SMTPServer, err)
	}
	return client.DialAndSend(msg)
}
