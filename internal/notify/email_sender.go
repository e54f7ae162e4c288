package notify

import (
	"time"

	gomail "gopkg.in/mail.v2"

	applog "github.com/shanehull/unicabot/internal/log"
)

// EmailConfig holds SMTP configuration for sending emails.
type EmailConfig struct {
	SMTPServer string `yaml:"server"`
	SMTPPort   int    `yaml:"port"`
	SMTPUser   string `yaml:"user"`
	SMTPPass   string `yaml:"pass"`
	FromEmail  string `yaml:"from"`
	ToEmail    string `yaml:"to"`
}

// Enabled reports whether enough is configured to send mail.
func (c EmailConfig) Enabled() bool {
	return c.SMTPServer != "" && c.SMTPUser != "" && c.SMTPPass != "" && c.ToEmail != ""
}

// EmailSender delivers messages via SMTP.
type EmailSender struct {
	cfg EmailConfig
}

// NewEmailSender creates a sender with the given SMTP configuration.
func NewEmailSender(cfg EmailConfig) *EmailSender {
	if cfg.FromEmail == "" {
		cfg.FromEmail = cfg.SMTPUser
	}
	return &EmailSender{cfg: cfg}
}

// Send delivers an email with HTML body and plain text fallback.
func (s *EmailSender) Send(msg *RenderedMessage) error {
	if !s.cfg.Enabled() {
		return nil
	}

	m := s.message(msg)

	dialer := gomail.NewDialer(s.cfg.SMTPServer, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)
	dialer.Timeout = 10 * time.Second

	if err := dialer.DialAndSend(m); err != nil {
		return err
	}

	logger := applog.WithComponent("notify")
	logger.Info().Str("subject", msg.Subject).Msg("Email sent")
	return nil
}

func (s *EmailSender) message(msg *RenderedMessage) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.FromEmail)
	m.SetHeader("To", s.cfg.ToEmail)
	m.SetHeader("Subject", msg.Subject)

	if msg.HTML != "" && msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	} else if msg.HTML != "" {
		m.SetBody("text/html", msg.HTML)
	} else {
		m.SetBody("text/plain", msg.Text)
	}
	return m
}
