package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"

	"github.com/unclebandit/hvac-backend/internal/config"
	"github.com/unclebandit/hvac-backend/internal/logger"
	"github.com/unclebandit/hvac-backend/internal/model"
)

// Sender delivers one email.
type Sender interface {
	Send(ctx context.Context, msg model.EmailMessage) error
}

// NewSender returns an SMTP sender, or a log-only sender when EMAIL_HOST is unset.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.EmailEnabled() {
		logger.Log.Warn("EMAIL_HOST not set, emails will be logged instead of sent")
		return LogSender{}
	}
	return &SMTPSender{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		From:     cfg.From,
	}
}

type SMTPSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	Timeout  time.Duration
}

// client builds a go-mail client. Port 465 is implicit TLS; any other port
// upgrades with STARTTLS when the relay offers it.
func (s *SMTPSender) client() (*mail.Client, error) {
	timeout := s.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	opts := []mail.Option{
		mail.WithPort(s.Port),
		mail.WithTimeout(timeout),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if s.Port == 465 {
		opts = append(opts, mail.WithSSL())
	}
	if s.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.User),
			mail.WithPassword(s.Password),
		)
	}
	return mail.NewClient(s.Host, opts...)
}

func (s *SMTPSender) Send(ctx context.Context, msg model.EmailMessage) error {
	m, err := buildMessage(s.From, msg, time.Now())
	if err != nil {
		return err
	}
	c, err := s.client()
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

// buildMessage assembles a multipart/alternative message. Both parts are
// quoted-printable so long lines stay within the RFC 5322 limit.
func buildMessage(from string, msg model.EmailMessage, now time.Time) (*mail.Msg, error) {
	m := mail.NewMsg(mail.WithEncoding(mail.EncodingQP), mail.WithCharset(mail.CharsetUTF8))
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("from %q: %w", from, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("to %q: %w", msg.To, err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("reply-to %q: %w", msg.ReplyTo, err)
		}
	}
	m.Subject(msg.Subject)
	m.SetDateWithValue(now)

	id := msg.ID
	if id == "" {
		id = uuid.NewString()
	}
	m.SetMessageIDWithValue(id + "@hvac-backend")

	text := msg.Text
	if text == "" {
		text = PlainText(msg.HTML)
	}
	m.SetBodyString(mail.TypeTextPlain, text)
	m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	return m, nil
}

// LogSender writes emails to the log. Used when SMTP is not configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg model.EmailMessage) error {
	logger.WithComponent("mailer").WithFields(map[string]any{
		"to":      msg.To,
		"subject": msg.Subject,
		"type":    msg.Type,
	}).Info("email delivery skipped (no SMTP host)")
	return nil
}
