package mailer

import (
	"context"
	"fmt"
	"time"

	"mining-chatbot/pkg/utils"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender dispatches one transactional email. A returned error means the
// relay did not accept the message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New picks the SMTP relay, or the log sender when cfg.Driver is "log".
func New(cfg utils.EmailConfig, log *zap.Logger) (Sender, error) {
	if cfg.Driver == "log" {
		return NewLogSender(log), nil
	}
	return NewSMTPSender(cfg, log)
}

type smtpSender struct {
	client *mail.Client
	from   string
	log    *zap.Logger
}

func NewSMTPSender(cfg utils.EmailConfig, log *zap.Logger) (Sender, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
		mail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &smtpSender{
		client: client,
		from:   cfg.From,
		log:    log.With(zap.String("mailer", "smtp")),
	}, nil
}

func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.From(s.from); err != nil {
		return fmt.Errorf("set sender %s: %w", s.from, err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("set recipient %s: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	if msg.Text != "" {
		m.AddAlternativeString(mail.TypeTextPlain, msg.Text)
	}

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		s.log.Error("Failed to send email",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return fmt.Errorf("send email to %s: %w", msg.To, err)
	}

	s.log.Info("Email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

type logSender struct {
	log *zap.Logger
}

// NewLogSender writes messages to the log instead of a relay, for development.
func NewLogSender(log *zap.Logger) Sender {
	return &logSender{log: log.With(zap.String("mailer", "log"))}
}

func (s *logSender) Send(_ context.Context, msg Message) error {
	s.log.Info("Email (not sent, log driver)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.Text),
	)
	return nil
}
