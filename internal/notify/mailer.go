package notify

import (
	"context"
	"errors"
	"fmt"

	"secondarypro/internal/models"

	"github.com/wneessen/go-mail"
)

// MailerConfig holds SMTP settings.
type MailerConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends confirmations over SMTP.
type Mailer struct {
	cfg MailerConfig
}

// NewMailer checks cfg and returns a Mailer. From defaults to Username.
func NewMailer(cfg MailerConfig) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, errors.New("EMAIL_HOST is not configured")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &Mailer{cfg: cfg}, nil
}

// Message builds the confirmation email for recipient.
func (m *Mailer) Message(recipient string, c models.OrderConfirmation) (*mail.Msg, error) {
	body, err := RenderConfirmation(c)
	if err != nil {
		return nil, err
	}
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", m.cfg.From, err)
	}
	if err := msg.To(recipient); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", recipient, err)
	}
	msg.Subject(ConfirmationSubject)
	msg.SetBodyString(mail.TypeTextHTML, body)
	return msg, nil
}

func (m *Mailer) Notify(ctx context.Context, recipient string, c models.OrderConfirmation) error {
	msg, err := m.Message(recipient, c)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create SMTP client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send confirmation for order %s: %w", c.OrderID, err)
	}
	return nil
}
