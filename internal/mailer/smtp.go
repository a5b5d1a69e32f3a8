// Package mailer dispatches transactional mail over SMTP.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/msomdec/account-api/internal/config"
	"github.com/msomdec/account-api/internal/domain"
)

// SMTPMailer implements domain.Mailer over an SMTP relay.
type SMTPMailer struct {
	client *mail.Client
	sender string
}

// New builds an SMTPMailer from the SMTP settings in cfg.
func New(cfg *config.Config) (*SMTPMailer, error) {
	client, err := mail.NewClient(cfg.SMTPHost,
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.SMTPUsername),
		mail.WithPassword(cfg.SMTPPassword),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTPMailer{client: client, sender: cfg.SMTPSender}, nil
}

// Send dispatches a single plain-text message and returns its message id.
func (m *SMTPMailer) Send(ctx context.Context, req domain.MailRequest) (string, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.sender); err != nil {
		return "", fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(req.Recipient); err != nil {
		return "", fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(req.Subject)
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf("%s:  %s", req.Message, req.Link))
	msg.SetMessageID()

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return "", fmt.Errorf("send mail: %w", err)
	}
	return msg.GetMessageID(), nil
}
