package domain

import "context"

// MailRequest carries everything needed to dispatch a single message.
type MailRequest struct {
	Recipient string
	Link      string
	Subject   string
	Message   string
}

// Mailer dispatches transactional mail. Send returns the provider message
// id; an empty id means the message was not accepted for delivery.
type Mailer interface {
	Send(ctx context.Context, req MailRequest) (string, error)
}
