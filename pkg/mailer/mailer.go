package mailer

import "context"

// Mailer sends transactional email. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Message represents a single outbound email.
type Message struct {
	To       string
	Subject  string
	BodyHTML string
	Tag      string // optional, used for provider-side analytics
}

// Validate reports whether the message carries the minimum required fields.
func (m Message) Validate() error {
	if m.To == "" {
		return ErrMissingRecipient
	}
	if m.Subject == "" {
		return ErrMissingSubject
	}
	if m.BodyHTML == "" {
		return ErrMissingBody
	}
	return nil
}
