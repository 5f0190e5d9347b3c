package mailer

import "errors"

var (
	ErrInvalidConfig    = errors.New("invalid mailer configuration")
	ErrFailedToSend     = errors.New("failed to send email")
	ErrMissingRecipient = errors.New("email recipient is required")
	ErrMissingSubject   = errors.New("email subject is required")
	ErrMissingBody      = errors.New("email body is required")
)
