package mailer

import (
	"context"
	"log/slog"
)

type noopMailer struct {
	log *slog.Logger
}

// NewNoop returns a mailer that only logs. Used in development and whenever
// email credentials are not configured; delivery is best-effort in every
// caller, so silently logging is acceptable.
func NewNoop(log *slog.Logger) Mailer {
	if log == nil {
		log = slog.Default()
	}
	return &noopMailer{log: log}
}

func (m *noopMailer) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	m.log.InfoContext(ctx, "email suppressed (noop mailer)",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	return nil
}
