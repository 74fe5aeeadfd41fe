package mailer

import (
	"log/slog"
)

type consoleMailer struct {
	log *slog.Logger
}

// NewConsoleMailer logs messages instead of delivering them. Used in
// development and tests where no SendGrid key is configured.
func NewConsoleMailer(log *slog.Logger) Mailer {
	return &consoleMailer{log: log}
}

func (m *consoleMailer) Send(msg *Message) error {
	m.log.Info("email (console delivery)",
		"to", msg.ToEmail,
		"subject", msg.Subject,
		"body", msg.TextContent,
	)
	return nil
}
