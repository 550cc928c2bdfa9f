package mail

import (
	"log/slog"
	"strings"
)

type Message struct {
	From    string
	To      []string
	Cc      []string
	Subject string
	Body    string
	IsHTML  bool
}

type MailSender interface {
	Send(message *Message) error
}

// LogMailSender writes messages to the log instead of delivering them.
// Used when no SMTP server is configured.
type LogMailSender struct{}

func (LogMailSender) Send(message *Message) error {
	slog.Info("Mail not delivered, no SMTP configured",
		"to", strings.Join(message.To, ","),
		"subject", message.Subject,
		"body", message.Body,
	)
	return nil
}
