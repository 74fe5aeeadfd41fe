// Package mailer sends transactional email. Callers treat delivery as
// best-effort: a failed send is logged and never fails the request that
// triggered it.
package mailer

// Message is one fully-rendered email.
type Message struct {
	ToName      string
	ToEmail     string
	Subject     string
	TextContent string
	HTMLContent string
}

// Mailer delivers a rendered message.
type Mailer interface {
	Send(msg *Message) error
}
