package notify

import (
	"log"

	gomail "gopkg.in/gomail.v2"
)

// MaxSubjectLen is the subject length limit enforced by the outbound channel.
// Longer subjects are truncated, never rejected.
const MaxSubjectLen = 100

// Channel delivers a single message to a set of recipients. Implementations
// report failure through the returned error; they never retry.
type Channel interface {
	Send(subject string, recipients []string, body string) error
}

// Sender wraps a Channel with the application's delivery policy: best-effort,
// fire-and-forget. Channel failures are logged and swallowed so a failed
// notification can never undo the state change that triggered it.
type Sender struct {
	ch Channel
}

func NewSender(ch Channel) *Sender {
	return &Sender{ch: ch}
}

// Send delivers subject/body to recipients. An empty recipient list is a
// no-op. Never returns an error.
func (s *Sender) Send(subject string, recipients []string, body string) {
	if len(recipients) == 0 {
		return
	}
	if r := []rune(subject); len(r) > MaxSubjectLen {
		subject = string(r[:MaxSubjectLen])
	}
	if err := s.ch.Send(subject, recipients, body); err != nil {
		log.Printf("[ERROR] notify: failed to send %q to %d recipient(s): %v", subject, len(recipients), err)
		return
	}
	log.Printf("[INFO] notify: sent %q to %d recipient(s)", subject, len(recipients))
}

// ─── SMTP Channel ─────────────────────────────────────────────────────────────

// SMTPChannel delivers messages as plain-text email over SMTP.
type SMTPChannel struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPChannel(host string, port int, username, password, from string) *SMTPChannel {
	return &SMTPChannel{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (c *SMTPChannel) Send(subject string, recipients []string, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", c.from)
	m.SetHeader("To", recipients...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return c.dialer.DialAndSend(m)
}

// ─── Log Channel ──────────────────────────────────────────────────────────────

// LogChannel writes messages to the process log instead of delivering them.
// Used when no SMTP host is configured (local development, memory backend).
type LogChannel struct{}

func (LogChannel) Send(subject string, recipients []string, body string) error {
	log.Printf("[INFO] notify (log channel): %q -> %v", subject, recipients)
	return nil
}
