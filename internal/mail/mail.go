// Package mail is the opaque deliver-message capability: graded reports
// go out through a Sender and nothing about the transport leaks upward.
package mail

import (
	"errors"

	gomail "gopkg.in/gomail.v2"
)

// ErrNotConfigured means the SMTP credentials are unset. Surfaced to
// callers as a generic configuration failure, never naming which value.
var ErrNotConfigured = errors.New("mail transport not configured")

type Sender interface {
	Send(to, subject, body string) error
}

type SMTPSender struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// NewSMTPSender validates the transport settings up front so a
// misconfigured deployment fails on the first delivery, not silently.
func NewSMTPSender(host string, port int, user, pass, from string) (*SMTPSender, error) {
	if host == "" || port == 0 || user == "" || pass == "" || from == "" {
		return nil, ErrNotConfigured
	}
	return &SMTPSender{Host: host, Port: port, User: user, Pass: pass, From: from}, nil
}

func (s *SMTPSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	return d.DialAndSend(m)
}

// Disabled stands in when no transport is configured; every delivery
// reports the configuration error.
type Disabled struct{}

func (Disabled) Send(string, string, string) error { return ErrNotConfigured }
