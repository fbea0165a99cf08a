package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

// EmailSender delivers plain-text mail through an SMTP relay.
type EmailSender struct {
	addr string
	auth smtp.Auth
	from string

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, password, host)
	}

	return &EmailSender{
		addr: net.JoinHostPort(host, strconv.Itoa(port)),
		auth: auth,
		from: from,
		send: smtp.SendMail,
	}
}

func (s *EmailSender) Channel() Channel { return ChannelEmail }

func (s *EmailSender) Deliver(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.send(s.addr, s.auth, s.from, []string{msg.To.Email}, s.compose(msg)); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}

	return nil
}

func (s *EmailSender) compose(msg Message) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To.Email)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.Body)

	return []byte(b.String())
}
