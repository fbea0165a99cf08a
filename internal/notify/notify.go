package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	// ChannelAll delivers on every channel the recipient has contact details for.
	ChannelAll Channel = "all"
)

var ErrNoRecipient = errors.New("recipient has no contact for the requested channel")

type Recipient struct {
	Name  string
	Email string
	Phone string
}

type Message struct {
	To      Recipient
	Subject string
	Body    string
}

//go:generate mockgen -source=notify.go -destination=sender_mock.go -package=notify
type Sender interface {
	Channel() Channel
	Deliver(ctx context.Context, msg Message) error
}

const defaultAttempts = 3

// Dispatcher fans a message out to its senders, retrying each a bounded number
// of times. Delivery failures are logged and returned but never roll back the
// caller's state change.
type Dispatcher struct {
	senders  []Sender
	attempts uint
	interval time.Duration
}

type Option func(*Dispatcher)

func WithAttempts(n uint) Option {
	return func(d *Dispatcher) { d.attempts = n }
}

// WithInterval sets the initial backoff between attempts.
func WithInterval(interval time.Duration) Option {
	return func(d *Dispatcher) { d.interval = interval }
}

func NewDispatcher(senders []Sender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		senders:  senders,
		attempts: defaultAttempts,
		interval: 500 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Dispatcher) Send(ctx context.Context, ch Channel, msg Message) error {
	var (
		errs      []error
		delivered bool
	)

	for _, s := range d.senders {
		if ch != ChannelAll && s.Channel() != ch {
			continue
		}

		if !reachable(s.Channel(), msg.To) {
			continue
		}

		if err := d.deliver(ctx, s, msg); err != nil {
			slog.Warn("failed to deliver notification",
				"channel", s.Channel(), "subject", msg.Subject, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", s.Channel(), err))

			continue
		}

		delivered = true
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if !delivered {
		return ErrNoRecipient
	}

	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, s Sender, msg Message) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.interval

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, s.Deliver(ctx, msg)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(d.attempts))

	return err
}

func reachable(ch Channel, to Recipient) bool {
	switch ch {
	case ChannelEmail:
		return to.Email != ""
	case ChannelSMS:
		return to.Phone != ""
	default:
		return false
	}
}
