// Package feed carries payment change events from the reconciliation engine
// to dashboards and downstream consumers. Delivery is best effort: the
// database row and the audit log are the record, the feed is a notification.
package feed

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

type Event struct {
	Type           string    `json:"type"`
	Reference      string    `json:"reference"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Amount         int64     `json:"amount"`
	Method         string    `json:"payment_method"`
	RevenueType    string    `json:"revenue_type_code,omitempty"`
	Actor          string    `json:"actor,omitempty"`
	At             time.Time `json:"at"`
}

const (
	TypeCreated    = "payment.created"
	TypeTransition = "payment.transition"
)

//go:generate mockgen -source=feed.go -destination=publisher_mock.go -package=feed
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Fanout publishes to every sink, attempting all of them.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, ev Event) error {
	var errs []error

	for _, p := range f {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Async decouples publishers from the caller. Events are dropped, with a
// warning, when the queue is full.
type Async struct {
	next  Publisher
	queue chan Event
	done  chan struct{}
}

func NewAsync(next Publisher, size int) *Async {
	return &Async{
		next:  next,
		queue: make(chan Event, size),
		done:  make(chan struct{}),
	}
}

func (a *Async) Publish(_ context.Context, ev Event) error {
	select {
	case a.queue <- ev:
	default:
		slog.Warn("feed queue full, dropping event", "type", ev.Type, "reference", ev.Reference)
	}

	return nil
}

// Run drains the queue until ctx is cancelled, then flushes what is left.
func (a *Async) Run(ctx context.Context) {
	defer close(a.done)

	for {
		select {
		case ev := <-a.queue:
			a.forward(ctx, ev)
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)

			for {
				select {
				case ev := <-a.queue:
					a.forward(flushCtx, ev)
				default:
					cancel()
					return
				}
			}
		}
	}
}

// Done is closed once Run has returned.
func (a *Async) Done() <-chan struct{} {
	return a.done
}

func (a *Async) forward(ctx context.Context, ev Event) {
	if err := a.next.Publish(ctx, ev); err != nil {
		slog.Warn("failed to publish feed event", "type", ev.Type, "reference", ev.Reference, "error", err)
	}
}
