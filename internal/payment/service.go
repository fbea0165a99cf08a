package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/levy/internal/audit"
	"github.com/MrJamesThe3rd/levy/internal/calc"
	"github.com/MrJamesThe3rd/levy/internal/feed"
	"github.com/MrJamesThe3rd/levy/internal/gateway"
	"github.com/MrJamesThe3rd/levy/internal/ident"
	"github.com/MrJamesThe3rd/levy/internal/metrics"
	"github.com/MrJamesThe3rd/levy/internal/notify"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=payment
type Repository interface {
	CreatePayment(ctx context.Context, p *Payment) error
	GetPayment(ctx context.Context, reference string) (*Payment, error)
	GetPaymentByRRR(ctx context.Context, rrr string) (*Payment, error)
	ListPayments(ctx context.Context, filter Filter) ([]*Payment, error)
	ListReconciliation(ctx context.Context, reference string) ([]*Reconciliation, error)

	// BeginTransition serialises all changes to one payment until Commit or Rollback.
	BeginTransition(ctx context.Context, reference string) (TransitionTx, error)
}

type TransitionTx interface {
	Payment(ctx context.Context) (*Payment, error)
	// UpdatePayment writes p if its version is unchanged and bumps p.Version.
	// It returns ErrConcurrentUpdate otherwise and ErrDuplicateReceipt on a
	// receipt number collision, leaving the transaction usable.
	UpdatePayment(ctx context.Context, p *Payment) error
	CreateReconciliation(ctx context.Context, r *Reconciliation) error
	Commit() error
	Rollback() error
}

type Gateway interface {
	Name() string
	Initialize(ctx context.Context, req gateway.InitRequest) (*gateway.InitResult, error)
	Verify(ctx context.Context, reference string) (*gateway.Verification, error)
}

type Calculator interface {
	Calculate(ctx context.Context, in calc.Input) (*calc.Result, error)
}

type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

type Notifier interface {
	Send(ctx context.Context, ch notify.Channel, msg notify.Message) error
}

type Publisher interface {
	Publish(ctx context.Context, ev feed.Event) error
}

// Settler links a confirmed payment to the demand notice it pays.
type Settler interface {
	Settle(ctx context.Context, p *Payment) error
}

const (
	tablePayments = "payments"

	referenceAttempts = 5
	receiptAttempts   = 5

	defaultGatewayTimeout = 10 * time.Second
)

type Service struct {
	repo      Repository
	gateway   Gateway
	calc      Calculator
	auditor   Auditor
	notifier  Notifier
	publisher Publisher
	settler   Settler
	metrics   *metrics.Metrics

	now            func() time.Time
	gatewayTimeout time.Duration
	retryInterval  time.Duration
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithGatewayTimeout(d time.Duration) Option {
	return func(s *Service) { s.gatewayTimeout = d }
}

// WithRetryInterval sets the pause before the single gateway retry.
func WithRetryInterval(d time.Duration) Option {
	return func(s *Service) { s.retryInterval = d }
}

func WithSettler(settler Settler) Option {
	return func(s *Service) { s.settler = settler }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(repo Repository, gw Gateway, calculator Calculator, auditor Auditor, notifier Notifier, publisher Publisher, opts ...Option) *Service {
	s := &Service{
		repo:           repo,
		gateway:        gw,
		calc:           calculator,
		auditor:        auditor,
		notifier:       notifier,
		publisher:      publisher,
		now:            time.Now,
		gatewayTimeout: defaultGatewayTimeout,
		retryInterval:  500 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) Get(ctx context.Context, reference string) (*Payment, error) {
	return s.repo.GetPayment(ctx, reference)
}

func (s *Service) GetByRRR(ctx context.Context, rrr string) (*Payment, error) {
	return s.repo.GetPaymentByRRR(ctx, rrr)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]*Payment, error) {
	return s.repo.ListPayments(ctx, filter)
}

// VerificationQueue lists bank transfers waiting for an operator.
func (s *Service) VerificationQueue(ctx context.Context) ([]*Payment, error) {
	return s.repo.ListPayments(ctx, Filter{
		Statuses: []Status{StatusPendingVerification, StatusAwaitingVerification},
		Method:   MethodBankTransfer,
	})
}

func (s *Service) Reconciliation(ctx context.Context, reference string) ([]*Reconciliation, error) {
	return s.repo.ListReconciliation(ctx, reference)
}

// effect says what a mutation did to the locked payment.
type effect int

const (
	// effectNone leaves everything untouched; the call was a no-op.
	effectNone effect = iota
	// effectRecord wrote side rows only. They are committed even when the
	// mutation also returns an error.
	effectRecord
	// effectUpdate changed payment fields without a status change.
	effectUpdate
	// effectTransition moved the payment along the status graph.
	effectTransition
)

type mutation func(ctx context.Context, tx TransitionTx, p *Payment) (effect, error)

// apply runs m against the locked payment and commits. Side effects fire
// after commit and only for transitions.
func (s *Service) apply(ctx context.Context, reference, actor, action string, m mutation) (*Payment, error) {
	var before Payment

	p, eff, err := s.applyTx(ctx, reference, &before, m)
	if err != nil {
		var snapshot any
		if before.ID != uuid.Nil {
			snapshot = before
		}

		s.auditor.Record(ctx, audit.Failure(actor, action, tablePayments, reference, snapshot, err))

		return nil, err
	}

	if eff == effectNone {
		return p, nil
	}

	s.auditor.Record(ctx, audit.Success(actor, action, tablePayments, reference, before, p))

	if eff != effectTransition {
		return p, nil
	}

	s.metrics.PaymentTransition(string(before.Status), string(p.Status))
	s.publish(ctx, feed.TypeTransition, actor, before.Status, p)
	s.afterTransition(ctx, p)

	return p, nil
}

func (s *Service) applyTx(ctx context.Context, reference string, before *Payment, m mutation) (*Payment, effect, error) {
	tx, err := s.repo.BeginTransition(ctx, reference)
	if err != nil {
		return nil, effectNone, fmt.Errorf("begin transition: %w", err)
	}
	defer tx.Rollback()

	p, err := tx.Payment(ctx)
	if err != nil {
		return nil, effectNone, err
	}

	*before = *p

	eff, mErr := m(ctx, tx, p)

	switch {
	case mErr != nil && eff != effectRecord:
		return nil, effectNone, mErr
	case eff == effectNone:
		return p, effectNone, nil
	}

	if eff >= effectUpdate {
		if err := s.update(ctx, tx, p); err != nil {
			return nil, effectNone, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, effectNone, fmt.Errorf("commit transition: %w", err)
	}

	if mErr != nil {
		return nil, effectNone, mErr
	}

	return p, eff, nil
}

func (s *Service) update(ctx context.Context, tx TransitionTx, p *Payment) error {
	for attempt := 1; ; attempt++ {
		err := tx.UpdatePayment(ctx, p)
		if !errors.Is(err, ErrDuplicateReceipt) || attempt == receiptAttempts {
			return err
		}

		p.ReceiptNumber = ident.Receipt(p.RevenueTypeCode, s.now())
	}
}

func (s *Service) transition(p *Payment, to Status) error {
	if !CanTransition(p.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, to)
	}

	p.Status = to

	return nil
}

// confirm moves p to confirmed and issues its receipt.
func (s *Service) confirm(p *Payment, at time.Time) error {
	if err := s.transition(p, StatusConfirmed); err != nil {
		return err
	}

	p.ConfirmedAt = &at
	p.ReceiptNumber = ident.Receipt(p.RevenueTypeCode, at)

	return nil
}

func (s *Service) publish(ctx context.Context, kind, actor string, previous Status, p *Payment) {
	if s.publisher == nil {
		return
	}

	ev := feed.Event{
		Type:           kind,
		Reference:      p.Reference,
		Status:         string(p.Status),
		PreviousStatus: string(previous),
		Amount:         p.Amount,
		Method:         string(p.Method),
		RevenueType:    p.RevenueTypeCode,
		Actor:          actor,
		At:             s.now(),
	}

	if err := s.publisher.Publish(ctx, ev); err != nil {
		slog.Warn("failed to publish payment event", "reference", p.Reference, "error", err)
	}
}

func (s *Service) afterTransition(ctx context.Context, p *Payment) {
	switch p.Status {
	case StatusConfirmed:
		if s.settler != nil {
			if err := s.settler.Settle(ctx, p); err != nil {
				slog.Warn("failed to settle demand notice", "reference", p.Reference, "error", err)
			}
		}

		s.send(ctx, p, "Payment confirmed",
			fmt.Sprintf("Dear %s, your payment of NGN %d for %s has been confirmed. Receipt: %s.",
				p.PayerName, p.Amount, p.ServiceName, p.ReceiptNumber))
	case StatusRejected:
		s.send(ctx, p, "Payment could not be verified",
			fmt.Sprintf("Dear %s, your bank transfer %s of NGN %d could not be verified: %s",
				p.PayerName, p.Reference, p.Amount, p.VerificationNotes))
	case StatusFailed:
		s.send(ctx, p, "Payment failed",
			fmt.Sprintf("Dear %s, payment %s of NGN %d did not complete.", p.PayerName, p.Reference, p.Amount))
	}
}

func (s *Service) send(ctx context.Context, p *Payment, subject, body string) {
	msg := notify.Message{
		To:      notify.Recipient{Name: p.PayerName, Email: p.PayerEmail, Phone: p.PayerPhone},
		Subject: subject,
		Body:    body,
	}

	if err := s.notifier.Send(ctx, notify.ChannelAll, msg); err != nil {
		slog.Warn("failed to notify payer", "reference", p.Reference, "error", err)
	}
}
