package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/levy/internal/audit"
	"github.com/MrJamesThe3rd/levy/internal/gateway"
)

// GatewayConfirm applies a gateway's success report to a card or USSD
// payment. It is idempotent per reference: a confirmed payment is returned
// unchanged. A reported amount that differs from the payment amount leaves
// the status as it was and is kept on the audit trail.
func (s *Service) GatewayConfirm(ctx context.Context, reference string, reported decimal.Decimal) (*Payment, error) {
	return s.apply(ctx, reference, audit.SystemActor, "payment.gateway_confirm", func(_ context.Context, _ TransitionTx, p *Payment) (effect, error) {
		if !p.Method.ViaGateway() {
			return effectNone, fmt.Errorf("%w: %s payment is settled by verification", ErrInvalidTransition, p.Method)
		}

		switch p.Status {
		case StatusConfirmed:
			return effectNone, nil
		case StatusPending, StatusProcessing:
		default:
			return effectNone, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, StatusConfirmed)
		}

		if !reported.Equal(decimal.NewFromInt(p.Amount)) {
			s.metrics.ReconciliationMismatch("gateway")

			return effectNone, fmt.Errorf("%w: expected %d, gateway reported %s", ErrAmountMismatch, p.Amount, reported.String())
		}

		if err := s.confirm(p, s.now()); err != nil {
			return effectNone, err
		}

		return effectTransition, nil
	})
}

// Fail marks a gateway payment that did not complete.
func (s *Service) Fail(ctx context.Context, reference, reason string) (*Payment, error) {
	return s.apply(ctx, reference, audit.SystemActor, "payment.fail", func(_ context.Context, _ TransitionTx, p *Payment) (effect, error) {
		if p.Status == StatusFailed {
			return effectNone, nil
		}

		if err := s.transition(p, StatusFailed); err != nil {
			return effectNone, err
		}

		p.FailureReason = strings.TrimSpace(reason)

		return effectTransition, nil
	})
}

// Flag records a gateway report that needs a human, without changing status.
// Bank transfers get an open reconciliation entry; gateway payments are
// flagged on the audit trail.
func (s *Service) Flag(ctx context.Context, reference, note string) (*Payment, error) {
	return s.apply(ctx, reference, audit.SystemActor, "payment.flag", func(ctx context.Context, tx TransitionTx, p *Payment) (effect, error) {
		if p.Method != MethodBankTransfer {
			err := fmt.Errorf("%w: %s", ErrNeedsReview, note)
			s.auditor.Record(ctx, audit.Failure(audit.SystemActor, "payment.flag", tablePayments, reference, *p, err))

			return effectNone, nil
		}

		err := tx.CreateReconciliation(ctx, &Reconciliation{
			PaymentID:      p.ID,
			ExpectedAmount: p.Amount,
			Matched:        false,
			Notes:          note,
		})
		if err != nil {
			return effectNone, err
		}

		return effectRecord, nil
	})
}

// VerifyWithGateway asks the gateway for the payment's status and applies it.
// The gateway call is bounded by a timeout and retried once.
func (s *Service) VerifyWithGateway(ctx context.Context, reference string) (*Payment, error) {
	p, err := s.repo.GetPayment(ctx, reference)
	if err != nil {
		return nil, err
	}

	if p.Status.Terminal() || !p.Method.ViaGateway() {
		return p, nil
	}

	v, err := s.verify(ctx, reference)
	if err != nil {
		s.auditor.Record(ctx, audit.Failure(audit.SystemActor, "payment.verify", tablePayments, reference, p, err))
		return nil, err
	}

	switch v.Status {
	case gateway.StatusSuccess:
		return s.GatewayConfirm(ctx, reference, v.Amount)
	case gateway.StatusFailed:
		return s.Fail(ctx, reference, v.Message)
	case gateway.StatusPending:
		return p, nil
	default:
		return s.Flag(ctx, reference, fmt.Sprintf("unrecognised gateway status %q: %s", v.RawStatus, v.Message))
	}
}

func (s *Service) verify(ctx context.Context, reference string) (*gateway.Verification, error) {
	attempt := func() (*gateway.Verification, error) {
		callCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
		defer cancel()

		v, err := s.gateway.Verify(callCtx, reference)
		if err != nil && ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}

		return v, err
	}

	v, err := backoff.Retry(ctx, attempt,
		backoff.WithBackOff(backoff.NewConstantBackOff(s.retryInterval)),
		backoff.WithMaxTries(2),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ErrGatewayTimeout, err)
		}

		return nil, fmt.Errorf("%w: %w", ErrGatewayUnavailable, err)
	}

	return v, nil
}

// SubmitProof attaches a proof of payment to a bank transfer.
func (s *Service) SubmitProof(ctx context.Context, reference, proofURL, actor string) (*Payment, error) {
	return s.apply(ctx, reference, actor, "payment.submit_proof", func(_ context.Context, _ TransitionTx, p *Payment) (effect, error) {
		if p.Method != MethodBankTransfer {
			return effectNone, ErrNotBankTransfer
		}

		proofURL = strings.TrimSpace(proofURL)
		if proofURL == "" {
			return effectNone, fmt.Errorf("%w: proof url is required", ErrInvalidPayment)
		}

		p.ProofURL = proofURL

		if p.Status == StatusAwaitingVerification {
			return effectUpdate, nil
		}

		if err := s.transition(p, StatusAwaitingVerification); err != nil {
			return effectNone, err
		}

		return effectTransition, nil
	})
}

// RecordBankAmount stores what the bank statement says was received. The
// operator still decides; a pending transfer moves to pending_verification.
func (s *Service) RecordBankAmount(ctx context.Context, reference string, amount int64, bankRef string) (*Payment, error) {
	return s.apply(ctx, reference, audit.SystemActor, "payment.record_bank_amount", func(ctx context.Context, tx TransitionTx, p *Payment) (effect, error) {
		if p.Method != MethodBankTransfer {
			return effectNone, ErrNotBankTransfer
		}

		if p.BankAmount != nil && *p.BankAmount == amount && p.BankReference == bankRef {
			return effectNone, nil
		}

		eff := effectUpdate

		switch {
		case p.Status == StatusPending:
			if err := s.transition(p, StatusPendingVerification); err != nil {
				return effectNone, err
			}

			eff = effectTransition
		case !p.Status.AwaitingReview():
			return effectNone, fmt.Errorf("%w: %s payment cannot take a bank amount", ErrInvalidTransition, p.Status)
		}

		p.BankAmount = &amount
		p.BankReference = bankRef

		matched := amount == p.Amount
		if !matched {
			s.metrics.ReconciliationMismatch("statement")
		}

		err := tx.CreateReconciliation(ctx, &Reconciliation{
			PaymentID:      p.ID,
			ExpectedAmount: p.Amount,
			BankAmount:     &amount,
			BankReference:  bankRef,
			Matched:        matched,
		})
		if err != nil {
			return effectNone, err
		}

		return eff, nil
	})
}

// Approve confirms a bank transfer after human review. A bank amount that
// differs from the payment amount may be approved only with notes; the
// mismatch stays on the reconciliation log.
func (s *Service) Approve(ctx context.Context, d Decision) (*Payment, error) {
	return s.apply(ctx, d.Reference, d.Actor, "payment.approve", func(ctx context.Context, tx TransitionTx, p *Payment) (effect, error) {
		if err := s.review(p, d); err != nil {
			return effectNone, err
		}

		bank := d.BankAmount
		if bank == nil {
			bank = p.BankAmount
		}

		if bank == nil {
			return effectNone, ErrBankAmountRequired
		}

		notes := strings.TrimSpace(d.Notes)
		matched := *bank == p.Amount

		if !matched && notes == "" {
			return effectNone, ErrMismatchJustification
		}

		now := s.now()

		if err := s.confirm(p, now); err != nil {
			return effectNone, err
		}

		s.verified(p, d, notes, now)
		p.BankAmount = bank

		return effectTransition, s.resolve(ctx, tx, p, matched, notes, now)
	})
}

// Reject closes a bank transfer that could not be verified.
func (s *Service) Reject(ctx context.Context, d Decision) (*Payment, error) {
	return s.apply(ctx, d.Reference, d.Actor, "payment.reject", func(ctx context.Context, tx TransitionTx, p *Payment) (effect, error) {
		if err := s.review(p, d); err != nil {
			return effectNone, err
		}

		notes := strings.TrimSpace(d.Notes)
		if notes == "" {
			return effectNone, ErrMissingNotes
		}

		if err := s.transition(p, StatusRejected); err != nil {
			return effectNone, err
		}

		now := s.now()

		s.verified(p, d, notes, now)

		if d.BankAmount != nil {
			p.BankAmount = d.BankAmount
		}

		matched := p.BankAmount != nil && *p.BankAmount == p.Amount

		return effectTransition, s.resolve(ctx, tx, p, matched, notes, now)
	})
}

func (s *Service) review(p *Payment, d Decision) error {
	if strings.TrimSpace(d.Actor) == "" {
		return ErrMissingActor
	}

	if !p.Status.AwaitingReview() {
		return fmt.Errorf("%w: %s payment is not awaiting review", ErrInvalidTransition, p.Status)
	}

	return nil
}

func (s *Service) verified(p *Payment, d Decision, notes string, at time.Time) {
	p.VerifiedBy = d.Actor
	p.VerifiedAt = &at
	p.VerificationNotes = notes

	if d.BankReference != "" {
		p.BankReference = d.BankReference
	}
}

func (s *Service) resolve(ctx context.Context, tx TransitionTx, p *Payment, matched bool, notes string, at time.Time) error {
	return tx.CreateReconciliation(ctx, &Reconciliation{
		PaymentID:      p.ID,
		ExpectedAmount: p.Amount,
		BankAmount:     p.BankAmount,
		BankReference:  p.BankReference,
		Matched:        matched,
		Resolved:       true,
		ResolvedAt:     &at,
		Notes:          notes,
	})
}
