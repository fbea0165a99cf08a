package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/levy/internal/audit"
	"github.com/MrJamesThe3rd/levy/internal/calc"
	"github.com/MrJamesThe3rd/levy/internal/feed"
	"github.com/MrJamesThe3rd/levy/internal/gateway"
	"github.com/MrJamesThe3rd/levy/internal/ident"
)

type InitiateParams struct {
	PayerName       string
	PayerPhone      string
	PayerEmail      string
	ServiceName     string
	RevenueTypeCode string
	ZoneID          string
	// Fields feed the calculator when Amount is zero.
	Fields   calc.Fields
	Amount   int64
	Method   string
	NoticeID *uuid.UUID
}

// Initiate records a new payment in pending. Gateway channels are handed to
// the gateway and move to processing; bank transfers wait for a proof or a
// statement line.
func (s *Service) Initiate(ctx context.Context, params InitiateParams) (*Payment, error) {
	p, err := s.initiate(ctx, params)
	if err != nil {
		s.auditor.Record(ctx, audit.Failure(params.PayerEmail, "payment.initiate", tablePayments, "", nil, err))
		return nil, err
	}

	return p, nil
}

func (s *Service) initiate(ctx context.Context, params InitiateParams) (*Payment, error) {
	p, err := s.normalize(ctx, params)
	if err != nil {
		return nil, err
	}

	now := s.now()

	for range referenceAttempts {
		p.Reference = ident.PaymentReference(p.ServiceName, now)

		err = s.repo.CreatePayment(ctx, p)
		if !errors.Is(err, ErrDuplicateReference) {
			break
		}
	}

	if err != nil {
		return nil, fmt.Errorf("creating payment: %w", err)
	}

	s.auditor.Record(ctx, audit.Success(p.PayerEmail, "payment.initiate", tablePayments, p.Reference, nil, p))
	s.metrics.PaymentInitiated(string(p.Method))
	s.publish(ctx, feed.TypeCreated, p.PayerEmail, "", p)

	if !p.Method.ViaGateway() {
		return p, nil
	}

	return s.handOff(ctx, p)
}

func (s *Service) normalize(ctx context.Context, params InitiateParams) (*Payment, error) {
	p := &Payment{
		PayerName:       strings.TrimSpace(params.PayerName),
		PayerPhone:      strings.TrimSpace(params.PayerPhone),
		PayerEmail:      strings.ToLower(strings.TrimSpace(params.PayerEmail)),
		ServiceName:     strings.TrimSpace(params.ServiceName),
		RevenueTypeCode: strings.TrimSpace(params.RevenueTypeCode),
		ZoneID:          strings.TrimSpace(params.ZoneID),
		Amount:          params.Amount,
		Method:          Method(strings.ToLower(strings.TrimSpace(params.Method))),
		NoticeID:        params.NoticeID,
		Status:          StatusPending,
		Version:         1,
	}

	if p.PayerName == "" {
		return nil, fmt.Errorf("%w: payer name is required", ErrInvalidPayment)
	}

	if p.PayerPhone == "" && p.PayerEmail == "" {
		return nil, fmt.Errorf("%w: payer phone or email is required", ErrInvalidPayment)
	}

	if !p.Method.Valid() {
		return nil, ErrInvalidMethod
	}

	if p.ServiceName == "" {
		p.ServiceName = p.RevenueTypeCode
	}

	if p.ServiceName == "" {
		return nil, fmt.Errorf("%w: service name or revenue type is required", ErrInvalidPayment)
	}

	if p.Amount == 0 && p.RevenueTypeCode != "" {
		res, err := s.calc.Calculate(ctx, calc.Input{
			RevenueTypeCode: p.RevenueTypeCode,
			ZoneID:          p.ZoneID,
			Fields:          params.Fields,
			AsOf:            s.now(),
		})
		if err != nil {
			return nil, fmt.Errorf("calculating amount: %w", err)
		}

		p.Amount = res.Amount
	}

	if p.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	return p, nil
}

// handOff asks the gateway for a checkout. A gateway failure fails the payment.
// A payment the gateway already settled through its webhook is returned as it
// stands.
func (s *Service) handOff(ctx context.Context, p *Payment) (*Payment, error) {
	gwCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	res, err := s.gateway.Initialize(gwCtx, gateway.InitRequest{
		Reference:   p.Reference,
		Amount:      p.Amount,
		PayerName:   p.PayerName,
		PayerEmail:  p.PayerEmail,
		PayerPhone:  p.PayerPhone,
		Description: p.ServiceName,
		Channel:     string(p.Method),
	})
	if err != nil {
		if _, failErr := s.Fail(ctx, p.Reference, "gateway initialisation failed: "+err.Error()); failErr != nil {
			return nil, errors.Join(fmt.Errorf("%w: %w", ErrGatewayUnavailable, err), failErr)
		}

		return nil, fmt.Errorf("%w: %w", ErrGatewayUnavailable, err)
	}

	return s.apply(ctx, p.Reference, audit.SystemActor, "payment.processing", func(_ context.Context, _ TransitionTx, p *Payment) (effect, error) {
		if p.Status.Terminal() {
			return effectNone, nil
		}

		if err := s.transition(p, StatusProcessing); err != nil {
			return effectNone, err
		}

		p.CheckoutURL = res.CheckoutURL
		p.RRR = res.RRR

		return effectTransition, nil
	})
}
