// Package gateway adapts external payment providers to a common
// initialise/verify contract.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/levy/internal/metrics"
)

var (
	ErrRejected      = errors.New("gateway rejected the request")
	ErrBadResponse   = errors.New("unreadable gateway response")
	ErrNotConfigured = errors.New("gateway is not configured")
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusPending Status = "pending"
	// StatusUnknown is a provider code we do not recognise; it needs a human.
	StatusUnknown Status = "unknown"
)

type InitRequest struct {
	Reference   string
	Amount      int64
	PayerName   string
	PayerEmail  string
	PayerPhone  string
	Description string
	Channel     string
}

type InitResult struct {
	CheckoutURL string
	AccessCode  string
	RRR         string
}

// Verification is the provider's view of a payment. Amount is in Naira and
// may carry kobo.
type Verification struct {
	Reference string
	RRR       string
	Status    Status
	RawStatus string
	Amount    decimal.Decimal
	Message   string
	PaidAt    *time.Time
}

type Gateway interface {
	Name() string
	Initialize(ctx context.Context, req InitRequest) (*InitResult, error)
	Verify(ctx context.Context, reference string) (*Verification, error)
}

// RemitaStatus maps a Remita status code.
func RemitaStatus(code string) Status {
	switch code {
	case "00", "01":
		return StatusSuccess
	case "02", "09":
		return StatusFailed
	case "021", "025":
		return StatusPending
	default:
		return StatusUnknown
	}
}

// Instrument records call latency for g.
func Instrument(g Gateway, m *metrics.Metrics) Gateway {
	return &instrumented{next: g, metrics: m}
}

type instrumented struct {
	next    Gateway
	metrics *metrics.Metrics
}

func (i *instrumented) Name() string { return i.next.Name() }

func (i *instrumented) Initialize(ctx context.Context, req InitRequest) (*InitResult, error) {
	start := time.Now()
	res, err := i.next.Initialize(ctx, req)
	i.metrics.GatewayRequest(i.next.Name(), "initialize", err, time.Since(start))

	return res, err
}

func (i *instrumented) Verify(ctx context.Context, reference string) (*Verification, error) {
	start := time.Now()
	v, err := i.next.Verify(ctx, reference)
	i.metrics.GatewayRequest(i.next.Name(), "verify", err, time.Since(start))

	return v, err
}
