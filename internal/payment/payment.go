package payment

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound              = errors.New("payment not found")
	ErrInvalidPayment        = errors.New("invalid payment")
	ErrInvalidMethod         = errors.New("payment method must be card, bank_transfer or ussd")
	ErrInvalidAmount         = errors.New("payment amount must be positive")
	ErrDuplicateReference    = errors.New("payment reference already exists")
	ErrDuplicateReceipt      = errors.New("receipt number already issued")
	ErrInvalidTransition     = errors.New("invalid payment status transition")
	ErrAmountMismatch        = errors.New("reported amount does not match payment amount")
	ErrBankAmountRequired    = errors.New("bank amount is required to approve a bank transfer")
	ErrMismatchJustification = errors.New("approving an amount mismatch requires notes")
	ErrMissingNotes          = errors.New("rejection requires notes")
	ErrMissingActor          = errors.New("verifying operator is required")
	ErrNotBankTransfer       = errors.New("operation only applies to bank transfers")
	ErrConcurrentUpdate      = errors.New("payment was modified concurrently")
	ErrGatewayTimeout        = errors.New("payment gateway timed out")
	ErrGatewayUnavailable    = errors.New("payment gateway unavailable")
	ErrNeedsReview           = errors.New("gateway report needs review")
)

type Method string

const (
	MethodCard         Method = "card"
	MethodBankTransfer Method = "bank_transfer"
	MethodUSSD         Method = "ussd"
)

func (m Method) Valid() bool {
	switch m {
	case MethodCard, MethodBankTransfer, MethodUSSD:
		return true
	default:
		return false
	}
}

// ViaGateway reports whether the channel is settled by a gateway rather
// than by manual bank verification.
func (m Method) ViaGateway() bool {
	return m == MethodCard || m == MethodUSSD
}

type Status string

const (
	StatusPending              Status = "pending"
	StatusProcessing           Status = "processing"
	StatusPendingVerification  Status = "pending_verification"
	StatusAwaitingVerification Status = "awaiting_verification"
	StatusConfirmed            Status = "confirmed"
	StatusRejected             Status = "rejected"
	StatusFailed               Status = "failed"
)

var transitions = map[Status][]Status{
	StatusPending: {
		StatusProcessing, StatusPendingVerification, StatusAwaitingVerification, StatusConfirmed, StatusFailed,
	},
	StatusProcessing:           {StatusConfirmed, StatusFailed},
	StatusPendingVerification:  {StatusAwaitingVerification, StatusConfirmed, StatusRejected},
	StatusAwaitingVerification: {StatusConfirmed, StatusRejected},
}

// CanTransition reports whether from -> to is an edge of the status graph.
func CanTransition(from, to Status) bool {
	return slices.Contains(transitions[from], to)
}

func (s Status) Terminal() bool {
	return s == StatusConfirmed || s == StatusRejected || s == StatusFailed
}

// AwaitingReview reports whether an operator may approve or reject.
func (s Status) AwaitingReview() bool {
	return s == StatusPendingVerification || s == StatusAwaitingVerification
}

type Payment struct {
	ID                uuid.UUID  `json:"id"`
	Reference         string     `json:"reference"`
	RRR               string     `json:"rrr,omitempty"`
	PayerName         string     `json:"payer_name"`
	PayerPhone        string     `json:"payer_phone,omitempty"`
	PayerEmail        string     `json:"payer_email,omitempty"`
	ServiceName       string     `json:"service_name"`
	RevenueTypeCode   string     `json:"revenue_type_code,omitempty"`
	ZoneID            string     `json:"zone_id,omitempty"`
	Amount            int64      `json:"amount"`
	Method            Method     `json:"payment_method"`
	Status            Status     `json:"status"`
	CheckoutURL       string     `json:"checkout_url,omitempty"`
	ProofURL          string     `json:"proof_of_payment_url,omitempty"`
	BankAmount        *int64     `json:"bank_amount,omitempty"`
	BankReference     string     `json:"bank_reference,omitempty"`
	NoticeID          *uuid.UUID `json:"notice_id,omitempty"`
	ReceiptNumber     string     `json:"receipt_number,omitempty"`
	ConfirmedAt       *time.Time `json:"confirmed_at,omitempty"`
	VerifiedBy        string     `json:"verified_by,omitempty"`
	VerifiedAt        *time.Time `json:"verified_at,omitempty"`
	VerificationNotes string     `json:"verification_notes,omitempty"`
	FailureReason     string     `json:"failure_reason,omitempty"`
	Version           int        `json:"version"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

// Reconciliation is one entry of the reconciliation log. ExpectedAmount is
// the amount the payment was raised for.
type Reconciliation struct {
	ID             uuid.UUID  `json:"id"`
	PaymentID      uuid.UUID  `json:"payment_id"`
	ExpectedAmount int64      `json:"expected_amount"`
	BankAmount     *int64     `json:"bank_amount,omitempty"`
	BankReference  string     `json:"bank_reference,omitempty"`
	Matched        bool       `json:"matched"`
	Resolved       bool       `json:"resolved"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type Filter struct {
	Statuses []Status
	Method   Method
	Limit    int
}

// Decision is an operator's approval or rejection of a bank transfer.
type Decision struct {
	Reference     string
	Actor         string
	Notes         string
	BankAmount    *int64
	BankReference string
}
