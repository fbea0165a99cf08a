package notice

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound              = errors.New("demand notice not found")
	ErrAssessmentNotApproved = errors.New("assessment must be approved before a notice is issued")
	ErrAlreadySettled        = errors.New("demand notice already settled")
	ErrDuplicateNumber       = errors.New("notice number already issued")
	ErrMissingPaymentRef     = errors.New("payment reference is required")
	ErrSuperseded            = errors.New("demand notice was superseded by a newer notice")
)

// PaymentStatus is what the store holds. Overdue is never stored.
type PaymentStatus string

const (
	StatusUnpaid  PaymentStatus = "unpaid"
	StatusPaid    PaymentStatus = "paid"
	StatusOverdue PaymentStatus = "overdue"
)

// Notice is a demand for payment of an approved assessment.
type Notice struct {
	ID               uuid.UUID     `json:"id"`
	Number           string        `json:"notice_number"`
	AssessmentID     uuid.UUID     `json:"assessment_id"`
	RevenueTypeCode  string        `json:"revenue_type_code"`
	PayerName        string        `json:"payer_name"`
	PayerPhone       string        `json:"payer_phone,omitempty"`
	PayerEmail       string        `json:"payer_email,omitempty"`
	AmountDue        int64         `json:"amount_due"`
	IssueDate        time.Time     `json:"issue_date"`
	DueDate          time.Time     `json:"due_date"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	PaymentReference string        `json:"payment_reference,omitempty"`
	PaidAt           *time.Time    `json:"paid_at,omitempty"`
	IsActive         bool          `json:"is_active"`
	SupersededAt     *time.Time    `json:"superseded_at,omitempty"`
	PDFURL           string        `json:"pdf_url,omitempty"`
	QRURL            string        `json:"qr_url,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

// EffectiveStatus derives overdue at read time.
func (n *Notice) EffectiveStatus(now time.Time) PaymentStatus {
	if n.PaymentStatus == StatusUnpaid && now.After(n.DueDate) {
		return StatusOverdue
	}

	return n.PaymentStatus
}

type Stage string

const (
	StageDueSoon   Stage = "due_soon"
	StageDue       Stage = "due"
	StageOverdue7  Stage = "overdue_7"
	StageOverdue30 Stage = "overdue_30"
)

const day = 24 * time.Hour

// ReminderWindow is how far ahead of the due date the first reminder goes out.
const ReminderWindow = 7 * day

// ReminderStage returns the most advanced reminder stage reached at now.
// Earlier stages that were missed are not sent retroactively.
func ReminderStage(n *Notice, now time.Time) (Stage, bool) {
	if n.PaymentStatus != StatusUnpaid || !n.IsActive {
		return "", false
	}

	since := now.Sub(n.DueDate)

	switch {
	case since >= 30*day:
		return StageOverdue30, true
	case since >= 7*day:
		return StageOverdue7, true
	case since >= 0:
		return StageDue, true
	case since >= -ReminderWindow:
		return StageDueSoon, true
	default:
		return "", false
	}
}
