package assessment

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/levy/internal/calc"
)

var (
	ErrNotFound                = errors.New("assessment not found")
	ErrApplicationNotFound     = errors.New("application not found")
	ErrApplicationClosed       = errors.New("application has already been reviewed")
	ErrAlreadyAssessed         = errors.New("application already has an active assessment")
	ErrDuplicateNumber         = errors.New("number already issued")
	ErrInvalidTransition       = errors.New("invalid assessment status transition")
	ErrInvalidValidity         = errors.New("valid_until must be after valid_from")
	ErrMissingAdjustmentReason = errors.New("manual adjustment requires a reason")
	ErrMissingAdjuster         = errors.New("manual adjustment requires the adjusting operator")
	ErrNegativeAmount          = errors.New("assessed amount cannot be negative")
	ErrMissingReason           = errors.New("a reason is required")
	ErrInvalidApplication      = errors.New("invalid application")
)

type ApplicationStatus string

const (
	ApplicationSubmitted ApplicationStatus = "submitted"
	ApplicationCompleted ApplicationStatus = "assessment_completed"
	ApplicationRejected  ApplicationStatus = "rejected"
)

// Application is a request to be assessed for one revenue type in one zone.
type Application struct {
	ID              uuid.UUID         `json:"id"`
	Number          string            `json:"application_number"`
	ApplicantName   string            `json:"applicant_name"`
	ApplicantPhone  string            `json:"applicant_phone"`
	ApplicantEmail  string            `json:"applicant_email"`
	RevenueTypeCode string            `json:"revenue_type_code"`
	ZoneID          string            `json:"zone_id,omitempty"`
	Data            calc.Fields       `json:"application_data"`
	Status          ApplicationStatus `json:"status"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	SubmittedAt     time.Time         `json:"submitted_at"`
	ReviewedAt      *time.Time        `json:"reviewed_at,omitempty"`
}

type Method string

const (
	MethodFormula Method = "formula_based"
	MethodManual  Method = "manual"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusApproved  Status = "approved"
	StatusCancelled Status = "cancelled"
)

// Assessment is the finalised obligation for an application. Once approved,
// AssessedAmount only changes through an Adjustment, which bumps Version.
type Assessment struct {
	ID             uuid.UUID `json:"id"`
	Number         string    `json:"assessment_number"`
	ApplicationID  uuid.UUID `json:"application_id"`
	AssessedAmount int64     `json:"assessed_amount"`
	Method         Method    `json:"calculation_method"`
	Details        Details   `json:"calculation_details"`
	Status         Status    `json:"status"`
	AssessedBy     string    `json:"assessed_by"`
	ApprovedBy     string    `json:"approved_by,omitempty"`
	AssessmentDate time.Time `json:"assessment_date"`
	ValidFrom      time.Time `json:"valid_from"`
	ValidUntil     time.Time `json:"valid_until"`
	Version        int       `json:"version"`
}

// Adjustment records a change to an approved assessment's amount.
type Adjustment struct {
	ID             uuid.UUID `json:"id"`
	AssessmentID   uuid.UUID `json:"assessment_id"`
	Version        int       `json:"version"`
	PreviousAmount int64     `json:"previous_amount"`
	NewAmount      int64     `json:"new_amount"`
	Reason         string    `json:"reason"`
	Source         Source    `json:"source"`
	AdjustedBy     string    `json:"adjusted_by"`
	CreatedAt      time.Time `json:"created_at"`
}

type ApplicationFilter struct {
	Status          *ApplicationStatus
	RevenueTypeCode string
}
