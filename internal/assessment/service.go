package assessment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/levy/internal/audit"
	"github.com/MrJamesThe3rd/levy/internal/calc"
	"github.com/MrJamesThe3rd/levy/internal/ident"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=assessment
type Repository interface {
	CreateApplication(ctx context.Context, app *Application) error
	GetApplication(ctx context.Context, id uuid.UUID) (*Application, error)
	ListApplications(ctx context.Context, filter ApplicationFilter) ([]*Application, error)
	RejectApplication(ctx context.Context, id uuid.UUID, reason string) error

	// CreateAssessment inserts a and marks its application assessment_completed atomically.
	CreateAssessment(ctx context.Context, a *Assessment) error
	GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error)
	GetAssessmentByNumber(ctx context.Context, number string) (*Assessment, error)
	ListAdjustments(ctx context.Context, assessmentID uuid.UUID) ([]*Adjustment, error)

	BeginUpdate(ctx context.Context, id uuid.UUID) (UpdateTx, error)
}

// UpdateTx holds a row lock on one assessment until Commit or Rollback.
type UpdateTx interface {
	Assessment(ctx context.Context) (*Assessment, error)
	UpdateAssessment(ctx context.Context, a *Assessment) error
	CreateAdjustment(ctx context.Context, adj *Adjustment) error
	Commit() error
	Rollback() error
}

type Calculator interface {
	Calculate(ctx context.Context, in calc.Input) (*calc.Result, error)
}

type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

const (
	tableApplications = "assessment_applications"
	tableAssessments  = "assessments"

	numberAttempts = 5
)

type Service struct {
	repo     Repository
	calc     Calculator
	auditor  Auditor
	now      func() time.Time
	validity time.Duration
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithValidity sets the default span between valid_from and valid_until.
func WithValidity(d time.Duration) Option {
	return func(s *Service) { s.validity = d }
}

func NewService(repo Repository, calculator Calculator, auditor Auditor, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		calc:     calculator,
		auditor:  auditor,
		now:      time.Now,
		validity: 365 * 24 * time.Hour,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type SubmitParams struct {
	ApplicantName   string
	ApplicantPhone  string
	ApplicantEmail  string
	RevenueTypeCode string
	ZoneID          string
	Data            calc.Fields
}

func (s *Service) SubmitApplication(ctx context.Context, params SubmitParams) (*Application, error) {
	app := &Application{
		ApplicantName:   strings.TrimSpace(params.ApplicantName),
		ApplicantPhone:  strings.TrimSpace(params.ApplicantPhone),
		ApplicantEmail:  strings.ToLower(strings.TrimSpace(params.ApplicantEmail)),
		RevenueTypeCode: strings.TrimSpace(params.RevenueTypeCode),
		ZoneID:          strings.TrimSpace(params.ZoneID),
		Data:            params.Data,
		Status:          ApplicationSubmitted,
		SubmittedAt:     s.now(),
	}

	if app.ApplicantName == "" || app.RevenueTypeCode == "" {
		return nil, fmt.Errorf("%w: applicant name and revenue type are required", ErrInvalidApplication)
	}

	if app.Data == nil {
		app.Data = calc.Fields{}
	}

	err := withFreshNumber(func() error {
		app.Number = ident.Application(app.SubmittedAt)
		return s.repo.CreateApplication(ctx, app)
	})
	if err != nil {
		return nil, fmt.Errorf("creating application: %w", err)
	}

	s.auditor.Record(ctx, audit.Success(app.ApplicantEmail, "application.submit", tableApplications, app.ID.String(), nil, app))

	return app, nil
}

func (s *Service) GetApplication(ctx context.Context, id uuid.UUID) (*Application, error) {
	return s.repo.GetApplication(ctx, id)
}

func (s *Service) ListApplications(ctx context.Context, filter ApplicationFilter) ([]*Application, error) {
	return s.repo.ListApplications(ctx, filter)
}

func (s *Service) RejectApplication(ctx context.Context, id uuid.UUID, actor, reason string) error {
	reason = strings.TrimSpace(reason)

	err := func() error {
		if reason == "" {
			return ErrMissingReason
		}

		return s.repo.RejectApplication(ctx, id, reason)
	}()
	if err != nil {
		s.auditor.Record(ctx, audit.Failure(actor, "application.reject", tableApplications, id.String(), nil, err))
		return err
	}

	s.auditor.Record(ctx, audit.Success(actor, "application.reject", tableApplications, id.String(),
		map[string]any{"status": ApplicationSubmitted},
		map[string]any{"status": ApplicationRejected, "reason": reason},
	))

	return nil
}

type AssessParams struct {
	ApplicationID uuid.UUID
	AssessedBy    string
	Override      *Override
	// AsOf selects the formula version; zero means now.
	AsOf       time.Time
	ValidFrom  time.Time
	ValidUntil time.Time
}

// Assess calculates, finalises and records the assessment for a submitted application.
func (s *Service) Assess(ctx context.Context, params AssessParams) (*Assessment, error) {
	a, err := s.assess(ctx, params)
	if err != nil {
		s.auditor.Record(ctx, audit.Failure(params.AssessedBy, "assessment.create", tableApplications, params.ApplicationID.String(), params.Override, err))
		return nil, err
	}

	s.auditor.Record(ctx, audit.Success(params.AssessedBy, "assessment.create", tableAssessments, a.ID.String(), nil, a))

	return a, nil
}

func (s *Service) assess(ctx context.Context, params AssessParams) (*Assessment, error) {
	app, err := s.repo.GetApplication(ctx, params.ApplicationID)
	if err != nil {
		return nil, err
	}

	if app.Status != ApplicationSubmitted {
		return nil, ErrApplicationClosed
	}

	now := s.now()

	asOf := params.AsOf
	if asOf.IsZero() {
		asOf = now
	}

	result, err := s.calc.Calculate(ctx, calc.Input{
		RevenueTypeCode: app.RevenueTypeCode,
		ZoneID:          app.ZoneID,
		Fields:          app.Data,
		AsOf:            asOf,
	})
	if err != nil {
		return nil, fmt.Errorf("calculating assessment: %w", err)
	}

	if params.Override != nil && params.Override.AdjustedAt.IsZero() {
		params.Override.AdjustedAt = now
	}

	details, err := Finalize(result, params.Override)
	if err != nil {
		return nil, err
	}

	validFrom := params.ValidFrom
	if validFrom.IsZero() {
		validFrom = now
	}

	validUntil := params.ValidUntil
	if validUntil.IsZero() {
		validity := s.validity
		if result.RenewalDays > 0 {
			validity = time.Duration(result.RenewalDays) * 24 * time.Hour
		}

		validUntil = validFrom.Add(validity)
	}

	if !validUntil.After(validFrom) {
		return nil, ErrInvalidValidity
	}

	a := &Assessment{
		ApplicationID:  app.ID,
		AssessedAmount: details.Amount(),
		Method:         details.Method(),
		Details:        details,
		Status:         StatusDraft,
		AssessedBy:     params.AssessedBy,
		AssessmentDate: now,
		ValidFrom:      validFrom,
		ValidUntil:     validUntil,
		Version:        1,
	}

	err = withFreshNumber(func() error {
		a.Number = ident.Assessment(now)
		return s.repo.CreateAssessment(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	return s.repo.GetAssessment(ctx, id)
}

func (s *Service) GetByNumber(ctx context.Context, number string) (*Assessment, error) {
	return s.repo.GetAssessmentByNumber(ctx, number)
}

func (s *Service) ListAdjustments(ctx context.Context, id uuid.UUID) ([]*Adjustment, error) {
	return s.repo.ListAdjustments(ctx, id)
}

// Approve moves a draft assessment to approved.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, actor string) (*Assessment, error) {
	return s.update(ctx, id, actor, "assessment.approve", func(_ UpdateTx, a *Assessment) error {
		if a.Status != StatusDraft {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, StatusApproved)
		}

		a.Status = StatusApproved
		a.ApprovedBy = actor

		return nil
	})
}

// Cancel withdraws a draft assessment, freeing the application for a new one.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, actor, reason string) (*Assessment, error) {
	return s.update(ctx, id, actor, "assessment.cancel", func(_ UpdateTx, a *Assessment) error {
		if strings.TrimSpace(reason) == "" {
			return ErrMissingReason
		}

		if a.Status != StatusDraft {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, StatusCancelled)
		}

		a.Status = StatusCancelled

		return nil
	})
}

// Adjust applies an override. Drafts are re-finalised in place; approved
// assessments get a new versioned Adjustment record.
func (s *Service) Adjust(ctx context.Context, id uuid.UUID, override Override) (*Assessment, error) {
	if override.AdjustedAt.IsZero() {
		override.AdjustedAt = s.now()
	}

	return s.update(ctx, id, override.AdjustedBy, "assessment.adjust", func(tx UpdateTx, a *Assessment) error {
		if a.Status == StatusCancelled {
			return fmt.Errorf("%w: assessment is cancelled", ErrInvalidTransition)
		}

		details, err := Finalize(a.Details.AutoCalculated, &override)
		if err != nil {
			return err
		}

		if a.Status == StatusApproved {
			adj := &Adjustment{
				AssessmentID:   a.ID,
				Version:        a.Version + 1,
				PreviousAmount: a.AssessedAmount,
				NewAmount:      details.Amount(),
				Reason:         details.ManualAdjustment.Reason,
				Source:         details.ManualAdjustment.Source,
				AdjustedBy:     details.ManualAdjustment.AdjustedBy,
			}
			if err := tx.CreateAdjustment(ctx, adj); err != nil {
				return err
			}

			a.Version = adj.Version
		}

		a.Details = details
		a.AssessedAmount = details.Amount()
		a.Method = details.Method()

		return nil
	})
}

// AcceptAISuggestion applies an AI recommendation the operator has explicitly accepted.
func (s *Service) AcceptAISuggestion(ctx context.Context, id uuid.UUID, suggestion AISuggestion, operator string) (*Assessment, error) {
	return s.Adjust(ctx, id, AcceptAISuggestion(suggestion, operator, s.now()))
}

func (s *Service) update(ctx context.Context, id uuid.UUID, actor, action string, apply func(UpdateTx, *Assessment) error) (*Assessment, error) {
	var before Assessment

	after, err := func() (*Assessment, error) {
		tx, err := s.repo.BeginUpdate(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("begin update: %w", err)
		}
		defer tx.Rollback()

		a, err := tx.Assessment(ctx)
		if err != nil {
			return nil, err
		}

		before = *a

		if err := apply(tx, a); err != nil {
			return nil, err
		}

		if err := tx.UpdateAssessment(ctx, a); err != nil {
			return nil, err
		}

		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit update: %w", err)
		}

		return a, nil
	}()
	if err != nil {
		var snapshot any
		if before.ID != uuid.Nil {
			snapshot = before
		}

		s.auditor.Record(ctx, audit.Failure(actor, action, tableAssessments, id.String(), snapshot, err))

		return nil, err
	}

	s.auditor.Record(ctx, audit.Success(actor, action, tableAssessments, id.String(), before, after))

	return after, nil
}

// withFreshNumber retries create while the generated number collides.
func withFreshNumber(create func() error) error {
	var err error

	for range numberAttempts {
		err = create()
		if !errors.Is(err, ErrDuplicateNumber) {
			return err
		}
	}

	return err
}
