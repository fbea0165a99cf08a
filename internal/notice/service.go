package notice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/levy/internal/assessment"
	"github.com/MrJamesThe3rd/levy/internal/audit"
	"github.com/MrJamesThe3rd/levy/internal/ident"
	"github.com/MrJamesThe3rd/levy/internal/notify"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=notice
type Repository interface {
	GetNotice(ctx context.Context, id uuid.UUID) (*Notice, error)
	GetNoticeByNumber(ctx context.Context, number string) (*Notice, error)
	ListByAssessment(ctx context.Context, assessmentID uuid.UUID) ([]*Notice, error)
	// ListOpen returns active unpaid notices due on or before dueBefore.
	ListOpen(ctx context.Context, dueBefore time.Time) ([]*Notice, error)
	// MarkPaid settles an active unpaid notice. It returns ErrSuperseded or
	// ErrAlreadySettled when the notice changed concurrently.
	MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string, paidAt time.Time) error
	SetDocuments(ctx context.Context, id uuid.UUID, pdfURL, qrURL string) error
	// RecordReminder reports false when the stage was already recorded for the notice.
	RecordReminder(ctx context.Context, id uuid.UUID, stage Stage) (bool, error)

	BeginIssue(ctx context.Context, assessmentID uuid.UUID) (IssueTx, error)
}

// IssueTx serialises issuance for one assessment until Commit or Rollback.
type IssueTx interface {
	// Latest returns the most recently issued notice, or nil.
	Latest(ctx context.Context) (*Notice, error)
	Supersede(ctx context.Context, id uuid.UUID, at time.Time) error
	// Create inserts n, returning ErrDuplicateNumber on a number collision
	// without aborting the transaction.
	Create(ctx context.Context, n *Notice) error
	Commit() error
	Rollback() error
}

type Assessments interface {
	Get(ctx context.Context, id uuid.UUID) (*assessment.Assessment, error)
	GetApplication(ctx context.Context, id uuid.UUID) (*assessment.Application, error)
}

type Renderer interface {
	RenderNoticePDF(ctx context.Context, n *Notice) (string, error)
	RenderQRCode(ctx context.Context, key, payload string) (string, error)
}

type Notifier interface {
	Send(ctx context.Context, ch notify.Channel, msg notify.Message) error
}

type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

const (
	tableNotices = "demand_notices"

	numberAttempts = 5

	// DefaultGracePeriod is the span between issue and due date.
	DefaultGracePeriod = 30 * day
)

type Service struct {
	repo        Repository
	assessments Assessments
	renderer    Renderer
	notifier    Notifier
	auditor     Auditor
	now         func() time.Time
	grace       time.Duration
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithGracePeriod(d time.Duration) Option {
	return func(s *Service) { s.grace = d }
}

func NewService(repo Repository, assessments Assessments, renderer Renderer, notifier Notifier, auditor Auditor, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		assessments: assessments,
		renderer:    renderer,
		notifier:    notifier,
		auditor:     auditor,
		now:         time.Now,
		grace:       DefaultGracePeriod,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Issue creates the active demand notice for an approved assessment,
// superseding any unpaid notice issued before it.
func (s *Service) Issue(ctx context.Context, assessmentID uuid.UUID, actor string) (*Notice, error) {
	n, superseded, err := s.issue(ctx, assessmentID)
	if err != nil {
		s.auditor.Record(ctx, audit.Failure(actor, "notice.issue", tableNotices, assessmentID.String(), nil, err))
		return nil, err
	}

	var before any
	if superseded != nil {
		before = superseded
	}

	s.auditor.Record(ctx, audit.Success(actor, "notice.issue", tableNotices, n.ID.String(), before, n))

	s.notify(ctx, n, fmt.Sprintf("Demand notice %s", n.Number),
		fmt.Sprintf("Dear %s, a demand notice %s of NGN %d has been issued. Payment is due by %s.",
			n.PayerName, n.Number, n.AmountDue, n.DueDate.Format("02 Jan 2006")))

	return n, nil
}

func (s *Service) issue(ctx context.Context, assessmentID uuid.UUID) (*Notice, *Notice, error) {
	a, err := s.assessments.Get(ctx, assessmentID)
	if err != nil {
		return nil, nil, err
	}

	if a.Status != assessment.StatusApproved {
		return nil, nil, ErrAssessmentNotApproved
	}

	app, err := s.assessments.GetApplication(ctx, a.ApplicationID)
	if err != nil {
		return nil, nil, err
	}

	tx, err := s.repo.BeginIssue(ctx, assessmentID)
	if err != nil {
		return nil, nil, fmt.Errorf("begin issue: %w", err)
	}
	defer tx.Rollback()

	latest, err := tx.Latest(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()

	var superseded *Notice

	if latest != nil {
		if latest.PaymentStatus == StatusPaid {
			return nil, nil, ErrAlreadySettled
		}

		if latest.IsActive {
			if err := tx.Supersede(ctx, latest.ID, now); err != nil {
				return nil, nil, err
			}

			superseded = latest
		}
	}

	n := &Notice{
		AssessmentID:    a.ID,
		RevenueTypeCode: app.RevenueTypeCode,
		PayerName:       app.ApplicantName,
		PayerPhone:      app.ApplicantPhone,
		PayerEmail:      app.ApplicantEmail,
		AmountDue:       a.AssessedAmount,
		IssueDate:       now,
		DueDate:         now.Add(s.grace),
		PaymentStatus:   StatusUnpaid,
		IsActive:        true,
	}

	for range numberAttempts {
		n.Number = ident.Notice(now)

		err = tx.Create(ctx, n)
		if !errors.Is(err, ErrDuplicateNumber) {
			break
		}
	}

	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit issue: %w", err)
	}

	return n, superseded, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Notice, error) {
	return s.repo.GetNotice(ctx, id)
}

func (s *Service) GetByNumber(ctx context.Context, number string) (*Notice, error) {
	return s.repo.GetNoticeByNumber(ctx, number)
}

func (s *Service) ListByAssessment(ctx context.Context, assessmentID uuid.UUID) ([]*Notice, error) {
	return s.repo.ListByAssessment(ctx, assessmentID)
}

// MarkPaid settles the notice with a confirmed payment. Settling again with
// the same payment reference is a no-op. A superseded notice cannot be settled.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) (*Notice, error) {
	n, err := s.markPaid(ctx, id, paymentRef)
	if err != nil {
		s.auditor.Record(ctx, audit.Failure(audit.SystemActor, "notice.mark_paid", tableNotices, id.String(), nil, err))
		return nil, err
	}

	return n, nil
}

func (s *Service) markPaid(ctx context.Context, id uuid.UUID, paymentRef string) (*Notice, error) {
	if paymentRef == "" {
		return nil, ErrMissingPaymentRef
	}

	n, err := s.repo.GetNotice(ctx, id)
	if err != nil {
		return nil, err
	}

	if n.PaymentStatus == StatusPaid {
		if n.PaymentReference == paymentRef {
			return n, nil
		}

		return nil, ErrAlreadySettled
	}

	if !n.IsActive {
		return nil, ErrSuperseded
	}

	before := *n
	paidAt := s.now()

	if err := s.repo.MarkPaid(ctx, id, paymentRef, paidAt); err != nil {
		return nil, err
	}

	n.PaymentStatus = StatusPaid
	n.PaymentReference = paymentRef
	n.PaidAt = &paidAt

	s.auditor.Record(ctx, audit.Success(audit.SystemActor, "notice.mark_paid", tableNotices, id.String(), before, n))

	return n, nil
}

// Render produces the notice PDF and its payment QR code and stores their URLs.
func (s *Service) Render(ctx context.Context, id uuid.UUID) (*Notice, error) {
	n, err := s.repo.GetNotice(ctx, id)
	if err != nil {
		return nil, err
	}

	qrURL, err := s.renderer.RenderQRCode(ctx, n.Number, QRPayload(n))
	if err != nil {
		return nil, fmt.Errorf("rendering qr code: %w", err)
	}

	n.QRURL = qrURL

	pdfURL, err := s.renderer.RenderNoticePDF(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("rendering notice: %w", err)
	}

	n.PDFURL = pdfURL

	if err := s.repo.SetDocuments(ctx, id, pdfURL, qrURL); err != nil {
		return nil, err
	}

	return n, nil
}

// QRPayload is the text encoded into a notice's QR code.
func QRPayload(n *Notice) string {
	return fmt.Sprintf("AMAC|%s|%s|%d", n.Number, n.RevenueTypeCode, n.AmountDue)
}

// ListOverdue returns active unpaid notices past their due date at now.
func (s *Service) ListOverdue(ctx context.Context, now time.Time) ([]*Notice, error) {
	open, err := s.repo.ListOpen(ctx, now)
	if err != nil {
		return nil, err
	}

	overdue := open[:0]

	for _, n := range open {
		if n.EffectiveStatus(now) == StatusOverdue {
			overdue = append(overdue, n)
		}
	}

	return overdue, nil
}

type SweepResult struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// SendReminders notifies payers of notices approaching or past their due
// date. Each stage is sent at most once per notice.
func (s *Service) SendReminders(ctx context.Context, now time.Time) (SweepResult, error) {
	var res SweepResult

	open, err := s.repo.ListOpen(ctx, now.Add(ReminderWindow))
	if err != nil {
		return res, err
	}

	for _, n := range open {
		stage, ok := ReminderStage(n, now)
		if !ok {
			res.Skipped++
			continue
		}

		first, err := s.repo.RecordReminder(ctx, n.ID, stage)
		if err != nil {
			return res, fmt.Errorf("recording reminder for %s: %w", n.Number, err)
		}

		if !first {
			res.Skipped++
			continue
		}

		if err := s.notifier.Send(ctx, notify.ChannelAll, reminderMessage(n, stage)); err != nil {
			slog.Warn("failed to send reminder", "notice", n.Number, "stage", stage, "error", err)
			res.Failed++

			continue
		}

		res.Sent++
	}

	return res, nil
}

func reminderMessage(n *Notice, stage Stage) notify.Message {
	due := n.DueDate.Format("02 Jan 2006")

	var body string

	switch stage {
	case StageDueSoon:
		body = fmt.Sprintf("Reminder: demand notice %s of NGN %d is due on %s.", n.Number, n.AmountDue, due)
	case StageDue:
		body = fmt.Sprintf("Demand notice %s of NGN %d is due today (%s).", n.Number, n.AmountDue, due)
	default:
		body = fmt.Sprintf("Demand notice %s of NGN %d was due on %s and is now overdue.", n.Number, n.AmountDue, due)
	}

	return notify.Message{
		To:      notify.Recipient{Name: n.PayerName, Email: n.PayerEmail, Phone: n.PayerPhone},
		Subject: fmt.Sprintf("Demand notice %s", n.Number),
		Body:    body,
	}
}

func (s *Service) notify(ctx context.Context, n *Notice, subject, body string) {
	msg := notify.Message{
		To:      notify.Recipient{Name: n.PayerName, Email: n.PayerEmail, Phone: n.PayerPhone},
		Subject: subject,
		Body:    body,
	}

	if err := s.notifier.Send(ctx, notify.ChannelAll, msg); err != nil {
		slog.Warn("failed to notify payer", "notice", n.Number, "error", err)
	}
}
