package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/levy/internal/database"
	"github.com/MrJamesThe3rd/levy/internal/notice"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectNoticeColumns = `
	id, notice_number, assessment_id, revenue_type_code, payer_name, payer_phone, payer_email,
	amount_due, issue_date, due_date, payment_status, payment_reference, paid_at,
	is_active, superseded_at, pdf_url, qr_url, created_at
`

func scanNotice(s scanner) (*notice.Notice, error) {
	var (
		n      notice.Notice
		status string
	)

	if err := s.Scan(
		&n.ID, &n.Number, &n.AssessmentID, &n.RevenueTypeCode, &n.PayerName, &n.PayerPhone, &n.PayerEmail,
		&n.AmountDue, &n.IssueDate, &n.DueDate, &status, &n.PaymentReference, &n.PaidAt,
		&n.IsActive, &n.SupersededAt, &n.PDFURL, &n.QRURL, &n.CreatedAt,
	); err != nil {
		return nil, err
	}

	n.PaymentStatus = notice.PaymentStatus(status)

	return &n, nil
}

func (s *Store) getNotice(ctx context.Context, where string, arg any) (*notice.Notice, error) {
	query := `SELECT ` + selectNoticeColumns + ` FROM demand_notices WHERE ` + where

	n, err := scanNotice(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notice.ErrNotFound
		}

		return nil, fmt.Errorf("getting notice: %w", err)
	}

	return n, nil
}

func (s *Store) GetNotice(ctx context.Context, id uuid.UUID) (*notice.Notice, error) {
	return s.getNotice(ctx, "id = $1", id)
}

func (s *Store) GetNoticeByNumber(ctx context.Context, number string) (*notice.Notice, error) {
	return s.getNotice(ctx, "notice_number = $1", number)
}

func (s *Store) listNotices(ctx context.Context, query string, args ...any) ([]*notice.Notice, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing notices: %w", err)
	}
	defer rows.Close()

	var notices []*notice.Notice

	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning notice: %w", err)
		}

		notices = append(notices, n)
	}

	return notices, rows.Err()
}

func (s *Store) ListByAssessment(ctx context.Context, assessmentID uuid.UUID) ([]*notice.Notice, error) {
	return s.listNotices(ctx, `SELECT `+selectNoticeColumns+`
		FROM demand_notices
		WHERE assessment_id = $1
		ORDER BY issue_date DESC`, assessmentID)
}

func (s *Store) ListOpen(ctx context.Context, dueBefore time.Time) ([]*notice.Notice, error) {
	return s.listNotices(ctx, `SELECT `+selectNoticeColumns+`
		FROM demand_notices
		WHERE is_active AND payment_status = 'unpaid' AND due_date <= $1
		ORDER BY due_date ASC`, dueBefore)
}

func (s *Store) MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string, paidAt time.Time) error {
	query := `
		UPDATE demand_notices
		SET payment_status = 'paid', payment_reference = $1, paid_at = $2
		WHERE id = $3 AND payment_status = 'unpaid' AND is_active
	`

	res, err := s.db.ExecContext(ctx, query, paymentRef, paidAt, id)
	if err != nil {
		return fmt.Errorf("marking notice paid: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking notice paid: %w", err)
	}

	if affected == 0 {
		var active bool

		err := s.db.QueryRowContext(ctx, `SELECT is_active FROM demand_notices WHERE id = $1`, id).Scan(&active)
		if err != nil {
			return fmt.Errorf("checking notice: %w", err)
		}

		if !active {
			return notice.ErrSuperseded
		}

		return notice.ErrAlreadySettled
	}

	return nil
}

func (s *Store) SetDocuments(ctx context.Context, id uuid.UUID, pdfURL, qrURL string) error {
	query := `UPDATE demand_notices SET pdf_url = $1, qr_url = $2 WHERE id = $3`

	if _, err := s.db.ExecContext(ctx, query, pdfURL, qrURL, id); err != nil {
		return fmt.Errorf("storing notice documents: %w", err)
	}

	return nil
}

func (s *Store) RecordReminder(ctx context.Context, id uuid.UUID, stage notice.Stage) (bool, error) {
	query := `
		INSERT INTO notice_reminders (notice_id, stage)
		VALUES ($1, $2)
		ON CONFLICT (notice_id, stage) DO NOTHING
	`

	res, err := s.db.ExecContext(ctx, query, id, stage)
	if err != nil {
		return false, fmt.Errorf("recording reminder: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("recording reminder: %w", err)
	}

	return affected == 1, nil
}

type issueTx struct {
	tx           *sql.Tx
	assessmentID uuid.UUID
}

func (s *Store) BeginIssue(ctx context.Context, assessmentID uuid.UUID) (notice.IssueTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning issue tx: %w", err)
	}

	if err := database.AdvisoryLock(ctx, dbTx, database.LockKey("notice", assessmentID.String())); err != nil {
		dbTx.Rollback()
		return nil, err
	}

	return &issueTx{tx: dbTx, assessmentID: assessmentID}, nil
}

func (i *issueTx) Commit() error   { return i.tx.Commit() }
func (i *issueTx) Rollback() error { return i.tx.Rollback() }

func (i *issueTx) Latest(ctx context.Context) (*notice.Notice, error) {
	query := `SELECT ` + selectNoticeColumns + `
		FROM demand_notices
		WHERE assessment_id = $1
		ORDER BY (payment_status = 'paid') DESC, issue_date DESC
		LIMIT 1`

	n, err := scanNotice(i.tx.QueryRowContext(ctx, query, i.assessmentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("getting latest notice: %w", err)
	}

	return n, nil
}

func (i *issueTx) Supersede(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE demand_notices SET is_active = FALSE, superseded_at = $1 WHERE id = $2`

	if _, err := i.tx.ExecContext(ctx, query, at, id); err != nil {
		return fmt.Errorf("superseding notice: %w", err)
	}

	return nil
}

// Create runs the insert under a savepoint so a number collision leaves the
// transaction usable for a retry.
func (i *issueTx) Create(ctx context.Context, n *notice.Notice) error {
	if _, err := i.tx.ExecContext(ctx, "SAVEPOINT create_notice"); err != nil {
		return fmt.Errorf("creating savepoint: %w", err)
	}

	query := `
		INSERT INTO demand_notices (notice_number, assessment_id, revenue_type_code, payer_name, payer_phone,
			payer_email, amount_due, issue_date, due_date, payment_status, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`

	err := i.tx.QueryRowContext(ctx, query,
		n.Number,
		n.AssessmentID,
		n.RevenueTypeCode,
		n.PayerName,
		n.PayerPhone,
		n.PayerEmail,
		n.AmountDue,
		n.IssueDate,
		n.DueDate,
		n.PaymentStatus,
		n.IsActive,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		if _, rbErr := i.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT create_notice"); rbErr != nil {
			return fmt.Errorf("rolling back savepoint: %w", rbErr)
		}

		if database.IsUniqueViolation(err, "demand_notices_number_key") {
			return notice.ErrDuplicateNumber
		}

		return fmt.Errorf("creating notice: %w", err)
	}

	if _, err := i.tx.ExecContext(ctx, "RELEASE SAVEPOINT create_notice"); err != nil {
		return fmt.Errorf("releasing savepoint: %w", err)
	}

	return nil
}
