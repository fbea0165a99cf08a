package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/levy/internal/assessment"
	"github.com/MrJamesThe3rd/levy/internal/database"
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

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const selectApplicationColumns = `
	id, application_number, applicant_name, applicant_phone, applicant_email, revenue_type_code,
	zone_id, application_data, status, rejection_reason, submitted_at, reviewed_at
`

func scanApplication(s scanner) (*assessment.Application, error) {
	var (
		app    assessment.Application
		zoneID sql.NullString
		data   []byte
		status string
	)

	if err := s.Scan(
		&app.ID, &app.Number, &app.ApplicantName, &app.ApplicantPhone, &app.ApplicantEmail, &app.RevenueTypeCode,
		&zoneID, &data, &status, &app.RejectionReason, &app.SubmittedAt, &app.ReviewedAt,
	); err != nil {
		return nil, err
	}

	app.ZoneID = zoneID.String
	app.Status = assessment.ApplicationStatus(status)

	if err := json.Unmarshal(data, &app.Data); err != nil {
		return nil, fmt.Errorf("decoding application data: %w", err)
	}

	return &app, nil
}

func (s *Store) CreateApplication(ctx context.Context, app *assessment.Application) error {
	data, err := json.Marshal(app.Data)
	if err != nil {
		return fmt.Errorf("encoding application data: %w", err)
	}

	query := `
		INSERT INTO assessment_applications (application_number, applicant_name, applicant_phone, applicant_email,
			revenue_type_code, zone_id, application_data, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9)
		RETURNING id
	`

	err = s.db.QueryRowContext(ctx, query,
		app.Number,
		app.ApplicantName,
		app.ApplicantPhone,
		app.ApplicantEmail,
		app.RevenueTypeCode,
		app.ZoneID,
		string(data),
		app.Status,
		app.SubmittedAt,
	).Scan(&app.ID)
	if err != nil {
		if database.IsUniqueViolation(err, "assessment_applications_number_key") {
			return assessment.ErrDuplicateNumber
		}

		return fmt.Errorf("creating application: %w", err)
	}

	return nil
}

func (s *Store) GetApplication(ctx context.Context, id uuid.UUID) (*assessment.Application, error) {
	query := `SELECT ` + selectApplicationColumns + ` FROM assessment_applications WHERE id = $1`

	app, err := scanApplication(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, assessment.ErrApplicationNotFound
		}

		return nil, fmt.Errorf("getting application: %w", err)
	}

	return app, nil
}

func (s *Store) ListApplications(ctx context.Context, filter assessment.ApplicationFilter) ([]*assessment.Application, error) {
	query := `SELECT ` + selectApplicationColumns + ` FROM assessment_applications WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.RevenueTypeCode != "" {
		query += fmt.Sprintf(" AND revenue_type_code = $%d", argIdx)

		args = append(args, filter.RevenueTypeCode)
	}

	query += " ORDER BY submitted_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	defer rows.Close()

	var apps []*assessment.Application

	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning application: %w", err)
		}

		apps = append(apps, app)
	}

	return apps, rows.Err()
}

func (s *Store) RejectApplication(ctx context.Context, id uuid.UUID, reason string) error {
	query := `
		UPDATE assessment_applications
		SET status = 'rejected', rejection_reason = $1, reviewed_at = NOW()
		WHERE id = $2 AND status = 'submitted'
	`

	res, err := s.db.ExecContext(ctx, query, reason, id)
	if err != nil {
		return fmt.Errorf("rejecting application: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rejecting application: %w", err)
	}

	if n == 0 {
		if _, err := s.GetApplication(ctx, id); err != nil {
			return err
		}

		return assessment.ErrApplicationClosed
	}

	return nil
}

const selectAssessmentColumns = `
	id, assessment_number, application_id, assessed_amount, calculation_method, calculation_details,
	status, assessed_by, approved_by, assessment_date, valid_from, valid_until, version
`

func scanAssessment(s scanner) (*assessment.Assessment, error) {
	var (
		a              assessment.Assessment
		method, status string
		details        []byte
	)

	if err := s.Scan(
		&a.ID, &a.Number, &a.ApplicationID, &a.AssessedAmount, &method, &details,
		&status, &a.AssessedBy, &a.ApprovedBy, &a.AssessmentDate, &a.ValidFrom, &a.ValidUntil, &a.Version,
	); err != nil {
		return nil, err
	}

	a.Method = assessment.Method(method)
	a.Status = assessment.Status(status)

	if err := json.Unmarshal(details, &a.Details); err != nil {
		return nil, fmt.Errorf("decoding calculation details: %w", err)
	}

	return &a, nil
}

func (s *Store) CreateAssessment(ctx context.Context, a *assessment.Assessment) error {
	details, err := json.Marshal(a.Details)
	if err != nil {
		return fmt.Errorf("encoding calculation details: %w", err)
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO assessments (assessment_number, application_id, assessed_amount, calculation_method,
			calculation_details, status, assessed_by, assessment_date, valid_from, valid_until, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err = dbTx.QueryRowContext(ctx, query,
		a.Number,
		a.ApplicationID,
		a.AssessedAmount,
		a.Method,
		string(details),
		a.Status,
		a.AssessedBy,
		a.AssessmentDate,
		a.ValidFrom,
		a.ValidUntil,
		a.Version,
	).Scan(&a.ID)

	switch {
	case database.IsUniqueViolation(err, "assessments_number_key"):
		return assessment.ErrDuplicateNumber
	case database.IsUniqueViolation(err, "assessments_one_per_application"):
		return assessment.ErrAlreadyAssessed
	case err != nil:
		return fmt.Errorf("creating assessment: %w", err)
	}

	res, err := dbTx.ExecContext(ctx, `
		UPDATE assessment_applications
		SET status = 'assessment_completed', reviewed_at = NOW()
		WHERE id = $1 AND status = 'submitted'
	`, a.ApplicationID)
	if err != nil {
		return fmt.Errorf("completing application: %w", err)
	}

	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return assessment.ErrApplicationClosed
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func getAssessment(ctx context.Context, q queryer, where string, arg any) (*assessment.Assessment, error) {
	query := `SELECT ` + selectAssessmentColumns + ` FROM assessments WHERE ` + where

	a, err := scanAssessment(q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, assessment.ErrNotFound
		}

		return nil, fmt.Errorf("getting assessment: %w", err)
	}

	return a, nil
}

func (s *Store) GetAssessment(ctx context.Context, id uuid.UUID) (*assessment.Assessment, error) {
	return getAssessment(ctx, s.db, "id = $1", id)
}

func (s *Store) GetAssessmentByNumber(ctx context.Context, number string) (*assessment.Assessment, error) {
	return getAssessment(ctx, s.db, "assessment_number = $1", number)
}

func (s *Store) ListAdjustments(ctx context.Context, assessmentID uuid.UUID) ([]*assessment.Adjustment, error) {
	query := `
		SELECT id, assessment_id, version, previous_amount, new_amount, reason, source, adjusted_by, created_at
		FROM assessment_adjustments
		WHERE assessment_id = $1
		ORDER BY version ASC
	`

	rows, err := s.db.QueryContext(ctx, query, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("listing adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []*assessment.Adjustment

	for rows.Next() {
		var (
			adj    assessment.Adjustment
			source string
		)

		if err := rows.Scan(&adj.ID, &adj.AssessmentID, &adj.Version, &adj.PreviousAmount, &adj.NewAmount,
			&adj.Reason, &source, &adj.AdjustedBy, &adj.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning adjustment: %w", err)
		}

		adj.Source = assessment.Source(source)
		adjustments = append(adjustments, &adj)
	}

	return adjustments, rows.Err()
}

type updateTx struct {
	tx *sql.Tx
	id uuid.UUID
}

func (s *Store) BeginUpdate(ctx context.Context, id uuid.UUID) (assessment.UpdateTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning update tx: %w", err)
	}

	return &updateTx{tx: dbTx, id: id}, nil
}

func (u *updateTx) Commit() error   { return u.tx.Commit() }
func (u *updateTx) Rollback() error { return u.tx.Rollback() }

func (u *updateTx) Assessment(ctx context.Context) (*assessment.Assessment, error) {
	return getAssessment(ctx, u.tx, "id = $1 FOR UPDATE", u.id)
}

func (u *updateTx) UpdateAssessment(ctx context.Context, a *assessment.Assessment) error {
	details, err := json.Marshal(a.Details)
	if err != nil {
		return fmt.Errorf("encoding calculation details: %w", err)
	}

	query := `
		UPDATE assessments
		SET assessed_amount = $1, calculation_method = $2, calculation_details = $3, status = $4,
			approved_by = $5, version = $6, updated_at = NOW()
		WHERE id = $7
	`

	_, err = u.tx.ExecContext(ctx, query,
		a.AssessedAmount,
		a.Method,
		string(details),
		a.Status,
		a.ApprovedBy,
		a.Version,
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating assessment: %w", err)
	}

	return nil
}

func (u *updateTx) CreateAdjustment(ctx context.Context, adj *assessment.Adjustment) error {
	query := `
		INSERT INTO assessment_adjustments (assessment_id, version, previous_amount, new_amount, reason, source, adjusted_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := u.tx.QueryRowContext(ctx, query,
		adj.AssessmentID,
		adj.Version,
		adj.PreviousAmount,
		adj.NewAmount,
		adj.Reason,
		adj.Source,
		adj.AdjustedBy,
	).Scan(&adj.ID, &adj.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating adjustment: %w", err)
	}

	return nil
}
