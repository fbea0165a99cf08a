package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/levy/internal/database"
	"github.com/MrJamesThe3rd/levy/internal/payment"
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

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const selectPaymentColumns = `
	id, reference, rrr, payer_name, payer_phone, payer_email, service_name, revenue_type_code, zone_id,
	amount, payment_method, status, checkout_url, proof_of_payment_url, bank_amount, bank_reference,
	notice_id, receipt_number, confirmed_at, verified_by, verified_at, verification_notes,
	failure_reason, version, created_at, updated_at
`

func scanPayment(s scanner) (*payment.Payment, error) {
	var (
		p                    payment.Payment
		rrr, zoneID, receipt sql.NullString
		bankAmount           sql.NullInt64
		method, status       string
	)

	if err := s.Scan(
		&p.ID, &p.Reference, &rrr, &p.PayerName, &p.PayerPhone, &p.PayerEmail, &p.ServiceName, &p.RevenueTypeCode, &zoneID,
		&p.Amount, &method, &status, &p.CheckoutURL, &p.ProofURL, &bankAmount, &p.BankReference,
		&p.NoticeID, &receipt, &p.ConfirmedAt, &p.VerifiedBy, &p.VerifiedAt, &p.VerificationNotes,
		&p.FailureReason, &p.Version, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.RRR = rrr.String
	p.ZoneID = zoneID.String
	p.ReceiptNumber = receipt.String
	p.Method = payment.Method(method)
	p.Status = payment.Status(status)

	if bankAmount.Valid {
		p.BankAmount = &bankAmount.Int64
	}

	return &p, nil
}

func getPayment(ctx context.Context, q queryer, where string, arg any) (*payment.Payment, error) {
	query := `SELECT ` + selectPaymentColumns + ` FROM payments WHERE ` + where

	p, err := scanPayment(q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, payment.ErrNotFound
		}

		return nil, fmt.Errorf("getting payment: %w", err)
	}

	return p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Store) CreatePayment(ctx context.Context, p *payment.Payment) error {
	query := `
		INSERT INTO payments (reference, rrr, payer_name, payer_phone, payer_email, service_name, revenue_type_code,
			zone_id, amount, payment_method, status, notice_id, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		p.Reference,
		nullString(p.RRR),
		p.PayerName,
		p.PayerPhone,
		p.PayerEmail,
		p.ServiceName,
		p.RevenueTypeCode,
		nullString(p.ZoneID),
		p.Amount,
		p.Method,
		p.Status,
		p.NoticeID,
		p.Version,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "payments_reference_key") {
			return payment.ErrDuplicateReference
		}

		return fmt.Errorf("creating payment: %w", err)
	}

	return nil
}

func (s *Store) GetPayment(ctx context.Context, reference string) (*payment.Payment, error) {
	return getPayment(ctx, s.db, "reference = $1", reference)
}

func (s *Store) GetPaymentByRRR(ctx context.Context, rrr string) (*payment.Payment, error) {
	return getPayment(ctx, s.db, "rrr = $1", rrr)
}

func (s *Store) ListPayments(ctx context.Context, filter payment.Filter) ([]*payment.Payment, error) {
	query := `SELECT ` + selectPaymentColumns + ` FROM payments WHERE TRUE`

	var args []any

	argIdx := 1

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, st := range filter.Statuses {
			statuses[i] = string(st)
		}

		query += fmt.Sprintf(" AND status = ANY($%d)", argIdx)

		args = append(args, statuses)
		argIdx++
	}

	if filter.Method != "" {
		query += fmt.Sprintf(" AND payment_method = $%d", argIdx)

		args = append(args, filter.Method)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)

		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var payments []*payment.Payment

	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}

		payments = append(payments, p)
	}

	return payments, rows.Err()
}

func (s *Store) ListReconciliation(ctx context.Context, reference string) ([]*payment.Reconciliation, error) {
	query := `
		SELECT r.id, r.payment_id, r.remita_amount, r.bank_amount, r.bank_reference, r.matched, r.resolved,
			r.resolved_at, r.notes, r.created_at
		FROM reconciliation_log r
		JOIN payments p ON p.id = r.payment_id
		WHERE p.reference = $1
		ORDER BY r.created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, reference)
	if err != nil {
		return nil, fmt.Errorf("listing reconciliation: %w", err)
	}
	defer rows.Close()

	var entries []*payment.Reconciliation

	for rows.Next() {
		var (
			r          payment.Reconciliation
			bankAmount sql.NullInt64
		)

		if err := rows.Scan(&r.ID, &r.PaymentID, &r.ExpectedAmount, &bankAmount, &r.BankReference, &r.Matched,
			&r.Resolved, &r.ResolvedAt, &r.Notes, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning reconciliation: %w", err)
		}

		if bankAmount.Valid {
			r.BankAmount = &bankAmount.Int64
		}

		entries = append(entries, &r)
	}

	return entries, rows.Err()
}

type transitionTx struct {
	tx        *sql.Tx
	reference string
}

// BeginTransition takes a transaction-scoped advisory lock on the reference
// before the row lock, so callers queue on the reference even while the row
// is being created.
func (s *Store) BeginTransition(ctx context.Context, reference string) (payment.TransitionTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transition tx: %w", err)
	}

	if err := database.AdvisoryLock(ctx, dbTx, database.LockKey("payment", reference)); err != nil {
		dbTx.Rollback()
		return nil, err
	}

	return &transitionTx{tx: dbTx, reference: reference}, nil
}

func (t *transitionTx) Commit() error   { return t.tx.Commit() }
func (t *transitionTx) Rollback() error { return t.tx.Rollback() }

func (t *transitionTx) Payment(ctx context.Context) (*payment.Payment, error) {
	return getPayment(ctx, t.tx, "reference = $1 FOR UPDATE", t.reference)
}

func (t *transitionTx) UpdatePayment(ctx context.Context, p *payment.Payment) error {
	if _, err := t.tx.ExecContext(ctx, "SAVEPOINT update_payment"); err != nil {
		return fmt.Errorf("creating savepoint: %w", err)
	}

	query := `
		UPDATE payments
		SET rrr = $1, status = $2, checkout_url = $3, proof_of_payment_url = $4, bank_amount = $5,
			bank_reference = $6, notice_id = $7, receipt_number = $8, confirmed_at = $9, verified_by = $10,
			verified_at = $11, verification_notes = $12, failure_reason = $13,
			version = version + 1, updated_at = NOW()
		WHERE id = $14 AND version = $15
		RETURNING version, updated_at
	`

	err := t.tx.QueryRowContext(ctx, query,
		nullString(p.RRR),
		p.Status,
		p.CheckoutURL,
		p.ProofURL,
		p.BankAmount,
		p.BankReference,
		p.NoticeID,
		nullString(p.ReceiptNumber),
		p.ConfirmedAt,
		p.VerifiedBy,
		p.VerifiedAt,
		p.VerificationNotes,
		p.FailureReason,
		p.ID,
		p.Version,
	).Scan(&p.Version, &p.UpdatedAt)
	if err != nil {
		if _, rbErr := t.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT update_payment"); rbErr != nil {
			return fmt.Errorf("rolling back savepoint: %w", rbErr)
		}

		switch {
		case errors.Is(err, sql.ErrNoRows):
			return payment.ErrConcurrentUpdate
		case database.IsUniqueViolation(err, "payments_receipt_key"):
			return payment.ErrDuplicateReceipt
		}

		return fmt.Errorf("updating payment: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, "RELEASE SAVEPOINT update_payment"); err != nil {
		return fmt.Errorf("releasing savepoint: %w", err)
	}

	return nil
}

func (t *transitionTx) CreateReconciliation(ctx context.Context, r *payment.Reconciliation) error {
	query := `
		INSERT INTO reconciliation_log (payment_id, remita_amount, bank_amount, bank_reference, matched,
			resolved, resolved_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := t.tx.QueryRowContext(ctx, query,
		r.PaymentID,
		r.ExpectedAmount,
		r.BankAmount,
		r.BankReference,
		r.Matched,
		r.Resolved,
		r.ResolvedAt,
		r.Notes,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating reconciliation entry: %w", err)
	}

	return nil
}
