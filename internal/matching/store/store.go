package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/levy/internal/matching"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindOpenNotice(ctx context.Context, c matching.Candidate) (uuid.UUID, error) {
	query := `
		SELECT id
		FROM demand_notices
		WHERE is_active AND payment_status = 'unpaid'
			AND revenue_type_code = $1
			AND amount_due = $2
			AND ((payer_phone <> '' AND payer_phone = $3) OR (payer_email <> '' AND LOWER(payer_email) = LOWER($4)))
		ORDER BY due_date ASC, issue_date ASC
		LIMIT 1
	`

	var id uuid.UUID

	err := s.db.QueryRowContext(ctx, query, c.RevenueTypeCode, c.Amount, c.PayerPhone, c.PayerEmail).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, matching.ErrNoNotice
		}

		return uuid.Nil, fmt.Errorf("finding open notice: %w", err)
	}

	return id, nil
}

func (s *Store) LinkPayment(ctx context.Context, paymentID, noticeID uuid.UUID) error {
	query := `UPDATE payments SET notice_id = $1 WHERE id = $2`

	if _, err := s.db.ExecContext(ctx, query, noticeID, paymentID); err != nil {
		return fmt.Errorf("linking payment: %w", err)
	}

	return nil
}

func (s *Store) FindPayer(ctx context.Context, narration string) (string, error) {
	query := `
		SELECT payer
		FROM narration_mappings
		WHERE $1 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var payer string

	err := s.db.QueryRowContext(ctx, query, narration).Scan(&payer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding payer: %w", err)
	}

	return payer, nil
}

func (s *Store) CreateMapping(ctx context.Context, rawPattern, payer string) error {
	query := `
		INSERT INTO narration_mappings (raw_pattern, payer, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (raw_pattern) DO UPDATE SET payer = EXCLUDED.payer, created_at = EXCLUDED.created_at
	`

	if _, err := s.db.ExecContext(ctx, query, rawPattern, payer); err != nil {
		return fmt.Errorf("creating mapping: %w", err)
	}

	return nil
}
