// Package matching ties confirmed payments to the demand notices they settle
// and remembers which statement narrations belong to which payer.
package matching

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/levy/internal/notice"
	"github.com/MrJamesThe3rd/levy/internal/payment"
)

var (
	ErrNoNotice       = errors.New("no open demand notice matches the payment")
	ErrInvalidMapping = errors.New("narration pattern and payer are required")
)

// Candidate describes the payment a notice lookup should match.
type Candidate struct {
	PayerPhone      string
	PayerEmail      string
	RevenueTypeCode string
	Amount          int64
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	// FindOpenNotice returns the oldest active unpaid notice for the payer
	// and revenue type whose amount due equals the payment amount.
	FindOpenNotice(ctx context.Context, c Candidate) (uuid.UUID, error)
	LinkPayment(ctx context.Context, paymentID, noticeID uuid.UUID) error

	FindPayer(ctx context.Context, narration string) (string, error)
	CreateMapping(ctx context.Context, rawPattern, payer string) error
}

type Notices interface {
	MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) (*notice.Notice, error)
}

type Service struct {
	repo    Repository
	notices Notices
}

func NewService(repo Repository, notices Notices) *Service {
	return &Service{repo: repo, notices: notices}
}

// Settle marks the notice a confirmed payment pays. A payment raised against
// a notice settles that notice. Otherwise, or when that notice has since been
// superseded, the open notice of the same payer, revenue type and amount is
// used. Having no notice to settle is not an error.
func (s *Service) Settle(ctx context.Context, p *payment.Payment) error {
	if p.Status != payment.StatusConfirmed {
		return fmt.Errorf("settling %s: payment is %s", p.Reference, p.Status)
	}

	if p.NoticeID != nil {
		_, err := s.notices.MarkPaid(ctx, *p.NoticeID, p.Reference)
		if err == nil {
			return nil
		}

		if !errors.Is(err, notice.ErrSuperseded) {
			return fmt.Errorf("marking notice %s paid: %w", *p.NoticeID, err)
		}

		slog.Warn("payment raised against a superseded notice", "reference", p.Reference, "notice_id", *p.NoticeID)
	}

	id, err := s.openNotice(ctx, p)
	if errors.Is(err, ErrNoNotice) {
		slog.Debug("no demand notice to settle", "reference", p.Reference)
		return nil
	}

	if err != nil {
		return err
	}

	if _, err := s.notices.MarkPaid(ctx, id, p.Reference); err != nil {
		return fmt.Errorf("marking notice %s paid: %w", id, err)
	}

	if err := s.repo.LinkPayment(ctx, p.ID, id); err != nil {
		return fmt.Errorf("linking payment to notice: %w", err)
	}

	p.NoticeID = &id

	return nil
}

func (s *Service) openNotice(ctx context.Context, p *payment.Payment) (uuid.UUID, error) {
	if p.RevenueTypeCode == "" || (p.PayerPhone == "" && p.PayerEmail == "") {
		return uuid.Nil, ErrNoNotice
	}

	return s.repo.FindOpenNotice(ctx, Candidate{
		PayerPhone:      p.PayerPhone,
		PayerEmail:      p.PayerEmail,
		RevenueTypeCode: p.RevenueTypeCode,
		Amount:          p.Amount,
	})
}

// Suggest returns the payer contact learnt for a statement narration, or ""
// if none is known.
func (s *Service) Suggest(ctx context.Context, narration string) (string, error) {
	return s.repo.FindPayer(ctx, narration)
}

// Learn remembers that narrations containing rawPattern come from payer.
func (s *Service) Learn(ctx context.Context, rawPattern, payer string) error {
	rawPattern = strings.TrimSpace(rawPattern)
	payer = strings.ToLower(strings.TrimSpace(payer))

	if rawPattern == "" || payer == "" {
		return ErrInvalidMapping
	}

	return s.repo.CreateMapping(ctx, rawPattern, payer)
}
