package statement

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/MrJamesThe3rd/levy/internal/payment"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=statement
type Payments interface {
	Get(ctx context.Context, reference string) (*payment.Payment, error)
	GetByRRR(ctx context.Context, rrr string) (*payment.Payment, error)
	List(ctx context.Context, filter payment.Filter) ([]*payment.Payment, error)
	RecordBankAmount(ctx context.Context, reference string, amount int64, bankRef string) (*payment.Payment, error)
}

// Payers resolves narrations that carry no reference to a learnt payer.
type Payers interface {
	Suggest(ctx context.Context, narration string) (string, error)
}

type Service struct {
	parser   *Parser
	payments Payments
	payers   Payers
}

func NewService(payments Payments, payers Payers) *Service {
	return &Service{parser: NewParser(), payments: payments, payers: payers}
}

type Match struct {
	Line      Line           `json:"line"`
	Reference string         `json:"payment_reference"`
	Status    payment.Status `json:"status"`
	Matched   bool           `json:"amount_matched"`
	By        string         `json:"matched_by"`
}

type Skipped struct {
	Line   Line   `json:"line"`
	Reason string `json:"reason"`
}

// Report summarises one statement import.
type Report struct {
	Bank      string    `json:"bank"`
	Lines     int       `json:"lines"`
	Matches   []Match   `json:"matches"`
	Unmatched []Line    `json:"unmatched"`
	Skipped   []Skipped `json:"skipped"`
}

var errNoCandidate = errors.New("no payment found")

// Reconcile parses a statement and records each credit's amount on the
// bank-transfer payment it pays. Lines are matched by payment reference,
// then RRR, then by a learnt payer with a single open transfer of the same
// amount. Recording never approves; an operator still decides.
func (s *Service) Reconcile(ctx context.Context, r io.Reader) (*Report, error) {
	bank, lines, err := s.parser.Parse(r)
	if err != nil {
		return nil, err
	}

	report := &Report{Bank: bank, Lines: len(lines)}

	var open []*payment.Payment

	for _, line := range lines {
		p, by, err := s.find(ctx, line, &open)

		switch {
		case errors.Is(err, errNoCandidate):
			report.Unmatched = append(report.Unmatched, line)
			continue
		case err != nil:
			return nil, fmt.Errorf("row %d: %w", line.Row, err)
		}

		updated, err := s.payments.RecordBankAmount(ctx, p.Reference, line.Amount, line.BankReference)
		if err != nil {
			if errors.Is(err, payment.ErrNotBankTransfer) || errors.Is(err, payment.ErrInvalidTransition) {
				report.Skipped = append(report.Skipped, Skipped{Line: line, Reason: err.Error()})
				continue
			}

			return nil, fmt.Errorf("row %d: recording bank amount for %s: %w", line.Row, p.Reference, err)
		}

		report.Matches = append(report.Matches, Match{
			Line:      line,
			Reference: updated.Reference,
			Status:    updated.Status,
			Matched:   line.Amount == updated.Amount,
			By:        by,
		})
	}

	slog.Info("statement reconciled",
		"bank", bank, "lines", report.Lines, "matched", len(report.Matches),
		"unmatched", len(report.Unmatched), "skipped", len(report.Skipped))

	return report, nil
}

func (s *Service) find(ctx context.Context, line Line, open *[]*payment.Payment) (*payment.Payment, string, error) {
	refs, rrrs := References(line.Narration)

	for _, ref := range refs {
		p, err := s.payments.Get(ctx, ref)
		if err == nil {
			return p, "reference", nil
		}

		if !errors.Is(err, payment.ErrNotFound) {
			return nil, "", err
		}
	}

	for _, rrr := range rrrs {
		p, err := s.payments.GetByRRR(ctx, rrr)
		if err == nil {
			return p, "rrr", nil
		}

		if !errors.Is(err, payment.ErrNotFound) {
			return nil, "", err
		}
	}

	if s.payers == nil {
		return nil, "", errNoCandidate
	}

	payer, err := s.payers.Suggest(ctx, line.Narration)
	if err != nil {
		return nil, "", err
	}

	if payer == "" {
		return nil, "", errNoCandidate
	}

	if *open == nil {
		if *open, err = s.openTransfers(ctx); err != nil {
			return nil, "", err
		}
	}

	var found *payment.Payment

	for _, p := range *open {
		if p.Amount != line.Amount || !samePayer(p, payer) {
			continue
		}

		if found != nil {
			slog.Warn("statement line matches several payments", "row", line.Row, "payer", payer)
			return nil, "", errNoCandidate
		}

		found = p
	}

	if found == nil {
		return nil, "", errNoCandidate
	}

	return found, "payer", nil
}

func (s *Service) openTransfers(ctx context.Context) ([]*payment.Payment, error) {
	ps, err := s.payments.List(ctx, payment.Filter{
		Statuses: []payment.Status{
			payment.StatusPending, payment.StatusPendingVerification, payment.StatusAwaitingVerification,
		},
		Method: payment.MethodBankTransfer,
	})
	if err != nil {
		return nil, fmt.Errorf("listing open transfers: %w", err)
	}

	if ps == nil {
		ps = []*payment.Payment{}
	}

	return ps, nil
}

func samePayer(p *payment.Payment, payer string) bool {
	return strings.EqualFold(p.PayerEmail, payer) || (p.PayerPhone != "" && p.PayerPhone == payer)
}
