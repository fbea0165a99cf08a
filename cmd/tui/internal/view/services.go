package view

import (
	"context"
	"io"
	"time"

	"github.com/MrJamesThe3rd/levy/internal/notice"
	"github.com/MrJamesThe3rd/levy/internal/payment"
	"github.com/MrJamesThe3rd/levy/internal/statement"
)

type Payments interface {
	VerificationQueue(ctx context.Context) ([]*payment.Payment, error)
	Reconciliation(ctx context.Context, reference string) ([]*payment.Reconciliation, error)
	Approve(ctx context.Context, d payment.Decision) (*payment.Payment, error)
	Reject(ctx context.Context, d payment.Decision) (*payment.Payment, error)
}

type Notices interface {
	ListOverdue(ctx context.Context, now time.Time) ([]*notice.Notice, error)
	SendReminders(ctx context.Context, now time.Time) (notice.SweepResult, error)
}

type Statements interface {
	Reconcile(ctx context.Context, r io.Reader) (*statement.Report, error)
}

// Narrations learns which payer a statement narration belongs to.
type Narrations interface {
	Suggest(ctx context.Context, narration string) (string, error)
	Learn(ctx context.Context, rawPattern, payer string) error
}
