package payment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/levy/internal/audit"
	"github.com/MrJamesThe3rd/levy/internal/calc"
	"github.com/MrJamesThe3rd/levy/internal/feed"
	"github.com/MrJamesThe3rd/levy/internal/gateway"
	"github.com/MrJamesThe3rd/levy/internal/notify"
	"github.com/MrJamesThe3rd/levy/internal/payment"
)

var now = time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

type mocks struct {
	repo      *payment.MockRepository
	tx        *payment.MockTransitionTx
	gateway   *payment.MockGateway
	calc      *payment.MockCalculator
	auditor   *payment.MockAuditor
	notifier  *payment.MockNotifier
	publisher *payment.MockPublisher
	settler   *payment.MockSettler
}

func newService(t *testing.T) (*payment.Service, mocks) {
	ctrl := gomock.NewController(t)

	m := mocks{
		repo:      payment.NewMockRepository(ctrl),
		tx:        payment.NewMockTransitionTx(ctrl),
		gateway:   payment.NewMockGateway(ctrl),
		calc:      payment.NewMockCalculator(ctrl),
		auditor:   payment.NewMockAuditor(ctrl),
		notifier:  payment.NewMockNotifier(ctrl),
		publisher: payment.NewMockPublisher(ctrl),
		settler:   payment.NewMockSettler(ctrl),
	}

	svc := payment.NewService(m.repo, m.gateway, m.calc, m.auditor, m.notifier, m.publisher,
		payment.WithClock(func() time.Time { return now }),
		payment.WithSettler(m.settler),
		payment.WithGatewayTimeout(50*time.Millisecond),
		payment.WithRetryInterval(time.Millisecond),
	)

	return svc, m
}

// expectLocked sets up a transition over p that ends in rollback.
func expectLocked(m mocks, p *payment.Payment) {
	m.repo.EXPECT().BeginTransition(gomock.Any(), p.Reference).Return(m.tx, nil)
	m.tx.EXPECT().Payment(gomock.Any()).Return(p, nil)
	m.tx.EXPECT().Rollback().Return(nil)
}

// expectCommitted sets up a transition over p that updates and commits.
func expectCommitted(m mocks, p *payment.Payment) {
	expectLocked(m, p)
	m.tx.EXPECT().UpdatePayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *payment.Payment) error {
			p.Version++
			return nil
		})
	m.tx.EXPECT().Commit().Return(nil)
}

// expectSideEffects expects the post-commit work of one transition.
func expectSideEffects(m mocks) {
	m.auditor.EXPECT().Record(gomock.Any(), gomock.Any())
	m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
}

func gatewayPayment() *payment.Payment {
	return &payment.Payment{
		ID:              uuid.New(),
		Reference:       "AMC-HOT-1768469400000-ABC123",
		PayerName:       "Ada Obi",
		PayerEmail:      "ada@example.com",
		ServiceName:     "Hotel License",
		RevenueTypeCode: "HOTEL_LICENSE",
		Amount:          150000,
		Method:          payment.MethodCard,
		Status:          payment.StatusProcessing,
		Version:         2,
	}
}

func bankTransfer(status payment.Status) *payment.Payment {
	p := gatewayPayment()
	p.Reference = "AMC-MAR-1768469400000-XYZ789"
	p.Method = payment.MethodBankTransfer
	p.Status = status

	return p
}

func TestService_Initiate(t *testing.T) {
	type testCase struct {
		name       string
		params     payment.InitiateParams
		setupMock  func(m mocks)
		wantStatus payment.Status
		wantAmount int64
		wantErrIs  error
	}

	tests := []testCase{
		{
			name: "BankTransferStaysPending",
			params: payment.InitiateParams{
				PayerName: " Ada Obi ", PayerEmail: "ADA@example.com", ServiceName: "Market Levy",
				Amount: 5000, Method: "Bank_Transfer",
			},
			setupMock: func(m mocks) {
				m.repo.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *payment.Payment) error {
						assert.Equal(t, "ada@example.com", p.PayerEmail)
						assert.Regexp(t, `^AMC-MAR-\d+-[A-Z0-9]{6}$`, p.Reference)
						return nil
					})
				m.auditor.EXPECT().Record(gomock.Any(), gomock.Any())
				m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: payment.StatusPending,
			wantAmount: 5000,
		},
		{
			name: "AmountFromCalculator",
			params: payment.InitiateParams{
				PayerName: "Ada", PayerPhone: "+234803", RevenueTypeCode: "HOTEL_LICENSE", ZoneID: "zone-a",
				Fields: calc.Fields{"rooms": "40"}, Method: "bank_transfer",
			},
			setupMock: func(m mocks) {
				m.calc.EXPECT().Calculate(gomock.Any(), calc.Input{
					RevenueTypeCode: "HOTEL_LICENSE", ZoneID: "zone-a", Fields: calc.Fields{"rooms": "40"}, AsOf: now,
				}).Return(&calc.Result{Amount: 150000}, nil)
				m.repo.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(nil)
				m.auditor.EXPECT().Record(gomock.Any(), gomock.Any())
				m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: payment.StatusPending,
			wantAmount: 150000,
		},
		{
			name: "RetriesReferenceCollision",
			params: payment.InitiateParams{
				PayerName: "Ada", PayerPhone: "+234803", ServiceName: "Market Levy", Amount: 5000, Method: "bank_transfer",
			},
			setupMock: func(m mocks) {
				gomock.InOrder(
					m.repo.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(payment.ErrDuplicateReference),
					m.repo.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(nil),
				)
				m.auditor.EXPECT().Record(gomock.Any(), gomock.Any())
				m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: payment.StatusPending,
			wantAmount: 5000,
		},
		{
			name:   "InvalidMethod",
			params: payment.InitiateParams{PayerName: "Ada", PayerPhone: "1", ServiceName: "x", Amount: 1, Method: "cash"},
			setupMock: func(m mocks) {
				m.auditor.EXPECT().Record(gomock.Any(), gomock.Any())
			},
			wantErrIs: payment.ErrInvalidMethod,
		},
		{
			name:   "NoContact",
			params: payment.InitiateParams{PayerName: "Ada", ServiceName: "x", Amount: 1, Method: "card"},
			setupMock: func(m mocks) {
				m.auditor.EXPECT().Record(gomock.Any(), gomock.Any())
			},
			wantErrIs: payment.ErrInvalidPayment,
		},
		{
			name:   "NonPositiveAmount",
			params: payment.InitiateParams{PayerName: "Ada", PayerPhone: "1", ServiceName: "x", Amount: -5, Method: "card"},
			setupMock: func(m mocks) {
				m.auditor.EXPECT().Record(gomock.Any(), gomock.Any())
			},
			wantErrIs: payment.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			got, err := svc.Initiate(context.Background(), tt.params)

			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantAmount, got.Amount)
		})
	}
}

func TestService_InitiateCardHandsOffToGateway(t *testing.T) {
	svc, m := newService(t)

	var created *payment.Payment

	m.repo.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *payment.Payment) error {
			p.ID = uuid.New()
			created = p
			return nil
		})
	m.auditor.EXPECT().Record(gomock.Any(), gomock.Any())
	m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	m.gateway.EXPECT().Initialize(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req gateway.InitRequest) (*gateway.InitResult, error) {
			assert.Equal(t, created.Reference, req.Reference)
			assert.Equal(t, int64(150000), req.Amount)
			return &gateway.InitResult{CheckoutURL: "https://checkout/abc"}, nil
		})

	m.repo.EXPECT().BeginTransition(gomock.Any(), gomock.Any()).Return(m.tx, nil)
	m.tx.EXPECT().Payment(gomock.Any()).DoAndReturn(func(context.Context) (*payment.Payment, error) {
		cp := *created
		return &cp, nil
	})
	m.tx.EXPECT().UpdatePayment(gomock.Any(), gomock.Any()).Return(nil)
	m.tx.EXPECT().Commit().Return(nil)
	m.tx.EXPECT().Rollback().Return(nil)
	expectSideEffects(m)

	got, err := svc.Initiate(context.Background(), payment.InitiateParams{
		PayerName: "Ada", PayerEmail: "ada@example.com", ServiceName: "Hotel License", Amount: 150000, Method: "card",
	})
	require.NoError(t, err)
	assert.Equal(t, payment.StatusProcessing, got.Status)
	assert.Equal(t, "https://checkout/abc", got.CheckoutURL)
}

func TestService_InitiateKeepsPaymentSettledDuringHandOff(t *testing.T) {
	svc, m := newService(t)

	var created *payment.Payment

	m.repo.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *payment.Payment) error {
			p.ID = uuid.New()
			created = p
			return nil
		})
	m.auditor.EXPECT().Record(gomock.Any(), gomock.Any())
	m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	m.gateway.EXPECT().Initialize(gomock.Any(), gomock.Any()).
		Return(&gateway.InitResult{CheckoutURL: "https://checkout/abc"}, nil)

	m.repo.EXPECT().BeginTransition(gomock.Any(), gomock.Any()).Return(m.tx, nil)
	m.tx.EXPECT().Payment(gomock.Any()).DoAndReturn(func(context.Context) (*payment.Payment, error) {
		cp := *created
		cp.Status = payment.StatusConfirmed
		cp.ReceiptNumber = "AMAC/2026/HOTEL_LICENSE/000001"
		return &cp, nil
	})
	m.tx.EXPECT().Rollback().Return(nil)

	got, err := svc.Initiate(context.Background(), payment.InitiateParams{
		PayerName: "Ada", PayerEmail: "ada@example.com", ServiceName: "Hotel License", Amount: 150000, Method: "card",
	})
	require.NoError(t, err)
	assert.Equal(t, payment.StatusConfirmed, got.Status)
	assert.Equal(t, "AMAC/2026/HOTEL_LICENSE/000001", got.ReceiptNumber)
}

func TestService_GatewayConfirm(t *testing.T) {
	t.Run("Confirms", func(t *testing.T) {
		svc, m := newService(t)
		p := gatewayPayment()

		expectCommitted(m, p)
		expectSideEffects(m)
		m.settler.EXPECT().Settle(gomock.Any(), gomock.Any()).Return(nil)
		m.notifier.EXPECT().Send(gomock.Any(), notify.ChannelAll, gomock.Any()).Return(nil).Times(1)

		got, err := svc.GatewayConfirm(context.Background(), p.Reference, decimal.NewFromInt(150000))
		require.NoError(t, err)

		assert.Equal(t, payment.StatusConfirmed, got.Status)
		assert.Equal(t, &now, got.ConfirmedAt)
		assert.Regexp(t, `^AMAC/2026/HOTEL_LICENSE/\d{6}$`, got.ReceiptNumber)
		assert.Equal(t, 3, got.Version)
	})

	t.Run("AlreadyConfirmedIsNoOp", func(t *testing.T) {
		svc, m := newService(t)
		p := gatewayPayment()
		p.Status = payment.StatusConfirmed
		p.ReceiptNumber = "AMAC/2026/HOTEL_LICENSE/000001"

		expectLocked(m, p)

		got, err := svc.GatewayConfirm(context.Background(), p.Reference, decimal.NewFromInt(150000))
		require.NoError(t, err)
		assert.Equal(t, "AMAC/2026/HOTEL_LICENSE/000001", got.ReceiptNumber)
	})

	t.Run("AmountMismatchKeepsStatus", func(t *testing.T) {
		svc, m := newService(t)
		p := gatewayPayment()

		expectLocked(m, p)
		m.auditor.EXPECT().Record(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, e audit.Entry) {
				assert.Equal(t, "payment.gateway_confirm", e.Action)
				assert.Equal(t, audit.OutcomeFailure, e.Outcome)
				assert.Contains(t, e.Error, "gateway reported 149000")
			})

		got, err := svc.GatewayConfirm(context.Background(), p.Reference, decimal.NewFromInt(149000))
		assert.ErrorIs(t, err, payment.ErrAmountMismatch)
		assert.Nil(t, got)
		assert.Equal(t, payment.StatusProcessing, p.Status)
	})

	t.Run("KoboDifferenceIsMismatch", func(t *testing.T) {
		svc, m := newService(t)
		p := gatewayPayment()

		expectLocked(m, p)
		m.auditor.EXPECT().Record(gomock.Any(), gomock.Any())

		_, err := svc.GatewayConfirm(context.Background(), p.Reference, decimal.RequireFromString("150000.01"))
		assert.ErrorIs(t, err, payment.ErrAmountMismatch)
	})

	t.Run("FailedPaymentCannotConfirm", func(t *testing.T) {
		svc, m := newService(t)
		p := gatewayPayment()
		p.Status = payment.StatusFailed

		expectLocked(m, p)
		m.auditor.EXPECT().Record(gomock.Any(), gomock.Any())

		_, err := svc.GatewayConfirm(context.Background(), p.Reference, decimal.NewFromInt(150000))
		assert.ErrorIs(t, err, payment.ErrInvalidTransition)
	})

	t.Run("BankTransferCannotConfirm", func(t *testing.T) {
		svc, m := newService(t)
		p := bankTransfer(payment.StatusPendingVerification)

		expectLocked(m, p)
		m.auditor.EXPECT().Record(gomock.Any(), gomock.Any())

		got, err := svc.GatewayConfirm(context.Background(), p.Reference, decimal.NewFromInt(150000))
		assert.ErrorIs(t, err, payment.ErrInvalidTransition)
		assert.Nil(t, got)
		assert.Equal(t, payment.StatusPendingVerification, p.Status)
	})

	t.Run("RetriesReceiptCollision", func(t *testing.T) {
		svc, m := newService(t)
		p := gatewayPayment()

		expectLocked(m, p)
		gomock.InOrder(
			m.tx.EXPECT().UpdatePayment(gomock.Any(), gomock.Any()).Return(payment.ErrDuplicateReceipt),
			m.tx.EXPECT().UpdatePayment(gomock.Any(), gomock.Any()).Return(nil),
		)
		m.tx.EXPECT().Commit().Return(nil)
		expectSideEffects(m)
		m.settler.EXPECT().Settle(gomock.Any(), gomock.Any()).Return(nil)
		m.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		got, err := svc.GatewayConfirm(context.Background(), p.Reference, decimal.NewFromInt(150000))
		require.NoError(t, err)
		assert.Equal(t, payment.StatusConfirmed, got.Status)
	})
}

func TestService_Flag(t *testing.T) {
	t.Run("BankTransferOpensReconciliation", func(t *testing.T) {
		svc, m := newService(t)
		p := bankTransfer(payment.StatusPendingVerification)

		expectLocked(m, p)
		m.tx.EXPECT().CreateReconciliation(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, r *payment.Reconciliation) error {
				assert.False(t, r.Matched)
				assert.False(t, r.Resolved)
				assert.Equal(t, "unreadable amount", r.Notes)
				return nil
			})
		m.tx.EXPECT().Commit().Return(nil)
		m.auditor.EXPECT().Record(gomock.Any(), gomock.Any())

		got, err := svc.Flag(context.Background(), p.Reference, "unreadable amount")
		require.NoError(t, err)
		assert.Equal(t, payment.StatusPendingVerification, got.Status)
	})

	t.Run("GatewayPaymentIsFlaggedOnAuditTrail", func(t *testing.T) {
		svc, m := newService(t)
		p := gatewayPayment()

		expectLocked(m, p)
		m.auditor.EXPECT().Record(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, e audit.Entry) {
				assert.Equal(t, "payment.flag", e.Action)
				assert.Equal(t, p.Reference, e.RecordID)
				assert.Contains(t, e.Error, "unrecognised status")
			})

		got, err := svc.Flag(context.Background(), p.Reference, "unrecognised status")
		require.NoError(t, err)
		assert.Equal(t, payment.StatusProcessing, got.Status)
	})
}

func TestService_Approve(t *testing.T) {
	bank := func(v int64) *int64 { return &v }

	type testCase struct {
		name        string
		payment     func() *payment.Payment
		decision    payment.Decision
		setupMock   func(m mocks, p *payment.Payment)
		wantMatched bool
		wantErrIs   error
	}

	tests := []testCase{
		{
			name:     "MatchingBankAmount",
			payment:  func() *payment.Payment { return bankTransfer(payment.StatusAwaitingVerification) },
			decision: payment.Decision{Actor: "finance@amac", BankAmount: bank(150000)},
			setupMock: func(m mocks, p *payment.Payment) {
				expectCommitted(m, p)
			},
			wantMatched: true,
		},
		{
			name: "UsesRecordedBankAmount",
			payment: func() *payment.Payment {
				p := bankTransfer(payment.StatusPendingVerification)
				p.BankAmount = bank(150000)
				return p
			},
			decision: payment.Decision{Actor: "finance@amac"},
			setupMock: func(m mocks, p *payment.Payment) {
				expectCommitted(m, p)
			},
			wantMatched: true,
		},
		{
			name:     "MismatchWithJustification",
			payment:  func() *payment.Payment { return bankTransfer(payment.StatusAwaitingVerification) },
			decision: payment.Decision{Actor: "finance@amac", BankAmount: bank(149950), Notes: "bank charge of NGN 50 deducted"},
			setupMock: func(m mocks, p *payment.Payment) {
				expectCommitted(m, p)
			},
			wantMatched: false,
		},
		{
			name:     "MismatchWithoutJustification",
			payment:  func() *payment.Payment { return bankTransfer(payment.StatusAwaitingVerification) },
			decision: payment.Decision{Actor: "finance@amac", BankAmount: bank(149950)},
			setupMock: func(m mocks, p *payment.Payment) {
				expectLocked(m, p)
			},
			wantErrIs: payment.ErrMismatchJustification,
		},
		{
			name:     "NoBankAmount",
			payment:  func() *payment.Payment { return bankTransfer(payment.StatusAwaitingVerification) },
			decision: payment.Decision{Actor: "finance@amac"},
			setupMock: func(m mocks, p *payment.Payment) {
				expectLocked(m, p)
			},
			wantErrIs: payment.ErrBankAmountRequired,
		},
		{
			name:     "NotAwaitingReview",
			payment:  func() *payment.Payment { return bankTransfer(payment.StatusPending) },
			decision: payment.Decision{Actor: "finance@amac", BankAmount: bank(150000)},
			setupMock: func(m mocks, p *payment.Payment) {
				expectLocked(m, p)
			},
			wantErrIs: payment.ErrInvalidTransition,
		},
		{
			name:     "AlreadyConfirmed",
			payment:  func() *payment.Payment { return bankTransfer(payment.StatusConfirmed) },
			decision: payment.Decision{Actor: "finance@amac", BankAmount: bank(150000)},
			setupMock: func(m mocks, p *payment.Payment) {
				expectLocked(m, p)
			},
			wantErrIs: payment.ErrInvalidTransition,
		},
		{
			name:     "MissingActor",
			payment:  func() *payment.Payment { return bankTransfer(payment.StatusAwaitingVerification) },
			decision: payment.Decision{BankAmount: bank(150000)},
			setupMock: func(m mocks, p *payment.Payment) {
				expectLocked(m, p)
			},
			wantErrIs: payment.ErrMissingActor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			p := tt.payment()
			tt.decision.Reference = p.Reference

			tt.setupMock(m, p)
			m.auditor.EXPECT().Record(gomock.Any(), gomock.Any())

			if tt.wantErrIs != nil {
				_, err := svc.Approve(context.Background(), tt.decision)
				assert.ErrorIs(t, err, tt.wantErrIs)

				return
			}

			m.tx.EXPECT().CreateReconciliation(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, r *payment.Reconciliation) error {
					assert.Equal(t, tt.wantMatched, r.Matched)
					assert.True(t, r.Resolved)
					assert.Equal(t, tt.decision.Notes, r.Notes)
					return nil
				})
			m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			m.settler.EXPECT().Settle(gomock.Any(), gomock.Any()).Return(nil)
			m.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

			got, err := svc.Approve(context.Background(), tt.decision)
			require.NoError(t, err)

			assert.Equal(t, payment.StatusConfirmed, got.Status)
			assert.Equal(t, "finance@amac", got.VerifiedBy)
			assert.Equal(t, &now, got.VerifiedAt)
			assert.NotEmpty(t, got.ReceiptNumber)
		})
	}
}

func TestService_Reject(t *testing.T) {
	t.Run("RequiresNotes", func(t *testing.T) {
		svc, m := newService(t)
		p := bankTransfer(payment.StatusAwaitingVerification)

		expectLocked(m, p)
		m.auditor.EXPECT().Record(gomock.Any(), gomock.Any())

		_, err := svc.Reject(context.Background(), payment.Decision{Reference: p.Reference, Actor: "finance@amac", Notes: "  "})
		assert.ErrorIs(t, err, payment.ErrMissingNotes)
	})

	t.Run("Rejects", func(t *testing.T) {
		svc, m := newService(t)
		p := bankTransfer(payment.StatusPendingVerification)

		expectCommitted(m, p)
		m.tx.EXPECT().CreateReconciliation(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, r *payment.Reconciliation) error {
				assert.False(t, r.Matched)
				assert.True(t, r.Resolved)
				return nil
			})
		expectSideEffects(m)
		m.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		got, err := svc.Reject(context.Background(), payment.Decision{
			Reference: p.Reference, Actor: "finance@amac", Notes: "no matching credit on statement",
		})
		require.NoError(t, err)
		assert.Equal(t, payment.StatusRejected, got.Status)
		assert.Equal(t, "no matching credit on statement", got.VerificationNotes)
	})
}

func TestService_SubmitProof(t *testing.T) {
	t.Run("BankTransfer", func(t *testing.T) {
		svc, m := newService(t)
		p := bankTransfer(payment.StatusPending)

		expectCommitted(m, p)
		expectSideEffects(m)

		got, err := svc.SubmitProof(context.Background(), p.Reference, "https://files/proof.jpg", "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, payment.StatusAwaitingVerification, got.Status)
		assert.Equal(t, "https://files/proof.jpg", got.ProofURL)
	})

	t.Run("CardRejected", func(t *testing.T) {
		svc, m := newService(t)
		p := gatewayPayment()

		expectLocked(m, p)
		m.auditor.EXPECT().Record(gomock.Any(), gomock.Any())

		_, err := svc.SubmitProof(context.Background(), p.Reference, "https://files/proof.jpg", "ada@example.com")
		assert.ErrorIs(t, err, payment.ErrNotBankTransfer)
	})
}

func TestService_RecordBankAmount(t *testing.T) {
	svc, m := newService(t)
	p := bankTransfer(payment.StatusPending)

	expectCommitted(m, p)
	m.tx.EXPECT().CreateReconciliation(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *payment.Reconciliation) error {
			assert.True(t, r.Matched)
			assert.False(t, r.Resolved)
			assert.Equal(t, "FT26015ABCD", r.BankReference)
			return nil
		})
	expectSideEffects(m)

	got, err := svc.RecordBankAmount(context.Background(), p.Reference, 150000, "FT26015ABCD")
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPendingVerification, got.Status)
	assert.Equal(t, int64(150000), *got.BankAmount)
}

func TestService_VerifyWithGateway(t *testing.T) {
	t.Run("TimesOutAfterOneRetry", func(t *testing.T) {
		svc, m := newService(t)
		p := gatewayPayment()

		m.repo.EXPECT().GetPayment(gomock.Any(), p.Reference).Return(p, nil)
		m.gateway.EXPECT().Verify(gomock.Any(), p.Reference).Return(nil, context.DeadlineExceeded).Times(2)
		m.auditor.EXPECT().Record(gomock.Any(), gomock.Any())

		_, err := svc.VerifyWithGateway(context.Background(), p.Reference)
		assert.ErrorIs(t, err, payment.ErrGatewayTimeout)
	})

	t.Run("RetrySucceeds", func(t *testing.T) {
		svc, m := newService(t)
		p := gatewayPayment()

		m.repo.EXPECT().GetPayment(gomock.Any(), p.Reference).Return(p, nil)
		gomock.InOrder(
			m.gateway.EXPECT().Verify(gomock.Any(), p.Reference).Return(nil, context.DeadlineExceeded),
			m.gateway.EXPECT().Verify(gomock.Any(), p.Reference).Return(&gateway.Verification{
				Status: gateway.StatusSuccess, Amount: decimal.NewFromInt(150000),
			}, nil),
		)

		locked := *p
		expectCommitted(m, &locked)
		expectSideEffects(m)
		m.settler.EXPECT().Settle(gomock.Any(), gomock.Any()).Return(nil)
		m.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		got, err := svc.VerifyWithGateway(context.Background(), p.Reference)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusConfirmed, got.Status)
	})

	t.Run("GatewayReportsFailure", func(t *testing.T) {
		svc, m := newService(t)
		p := gatewayPayment()

		m.repo.EXPECT().GetPayment(gomock.Any(), p.Reference).Return(p, nil)
		m.gateway.EXPECT().Verify(gomock.Any(), p.Reference).
			Return(&gateway.Verification{Status: gateway.StatusFailed, Message: "Declined"}, nil)

		locked := *p
		expectCommitted(m, &locked)
		expectSideEffects(m)
		m.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		got, err := svc.VerifyWithGateway(context.Background(), p.Reference)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusFailed, got.Status)
		assert.Equal(t, "Declined", got.FailureReason)
	})

	t.Run("TerminalIsNotQueried", func(t *testing.T) {
		svc, m := newService(t)
		p := gatewayPayment()
		p.Status = payment.StatusConfirmed

		m.repo.EXPECT().GetPayment(gomock.Any(), p.Reference).Return(p, nil)

		got, err := svc.VerifyWithGateway(context.Background(), p.Reference)
		require.NoError(t, err)
		assert.Same(t, p, got)
	})
}

func TestService_NotificationFailureKeepsConfirmation(t *testing.T) {
	svc, m := newService(t)
	p := gatewayPayment()

	expectCommitted(m, p)
	m.auditor.EXPECT().Record(gomock.Any(), gomock.Any())
	m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
	m.settler.EXPECT().Settle(gomock.Any(), gomock.Any()).Return(errors.New("no open notice"))
	m.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Return(notify.ErrNoRecipient)

	got, err := svc.GatewayConfirm(context.Background(), p.Reference, decimal.NewFromInt(150000))
	require.NoError(t, err)
	assert.Equal(t, payment.StatusConfirmed, got.Status)
}

func TestService_PublishesTransitionEvent(t *testing.T) {
	svc, m := newService(t)
	p := bankTransfer(payment.StatusPending)

	expectCommitted(m, p)
	m.auditor.EXPECT().Record(gomock.Any(), gomock.Any())
	m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev feed.Event) error {
			assert.Equal(t, feed.TypeTransition, ev.Type)
			assert.Equal(t, "pending", ev.PreviousStatus)
			assert.Equal(t, "awaiting_verification", ev.Status)
			assert.Equal(t, "ada@example.com", ev.Actor)
			return nil
		})

	_, err := svc.SubmitProof(context.Background(), p.Reference, "https://files/proof.jpg", "ada@example.com")
	require.NoError(t, err)
}
