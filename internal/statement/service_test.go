package statement_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/levy/internal/payment"
	"github.com/MrJamesThe3rd/levy/internal/statement"
)

const header = "Date,Narration,Amount,Reference\n"

func transfer(ref, email string, amount int64) *payment.Payment {
	return &payment.Payment{
		Reference:  ref,
		PayerEmail: email,
		Amount:     amount,
		Method:     payment.MethodBankTransfer,
		Status:     payment.StatusPending,
	}
}

func recorded(p *payment.Payment, amount int64) *payment.Payment {
	cp := *p
	cp.Status = payment.StatusPendingVerification
	cp.BankAmount = &amount

	return &cp
}

func TestService_Reconcile(t *testing.T) {
	const ref = "AMC-MAR-1768469400000-XYZ789"

	type testCase struct {
		name      string
		csv       string
		setupMock func(payments *statement.MockPayments, payers *statement.MockPayers)
		verify    func(t *testing.T, r *statement.Report)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "ByReference",
			csv:  header + "2026-01-15,TRF " + ref + ",5000,FT1\n",
			setupMock: func(payments *statement.MockPayments, _ *statement.MockPayers) {
				p := transfer(ref, "ada@example.com", 5000)
				payments.EXPECT().Get(gomock.Any(), ref).Return(p, nil)
				payments.EXPECT().RecordBankAmount(gomock.Any(), ref, int64(5000), "FT1").Return(recorded(p, 5000), nil)
			},
			verify: func(t *testing.T, r *statement.Report) {
				require.Len(t, r.Matches, 1)
				assert.Equal(t, "reference", r.Matches[0].By)
				assert.True(t, r.Matches[0].Matched)
				assert.Equal(t, payment.StatusPendingVerification, r.Matches[0].Status)
			},
		},
		{
			name: "ByRRRWithShortfall",
			csv:  header + "2026-01-15,REMITA 1234-5678-9012,4950,FT2\n",
			setupMock: func(payments *statement.MockPayments, payers *statement.MockPayers) {
				p := transfer(ref, "ada@example.com", 5000)
				payments.EXPECT().GetByRRR(gomock.Any(), "123456789012").Return(p, nil)
				payments.EXPECT().RecordBankAmount(gomock.Any(), ref, int64(4950), "FT2").Return(recorded(p, 4950), nil)
			},
			verify: func(t *testing.T, r *statement.Report) {
				require.Len(t, r.Matches, 1)
				assert.Equal(t, "rrr", r.Matches[0].By)
				assert.False(t, r.Matches[0].Matched)
			},
		},
		{
			name: "ByLearntPayer",
			csv:  header + "2026-01-15,TRF FRM ADA OBI,5000,FT3\n2026-01-16,TRF FRM ADA OBI,7000,FT4\n",
			setupMock: func(payments *statement.MockPayments, payers *statement.MockPayers) {
				p := transfer(ref, "ada@example.com", 5000)
				payers.EXPECT().Suggest(gomock.Any(), "TRF FRM ADA OBI").Return("ada@example.com", nil).Times(2)
				payments.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*payment.Payment{
					p, transfer("AMC-MAR-1768469400001-OTHER1", "bola@example.com", 5000),
				}, nil).Times(1)
				payments.EXPECT().RecordBankAmount(gomock.Any(), ref, int64(5000), "FT3").Return(recorded(p, 5000), nil)
			},
			verify: func(t *testing.T, r *statement.Report) {
				require.Len(t, r.Matches, 1)
				assert.Equal(t, "payer", r.Matches[0].By)
				require.Len(t, r.Unmatched, 1)
				assert.Equal(t, "FT4", r.Unmatched[0].BankReference)
			},
		},
		{
			name: "AmbiguousPayer",
			csv:  header + "2026-01-15,TRF FRM ADA OBI,5000,FT5\n",
			setupMock: func(payments *statement.MockPayments, payers *statement.MockPayers) {
				payers.EXPECT().Suggest(gomock.Any(), gomock.Any()).Return("ada@example.com", nil)
				payments.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*payment.Payment{
					transfer("AMC-MAR-1768469400000-AAAAAA", "ada@example.com", 5000),
					transfer("AMC-MAR-1768469400000-BBBBBB", "ADA@example.com", 5000),
				}, nil)
			},
			verify: func(t *testing.T, r *statement.Report) {
				assert.Empty(t, r.Matches)
				assert.Len(t, r.Unmatched, 1)
			},
		},
		{
			name: "CardPaymentSkipped",
			csv:  header + "2026-01-15,TRF " + ref + ",5000,FT6\n",
			setupMock: func(payments *statement.MockPayments, _ *statement.MockPayers) {
				p := transfer(ref, "ada@example.com", 5000)
				p.Method = payment.MethodCard
				payments.EXPECT().Get(gomock.Any(), ref).Return(p, nil)
				payments.EXPECT().RecordBankAmount(gomock.Any(), ref, int64(5000), "FT6").Return(nil, payment.ErrNotBankTransfer)
			},
			verify: func(t *testing.T, r *statement.Report) {
				assert.Empty(t, r.Matches)
				require.Len(t, r.Skipped, 1)
			},
		},
		{
			name: "UnknownReferenceIsUnmatched",
			csv:  header + "2026-01-15,TRF " + ref + ",5000,FT7\n",
			setupMock: func(payments *statement.MockPayments, payers *statement.MockPayers) {
				payments.EXPECT().Get(gomock.Any(), ref).Return(nil, payment.ErrNotFound)
				payers.EXPECT().Suggest(gomock.Any(), gomock.Any()).Return("", nil)
			},
			verify: func(t *testing.T, r *statement.Report) {
				assert.Len(t, r.Unmatched, 1)
			},
		},
		{
			name: "StoreFailure",
			csv:  header + "2026-01-15,TRF " + ref + ",5000,FT8\n",
			setupMock: func(payments *statement.MockPayments, _ *statement.MockPayers) {
				payments.EXPECT().Get(gomock.Any(), ref).Return(nil, errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			payments := statement.NewMockPayments(ctrl)
			payers := statement.NewMockPayers(ctrl)

			tt.setupMock(payments, payers)

			report, err := statement.NewService(payments, payers).Reconcile(context.Background(), strings.NewReader(tt.csv))

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "generic", report.Bank)
			tt.verify(t, report)
		})
	}
}
