package payment_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/levy/internal/calc"
	"github.com/MrJamesThe3rd/levy/internal/http/api"
	handler "github.com/MrJamesThe3rd/levy/internal/http/payment"
	"github.com/MrJamesThe3rd/levy/internal/payment"
	"github.com/MrJamesThe3rd/levy/internal/render"
)

const reference = "AMC-SIG-1736933400000-ABC123"

type mocks struct {
	svc     *handler.MockService
	uploads *handler.MockUploads
}

// serve routes through the handler with actor as the authenticated operator.
func serve(t *testing.T, actor string, setup func(m mocks), method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{svc: handler.NewMockService(ctrl), uploads: handler.NewMockUploads(ctrl)}

	if setup != nil {
		setup(m)
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if actor != "" {
				req = req.WithContext(api.WithActor(req.Context(), actor))
			}

			next.ServeHTTP(w, req)
		})
	})
	r.Route("/payments", handler.NewHandler(m.svc, m.uploads).Routes)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Initiate(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		setup    func(m mocks)
		wantCode int
	}{
		{
			name: "CreatesBankTransfer",
			body: `{"payer_name":"Ada Obi","payer_phone":"08030000000","revenue_type_code":"SIG",
				"application_data":{"area_sqm":12},"payment_method":"bank_transfer"}`,
			setup: func(m mocks) {
				m.svc.EXPECT().
					Initiate(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p payment.InitiateParams) (*payment.Payment, error) {
						assert.Equal(t, "Ada Obi", p.PayerName)
						assert.Equal(t, "bank_transfer", p.Method)
						assert.Equal(t, calc.Fields{"area_sqm": "12"}, p.Fields)

						return &payment.Payment{Reference: reference, Status: payment.StatusPending, Amount: 150000}, nil
					})
			},
			wantCode: http.StatusCreated,
		},
		{
			name:     "MissingContact",
			body:     `{"payer_name":"Ada Obi","service_name":"Signage","payment_method":"card"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "UnknownMethod",
			body:     `{"payer_name":"Ada Obi","payer_phone":"0803","service_name":"Signage","payment_method":"cash"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "MissingCalculatorFields",
			body: `{"payer_name":"Ada Obi","payer_phone":"0803","revenue_type_code":"SIG","payment_method":"card"}`,
			setup: func(m mocks) {
				m.svc.EXPECT().
					Initiate(gomock.Any(), gomock.Any()).
					Return(nil, &calc.ValidationError{Missing: []string{"area_sqm"}})
			},
			wantCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, "", tt.setup, http.MethodPost, "/payments/", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func TestHandler_OperatorRoutesRequireActor(t *testing.T) {
	rec := serve(t, "", nil, http.MethodGet, "/payments/queue", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(t, "", nil, http.MethodPost, "/payments/"+reference+"/approve", `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_Queue(t *testing.T) {
	rec := serve(t, "ops@amac.gov.ng", func(m mocks) {
		m.svc.EXPECT().VerificationQueue(gomock.Any()).Return(nil, nil)
	}, http.MethodGet, "/payments/queue", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandler_List(t *testing.T) {
	rec := serve(t, "ops@amac.gov.ng", func(m mocks) {
		m.svc.EXPECT().
			List(gomock.Any(), payment.Filter{
				Statuses: []payment.Status{payment.StatusPending, payment.StatusConfirmed},
				Method:   payment.MethodCard,
				Limit:    20,
			}).
			Return([]*payment.Payment{{Reference: reference}}, nil)
	}, http.MethodGet, "/payments/?status=pending,confirmed&method=card&limit=20", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var got []payment.Payment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, reference, got[0].Reference)

	rec = serve(t, "ops@amac.gov.ng", nil, http.MethodGet, "/payments/?limit=many", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Approve(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		setup    func(m mocks)
		wantCode int
	}{
		{
			name: "Approved",
			body: `{"bank_amount":150000,"bank_reference":"FT123"}`,
			setup: func(m mocks) {
				bank := int64(150000)
				m.svc.EXPECT().
					Approve(gomock.Any(), payment.Decision{
						Reference:     reference,
						Actor:         "ops@amac.gov.ng",
						BankAmount:    &bank,
						BankReference: "FT123",
					}).
					Return(&payment.Payment{Reference: reference, Status: payment.StatusConfirmed}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "MismatchWithoutNotes",
			body: `{"bank_amount":149000}`,
			setup: func(m mocks) {
				m.svc.EXPECT().Approve(gomock.Any(), gomock.Any()).Return(nil, payment.ErrMismatchJustification)
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "AlreadyDecided",
			body: `{}`,
			setup: func(m mocks) {
				m.svc.EXPECT().
					Approve(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("%w: confirmed payment is not awaiting review", payment.ErrInvalidTransition))
			},
			wantCode: http.StatusConflict,
		},
		{
			name:     "NegativeBankAmount",
			body:     `{"bank_amount":-5}`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, "ops@amac.gov.ng", tt.setup, http.MethodPost, "/payments/"+reference+"/approve", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func TestHandler_Reject(t *testing.T) {
	rec := serve(t, "ops@amac.gov.ng", func(m mocks) {
		m.svc.EXPECT().
			Reject(gomock.Any(), payment.Decision{Reference: reference, Actor: "ops@amac.gov.ng", Notes: "no credit found"}).
			Return(&payment.Payment{Reference: reference, Status: payment.StatusRejected}, nil)
	}, http.MethodPost, "/payments/"+reference+"/reject", `{"notes":"no credit found"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_ProofUpload(t *testing.T) {
	expires := time.Date(2026, 1, 22, 9, 30, 0, 0, time.UTC)

	rec := serve(t, "", func(m mocks) {
		m.svc.EXPECT().Get(gomock.Any(), reference).Return(&payment.Payment{Reference: reference}, nil)
		m.uploads.EXPECT().
			ProofUpload(gomock.Any(), reference, "teller.jpg", gomock.Any()).
			Return(&render.ProofUpload{
				UploadURL: "https://minio/levy/proofs/put",
				ProofURL:  "https://minio/levy/proofs/get",
				ExpiresAt: expires,
			}, nil)
	}, http.MethodPost, "/payments/"+reference+"/proof-upload", `{"filename":"teller.jpg"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://minio/levy/proofs/put")

	rec = serve(t, "", func(m mocks) {
		m.svc.EXPECT().Get(gomock.Any(), "missing").Return(nil, payment.ErrNotFound)
	}, http.MethodPost, "/payments/missing/proof-upload", `{"filename":"teller.jpg"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_SubmitProof(t *testing.T) {
	rec := serve(t, "", func(m mocks) {
		m.svc.EXPECT().
			SubmitProof(gomock.Any(), reference, "https://minio/levy/proofs/get", "payer").
			Return(&payment.Payment{Reference: reference, Status: payment.StatusAwaitingVerification}, nil)
	}, http.MethodPost, "/payments/"+reference+"/proof", `{"proof_url":"https://minio/levy/proofs/get"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, "", nil, http.MethodPost, "/payments/"+reference+"/proof", `{"proof_url":"not a url"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Verify(t *testing.T) {
	rec := serve(t, "", func(m mocks) {
		m.svc.EXPECT().
			VerifyWithGateway(gomock.Any(), reference).
			Return(nil, fmt.Errorf("%w: %w", payment.ErrGatewayTimeout, context.DeadlineExceeded))
	}, http.MethodPost, "/payments/"+reference+"/verify", "")

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}
