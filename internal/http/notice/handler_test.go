package notice_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/levy/internal/http/api"
	handler "github.com/MrJamesThe3rd/levy/internal/http/notice"
	"github.com/MrJamesThe3rd/levy/internal/notice"
)

func router(svc handler.Service, actor string) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if actor != "" {
				req = req.WithContext(api.WithActor(req.Context(), actor))
			}

			next.ServeHTTP(w, req)
		})
	})
	handler.NewHandler(svc).Routes(r)

	return r
}

func TestHandler_GetReportsOverdue(t *testing.T) {
	id := uuid.New()
	svc := handler.NewMockService(gomock.NewController(t))

	svc.EXPECT().Get(gomock.Any(), id).Return(&notice.Notice{
		ID:            id,
		Number:        "DN-2025-000042",
		AmountDue:     150000,
		DueDate:       time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		PaymentStatus: notice.StatusUnpaid,
		IsActive:      true,
	}, nil)

	rec := httptest.NewRecorder()
	router(svc, "").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notices/"+id.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "unpaid", got["payment_status"])
	assert.Equal(t, "overdue", got["effective_status"])
	assert.Equal(t, "DN-2025-000042", got["notice_number"])
}

func TestHandler_Issue(t *testing.T) {
	assessmentID := uuid.New()

	tests := []struct {
		name      string
		actor     string
		setupMock func(m *handler.MockService)
		wantCode  int
	}{
		{
			name:  "Issued",
			actor: "ops@amac.gov.ng",
			setupMock: func(m *handler.MockService) {
				m.EXPECT().
					Issue(gomock.Any(), assessmentID, "ops@amac.gov.ng").
					Return(&notice.Notice{AssessmentID: assessmentID, PaymentStatus: notice.StatusUnpaid,
						DueDate: time.Now().Add(30 * 24 * time.Hour)}, nil)
			},
			wantCode: http.StatusCreated,
		},
		{
			name:  "NotApproved",
			actor: "ops@amac.gov.ng",
			setupMock: func(m *handler.MockService) {
				m.EXPECT().Issue(gomock.Any(), assessmentID, gomock.Any()).Return(nil, notice.ErrAssessmentNotApproved)
			},
			wantCode: http.StatusConflict,
		},
		{
			name:     "Anonymous",
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := handler.NewMockService(gomock.NewController(t))
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}

			rec := httptest.NewRecorder()
			router(svc, tt.actor).ServeHTTP(rec,
				httptest.NewRequest(http.MethodPost, "/assessments/"+assessmentID.String()+"/notices", nil))

			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func TestHandler_Reminders(t *testing.T) {
	svc := handler.NewMockService(gomock.NewController(t))
	svc.EXPECT().SendReminders(gomock.Any(), gomock.Any()).Return(notice.SweepResult{Sent: 3, Skipped: 1}, nil)

	rec := httptest.NewRecorder()
	router(svc, "ops@amac.gov.ng").ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/notices/reminders", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sent":3,"skipped":1,"failed":0}`, rec.Body.String())
}
