package matching_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	handler "github.com/MrJamesThe3rd/levy/internal/http/matching"
	"github.com/MrJamesThe3rd/levy/internal/matching"
)

func TestHandler(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		target    string
		body      string
		setupMock func(m *handler.MockService)
		wantCode  int
		wantBody  string
	}{
		{
			name:   "Suggest",
			method: http.MethodGet,
			target: "/suggest?narration=TRF+FROM+ADA+OBI",
			setupMock: func(m *handler.MockService) {
				m.EXPECT().Suggest(gomock.Any(), "TRF FROM ADA OBI").Return("ada@example.com", nil)
			},
			wantCode: http.StatusOK,
			wantBody: `"payer":"ada@example.com"`,
		},
		{
			name:     "SuggestWithoutNarration",
			method:   http.MethodGet,
			target:   "/suggest",
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "Learn",
			method: http.MethodPost,
			target: "/",
			body:   `{"raw_pattern":"ADA OBI","payer":"ada@example.com"}`,
			setupMock: func(m *handler.MockService) {
				m.EXPECT().Learn(gomock.Any(), "ADA OBI", "ada@example.com").Return(nil)
			},
			wantCode: http.StatusCreated,
		},
		{
			name:   "LearnBlankPattern",
			method: http.MethodPost,
			target: "/",
			body:   `{"raw_pattern":"  ","payer":"ada@example.com"}`,
			setupMock: func(m *handler.MockService) {
				m.EXPECT().Learn(gomock.Any(), "  ", "ada@example.com").Return(matching.ErrInvalidMapping)
			},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := handler.NewMockService(gomock.NewController(t))
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			r := chi.NewRouter()
			handler.NewHandler(m).Routes(r)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
