package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/levy/internal/calc"
	"github.com/MrJamesThe3rd/levy/internal/http/api"
	"github.com/MrJamesThe3rd/levy/internal/notice"
	"github.com/MrJamesThe3rd/levy/internal/payment"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{api.BadRequest("bad id"), http.StatusBadRequest},
		{&calc.ValidationError{Missing: []string{"rooms"}}, http.StatusUnprocessableEntity},
		{fmt.Errorf("getting: %w", payment.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: expected 5000", payment.ErrAmountMismatch), http.StatusConflict},
		{notice.ErrAlreadySettled, http.StatusConflict},
		{fmt.Errorf("%w: %w", payment.ErrGatewayTimeout, errors.New("deadline")), http.StatusGatewayTimeout},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, api.Status(tt.err))
		})
	}
}

func TestError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	api.Error(rec, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}

func TestError_ListsMissingFields(t *testing.T) {
	rec := httptest.NewRecorder()
	api.Error(rec, fmt.Errorf("calculating: %w", &calc.ValidationError{Missing: []string{"rooms", "stars"}}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"missing_fields":["rooms","stars"]`)
}

func TestDecode(t *testing.T) {
	type body struct {
		Name   string `json:"name" validate:"required"`
		Amount int64  `json:"amount" validate:"gte=0"`
	}

	tests := []struct {
		name    string
		payload string
		wantErr string
	}{
		{name: "Valid", payload: `{"name":"Ada","amount":5}`},
		{name: "Malformed", payload: `{"name":`, wantErr: "decoding body"},
		{name: "MissingName", payload: `{"amount":5}`, wantErr: "name (required)"},
		{name: "NegativeAmount", payload: `{"name":"Ada","amount":-1}`, wantErr: "amount (gte)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.payload))

			var b body

			err := api.Decode(r, &b)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, api.ErrBadRequest)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func token(t *testing.T, secret string, claims api.Claims) string {
	t.Helper()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return signed
}

func TestAuthenticator(t *testing.T) {
	const secret = "s3cret"

	auth := api.NewAuthenticator(secret)
	expires := jwt.NewNumericDate(time.Now().Add(time.Hour))

	handler := auth.Identify(api.RequireOperator(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(api.Actor(r.Context())))
	})))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantActor  string
	}{
		{
			name:       "ValidToken",
			header:     "Bearer " + token(t, secret, api.Claims{Email: "Finance@AMAC.gov.ng", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: expires}}),
			wantStatus: http.StatusOK,
			wantActor:  "finance@amac.gov.ng",
		},
		{
			name:       "SubjectFallback",
			header:     "Bearer " + token(t, secret, api.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "op-17", ExpiresAt: expires}}),
			wantStatus: http.StatusOK,
			wantActor:  "op-17",
		},
		{
			name:       "WrongSecret",
			header:     "Bearer " + token(t, "other", api.Claims{Email: "x@y", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: expires}}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Expired",
			header:     "Bearer " + token(t, secret, api.Claims{Email: "x@y", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "NoExpiry",
			header:     "Bearer " + token(t, secret, api.Claims{Email: "x@y"}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Anonymous",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, r)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantActor != "" {
				assert.Equal(t, tt.wantActor, rec.Body.String())
			}
		})
	}
}
