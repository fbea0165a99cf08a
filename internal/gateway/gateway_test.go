package gateway_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/levy/internal/gateway"
)

func TestRemitaStatus(t *testing.T) {
	tests := map[string]gateway.Status{
		"00":  gateway.StatusSuccess,
		"01":  gateway.StatusSuccess,
		"02":  gateway.StatusFailed,
		"09":  gateway.StatusFailed,
		"025": gateway.StatusPending,
		"998": gateway.StatusUnknown,
		"":    gateway.StatusUnknown,
	}

	for code, want := range tests {
		t.Run(code, func(t *testing.T) {
			assert.Equal(t, want, gateway.RemitaStatus(code))
		})
	}
}

func TestPaystack_Initialize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(15000000), body["amount"])
		assert.Equal(t, "AMC-HOT-1-ABC123", body["reference"])

		fmt.Fprint(w, `{"status":true,"message":"ok","data":{"authorization_url":"https://checkout.paystack.com/x","access_code":"x"}}`)
	}))
	defer srv.Close()

	p := gateway.NewPaystack(srv.URL, "sk_test", "", srv.Client())

	res, err := p.Initialize(context.Background(), gateway.InitRequest{
		Reference:  "AMC-HOT-1-ABC123",
		Amount:     150000,
		PayerEmail: "ada@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/x", res.CheckoutURL)
}

func TestPaystack_Verify(t *testing.T) {
	type testCase struct {
		name       string
		response   string
		wantStatus gateway.Status
		wantAmount string
		wantErrIs  error
	}

	tests := []testCase{
		{
			name:       "Success",
			response:   `{"status":true,"data":{"reference":"AMC-1","status":"success","amount":15000050}}`,
			wantStatus: gateway.StatusSuccess,
			wantAmount: "150000.5",
		},
		{
			name:       "Abandoned",
			response:   `{"status":true,"data":{"reference":"AMC-1","status":"abandoned","amount":15000000}}`,
			wantStatus: gateway.StatusFailed,
			wantAmount: "150000",
		},
		{
			name:      "Rejected",
			response:  `{"status":false,"message":"Transaction reference not found"}`,
			wantErrIs: gateway.ErrRejected,
		},
		{
			name:      "Garbage",
			response:  `<html>`,
			wantErrIs: gateway.ErrBadResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/transaction/verify/AMC-1", r.URL.Path)
				fmt.Fprint(w, tt.response)
			}))
			defer srv.Close()

			v, err := gateway.NewPaystack(srv.URL, "sk_test", "", srv.Client()).Verify(context.Background(), "AMC-1")

			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, v.Status)
			assert.True(t, decimal.RequireFromString(tt.wantAmount).Equal(v.Amount), "amount %s", v.Amount)
		})
	}
}

func TestPaystack_NotConfigured(t *testing.T) {
	_, err := gateway.NewPaystack("http://unused", "", "", nil).Verify(context.Background(), "AMC-1")
	assert.ErrorIs(t, err, gateway.ErrNotConfigured)
}

func TestVerifyPaystackSignature(t *testing.T) {
	body := []byte(`{"event":"charge.success","data":{"reference":"AMC-1","amount":15000000}}`)

	mac := hmac.New(sha512.New, []byte("sk_test"))
	mac.Write(body)
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, gateway.VerifyPaystackSignature("sk_test", body, valid))
	assert.False(t, gateway.VerifyPaystackSignature("sk_other", body, valid))
	assert.False(t, gateway.VerifyPaystackSignature("sk_test", append(body, ' '), valid))
	assert.False(t, gateway.VerifyPaystackSignature("sk_test", body, "not-hex"))
	assert.False(t, gateway.VerifyPaystackSignature("sk_test", body, ""))
}

func TestRemita_Initialize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/echannelsvc/merchant/api/paymentinit", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "remitaConsumerKey=2547916,remitaConsumerToken="))

		fmt.Fprint(w, `jsonp ({"statuscode":"025","RRR":"280007021192","status":"Payment Reference generated"})`)
	}))
	defer srv.Close()

	r := gateway.NewRemita(gateway.RemitaConfig{
		BaseURL:       srv.URL,
		MerchantID:    "2547916",
		ServiceTypeID: "4430731",
		APIKey:        "1946",
	}, srv.Client())

	res, err := r.Initialize(context.Background(), gateway.InitRequest{Reference: "AMC-MKT-1-ABC123", Amount: 5000})
	require.NoError(t, err)
	assert.Equal(t, "280007021192", res.RRR)
}

func TestRemita_Verify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/orderstatus.reg"))
		assert.Contains(t, r.URL.Path, "/echannelsvc/2547916/AMC-MKT-1-ABC123/")

		fmt.Fprint(w, `{"amount":5000,"RRR":"280007021192","orderId":"AMC-MKT-1-ABC123","message":"Approved","status":"01"}`)
	}))
	defer srv.Close()

	r := gateway.NewRemita(gateway.RemitaConfig{BaseURL: srv.URL, MerchantID: "2547916", APIKey: "1946"}, srv.Client())

	v, err := r.Verify(context.Background(), "AMC-MKT-1-ABC123")
	require.NoError(t, err)
	assert.Equal(t, gateway.StatusSuccess, v.Status)
	assert.Equal(t, "280007021192", v.RRR)
	assert.True(t, decimal.NewFromInt(5000).Equal(v.Amount))
}

func TestRemitaNotification_Outcome(t *testing.T) {
	assert.Equal(t, gateway.StatusSuccess, gateway.RemitaNotification{ResponseCode: "01"}.Outcome())
	assert.Equal(t, gateway.StatusFailed, gateway.RemitaNotification{Status: "02"}.Outcome())
	assert.Equal(t, gateway.StatusUnknown, gateway.RemitaNotification{Status: "77"}.Outcome())
}
