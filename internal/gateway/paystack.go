package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SignatureHeader carries the webhook HMAC.
const SignatureHeader = "x-paystack-signature"

var kobo = decimal.NewFromInt(100)

type Paystack struct {
	baseURL     string
	secret      string
	callbackURL string
	client      *http.Client
}

func NewPaystack(baseURL, secret, callbackURL string, client *http.Client) *Paystack {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &Paystack{
		baseURL:     strings.TrimRight(baseURL, "/"),
		secret:      secret,
		callbackURL: callbackURL,
		client:      client,
	}
}

func (p *Paystack) Name() string { return "paystack" }

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type paystackInitData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type paystackTransaction struct {
	Reference       string     `json:"reference"`
	Status          string     `json:"status"`
	Amount          int64      `json:"amount"`
	GatewayResponse string     `json:"gateway_response"`
	PaidAt          *time.Time `json:"paid_at"`
}

func (p *Paystack) Initialize(ctx context.Context, req InitRequest) (*InitResult, error) {
	if p.secret == "" {
		return nil, ErrNotConfigured
	}

	body := map[string]any{
		"email":     req.PayerEmail,
		"amount":    req.Amount * 100,
		"reference": req.Reference,
		"metadata": map[string]string{
			"payer_name":  req.PayerName,
			"payer_phone": req.PayerPhone,
			"description": req.Description,
		},
	}

	if p.callbackURL != "" {
		body["callback_url"] = p.callbackURL
	}

	if req.Channel != "" {
		body["channels"] = []string{req.Channel}
	}

	var data paystackInitData
	if err := p.do(ctx, http.MethodPost, "/transaction/initialize", body, &data); err != nil {
		return nil, err
	}

	return &InitResult{CheckoutURL: data.AuthorizationURL, AccessCode: data.AccessCode}, nil
}

func (p *Paystack) Verify(ctx context.Context, reference string) (*Verification, error) {
	if p.secret == "" {
		return nil, ErrNotConfigured
	}

	var tx paystackTransaction
	if err := p.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &tx); err != nil {
		return nil, err
	}

	return &Verification{
		Reference: tx.Reference,
		Status:    paystackStatus(tx.Status),
		RawStatus: tx.Status,
		Amount:    decimal.NewFromInt(tx.Amount).Div(kobo),
		Message:   tx.GatewayResponse,
		PaidAt:    tx.PaidAt,
	}, nil
}

func paystackStatus(s string) Status {
	switch s {
	case "success":
		return StatusSuccess
	case "failed", "abandoned", "reversed":
		return StatusFailed
	case "ongoing", "pending", "processing", "queued":
		return StatusPending
	default:
		return StatusUnknown
	}
}

func (p *Paystack) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader

	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}

		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling paystack: %w", err)
	}
	defer resp.Body.Close()

	var env paystackEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	if resp.StatusCode >= 300 || !env.Status {
		return fmt.Errorf("%w: %s (http %d)", ErrRejected, env.Message, resp.StatusCode)
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	return nil
}

// VerifyPaystackSignature checks the hex HMAC-SHA512 of body under secret.
func VerifyPaystackSignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}

	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)

	return hmac.Equal(mac.Sum(nil), expected)
}

// PaystackEvent is a webhook delivery.
type PaystackEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Status    string `json:"status"`
	} `json:"data"`
}

// Amount converts the kobo amount to Naira.
func (e PaystackEvent) Amount() decimal.Decimal {
	return decimal.NewFromInt(e.Data.Amount).Div(kobo)
}
