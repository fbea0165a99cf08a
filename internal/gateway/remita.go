package gateway

import (
	"bytes"
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type RemitaConfig struct {
	BaseURL       string
	MerchantID    string
	ServiceTypeID string
	APIKey        string
}

type Remita struct {
	cfg    RemitaConfig
	client *http.Client
}

func NewRemita(cfg RemitaConfig, client *http.Client) *Remita {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Remita{cfg: cfg, client: client}
}

func (r *Remita) Name() string { return "remita" }

func (r *Remita) configured() bool {
	return r.cfg.MerchantID != "" && r.cfg.APIKey != ""
}

func hash(parts ...string) string {
	sum := sha512.Sum512([]byte(strings.Join(parts, "")))
	return hex.EncodeToString(sum[:])
}

type remitaInitResponse struct {
	StatusCode    string `json:"statuscode"`
	RRR           string `json:"RRR"`
	Status        string `json:"status"`
	StatusMessage string `json:"statusMessage"`
}

// Initialize generates an RRR for the order.
func (r *Remita) Initialize(ctx context.Context, req InitRequest) (*InitResult, error) {
	if !r.configured() {
		return nil, ErrNotConfigured
	}

	amount := strconv.FormatInt(req.Amount, 10)

	payload, err := json.Marshal(map[string]string{
		"serviceTypeId": r.cfg.ServiceTypeID,
		"amount":        amount,
		"orderId":       req.Reference,
		"payerName":     req.PayerName,
		"payerEmail":    req.PayerEmail,
		"payerPhone":    req.PayerPhone,
		"description":   req.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.cfg.BaseURL+"/echannelsvc/merchant/api/paymentinit", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	token := hash(r.cfg.MerchantID, r.cfg.ServiceTypeID, req.Reference, amount, r.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("remitaConsumerKey=%s,remitaConsumerToken=%s", r.cfg.MerchantID, token))

	var res remitaInitResponse
	if err := r.do(httpReq, &res); err != nil {
		return nil, err
	}

	if res.StatusCode != "025" && res.StatusCode != "00" {
		return nil, fmt.Errorf("%w: %s %s", ErrRejected, res.StatusCode, res.StatusMessage)
	}

	return &InitResult{RRR: res.RRR}, nil
}

type remitaStatusResponse struct {
	Amount      json.Number `json:"amount"`
	RRR         string      `json:"RRR"`
	OrderID     string      `json:"orderId"`
	Message     string      `json:"message"`
	Status      string      `json:"status"`
	PaymentDate string      `json:"paymentDate"`
}

// Verify queries payment status by order reference.
func (r *Remita) Verify(ctx context.Context, reference string) (*Verification, error) {
	if !r.configured() {
		return nil, ErrNotConfigured
	}

	path := fmt.Sprintf("/echannelsvc/%s/%s/%s/orderstatus.reg",
		url.PathEscape(r.cfg.MerchantID), url.PathEscape(reference), hash(reference, r.cfg.APIKey, r.cfg.MerchantID))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	var res remitaStatusResponse
	if err := r.do(httpReq, &res); err != nil {
		return nil, err
	}

	amount := decimal.Zero
	if res.Amount != "" {
		amount, err = decimal.NewFromString(res.Amount.String())
		if err != nil {
			return nil, fmt.Errorf("%w: amount %q", ErrBadResponse, res.Amount)
		}
	}

	return &Verification{
		Reference: res.OrderID,
		RRR:       res.RRR,
		Status:    RemitaStatus(res.Status),
		RawStatus: res.Status,
		Amount:    amount,
		Message:   res.Message,
	}, nil
}

func (r *Remita) do(req *http.Request, out any) error {
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling remita: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading remita response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: http %d", ErrRejected, resp.StatusCode)
	}

	if err := json.Unmarshal(unwrapJSONP(raw), out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	return nil
}

// unwrapJSONP strips a jsonp(...) wrapper that Remita puts around some responses.
func unwrapJSONP(raw []byte) []byte {
	start := bytes.IndexByte(raw, '{')
	end := bytes.LastIndexByte(raw, '}')

	if start < 0 || end < start {
		return raw
	}

	return raw[start : end+1]
}

// RemitaNotification is a webhook delivery.
type RemitaNotification struct {
	RRR            string      `json:"RRR"`
	TransactionRef string      `json:"transactionRef"`
	OrderRef       string      `json:"orderRef"`
	Amount         json.Number `json:"amount"`
	Status         string      `json:"status"`
	ResponseCode   string      `json:"responseCode"`
}

// Outcome resolves the notification's status, preferring status over responseCode.
func (n RemitaNotification) Outcome() Status {
	if s := RemitaStatus(n.Status); s != StatusUnknown {
		return s
	}

	return RemitaStatus(n.ResponseCode)
}

func (n RemitaNotification) ParsedAmount() (decimal.Decimal, error) {
	return decimal.NewFromString(n.Amount.String())
}
