package payment

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/levy/internal/calc"
	"github.com/MrJamesThe3rd/levy/internal/http/api"
	"github.com/MrJamesThe3rd/levy/internal/payment"
	"github.com/MrJamesThe3rd/levy/internal/render"
)

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=payment
type Service interface {
	Initiate(ctx context.Context, params payment.InitiateParams) (*payment.Payment, error)
	Get(ctx context.Context, reference string) (*payment.Payment, error)
	List(ctx context.Context, filter payment.Filter) ([]*payment.Payment, error)
	VerificationQueue(ctx context.Context) ([]*payment.Payment, error)
	Reconciliation(ctx context.Context, reference string) ([]*payment.Reconciliation, error)
	SubmitProof(ctx context.Context, reference, proofURL, actor string) (*payment.Payment, error)
	RecordBankAmount(ctx context.Context, reference string, amount int64, bankRef string) (*payment.Payment, error)
	Approve(ctx context.Context, d payment.Decision) (*payment.Payment, error)
	Reject(ctx context.Context, d payment.Decision) (*payment.Payment, error)
	VerifyWithGateway(ctx context.Context, reference string) (*payment.Payment, error)
}

type Uploads interface {
	ProofUpload(ctx context.Context, reference, filename string, now time.Time) (*render.ProofUpload, error)
}

type Handler struct {
	svc     Service
	uploads Uploads
	now     func() time.Time
}

func NewHandler(svc Service, uploads Uploads) *Handler {
	return &Handler{svc: svc, uploads: uploads, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.initiate)
	r.Get("/{reference}", h.get)
	r.Post("/{reference}/proof-upload", h.proofUpload)
	r.Post("/{reference}/proof", h.submitProof)
	r.Post("/{reference}/verify", h.verify)

	r.Group(func(r chi.Router) {
		r.Use(api.RequireOperator)

		r.Get("/", h.list)
		r.Get("/queue", h.queue)
		r.Get("/{reference}/reconciliation", h.reconciliation)
		r.Post("/{reference}/bank-amount", h.bankAmount)
		r.Post("/{reference}/approve", h.approve)
		r.Post("/{reference}/reject", h.reject)
	})
}

type initiateRequest struct {
	PayerName       string         `json:"payer_name" validate:"required"`
	PayerPhone      string         `json:"payer_phone" validate:"required_without=PayerEmail"`
	PayerEmail      string         `json:"payer_email" validate:"omitempty,email"`
	ServiceName     string         `json:"service_name" validate:"required_without=RevenueTypeCode"`
	RevenueTypeCode string         `json:"revenue_type_code"`
	ZoneID          string         `json:"zone_id"`
	Data            map[string]any `json:"application_data"`
	Amount          int64          `json:"amount" validate:"gte=0"`
	Method          string         `json:"payment_method" validate:"required,oneof=card bank_transfer ussd"`
	NoticeID        *uuid.UUID     `json:"notice_id"`
}

func (h *Handler) initiate(w http.ResponseWriter, r *http.Request) {
	var req initiateRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, err)
		return
	}

	p, err := h.svc.Initiate(r.Context(), payment.InitiateParams{
		PayerName:       req.PayerName,
		PayerPhone:      req.PayerPhone,
		PayerEmail:      req.PayerEmail,
		ServiceName:     req.ServiceName,
		RevenueTypeCode: req.RevenueTypeCode,
		ZoneID:          req.ZoneID,
		Fields:          calc.NewFields(req.Data),
		Amount:          req.Amount,
		Method:          req.Method,
		NoticeID:        req.NoticeID,
	})
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusCreated, p)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, p)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := payment.Filter{Method: payment.Method(q.Get("method"))}

	if s := q.Get("status"); s != "" {
		for part := range strings.SplitSeq(s, ",") {
			filter.Statuses = append(filter.Statuses, payment.Status(strings.TrimSpace(part)))
		}
	}

	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			api.Error(w, api.BadRequest("invalid limit %q", s))
			return
		}

		filter.Limit = n
	}

	ps, err := h.svc.List(r.Context(), filter)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, nonNil(ps))
}

func (h *Handler) queue(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.VerificationQueue(r.Context())
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, nonNil(ps))
}

func (h *Handler) reconciliation(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Reconciliation(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		api.Error(w, err)
		return
	}

	if entries == nil {
		entries = []*payment.Reconciliation{}
	}

	api.JSON(w, http.StatusOK, entries)
}

type proofUploadRequest struct {
	Filename string `json:"filename" validate:"required"`
}

func (h *Handler) proofUpload(w http.ResponseWriter, r *http.Request) {
	var req proofUploadRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, err)
		return
	}

	reference := chi.URLParam(r, "reference")

	// The upload slot only makes sense for an existing payment.
	if _, err := h.svc.Get(r.Context(), reference); err != nil {
		api.Error(w, err)
		return
	}

	upload, err := h.uploads.ProofUpload(r.Context(), reference, req.Filename, h.now())
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusCreated, upload)
}

type submitProofRequest struct {
	ProofURL string `json:"proof_url" validate:"required,url"`
}

func (h *Handler) submitProof(w http.ResponseWriter, r *http.Request) {
	var req submitProofRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, err)
		return
	}

	reference := chi.URLParam(r, "reference")

	actor := api.Actor(r.Context())
	if actor == "" {
		actor = "payer"
	}

	p, err := h.svc.SubmitProof(r.Context(), reference, req.ProofURL, actor)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, p)
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.VerifyWithGateway(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, p)
}

type bankAmountRequest struct {
	Amount        int64  `json:"amount" validate:"gt=0"`
	BankReference string `json:"bank_reference" validate:"required"`
}

func (h *Handler) bankAmount(w http.ResponseWriter, r *http.Request) {
	var req bankAmountRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, err)
		return
	}

	p, err := h.svc.RecordBankAmount(r.Context(), chi.URLParam(r, "reference"), req.Amount, req.BankReference)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, p)
}

type decisionRequest struct {
	Notes         string `json:"notes"`
	BankAmount    *int64 `json:"bank_amount" validate:"omitempty,gt=0"`
	BankReference string `json:"bank_reference"`
}

func (h *Handler) decision(r *http.Request) (payment.Decision, error) {
	var req decisionRequest
	if err := api.Decode(r, &req); err != nil {
		return payment.Decision{}, err
	}

	return payment.Decision{
		Reference:     chi.URLParam(r, "reference"),
		Actor:         api.Actor(r.Context()),
		Notes:         req.Notes,
		BankAmount:    req.BankAmount,
		BankReference: req.BankReference,
	}, nil
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	d, err := h.decision(r)
	if err != nil {
		api.Error(w, err)
		return
	}

	p, err := h.svc.Approve(r.Context(), d)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, p)
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	d, err := h.decision(r)
	if err != nil {
		api.Error(w, err)
		return
	}

	p, err := h.svc.Reject(r.Context(), d)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, p)
}

func nonNil(ps []*payment.Payment) []*payment.Payment {
	if ps == nil {
		return []*payment.Payment{}
	}

	return ps
}
