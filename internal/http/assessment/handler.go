package assessment

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/levy/internal/assessment"
	"github.com/MrJamesThe3rd/levy/internal/calc"
	"github.com/MrJamesThe3rd/levy/internal/http/api"
)

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=assessment
type Service interface {
	SubmitApplication(ctx context.Context, params assessment.SubmitParams) (*assessment.Application, error)
	GetApplication(ctx context.Context, id uuid.UUID) (*assessment.Application, error)
	ListApplications(ctx context.Context, filter assessment.ApplicationFilter) ([]*assessment.Application, error)
	RejectApplication(ctx context.Context, id uuid.UUID, actor, reason string) error
	Assess(ctx context.Context, params assessment.AssessParams) (*assessment.Assessment, error)
	Get(ctx context.Context, id uuid.UUID) (*assessment.Assessment, error)
	GetByNumber(ctx context.Context, number string) (*assessment.Assessment, error)
	ListAdjustments(ctx context.Context, id uuid.UUID) ([]*assessment.Adjustment, error)
	Approve(ctx context.Context, id uuid.UUID, actor string) (*assessment.Assessment, error)
	Cancel(ctx context.Context, id uuid.UUID, actor, reason string) (*assessment.Assessment, error)
	Adjust(ctx context.Context, id uuid.UUID, override assessment.Override) (*assessment.Assessment, error)
	AcceptAISuggestion(ctx context.Context, id uuid.UUID, suggestion assessment.AISuggestion, operator string) (*assessment.Assessment, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/applications", h.submit)
	r.Get("/applications/{id}", h.getApplication)
	r.Get("/assessments/number/{number}", h.getByNumber)

	r.Group(func(r chi.Router) {
		r.Use(api.RequireOperator)

		r.Get("/applications", h.listApplications)
		r.Post("/applications/{id}/reject", h.rejectApplication)
		r.Post("/applications/{id}/assess", h.assess)

		r.Get("/assessments/{id}", h.get)
		r.Get("/assessments/{id}/adjustments", h.adjustments)
		r.Post("/assessments/{id}/approve", h.approve)
		r.Post("/assessments/{id}/cancel", h.cancel)
		r.Post("/assessments/{id}/adjust", h.adjust)
		r.Post("/assessments/{id}/ai-suggestion", h.acceptSuggestion)
	})
}

func pathID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, api.BadRequest("invalid id %q", raw)
	}

	return id, nil
}

type submitRequest struct {
	ApplicantName   string         `json:"applicant_name" validate:"required"`
	ApplicantPhone  string         `json:"applicant_phone" validate:"required"`
	ApplicantEmail  string         `json:"applicant_email" validate:"omitempty,email"`
	RevenueTypeCode string         `json:"revenue_type_code" validate:"required"`
	ZoneID          string         `json:"zone_id"`
	Data            map[string]any `json:"application_data"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, err)
		return
	}

	app, err := h.svc.SubmitApplication(r.Context(), assessment.SubmitParams{
		ApplicantName:   req.ApplicantName,
		ApplicantPhone:  req.ApplicantPhone,
		ApplicantEmail:  req.ApplicantEmail,
		RevenueTypeCode: req.RevenueTypeCode,
		ZoneID:          req.ZoneID,
		Data:            calc.NewFields(req.Data),
	})
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusCreated, app)
}

func (h *Handler) getApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		api.Error(w, err)
		return
	}

	app, err := h.svc.GetApplication(r.Context(), id)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, app)
}

func (h *Handler) listApplications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := assessment.ApplicationFilter{RevenueTypeCode: q.Get("revenue_type_code")}

	if s := q.Get("status"); s != "" {
		status := assessment.ApplicationStatus(s)
		filter.Status = &status
	}

	apps, err := h.svc.ListApplications(r.Context(), filter)
	if err != nil {
		api.Error(w, err)
		return
	}

	if apps == nil {
		apps = []*assessment.Application{}
	}

	api.JSON(w, http.StatusOK, apps)
}

type reasonRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *Handler) rejectApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		api.Error(w, err)
		return
	}

	var req reasonRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, err)
		return
	}

	if err := h.svc.RejectApplication(r.Context(), id, api.Actor(r.Context()), req.Reason); err != nil {
		api.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type overrideRequest struct {
	Amount int64  `json:"amount" validate:"gte=0"`
	Reason string `json:"reason" validate:"required"`
}

type assessRequest struct {
	Override   *overrideRequest `json:"override"`
	AsOf       *time.Time       `json:"as_of"`
	ValidFrom  *time.Time       `json:"valid_from"`
	ValidUntil *time.Time       `json:"valid_until"`
}

func (h *Handler) assess(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		api.Error(w, err)
		return
	}

	var req assessRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, err)
		return
	}

	actor := api.Actor(r.Context())
	params := assessment.AssessParams{ApplicationID: id, AssessedBy: actor}

	if req.Override != nil {
		params.Override = &assessment.Override{
			Amount:     req.Override.Amount,
			Reason:     req.Override.Reason,
			AdjustedBy: actor,
			Source:     assessment.SourceManual,
		}
	}

	if req.AsOf != nil {
		params.AsOf = *req.AsOf
	}

	if req.ValidFrom != nil {
		params.ValidFrom = *req.ValidFrom
	}

	if req.ValidUntil != nil {
		params.ValidUntil = *req.ValidUntil
	}

	a, err := h.svc.Assess(r.Context(), params)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusCreated, a)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		api.Error(w, err)
		return
	}

	a, err := h.svc.Get(r.Context(), id)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, a)
}

func (h *Handler) getByNumber(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.GetByNumber(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, a)
}

func (h *Handler) adjustments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		api.Error(w, err)
		return
	}

	adjs, err := h.svc.ListAdjustments(r.Context(), id)
	if err != nil {
		api.Error(w, err)
		return
	}

	if adjs == nil {
		adjs = []*assessment.Adjustment{}
	}

	api.JSON(w, http.StatusOK, adjs)
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		api.Error(w, err)
		return
	}

	a, err := h.svc.Approve(r.Context(), id, api.Actor(r.Context()))
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, a)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		api.Error(w, err)
		return
	}

	var req reasonRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, err)
		return
	}

	a, err := h.svc.Cancel(r.Context(), id, api.Actor(r.Context()), req.Reason)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, a)
}

func (h *Handler) adjust(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		api.Error(w, err)
		return
	}

	var req overrideRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, err)
		return
	}

	a, err := h.svc.Adjust(r.Context(), id, assessment.Override{
		Amount:     req.Amount,
		Reason:     req.Reason,
		AdjustedBy: api.Actor(r.Context()),
		Source:     assessment.SourceManual,
	})
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, a)
}

type suggestionRequest struct {
	Amount        int64   `json:"recommended_amount" validate:"gte=0"`
	Justification string  `json:"justification" validate:"required"`
	Confidence    float64 `json:"confidence" validate:"gte=0,lte=1"`
	Model         string  `json:"model"`
}

func (h *Handler) acceptSuggestion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		api.Error(w, err)
		return
	}

	var req suggestionRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, err)
		return
	}

	a, err := h.svc.AcceptAISuggestion(r.Context(), id, assessment.AISuggestion{
		Amount:        req.Amount,
		Justification: req.Justification,
		Confidence:    req.Confidence,
		Model:         req.Model,
	}, api.Actor(r.Context()))
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, a)
}
