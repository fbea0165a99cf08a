package notice

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/levy/internal/http/api"
	"github.com/MrJamesThe3rd/levy/internal/notice"
)

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=notice
type Service interface {
	Issue(ctx context.Context, assessmentID uuid.UUID, actor string) (*notice.Notice, error)
	Get(ctx context.Context, id uuid.UUID) (*notice.Notice, error)
	GetByNumber(ctx context.Context, number string) (*notice.Notice, error)
	ListByAssessment(ctx context.Context, assessmentID uuid.UUID) ([]*notice.Notice, error)
	Render(ctx context.Context, id uuid.UUID) (*notice.Notice, error)
	ListOverdue(ctx context.Context, now time.Time) ([]*notice.Notice, error)
	SendReminders(ctx context.Context, now time.Time) (notice.SweepResult, error)
}

type Handler struct {
	svc Service
	now func() time.Time
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/notices/{id}", h.get)
	r.Get("/notices/number/{number}", h.getByNumber)

	r.Group(func(r chi.Router) {
		r.Use(api.RequireOperator)

		r.Post("/assessments/{id}/notices", h.issue)
		r.Get("/assessments/{id}/notices", h.listByAssessment)
		r.Post("/notices/{id}/render", h.render)
		r.Get("/notices/overdue", h.overdue)
		r.Post("/notices/reminders", h.reminders)
	})
}

// noticeResponse adds the read-time status to the stored notice.
type noticeResponse struct {
	*notice.Notice
	EffectiveStatus notice.PaymentStatus `json:"effective_status"`
}

func (h *Handler) respond(n *notice.Notice, now time.Time) noticeResponse {
	return noticeResponse{Notice: n, EffectiveStatus: n.EffectiveStatus(now)}
}

func (h *Handler) respondAll(ns []*notice.Notice) []noticeResponse {
	now := h.now()

	out := make([]noticeResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, h.respond(n, now))
	}

	return out
}

func pathID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, api.BadRequest("invalid id %q", raw)
	}

	return id, nil
}

func (h *Handler) issue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		api.Error(w, err)
		return
	}

	n, err := h.svc.Issue(r.Context(), id, api.Actor(r.Context()))
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusCreated, h.respond(n, h.now()))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		api.Error(w, err)
		return
	}

	n, err := h.svc.Get(r.Context(), id)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, h.respond(n, h.now()))
}

func (h *Handler) getByNumber(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.GetByNumber(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, h.respond(n, h.now()))
}

func (h *Handler) listByAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		api.Error(w, err)
		return
	}

	ns, err := h.svc.ListByAssessment(r.Context(), id)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, h.respondAll(ns))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		api.Error(w, err)
		return
	}

	n, err := h.svc.Render(r.Context(), id)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, h.respond(n, h.now()))
}

func (h *Handler) overdue(w http.ResponseWriter, r *http.Request) {
	ns, err := h.svc.ListOverdue(r.Context(), h.now())
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, h.respondAll(ns))
}

func (h *Handler) reminders(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.SendReminders(r.Context(), h.now())
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, res)
}
