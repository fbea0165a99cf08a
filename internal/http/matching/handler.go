package matching

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/levy/internal/http/api"
)

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=matching
type Service interface {
	Suggest(ctx context.Context, narration string) (string, error)
	Learn(ctx context.Context, rawPattern, payer string) error
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	Narration string `json:"narration"`
	Payer     string `json:"payer"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	narration := r.URL.Query().Get("narration")
	if narration == "" {
		api.Error(w, api.BadRequest("narration query parameter is required"))
		return
	}

	payer, err := h.svc.Suggest(r.Context(), narration)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, suggestResponse{Narration: narration, Payer: payer})
}

type learnRequest struct {
	RawPattern string `json:"raw_pattern" validate:"required"`
	Payer      string `json:"payer" validate:"required"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, err)
		return
	}

	if err := h.svc.Learn(r.Context(), req.RawPattern, req.Payer); err != nil {
		api.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
