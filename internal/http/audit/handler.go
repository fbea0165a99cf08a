package audit

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/levy/internal/audit"
	"github.com/MrJamesThe3rd/levy/internal/http/api"
)

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=audit
type Log interface {
	List(ctx context.Context, filter audit.Filter) ([]*audit.Entry, error)
}

type Handler struct {
	log Log
}

func NewHandler(log Log) *Handler {
	return &Handler{log: log}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := audit.Filter{
		TableName: q.Get("table"),
		RecordID:  q.Get("record_id"),
		Action:    q.Get("action"),
	}

	if s := q.Get("since"); s != "" {
		since, err := time.Parse(time.RFC3339, s)
		if err != nil {
			api.Error(w, api.BadRequest("since must be RFC3339: %q", s))
			return
		}

		filter.Since = &since
	}

	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			api.Error(w, api.BadRequest("invalid limit %q", s))
			return
		}

		filter.Limit = n
	}

	entries, err := h.log.List(r.Context(), filter)
	if err != nil {
		api.Error(w, err)
		return
	}

	if entries == nil {
		entries = []*audit.Entry{}
	}

	api.JSON(w, http.StatusOK, entries)
}
