package statement

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/levy/internal/http/api"
	"github.com/MrJamesThe3rd/levy/internal/statement"
)

const maxUpload = 10 << 20

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=statement
type Reconciler interface {
	Reconcile(ctx context.Context, r io.Reader) (*statement.Report, error)
}

type Handler struct {
	svc Reconciler
}

func NewHandler(svc Reconciler) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importStatement)
}

// importStatement reconciles an uploaded bank statement export against open
// bank transfers. Matched lines record the bank amount; approval stays with
// an operator.
func (h *Handler) importStatement(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		api.Error(w, api.BadRequest("failed to parse form: %v", err))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		api.Error(w, api.BadRequest("file field is required"))
		return
	}
	defer file.Close()

	report, err := h.svc.Reconcile(r.Context(), file)
	if err != nil {
		api.Error(w, err)
		return
	}

	if report.Matches == nil {
		report.Matches = []statement.Match{}
	}

	if report.Unmatched == nil {
		report.Unmatched = []statement.Line{}
	}

	if report.Skipped == nil {
		report.Skipped = []statement.Skipped{}
	}

	api.JSON(w, http.StatusOK, report)
}
