package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/levy/internal/calc"
	"github.com/MrJamesThe3rd/levy/internal/catalog"
	"github.com/MrJamesThe3rd/levy/internal/http/api"
)

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=catalog
type Catalog interface {
	ListRevenueTypes(ctx context.Context) ([]*catalog.RevenueType, error)
	RevenueType(ctx context.Context, code string) (*catalog.RevenueType, error)
	ListZones(ctx context.Context) ([]*catalog.Zone, error)
}

type Calculator interface {
	Calculate(ctx context.Context, in calc.Input) (*calc.Result, error)
}

type Handler struct {
	catalog Catalog
	calc    Calculator
	now     func() time.Time
}

func NewHandler(c Catalog, calculator Calculator) *Handler {
	return &Handler{catalog: c, calc: calculator, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/revenue-types", h.listRevenueTypes)
	r.Get("/revenue-types/{code}", h.getRevenueType)
	r.Get("/zones", h.listZones)
	r.Post("/estimate", h.estimate)
}

func (h *Handler) listRevenueTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.catalog.ListRevenueTypes(r.Context())
	if err != nil {
		api.Error(w, err)
		return
	}

	if types == nil {
		types = []*catalog.RevenueType{}
	}

	api.JSON(w, http.StatusOK, types)
}

func (h *Handler) getRevenueType(w http.ResponseWriter, r *http.Request) {
	rt, err := h.catalog.RevenueType(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, rt)
}

func (h *Handler) listZones(w http.ResponseWriter, r *http.Request) {
	zones, err := h.catalog.ListZones(r.Context())
	if err != nil {
		api.Error(w, err)
		return
	}

	if zones == nil {
		zones = []*catalog.Zone{}
	}

	api.JSON(w, http.StatusOK, zones)
}

type estimateRequest struct {
	RevenueTypeCode string         `json:"revenue_type_code" validate:"required"`
	ZoneID          string         `json:"zone_id"`
	Data            map[string]any `json:"application_data"`
	AsOf            *time.Time     `json:"as_of"`
}

// estimate runs the calculator without recording anything.
func (h *Handler) estimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, err)
		return
	}

	in := calc.Input{
		RevenueTypeCode: req.RevenueTypeCode,
		ZoneID:          req.ZoneID,
		Fields:          calc.NewFields(req.Data),
		AsOf:            h.now(),
	}

	if req.AsOf != nil {
		in.AsOf = *req.AsOf
	}

	res, err := h.calc.Calculate(r.Context(), in)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, res)
}
