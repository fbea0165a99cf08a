package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/levy/internal/http/api"
	"github.com/MrJamesThe3rd/levy/internal/http/assessment"
	"github.com/MrJamesThe3rd/levy/internal/http/audit"
	"github.com/MrJamesThe3rd/levy/internal/http/catalog"
	"github.com/MrJamesThe3rd/levy/internal/http/feed"
	"github.com/MrJamesThe3rd/levy/internal/http/matching"
	"github.com/MrJamesThe3rd/levy/internal/http/notice"
	"github.com/MrJamesThe3rd/levy/internal/http/payment"
	"github.com/MrJamesThe3rd/levy/internal/http/statement"
	"github.com/MrJamesThe3rd/levy/internal/http/webhook"
	"github.com/MrJamesThe3rd/levy/internal/metrics"
)

type Handlers struct {
	Catalog    *catalog.Handler
	Assessment *assessment.Handler
	Notice     *notice.Handler
	Payment    *payment.Handler
	Webhook    *webhook.Handler
	Statement  *statement.Handler
	Matching   *matching.Handler
	Audit      *audit.Handler
	Feed       *feed.Handler
}

type Options struct {
	Auth           *api.Authenticator
	Metrics        *metrics.Metrics
	AllowedOrigins []string
}

func New(v1 Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(opts.Metrics.Middleware)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		// Gateways sign their own callbacks.
		r.Route("/webhooks", v1.Webhook.Routes)

		r.Group(func(r chi.Router) {
			r.Use(opts.Auth.Identify)

			r.Route("/catalog", v1.Catalog.Routes)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				v1.Assessment.Routes(r)
				v1.Notice.Routes(r)
			})

			r.Route("/payments", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				v1.Payment.Routes(r)
			})

			r.Group(func(r chi.Router) {
				r.Use(api.RequireOperator)

				r.Route("/statements", v1.Statement.Routes)
				r.Route("/narrations", v1.Matching.Routes)
				r.Route("/audit", v1.Audit.Routes)
				r.Route("/events", v1.Feed.Routes)
			})
		})
	})

	return router
}
