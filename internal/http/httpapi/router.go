package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"fundingme/internal/http/handlers"
	"fundingme/internal/middleware"
)

// Options configure the router middleware stack.
type Options struct {
	Logger          zerolog.Logger
	RateLimitPerMin int
	AllowedOrigins  []string
	CountryLookup   middleware.CountryLookup
}

// NewRouter wires the API routes with the shared middleware stack.
func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.CountryLookup),
		middleware.Identity,
	)
	if opts.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/stats/summary", app.StatsSummary)

	r.Route("/v1/projects", func(r chi.Router) {
		r.Post("/", app.ProjectsCreate)
		r.Route("/{projectID}", func(r chi.Router) {
			r.Get("/", app.ProjectsGet)
			r.Post("/donations", app.DonationsCreate)
			r.Get("/donations", app.DonationsList)
			r.Get("/donations/export", app.DonationsExport)
			r.Post("/resolve", app.ProjectsResolve)
		})
	})

	r.Route("/v1/accounts/{accountID}", func(r chi.Router) {
		r.Get("/", app.AccountsGet)
		r.Post("/deposits", app.AccountsDeposit)
	})

	return r
}
