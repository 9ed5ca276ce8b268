package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pdflex/pdflex-backend/api/controllers"
	billingcontrollers "github.com/pdflex/pdflex-backend/api/controllers/billing"
	documentcontrollers "github.com/pdflex/pdflex-backend/api/controllers/documents"
	"github.com/pdflex/pdflex-backend/api/middleware"
	"github.com/pdflex/pdflex-backend/internal/auth"
	"github.com/pdflex/pdflex-backend/internal/documents"
	"github.com/pdflex/pdflex-backend/internal/users"
	"github.com/pdflex/pdflex-backend/pkg/config"
	"github.com/pdflex/pdflex-backend/pkg/logger"
)

// Dependencies are the services mounted by NewRouter. RateLimiter and the
// optional entries of Ready may be nil.
type Dependencies struct {
	Auth        auth.Service
	Register    auth.RegisterService
	Users       users.Service
	Documents   documents.Service
	Billing     billingcontrollers.Service
	Usage       controllers.UsageSummarizer
	RateLimiter middleware.RateLimiter
	Ready       map[string]controllers.Pinger
	Gatherer    prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Get("/health", controllers.HealthLive(cfg))
	r.Get("/health/ready", controllers.HealthReady(cfg, logg, deps.Ready))
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.With(middleware.AuthRateLimit(registerPolicy, deps.RateLimiter, logg)).Post("/register", controllers.AuthRegister(deps.Register, logg))
	r.With(middleware.AuthRateLimit(loginPolicy, deps.RateLimiter, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))

	requireAuth := middleware.Auth(cfg.JWT, logg)

	r.With(requireAuth).Get("/me", controllers.UsersMe(deps.Users, logg))
	r.With(requireAuth).Get("/usage/me", controllers.UsageMe(deps.Usage, logg))
	r.With(requireAuth).Post("/upload", documentcontrollers.Upload(deps.Documents, cfg.Upload.MaxBytes(), logg))

	r.Route("/documents", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", documentcontrollers.List(deps.Documents, logg))
		r.Get("/{id}", documentcontrollers.Get(deps.Documents, logg))
		r.Delete("/{id}", documentcontrollers.Delete(deps.Documents, logg))
		r.Get("/{id}/download", documentcontrollers.Download(deps.Documents, documents.ArtifactOriginal, logg))
		r.Get("/{id}/download-protected", documentcontrollers.Download(deps.Documents, documents.ArtifactProtected, logg))
		r.Get("/{id}/download-docx", documentcontrollers.Download(deps.Documents, documents.ArtifactDocx, logg))
		r.Post("/{id}/protect", documentcontrollers.Protect(deps.Documents, logg))
		r.Post("/{id}/convert/docx", documentcontrollers.ConvertDocx(deps.Documents, logg))
		r.Get("/{id}/text", documentcontrollers.Analyze(deps.Documents, logg))
	})

	r.Route("/billing", func(r chi.Router) {
		r.Get("/charities", billingcontrollers.Charities(deps.Billing, logg))
		r.Get("/stats/charity", billingcontrollers.CharityStats(deps.Billing, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/select-charity", billingcontrollers.SelectCharity(deps.Billing, logg))
			r.Get("/me", billingcontrollers.Me(deps.Billing, logg))
			r.Get("/me/transactions", billingcontrollers.Transactions(deps.Billing, logg))
			r.Post("/mock/purchase", billingcontrollers.MockPurchase(deps.Billing, logg))
		})
	})

	return r
}
