package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/elevate-hq/elevate-backend/api/controllers"
	"github.com/elevate-hq/elevate-backend/api/middleware"
	"github.com/elevate-hq/elevate-backend/internal/access"
	"github.com/elevate-hq/elevate-backend/internal/paymentlinks"
	"github.com/elevate-hq/elevate-backend/internal/payments"
	"github.com/elevate-hq/elevate-backend/internal/quota"
	"github.com/elevate-hq/elevate-backend/internal/timeclock"
	"github.com/elevate-hq/elevate-backend/pkg/config"
	"github.com/elevate-hq/elevate-backend/pkg/logger"
)

// NewRouter wires the HTTP surface. Org-scoped routes sit behind the
// license gate; student routes only need an authenticated student context.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	accessService access.Service,
	quotaService quota.Service,
	paymentsService payments.Service,
	linksService paymentlinks.Service,
	timeclockService timeclock.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    dbP,
			"redis": redisP,
		}))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/license", func(r chi.Router) {
			r.Get("/access", controllers.LicenseAccess(accessService, logg))
			r.Get("/usage", controllers.LicenseUsage(quotaService, logg))
			r.Post("/migrate-tier", controllers.LicenseMigrateTier(accessService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.License(accessService, logg))

			r.Route("/timeclock", func(r chi.Router) {
				r.Get("/eligibility", controllers.TimeclockEligibility(timeclockService, logg))
				r.Post("/clock-in", controllers.TimeclockClockIn(timeclockService, logg))
				r.Post("/clock-out", controllers.TimeclockClockOut(timeclockService, logg))
			})

			r.Route("/payments", func(r chi.Router) {
				r.Get("/plan", controllers.PaymentPlan(paymentsService, logg))
				r.Post("/link", controllers.PaymentLinkCreate(paymentsService, linksService, logg))
			})
		})
	})

	return r
}
