// Package httpapi assembles the chi router.
package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/middleware"
)

// NewRouter wires the public surface. The settlement webhook authenticates
// by HMAC signature, not JWT, so it sits outside the auth group.
func NewRouter(app *handlers.App, cfg *infra.Config, logger zerolog.Logger, country middleware.CountryLookup) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
		middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.I18N(cfg.DefaultLocale, country),
	)

	r.Get("/v1/healthz", app.Health)
	r.Post("/v1/webhooks/settlement", app.SettlementWebhook)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(cfg.JWTSecret))

		r.Get("/v1/hiring/eligibility/{hirerId}", app.Eligibility)

		r.Route("/v1/hires", func(r chi.Router) {
			r.Post("/", app.HiresCreate)
			r.Get("/", app.HiresList)
			r.Get("/{id}", app.HiresGet)
			r.Patch("/{id}", app.HiresPatch)
		})

		r.Route("/v1/agreements", func(r chi.Router) {
			r.Route("/assignments", func(r chi.Router) {
				r.Get("/", app.AssignmentsList)
				r.Get("/{id}", app.AssignmentsGet)
				r.Post("/{id}/sign", app.AssignmentsSign)
				r.Post("/{id}/cancel", app.AssignmentsCancel)
				r.With(middleware.RequireRoles(string(domain.UserRoleAdmin), string(domain.UserRoleLegal))).
					Post("/", app.AssignmentsCreate)
			})
			r.Route("/templates", func(r chi.Router) {
				r.Use(middleware.RequireRoles(string(domain.UserRoleAdmin)))
				r.Post("/", app.TemplatesCreate)
				r.Get("/", app.TemplatesList)
				r.Post("/{id}/supersede", app.TemplatesSupersede)
			})
		})

		r.Route("/v1/legal", func(r chi.Router) {
			r.Use(middleware.RequireRoles(string(domain.UserRoleAdmin), string(domain.UserRoleLegal)))
			r.Get("/agreements", app.LegalAssignments)
			r.Get("/assignments/{id}/audit", app.LegalAuditTrail)
			r.Get("/assignments/{id}/evidence", app.LegalEvidence)
		})

		r.Route("/v1/fees", func(r chi.Router) {
			r.Get("/", app.FeesStatus)
			r.Post("/checkout", app.FeesCheckout)
		})

		r.Get("/v1/notifications", app.NotificationsList)
	})

	return r
}
