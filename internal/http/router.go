// Package http wires the chi router: public auth endpoints, the
// authenticated dashboard sections behind the role gate, the personal
// endpoints, and the scheduler hooks.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Stevy-aimery/pantheres-finance/internal/http/authn"
	"github.com/Stevy-aimery/pantheres-finance/internal/http/budget"
	"github.com/Stevy-aimery/pantheres-finance/internal/http/cotisation"
	"github.com/Stevy-aimery/pantheres-finance/internal/http/cron"
	"github.com/Stevy-aimery/pantheres-finance/internal/http/export"
	httpmember "github.com/Stevy-aimery/pantheres-finance/internal/http/member"
	httpmessage "github.com/Stevy-aimery/pantheres-finance/internal/http/message"
	"github.com/Stevy-aimery/pantheres-finance/internal/http/report"
	"github.com/Stevy-aimery/pantheres-finance/internal/http/settings"
	httptransaction "github.com/Stevy-aimery/pantheres-finance/internal/http/transaction"
)

type Handlers struct {
	Authn        *authn.Handler
	Members      *httpmember.Handler
	Transactions *httptransaction.Handler
	Budget       *budget.Handler
	Cotisations  *cotisation.Handler
	Messages     *httpmessage.Handler
	Reports      *report.Handler
	Exports      *export.Handler
	Settings     *settings.Handler
	Cron         *cron.Handler
}

func New(verifier Verifier, loginLimiter *LoginLimiter, allowedOrigins []string, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(RequestLogger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(loginLimiter.Middleware)
			h.Authn.Routes(r)
		})

		r.Route("/cron", h.Cron.Routes)

		r.Group(func(r chi.Router) {
			r.Use(Authenticator(verifier))

			r.Route("/me", func(r chi.Router) {
				h.Authn.MeRoutes(r)
				h.Reports.MeRoutes(r)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Use(RouteGate("/api/v1"))

				h.Reports.Routes(r)

				r.Route("/membres", h.Members.Routes)
				r.Route("/transactions", h.Transactions.Routes)
				r.Route("/budget", h.Budget.Routes)
				r.Route("/rapports", func(r chi.Router) {
					r.Route("/cotisations", h.Cotisations.Routes)
					r.Route("/export", h.Exports.Routes)
				})
				r.Route("/messages", h.Messages.Routes)
				r.Route("/parametres", h.Settings.Routes)
			})
		})
	})

	return router
}
