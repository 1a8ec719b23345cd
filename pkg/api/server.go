// Package api serves the HTTP interface of the volunteer platform.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/auth"
	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/core/services"
	"github.com/jakechorley/voluntarios/pkg/db"
	"github.com/jakechorley/voluntarios/pkg/notify"
)

// Options configures the HTTP surface
type Options struct {
	BaseURL        string
	AllowedOrigins []string
	RequestTimeout time.Duration

	// MaxSeriesOccurrences bounds recurring opportunity creation
	MaxSeriesOccurrences int

	// RosterPublisher and RosterSpreadsheetID enable the publish-roster
	// route; both are optional
	RosterPublisher     services.RosterPublisher
	RosterSpreadsheetID string
}

// Server holds the dependencies of the HTTP handlers
type Server struct {
	db       db.Database
	tokens   *auth.TokenService
	notifier notify.Notifier
	logger   *zap.Logger
	opts     Options
}

// NewServer creates a Server
func NewServer(database db.Database, tokens *auth.TokenService, notifier notify.Notifier, logger *zap.Logger, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	return &Server{
		db:       database,
		tokens:   tokens,
		notifier: notifier,
		logger:   logger,
		opts:     opts,
	}
}

// Routes builds the router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(s.cors())
	r.Use(middleware.Timeout(s.opts.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorCode(w, model.CodeNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorCode(w, model.CodeNotFound, "Method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.register)
			r.Get("/verify-email", s.verifyEmail)
			r.Post("/login", s.login)
			r.With(authenticate(s.tokens)).Get("/me", s.me)
		})

		r.Route("/public", func(r chi.Router) {
			r.Get("/opportunities", s.listPublicOpportunities)
			r.Get("/opportunities/{id}", s.getPublicOpportunity)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticate(s.tokens), requireRole(model.RoleSuperAdmin))
			r.Post("/organizations", s.createOrganization)
			r.Get("/organizations", s.listOrganizations)
			r.Put("/organizations/{id}/status", s.setOrganizationStatus)
			r.Get("/opportunities", s.listAllOpportunities)
			r.Get("/signups", s.listAllSignups)
			r.Get("/activity", s.listActivity)
		})

		r.Route("/organizations", func(r chi.Router) {
			r.Use(authenticate(s.tokens), requireRole(model.RoleOrgAdmin))
			r.Post("/opportunities", s.createOpportunity)
			r.Get("/opportunities", s.listOrganizationOpportunities)
			r.Post("/opportunities/series", s.createSeries)
			r.Put("/opportunities/{id}", s.updateOpportunity)
			r.Post("/opportunities/{id}/publish", s.publishOpportunity)
			r.Post("/opportunities/{id}/close", s.closeOpportunity)
			r.Get("/opportunities/{id}/volunteers", s.viewRoster)
			r.Get("/opportunities/{id}/export-csv", s.exportRoster)
			if s.opts.RosterPublisher != nil {
				r.Post("/opportunities/{id}/publish-roster", s.publishRoster)
			}
			r.Put("/signups/{id}/status", s.markSignupStatus)
		})

		r.Route("/volunteers", func(r chi.Router) {
			r.Use(authenticate(s.tokens), requireRole(model.RoleVolunteer))
			r.Get("/opportunities", s.listPublicOpportunities)
			r.Post("/opportunities/{id}/signup", s.signUp)
			r.Put("/signups/{id}/cancel", s.cancelSignup)
			r.Get("/my-signups", s.mySignups)
		})
	})

	return r
}

func (s *Server) cors() func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	// credentials cannot be combined with a wildcard origin
	if len(opts.AllowedOrigins) == 0 || opts.AllowedOrigins[0] == "*" {
		opts.AllowedOrigins = []string{"*"}
		opts.AllowCredentials = false
	}
	return cors.Handler(opts)
}
