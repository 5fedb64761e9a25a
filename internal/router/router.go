package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"helpdesk/internal/auth"
	"helpdesk/internal/config"
	"helpdesk/internal/handlers"
	"helpdesk/internal/middleware"
	"helpdesk/internal/repository"
	"helpdesk/internal/service"
)

// credentialRate caps login and register attempts per client address.
const credentialRate = 20

// New builds the HTTP API over store. ping backs /healthz and may be nil.
func New(log zerolog.Logger, store repository.Store, cfg config.Config, ping func(context.Context) error) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Total-Count", "Content-Disposition"},
		AllowCredentials: true,
	}))
	r.Use(httprate.LimitByIP(cfg.RatePerMinute, time.Minute))

	// Health
	r.Get("/healthz", handlers.Health(ping))

	// Services + handlers
	authSvc := service.NewAuthService(store.Users, store.Departments, cfg.JWTSecret, cfg.TokenTTL)
	ah := handlers.NewAuthHTTP(authSvc, cfg.Env != "dev" && cfg.Env != "test")
	th := handlers.NewTicketHTTP(service.NewTicketService(store))
	dh := handlers.NewLookupHTTP(service.NewLookupService(store.Departments, "department"))
	ch := handlers.NewLookupHTTP(service.NewLookupService(store.Categories, "category"))
	sh := handlers.NewSeverityHTTP(service.NewSeverityService(store.Severities))
	uh := handlers.NewUserHTTP(service.NewUserService(store))
	rh := handlers.NewReportsHTTP(service.NewReportService(store.Tickets))

	authn := middleware.Authenticate(cfg.JWTSecret)
	adminOnly := middleware.RequireCapability(auth.ManageUsers)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(httprate.LimitByIP(credentialRate, time.Minute)).Post("/login", ah.Login())
			r.With(httprate.LimitByIP(credentialRate, time.Minute)).Post("/register", ah.Register())
			r.Post("/logout", ah.Logout())
			r.With(authn).Get("/me", ah.Me())
		})

		r.Group(func(r chi.Router) {
			r.Use(authn)

			r.Route("/tickets", func(r chi.Router) {
				r.Get("/", th.List())
				r.Post("/", th.Create())
				r.Get("/user/{id}", th.ListByUser())
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", th.Get())
					r.Put("/", th.Update())
					r.Get("/remarks", th.ListRemarks())
					r.Post("/remarks", th.AddRemark())
				})
			})

			lookupRoutes(r, "/departments", dh)
			lookupRoutes(r, "/categories", ch)
			r.Route("/severities", func(r chi.Router) {
				manage := middleware.RequireCapability(auth.ManageReferenceData)
				r.Get("/", sh.List())
				r.Get("/{id}", sh.Get())
				r.With(manage).Post("/", sh.Create())
				r.With(manage).Put("/{id}", sh.Update())
				r.With(manage).Delete("/{id}", sh.Delete())
			})

			r.Route("/users", func(r chi.Router) {
				r.Put("/profile", uh.UpdateProfile())
				r.With(adminOnly).Get("/", uh.List())
				r.With(adminOnly).Post("/", uh.Create())
				r.Route("/{id}", func(r chi.Router) {
					r.With(middleware.RequireSelfOrRoles(auth.RolesWith(auth.ManageUsers)...)).Get("/", uh.Get())
					r.With(adminOnly).Put("/", uh.Update())
					r.With(adminOnly).Delete("/", uh.Delete())
					r.With(adminOnly).Put("/password", uh.ResetPassword())
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequireCapability(auth.ViewReports))
				r.Get("/", rh.Report())
				r.Get("/summary", rh.Summary())
				r.Get("/export", rh.Export())
			})
		})
	})

	return r
}

func lookupRoutes(r chi.Router, path string, h *handlers.LookupHTTP) {
	r.Route(path, func(r chi.Router) {
		manage := middleware.RequireCapability(auth.ManageReferenceData)
		r.Get("/", h.List())
		r.Get("/{id}", h.Get())
		r.With(manage).Post("/", h.Create())
		r.With(manage).Put("/{id}", h.Update())
		r.With(manage).Delete("/{id}", h.Delete())
	})
}
