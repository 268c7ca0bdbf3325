package handler

import (
	"net/http"
	"time"

	"evote/internal/container"
	"evote/internal/domain"
	"evote/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
)

// NewRouter wires every page, form and report endpoint
func NewRouter(c *container.Container) (http.Handler, error) {
	cfg := c.GetConfig()
	log := c.GetLogger()

	renderer, err := NewRenderer(log.Named("render"))
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.AllowedOrigins

	r.Use(middleware.CORS(corsConfig, log))
	r.Use(middleware.RequestID(log))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	if cfg.CSRFEnabled {
		r.Use(csrf.Protect(
			[]byte(cfg.CSRFKey),
			csrf.Secure(cfg.SecureCookies),
			csrf.Path("/"),
			csrf.SameSite(csrf.SameSiteLaxMode),
			csrf.ErrorHandler(csrfFailure(c)),
		))
	}
	r.Use(middleware.Session(c.GetSessionManager()))

	healthHandler := NewHealthHandler(c)
	authHandler := NewAuthHandler(c, renderer)
	adminHandler := NewAdminHandler(c, renderer)
	voterHandler := NewVoterHandler(c, renderer)
	apiHandler := NewAPIHandler(c)

	r.Get("/health", healthHandler.Check)

	// Public pages
	r.Get("/", authHandler.Index)
	r.Get("/admin-register", authHandler.RegisterForm)
	r.Post("/admin-register", authHandler.Register)
	r.Get("/admin-login", authHandler.LoginForm)
	r.Post("/admin-login", authHandler.Login)
	r.Get("/voter-login", authHandler.VoterLoginForm)
	r.Post("/voter-login", authHandler.RequestOTP)
	r.Get("/verify-otp", authHandler.VerifyForm)
	r.Post("/verify-otp", authHandler.Verify)
	r.Post("/verify-otp/resend", authHandler.Resend)
	r.Post("/logout", authHandler.Logout)

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireRole(domain.RoleAdmin, log))

		r.Get("/dashboard", adminHandler.Dashboard)
		r.Get("/create-election", adminHandler.CreateForm)
		r.Post("/create-election", adminHandler.Create)
		r.Get("/election/{id}", adminHandler.Details)
		r.Get("/graph/{id}", adminHandler.Graph)
		r.Post("/graph/{id}/refresh", adminHandler.Refresh)
	})

	r.Route("/voter", func(r chi.Router) {
		r.Use(middleware.RequireRole(domain.RoleVoter, log))

		r.Get("/dashboard", voterHandler.Dashboard)
		r.Get("/face-verification/{id}", voterHandler.FaceVerification)
		r.Post("/face-verification/{id}", voterHandler.Scan)
		r.Get("/vote-confirmation/{id}", voterHandler.VoteForm)
		r.Post("/vote-confirmation/{id}", voterHandler.Vote)
		r.Get("/results/{id}", voterHandler.Results)
		r.Get("/voter-list/{id}", voterHandler.VoterList)
	})

	r.Route("/api", func(r chi.Router) {
		r.NotFound(apiNotFound)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoleAPI(domain.RoleAdmin, log))

			r.Get("/elections", apiHandler.ListElections)
			r.Get("/elections/{id}", apiHandler.GetElection)
			r.Get("/elections/{id}/turnout", apiHandler.GetTurnout)
			r.Get("/elections/{id}/results", apiHandler.GetResults)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	})

	log.Info("Router configured successfully")
	return r, nil
}

func apiNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(`{"error":{"type":"not_found","message":"Endpoint not found"}}`))
}

func csrfFailure(c *container.Container) http.Handler {
	log := c.GetLogger().Named("csrf")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry := log.WithField("path", r.URL.Path)
		if reason := csrf.FailureReason(r); reason != nil {
			entry = entry.WithError(reason)
		}
		entry.Warn("CSRF check failed")
		http.Error(w, "Forbidden - the form has expired, please reload the page", http.StatusForbidden)
	})
}
