package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/gaganrajn/urban-company-backend/internal/auth"
	"github.com/gaganrajn/urban-company-backend/internal/config"
	"github.com/gaganrajn/urban-company-backend/internal/models"
)

// NewRouter mounts all routes. Authorization is layered: Authenticate
// resolves the caller, RequireRole narrows the subtree, always in that
// order so an unknown caller gets 401 before a 403.
func NewRouter(h *Handlers, tokens *auth.TokenManager, cfg config.APIConfig, logger *zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(RateLimit(newClientLimiter(cfg.RateLimit)))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeSuccess(w, http.StatusOK, "ok", nil)
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/send-otp", h.SendOTP)
		r.Post("/login", h.SendOTP)
		r.Post("/verify-otp", h.VerifyOTP)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(tokens))
			r.Get("/me", h.Me)
			r.Post("/logout", h.Logout)
		})
	})

	r.Route("/api/services", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(OptionalAuthenticate(tokens))
			r.Get("/", h.ListServices)
			r.Get("/{id}", h.GetService)
		})

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(tokens))
			r.Use(RequireRole(models.RoleAdmin))
			r.Post("/", h.CreateService)
			r.Put("/{id}", h.UpdateService)
			r.Delete("/{id}", h.DeleteService)
		})
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(Authenticate(tokens))

		r.Get("/partners", h.ListPartners)
		r.Get("/nearby", h.ListPartners)
		r.Put("/profile", h.UpdateProfile)
		r.Get("/{id}", h.GetUser)

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(models.RoleAdmin))
			r.Get("/", h.ListUsers)
			r.Patch("/{id}/disable", h.DisableUser)
		})
	})

	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(Authenticate(tokens))

		r.Post("/", h.CreateBooking)
		r.Get("/user/my-bookings", h.MyBookings)
		r.Get("/{id}", h.GetBooking)
		r.Patch("/{id}/status", h.UpdateBookingStatus)
		r.Patch("/{id}/rate", h.RateBooking)

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(models.RolePartner))
			r.Get("/partner/available", h.AvailableBookings)
			r.Patch("/{id}/accept", h.AcceptBooking)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(models.RoleAdmin))
			r.Get("/", h.ListBookings)
			r.Get("/export", h.ExportBookings)
		})
	})

	return r
}
