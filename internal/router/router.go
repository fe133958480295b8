// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for
// wedsite. It organizes routes into the public site, the shared auth
// endpoints, and the partner, couple, and admin portals.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"wedsite/internal/handlers"
	"wedsite/internal/middleware"
	"wedsite/internal/models"
)

// Handlers bundles the handler groups the router mounts.
type Handlers struct {
	Auth    *handlers.Auth
	Partner *handlers.Partner
	Editor  *handlers.Editor
	Media   *handlers.Media
	Admin   *handlers.Admin
	Public  *handlers.Public
}

// Config carries the router's middleware settings.
type Config struct {
	Sessions middleware.SessionLoader
	// LoginLimiter throttles sign-in attempts per client IP.
	LoginLimiter *middleware.RateLimiter
	// SecureCookies marks the CSRF cookie Secure.
	SecureCookies bool
	// ImageSources are extra img-src origins, e.g. the media CDN.
	ImageSources []string
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(cfg Config, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders(cfg.ImageSources...))
	r.Use(middleware.LoadSession(cfg.Sessions))

	// Health check: no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Public wedding sites and catalog.
	r.Get("/w/{slug}", h.Public.Wedding)
	r.Get("/cards", h.Public.Cards)
	r.Get("/templates", h.Public.Templates)

	// Everything below speaks JSON to the portals and is CSRF-protected.
	r.Group(func(r chi.Router) {
		r.Use(middleware.CSRF(cfg.SecureCookies))

		r.Route("/auth", func(r chi.Router) {
			r.With(cfg.LoginLimiter.Middleware).Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
			r.With(middleware.RequireAuth).Get("/me", h.Auth.Me)
		})

		// Partner portal.
		r.Route("/partner", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireRole(models.RolePartner))
			r.Get("/clients", h.Partner.Clients)
			r.Post("/clients", h.Partner.Intake)
		})

		// Editor and media, shared by partners, couples, and admins.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireRole(models.RolePartner, models.RoleCouple, models.RoleAdmin))

			r.Get("/weddings", h.Editor.Weddings)
			r.Post("/weddings/{id}/editor", h.Editor.Open)
			r.Get("/weddings/{id}/qr.png", h.Editor.QRCode)

			r.Route("/editor/{sessionID}", func(r chi.Router) {
				r.Get("/", h.Editor.State)
				r.Delete("/", h.Editor.Close)
				r.Put("/field", h.Editor.SetField)
				r.Post("/field", h.Editor.CommitField)
				r.Post("/lists/{section}", h.Editor.AddItem)
				r.Put("/lists/{section}/{itemID}", h.Editor.UpdateItem)
				r.Delete("/lists/{section}/{itemID}", h.Editor.RemoveItem)
				r.Put("/template", h.Editor.PreviewTemplate)
				r.Post("/template", h.Editor.CommitTemplate)
				r.Post("/save", h.Editor.Save)
				r.Post("/reload", h.Editor.Reload)
				r.Post("/discard", h.Editor.Discard)
				r.Get("/preview", h.Editor.Preview)
				r.Get("/notifications", h.Editor.Notifications)
			})

			r.Route("/media", func(r chi.Router) {
				r.Get("/", h.Media.List)
				r.Post("/", h.Media.Upload)
				r.Delete("/{id}", h.Media.Delete)
			})
		})

		// Admin portal.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Route("/requests", func(r chi.Router) {
				r.Get("/", h.Admin.Requests)
				r.Post("/{id}/approve", h.Admin.ApproveRequest)
				r.Post("/{id}/reject", h.Admin.RejectRequest)
			})

			r.Route("/partners", func(r chi.Router) {
				r.Get("/", h.Admin.Partners)
				r.Post("/", h.Admin.CreatePartner)
				r.Post("/{id}/disable", h.Admin.DisablePartner)
				r.Post("/{id}/enable", h.Admin.EnablePartner)
			})

			r.Route("/cards", func(r chi.Router) {
				r.Get("/", h.Admin.Cards)
				r.Post("/", h.Admin.CreateCard)
				r.Put("/{id}", h.Admin.UpdateCard)
				r.Delete("/{id}", h.Admin.DeleteCard)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
