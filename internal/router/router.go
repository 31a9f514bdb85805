// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// admin console. Everything under /dashboard requires an authenticated,
// 2FA-verified SUPER_ADMIN session.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fastadmin/internal/handlers"
	"fastadmin/internal/middleware"
	"fastadmin/internal/session"
	"fastadmin/web"
)

// loginRateLimit throttles credential guessing: 10 attempts per client IP
// per minute.
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// Options carries the router's cross-cutting settings.
type Options struct {
	// SecureCookies marks CSRF cookies Secure; true behind TLS.
	SecureCookies bool
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, auth *handlers.Auth, admin *handlers.Admin, prompts *handlers.Prompts, storage *handlers.Storage, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Static assets from the embedded filesystem.
	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	}

	csrf := middleware.NewCSRF(opts.SecureCookies)
	loginLimiter := middleware.NewRateLimiter(loginRateLimit, loginRateWindow)

	// Auth pages — accessible without a session.
	r.Group(func(r chi.Router) {
		r.Use(csrf)

		r.Get("/login", auth.LoginPage)
		r.With(loginLimiter.Middleware).Post("/login", auth.LoginSubmit)
		r.Post("/logout", auth.Logout)

		// 2FA — requires a session but NOT completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa/setup", auth.TwoFASetupPage)
			r.Post("/2fa/setup", auth.TwoFASetupSubmit)
			r.Get("/2fa/verify", auth.TwoFAVerifyPage)
			r.Post("/2fa/verify", auth.TwoFAVerifySubmit)
		})
	})

	// Authenticated, 2FA-verified console area.
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(csrf)
		r.Use(middleware.RequireAuth)
		r.Use(middleware.Require2FA)
		r.Use(middleware.RequireSuperAdmin)

		r.Get("/", admin.Dashboard)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", admin.Users)
			r.Post("/{id}/role", admin.UpdateUserRole)
			r.Delete("/{id}", admin.DeleteUser)
		})

		r.Route("/websites", func(r chi.Router) {
			r.Get("/", admin.Websites)
			r.Get("/{id}", admin.EditWebsite)
			r.Post("/{id}", admin.UpdateWebsite)
			r.Put("/{id}/approve-ads", admin.ApproveAds)
		})

		r.Route("/domains", func(r chi.Router) {
			r.Get("/", admin.Domains)
			r.Delete("/{id}", admin.DeleteDomain)
		})

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", admin.Leads)
			r.Delete("/{id}", admin.DeleteLead)
		})

		r.Route("/prompts", func(r chi.Router) {
			r.Get("/", prompts.List)
			r.Get("/new", prompts.NewForm)
			r.Post("/", prompts.Create)
			r.Get("/{id}/edit", prompts.EditForm)
			r.Post("/{id}", prompts.Update)
			r.Delete("/{id}", prompts.Delete)
		})

		r.Route("/storage", func(r chi.Router) {
			r.Get("/", storage.Overview)

			// The provider toggle sits on a static segment; chi matches it
			// before the {websiteID} wildcard.
			r.Get("/provider", storage.ProviderPage)
			r.Post("/provider", storage.SetProvider)

			r.Get("/{websiteID}", storage.Detail)
			r.Delete("/{websiteID}/all-content", storage.WipeContent)
			r.Delete("/{websiteID}/section/{sectionID}", storage.DeleteSection)
			r.Delete("/{websiteID}/block/{blockID}", storage.DeleteBlock)
		})
	})

	// The root redirects into the console.
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
