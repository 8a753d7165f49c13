// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// shutterpress API. It organizes routes into public, authenticated and
// admin groups with appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"shutterpress/internal/handlers"
	"shutterpress/internal/middleware"
	"shutterpress/internal/models"
)

// Options carries the request-independent settings the routes need.
type Options struct {
	AllowOrigin  string
	PostsPerPage int
	// HSTS adds Strict-Transport-Security to every response.
	HSTS bool
}

// Handlers groups the endpoint handlers mounted by New.
type Handlers struct {
	Posts     *handlers.Posts
	AuditLogs *handlers.AuditLogs
	Users     *handlers.Users
	Search    *handlers.Search
	Dashboard *handlers.Dashboard
	Health    http.HandlerFunc
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. loginLimiter may be nil.
func New(opts Options, sessions middleware.SessionGetter, access *middleware.Access, loginLimiter *middleware.RateLimiter, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders(opts.HSTS))
	r.Use(middleware.CORS(opts.AllowOrigin))
	r.Use(middleware.LoadSession(sessions))

	r.Get("/health", h.Health)

	// Posts
	r.Route("/posts", func(r chi.Router) {
		r.With(
			middleware.ListingOptions(opts.PostsPerPage),
			access.Log(models.ActionListPosts, models.ResourcePost, ""),
		).Get("/", h.Posts.Index)
		r.With(access.Log(models.ActionReadPost, models.ResourcePost, "postId")).Get("/{postId}", h.Posts.Show)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/", h.Posts.Create)
			r.Patch("/{postId}", h.Posts.Update)
			r.Delete("/{postId}", h.Posts.Delete)
			r.Post("/{postId}/tag", h.Posts.AttachTag)
			r.Delete("/{postId}/tag", h.Posts.DetachTag)
		})
	})

	// Audit logs
	r.Route("/audit-logs", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.AuditLogs.Index)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Post("/", h.AuditLogs.Create)
			r.Delete("/{auditLogId}", h.AuditLogs.Delete)
		})
	})

	// Search
	r.Get("/search/tags", h.Search.Tags)
	r.Get("/search/cameras", h.Search.Cameras)
	r.Get("/search/lens", h.Search.Lenses)
	r.Get("/search/users", h.Search.Users)

	// Dashboard
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/access-counts", h.Dashboard.AccessCounts)
		r.Get("/access-counts/{action}", h.Dashboard.AccessCountsByAction)
	})

	// Users and sessions
	r.Post("/users", h.Users.Register)
	r.With(access.Log(models.ActionReadUser, models.ResourceUser, "userId")).Get("/users/{userId}", h.Users.Show)
	r.With(middleware.RequireAuth).Patch("/users", h.Users.Update)
	r.With(middleware.RequireAuth).Get("/me", h.Users.Me)
	r.Group(func(r chi.Router) {
		if loginLimiter != nil {
			r.Use(loginLimiter.Middleware)
		}
		r.Post("/login", h.Users.Login)
	})
	r.Post("/logout", h.Users.Logout)

	return r
}
