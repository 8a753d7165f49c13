// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"shutterpress/internal/models"
	"shutterpress/internal/session"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionGetter loads the session attached to a request.
type SessionGetter interface {
	Get(ctx context.Context, r *http.Request) (*session.Data, error)
}

// WithSession returns a copy of ctx carrying data as the request session.
func WithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, sessionKey, data)
}

// SessionFromCtx returns the session loaded for the request, or nil.
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(sessionKey).(*session.Data)
	return data
}

// PrincipalFromCtx returns who the request acts as; anonymous when no
// session is loaded.
func PrincipalFromCtx(ctx context.Context) models.Principal {
	return SessionFromCtx(ctx).Principal()
}

// LoadSession attaches the caller's session to the request context. It
// never rejects: a missing session or a failing store leaves the request
// anonymous, and the route decides whether that is enough.
func LoadSession(store SessionGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			switch {
			case err != nil:
				attrs := []any{"error", err, "path", r.URL.Path}
				if id, ok := RequestIDFromCtx(r.Context()); ok {
					attrs = append(attrs, "request_id", id.String())
				}
				slog.Warn("session lookup failed, continuing anonymously", attrs...)
			case data != nil:
				r = r.WithContext(WithSession(r.Context(), data))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth answers 401 unless LoadSession found a session.
func RequireAuth(next http.Handler) http.Handler {
	return guard(next, func(p models.Principal) (int, string) {
		if p.IsAnonymous() {
			return http.StatusUnauthorized, "authentication required"
		}
		return 0, ""
	})
}

// RequireAdmin answers 403 unless the principal holds the admin role.
// Anonymous callers get 401.
func RequireAdmin(next http.Handler) http.Handler {
	return guard(next, func(p models.Principal) (int, string) {
		switch {
		case p.IsAnonymous():
			return http.StatusUnauthorized, "authentication required"
		case !p.Admin:
			return http.StatusForbidden, "admin only"
		}
		return 0, ""
	})
}

// guard rejects the request with the status and message returned by
// check, or passes it on when check returns 0.
func guard(next http.Handler, check func(models.Principal) (int, string)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status, msg := check(PrincipalFromCtx(r.Context())); status != 0 {
			writeError(w, status, msg)
			return
		}
		next.ServeHTTP(w, r)
	})
}
