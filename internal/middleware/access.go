// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"shutterpress/internal/cache"
	"shutterpress/internal/models"
)

// AccessRecorder persists access log entries.
type AccessRecorder interface {
	Log(ctx context.Context, l *models.AccessLog)
}

// AccessPublisher announces recorded access log entries.
type AccessPublisher interface {
	AccessLogged(ctx context.Context, ev cache.AccessEvent)
}

// Access records who performed an action on which resource.
type Access struct {
	recorder  AccessRecorder
	publisher AccessPublisher
}

// NewAccess creates an access logger. publisher may be nil.
func NewAccess(recorder AccessRecorder, publisher AccessPublisher) *Access {
	return &Access{recorder: recorder, publisher: publisher}
}

// Log returns middleware recording action after a successful (< 400)
// response. When idParam names a chi URL parameter holding a numeric id,
// the entry references that resource.
func (a *Access) Log(action, resourceType, idParam string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := wrapWriter(w)
			next.ServeHTTP(wrapped, r)
			if wrapped.statusCode >= http.StatusBadRequest {
				return
			}

			p := PrincipalFromCtx(r.Context())
			entry := &models.AccessLog{
				UserName:     p.Name,
				Action:       action,
				ResourceType: resourceType,
				Payload:      r.URL.RawQuery,
				IP:           clientIP(r),
				Origin:       r.Header.Get("Origin"),
				UserAgent:    r.UserAgent(),
				Referer:      r.Referer(),
			}
			if !p.IsAnonymous() {
				entry.UserID = &p.ID
			}
			if idParam != "" {
				if id, err := strconv.ParseInt(chi.URLParam(r, idParam), 10, 64); err == nil {
					entry.ResourceID = &id
				}
			}
			if id, ok := RequestIDFromCtx(r.Context()); ok {
				entry.RequestID = &id
			}

			ctx := context.WithoutCancel(r.Context())
			a.recorder.Log(ctx, entry)
			if a.publisher != nil {
				ev := cache.AccessEvent{Action: action, ResourceType: resourceType, UserID: p.ID}
				if entry.ResourceID != nil {
					ev.ResourceID = *entry.ResourceID
				}
				a.publisher.AccessLogged(ctx, ev)
			}
		})
	}
}
