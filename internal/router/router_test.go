// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration and
// middleware chains.
package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shutterpress/internal/handlers"
	"shutterpress/internal/listing"
	"shutterpress/internal/middleware"
	"shutterpress/internal/models"
	"shutterpress/internal/session"
)

// headerSessions resolves the session from the X-Test-User header.
type headerSessions map[string]*session.Data

func (s headerSessions) Get(_ context.Context, r *http.Request) (*session.Data, error) {
	return s[r.Header.Get("X-Test-User")], nil
}

// listOnly serves List; any other store call panics.
type listOnly struct {
	handlers.PostStore
	got listing.Options
}

func (l *listOnly) List(_ context.Context, opts listing.Options) ([]models.Post, int, error) {
	l.got = opts
	return []models.Post{}, 42, nil
}

type memRecorder struct{ entries []*models.AccessLog }

func (m *memRecorder) Log(_ context.Context, l *models.AccessLog) { m.entries = append(m.entries, l) }

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

type fixture struct {
	router   http.Handler
	posts    *listOnly
	recorder *memRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{posts: &listOnly{}, recorder: &memRecorder{}}
	sessions := headerSessions{
		"admin":  {UserID: 1, Name: "admin", Role: models.RoleAdmin},
		"author": {UserID: 2, Name: "author", Role: models.RoleAuthor},
	}
	limiter := middleware.NewRateLimiter(2, time.Minute)
	t.Cleanup(limiter.Stop)

	f.router = New(
		Options{AllowOrigin: "*", PostsPerPage: 5},
		sessions,
		middleware.NewAccess(f.recorder, nil),
		limiter,
		Handlers{
			Posts:     handlers.NewPosts(f.posts, nil, nil, nil, nil),
			AuditLogs: handlers.NewAuditLogs(nil, nil),
			Users:     handlers.NewUsers(nil, nil),
			Search:    handlers.NewSearch(nil, nil, nil),
			Dashboard: handlers.NewDashboard(nil),
			Health:    handlers.Health(okPinger{}),
		},
	)
	return f
}

func (f *fixture) do(method, target, user string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, nil)
	if user != "" {
		r.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, r)
	return w
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/health", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	if w.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options: got %q", got)
	}
	if got := w.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("Strict-Transport-Security without HSTS: got %q", got)
	}
}

func TestPostsListing(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/posts?page=3&sort=earliest&manage=true", "author")

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %s)", w.Code, w.Body)
	}
	if got := w.Header().Get("X-Total-Count"); got != "42" {
		t.Errorf("X-Total-Count: got %q, want 42", got)
	}

	opts := f.posts.got
	if opts.Pagination != (listing.Pagination{Limit: 5, Offset: 10}) {
		t.Errorf("pagination: got %+v", opts.Pagination)
	}
	if owner, ok := opts.Filter.(listing.OwnerFilter); !ok || owner.UserID != 2 {
		t.Errorf("filter: got %#v, want owner 2", opts.Filter)
	}

	if len(f.recorder.entries) != 1 || f.recorder.entries[0].Action != "list_posts" {
		t.Fatalf("access log: got %+v", f.recorder.entries)
	}
}

func TestPostsListingRejectsBadStatus(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/posts?status=bogus", "")

	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
	if len(f.recorder.entries) != 0 {
		t.Error("rejected request was access logged")
	}
}

func TestAuthGroups(t *testing.T) {
	tests := []struct {
		method, target, user string
		want                 int
	}{
		{http.MethodPost, "/posts", "", http.StatusUnauthorized},
		{http.MethodPatch, "/posts/1", "", http.StatusUnauthorized},
		{http.MethodDelete, "/posts/1/tag", "", http.StatusUnauthorized},
		{http.MethodGet, "/audit-logs", "", http.StatusUnauthorized},
		{http.MethodGet, "/dashboard/access-counts", "", http.StatusUnauthorized},
		{http.MethodGet, "/dashboard/access-counts/read_post", "author", http.StatusForbidden},
		{http.MethodGet, "/me", "", http.StatusUnauthorized},
		{http.MethodPatch, "/users", "", http.StatusUnauthorized},
		{http.MethodPost, "/audit-logs", "author", http.StatusForbidden},
		{http.MethodDelete, "/audit-logs/1", "author", http.StatusForbidden},
		{http.MethodPut, "/posts/1", "admin", http.StatusMethodNotAllowed},
		{http.MethodGet, "/nowhere", "", http.StatusNotFound},
	}

	f := newFixture(t)
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			if w := f.do(tt.method, tt.target, tt.user); w.Code != tt.want {
				t.Errorf("got %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)
	r := httptest.NewRequest(http.MethodOptions, "/posts", nil)
	r.Header.Set("Origin", "https://photos.example.com")
	r.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, r)

	if w.Code != http.StatusNoContent {
		t.Errorf("status: got %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(got, "X-Total-Count") {
		t.Errorf("expose headers: got %q", got)
	}
}

func TestLoginRateLimited(t *testing.T) {
	f := newFixture(t)

	// Empty bodies are rejected before the user store is consulted.
	for i := 0; i < 2; i++ {
		if w := f.do(http.MethodPost, "/login", ""); w.Code != http.StatusBadRequest {
			t.Fatalf("attempt %d: got %d, want 400", i+1, w.Code)
		}
	}
	w := f.do(http.MethodPost, "/login", "")
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("third attempt: got %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
}
