// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"shutterpress/internal/middleware"
	"shutterpress/internal/models"
	"shutterpress/internal/session"
	"shutterpress/internal/store"
)

// UserStore is the user persistence the handlers need.
type UserStore interface {
	Create(ctx context.Context, name, password string, role models.Role) (*models.User, error)
	FindByName(ctx context.Context, name string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, id int64, c store.UserChanges) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
}

// Sessions creates, rewrites and destroys login sessions.
type Sessions interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Update(ctx context.Context, r *http.Request, data *session.Data) error
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
	RevokeUser(ctx context.Context, userID int64) (int, error)
}

// Users groups registration, profile and login handlers.
type Users struct {
	users    UserStore
	sessions Sessions
}

// NewUsers creates a new Users handler group.
func NewUsers(users UserStore, sessions Sessions) *Users {
	return &Users{users: users, sessions: sessions}
}

type credentials struct {
	Name     string `json:"name" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Register creates an author account.
func (h *Users) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.users.Create(r.Context(), req.Name, req.Password, models.RoleAuthor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("user registered", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, user)
}

// Show returns a user's public profile.
func (h *Users) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		writeError(w, r, ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Me returns the signed-in user.
func (h *Users) Me(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromCtx(r.Context())
	if p.IsAnonymous() {
		writeError(w, r, ErrUnauthorized)
		return
	}
	user, err := h.users.FindByID(r.Context(), p.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		writeError(w, r, ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Login checks credentials and starts a session.
func (h *Users) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.users.FindByName(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil || !h.users.CheckPassword(user, req.Password) {
		slog.Warn("login failed", "name", req.Name)
		writeError(w, r, fmt.Errorf("%w: invalid name or password", ErrUnauthorized))
		return
	}

	if _, err := h.sessions.Create(r.Context(), w, &session.Data{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
	}); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("user logged in", "user_id", user.ID)

	writeJSON(w, http.StatusOK, user)
}

type updateUserRequest struct {
	Password string `json:"password" validate:"required"`
	Update   struct {
		Name     *string `json:"name" validate:"omitnil,min=3,max=50"`
		Password *string `json:"password" validate:"omitnil,min=8,max=72"`
	} `json:"update"`
}

// Update changes the signed-in user's name or password. The current
// password is required. A new password signs the user out everywhere.
func (h *Users) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := middleware.PrincipalFromCtx(ctx)
	if p.IsAnonymous() {
		writeError(w, r, ErrUnauthorized)
		return
	}

	var req updateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Update.Name == nil && req.Update.Password == nil {
		writeError(w, r, fmt.Errorf("%w: nothing to update", ErrBadRequest))
		return
	}

	user, err := h.users.FindByID(ctx, p.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil || !h.users.CheckPassword(user, req.Password) {
		writeError(w, r, fmt.Errorf("%w: invalid password", ErrUnauthorized))
		return
	}

	user, err = h.users.Update(ctx, p.ID, store.UserChanges{
		Name:     req.Update.Name,
		Password: req.Update.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		writeError(w, r, ErrUnauthorized)
		return
	}

	if req.Update.Password != nil {
		n, err := h.sessions.RevokeUser(ctx, user.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		slog.Info("password changed, sessions revoked", "user_id", user.ID, "sessions", n)
	} else if sess := middleware.SessionFromCtx(ctx); sess != nil {
		next := *sess
		next.Name = user.Name
		if err := h.sessions.Update(ctx, r, &next); err != nil {
			slog.Warn("session rename failed", "user_id", user.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, user)
}

// Logout ends the current session.
func (h *Users) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
